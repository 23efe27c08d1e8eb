package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/prasetyo/school-engine/internal/domain"
	"github.com/prasetyo/school-engine/internal/repository"
	customError "github.com/prasetyo/school-engine/pkg/errors"
	"github.com/prasetyo/school-engine/pkg/utils"
)

// SchoolService covers student, teacher and class administration.
type SchoolService struct {
	studentRepo repository.StudentRepository
	teacherRepo repository.TeacherRepository
	classRepo   repository.ClassRepository
	sequencer   Sequencer
}

func NewSchoolService(
	studentRepo repository.StudentRepository,
	teacherRepo repository.TeacherRepository,
	classRepo repository.ClassRepository,
	sequencer Sequencer,
) *SchoolService {
	return &SchoolService{
		studentRepo: studentRepo,
		teacherRepo: teacherRepo,
		classRepo:   classRepo,
		sequencer:   sequencer,
	}
}

// Students

func (s *SchoolService) CreateStudent(ctx context.Context, request *domain.CreateStudentRequest) (*domain.StudentDetail, error) {
	now := time.Now()
	seq, err := s.sequencer.Next(ctx, seqKindStudent, now.Year())
	if err != nil {
		return nil, err
	}

	student := &domain.Student{
		ID:               uuid.New(),
		StudentNumber:    utils.FormatStudentNumber(now.Year(), seq),
		UserID:           request.UserID,
		AdmissionNumber:  request.AdmissionNumber,
		AdmissionDate:    now,
		ClassID:          request.ClassID,
		RollNumber:       request.RollNumber,
		DateOfBirth:      request.DateOfBirth,
		Gender:           request.Gender,
		BloodGroup:       request.BloodGroup,
		ParentName:       request.ParentName,
		ParentPhone:      request.ParentPhone,
		ParentEmail:      request.ParentEmail,
		EmergencyContact: request.EmergencyContact,
		PreviousSchool:   request.PreviousSchool,
		MedicalInfo:      request.MedicalInfo,
		Status:           domain.StudentStatusActive,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.studentRepo.Create(ctx, student); err != nil {
		if isUniqueViolation(err) {
			return nil, customError.WrapConflict("a student with this admission number already exists")
		}
		return nil, customError.WrapDatabaseError(err)
	}

	return s.GetStudent(ctx, student.ID)
}

func (s *SchoolService) GetStudent(ctx context.Context, id uuid.UUID) (*domain.StudentDetail, error) {
	student, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, wrapLookupError(err, "student", id.String())
	}
	return student, nil
}

func (s *SchoolService) ListStudents(ctx context.Context) ([]*domain.StudentDetail, error) {
	students, err := s.studentRepo.List(ctx)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return students, nil
}

func (s *SchoolService) UpdateStudent(ctx context.Context, id uuid.UUID, request *domain.UpdateStudentRequest) (*domain.StudentDetail, error) {
	detail, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, wrapLookupError(err, "student", id.String())
	}

	student := detail.Student
	if request.ClassID != nil {
		student.ClassID = request.ClassID
	}
	if request.RollNumber != nil {
		student.RollNumber = request.RollNumber
	}
	if request.BloodGroup != nil {
		student.BloodGroup = request.BloodGroup
	}
	if request.ParentName != nil {
		student.ParentName = *request.ParentName
	}
	if request.ParentPhone != nil {
		student.ParentPhone = *request.ParentPhone
	}
	if request.ParentEmail != nil {
		student.ParentEmail = request.ParentEmail
	}
	if request.EmergencyContact != nil {
		student.EmergencyContact = request.EmergencyContact
	}
	if request.MedicalInfo != nil {
		student.MedicalInfo = request.MedicalInfo
	}
	if request.Status != nil {
		student.Status = *request.Status
	}

	if err := s.studentRepo.Update(ctx, &student); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return s.GetStudent(ctx, id)
}

func (s *SchoolService) DeleteStudent(ctx context.Context, id uuid.UUID) error {
	if _, err := s.studentRepo.GetByID(ctx, id); err != nil {
		return wrapLookupError(err, "student", id.String())
	}

	if err := s.studentRepo.Delete(ctx, id); err != nil {
		return customError.WrapDatabaseError(err)
	}

	return nil
}

// Teachers

func (s *SchoolService) CreateTeacher(ctx context.Context, request *domain.CreateTeacherRequest) (*domain.TeacherDetail, error) {
	now := time.Now()
	seq, err := s.sequencer.Next(ctx, seqKindTeacher, now.Year())
	if err != nil {
		return nil, err
	}

	teacher := &domain.Teacher{
		ID:              uuid.New(),
		TeacherNumber:   utils.FormatTeacherNumber(now.Year(), seq),
		UserID:          request.UserID,
		EmployeeID:      request.EmployeeID,
		JoiningDate:     now,
		Qualification:   request.Qualification,
		ExperienceYears: request.ExperienceYears,
		Subjects:        request.Subjects,
		Specialization:  request.Specialization,
		Salary:          request.Salary,
		DateOfBirth:     request.DateOfBirth,
		Gender:          request.Gender,
		Status:          domain.TeacherStatusActive,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.teacherRepo.Create(ctx, teacher); err != nil {
		if isUniqueViolation(err) {
			return nil, customError.WrapConflict("a teacher with this employee ID already exists")
		}
		return nil, customError.WrapDatabaseError(err)
	}

	return s.GetTeacher(ctx, teacher.ID)
}

func (s *SchoolService) GetTeacher(ctx context.Context, id uuid.UUID) (*domain.TeacherDetail, error) {
	teacher, err := s.teacherRepo.GetByID(ctx, id)
	if err != nil {
		return nil, wrapLookupError(err, "teacher", id.String())
	}
	return teacher, nil
}

func (s *SchoolService) ListTeachers(ctx context.Context) ([]*domain.TeacherDetail, error) {
	teachers, err := s.teacherRepo.List(ctx)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return teachers, nil
}

func (s *SchoolService) UpdateTeacher(ctx context.Context, id uuid.UUID, request *domain.UpdateTeacherRequest) (*domain.TeacherDetail, error) {
	detail, err := s.teacherRepo.GetByID(ctx, id)
	if err != nil {
		return nil, wrapLookupError(err, "teacher", id.String())
	}

	teacher := detail.Teacher
	if request.Qualification != nil {
		teacher.Qualification = *request.Qualification
	}
	if request.ExperienceYears != nil {
		teacher.ExperienceYears = *request.ExperienceYears
	}
	if request.Specialization != nil {
		teacher.Specialization = request.Specialization
	}
	if request.Salary != nil {
		teacher.Salary = request.Salary
	}
	if request.Status != nil {
		teacher.Status = *request.Status
	}

	if err := s.teacherRepo.Update(ctx, &teacher); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return s.GetTeacher(ctx, id)
}

func (s *SchoolService) DeleteTeacher(ctx context.Context, id uuid.UUID) error {
	if _, err := s.teacherRepo.GetByID(ctx, id); err != nil {
		return wrapLookupError(err, "teacher", id.String())
	}

	if err := s.teacherRepo.Delete(ctx, id); err != nil {
		return customError.WrapDatabaseError(err)
	}

	return nil
}

func (s *SchoolService) AssignSubjects(ctx context.Context, id uuid.UUID, subjects []string) (*domain.TeacherDetail, error) {
	if _, err := s.teacherRepo.GetByID(ctx, id); err != nil {
		return nil, wrapLookupError(err, "teacher", id.String())
	}

	if err := s.teacherRepo.UpdateSubjects(ctx, id, subjects); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return s.GetTeacher(ctx, id)
}

// Classes

func (s *SchoolService) CreateClass(ctx context.Context, request *domain.CreateClassRequest) (*domain.Class, error) {
	now := time.Now()

	capacity := request.Capacity
	if capacity == 0 {
		capacity = domain.DefaultClassCapacity
	}

	class := &domain.Class{
		ID:           uuid.New(),
		ClassName:    request.ClassName,
		Section:      request.Section,
		TeacherID:    request.TeacherID,
		AcademicYear: request.AcademicYear,
		Capacity:     capacity,
		Room:         request.Room,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
		Subjects:     buildSubjects(request.Subjects),
	}

	if err := s.classRepo.Create(ctx, class); err != nil {
		if isUniqueViolation(err) {
			return nil, customError.WrapConflict("a class with this name already exists")
		}
		return nil, customError.WrapDatabaseError(err)
	}

	return s.GetClass(ctx, class.ID)
}

func buildSubjects(inputs []domain.ClassSubjectInput) []*domain.ClassSubject {
	subjects := make([]*domain.ClassSubject, 0, len(inputs))
	for _, input := range inputs {
		subjects = append(subjects, &domain.ClassSubject{
			ID:          uuid.New(),
			SubjectName: input.SubjectName,
			TeacherID:   input.TeacherID,
		})
	}
	return subjects
}

func (s *SchoolService) GetClass(ctx context.Context, id uuid.UUID) (*domain.Class, error) {
	class, err := s.classRepo.GetByID(ctx, id)
	if err != nil {
		return nil, wrapLookupError(err, "class", id.String())
	}
	return class, nil
}

func (s *SchoolService) ListClasses(ctx context.Context) ([]*domain.Class, error) {
	classes, err := s.classRepo.List(ctx)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return classes, nil
}

func (s *SchoolService) UpdateClass(ctx context.Context, id uuid.UUID, request *domain.UpdateClassRequest) (*domain.Class, error) {
	class, err := s.classRepo.GetByID(ctx, id)
	if err != nil {
		return nil, wrapLookupError(err, "class", id.String())
	}

	if request.Section != nil {
		class.Section = *request.Section
	}
	if request.TeacherID != nil {
		class.TeacherID = request.TeacherID
	}
	if request.AcademicYear != nil {
		class.AcademicYear = *request.AcademicYear
	}
	if request.Capacity != nil {
		class.Capacity = *request.Capacity
	}
	if request.Room != nil {
		class.Room = request.Room
	}
	if request.IsActive != nil {
		class.IsActive = *request.IsActive
	}

	replaceSubjects := request.Subjects != nil
	if replaceSubjects {
		class.Subjects = buildSubjects(request.Subjects)
	}

	if err := s.classRepo.Update(ctx, class, replaceSubjects); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return s.GetClass(ctx, id)
}

func (s *SchoolService) DeleteClass(ctx context.Context, id uuid.UUID) error {
	if _, err := s.classRepo.GetByID(ctx, id); err != nil {
		return wrapLookupError(err, "class", id.String())
	}

	if err := s.classRepo.Delete(ctx, id); err != nil {
		return customError.WrapDatabaseError(err)
	}

	return nil
}

// EnrollStudent adds a student to the class roster, rejecting enrolment
// past the class capacity.
func (s *SchoolService) EnrollStudent(ctx context.Context, classID, studentID uuid.UUID) (*domain.Class, error) {
	class, err := s.classRepo.GetByID(ctx, classID)
	if err != nil {
		return nil, wrapLookupError(err, "class", classID.String())
	}

	if _, err := s.studentRepo.GetByID(ctx, studentID); err != nil {
		return nil, wrapLookupError(err, "student", studentID.String())
	}

	count, err := s.studentRepo.CountByClass(ctx, classID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	if count >= class.Capacity {
		return nil, customError.WrapValidation("class is at full capacity")
	}

	classRef := classID
	if err := s.studentRepo.SetClass(ctx, studentID, &classRef); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return s.GetClass(ctx, classID)
}

// RemoveStudent drops a student from the class roster.
func (s *SchoolService) RemoveStudent(ctx context.Context, classID, studentID uuid.UUID) error {
	if _, err := s.classRepo.GetByID(ctx, classID); err != nil {
		return wrapLookupError(err, "class", classID.String())
	}

	student, err := s.studentRepo.GetByID(ctx, studentID)
	if err != nil {
		return wrapLookupError(err, "student", studentID.String())
	}
	if student.ClassID == nil || *student.ClassID != classID {
		return customError.WrapValidation("student is not enrolled in this class")
	}

	if err := s.studentRepo.SetClass(ctx, studentID, nil); err != nil {
		return customError.WrapDatabaseError(err)
	}

	return nil
}

// PromoteClass moves every active student of one class to another.
func (s *SchoolService) PromoteClass(ctx context.Context, request *domain.PromoteClassRequest) (int, error) {
	if request.FromClassID == request.ToClassID {
		return 0, customError.WrapValidation("source and target class must differ")
	}

	if _, err := s.classRepo.GetByID(ctx, request.FromClassID); err != nil {
		return 0, wrapLookupError(err, "class", request.FromClassID.String())
	}
	if _, err := s.classRepo.GetByID(ctx, request.ToClassID); err != nil {
		return 0, wrapLookupError(err, "class", request.ToClassID.String())
	}

	promoted, err := s.studentRepo.Promote(ctx, request.FromClassID, request.ToClassID)
	if err != nil {
		return 0, customError.WrapDatabaseError(err)
	}

	return promoted, nil
}
