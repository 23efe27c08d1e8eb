package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/prasetyo/school-engine/internal/domain"
	customError "github.com/prasetyo/school-engine/pkg/errors"
	"github.com/prasetyo/school-engine/tests/mocks"
)

func newSchoolFixture() (*SchoolService, *mocks.MockStudentRepository, *mocks.MockTeacherRepository, *mocks.MockClassRepository, *mocks.MockSequencer) {
	studentRepo := new(mocks.MockStudentRepository)
	teacherRepo := new(mocks.MockTeacherRepository)
	classRepo := new(mocks.MockClassRepository)
	sequencer := new(mocks.MockSequencer)
	svc := NewSchoolService(studentRepo, teacherRepo, classRepo, sequencer)
	return svc, studentRepo, teacherRepo, classRepo, sequencer
}

func TestCreateStudentAssignsNumber(t *testing.T) {
	svc, studentRepo, _, _, sequencer := newSchoolFixture()

	sequencer.On("Next", mock.Anything, "student", mock.Anything).Return(int64(7), nil)
	studentRepo.On("Create", mock.Anything, mock.MatchedBy(func(s *domain.Student) bool {
		return len(s.StudentNumber) == 11 && s.StudentNumber[:3] == "STU" &&
			s.Status == domain.StudentStatusActive
	})).Return(nil)
	studentRepo.On("GetByID", mock.Anything, mock.Anything).Return(&domain.StudentDetail{}, nil)

	_, err := svc.CreateStudent(context.Background(), &domain.CreateStudentRequest{
		UserID:          uuid.New(),
		AdmissionNumber: "ADM-001",
		Gender:          domain.GenderFemale,
		ParentName:      "Parent",
		ParentPhone:     "555-0100",
	})

	assert.NoError(t, err)
	studentRepo.AssertExpectations(t)
}

func TestCreateStudentDuplicateAdmission(t *testing.T) {
	svc, studentRepo, _, _, sequencer := newSchoolFixture()

	sequencer.On("Next", mock.Anything, "student", mock.Anything).Return(int64(8), nil)
	studentRepo.On("Create", mock.Anything, mock.Anything).Return(&pq.Error{Code: "23505"})

	_, err := svc.CreateStudent(context.Background(), &domain.CreateStudentRequest{
		UserID:          uuid.New(),
		AdmissionNumber: "ADM-001",
		Gender:          domain.GenderMale,
		ParentName:      "Parent",
		ParentPhone:     "555-0100",
	})

	assert.Error(t, err)
	assert.Equal(t, customError.ErrCodeConflict, customError.CodeOf(err))
}

func TestEnrollStudent(t *testing.T) {
	classID := uuid.New()
	studentID := uuid.New()

	t.Run("enrols under capacity", func(t *testing.T) {
		svc, studentRepo, _, classRepo, _ := newSchoolFixture()
		classRepo.On("GetByID", mock.Anything, classID).Return(&domain.Class{ID: classID, Capacity: 40}, nil)
		studentRepo.On("GetByID", mock.Anything, studentID).Return(&domain.StudentDetail{}, nil)
		studentRepo.On("CountByClass", mock.Anything, classID).Return(39, nil)
		studentRepo.On("SetClass", mock.Anything, studentID, mock.Anything).Return(nil)

		_, err := svc.EnrollStudent(context.Background(), classID, studentID)

		assert.NoError(t, err)
		studentRepo.AssertCalled(t, "SetClass", mock.Anything, studentID, mock.Anything)
	})

	t.Run("rejects enrolment at capacity", func(t *testing.T) {
		svc, studentRepo, _, classRepo, _ := newSchoolFixture()
		classRepo.On("GetByID", mock.Anything, classID).Return(&domain.Class{ID: classID, Capacity: 40}, nil)
		studentRepo.On("GetByID", mock.Anything, studentID).Return(&domain.StudentDetail{}, nil)
		studentRepo.On("CountByClass", mock.Anything, classID).Return(40, nil)

		_, err := svc.EnrollStudent(context.Background(), classID, studentID)

		assert.Error(t, err)
		assert.Equal(t, customError.ErrCodeValidation, customError.CodeOf(err))
		assert.Contains(t, customError.MessageOf(err), "capacity")
		studentRepo.AssertNotCalled(t, "SetClass", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestRemoveStudentNotEnrolled(t *testing.T) {
	svc, studentRepo, _, classRepo, _ := newSchoolFixture()
	classID := uuid.New()
	studentID := uuid.New()
	otherClass := uuid.New()

	classRepo.On("GetByID", mock.Anything, classID).Return(&domain.Class{ID: classID}, nil)
	studentRepo.On("GetByID", mock.Anything, studentID).Return(&domain.StudentDetail{
		Student: domain.Student{ID: studentID, ClassID: &otherClass},
	}, nil)

	err := svc.RemoveStudent(context.Background(), classID, studentID)

	assert.Error(t, err)
	assert.Equal(t, customError.ErrCodeValidation, customError.CodeOf(err))
}

func TestPromoteClass(t *testing.T) {
	t.Run("same class rejected", func(t *testing.T) {
		svc, _, _, _, _ := newSchoolFixture()
		classID := uuid.New()

		_, err := svc.PromoteClass(context.Background(), &domain.PromoteClassRequest{
			FromClassID: classID,
			ToClassID:   classID,
		})

		assert.Error(t, err)
		assert.Equal(t, customError.ErrCodeValidation, customError.CodeOf(err))
	})

	t.Run("returns promoted count", func(t *testing.T) {
		svc, studentRepo, _, classRepo, _ := newSchoolFixture()
		from := uuid.New()
		to := uuid.New()

		classRepo.On("GetByID", mock.Anything, from).Return(&domain.Class{ID: from}, nil)
		classRepo.On("GetByID", mock.Anything, to).Return(&domain.Class{ID: to}, nil)
		studentRepo.On("Promote", mock.Anything, from, to).Return(23, nil)

		promoted, err := svc.PromoteClass(context.Background(), &domain.PromoteClassRequest{
			FromClassID: from,
			ToClassID:   to,
		})

		assert.NoError(t, err)
		assert.Equal(t, 23, promoted)
	})
}

func TestCreateClassDefaultsCapacity(t *testing.T) {
	svc, _, _, classRepo, _ := newSchoolFixture()

	classRepo.On("Create", mock.Anything, mock.MatchedBy(func(c *domain.Class) bool {
		return c.Capacity == domain.DefaultClassCapacity && c.IsActive
	})).Return(nil)
	classRepo.On("GetByID", mock.Anything, mock.Anything).Return(&domain.Class{}, nil)

	_, err := svc.CreateClass(context.Background(), &domain.CreateClassRequest{
		ClassName:    "Grade 5",
		Section:      "A",
		AcademicYear: "2026-2027",
	})

	assert.NoError(t, err)
	classRepo.AssertExpectations(t)
}
