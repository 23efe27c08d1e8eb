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

// ExamService manages exams and derives percentage and grade on results
// before every persist.
type ExamService struct {
	examRepo  repository.ExamRepository
	classRepo repository.ClassRepository
}

func NewExamService(examRepo repository.ExamRepository, classRepo repository.ClassRepository) *ExamService {
	return &ExamService{
		examRepo:  examRepo,
		classRepo: classRepo,
	}
}

func (s *ExamService) Create(ctx context.Context, request *domain.CreateExamRequest, createdBy uuid.UUID) (*domain.Exam, error) {
	if !request.TotalMarks.IsPositive() {
		return nil, customError.WrapValidation("total marks must be greater than zero")
	}
	if request.PassingMarks.GreaterThan(request.TotalMarks) {
		return nil, customError.WrapValidation("passing marks cannot exceed total marks")
	}

	if _, err := s.classRepo.GetByID(ctx, request.ClassID); err != nil {
		return nil, wrapLookupError(err, "class", request.ClassID.String())
	}

	now := time.Now()
	exam := &domain.Exam{
		ID:              uuid.New(),
		ExamName:        request.ExamName,
		ExamType:        request.ExamType,
		ClassID:         request.ClassID,
		Subject:         request.Subject,
		TotalMarks:      request.TotalMarks,
		PassingMarks:    request.PassingMarks,
		ExamDate:        request.ExamDate,
		DurationMinutes: request.DurationMinutes,
		CreatedBy:       createdBy,
		CreatedAt:       now,
		UpdatedAt:       now,
		Results:         []*domain.ExamResult{},
	}

	if err := s.examRepo.Create(ctx, exam); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return exam, nil
}

func (s *ExamService) Get(ctx context.Context, id uuid.UUID) (*domain.Exam, error) {
	exam, err := s.examRepo.GetByID(ctx, id)
	if err != nil {
		return nil, wrapLookupError(err, "exam", id.String())
	}
	return exam, nil
}

func (s *ExamService) List(ctx context.Context) ([]*domain.Exam, error) {
	exams, err := s.examRepo.List(ctx)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return exams, nil
}

// Update edits the exam fields. When the total marks change, every stored
// result is rederived against the new total.
func (s *ExamService) Update(ctx context.Context, id uuid.UUID, request *domain.UpdateExamRequest) (*domain.Exam, error) {
	exam, err := s.examRepo.GetByID(ctx, id)
	if err != nil {
		return nil, wrapLookupError(err, "exam", id.String())
	}

	totalChanged := false
	if request.ExamName != nil {
		exam.ExamName = *request.ExamName
	}
	if request.ExamType != nil {
		exam.ExamType = *request.ExamType
	}
	if request.Subject != nil {
		exam.Subject = *request.Subject
	}
	if request.TotalMarks != nil {
		if !request.TotalMarks.IsPositive() {
			return nil, customError.WrapValidation("total marks must be greater than zero")
		}
		totalChanged = !exam.TotalMarks.Equal(*request.TotalMarks)
		exam.TotalMarks = *request.TotalMarks
	}
	if request.PassingMarks != nil {
		exam.PassingMarks = *request.PassingMarks
	}
	if request.ExamDate != nil {
		exam.ExamDate = *request.ExamDate
	}
	if request.DurationMinutes != nil {
		exam.DurationMinutes = request.DurationMinutes
	}

	if exam.PassingMarks.GreaterThan(exam.TotalMarks) {
		return nil, customError.WrapValidation("passing marks cannot exceed total marks")
	}

	if err := s.examRepo.Update(ctx, exam); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	if totalChanged && len(exam.Results) > 0 {
		for _, result := range exam.Results {
			result.Percentage = utils.CalculatePercentage(result.MarksObtained, exam.TotalMarks)
			result.Grade = utils.CalculateGrade(result.Percentage)
		}
		if err := s.examRepo.UpsertResults(ctx, exam.ID, exam.Results); err != nil {
			return nil, customError.WrapDatabaseError(err)
		}
	}

	return exam, nil
}

func (s *ExamService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.examRepo.GetByID(ctx, id); err != nil {
		return wrapLookupError(err, "exam", id.String())
	}

	if err := s.examRepo.Delete(ctx, id); err != nil {
		return customError.WrapDatabaseError(err)
	}

	return nil
}

// RecordResults upserts marks for the listed students, deriving percentage
// and grade from the exam's total. Results of unlisted students stay as
// they are.
func (s *ExamService) RecordResults(ctx context.Context, examID uuid.UUID, request *domain.RecordResultsRequest) (*domain.Exam, error) {
	exam, err := s.examRepo.GetByID(ctx, examID)
	if err != nil {
		return nil, wrapLookupError(err, "exam", examID.String())
	}

	results := make([]*domain.ExamResult, 0, len(request.Results))
	for _, input := range request.Results {
		if input.MarksObtained.IsNegative() {
			return nil, customError.WrapValidation("marks obtained cannot be negative")
		}
		percentage := utils.CalculatePercentage(input.MarksObtained, exam.TotalMarks)
		results = append(results, &domain.ExamResult{
			ID:            uuid.New(),
			ExamID:        examID,
			StudentID:     input.StudentID,
			MarksObtained: input.MarksObtained,
			Percentage:    percentage,
			Grade:         utils.CalculateGrade(percentage),
			Remarks:       input.Remarks,
		})
	}

	if err := s.examRepo.UpsertResults(ctx, examID, results); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	exam, err = s.examRepo.GetByID(ctx, examID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return exam, nil
}
