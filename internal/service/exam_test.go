package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/prasetyo/school-engine/internal/domain"
	customError "github.com/prasetyo/school-engine/pkg/errors"
	"github.com/prasetyo/school-engine/tests/mocks"
)

func newExamFixture() (*ExamService, *mocks.MockExamRepository, *mocks.MockClassRepository) {
	examRepo := new(mocks.MockExamRepository)
	classRepo := new(mocks.MockClassRepository)
	svc := NewExamService(examRepo, classRepo)
	return svc, examRepo, classRepo
}

func TestCreateExam(t *testing.T) {
	classID := uuid.New()
	createdBy := uuid.New()

	base := &domain.CreateExamRequest{
		ExamName:     "Midterm Mathematics",
		ExamType:     domain.ExamTypeMidTerm,
		ClassID:      classID,
		Subject:      "Mathematics",
		TotalMarks:   decimal.NewFromInt(100),
		PassingMarks: decimal.NewFromInt(40),
		ExamDate:     time.Now().AddDate(0, 0, 14),
	}

	t.Run("creates exam", func(t *testing.T) {
		svc, examRepo, classRepo := newExamFixture()
		classRepo.On("GetByID", mock.Anything, classID).Return(&domain.Class{ID: classID}, nil)
		examRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

		exam, err := svc.Create(context.Background(), base, createdBy)

		assert.NoError(t, err)
		assert.Equal(t, "Midterm Mathematics", exam.ExamName)
		assert.Equal(t, createdBy, exam.CreatedBy)
	})

	t.Run("rejects zero total marks", func(t *testing.T) {
		svc, _, _ := newExamFixture()
		req := *base
		req.TotalMarks = decimal.Zero

		_, err := svc.Create(context.Background(), &req, createdBy)

		assert.Error(t, err)
		assert.Equal(t, customError.ErrCodeValidation, customError.CodeOf(err))
	})

	t.Run("rejects passing marks above total", func(t *testing.T) {
		svc, _, _ := newExamFixture()
		req := *base
		req.PassingMarks = decimal.NewFromInt(120)

		_, err := svc.Create(context.Background(), &req, createdBy)

		assert.Error(t, err)
		assert.Equal(t, customError.ErrCodeValidation, customError.CodeOf(err))
	})
}

func TestRecordResults(t *testing.T) {
	examID := uuid.New()

	exam := &domain.Exam{
		ID:         examID,
		TotalMarks: decimal.NewFromInt(80),
		Results:    []*domain.ExamResult{},
	}

	t.Run("derives percentage and grade", func(t *testing.T) {
		svc, examRepo, _ := newExamFixture()
		examRepo.On("GetByID", mock.Anything, examID).Return(exam, nil)
		examRepo.On("UpsertResults", mock.Anything, examID, mock.MatchedBy(func(results []*domain.ExamResult) bool {
			if len(results) != 1 {
				return false
			}
			// 68/80 = 85% => A
			return results[0].Percentage.Equal(decimal.NewFromInt(85)) && results[0].Grade == "A"
		})).Return(nil)

		_, err := svc.RecordResults(context.Background(), examID, &domain.RecordResultsRequest{
			Results: []domain.ExamResultInput{
				{StudentID: uuid.New(), MarksObtained: decimal.NewFromInt(68)},
			},
		})

		assert.NoError(t, err)
		examRepo.AssertExpectations(t)
	})

	t.Run("rejects negative marks", func(t *testing.T) {
		svc, examRepo, _ := newExamFixture()
		examRepo.On("GetByID", mock.Anything, examID).Return(exam, nil)

		_, err := svc.RecordResults(context.Background(), examID, &domain.RecordResultsRequest{
			Results: []domain.ExamResultInput{
				{StudentID: uuid.New(), MarksObtained: decimal.NewFromInt(-5)},
			},
		})

		assert.Error(t, err)
		assert.Equal(t, customError.ErrCodeValidation, customError.CodeOf(err))
	})
}

func TestUpdateExamRederivesResults(t *testing.T) {
	examID := uuid.New()
	newTotal := decimal.NewFromInt(50)

	exam := &domain.Exam{
		ID:         examID,
		TotalMarks: decimal.NewFromInt(100),
		Results: []*domain.ExamResult{
			{
				ID:            uuid.New(),
				ExamID:        examID,
				StudentID:     uuid.New(),
				MarksObtained: decimal.NewFromInt(45),
				Percentage:    decimal.NewFromInt(45),
				Grade:         "D",
			},
		},
	}

	svc, examRepo, _ := newExamFixture()
	examRepo.On("GetByID", mock.Anything, examID).Return(exam, nil)
	examRepo.On("Update", mock.Anything, mock.Anything).Return(nil)
	examRepo.On("UpsertResults", mock.Anything, examID, mock.MatchedBy(func(results []*domain.ExamResult) bool {
		// 45/50 = 90% => A+
		return results[0].Percentage.Equal(decimal.NewFromInt(90)) && results[0].Grade == "A+"
	})).Return(nil)

	updated, err := svc.Update(context.Background(), examID, &domain.UpdateExamRequest{
		TotalMarks: &newTotal,
	})

	assert.NoError(t, err)
	assert.True(t, updated.TotalMarks.Equal(newTotal))
	examRepo.AssertExpectations(t)
}
