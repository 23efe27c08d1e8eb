package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/prasetyo/school-engine/internal/domain"
	customError "github.com/prasetyo/school-engine/pkg/errors"
	"github.com/prasetyo/school-engine/tests/mocks"
)

func newAttendanceFixture() (*AttendanceService, *mocks.MockAttendanceRepository, *mocks.MockClassRepository) {
	attendanceRepo := new(mocks.MockAttendanceRepository)
	classRepo := new(mocks.MockClassRepository)
	svc := NewAttendanceService(attendanceRepo, classRepo)
	return svc, attendanceRepo, classRepo
}

func TestMarkAttendance(t *testing.T) {
	classID := uuid.New()
	markedBy := uuid.New()

	request := &domain.MarkAttendanceRequest{
		ClassID: classID,
		Date:    time.Date(2026, 4, 10, 9, 30, 0, 0, time.UTC),
		Records: []domain.AttendanceRecordInput{
			{StudentID: uuid.New(), Status: domain.AttendanceStatusPresent},
			{StudentID: uuid.New(), Status: domain.AttendanceStatusAbsent},
		},
	}

	t.Run("creates sheet with truncated date", func(t *testing.T) {
		svc, attendanceRepo, classRepo := newAttendanceFixture()
		classRepo.On("GetByID", mock.Anything, classID).Return(&domain.Class{ID: classID}, nil)
		attendanceRepo.On("Create", mock.Anything, mock.MatchedBy(func(a *domain.Attendance) bool {
			return a.Date.Equal(time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)) && len(a.Records) == 2
		})).Return(nil)

		sheet, err := svc.Mark(context.Background(), request, markedBy)

		assert.NoError(t, err)
		assert.Equal(t, markedBy, sheet.MarkedBy)
		attendanceRepo.AssertExpectations(t)
	})

	t.Run("second sheet for same class and date conflicts", func(t *testing.T) {
		svc, attendanceRepo, classRepo := newAttendanceFixture()
		classRepo.On("GetByID", mock.Anything, classID).Return(&domain.Class{ID: classID}, nil)
		attendanceRepo.On("Create", mock.Anything, mock.Anything).
			Return(&pq.Error{Code: "23505"})

		_, err := svc.Mark(context.Background(), request, markedBy)

		assert.Error(t, err)
		assert.Equal(t, customError.ErrCodeConflict, customError.CodeOf(err))
	})
}

func TestStudentHistory(t *testing.T) {
	svc, attendanceRepo, _ := newAttendanceFixture()
	studentID := uuid.New()
	otherID := uuid.New()
	classID := uuid.New()

	sheets := []*domain.Attendance{
		{
			ClassID: classID,
			Date:    time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC),
			Records: []*domain.AttendanceRecord{
				{StudentID: studentID, Status: domain.AttendanceStatusPresent},
				{StudentID: otherID, Status: domain.AttendanceStatusAbsent},
			},
		},
		{
			ClassID: classID,
			Date:    time.Date(2026, 4, 11, 0, 0, 0, 0, time.UTC),
			Records: []*domain.AttendanceRecord{
				{StudentID: studentID, Status: domain.AttendanceStatusLate},
			},
		},
	}

	attendanceRepo.On("ListByStudent", mock.Anything, studentID, (*time.Time)(nil), (*time.Time)(nil)).
		Return(sheets, nil)

	history, err := svc.StudentHistory(context.Background(), studentID, nil, nil)

	assert.NoError(t, err)
	assert.Len(t, history, 2)
	assert.Equal(t, domain.AttendanceStatusPresent, history[0].Status)
	assert.Equal(t, domain.AttendanceStatusLate, history[1].Status)
}

func TestSummarize(t *testing.T) {
	t.Run("invalid period", func(t *testing.T) {
		svc, _, _ := newAttendanceFixture()

		_, err := svc.Summarize(context.Background(), uuid.New(), "yearly")

		assert.Error(t, err)
		assert.Equal(t, customError.ErrCodeValidation, customError.CodeOf(err))
	})

	t.Run("weekly window", func(t *testing.T) {
		svc, attendanceRepo, _ := newAttendanceFixture()
		classID := uuid.New()

		attendanceRepo.On("ListByClass", mock.Anything, classID, mock.MatchedBy(func(from *time.Time) bool {
			return from != nil && time.Since(*from) > 6*24*time.Hour
		}), (*time.Time)(nil)).Return([]*domain.Attendance{}, nil)

		summary, err := svc.Summarize(context.Background(), classID, domain.PeriodWeekly)

		assert.NoError(t, err)
		assert.Equal(t, 0, summary.TotalDays)
		assert.True(t, summary.AttendancePercentage.Equal(decimal.Zero))
	})
}

func TestSummarizeSheets(t *testing.T) {
	sheets := []*domain.Attendance{
		{Records: []*domain.AttendanceRecord{
			{Status: domain.AttendanceStatusPresent},
			{Status: domain.AttendanceStatusPresent},
			{Status: domain.AttendanceStatusAbsent},
			{Status: domain.AttendanceStatusLate},
		}},
		{Records: []*domain.AttendanceRecord{
			{Status: domain.AttendanceStatusPresent},
			{Status: domain.AttendanceStatusExcused},
		}},
	}

	summary := SummarizeSheets(sheets)

	assert.Equal(t, 2, summary.TotalDays)
	assert.Equal(t, 3, summary.Present)
	assert.Equal(t, 1, summary.Absent)
	assert.Equal(t, 1, summary.Late)
	assert.Equal(t, 1, summary.Excused)
	// 3 present out of 6 records
	assert.True(t, summary.AttendancePercentage.Equal(decimal.NewFromInt(50)))
}
