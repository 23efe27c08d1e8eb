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

// AttendanceService marks and queries attendance sheets and derives the
// windowed summaries.
type AttendanceService struct {
	attendanceRepo repository.AttendanceRepository
	classRepo      repository.ClassRepository
}

func NewAttendanceService(
	attendanceRepo repository.AttendanceRepository,
	classRepo repository.ClassRepository,
) *AttendanceService {
	return &AttendanceService{
		attendanceRepo: attendanceRepo,
		classRepo:      classRepo,
	}
}

// Mark creates the sheet for one class and day. A second sheet for the
// same class and day is a conflict.
func (s *AttendanceService) Mark(ctx context.Context, request *domain.MarkAttendanceRequest, markedBy uuid.UUID) (*domain.Attendance, error) {
	if _, err := s.classRepo.GetByID(ctx, request.ClassID); err != nil {
		return nil, wrapLookupError(err, "class", request.ClassID.String())
	}

	attendance := &domain.Attendance{
		ID:        uuid.New(),
		ClassID:   request.ClassID,
		Date:      utils.TruncateToDay(request.Date),
		MarkedBy:  markedBy,
		CreatedAt: time.Now(),
		Records:   buildRecords(request.Records),
	}

	if err := s.attendanceRepo.Create(ctx, attendance); err != nil {
		if isUniqueViolation(err) {
			return nil, customError.WrapConflict("attendance already marked for this class and date")
		}
		return nil, customError.WrapDatabaseError(err)
	}

	return attendance, nil
}

func buildRecords(inputs []domain.AttendanceRecordInput) []*domain.AttendanceRecord {
	records := make([]*domain.AttendanceRecord, 0, len(inputs))
	for _, input := range inputs {
		records = append(records, &domain.AttendanceRecord{
			ID:        uuid.New(),
			StudentID: input.StudentID,
			Status:    input.Status,
			Remarks:   input.Remarks,
		})
	}
	return records
}

// Update replaces the records of an existing sheet.
func (s *AttendanceService) Update(ctx context.Context, id uuid.UUID, request *domain.UpdateAttendanceRequest) (*domain.Attendance, error) {
	if _, err := s.attendanceRepo.GetByID(ctx, id); err != nil {
		return nil, wrapLookupError(err, "attendance", id.String())
	}

	if err := s.attendanceRepo.ReplaceRecords(ctx, id, buildRecords(request.Records)); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	attendance, err := s.attendanceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return attendance, nil
}

// ListByClass returns the sheets of one class, optionally date-windowed.
func (s *AttendanceService) ListByClass(ctx context.Context, classID uuid.UUID, from, to *time.Time) ([]*domain.Attendance, error) {
	sheets, err := s.attendanceRepo.ListByClass(ctx, classID, from, to)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return sheets, nil
}

// StudentHistory extracts only the given student's entries from the sheets
// the student appears on.
func (s *AttendanceService) StudentHistory(ctx context.Context, studentID uuid.UUID, from, to *time.Time) ([]*domain.StudentAttendanceEntry, error) {
	sheets, err := s.attendanceRepo.ListByStudent(ctx, studentID, from, to)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	entries := make([]*domain.StudentAttendanceEntry, 0, len(sheets))
	for _, sheet := range sheets {
		for _, record := range sheet.Records {
			if record.StudentID == studentID {
				entries = append(entries, &domain.StudentAttendanceEntry{
					Date:    sheet.Date,
					ClassID: sheet.ClassID,
					Status:  record.Status,
					Remarks: record.Remarks,
				})
				break
			}
		}
	}

	return entries, nil
}

// ListByDate returns all sheets for one day.
func (s *AttendanceService) ListByDate(ctx context.Context, date time.Time) ([]*domain.Attendance, error) {
	sheets, err := s.attendanceRepo.ListByDate(ctx, utils.TruncateToDay(date))
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return sheets, nil
}

// Summarize aggregates status counts for a class over the given period
// (daily, weekly or monthly, counted back from now).
func (s *AttendanceService) Summarize(ctx context.Context, classID uuid.UUID, period string) (*domain.AttendanceSummary, error) {
	now := time.Now()

	var from time.Time
	switch period {
	case domain.PeriodDaily:
		from = utils.TruncateToDay(now)
	case domain.PeriodWeekly:
		from = now.AddDate(0, 0, -7)
	case domain.PeriodMonthly:
		from = now.AddDate(0, -1, 0)
	default:
		return nil, customError.WrapValidation("period must be daily, weekly or monthly")
	}

	sheets, err := s.attendanceRepo.ListByClass(ctx, classID, &from, nil)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return SummarizeSheets(sheets), nil
}

// SummarizeSheets folds a set of sheets into status counts and the
// attendance percentage. Zero records yields a zero percentage.
func SummarizeSheets(sheets []*domain.Attendance) *domain.AttendanceSummary {
	summary := &domain.AttendanceSummary{TotalDays: len(sheets)}

	total := 0
	for _, sheet := range sheets {
		for _, record := range sheet.Records {
			total++
			switch record.Status {
			case domain.AttendanceStatusPresent:
				summary.Present++
			case domain.AttendanceStatusAbsent:
				summary.Absent++
			case domain.AttendanceStatusLate:
				summary.Late++
			case domain.AttendanceStatusExcused:
				summary.Excused++
			}
		}
	}

	summary.AttendancePercentage = utils.AttendanceRate(summary.Present, total)
	return summary
}
