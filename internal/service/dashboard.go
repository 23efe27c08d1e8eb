package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/prasetyo/school-engine/internal/domain"
	"github.com/prasetyo/school-engine/internal/repository"
	customError "github.com/prasetyo/school-engine/pkg/errors"
	"github.com/prasetyo/school-engine/pkg/utils"
)

// DashboardService aggregates school-wide numbers for the admin overview.
type DashboardService struct {
	studentRepo    repository.StudentRepository
	teacherRepo    repository.TeacherRepository
	classRepo      repository.ClassRepository
	attendanceRepo repository.AttendanceRepository
}

func NewDashboardService(
	studentRepo repository.StudentRepository,
	teacherRepo repository.TeacherRepository,
	classRepo repository.ClassRepository,
	attendanceRepo repository.AttendanceRepository,
) *DashboardService {
	return &DashboardService{
		studentRepo:    studentRepo,
		teacherRepo:    teacherRepo,
		classRepo:      classRepo,
		attendanceRepo: attendanceRepo,
	}
}

// Stats returns the headline counters plus today's attendance split.
func (s *DashboardService) Stats(ctx context.Context) (*domain.DashboardStats, error) {
	students, err := s.studentRepo.CountActive(ctx)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	teachers, err := s.teacherRepo.CountActive(ctx)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	classes, err := s.classRepo.CountActive(ctx)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	today, err := s.todayAttendance(ctx)
	if err != nil {
		return nil, err
	}

	return &domain.DashboardStats{
		TotalStudents:   students,
		TotalTeachers:   teachers,
		TotalClasses:    classes,
		TodayAttendance: *today,
	}, nil
}

func (s *DashboardService) todayAttendance(ctx context.Context) (*domain.TodayAttendance, error) {
	sheets, err := s.attendanceRepo.ListByDate(ctx, utils.TruncateToDay(time.Now()))
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	present, absent := countPresentAbsent(sheets)

	total := present + absent
	percentage := decimal.Zero
	if total > 0 {
		percentage = decimal.NewFromInt(int64(present)).
			Div(decimal.NewFromInt(int64(total))).
			Mul(decimal.NewFromInt(100)).
			Round(2)
	}

	return &domain.TodayAttendance{
		Present:    present,
		Absent:     absent,
		Percentage: percentage,
	}, nil
}

// countPresentAbsent tallies records across sheets. Late counts as present,
// Excused as absent.
func countPresentAbsent(sheets []*domain.Attendance) (present, absent int) {
	for _, sheet := range sheets {
		for _, record := range sheet.Records {
			switch record.Status {
			case domain.AttendanceStatusPresent, domain.AttendanceStatusLate:
				present++
			default:
				absent++
			}
		}
	}
	return present, absent
}

// RecentStudents returns the latest admissions.
func (s *DashboardService) RecentStudents(ctx context.Context, limit int) ([]*domain.StudentDetail, error) {
	if limit <= 0 {
		limit = 5
	}

	students, err := s.studentRepo.Recent(ctx, limit)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return students, nil
}

// AttendanceChart returns one present/absent point per day over the last
// `days` days, today included.
func (s *DashboardService) AttendanceChart(ctx context.Context, days int) ([]*domain.AttendanceChartPoint, error) {
	if days <= 0 {
		days = 7
	}

	today := utils.TruncateToDay(time.Now())
	points := make([]*domain.AttendanceChartPoint, 0, days)

	for i := days - 1; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)

		sheets, err := s.attendanceRepo.ListByDate(ctx, day)
		if err != nil {
			return nil, customError.WrapDatabaseError(err)
		}

		present, absent := countPresentAbsent(sheets)
		points = append(points, &domain.AttendanceChartPoint{
			Date:    day.Format("2006-01-02"),
			Present: present,
			Absent:  absent,
		})
	}

	return points, nil
}

// ClassDistribution returns student counts per class.
func (s *DashboardService) ClassDistribution(ctx context.Context) ([]*domain.ClassDistribution, error) {
	distribution, err := s.classRepo.Distribution(ctx)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return distribution, nil
}
