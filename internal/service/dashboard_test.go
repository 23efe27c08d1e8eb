package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/prasetyo/school-engine/internal/domain"
	"github.com/prasetyo/school-engine/tests/mocks"
)

func newDashboardFixture() (*DashboardService, *mocks.MockStudentRepository, *mocks.MockTeacherRepository, *mocks.MockClassRepository, *mocks.MockAttendanceRepository) {
	studentRepo := new(mocks.MockStudentRepository)
	teacherRepo := new(mocks.MockTeacherRepository)
	classRepo := new(mocks.MockClassRepository)
	attendanceRepo := new(mocks.MockAttendanceRepository)
	svc := NewDashboardService(studentRepo, teacherRepo, classRepo, attendanceRepo)
	return svc, studentRepo, teacherRepo, classRepo, attendanceRepo
}

func sheetWithStatuses(statuses ...string) *domain.Attendance {
	sheet := &domain.Attendance{ID: uuid.New(), ClassID: uuid.New()}
	for _, status := range statuses {
		sheet.Records = append(sheet.Records, &domain.AttendanceRecord{
			ID:        uuid.New(),
			StudentID: uuid.New(),
			Status:    status,
		})
	}
	return sheet
}

func TestDashboardStats(t *testing.T) {
	svc, studentRepo, teacherRepo, classRepo, attendanceRepo := newDashboardFixture()

	studentRepo.On("CountActive", mock.Anything).Return(120, nil)
	teacherRepo.On("CountActive", mock.Anything).Return(14, nil)
	classRepo.On("CountActive", mock.Anything).Return(8, nil)
	attendanceRepo.On("ListByDate", mock.Anything, mock.Anything).Return([]*domain.Attendance{
		sheetWithStatuses(
			domain.AttendanceStatusPresent,
			domain.AttendanceStatusPresent,
			domain.AttendanceStatusLate,
			domain.AttendanceStatusAbsent,
		),
		sheetWithStatuses(domain.AttendanceStatusExcused),
	}, nil)

	stats, err := svc.Stats(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 120, stats.TotalStudents)
	assert.Equal(t, 14, stats.TotalTeachers)
	assert.Equal(t, 8, stats.TotalClasses)
	// late counts as present, excused as absent
	assert.Equal(t, 3, stats.TodayAttendance.Present)
	assert.Equal(t, 2, stats.TodayAttendance.Absent)
	assert.Equal(t, "60", stats.TodayAttendance.Percentage.String())
}

func TestDashboardStatsNoSheets(t *testing.T) {
	svc, studentRepo, teacherRepo, classRepo, attendanceRepo := newDashboardFixture()

	studentRepo.On("CountActive", mock.Anything).Return(0, nil)
	teacherRepo.On("CountActive", mock.Anything).Return(0, nil)
	classRepo.On("CountActive", mock.Anything).Return(0, nil)
	attendanceRepo.On("ListByDate", mock.Anything, mock.Anything).Return([]*domain.Attendance{}, nil)

	stats, err := svc.Stats(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 0, stats.TodayAttendance.Present)
	assert.True(t, stats.TodayAttendance.Percentage.IsZero())
}

func TestRecentStudentsDefaultLimit(t *testing.T) {
	svc, studentRepo, _, _, _ := newDashboardFixture()

	studentRepo.On("Recent", mock.Anything, 5).Return([]*domain.StudentDetail{}, nil)

	_, err := svc.RecentStudents(context.Background(), 0)

	assert.NoError(t, err)
	studentRepo.AssertExpectations(t)
}

func TestAttendanceChart(t *testing.T) {
	svc, _, _, _, attendanceRepo := newDashboardFixture()

	attendanceRepo.On("ListByDate", mock.Anything, mock.Anything).Return([]*domain.Attendance{
		sheetWithStatuses(domain.AttendanceStatusPresent, domain.AttendanceStatusAbsent),
	}, nil)

	points, err := svc.AttendanceChart(context.Background(), 3)

	assert.NoError(t, err)
	assert.Len(t, points, 3)
	for _, point := range points {
		assert.Equal(t, 1, point.Present)
		assert.Equal(t, 1, point.Absent)
		assert.Regexp(t, `^\d{4}-\d{2}-\d{2}$`, point.Date)
	}
	// oldest day first
	assert.Less(t, points[0].Date, points[2].Date)
}

func TestClassDistribution(t *testing.T) {
	svc, _, _, classRepo, _ := newDashboardFixture()

	classRepo.On("Distribution", mock.Anything).Return([]*domain.ClassDistribution{
		{ClassName: "Grade 5", Section: "A", StudentCount: 32},
	}, nil)

	distribution, err := svc.ClassDistribution(context.Background())

	assert.NoError(t, err)
	assert.Len(t, distribution, 1)
	assert.Equal(t, 32, distribution[0].StudentCount)
}
