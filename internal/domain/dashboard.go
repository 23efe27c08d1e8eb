package domain

import "github.com/shopspring/decimal"

// DashboardStats is the school dashboard summary.
type DashboardStats struct {
	TotalStudents   int             `json:"total_students"`
	TotalTeachers   int             `json:"total_teachers"`
	TotalClasses    int             `json:"total_classes"`
	TodayAttendance TodayAttendance `json:"today_attendance"`
}

// TodayAttendance is today's attendance slice of the dashboard.
type TodayAttendance struct {
	Present    int             `json:"present"`
	Absent     int             `json:"absent"`
	Percentage decimal.Decimal `json:"percentage"`
}
