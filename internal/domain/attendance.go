package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Attendance statuses
const (
	AttendanceStatusPresent = "Present"
	AttendanceStatusAbsent  = "Absent"
	AttendanceStatusLate    = "Late"
	AttendanceStatusExcused = "Excused"
)

// Summary periods
const (
	PeriodDaily   = "daily"
	PeriodWeekly  = "weekly"
	PeriodMonthly = "monthly"
)

// Attendance is one sheet per class and day. Marking the same class twice
// for the same date is a conflict.
type Attendance struct {
	ID        uuid.UUID `json:"id" db:"id"`
	ClassID   uuid.UUID `json:"class_id" db:"class_id"`
	Date      time.Time `json:"date" db:"date"`
	MarkedBy  uuid.UUID `json:"marked_by" db:"marked_by"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	Records []*AttendanceRecord `json:"records"`
}

// AttendanceRecord is one student's entry on a sheet.
type AttendanceRecord struct {
	ID           uuid.UUID `json:"id" db:"id"`
	AttendanceID uuid.UUID `json:"-" db:"attendance_id"`
	StudentID    uuid.UUID `json:"student_id" db:"student_id"`
	Status       string    `json:"status" db:"status"`
	Remarks      *string   `json:"remarks,omitempty" db:"remarks"`
}

// DTOs for requests and responses

type AttendanceRecordInput struct {
	StudentID uuid.UUID `json:"student_id" validate:"required"`
	Status    string    `json:"status" validate:"required,oneof=Present Absent Late Excused"`
	Remarks   *string   `json:"remarks,omitempty"`
}

type MarkAttendanceRequest struct {
	ClassID uuid.UUID               `json:"class_id" validate:"required"`
	Date    time.Time               `json:"date" validate:"required"`
	Records []AttendanceRecordInput `json:"records" validate:"required,min=1,dive"`
}

type UpdateAttendanceRequest struct {
	Records []AttendanceRecordInput `json:"records" validate:"required,min=1,dive"`
}

// AttendanceSummary aggregates status counts over a date window.
type AttendanceSummary struct {
	TotalDays            int             `json:"total_days"`
	Present              int             `json:"present"`
	Absent               int             `json:"absent"`
	Late                 int             `json:"late"`
	Excused              int             `json:"excused"`
	AttendancePercentage decimal.Decimal `json:"attendance_percentage"`
}

// StudentAttendanceEntry is one day of a single student's history.
type StudentAttendanceEntry struct {
	Date    time.Time `json:"date"`
	ClassID uuid.UUID `json:"class_id"`
	Status  string    `json:"status"`
	Remarks *string   `json:"remarks,omitempty"`
}

// AttendanceChartPoint is one day in the dashboard attendance chart.
type AttendanceChartPoint struct {
	Date    string `json:"date"`
	Present int    `json:"present"`
	Absent  int    `json:"absent"`
}
