package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Teacher statuses
const (
	TeacherStatusActive   = "Active"
	TeacherStatusInactive = "Inactive"
	TeacherStatusOnLeave  = "On Leave"
)

// Teacher represents a staff member. TeacherNumber is generated once at
// creation from the yearly sequence.
type Teacher struct {
	ID             uuid.UUID        `json:"id" db:"id"`
	TeacherNumber  string           `json:"teacher_number" db:"teacher_number"`
	UserID         uuid.UUID        `json:"user_id" db:"user_id"`
	EmployeeID     string           `json:"employee_id" db:"employee_id"`
	JoiningDate    time.Time        `json:"joining_date" db:"joining_date"`
	Qualification  string           `json:"qualification" db:"qualification"`
	ExperienceYears int             `json:"experience_years" db:"experience_years"`
	Subjects       pq.StringArray   `json:"subjects" db:"subjects"`
	Specialization *string          `json:"specialization,omitempty" db:"specialization"`
	Salary         *decimal.Decimal `json:"salary,omitempty" db:"salary"`
	DateOfBirth    time.Time        `json:"date_of_birth" db:"date_of_birth"`
	Gender         string           `json:"gender" db:"gender"`
	Status         string           `json:"status" db:"status"`
	CreatedAt      time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at" db:"updated_at"`
}

// DTOs for requests and responses

type CreateTeacherRequest struct {
	UserID         uuid.UUID        `json:"user_id" validate:"required"`
	EmployeeID     string           `json:"employee_id" validate:"required"`
	Qualification  string           `json:"qualification" validate:"required"`
	ExperienceYears int             `json:"experience_years" validate:"gte=0"`
	Subjects       []string         `json:"subjects,omitempty"`
	Specialization *string          `json:"specialization,omitempty"`
	Salary         *decimal.Decimal `json:"salary,omitempty"`
	DateOfBirth    time.Time        `json:"date_of_birth" validate:"required"`
	Gender         string           `json:"gender" validate:"required,oneof=Male Female Other"`
}

type UpdateTeacherRequest struct {
	Qualification  *string          `json:"qualification,omitempty"`
	ExperienceYears *int            `json:"experience_years,omitempty" validate:"omitempty,gte=0"`
	Specialization *string          `json:"specialization,omitempty"`
	Salary         *decimal.Decimal `json:"salary,omitempty"`
	Status         *string          `json:"status,omitempty" validate:"omitempty,oneof=Active Inactive 'On Leave'"`
}

type AssignSubjectsRequest struct {
	Subjects []string `json:"subjects" validate:"required"`
}

// TeacherDetail joins a teacher with its account display fields.
type TeacherDetail struct {
	Teacher
	FullName string `json:"full_name" db:"full_name"`
	Email    string `json:"email" db:"email"`
}
