package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Exam types
const (
	ExamTypeMidTerm   = "Mid-Term"
	ExamTypeFinal     = "Final"
	ExamTypeUnitTest  = "Unit Test"
	ExamTypeQuiz      = "Quiz"
	ExamTypePractical = "Practical"
)

// Exam holds one examination and its results. Percentage and grade on each
// result are derived from the marks before every persist.
type Exam struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	ExamName        string          `json:"exam_name" db:"exam_name"`
	ExamType        string          `json:"exam_type" db:"exam_type"`
	ClassID         uuid.UUID       `json:"class_id" db:"class_id"`
	Subject         string          `json:"subject" db:"subject"`
	TotalMarks      decimal.Decimal `json:"total_marks" db:"total_marks"`
	PassingMarks    decimal.Decimal `json:"passing_marks" db:"passing_marks"`
	ExamDate        time.Time       `json:"exam_date" db:"exam_date"`
	DurationMinutes *int            `json:"duration_minutes,omitempty" db:"duration_minutes"`
	CreatedBy       uuid.UUID       `json:"created_by" db:"created_by"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at" db:"updated_at"`

	Results []*ExamResult `json:"results"`
}

// ExamResult is one student's marks with the derived percentage and grade.
type ExamResult struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	ExamID        uuid.UUID       `json:"-" db:"exam_id"`
	StudentID     uuid.UUID       `json:"student_id" db:"student_id"`
	MarksObtained decimal.Decimal `json:"marks_obtained" db:"marks_obtained"`
	Percentage    decimal.Decimal `json:"percentage" db:"percentage"`
	Grade         string          `json:"grade" db:"grade"`
	Remarks       *string         `json:"remarks,omitempty" db:"remarks"`
}

// DTOs for requests and responses

type CreateExamRequest struct {
	ExamName        string          `json:"exam_name" validate:"required"`
	ExamType        string          `json:"exam_type" validate:"required,oneof=Mid-Term Final 'Unit Test' Quiz Practical"`
	ClassID         uuid.UUID       `json:"class_id" validate:"required"`
	Subject         string          `json:"subject" validate:"required"`
	TotalMarks      decimal.Decimal `json:"total_marks" validate:"required"`
	PassingMarks    decimal.Decimal `json:"passing_marks" validate:"required"`
	ExamDate        time.Time       `json:"exam_date" validate:"required"`
	DurationMinutes *int            `json:"duration_minutes,omitempty"`
}

type UpdateExamRequest struct {
	ExamName        *string          `json:"exam_name,omitempty"`
	ExamType        *string          `json:"exam_type,omitempty" validate:"omitempty,oneof=Mid-Term Final 'Unit Test' Quiz Practical"`
	Subject         *string          `json:"subject,omitempty"`
	TotalMarks      *decimal.Decimal `json:"total_marks,omitempty"`
	PassingMarks    *decimal.Decimal `json:"passing_marks,omitempty"`
	ExamDate        *time.Time       `json:"exam_date,omitempty"`
	DurationMinutes *int             `json:"duration_minutes,omitempty"`
}

type ExamResultInput struct {
	StudentID     uuid.UUID       `json:"student_id" validate:"required"`
	MarksObtained decimal.Decimal `json:"marks_obtained" validate:"required"`
	Remarks       *string         `json:"remarks,omitempty"`
}

type RecordResultsRequest struct {
	Results []ExamResultInput `json:"results" validate:"required,min=1,dive"`
}
