package domain

import (
	"time"

	"github.com/google/uuid"
)

// DefaultClassCapacity is applied when a class is created without one.
const DefaultClassCapacity = 40

// Class represents a class with a roster of students and the subjects
// taught in it. Students and teachers are referenced by identifier only.
type Class struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	ClassName    string     `json:"class_name" db:"class_name"`
	Section      string     `json:"section" db:"section"`
	TeacherID    *uuid.UUID `json:"class_teacher_id,omitempty" db:"class_teacher_id"`
	AcademicYear string     `json:"academic_year" db:"academic_year"`
	Capacity     int        `json:"capacity" db:"capacity"`
	Room         *string    `json:"room,omitempty" db:"room"`
	IsActive     bool       `json:"is_active" db:"is_active"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`

	Subjects []*ClassSubject `json:"subjects,omitempty"`
	Students []uuid.UUID     `json:"students,omitempty"`
}

// ClassSubject pairs a subject name with the teacher who teaches it.
type ClassSubject struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	ClassID     uuid.UUID  `json:"-" db:"class_id"`
	SubjectName string     `json:"subject_name" db:"subject_name"`
	TeacherID   *uuid.UUID `json:"teacher_id,omitempty" db:"teacher_id"`
}

// DTOs for requests and responses

type ClassSubjectInput struct {
	SubjectName string     `json:"subject_name" validate:"required"`
	TeacherID   *uuid.UUID `json:"teacher_id,omitempty"`
}

type CreateClassRequest struct {
	ClassName    string              `json:"class_name" validate:"required"`
	Section      string              `json:"section" validate:"required"`
	TeacherID    *uuid.UUID          `json:"class_teacher_id,omitempty"`
	AcademicYear string              `json:"academic_year" validate:"required"`
	Capacity     int                 `json:"capacity" validate:"gte=0"`
	Room         *string             `json:"room,omitempty"`
	Subjects     []ClassSubjectInput `json:"subjects,omitempty"`
}

type UpdateClassRequest struct {
	Section      *string             `json:"section,omitempty"`
	TeacherID    *uuid.UUID          `json:"class_teacher_id,omitempty"`
	AcademicYear *string             `json:"academic_year,omitempty"`
	Capacity     *int                `json:"capacity,omitempty" validate:"omitempty,gt=0"`
	Room         *string             `json:"room,omitempty"`
	IsActive     *bool               `json:"is_active,omitempty"`
	Subjects     []ClassSubjectInput `json:"subjects,omitempty"`
}

type EnrollStudentRequest struct {
	StudentID uuid.UUID `json:"student_id" validate:"required"`
}

type PromoteClassRequest struct {
	FromClassID uuid.UUID `json:"from_class_id" validate:"required"`
	ToClassID   uuid.UUID `json:"to_class_id" validate:"required"`
}

type PromoteClassResponse struct {
	Promoted int `json:"promoted"`
}

// ClassDistribution is one slice of the dashboard class distribution chart.
type ClassDistribution struct {
	ClassName    string `json:"class_name" db:"class_name"`
	Section      string `json:"section" db:"section"`
	StudentCount int    `json:"student_count" db:"student_count"`
	Capacity     int    `json:"capacity" db:"capacity"`
}
