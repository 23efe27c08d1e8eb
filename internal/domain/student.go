package domain

import (
	"time"

	"github.com/google/uuid"
)

// Student statuses
const (
	StudentStatusActive      = "Active"
	StudentStatusInactive    = "Inactive"
	StudentStatusGraduated   = "Graduated"
	StudentStatusTransferred = "Transferred"
)

// Genders
const (
	GenderMale   = "Male"
	GenderFemale = "Female"
	GenderOther  = "Other"
)

// Student represents an enrolled student. StudentNumber is generated once
// at creation from the yearly sequence and never reassigned.
type Student struct {
	ID              uuid.UUID  `json:"id" db:"id"`
	StudentNumber   string     `json:"student_number" db:"student_number"`
	UserID          uuid.UUID  `json:"user_id" db:"user_id"`
	AdmissionNumber string     `json:"admission_number" db:"admission_number"`
	AdmissionDate   time.Time  `json:"admission_date" db:"admission_date"`
	ClassID         *uuid.UUID `json:"class_id,omitempty" db:"class_id"`
	RollNumber      *int       `json:"roll_number,omitempty" db:"roll_number"`
	DateOfBirth     time.Time  `json:"date_of_birth" db:"date_of_birth"`
	Gender          string     `json:"gender" db:"gender"`
	BloodGroup      *string    `json:"blood_group,omitempty" db:"blood_group"`
	ParentName      string     `json:"parent_name" db:"parent_name"`
	ParentPhone     string     `json:"parent_phone" db:"parent_phone"`
	ParentEmail     *string    `json:"parent_email,omitempty" db:"parent_email"`
	EmergencyContact *string   `json:"emergency_contact,omitempty" db:"emergency_contact"`
	PreviousSchool  *string    `json:"previous_school,omitempty" db:"previous_school"`
	MedicalInfo     *string    `json:"medical_info,omitempty" db:"medical_info"`
	Status          string     `json:"status" db:"status"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at" db:"updated_at"`
}

// DTOs for requests and responses

type CreateStudentRequest struct {
	UserID          uuid.UUID  `json:"user_id" validate:"required"`
	AdmissionNumber string     `json:"admission_number" validate:"required"`
	ClassID         *uuid.UUID `json:"class_id,omitempty"`
	RollNumber      *int       `json:"roll_number,omitempty"`
	DateOfBirth     time.Time  `json:"date_of_birth" validate:"required"`
	Gender          string     `json:"gender" validate:"required,oneof=Male Female Other"`
	BloodGroup      *string    `json:"blood_group,omitempty"`
	ParentName      string     `json:"parent_name" validate:"required"`
	ParentPhone     string     `json:"parent_phone" validate:"required"`
	ParentEmail     *string    `json:"parent_email,omitempty"`
	EmergencyContact *string   `json:"emergency_contact,omitempty"`
	PreviousSchool  *string    `json:"previous_school,omitempty"`
	MedicalInfo     *string    `json:"medical_info,omitempty"`
}

type UpdateStudentRequest struct {
	ClassID          *uuid.UUID `json:"class_id,omitempty"`
	RollNumber       *int       `json:"roll_number,omitempty"`
	BloodGroup       *string    `json:"blood_group,omitempty"`
	ParentName       *string    `json:"parent_name,omitempty"`
	ParentPhone      *string    `json:"parent_phone,omitempty"`
	ParentEmail      *string    `json:"parent_email,omitempty"`
	EmergencyContact *string    `json:"emergency_contact,omitempty"`
	MedicalInfo      *string    `json:"medical_info,omitempty"`
	Status           *string    `json:"status,omitempty" validate:"omitempty,oneof=Active Inactive Graduated Transferred"`
}

// StudentDetail joins a student with its account display fields.
type StudentDetail struct {
	Student
	FullName string  `json:"full_name" db:"full_name"`
	Email    string  `json:"email" db:"email"`
	ClassName *string `json:"class_name,omitempty" db:"class_name"`
	Section   *string `json:"section,omitempty" db:"section"`
}
