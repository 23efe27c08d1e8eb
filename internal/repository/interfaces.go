package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/prasetyo/school-engine/internal/domain"
)

// UserRepository defines the interface for account data operations
type UserRepository interface {
	// Create creates a new account
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves an account by id
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail retrieves an account by email
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// List retrieves all accounts
	List(ctx context.Context) ([]*domain.User, error)

	// ReserveStorage atomically increments storage_used when the quota
	// allows it; reports false when the reservation would exceed the limit
	ReserveStorage(ctx context.Context, id uuid.UUID, size int64) (bool, error)

	// ReleaseStorage decrements storage_used, floored at zero
	ReleaseStorage(ctx context.Context, id uuid.UUID, size int64) error

	// UpdateStorageLimit sets a new storage limit for an account
	UpdateStorageLimit(ctx context.Context, id uuid.UUID, limit int64) error

	// Count counts all accounts
	Count(ctx context.Context) (int, error)

	// TotalStorageUsed sums storage_used over all accounts
	TotalStorageUsed(ctx context.Context) (int64, error)
}

// StudentRepository defines the interface for student data operations
type StudentRepository interface {
	Create(ctx context.Context, student *domain.Student) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.StudentDetail, error)
	List(ctx context.Context) ([]*domain.StudentDetail, error)
	Update(ctx context.Context, student *domain.Student) error
	Delete(ctx context.Context, id uuid.UUID) error

	// SetClass moves a student to a class (nil removes the assignment)
	SetClass(ctx context.Context, studentID uuid.UUID, classID *uuid.UUID) error

	// Promote moves all active students of one class to another and
	// returns how many moved
	Promote(ctx context.Context, fromClassID, toClassID uuid.UUID) (int, error)

	// CountByClass counts students currently assigned to a class
	CountByClass(ctx context.Context, classID uuid.UUID) (int, error)

	CountActive(ctx context.Context) (int, error)
	Recent(ctx context.Context, limit int) ([]*domain.StudentDetail, error)
}

// TeacherRepository defines the interface for teacher data operations
type TeacherRepository interface {
	Create(ctx context.Context, teacher *domain.Teacher) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.TeacherDetail, error)
	List(ctx context.Context) ([]*domain.TeacherDetail, error)
	Update(ctx context.Context, teacher *domain.Teacher) error
	Delete(ctx context.Context, id uuid.UUID) error
	UpdateSubjects(ctx context.Context, id uuid.UUID, subjects []string) error
	CountActive(ctx context.Context) (int, error)
}

// ClassRepository defines the interface for class data operations
type ClassRepository interface {
	// Create creates a class with its subject list
	Create(ctx context.Context, class *domain.Class) error

	// GetByID retrieves a class with subjects and the student roster
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Class, error)

	List(ctx context.Context) ([]*domain.Class, error)

	// Update updates the class row and replaces its subject list when
	// subjects are provided
	Update(ctx context.Context, class *domain.Class, replaceSubjects bool) error

	Delete(ctx context.Context, id uuid.UUID) error
	CountActive(ctx context.Context) (int, error)
	Distribution(ctx context.Context) ([]*domain.ClassDistribution, error)
}

// AttendanceRepository defines the interface for attendance data operations
type AttendanceRepository interface {
	// Create persists a sheet with its records in one transaction
	Create(ctx context.Context, attendance *domain.Attendance) error

	GetByID(ctx context.Context, id uuid.UUID) (*domain.Attendance, error)

	// ReplaceRecords swaps the records of an existing sheet
	ReplaceRecords(ctx context.Context, attendanceID uuid.UUID, records []*domain.AttendanceRecord) error

	// ListByClass retrieves sheets for a class, optionally date-windowed
	ListByClass(ctx context.Context, classID uuid.UUID, from, to *time.Time) ([]*domain.Attendance, error)

	// ListByStudent retrieves sheets containing a student, optionally
	// date-windowed
	ListByStudent(ctx context.Context, studentID uuid.UUID, from, to *time.Time) ([]*domain.Attendance, error)

	// ListByDate retrieves all sheets for one day
	ListByDate(ctx context.Context, date time.Time) ([]*domain.Attendance, error)
}

// ExamRepository defines the interface for exam data operations
type ExamRepository interface {
	Create(ctx context.Context, exam *domain.Exam) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Exam, error)
	List(ctx context.Context) ([]*domain.Exam, error)
	Update(ctx context.Context, exam *domain.Exam) error
	Delete(ctx context.Context, id uuid.UUID) error

	// UpsertResults replaces the result of each listed student and keeps
	// results of students not listed
	UpsertResults(ctx context.Context, examID uuid.UUID, results []*domain.ExamResult) error
}

// FeeRepository defines the interface for fee ledger data operations
type FeeRepository interface {
	// Create persists a fee with its charges in one transaction
	Create(ctx context.Context, fee *domain.Fee) error

	// GetByID retrieves the full aggregate: fee, charges and payments
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Fee, error)

	// List retrieves fee rows newest-first, without children
	List(ctx context.Context) ([]*domain.Fee, error)

	// ListByStudent retrieves fee rows of one student
	ListByStudent(ctx context.Context, studentID uuid.UUID) ([]*domain.Fee, error)

	// ListDue retrieves fee rows with a positive due amount
	ListDue(ctx context.Context) ([]*domain.Fee, error)

	// UpdateStructure replaces the charge list and writes the recomputed
	// derived fields in one transaction
	UpdateStructure(ctx context.Context, fee *domain.Fee) error

	// AddPayment appends a payment and writes the recomputed fee totals
	// and status in one transaction
	AddPayment(ctx context.Context, fee *domain.Fee, payment *domain.Payment) error

	Delete(ctx context.Context, id uuid.UUID) error

	// MarkOverdue flips unpaid fees past their due date to Overdue and
	// returns how many rows changed
	MarkOverdue(ctx context.Context, now time.Time) (int64, error)
}

// FileRepository defines the interface for stored file metadata operations
type FileRepository interface {
	Create(ctx context.Context, file *domain.StoredFile) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.StoredFile, error)
	List(ctx context.Context, query domain.FileListQuery) ([]*domain.StoredFile, error)
	Delete(ctx context.Context, id uuid.UUID) error
	IncrementDownloads(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int, error)
}
