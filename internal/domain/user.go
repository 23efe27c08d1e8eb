package domain

import (
	"time"

	"github.com/google/uuid"
)

// Roles
const (
	RoleAdmin   = "admin"
	RoleTeacher = "teacher"
	RoleStaff   = "staff"
	RoleStudent = "student"
)

// Default storage limits in bytes
const (
	DefaultStorageLimit      = 100 * 1024 * 1024  // 100MB
	DefaultAdminStorageLimit = 1024 * 1024 * 1024 // 1GB
)

// User represents an account with credentials, a role and a storage quota
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	FullName     string    `json:"full_name" db:"full_name"`
	Role         string    `json:"role" db:"role"`
	StorageUsed  int64     `json:"storage_used" db:"storage_used"`
	StorageLimit int64     `json:"storage_limit" db:"storage_limit"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Identity is the caller identity attached to each authenticated request.
type Identity struct {
	ID   uuid.UUID `json:"id"`
	Role string    `json:"role"`
}

// IsAdmin reports whether the identity carries the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// DTOs for requests and responses

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"full_name" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=admin teacher staff student"`
}

type UpdateQuotaRequest struct {
	StorageLimit int64 `json:"storage_limit" validate:"required,gt=0"`
}

type StorageUsage struct {
	StorageUsed  int64 `json:"storage_used"`
	StorageLimit int64 `json:"storage_limit"`
}
