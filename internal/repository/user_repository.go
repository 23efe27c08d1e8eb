package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/prasetyo/school-engine/internal/domain"
)

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, email, password_hash, full_name, role, storage_used, storage_limit, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.FullName,
		user.Role,
		user.StorageUsed,
		user.StorageLimit,
		user.CreatedAt,
		user.UpdatedAt,
	)

	return err
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `
		SELECT id, email, password_hash, full_name, role, storage_used, storage_limit, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	var user domain.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `
		SELECT id, email, password_hash, full_name, role, storage_used, storage_limit, created_at, updated_at
		FROM users
		WHERE email = $1
	`

	var user domain.User
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userRepository) List(ctx context.Context) ([]*domain.User, error) {
	query := `
		SELECT id, email, password_hash, full_name, role, storage_used, storage_limit, created_at, updated_at
		FROM users
		ORDER BY created_at DESC
	`

	var users []*domain.User
	if err := r.db.SelectContext(ctx, &users, query); err != nil {
		return nil, err
	}

	return users, nil
}

// ReserveStorage performs the quota check and the increment in a single
// statement so two concurrent uploads cannot both pass the check.
func (r *userRepository) ReserveStorage(ctx context.Context, id uuid.UUID, size int64) (bool, error) {
	query := `
		UPDATE users
		SET storage_used = storage_used + $2, updated_at = $3
		WHERE id = $1 AND storage_used + $2 <= storage_limit
	`

	result, err := r.db.ExecContext(ctx, query, id, size, time.Now())
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected == 1, nil
}

func (r *userRepository) ReleaseStorage(ctx context.Context, id uuid.UUID, size int64) error {
	query := `
		UPDATE users
		SET storage_used = GREATEST(storage_used - $2, 0), updated_at = $3
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query, id, size, time.Now())
	return err
}

func (r *userRepository) UpdateStorageLimit(ctx context.Context, id uuid.UUID, limit int64) error {
	query := `
		UPDATE users
		SET storage_limit = $2, updated_at = $3
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query, id, limit, time.Now())
	return err
}

func (r *userRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM users`)
	return count, err
}

func (r *userRepository) TotalStorageUsed(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.GetContext(ctx, &total, `SELECT COALESCE(SUM(storage_used), 0) FROM users`)
	return total, err
}
