package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/prasetyo/school-engine/internal/domain"
)

type fileRepository struct {
	db *sqlx.DB
}

func NewFileRepository(db *sqlx.DB) FileRepository {
	return &fileRepository{db: db}
}

const fileColumns = `id, original_name, object_key, content_type, size, uploaded_by, uploaded_at, downloads`

func (r *fileRepository) Create(ctx context.Context, file *domain.StoredFile) error {
	query := `
		INSERT INTO files (` + fileColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		file.ID,
		file.OriginalName,
		file.ObjectKey,
		file.ContentType,
		file.Size,
		file.UploadedBy,
		file.UploadedAt,
		file.Downloads,
	)

	return err
}

func (r *fileRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.StoredFile, error) {
	query := `SELECT ` + fileColumns + ` FROM files WHERE id = $1`

	var file domain.StoredFile
	if err := r.db.GetContext(ctx, &file, query, id); err != nil {
		return nil, err
	}

	return &file, nil
}

func (r *fileRepository) List(ctx context.Context, query domain.FileListQuery) ([]*domain.StoredFile, error) {
	sql := `SELECT ` + fileColumns + ` FROM files WHERE 1=1`
	args := []interface{}{}

	if query.OwnerID != nil {
		args = append(args, *query.OwnerID)
		sql += fmt.Sprintf(" AND uploaded_by = $%d", len(args))
	}

	if query.Search != "" {
		args = append(args, "%"+query.Search+"%")
		sql += fmt.Sprintf(" AND original_name ILIKE $%d", len(args))
	}

	switch query.Sort {
	case "name":
		sql += " ORDER BY original_name ASC"
	case "size":
		sql += " ORDER BY size DESC"
	case "oldest":
		sql += " ORDER BY uploaded_at ASC"
	default:
		sql += " ORDER BY uploaded_at DESC"
	}

	var files []*domain.StoredFile
	if err := r.db.SelectContext(ctx, &files, sql, args...); err != nil {
		return nil, err
	}

	return files, nil
}

func (r *fileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM files WHERE id = $1`, id)
	return err
}

func (r *fileRepository) IncrementDownloads(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `UPDATE files SET downloads = downloads + 1 WHERE id = $1`, id)
	return err
}

func (r *fileRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM files`)
	return count, err
}
