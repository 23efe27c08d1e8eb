package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/prasetyo/school-engine/internal/domain"
)

type examRepository struct {
	db *sqlx.DB
}

func NewExamRepository(db *sqlx.DB) ExamRepository {
	return &examRepository{db: db}
}

const examColumns = `id, exam_name, exam_type, class_id, subject, total_marks, passing_marks, exam_date, duration_minutes, created_by, created_at, updated_at`

func (r *examRepository) Create(ctx context.Context, exam *domain.Exam) error {
	query := `
		INSERT INTO exams (` + examColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.ExecContext(ctx, query,
		exam.ID,
		exam.ExamName,
		exam.ExamType,
		exam.ClassID,
		exam.Subject,
		exam.TotalMarks,
		exam.PassingMarks,
		exam.ExamDate,
		exam.DurationMinutes,
		exam.CreatedBy,
		exam.CreatedAt,
		exam.UpdatedAt,
	)

	return err
}

func (r *examRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Exam, error) {
	query := `SELECT ` + examColumns + ` FROM exams WHERE id = $1`

	var exam domain.Exam
	if err := r.db.GetContext(ctx, &exam, query, id); err != nil {
		return nil, err
	}

	resultQuery := `
		SELECT id, exam_id, student_id, marks_obtained, percentage, grade, remarks
		FROM exam_results
		WHERE exam_id = $1
	`
	if err := r.db.SelectContext(ctx, &exam.Results, resultQuery, id); err != nil {
		return nil, err
	}

	return &exam, nil
}

func (r *examRepository) List(ctx context.Context) ([]*domain.Exam, error) {
	query := `SELECT ` + examColumns + ` FROM exams ORDER BY exam_date DESC`

	var exams []*domain.Exam
	if err := r.db.SelectContext(ctx, &exams, query); err != nil {
		return nil, err
	}

	return exams, nil
}

func (r *examRepository) Update(ctx context.Context, exam *domain.Exam) error {
	query := `
		UPDATE exams
		SET exam_name = $2, exam_type = $3, subject = $4, total_marks = $5,
		    passing_marks = $6, exam_date = $7, duration_minutes = $8, updated_at = $9
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query,
		exam.ID,
		exam.ExamName,
		exam.ExamType,
		exam.Subject,
		exam.TotalMarks,
		exam.PassingMarks,
		exam.ExamDate,
		exam.DurationMinutes,
		time.Now(),
	)

	return err
}

func (r *examRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM exams WHERE id = $1`, id)
	return err
}

func (r *examRepository) UpsertResults(ctx context.Context, examID uuid.UUID, results []*domain.ExamResult) error {
	query := `
		INSERT INTO exam_results (id, exam_id, student_id, marks_obtained, percentage, grade, remarks)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (exam_id, student_id) DO UPDATE
		SET marks_obtained = EXCLUDED.marks_obtained,
		    percentage = EXCLUDED.percentage,
		    grade = EXCLUDED.grade,
		    remarks = EXCLUDED.remarks
	`

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, result := range results {
		_, err := tx.ExecContext(ctx, query,
			result.ID,
			examID,
			result.StudentID,
			result.MarksObtained,
			result.Percentage,
			result.Grade,
			result.Remarks,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}
