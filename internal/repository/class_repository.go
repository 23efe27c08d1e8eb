package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/prasetyo/school-engine/internal/domain"
)

type classRepository struct {
	db *sqlx.DB
}

func NewClassRepository(db *sqlx.DB) ClassRepository {
	return &classRepository{db: db}
}

const classColumns = `id, class_name, section, class_teacher_id, academic_year, capacity, room, is_active, created_at, updated_at`

func (r *classRepository) Create(ctx context.Context, class *domain.Class) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO classes (` + classColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err = tx.ExecContext(ctx, query,
		class.ID,
		class.ClassName,
		class.Section,
		class.TeacherID,
		class.AcademicYear,
		class.Capacity,
		class.Room,
		class.IsActive,
		class.CreatedAt,
		class.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if err := insertClassSubjects(ctx, tx, class.ID, class.Subjects); err != nil {
		return err
	}

	return tx.Commit()
}

func insertClassSubjects(ctx context.Context, tx *sqlx.Tx, classID uuid.UUID, subjects []*domain.ClassSubject) error {
	query := `
		INSERT INTO class_subjects (id, class_id, subject_name, teacher_id)
		VALUES ($1, $2, $3, $4)
	`

	for _, subject := range subjects {
		_, err := tx.ExecContext(ctx, query,
			subject.ID,
			classID,
			subject.SubjectName,
			subject.TeacherID,
		)
		if err != nil {
			return err
		}
	}

	return nil
}

func (r *classRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Class, error) {
	query := `SELECT ` + classColumns + ` FROM classes WHERE id = $1`

	var class domain.Class
	if err := r.db.GetContext(ctx, &class, query, id); err != nil {
		return nil, err
	}

	subjectQuery := `
		SELECT id, class_id, subject_name, teacher_id
		FROM class_subjects
		WHERE class_id = $1
		ORDER BY subject_name
	`
	if err := r.db.SelectContext(ctx, &class.Subjects, subjectQuery, id); err != nil {
		return nil, err
	}

	rosterQuery := `SELECT id FROM students WHERE class_id = $1 ORDER BY roll_number NULLS LAST`
	if err := r.db.SelectContext(ctx, &class.Students, rosterQuery, id); err != nil {
		return nil, err
	}

	return &class, nil
}

func (r *classRepository) List(ctx context.Context) ([]*domain.Class, error) {
	query := `SELECT ` + classColumns + ` FROM classes ORDER BY class_name, section`

	var classes []*domain.Class
	if err := r.db.SelectContext(ctx, &classes, query); err != nil {
		return nil, err
	}

	return classes, nil
}

func (r *classRepository) Update(ctx context.Context, class *domain.Class, replaceSubjects bool) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		UPDATE classes
		SET section = $2, class_teacher_id = $3, academic_year = $4, capacity = $5,
		    room = $6, is_active = $7, updated_at = $8
		WHERE id = $1
	`

	_, err = tx.ExecContext(ctx, query,
		class.ID,
		class.Section,
		class.TeacherID,
		class.AcademicYear,
		class.Capacity,
		class.Room,
		class.IsActive,
		time.Now(),
	)
	if err != nil {
		return err
	}

	if replaceSubjects {
		if _, err := tx.ExecContext(ctx, `DELETE FROM class_subjects WHERE class_id = $1`, class.ID); err != nil {
			return err
		}
		if err := insertClassSubjects(ctx, tx, class.ID, class.Subjects); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *classRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM classes WHERE id = $1`, id)
	return err
}

func (r *classRepository) CountActive(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM classes WHERE is_active = true`)
	return count, err
}

func (r *classRepository) Distribution(ctx context.Context) ([]*domain.ClassDistribution, error) {
	query := `
		SELECT c.class_name, c.section, c.capacity, COUNT(s.id) AS student_count
		FROM classes c
		LEFT JOIN students s ON s.class_id = c.id
		WHERE c.is_active = true
		GROUP BY c.id, c.class_name, c.section, c.capacity
		ORDER BY c.class_name, c.section
	`

	var distribution []*domain.ClassDistribution
	if err := r.db.SelectContext(ctx, &distribution, query); err != nil {
		return nil, err
	}

	return distribution, nil
}
