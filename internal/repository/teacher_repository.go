package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/prasetyo/school-engine/internal/domain"
)

type teacherRepository struct {
	db *sqlx.DB
}

func NewTeacherRepository(db *sqlx.DB) TeacherRepository {
	return &teacherRepository{db: db}
}

const teacherDetailQuery = `
	SELECT t.id, t.teacher_number, t.user_id, t.employee_id, t.joining_date,
	       t.qualification, t.experience_years, t.subjects, t.specialization,
	       t.salary, t.date_of_birth, t.gender, t.status, t.created_at, t.updated_at,
	       u.full_name, u.email
	FROM teachers t
	JOIN users u ON u.id = t.user_id
`

func (r *teacherRepository) Create(ctx context.Context, teacher *domain.Teacher) error {
	query := `
		INSERT INTO teachers (id, teacher_number, user_id, employee_id, joining_date,
			qualification, experience_years, subjects, specialization, salary,
			date_of_birth, gender, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err := r.db.ExecContext(ctx, query,
		teacher.ID,
		teacher.TeacherNumber,
		teacher.UserID,
		teacher.EmployeeID,
		teacher.JoiningDate,
		teacher.Qualification,
		teacher.ExperienceYears,
		teacher.Subjects,
		teacher.Specialization,
		teacher.Salary,
		teacher.DateOfBirth,
		teacher.Gender,
		teacher.Status,
		teacher.CreatedAt,
		teacher.UpdatedAt,
	)

	return err
}

func (r *teacherRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.TeacherDetail, error) {
	var teacher domain.TeacherDetail
	if err := r.db.GetContext(ctx, &teacher, teacherDetailQuery+` WHERE t.id = $1`, id); err != nil {
		return nil, err
	}

	return &teacher, nil
}

func (r *teacherRepository) List(ctx context.Context) ([]*domain.TeacherDetail, error) {
	var teachers []*domain.TeacherDetail
	if err := r.db.SelectContext(ctx, &teachers, teacherDetailQuery+` ORDER BY t.created_at DESC`); err != nil {
		return nil, err
	}

	return teachers, nil
}

func (r *teacherRepository) Update(ctx context.Context, teacher *domain.Teacher) error {
	query := `
		UPDATE teachers
		SET qualification = $2, experience_years = $3, specialization = $4,
		    salary = $5, status = $6, updated_at = $7
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query,
		teacher.ID,
		teacher.Qualification,
		teacher.ExperienceYears,
		teacher.Specialization,
		teacher.Salary,
		teacher.Status,
		time.Now(),
	)

	return err
}

func (r *teacherRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM teachers WHERE id = $1`, id)
	return err
}

func (r *teacherRepository) UpdateSubjects(ctx context.Context, id uuid.UUID, subjects []string) error {
	query := `UPDATE teachers SET subjects = $2, updated_at = $3 WHERE id = $1`

	_, err := r.db.ExecContext(ctx, query, id, pq.StringArray(subjects), time.Now())
	return err
}

func (r *teacherRepository) CountActive(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM teachers WHERE status = $1`, domain.TeacherStatusActive)
	return count, err
}
