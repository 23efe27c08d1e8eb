package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/prasetyo/school-engine/internal/domain"
)

type studentRepository struct {
	db *sqlx.DB
}

func NewStudentRepository(db *sqlx.DB) StudentRepository {
	return &studentRepository{db: db}
}

const studentDetailQuery = `
	SELECT s.id, s.student_number, s.user_id, s.admission_number, s.admission_date,
	       s.class_id, s.roll_number, s.date_of_birth, s.gender, s.blood_group,
	       s.parent_name, s.parent_phone, s.parent_email, s.emergency_contact,
	       s.previous_school, s.medical_info, s.status, s.created_at, s.updated_at,
	       u.full_name, u.email, c.class_name, c.section
	FROM students s
	JOIN users u ON u.id = s.user_id
	LEFT JOIN classes c ON c.id = s.class_id
`

func (r *studentRepository) Create(ctx context.Context, student *domain.Student) error {
	query := `
		INSERT INTO students (id, student_number, user_id, admission_number, admission_date,
			class_id, roll_number, date_of_birth, gender, blood_group,
			parent_name, parent_phone, parent_email, emergency_contact,
			previous_school, medical_info, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`

	_, err := r.db.ExecContext(ctx, query,
		student.ID,
		student.StudentNumber,
		student.UserID,
		student.AdmissionNumber,
		student.AdmissionDate,
		student.ClassID,
		student.RollNumber,
		student.DateOfBirth,
		student.Gender,
		student.BloodGroup,
		student.ParentName,
		student.ParentPhone,
		student.ParentEmail,
		student.EmergencyContact,
		student.PreviousSchool,
		student.MedicalInfo,
		student.Status,
		student.CreatedAt,
		student.UpdatedAt,
	)

	return err
}

func (r *studentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.StudentDetail, error) {
	var student domain.StudentDetail
	if err := r.db.GetContext(ctx, &student, studentDetailQuery+` WHERE s.id = $1`, id); err != nil {
		return nil, err
	}

	return &student, nil
}

func (r *studentRepository) List(ctx context.Context) ([]*domain.StudentDetail, error) {
	var students []*domain.StudentDetail
	if err := r.db.SelectContext(ctx, &students, studentDetailQuery+` ORDER BY s.created_at DESC`); err != nil {
		return nil, err
	}

	return students, nil
}

func (r *studentRepository) Update(ctx context.Context, student *domain.Student) error {
	query := `
		UPDATE students
		SET class_id = $2, roll_number = $3, blood_group = $4, parent_name = $5,
		    parent_phone = $6, parent_email = $7, emergency_contact = $8,
		    medical_info = $9, status = $10, updated_at = $11
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query,
		student.ID,
		student.ClassID,
		student.RollNumber,
		student.BloodGroup,
		student.ParentName,
		student.ParentPhone,
		student.ParentEmail,
		student.EmergencyContact,
		student.MedicalInfo,
		student.Status,
		time.Now(),
	)

	return err
}

func (r *studentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM students WHERE id = $1`, id)
	return err
}

func (r *studentRepository) SetClass(ctx context.Context, studentID uuid.UUID, classID *uuid.UUID) error {
	query := `UPDATE students SET class_id = $2, updated_at = $3 WHERE id = $1`

	_, err := r.db.ExecContext(ctx, query, studentID, classID, time.Now())
	return err
}

func (r *studentRepository) Promote(ctx context.Context, fromClassID, toClassID uuid.UUID) (int, error) {
	query := `
		UPDATE students
		SET class_id = $2, updated_at = $3
		WHERE class_id = $1 AND status = $4
	`

	result, err := r.db.ExecContext(ctx, query, fromClassID, toClassID, time.Now(), domain.StudentStatusActive)
	if err != nil {
		return 0, err
	}

	affected, err := result.RowsAffected()
	return int(affected), err
}

func (r *studentRepository) CountByClass(ctx context.Context, classID uuid.UUID) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM students WHERE class_id = $1`, classID)
	return count, err
}

func (r *studentRepository) CountActive(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM students WHERE status = $1`, domain.StudentStatusActive)
	return count, err
}

func (r *studentRepository) Recent(ctx context.Context, limit int) ([]*domain.StudentDetail, error) {
	var students []*domain.StudentDetail
	query := studentDetailQuery + ` ORDER BY s.created_at DESC LIMIT $1`
	if err := r.db.SelectContext(ctx, &students, query, limit); err != nil {
		return nil, err
	}

	return students, nil
}
