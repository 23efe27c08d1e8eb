package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/prasetyo/school-engine/internal/domain"
)

type attendanceRepository struct {
	db *sqlx.DB
}

func NewAttendanceRepository(db *sqlx.DB) AttendanceRepository {
	return &attendanceRepository{db: db}
}

func (r *attendanceRepository) Create(ctx context.Context, attendance *domain.Attendance) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO attendance (id, class_id, date, marked_by, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err = tx.ExecContext(ctx, query,
		attendance.ID,
		attendance.ClassID,
		attendance.Date,
		attendance.MarkedBy,
		attendance.CreatedAt,
	)
	if err != nil {
		return err
	}

	if err := insertRecords(ctx, tx, attendance.ID, attendance.Records); err != nil {
		return err
	}

	return tx.Commit()
}

func insertRecords(ctx context.Context, tx *sqlx.Tx, attendanceID uuid.UUID, records []*domain.AttendanceRecord) error {
	query := `
		INSERT INTO attendance_records (id, attendance_id, student_id, status, remarks)
		VALUES ($1, $2, $3, $4, $5)
	`

	for _, record := range records {
		_, err := tx.ExecContext(ctx, query,
			record.ID,
			attendanceID,
			record.StudentID,
			record.Status,
			record.Remarks,
		)
		if err != nil {
			return err
		}
	}

	return nil
}

func (r *attendanceRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Attendance, error) {
	query := `
		SELECT id, class_id, date, marked_by, created_at
		FROM attendance
		WHERE id = $1
	`

	var attendance domain.Attendance
	if err := r.db.GetContext(ctx, &attendance, query, id); err != nil {
		return nil, err
	}

	if err := r.loadRecords(ctx, []*domain.Attendance{&attendance}); err != nil {
		return nil, err
	}

	return &attendance, nil
}

func (r *attendanceRepository) ReplaceRecords(ctx context.Context, attendanceID uuid.UUID, records []*domain.AttendanceRecord) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM attendance_records WHERE attendance_id = $1`, attendanceID); err != nil {
		return err
	}

	if err := insertRecords(ctx, tx, attendanceID, records); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *attendanceRepository) ListByClass(ctx context.Context, classID uuid.UUID, from, to *time.Time) ([]*domain.Attendance, error) {
	query := `
		SELECT id, class_id, date, marked_by, created_at
		FROM attendance
		WHERE class_id = $1
		  AND ($2::timestamptz IS NULL OR date >= $2)
		  AND ($3::timestamptz IS NULL OR date <= $3)
		ORDER BY date DESC
	`

	var sheets []*domain.Attendance
	if err := r.db.SelectContext(ctx, &sheets, query, classID, from, to); err != nil {
		return nil, err
	}

	if err := r.loadRecords(ctx, sheets); err != nil {
		return nil, err
	}

	return sheets, nil
}

func (r *attendanceRepository) ListByStudent(ctx context.Context, studentID uuid.UUID, from, to *time.Time) ([]*domain.Attendance, error) {
	query := `
		SELECT DISTINCT a.id, a.class_id, a.date, a.marked_by, a.created_at
		FROM attendance a
		JOIN attendance_records ar ON ar.attendance_id = a.id
		WHERE ar.student_id = $1
		  AND ($2::timestamptz IS NULL OR a.date >= $2)
		  AND ($3::timestamptz IS NULL OR a.date <= $3)
		ORDER BY a.date DESC
	`

	var sheets []*domain.Attendance
	if err := r.db.SelectContext(ctx, &sheets, query, studentID, from, to); err != nil {
		return nil, err
	}

	if err := r.loadRecords(ctx, sheets); err != nil {
		return nil, err
	}

	return sheets, nil
}

func (r *attendanceRepository) ListByDate(ctx context.Context, date time.Time) ([]*domain.Attendance, error) {
	query := `
		SELECT id, class_id, date, marked_by, created_at
		FROM attendance
		WHERE date = $1
	`

	var sheets []*domain.Attendance
	if err := r.db.SelectContext(ctx, &sheets, query, date); err != nil {
		return nil, err
	}

	if err := r.loadRecords(ctx, sheets); err != nil {
		return nil, err
	}

	return sheets, nil
}

func (r *attendanceRepository) loadRecords(ctx context.Context, sheets []*domain.Attendance) error {
	if len(sheets) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(sheets))
	byID := make(map[uuid.UUID]*domain.Attendance, len(sheets))
	for _, sheet := range sheets {
		ids = append(ids, sheet.ID)
		byID[sheet.ID] = sheet
	}

	query, args, err := sqlx.In(`
		SELECT id, attendance_id, student_id, status, remarks
		FROM attendance_records
		WHERE attendance_id IN (?)
	`, ids)
	if err != nil {
		return err
	}

	var records []*domain.AttendanceRecord
	if err := r.db.SelectContext(ctx, &records, r.db.Rebind(query), args...); err != nil {
		return err
	}

	for _, record := range records {
		sheet := byID[record.AttendanceID]
		sheet.Records = append(sheet.Records, record)
	}

	return nil
}
