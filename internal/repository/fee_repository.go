package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/prasetyo/school-engine/internal/domain"
)

type feeRepository struct {
	db *sqlx.DB
}

func NewFeeRepository(db *sqlx.DB) FeeRepository {
	return &feeRepository{db: db}
}

const feeColumns = `id, student_id, academic_year, total_amount, paid_amount, due_amount, status, due_date, created_at, updated_at`

func (r *feeRepository) Create(ctx context.Context, fee *domain.Fee) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO fees (` + feeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err = tx.ExecContext(ctx, query,
		fee.ID,
		fee.StudentID,
		fee.AcademicYear,
		fee.TotalAmount,
		fee.PaidAmount,
		fee.DueAmount,
		fee.Status,
		fee.DueDate,
		fee.CreatedAt,
		fee.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if err := insertCharges(ctx, tx, fee.ID, fee.Charges); err != nil {
		return err
	}

	return tx.Commit()
}

func insertCharges(ctx context.Context, tx *sqlx.Tx, feeID uuid.UUID, charges []*domain.FeeCharge) error {
	query := `
		INSERT INTO fee_charges (id, fee_id, category, amount, position)
		VALUES ($1, $2, $3, $4, $5)
	`

	for _, charge := range charges {
		_, err := tx.ExecContext(ctx, query,
			charge.ID,
			feeID,
			charge.Category,
			charge.Amount,
			charge.Position,
		)
		if err != nil {
			return err
		}
	}

	return nil
}

func (r *feeRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Fee, error) {
	query := `SELECT ` + feeColumns + ` FROM fees WHERE id = $1`

	var fee domain.Fee
	if err := r.db.GetContext(ctx, &fee, query, id); err != nil {
		return nil, err
	}

	chargeQuery := `
		SELECT id, fee_id, category, amount, position
		FROM fee_charges
		WHERE fee_id = $1
		ORDER BY position
	`
	if err := r.db.SelectContext(ctx, &fee.Charges, chargeQuery, id); err != nil {
		return nil, err
	}

	paymentQuery := `
		SELECT id, fee_id, receipt_number, amount, payment_date, payment_method, transaction_id, remarks, received_by, position
		FROM fee_payments
		WHERE fee_id = $1
		ORDER BY position
	`
	if err := r.db.SelectContext(ctx, &fee.Payments, paymentQuery, id); err != nil {
		return nil, err
	}

	return &fee, nil
}

func (r *feeRepository) List(ctx context.Context) ([]*domain.Fee, error) {
	query := `SELECT ` + feeColumns + ` FROM fees ORDER BY created_at DESC`

	var fees []*domain.Fee
	if err := r.db.SelectContext(ctx, &fees, query); err != nil {
		return nil, err
	}

	if err := r.loadChildren(ctx, fees); err != nil {
		return nil, err
	}

	return fees, nil
}

func (r *feeRepository) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]*domain.Fee, error) {
	query := `SELECT ` + feeColumns + ` FROM fees WHERE student_id = $1 ORDER BY academic_year DESC`

	var fees []*domain.Fee
	if err := r.db.SelectContext(ctx, &fees, query, studentID); err != nil {
		return nil, err
	}

	if err := r.loadChildren(ctx, fees); err != nil {
		return nil, err
	}

	return fees, nil
}

func (r *feeRepository) ListDue(ctx context.Context) ([]*domain.Fee, error) {
	query := `SELECT ` + feeColumns + ` FROM fees WHERE due_amount > 0 ORDER BY due_date ASC NULLS LAST`

	var fees []*domain.Fee
	if err := r.db.SelectContext(ctx, &fees, query); err != nil {
		return nil, err
	}

	if err := r.loadChildren(ctx, fees); err != nil {
		return nil, err
	}

	return fees, nil
}

// loadChildren batch-loads charges and payments for a list of fees so list
// queries return the same fully populated aggregate as GetByID.
func (r *feeRepository) loadChildren(ctx context.Context, fees []*domain.Fee) error {
	if len(fees) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(fees))
	for i, fee := range fees {
		ids[i] = fee.ID
	}

	query, args, err := sqlx.In(`
		SELECT id, fee_id, category, amount, position
		FROM fee_charges
		WHERE fee_id IN (?)
		ORDER BY position
	`, ids)
	if err != nil {
		return err
	}
	var charges []*domain.FeeCharge
	if err := r.db.SelectContext(ctx, &charges, r.db.Rebind(query), args...); err != nil {
		return err
	}

	query, args, err = sqlx.In(`
		SELECT id, fee_id, receipt_number, amount, payment_date, payment_method, transaction_id, remarks, received_by, position
		FROM fee_payments
		WHERE fee_id IN (?)
		ORDER BY position
	`, ids)
	if err != nil {
		return err
	}
	var payments []*domain.Payment
	if err := r.db.SelectContext(ctx, &payments, r.db.Rebind(query), args...); err != nil {
		return err
	}

	attachFeeChildren(fees, charges, payments)
	return nil
}

// attachFeeChildren groups loaded charges and payments under their fees,
// preserving query order. Every fee ends up with non-nil slices.
func attachFeeChildren(fees []*domain.Fee, charges []*domain.FeeCharge, payments []*domain.Payment) {
	byID := make(map[uuid.UUID]*domain.Fee, len(fees))
	for _, fee := range fees {
		fee.Charges = []*domain.FeeCharge{}
		fee.Payments = []*domain.Payment{}
		byID[fee.ID] = fee
	}

	for _, charge := range charges {
		if fee, ok := byID[charge.FeeID]; ok {
			fee.Charges = append(fee.Charges, charge)
		}
	}

	for _, payment := range payments {
		if fee, ok := byID[payment.FeeID]; ok {
			fee.Payments = append(fee.Payments, payment)
		}
	}
}

func (r *feeRepository) UpdateStructure(ctx context.Context, fee *domain.Fee) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		UPDATE fees
		SET total_amount = $2, due_amount = $3, status = $4, due_date = $5, updated_at = $6
		WHERE id = $1
	`

	_, err = tx.ExecContext(ctx, query,
		fee.ID,
		fee.TotalAmount,
		fee.DueAmount,
		fee.Status,
		fee.DueDate,
		time.Now(),
	)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM fee_charges WHERE fee_id = $1`, fee.ID); err != nil {
		return err
	}

	if err := insertCharges(ctx, tx, fee.ID, fee.Charges); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *feeRepository) AddPayment(ctx context.Context, fee *domain.Fee, payment *domain.Payment) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	paymentQuery := `
		INSERT INTO fee_payments (id, fee_id, receipt_number, amount, payment_date, payment_method, transaction_id, remarks, received_by, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err = tx.ExecContext(ctx, paymentQuery,
		payment.ID,
		fee.ID,
		payment.ReceiptNumber,
		payment.Amount,
		payment.PaymentDate,
		payment.PaymentMethod,
		payment.TransactionID,
		payment.Remarks,
		payment.ReceivedBy,
		payment.Position,
	)
	if err != nil {
		return err
	}

	feeQuery := `
		UPDATE fees
		SET paid_amount = $2, due_amount = $3, status = $4, updated_at = $5
		WHERE id = $1
	`

	_, err = tx.ExecContext(ctx, feeQuery,
		fee.ID,
		fee.PaidAmount,
		fee.DueAmount,
		fee.Status,
		time.Now(),
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (r *feeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM fees WHERE id = $1`, id)
	return err
}

func (r *feeRepository) MarkOverdue(ctx context.Context, now time.Time) (int64, error) {
	query := `
		UPDATE fees
		SET status = $1, updated_at = $2
		WHERE due_date IS NOT NULL AND due_date < $2 AND due_amount > 0 AND status NOT IN ($1, $3)
	`

	result, err := r.db.ExecContext(ctx, query, domain.FeeStatusOverdue, now, domain.FeeStatusPaid)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}
