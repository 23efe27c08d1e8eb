package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Fee statuses
const (
	FeeStatusPending = "Pending"
	FeeStatusPartial = "Partial"
	FeeStatusPaid    = "Paid"
	FeeStatusOverdue = "Overdue"
)

// Payment methods
const (
	PaymentMethodCash   = "Cash"
	PaymentMethodCard   = "Card"
	PaymentMethodOnline = "Online"
	PaymentMethodCheque = "Cheque"
)

// Fee is the ledger aggregate: one record per student and academic year,
// holding the charge structure and the payments made against it.
// DueAmount and Status are derived and recomputed before every persist.
type Fee struct {
	ID           uuid.UUID       `json:"id" db:"id"`
	StudentID    uuid.UUID       `json:"student_id" db:"student_id"`
	AcademicYear string          `json:"academic_year" db:"academic_year"`
	TotalAmount  decimal.Decimal `json:"total_amount" db:"total_amount"`
	PaidAmount   decimal.Decimal `json:"paid_amount" db:"paid_amount"`
	DueAmount    decimal.Decimal `json:"due_amount" db:"due_amount"`
	Status       string          `json:"status" db:"status"`
	DueDate      *time.Time      `json:"due_date,omitempty" db:"due_date"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at" db:"updated_at"`

	Charges  []*FeeCharge `json:"fee_structure"`
	Payments []*Payment   `json:"payments"`
}

// FeeCharge is one line of the fee structure, e.g. Tuition or Library.
type FeeCharge struct {
	ID       uuid.UUID       `json:"id" db:"id"`
	FeeID    uuid.UUID       `json:"-" db:"fee_id"`
	Category string          `json:"category" db:"category"`
	Amount   decimal.Decimal `json:"amount" db:"amount"`
	Position int             `json:"-" db:"position"`
}

// Payment is a sub-record of Fee. The receipt number is assigned exactly
// once at first persist and never reassigned.
type Payment struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	FeeID         uuid.UUID       `json:"-" db:"fee_id"`
	ReceiptNumber string          `json:"receipt_number" db:"receipt_number"`
	Amount        decimal.Decimal `json:"amount" db:"amount"`
	PaymentDate   time.Time       `json:"payment_date" db:"payment_date"`
	PaymentMethod string          `json:"payment_method" db:"payment_method"`
	TransactionID *string         `json:"transaction_id,omitempty" db:"transaction_id"`
	Remarks       *string         `json:"remarks,omitempty" db:"remarks"`
	ReceivedBy    uuid.UUID       `json:"received_by" db:"received_by"`
	Position      int             `json:"-" db:"position"`
}

// DeriveStatus is a pure function of the paid amount, total amount, due date
// and clock. Paid wins regardless of due date; Overdue overrides Partial and
// Pending once the due date has passed with a positive balance. Overpayment
// yields Paid with a negative due amount.
func DeriveStatus(paid, total decimal.Decimal, dueDate *time.Time, now time.Time) string {
	if paid.GreaterThanOrEqual(total) && !paid.IsZero() {
		return FeeStatusPaid
	}

	status := FeeStatusPartial
	if paid.IsZero() {
		status = FeeStatusPending
	}

	if dueDate != nil && now.After(*dueDate) && total.Sub(paid).GreaterThan(decimal.Zero) {
		return FeeStatusOverdue
	}

	return status
}

// DTOs for requests and responses

type FeeChargeInput struct {
	Category string          `json:"category" validate:"required"`
	Amount   decimal.Decimal `json:"amount" validate:"required"`
}

type CreateFeeRequest struct {
	StudentID    uuid.UUID        `json:"student_id" validate:"required"`
	AcademicYear string           `json:"academic_year" validate:"required"`
	Charges      []FeeChargeInput `json:"fee_structure" validate:"required"`
	DueDate      *time.Time       `json:"due_date,omitempty"`
}

type RecordPaymentRequest struct {
	Amount        decimal.Decimal `json:"amount" validate:"required"`
	PaymentMethod string          `json:"payment_method" validate:"required,oneof=Cash Card Online Cheque"`
	TransactionID *string         `json:"transaction_id,omitempty"`
	Remarks       *string         `json:"remarks,omitempty"`
}

type UpdateFeeRequest struct {
	Charges []FeeChargeInput `json:"fee_structure,omitempty"`
	DueDate *time.Time       `json:"due_date,omitempty"`
}

// Receipt is a read-only projection over one payment plus contextual
// student and fee data.
type Receipt struct {
	ReceiptNumber string          `json:"receipt_number"`
	Date          time.Time       `json:"date"`
	Student       ReceiptStudent  `json:"student"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method"`
	TransactionID *string         `json:"transaction_id,omitempty"`
	Remarks       *string         `json:"remarks,omitempty"`
	AcademicYear  string          `json:"academic_year"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	DueAmount     decimal.Decimal `json:"due_amount"`
	Status        string          `json:"status"`
	ReceivedBy    string          `json:"received_by,omitempty"`
}

type ReceiptStudent struct {
	StudentNumber string `json:"student_number"`
	Name          string `json:"name"`
	ClassName     string `json:"class_name,omitempty"`
	Section       string `json:"section,omitempty"`
}
