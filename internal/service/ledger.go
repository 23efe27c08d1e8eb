package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/prasetyo/school-engine/internal/domain"
	"github.com/prasetyo/school-engine/internal/repository"
	customError "github.com/prasetyo/school-engine/pkg/errors"
	"github.com/prasetyo/school-engine/pkg/utils"
)

// LedgerService owns the fee aggregate: charge structure edits, payment
// recording with receipt numbering, and the derived status fields.
type LedgerService struct {
	feeRepo     repository.FeeRepository
	studentRepo repository.StudentRepository
	userRepo    repository.UserRepository
	sequencer   Sequencer
}

func NewLedgerService(
	feeRepo repository.FeeRepository,
	studentRepo repository.StudentRepository,
	userRepo repository.UserRepository,
	sequencer Sequencer,
) *LedgerService {
	return &LedgerService{
		feeRepo:     feeRepo,
		studentRepo: studentRepo,
		userRepo:    userRepo,
		sequencer:   sequencer,
	}
}

// CreateFeeRecord creates a fee for one student and academic year with an
// initial charge list. The total is the sum of the charges and the status
// starts derived from a zero paid amount.
func (s *LedgerService) CreateFeeRecord(ctx context.Context, request *domain.CreateFeeRequest) (*domain.Fee, error) {
	if len(request.Charges) == 0 {
		return nil, customError.WrapValidation("fee structure must have at least one charge")
	}

	charges := make([]*domain.FeeCharge, 0, len(request.Charges))
	amounts := make([]decimal.Decimal, 0, len(request.Charges))
	for i, input := range request.Charges {
		if input.Amount.IsNegative() {
			return nil, customError.WrapValidation(fmt.Sprintf("charge %q has a negative amount", input.Category))
		}
		charges = append(charges, &domain.FeeCharge{
			ID:       uuid.New(),
			Category: input.Category,
			Amount:   input.Amount,
			Position: i,
		})
		amounts = append(amounts, input.Amount)
	}
	total := utils.SumCharges(amounts)

	now := time.Now()
	fee := &domain.Fee{
		ID:           uuid.New(),
		StudentID:    request.StudentID,
		AcademicYear: request.AcademicYear,
		TotalAmount:  total,
		PaidAmount:   decimal.Zero,
		DueAmount:    total,
		Status:       domain.DeriveStatus(decimal.Zero, total, request.DueDate, now),
		DueDate:      request.DueDate,
		CreatedAt:    now,
		UpdatedAt:    now,
		Charges:      charges,
		Payments:     []*domain.Payment{},
	}

	if err := s.feeRepo.Create(ctx, fee); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return fee, nil
}

// RecordPayment appends a payment to a fee, bumps the paid amount and
// rederives the due amount and status. The receipt number is assigned here,
// exactly once, from the yearly sequence. Overpayment is permitted and
// yields a Paid fee with a negative due amount.
func (s *LedgerService) RecordPayment(ctx context.Context, feeID uuid.UUID, request *domain.RecordPaymentRequest, receivedBy uuid.UUID) (*domain.Fee, error) {
	if !request.Amount.GreaterThan(decimal.Zero) {
		return nil, customError.WrapValidation("payment amount must be greater than zero")
	}

	fee, err := s.feeRepo.GetByID(ctx, feeID)
	if err != nil {
		return nil, wrapLookupError(err, "fee", feeID.String())
	}

	now := time.Now()
	seq, err := s.sequencer.Next(ctx, seqKindReceipt, now.Year())
	if err != nil {
		return nil, err
	}

	payment := &domain.Payment{
		ID:            uuid.New(),
		FeeID:         fee.ID,
		ReceiptNumber: utils.FormatReceiptNumber(now.Year(), seq),
		Amount:        request.Amount,
		PaymentDate:   now,
		PaymentMethod: request.PaymentMethod,
		TransactionID: request.TransactionID,
		Remarks:       request.Remarks,
		ReceivedBy:    receivedBy,
		Position:      len(fee.Payments),
	}

	fee.PaidAmount = fee.PaidAmount.Add(request.Amount)
	fee.DueAmount = fee.TotalAmount.Sub(fee.PaidAmount)
	fee.Status = domain.DeriveStatus(fee.PaidAmount, fee.TotalAmount, fee.DueDate, now)
	fee.Payments = append(fee.Payments, payment)

	if err := s.feeRepo.AddPayment(ctx, fee, payment); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return fee, nil
}

// UpdateStructure replaces the charge list and/or due date, recomputes the
// total and rederives the status. The paid amount is left untouched.
func (s *LedgerService) UpdateStructure(ctx context.Context, feeID uuid.UUID, request *domain.UpdateFeeRequest) (*domain.Fee, error) {
	fee, err := s.feeRepo.GetByID(ctx, feeID)
	if err != nil {
		return nil, wrapLookupError(err, "fee", feeID.String())
	}

	if len(request.Charges) > 0 {
		charges := make([]*domain.FeeCharge, 0, len(request.Charges))
		amounts := make([]decimal.Decimal, 0, len(request.Charges))
		for i, input := range request.Charges {
			if input.Amount.IsNegative() {
				return nil, customError.WrapValidation(fmt.Sprintf("charge %q has a negative amount", input.Category))
			}
			charges = append(charges, &domain.FeeCharge{
				ID:       uuid.New(),
				FeeID:    fee.ID,
				Category: input.Category,
				Amount:   input.Amount,
				Position: i,
			})
			amounts = append(amounts, input.Amount)
		}
		fee.Charges = charges
		fee.TotalAmount = utils.SumCharges(amounts)
	}

	if request.DueDate != nil {
		fee.DueDate = request.DueDate
	}

	now := time.Now()
	fee.DueAmount = fee.TotalAmount.Sub(fee.PaidAmount)
	fee.Status = domain.DeriveStatus(fee.PaidAmount, fee.TotalAmount, fee.DueDate, now)

	if err := s.feeRepo.UpdateStructure(ctx, fee); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return fee, nil
}

// GetFee returns the full aggregate.
func (s *LedgerService) GetFee(ctx context.Context, feeID uuid.UUID) (*domain.Fee, error) {
	fee, err := s.feeRepo.GetByID(ctx, feeID)
	if err != nil {
		return nil, wrapLookupError(err, "fee", feeID.String())
	}
	return fee, nil
}

// ListFees returns all fee records newest-first.
func (s *LedgerService) ListFees(ctx context.Context) ([]*domain.Fee, error) {
	fees, err := s.feeRepo.List(ctx)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return fees, nil
}

// ListStudentFees returns the fee records of one student.
func (s *LedgerService) ListStudentFees(ctx context.Context, studentID uuid.UUID) ([]*domain.Fee, error) {
	fees, err := s.feeRepo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return fees, nil
}

// ListDueFees returns fees with a positive due amount, earliest due first.
func (s *LedgerService) ListDueFees(ctx context.Context) ([]*domain.Fee, error) {
	fees, err := s.feeRepo.ListDue(ctx)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return fees, nil
}

// DeleteFee removes a fee record unconditionally; already-issued receipts
// are not reconciled.
func (s *LedgerService) DeleteFee(ctx context.Context, feeID uuid.UUID) error {
	if _, err := s.feeRepo.GetByID(ctx, feeID); err != nil {
		return wrapLookupError(err, "fee", feeID.String())
	}

	if err := s.feeRepo.Delete(ctx, feeID); err != nil {
		return customError.WrapDatabaseError(err)
	}

	return nil
}

// IssueReceipt builds the read-only receipt projection for one payment,
// combining the fee, the payment and the student's display fields.
func (s *LedgerService) IssueReceipt(ctx context.Context, feeID uuid.UUID, paymentIndex int) (*domain.Receipt, error) {
	fee, err := s.feeRepo.GetByID(ctx, feeID)
	if err != nil {
		return nil, wrapLookupError(err, "fee", feeID.String())
	}

	if paymentIndex < 0 || paymentIndex >= len(fee.Payments) {
		return nil, customError.WrapNotFound("payment", fmt.Sprintf("index %d", paymentIndex))
	}
	payment := fee.Payments[paymentIndex]

	receipt := &domain.Receipt{
		ReceiptNumber: payment.ReceiptNumber,
		Date:          payment.PaymentDate,
		Amount:        payment.Amount,
		PaymentMethod: payment.PaymentMethod,
		TransactionID: payment.TransactionID,
		Remarks:       payment.Remarks,
		AcademicYear:  fee.AcademicYear,
		TotalAmount:   fee.TotalAmount,
		PaidAmount:    fee.PaidAmount,
		DueAmount:     fee.DueAmount,
		Status:        fee.Status,
	}

	// Orphaned references are tolerated: the receipt is still issued with
	// whatever display fields resolve.
	if student, err := s.studentRepo.GetByID(ctx, fee.StudentID); err == nil {
		receipt.Student = domain.ReceiptStudent{
			StudentNumber: student.StudentNumber,
			Name:          student.FullName,
		}
		if student.ClassName != nil {
			receipt.Student.ClassName = *student.ClassName
		}
		if student.Section != nil {
			receipt.Student.Section = *student.Section
		}
	}

	if receiver, err := s.userRepo.GetByID(ctx, payment.ReceivedBy); err == nil {
		receipt.ReceivedBy = receiver.FullName
	}

	return receipt, nil
}

// MarkOverdueFees flips unpaid fees past their due date to Overdue. Run
// daily by the scheduler.
func (s *LedgerService) MarkOverdueFees(ctx context.Context) (int64, error) {
	count, err := s.feeRepo.MarkOverdue(ctx, time.Now())
	if err != nil {
		return 0, customError.WrapDatabaseError(err)
	}

	if count > 0 {
		log.Printf("marked %d fee(s) overdue", count)
	}

	return count, nil
}

// ExportLedger renders all fee records into an xlsx workbook.
func (s *LedgerService) ExportLedger(ctx context.Context) ([]byte, error) {
	fees, err := s.feeRepo.List(ctx)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Fees"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Fee ID", "Student ID", "Academic Year", "Total", "Paid", "Due", "Status", "Due Date"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
	}

	for row, fee := range fees {
		dueDate := ""
		if fee.DueDate != nil {
			dueDate = fee.DueDate.Format("2006-01-02")
		}
		values := []interface{}{
			fee.ID.String(),
			fee.StudentID.String(),
			fee.AcademicYear,
			fee.TotalAmount.InexactFloat64(),
			fee.PaidAmount.InexactFloat64(),
			fee.DueAmount.InexactFloat64(),
			fee.Status,
			dueDate,
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, customError.WrapStorageError(err)
	}

	return buf.Bytes(), nil
}
