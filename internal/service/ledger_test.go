package service

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/prasetyo/school-engine/internal/domain"
	customError "github.com/prasetyo/school-engine/pkg/errors"
	"github.com/prasetyo/school-engine/tests/mocks"
)

func newLedgerFixture() (*LedgerService, *mocks.MockFeeRepository, *mocks.MockStudentRepository, *mocks.MockUserRepository, *mocks.MockSequencer) {
	feeRepo := new(mocks.MockFeeRepository)
	studentRepo := new(mocks.MockStudentRepository)
	userRepo := new(mocks.MockUserRepository)
	sequencer := new(mocks.MockSequencer)
	svc := NewLedgerService(feeRepo, studentRepo, userRepo, sequencer)
	return svc, feeRepo, studentRepo, userRepo, sequencer
}

func TestCreateFeeRecord(t *testing.T) {
	studentID := uuid.New()

	t.Run("sums charges and starts pending", func(t *testing.T) {
		svc, feeRepo, _, _, _ := newLedgerFixture()
		feeRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

		fee, err := svc.CreateFeeRecord(context.Background(), &domain.CreateFeeRequest{
			StudentID:    studentID,
			AcademicYear: "2026-2027",
			Charges: []domain.FeeChargeInput{
				{Category: "Tuition", Amount: decimal.NewFromInt(1000)},
				{Category: "Library", Amount: decimal.NewFromInt(200)},
			},
		})

		assert.NoError(t, err)
		assert.True(t, fee.TotalAmount.Equal(decimal.NewFromInt(1200)))
		assert.True(t, fee.PaidAmount.Equal(decimal.Zero))
		assert.True(t, fee.DueAmount.Equal(decimal.NewFromInt(1200)))
		assert.Equal(t, domain.FeeStatusPending, fee.Status)
		assert.Len(t, fee.Charges, 2)
		feeRepo.AssertExpectations(t)
	})

	t.Run("rejects empty charge list", func(t *testing.T) {
		svc, _, _, _, _ := newLedgerFixture()

		_, err := svc.CreateFeeRecord(context.Background(), &domain.CreateFeeRequest{
			StudentID:    studentID,
			AcademicYear: "2026-2027",
		})

		assert.Error(t, err)
		assert.Equal(t, customError.ErrCodeValidation, customError.CodeOf(err))
	})

	t.Run("rejects negative charge amount", func(t *testing.T) {
		svc, _, _, _, _ := newLedgerFixture()

		_, err := svc.CreateFeeRecord(context.Background(), &domain.CreateFeeRequest{
			StudentID:    studentID,
			AcademicYear: "2026-2027",
			Charges: []domain.FeeChargeInput{
				{Category: "Tuition", Amount: decimal.NewFromInt(-100)},
			},
		})

		assert.Error(t, err)
		assert.Equal(t, customError.ErrCodeValidation, customError.CodeOf(err))
	})

	t.Run("past due date starts overdue", func(t *testing.T) {
		svc, feeRepo, _, _, _ := newLedgerFixture()
		feeRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

		past := time.Now().AddDate(0, 0, -10)
		fee, err := svc.CreateFeeRecord(context.Background(), &domain.CreateFeeRequest{
			StudentID:    studentID,
			AcademicYear: "2026-2027",
			Charges: []domain.FeeChargeInput{
				{Category: "Tuition", Amount: decimal.NewFromInt(1000)},
			},
			DueDate: &past,
		})

		assert.NoError(t, err)
		assert.Equal(t, domain.FeeStatusOverdue, fee.Status)
	})
}

func storedFee(total, paid int64, dueDate *time.Time) *domain.Fee {
	totalDec := decimal.NewFromInt(total)
	paidDec := decimal.NewFromInt(paid)
	return &domain.Fee{
		ID:           uuid.New(),
		StudentID:    uuid.New(),
		AcademicYear: "2026-2027",
		TotalAmount:  totalDec,
		PaidAmount:   paidDec,
		DueAmount:    totalDec.Sub(paidDec),
		Status:       domain.DeriveStatus(paidDec, totalDec, dueDate, time.Now()),
		DueDate:      dueDate,
		Charges: []*domain.FeeCharge{
			{ID: uuid.New(), Category: "Tuition", Amount: totalDec},
		},
		Payments: []*domain.Payment{},
	}
}

func TestRecordPayment(t *testing.T) {
	receiptPattern := regexp.MustCompile(`^RCP\d{4}\d{6}$`)

	t.Run("partial payment", func(t *testing.T) {
		svc, feeRepo, _, _, sequencer := newLedgerFixture()
		fee := storedFee(1200, 0, nil)

		feeRepo.On("GetByID", mock.Anything, fee.ID).Return(fee, nil)
		sequencer.On("Next", mock.Anything, "receipt", mock.Anything).Return(int64(1), nil)
		feeRepo.On("AddPayment", mock.Anything, mock.Anything, mock.Anything).Return(nil)

		updated, err := svc.RecordPayment(context.Background(), fee.ID, &domain.RecordPaymentRequest{
			Amount:        decimal.NewFromInt(500),
			PaymentMethod: domain.PaymentMethodCash,
		}, uuid.New())

		assert.NoError(t, err)
		assert.True(t, updated.PaidAmount.Equal(decimal.NewFromInt(500)))
		assert.True(t, updated.DueAmount.Equal(decimal.NewFromInt(700)))
		assert.Equal(t, domain.FeeStatusPartial, updated.Status)
		assert.Len(t, updated.Payments, 1)
		assert.Regexp(t, receiptPattern, updated.Payments[0].ReceiptNumber)
	})

	t.Run("payment settling the balance", func(t *testing.T) {
		svc, feeRepo, _, _, sequencer := newLedgerFixture()
		fee := storedFee(1200, 500, nil)
		fee.Payments = []*domain.Payment{{ID: uuid.New(), ReceiptNumber: "RCP2026000001", Position: 0}}

		feeRepo.On("GetByID", mock.Anything, fee.ID).Return(fee, nil)
		sequencer.On("Next", mock.Anything, "receipt", mock.Anything).Return(int64(2), nil)
		feeRepo.On("AddPayment", mock.Anything, mock.Anything, mock.Anything).Return(nil)

		updated, err := svc.RecordPayment(context.Background(), fee.ID, &domain.RecordPaymentRequest{
			Amount:        decimal.NewFromInt(700),
			PaymentMethod: domain.PaymentMethodOnline,
		}, uuid.New())

		assert.NoError(t, err)
		assert.True(t, updated.DueAmount.Equal(decimal.Zero))
		assert.Equal(t, domain.FeeStatusPaid, updated.Status)
		assert.Equal(t, 1, updated.Payments[1].Position)
	})

	t.Run("overpayment goes negative and paid", func(t *testing.T) {
		svc, feeRepo, _, _, sequencer := newLedgerFixture()
		fee := storedFee(1200, 0, nil)

		feeRepo.On("GetByID", mock.Anything, fee.ID).Return(fee, nil)
		sequencer.On("Next", mock.Anything, "receipt", mock.Anything).Return(int64(3), nil)
		feeRepo.On("AddPayment", mock.Anything, mock.Anything, mock.Anything).Return(nil)

		updated, err := svc.RecordPayment(context.Background(), fee.ID, &domain.RecordPaymentRequest{
			Amount:        decimal.NewFromInt(2000),
			PaymentMethod: domain.PaymentMethodCard,
		}, uuid.New())

		assert.NoError(t, err)
		assert.True(t, updated.DueAmount.Equal(decimal.NewFromInt(-800)))
		assert.Equal(t, domain.FeeStatusPaid, updated.Status)
	})

	t.Run("payment past due date clears overdue", func(t *testing.T) {
		svc, feeRepo, _, _, sequencer := newLedgerFixture()
		past := time.Now().AddDate(0, 0, -5)
		fee := storedFee(1000, 0, &past)
		assert.Equal(t, domain.FeeStatusOverdue, fee.Status)

		feeRepo.On("GetByID", mock.Anything, fee.ID).Return(fee, nil)
		sequencer.On("Next", mock.Anything, "receipt", mock.Anything).Return(int64(4), nil)
		feeRepo.On("AddPayment", mock.Anything, mock.Anything, mock.Anything).Return(nil)

		updated, err := svc.RecordPayment(context.Background(), fee.ID, &domain.RecordPaymentRequest{
			Amount:        decimal.NewFromInt(1000),
			PaymentMethod: domain.PaymentMethodCash,
		}, uuid.New())

		assert.NoError(t, err)
		assert.Equal(t, domain.FeeStatusPaid, updated.Status)
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		svc, _, _, _, _ := newLedgerFixture()

		_, err := svc.RecordPayment(context.Background(), uuid.New(), &domain.RecordPaymentRequest{
			Amount:        decimal.Zero,
			PaymentMethod: domain.PaymentMethodCash,
		}, uuid.New())

		assert.Error(t, err)
		assert.Equal(t, customError.ErrCodeValidation, customError.CodeOf(err))
	})

	t.Run("unknown fee", func(t *testing.T) {
		svc, feeRepo, _, _, _ := newLedgerFixture()
		feeID := uuid.New()
		feeRepo.On("GetByID", mock.Anything, feeID).Return(nil, sql.ErrNoRows)

		_, err := svc.RecordPayment(context.Background(), feeID, &domain.RecordPaymentRequest{
			Amount:        decimal.NewFromInt(100),
			PaymentMethod: domain.PaymentMethodCash,
		}, uuid.New())

		assert.Error(t, err)
		assert.Equal(t, customError.ErrCodeNotFound, customError.CodeOf(err))
	})
}

func TestUpdateStructure(t *testing.T) {
	t.Run("replaces charges and keeps paid amount", func(t *testing.T) {
		svc, feeRepo, _, _, _ := newLedgerFixture()
		fee := storedFee(1200, 500, nil)

		feeRepo.On("GetByID", mock.Anything, fee.ID).Return(fee, nil)
		feeRepo.On("UpdateStructure", mock.Anything, mock.Anything).Return(nil)

		updated, err := svc.UpdateStructure(context.Background(), fee.ID, &domain.UpdateFeeRequest{
			Charges: []domain.FeeChargeInput{
				{Category: "Tuition", Amount: decimal.NewFromInt(800)},
				{Category: "Transport", Amount: decimal.NewFromInt(300)},
			},
		})

		assert.NoError(t, err)
		assert.True(t, updated.TotalAmount.Equal(decimal.NewFromInt(1100)))
		assert.True(t, updated.PaidAmount.Equal(decimal.NewFromInt(500)))
		assert.True(t, updated.DueAmount.Equal(decimal.NewFromInt(600)))
		assert.Equal(t, domain.FeeStatusPartial, updated.Status)
	})

	t.Run("shrinking total below paid flips to paid", func(t *testing.T) {
		svc, feeRepo, _, _, _ := newLedgerFixture()
		fee := storedFee(1200, 500, nil)

		feeRepo.On("GetByID", mock.Anything, fee.ID).Return(fee, nil)
		feeRepo.On("UpdateStructure", mock.Anything, mock.Anything).Return(nil)

		updated, err := svc.UpdateStructure(context.Background(), fee.ID, &domain.UpdateFeeRequest{
			Charges: []domain.FeeChargeInput{
				{Category: "Tuition", Amount: decimal.NewFromInt(400)},
			},
		})

		assert.NoError(t, err)
		assert.Equal(t, domain.FeeStatusPaid, updated.Status)
		assert.True(t, updated.DueAmount.Equal(decimal.NewFromInt(-100)))
	})
}

func TestIssueReceipt(t *testing.T) {
	t.Run("builds projection with student fields", func(t *testing.T) {
		svc, feeRepo, studentRepo, userRepo, _ := newLedgerFixture()
		fee := storedFee(1200, 500, nil)
		received := uuid.New()
		fee.Payments = []*domain.Payment{{
			ID:            uuid.New(),
			ReceiptNumber: "RCP2026000009",
			Amount:        decimal.NewFromInt(500),
			PaymentDate:   time.Now(),
			PaymentMethod: domain.PaymentMethodCash,
			ReceivedBy:    received,
		}}

		className := "Grade 5"
		section := "A"
		feeRepo.On("GetByID", mock.Anything, fee.ID).Return(fee, nil)
		studentRepo.On("GetByID", mock.Anything, fee.StudentID).Return(&domain.StudentDetail{
			Student:   domain.Student{StudentNumber: "STU20260001"},
			FullName:  "Alex Doe",
			ClassName: &className,
			Section:   &section,
		}, nil)
		userRepo.On("GetByID", mock.Anything, received).Return(&domain.User{FullName: "Clerk"}, nil)

		receipt, err := svc.IssueReceipt(context.Background(), fee.ID, 0)

		assert.NoError(t, err)
		assert.Equal(t, "RCP2026000009", receipt.ReceiptNumber)
		assert.Equal(t, "STU20260001", receipt.Student.StudentNumber)
		assert.Equal(t, "Grade 5", receipt.Student.ClassName)
		assert.Equal(t, "Clerk", receipt.ReceivedBy)
		assert.True(t, receipt.DueAmount.Equal(decimal.NewFromInt(700)))
	})

	t.Run("tolerates orphaned student reference", func(t *testing.T) {
		svc, feeRepo, studentRepo, userRepo, _ := newLedgerFixture()
		fee := storedFee(1200, 500, nil)
		fee.Payments = []*domain.Payment{{
			ID:            uuid.New(),
			ReceiptNumber: "RCP2026000010",
			Amount:        decimal.NewFromInt(500),
			ReceivedBy:    uuid.New(),
		}}

		feeRepo.On("GetByID", mock.Anything, fee.ID).Return(fee, nil)
		studentRepo.On("GetByID", mock.Anything, fee.StudentID).Return(nil, sql.ErrNoRows)
		userRepo.On("GetByID", mock.Anything, mock.Anything).Return(nil, sql.ErrNoRows)

		receipt, err := svc.IssueReceipt(context.Background(), fee.ID, 0)

		assert.NoError(t, err)
		assert.Empty(t, receipt.Student.StudentNumber)
		assert.Empty(t, receipt.ReceivedBy)
	})

	t.Run("payment index out of range", func(t *testing.T) {
		svc, feeRepo, _, _, _ := newLedgerFixture()
		fee := storedFee(1200, 0, nil)
		feeRepo.On("GetByID", mock.Anything, fee.ID).Return(fee, nil)

		_, err := svc.IssueReceipt(context.Background(), fee.ID, 0)

		assert.Error(t, err)
		assert.Equal(t, customError.ErrCodeNotFound, customError.CodeOf(err))
	})
}

func TestMarkOverdueFees(t *testing.T) {
	svc, feeRepo, _, _, _ := newLedgerFixture()
	feeRepo.On("MarkOverdue", mock.Anything, mock.Anything).Return(int64(3), nil)

	count, err := svc.MarkOverdueFees(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, int64(3), count)
	feeRepo.AssertExpectations(t)
}

func TestExportLedger(t *testing.T) {
	svc, feeRepo, _, _, _ := newLedgerFixture()
	feeRepo.On("List", mock.Anything).Return([]*domain.Fee{storedFee(1200, 500, nil)}, nil)

	data, err := svc.ExportLedger(context.Background())

	assert.NoError(t, err)
	assert.NotEmpty(t, data)
	// xlsx files are zip archives
	assert.Equal(t, []byte{'P', 'K'}, data[:2])
}
