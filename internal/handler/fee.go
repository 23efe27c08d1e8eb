package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/prasetyo/school-engine/internal/domain"
	"github.com/prasetyo/school-engine/internal/service"
	"github.com/prasetyo/school-engine/pkg/response"
)

type FeeHandler struct {
	service   *service.LedgerService
	validator *validator.Validate
}

func NewFeeHandler(service *service.LedgerService) *FeeHandler {
	return &FeeHandler{
		service:   service,
		validator: validator.New(),
	}
}

// Create handles POST /fees
func (h *FeeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateFeeRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	fee, err := h.service.CreateFeeRecord(r.Context(), &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, fee)
}

// Get handles GET /fees/{id}
func (h *FeeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "id")
	if !ok {
		badID(w, "fee id")
		return
	}

	fee, err := h.service.GetFee(r.Context(), id)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, fee)
}

// List handles GET /fees
func (h *FeeHandler) List(w http.ResponseWriter, r *http.Request) {
	fees, err := h.service.ListFees(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, fees)
}

// ListByStudent handles GET /fees/student/{studentId}
func (h *FeeHandler) ListByStudent(w http.ResponseWriter, r *http.Request) {
	studentID, ok := pathUUID(r, "studentId")
	if !ok {
		badID(w, "student id")
		return
	}

	fees, err := h.service.ListStudentFees(r.Context(), studentID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, fees)
}

// ListDue handles GET /fees/due
func (h *FeeHandler) ListDue(w http.ResponseWriter, r *http.Request) {
	fees, err := h.service.ListDueFees(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, fees)
}

// Update handles PUT /fees/{id}
func (h *FeeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "id")
	if !ok {
		badID(w, "fee id")
		return
	}

	var req domain.UpdateFeeRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	fee, err := h.service.UpdateStructure(r.Context(), id, &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, fee)
}

// Delete handles DELETE /fees/{id}
func (h *FeeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "id")
	if !ok {
		badID(w, "fee id")
		return
	}

	if err := h.service.DeleteFee(r.Context(), id); err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, map[string]string{"message": "Fee record deleted"})
}

// RecordPayment handles POST /fees/{id}/payments
func (h *FeeHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r)
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, ok := pathUUID(r, "id")
	if !ok {
		badID(w, "fee id")
		return
	}

	var req domain.RecordPaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	fee, err := h.service.RecordPayment(r.Context(), id, &req, identity.ID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, fee)
}

// Receipt handles GET /fees/{id}/receipt/{paymentIndex}
func (h *FeeHandler) Receipt(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "id")
	if !ok {
		badID(w, "fee id")
		return
	}

	index, err := strconv.Atoi(mux.Vars(r)["paymentIndex"])
	if err != nil {
		response.BadRequest(w, "Invalid payment index", err)
		return
	}

	receipt, err := h.service.IssueReceipt(r.Context(), id, index)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, receipt)
}

// Export handles GET /fees/export and streams a spreadsheet.
func (h *FeeHandler) Export(w http.ResponseWriter, r *http.Request) {
	data, err := h.service.ExportLedger(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}

	filename := fmt.Sprintf("fee-ledger-%s.xlsx", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
