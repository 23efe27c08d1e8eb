package handler

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/prasetyo/school-engine/internal/domain"
	"github.com/prasetyo/school-engine/internal/service"
	"github.com/prasetyo/school-engine/pkg/response"
)

type AttendanceHandler struct {
	service   *service.AttendanceService
	validator *validator.Validate
}

func NewAttendanceHandler(service *service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{
		service:   service,
		validator: validator.New(),
	}
}

// Mark handles POST /attendance
func (h *AttendanceHandler) Mark(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r)
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req domain.MarkAttendanceRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	sheet, err := h.service.Mark(r.Context(), &req, identity.ID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, sheet)
}

// Update handles PUT /attendance/{id}
func (h *AttendanceHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "id")
	if !ok {
		badID(w, "attendance id")
		return
	}

	var req domain.UpdateAttendanceRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	sheet, err := h.service.Update(r.Context(), id, &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, sheet)
}

// ListByClass handles GET /attendance/class/{classId}
func (h *AttendanceHandler) ListByClass(w http.ResponseWriter, r *http.Request) {
	classID, ok := pathUUID(r, "classId")
	if !ok {
		badID(w, "class id")
		return
	}

	from, err := queryDate(r, "from")
	if err != nil {
		response.BadRequest(w, "Invalid from date", err)
		return
	}

	to, err := queryDate(r, "to")
	if err != nil {
		response.BadRequest(w, "Invalid to date", err)
		return
	}

	sheets, err := h.service.ListByClass(r.Context(), classID, from, to)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, sheets)
}

// StudentHistory handles GET /attendance/student/{studentId}
func (h *AttendanceHandler) StudentHistory(w http.ResponseWriter, r *http.Request) {
	studentID, ok := pathUUID(r, "studentId")
	if !ok {
		badID(w, "student id")
		return
	}

	from, err := queryDate(r, "from")
	if err != nil {
		response.BadRequest(w, "Invalid from date", err)
		return
	}

	to, err := queryDate(r, "to")
	if err != nil {
		response.BadRequest(w, "Invalid to date", err)
		return
	}

	history, err := h.service.StudentHistory(r.Context(), studentID, from, to)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, history)
}

// ListByDate handles GET /attendance/date/{date}
func (h *AttendanceHandler) ListByDate(w http.ResponseWriter, r *http.Request) {
	date, err := pathDate(r, "date")
	if err != nil {
		response.BadRequest(w, "Invalid date, expected YYYY-MM-DD", err)
		return
	}

	sheets, err := h.service.ListByDate(r.Context(), date)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, sheets)
}

// Summary handles GET /attendance/class/{classId}/summary?period=weekly
func (h *AttendanceHandler) Summary(w http.ResponseWriter, r *http.Request) {
	classID, ok := pathUUID(r, "classId")
	if !ok {
		badID(w, "class id")
		return
	}

	period := r.URL.Query().Get("period")
	if period == "" {
		period = domain.PeriodMonthly
	}

	summary, err := h.service.Summarize(r.Context(), classID, period)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, summary)
}
