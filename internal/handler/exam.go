package handler

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/prasetyo/school-engine/internal/domain"
	"github.com/prasetyo/school-engine/internal/service"
	"github.com/prasetyo/school-engine/pkg/response"
)

type ExamHandler struct {
	service   *service.ExamService
	validator *validator.Validate
}

func NewExamHandler(service *service.ExamService) *ExamHandler {
	return &ExamHandler{
		service:   service,
		validator: validator.New(),
	}
}

// Create handles POST /exams
func (h *ExamHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r)
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req domain.CreateExamRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	exam, err := h.service.Create(r.Context(), &req, identity.ID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, exam)
}

// Get handles GET /exams/{id}
func (h *ExamHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "id")
	if !ok {
		badID(w, "exam id")
		return
	}

	exam, err := h.service.Get(r.Context(), id)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, exam)
}

// List handles GET /exams
func (h *ExamHandler) List(w http.ResponseWriter, r *http.Request) {
	exams, err := h.service.List(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, exams)
}

// Update handles PUT /exams/{id}
func (h *ExamHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "id")
	if !ok {
		badID(w, "exam id")
		return
	}

	var req domain.UpdateExamRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	exam, err := h.service.Update(r.Context(), id, &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, exam)
}

// Delete handles DELETE /exams/{id}
func (h *ExamHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "id")
	if !ok {
		badID(w, "exam id")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, map[string]string{"message": "Exam deleted"})
}

// RecordResults handles POST /exams/{id}/results
func (h *ExamHandler) RecordResults(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "id")
	if !ok {
		badID(w, "exam id")
		return
	}

	var req domain.RecordResultsRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	exam, err := h.service.RecordResults(r.Context(), id, &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, exam)
}
