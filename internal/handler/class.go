package handler

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/prasetyo/school-engine/internal/domain"
	"github.com/prasetyo/school-engine/internal/service"
	"github.com/prasetyo/school-engine/pkg/response"
)

type ClassHandler struct {
	service   *service.SchoolService
	validator *validator.Validate
}

func NewClassHandler(service *service.SchoolService) *ClassHandler {
	return &ClassHandler{
		service:   service,
		validator: validator.New(),
	}
}

// Create handles POST /classes
func (h *ClassHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateClassRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	class, err := h.service.CreateClass(r.Context(), &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, class)
}

// Get handles GET /classes/{id}
func (h *ClassHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "id")
	if !ok {
		badID(w, "class id")
		return
	}

	class, err := h.service.GetClass(r.Context(), id)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, class)
}

// List handles GET /classes
func (h *ClassHandler) List(w http.ResponseWriter, r *http.Request) {
	classes, err := h.service.ListClasses(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, classes)
}

// Update handles PUT /classes/{id}
func (h *ClassHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "id")
	if !ok {
		badID(w, "class id")
		return
	}

	var req domain.UpdateClassRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	class, err := h.service.UpdateClass(r.Context(), id, &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, class)
}

// Delete handles DELETE /classes/{id}
func (h *ClassHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "id")
	if !ok {
		badID(w, "class id")
		return
	}

	if err := h.service.DeleteClass(r.Context(), id); err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, map[string]string{"message": "Class deleted"})
}

// Enroll handles POST /classes/{id}/students
func (h *ClassHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "id")
	if !ok {
		badID(w, "class id")
		return
	}

	var req domain.EnrollStudentRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	class, err := h.service.EnrollStudent(r.Context(), id, req.StudentID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, class)
}

// RemoveStudent handles DELETE /classes/{id}/students/{studentId}
func (h *ClassHandler) RemoveStudent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "id")
	if !ok {
		badID(w, "class id")
		return
	}

	studentID, ok := pathUUID(r, "studentId")
	if !ok {
		badID(w, "student id")
		return
	}

	if err := h.service.RemoveStudent(r.Context(), id, studentID); err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, map[string]string{"message": "Student removed from class"})
}

// Promote handles POST /classes/promote
func (h *ClassHandler) Promote(w http.ResponseWriter, r *http.Request) {
	var req domain.PromoteClassRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	promoted, err := h.service.PromoteClass(r.Context(), &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, domain.PromoteClassResponse{Promoted: promoted})
}
