package handler

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/prasetyo/school-engine/internal/domain"
	"github.com/prasetyo/school-engine/internal/service"
	"github.com/prasetyo/school-engine/pkg/response"
)

type TeacherHandler struct {
	service   *service.SchoolService
	validator *validator.Validate
}

func NewTeacherHandler(service *service.SchoolService) *TeacherHandler {
	return &TeacherHandler{
		service:   service,
		validator: validator.New(),
	}
}

// Create handles POST /teachers
func (h *TeacherHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateTeacherRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	teacher, err := h.service.CreateTeacher(r.Context(), &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, teacher)
}

// Get handles GET /teachers/{id}
func (h *TeacherHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "id")
	if !ok {
		badID(w, "teacher id")
		return
	}

	teacher, err := h.service.GetTeacher(r.Context(), id)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, teacher)
}

// List handles GET /teachers
func (h *TeacherHandler) List(w http.ResponseWriter, r *http.Request) {
	teachers, err := h.service.ListTeachers(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, teachers)
}

// Update handles PUT /teachers/{id}
func (h *TeacherHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "id")
	if !ok {
		badID(w, "teacher id")
		return
	}

	var req domain.UpdateTeacherRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	teacher, err := h.service.UpdateTeacher(r.Context(), id, &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, teacher)
}

// Delete handles DELETE /teachers/{id}
func (h *TeacherHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "id")
	if !ok {
		badID(w, "teacher id")
		return
	}

	if err := h.service.DeleteTeacher(r.Context(), id); err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, map[string]string{"message": "Teacher deleted"})
}

// AssignSubjects handles PUT /teachers/{id}/subjects
func (h *TeacherHandler) AssignSubjects(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "id")
	if !ok {
		badID(w, "teacher id")
		return
	}

	var req domain.AssignSubjectsRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	teacher, err := h.service.AssignSubjects(r.Context(), id, req.Subjects)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, teacher)
}
