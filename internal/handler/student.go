package handler

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/prasetyo/school-engine/internal/domain"
	"github.com/prasetyo/school-engine/internal/service"
	"github.com/prasetyo/school-engine/pkg/response"
)

type StudentHandler struct {
	service   *service.SchoolService
	validator *validator.Validate
}

func NewStudentHandler(service *service.SchoolService) *StudentHandler {
	return &StudentHandler{
		service:   service,
		validator: validator.New(),
	}
}

// Create handles POST /students
func (h *StudentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateStudentRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	student, err := h.service.CreateStudent(r.Context(), &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, student)
}

// Get handles GET /students/{id}
func (h *StudentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "id")
	if !ok {
		badID(w, "student id")
		return
	}

	student, err := h.service.GetStudent(r.Context(), id)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, student)
}

// List handles GET /students
func (h *StudentHandler) List(w http.ResponseWriter, r *http.Request) {
	students, err := h.service.ListStudents(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, students)
}

// Update handles PUT /students/{id}
func (h *StudentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "id")
	if !ok {
		badID(w, "student id")
		return
	}

	var req domain.UpdateStudentRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	student, err := h.service.UpdateStudent(r.Context(), id, &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, student)
}

// Delete handles DELETE /students/{id}
func (h *StudentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "id")
	if !ok {
		badID(w, "student id")
		return
	}

	if err := h.service.DeleteStudent(r.Context(), id); err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, map[string]string{"message": "Student deleted"})
}
