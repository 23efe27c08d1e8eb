package handler

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/prasetyo/school-engine/internal/domain"
	"github.com/prasetyo/school-engine/internal/service"
	"github.com/prasetyo/school-engine/pkg/response"
)

type AuthHandler struct {
	service   *service.AuthService
	validator *validator.Validate
}

func NewAuthHandler(service *service.AuthService) *AuthHandler {
	return &AuthHandler{
		service:   service,
		validator: validator.New(),
	}
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	result, err := h.service.Login(r.Context(), &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, result)
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r)
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req domain.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	user, err := h.service.Register(r.Context(), identity, &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, user)
}

// Me handles GET /auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r)
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	user, err := h.service.Me(r.Context(), identity)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, user)
}

// ListUsers handles GET /admin/users
func (h *AuthHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r)
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	users, err := h.service.ListUsers(r.Context(), identity)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, users)
}

// UpdateQuota handles PUT /admin/users/{id}/quota
func (h *AuthHandler) UpdateQuota(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r)
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	accountID, ok := pathUUID(r, "id")
	if !ok {
		badID(w, "account id")
		return
	}

	var req domain.UpdateQuotaRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	user, err := h.service.UpdateQuota(r.Context(), identity, accountID, req.StorageLimit)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, user)
}
