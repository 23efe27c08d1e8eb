package handler

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/prasetyo/school-engine/internal/domain"
	"github.com/prasetyo/school-engine/internal/service"
	"github.com/prasetyo/school-engine/pkg/response"
)

const maxMultipartMemory = 32 << 20 // 32MB in memory, the rest spills to disk

type FileHandler struct {
	service *service.StorageService
}

func NewFileHandler(service *service.StorageService) *FileHandler {
	return &FileHandler{service: service}
}

// Upload handles POST /files (multipart, field name "file")
func (h *FileHandler) Upload(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r)
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		response.BadRequest(w, "Invalid multipart request", err)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, "No file uploaded", err)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")

	stored, err := h.service.Upload(r.Context(), identity, header.Filename, contentType, header.Size, file)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, stored)
}

// List handles GET /files?search=&sort=
func (h *FileHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r)
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	query := domain.FileListQuery{
		Search: r.URL.Query().Get("search"),
		Sort:   r.URL.Query().Get("sort"),
	}

	files, err := h.service.ListFiles(r.Context(), identity, query)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, files)
}

// Download handles GET /files/{id}/download and streams the object.
func (h *FileHandler) Download(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r)
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, ok := pathUUID(r, "id")
	if !ok {
		badID(w, "file id")
		return
	}

	file, reader, err := h.service.Download(r.Context(), identity, id)
	if err != nil {
		response.FromError(w, err)
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.OriginalName))
	w.Header().Set("Content-Length", strconv.FormatInt(file.Size, 10))
	w.WriteHeader(http.StatusOK)

	_, _ = io.Copy(w, reader)
}

// Delete handles DELETE /files/{id}
func (h *FileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r)
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, ok := pathUUID(r, "id")
	if !ok {
		badID(w, "file id")
		return
	}

	if err := h.service.Delete(r.Context(), identity, id); err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, map[string]string{"message": "File deleted"})
}

// Usage handles GET /files/usage
func (h *FileHandler) Usage(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r)
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	usage, err := h.service.Usage(r.Context(), identity.ID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, usage)
}

// AdminStats handles GET /admin/storage
func (h *FileHandler) AdminStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.AdminStats(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, stats)
}
