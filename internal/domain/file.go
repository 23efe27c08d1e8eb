package domain

import (
	"time"

	"github.com/google/uuid"
)

// AllowedContentTypes are the upload types accepted by the storage service.
var AllowedContentTypes = map[string]bool{
	"image/jpeg":                   true,
	"image/jpg":                    true,
	"image/png":                    true,
	"image/gif":                    true,
	"image/webp":                   true,
	"application/pdf":              true,
	"application/zip":              true,
	"application/x-zip-compressed": true,
	"video/mp4":                    true,
	"text/plain":                   true,
}

// StoredFile is the metadata record of one uploaded object.
type StoredFile struct {
	ID           uuid.UUID `json:"id" db:"id"`
	OriginalName string    `json:"original_name" db:"original_name"`
	ObjectKey    string    `json:"object_key" db:"object_key"`
	ContentType  string    `json:"content_type" db:"content_type"`
	Size         int64     `json:"size" db:"size"`
	UploadedBy   uuid.UUID `json:"uploaded_by" db:"uploaded_by"`
	UploadedAt   time.Time `json:"uploaded_at" db:"uploaded_at"`
	Downloads    int       `json:"downloads" db:"downloads"`
}

// FileListQuery carries list filters for file queries.
type FileListQuery struct {
	Search  string
	Sort    string // newest (default), oldest, name, size
	OwnerID *uuid.UUID
}

// StorageStats is the admin view of global storage usage.
type StorageStats struct {
	TotalUsers   int   `json:"total_users"`
	TotalFiles   int   `json:"total_files"`
	TotalStorage int64 `json:"total_storage"`
}
