package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/prasetyo/school-engine/internal/domain"
	"github.com/prasetyo/school-engine/internal/repository"
	customError "github.com/prasetyo/school-engine/pkg/errors"
)

// ObjectStore is the object storage surface the service needs.
type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, reader io.Reader, size int64) (string, error)
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Remove(ctx context.Context, key string) error
}

// StorageService handles file upload, download and delete with per-account
// quota bookkeeping.
type StorageService struct {
	fileRepo    repository.FileRepository
	userRepo    repository.UserRepository
	store       ObjectStore
	maxFileSize int64
}

func NewStorageService(
	fileRepo repository.FileRepository,
	userRepo repository.UserRepository,
	store ObjectStore,
	maxFileSize int64,
) *StorageService {
	return &StorageService{
		fileRepo:    fileRepo,
		userRepo:    userRepo,
		store:       store,
		maxFileSize: maxFileSize,
	}
}

// Reserve claims quota for an upload. The check and the increment are a
// single conditional update, so concurrent reservations cannot both pass.
func (s *StorageService) Reserve(ctx context.Context, accountID uuid.UUID, size int64) error {
	ok, err := s.userRepo.ReserveStorage(ctx, accountID, size)
	if err != nil {
		return customError.WrapDatabaseError(err)
	}
	if !ok {
		return customError.WrapQuotaExceeded(accountID.String())
	}
	return nil
}

// Release returns quota, floored at zero.
func (s *StorageService) Release(ctx context.Context, accountID uuid.UUID, size int64) error {
	if err := s.userRepo.ReleaseStorage(ctx, accountID, size); err != nil {
		return customError.WrapDatabaseError(err)
	}
	return nil
}

// Upload reserves quota, writes the object, then persists the metadata.
// The steps are sequential, not transactional: a failed object write
// releases the reservation, and a failed metadata persist removes the
// orphan object best-effort.
func (s *StorageService) Upload(ctx context.Context, identity domain.Identity, originalName, contentType string, size int64, reader io.Reader) (*domain.StoredFile, error) {
	if size <= 0 {
		return nil, customError.WrapValidation("no file uploaded")
	}
	if size > s.maxFileSize {
		return nil, customError.WrapValidation(fmt.Sprintf("file exceeds the maximum size of %d bytes", s.maxFileSize))
	}
	if !domain.AllowedContentTypes[contentType] {
		return nil, customError.WrapValidation(fmt.Sprintf("file type %s is not allowed", contentType))
	}

	if err := s.Reserve(ctx, identity.ID, size); err != nil {
		return nil, err
	}

	key := objectKey(originalName)
	fullKey, err := s.store.Put(ctx, key, contentType, reader, size)
	if err != nil {
		if releaseErr := s.Release(ctx, identity.ID, size); releaseErr != nil {
			log.Printf("failed to release quota after upload error: %v", releaseErr)
		}
		return nil, customError.WrapStorageError(err)
	}

	file := &domain.StoredFile{
		ID:           uuid.New(),
		OriginalName: originalName,
		ObjectKey:    fullKey,
		ContentType:  contentType,
		Size:         size,
		UploadedBy:   identity.ID,
		UploadedAt:   time.Now(),
	}

	if err := s.fileRepo.Create(ctx, file); err != nil {
		if removeErr := s.store.Remove(ctx, fullKey); removeErr != nil {
			log.Printf("failed to remove orphan object %s: %v", fullKey, removeErr)
		}
		if releaseErr := s.Release(ctx, identity.ID, size); releaseErr != nil {
			log.Printf("failed to release quota after metadata error: %v", releaseErr)
		}
		return nil, customError.WrapDatabaseError(err)
	}

	return file, nil
}

// objectKey builds a unique key from a sanitized original name.
func objectKey(originalName string) string {
	ext := filepath.Ext(originalName)
	base := strings.TrimSuffix(filepath.Base(originalName), ext)

	var sanitized strings.Builder
	for _, r := range base {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			sanitized.WriteRune(r)
		} else {
			sanitized.WriteRune('_')
		}
	}

	return fmt.Sprintf("%s-%d-%s%s", uuid.New().String(), time.Now().UnixMilli(), sanitized.String(), ext)
}

// ListFiles returns the caller's files, or any account's files for admins.
func (s *StorageService) ListFiles(ctx context.Context, identity domain.Identity, query domain.FileListQuery) ([]*domain.StoredFile, error) {
	if !identity.IsAdmin() {
		owner := identity.ID
		query.OwnerID = &owner
	}

	files, err := s.fileRepo.List(ctx, query)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return files, nil
}

// Download opens a file for reading after the owner-or-admin check and
// bumps the download counter.
func (s *StorageService) Download(ctx context.Context, identity domain.Identity, fileID uuid.UUID) (*domain.StoredFile, io.ReadCloser, error) {
	file, err := s.fileRepo.GetByID(ctx, fileID)
	if err != nil {
		return nil, nil, wrapLookupError(err, "file", fileID.String())
	}

	if file.UploadedBy != identity.ID && !identity.IsAdmin() {
		return nil, nil, customError.WrapForbidden("not authorized to download this file")
	}

	if err := s.fileRepo.IncrementDownloads(ctx, fileID); err != nil {
		return nil, nil, customError.WrapDatabaseError(err)
	}

	reader, err := s.store.Get(ctx, file.ObjectKey)
	if err != nil {
		return nil, nil, customError.WrapStorageError(err)
	}

	return file, reader, nil
}

// Delete removes the object, releases the owner's quota and drops the
// metadata. A failed object removal is logged, not retried.
func (s *StorageService) Delete(ctx context.Context, identity domain.Identity, fileID uuid.UUID) error {
	file, err := s.fileRepo.GetByID(ctx, fileID)
	if err != nil {
		return wrapLookupError(err, "file", fileID.String())
	}

	if file.UploadedBy != identity.ID && !identity.IsAdmin() {
		return customError.WrapForbidden("not authorized to delete this file")
	}

	if err := s.store.Remove(ctx, file.ObjectKey); err != nil {
		log.Printf("failed to remove object %s: %v", file.ObjectKey, err)
	}

	if err := s.Release(ctx, file.UploadedBy, file.Size); err != nil {
		return err
	}

	if err := s.fileRepo.Delete(ctx, fileID); err != nil {
		return customError.WrapDatabaseError(err)
	}

	return nil
}

// Usage returns the caller's quota numbers.
func (s *StorageService) Usage(ctx context.Context, accountID uuid.UUID) (*domain.StorageUsage, error) {
	user, err := s.userRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, wrapLookupError(err, "account", accountID.String())
	}

	return &domain.StorageUsage{
		StorageUsed:  user.StorageUsed,
		StorageLimit: user.StorageLimit,
	}, nil
}

// AdminStats aggregates global storage usage for the admin dashboard.
func (s *StorageService) AdminStats(ctx context.Context) (*domain.StorageStats, error) {
	users, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	files, err := s.fileRepo.Count(ctx)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	total, err := s.userRepo.TotalStorageUsed(ctx)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return &domain.StorageStats{
		TotalUsers:   users,
		TotalFiles:   files,
		TotalStorage: total,
	}, nil
}
