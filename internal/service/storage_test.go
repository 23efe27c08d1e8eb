package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/prasetyo/school-engine/internal/domain"
	customError "github.com/prasetyo/school-engine/pkg/errors"
	"github.com/prasetyo/school-engine/tests/mocks"
)

const testMaxFileSize = 20 * 1024 * 1024

func newStorageFixture() (*StorageService, *mocks.MockFileRepository, *mocks.MockUserRepository, *mocks.MockObjectStore) {
	fileRepo := new(mocks.MockFileRepository)
	userRepo := new(mocks.MockUserRepository)
	store := new(mocks.MockObjectStore)
	svc := NewStorageService(fileRepo, userRepo, store, testMaxFileSize)
	return svc, fileRepo, userRepo, store
}

func TestReserve(t *testing.T) {
	accountID := uuid.New()

	t.Run("reservation within quota", func(t *testing.T) {
		svc, _, userRepo, _ := newStorageFixture()
		userRepo.On("ReserveStorage", mock.Anything, accountID, int64(500)).Return(true, nil)

		err := svc.Reserve(context.Background(), accountID, 500)

		assert.NoError(t, err)
	})

	t.Run("reservation over quota", func(t *testing.T) {
		svc, _, userRepo, _ := newStorageFixture()
		userRepo.On("ReserveStorage", mock.Anything, accountID, int64(500)).Return(false, nil)

		err := svc.Reserve(context.Background(), accountID, 500)

		assert.Error(t, err)
		assert.Equal(t, customError.ErrCodeQuotaExceeded, customError.CodeOf(err))
	})
}

func TestUpload(t *testing.T) {
	identity := domain.Identity{ID: uuid.New(), Role: domain.RoleTeacher}
	content := []byte("hello world")

	t.Run("happy path", func(t *testing.T) {
		svc, fileRepo, userRepo, store := newStorageFixture()

		userRepo.On("ReserveStorage", mock.Anything, identity.ID, int64(len(content))).Return(true, nil)
		store.On("Put", mock.Anything, mock.Anything, "text/plain", mock.Anything, int64(len(content))).
			Return("uploads/abc-notes.txt", nil)
		fileRepo.On("Create", mock.Anything, mock.MatchedBy(func(f *domain.StoredFile) bool {
			return f.UploadedBy == identity.ID && f.ObjectKey == "uploads/abc-notes.txt"
		})).Return(nil)

		file, err := svc.Upload(context.Background(), identity, "notes.txt", "text/plain", int64(len(content)), bytes.NewReader(content))

		assert.NoError(t, err)
		assert.Equal(t, "notes.txt", file.OriginalName)
		assert.Equal(t, int64(len(content)), file.Size)
		fileRepo.AssertExpectations(t)
		store.AssertExpectations(t)
	})

	t.Run("rejects disallowed content type", func(t *testing.T) {
		svc, _, _, _ := newStorageFixture()

		_, err := svc.Upload(context.Background(), identity, "app.exe", "application/x-msdownload", 100, bytes.NewReader(content))

		assert.Error(t, err)
		assert.Equal(t, customError.ErrCodeValidation, customError.CodeOf(err))
	})

	t.Run("rejects oversize file", func(t *testing.T) {
		svc, _, _, _ := newStorageFixture()

		_, err := svc.Upload(context.Background(), identity, "big.pdf", "application/pdf", testMaxFileSize+1, bytes.NewReader(content))

		assert.Error(t, err)
		assert.Equal(t, customError.ErrCodeValidation, customError.CodeOf(err))
	})

	t.Run("quota exhausted leaves nothing behind", func(t *testing.T) {
		svc, fileRepo, userRepo, store := newStorageFixture()
		userRepo.On("ReserveStorage", mock.Anything, identity.ID, mock.Anything).Return(false, nil)

		_, err := svc.Upload(context.Background(), identity, "notes.txt", "text/plain", int64(len(content)), bytes.NewReader(content))

		assert.Error(t, err)
		assert.Equal(t, customError.ErrCodeQuotaExceeded, customError.CodeOf(err))
		store.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		fileRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("object write failure releases the reservation", func(t *testing.T) {
		svc, _, userRepo, store := newStorageFixture()

		userRepo.On("ReserveStorage", mock.Anything, identity.ID, mock.Anything).Return(true, nil)
		store.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return("", errors.New("connection refused"))
		userRepo.On("ReleaseStorage", mock.Anything, identity.ID, int64(len(content))).Return(nil)

		_, err := svc.Upload(context.Background(), identity, "notes.txt", "text/plain", int64(len(content)), bytes.NewReader(content))

		assert.Error(t, err)
		assert.Equal(t, customError.ErrCodeStorageError, customError.CodeOf(err))
		userRepo.AssertCalled(t, "ReleaseStorage", mock.Anything, identity.ID, int64(len(content)))
	})

	t.Run("metadata failure removes the orphan object", func(t *testing.T) {
		svc, fileRepo, userRepo, store := newStorageFixture()

		userRepo.On("ReserveStorage", mock.Anything, identity.ID, mock.Anything).Return(true, nil)
		store.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return("uploads/key", nil)
		fileRepo.On("Create", mock.Anything, mock.Anything).Return(errors.New("insert failed"))
		store.On("Remove", mock.Anything, "uploads/key").Return(nil)
		userRepo.On("ReleaseStorage", mock.Anything, identity.ID, int64(len(content))).Return(nil)

		_, err := svc.Upload(context.Background(), identity, "notes.txt", "text/plain", int64(len(content)), bytes.NewReader(content))

		assert.Error(t, err)
		store.AssertCalled(t, "Remove", mock.Anything, "uploads/key")
		userRepo.AssertCalled(t, "ReleaseStorage", mock.Anything, identity.ID, int64(len(content)))
	})
}

func TestDownload(t *testing.T) {
	owner := domain.Identity{ID: uuid.New(), Role: domain.RoleStaff}
	admin := domain.Identity{ID: uuid.New(), Role: domain.RoleAdmin}
	stranger := domain.Identity{ID: uuid.New(), Role: domain.RoleTeacher}

	stored := &domain.StoredFile{
		ID:           uuid.New(),
		OriginalName: "report.pdf",
		ObjectKey:    "uploads/report.pdf",
		ContentType:  "application/pdf",
		Size:         1024,
		UploadedBy:   owner.ID,
	}

	t.Run("owner can download", func(t *testing.T) {
		svc, fileRepo, _, store := newStorageFixture()
		fileRepo.On("GetByID", mock.Anything, stored.ID).Return(stored, nil)
		fileRepo.On("IncrementDownloads", mock.Anything, stored.ID).Return(nil)
		store.On("Get", mock.Anything, stored.ObjectKey).Return(io.NopCloser(bytes.NewReader([]byte("pdf"))), nil)

		file, reader, err := svc.Download(context.Background(), owner, stored.ID)

		assert.NoError(t, err)
		assert.Equal(t, stored.OriginalName, file.OriginalName)
		reader.Close()
	})

	t.Run("admin can download any file", func(t *testing.T) {
		svc, fileRepo, _, store := newStorageFixture()
		fileRepo.On("GetByID", mock.Anything, stored.ID).Return(stored, nil)
		fileRepo.On("IncrementDownloads", mock.Anything, stored.ID).Return(nil)
		store.On("Get", mock.Anything, stored.ObjectKey).Return(io.NopCloser(bytes.NewReader(nil)), nil)

		_, reader, err := svc.Download(context.Background(), admin, stored.ID)

		assert.NoError(t, err)
		reader.Close()
	})

	t.Run("non-owner is forbidden", func(t *testing.T) {
		svc, fileRepo, _, _ := newStorageFixture()
		fileRepo.On("GetByID", mock.Anything, stored.ID).Return(stored, nil)

		_, _, err := svc.Download(context.Background(), stranger, stored.ID)

		assert.Error(t, err)
		assert.Equal(t, customError.ErrCodeForbidden, customError.CodeOf(err))
	})
}

func TestDeleteFile(t *testing.T) {
	owner := domain.Identity{ID: uuid.New(), Role: domain.RoleStaff}

	stored := &domain.StoredFile{
		ID:         uuid.New(),
		ObjectKey:  "uploads/old.zip",
		Size:       2048,
		UploadedBy: owner.ID,
	}

	t.Run("releases quota and drops metadata", func(t *testing.T) {
		svc, fileRepo, userRepo, store := newStorageFixture()
		fileRepo.On("GetByID", mock.Anything, stored.ID).Return(stored, nil)
		store.On("Remove", mock.Anything, stored.ObjectKey).Return(nil)
		userRepo.On("ReleaseStorage", mock.Anything, owner.ID, stored.Size).Return(nil)
		fileRepo.On("Delete", mock.Anything, stored.ID).Return(nil)

		err := svc.Delete(context.Background(), owner, stored.ID)

		assert.NoError(t, err)
		fileRepo.AssertExpectations(t)
		userRepo.AssertExpectations(t)
	})

	t.Run("object removal failure is not fatal", func(t *testing.T) {
		svc, fileRepo, userRepo, store := newStorageFixture()
		fileRepo.On("GetByID", mock.Anything, stored.ID).Return(stored, nil)
		store.On("Remove", mock.Anything, stored.ObjectKey).Return(errors.New("gone"))
		userRepo.On("ReleaseStorage", mock.Anything, owner.ID, stored.Size).Return(nil)
		fileRepo.On("Delete", mock.Anything, stored.ID).Return(nil)

		err := svc.Delete(context.Background(), owner, stored.ID)

		assert.NoError(t, err)
	})

	t.Run("stranger is forbidden", func(t *testing.T) {
		svc, fileRepo, _, _ := newStorageFixture()
		fileRepo.On("GetByID", mock.Anything, stored.ID).Return(stored, nil)

		err := svc.Delete(context.Background(), domain.Identity{ID: uuid.New(), Role: domain.RoleTeacher}, stored.ID)

		assert.Error(t, err)
		assert.Equal(t, customError.ErrCodeForbidden, customError.CodeOf(err))
	})
}

func TestListFilesScoping(t *testing.T) {
	t.Run("non-admin sees only own files", func(t *testing.T) {
		svc, fileRepo, _, _ := newStorageFixture()
		identity := domain.Identity{ID: uuid.New(), Role: domain.RoleTeacher}

		fileRepo.On("List", mock.Anything, mock.MatchedBy(func(q domain.FileListQuery) bool {
			return q.OwnerID != nil && *q.OwnerID == identity.ID
		})).Return([]*domain.StoredFile{}, nil)

		_, err := svc.ListFiles(context.Background(), identity, domain.FileListQuery{})

		assert.NoError(t, err)
		fileRepo.AssertExpectations(t)
	})

	t.Run("admin sees everything", func(t *testing.T) {
		svc, fileRepo, _, _ := newStorageFixture()
		identity := domain.Identity{ID: uuid.New(), Role: domain.RoleAdmin}

		fileRepo.On("List", mock.Anything, mock.MatchedBy(func(q domain.FileListQuery) bool {
			return q.OwnerID == nil
		})).Return([]*domain.StoredFile{}, nil)

		_, err := svc.ListFiles(context.Background(), identity, domain.FileListQuery{})

		assert.NoError(t, err)
	})
}

func TestAdminStats(t *testing.T) {
	svc, fileRepo, userRepo, _ := newStorageFixture()
	userRepo.On("Count", mock.Anything).Return(12, nil)
	fileRepo.On("Count", mock.Anything).Return(48, nil)
	userRepo.On("TotalStorageUsed", mock.Anything).Return(int64(123456), nil)

	stats, err := svc.AdminStats(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 12, stats.TotalUsers)
	assert.Equal(t, 48, stats.TotalFiles)
	assert.Equal(t, int64(123456), stats.TotalStorage)
}
