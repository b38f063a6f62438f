package upload

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeStorage struct {
	objects     map[string]bool
	deletedKeys []string
	failAll     bool
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: make(map[string]bool)}
}

func (f *fakeStorage) Upload(_ context.Context, storageKey string, data []byte, _ string) error {
	if f.failAll {
		return fmt.Errorf("storage down")
	}
	f.objects[storageKey] = true
	return nil
}

func (f *fakeStorage) PublicURL(storageKey string) string {
	return "https://storage.test/" + storageKey
}

func (f *fakeStorage) GenerateUploadURL(_ context.Context, storageKey, _ string, expiresIn time.Duration) (string, time.Time, error) {
	if f.failAll {
		return "", time.Time{}, fmt.Errorf("storage down")
	}
	return "https://storage.test/upload/" + storageKey, time.Now().Add(expiresIn), nil
}

func (f *fakeStorage) GenerateDownloadURL(_ context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	if f.failAll {
		return "", time.Time{}, fmt.Errorf("storage down")
	}
	return "https://storage.test/download/" + storageKey, time.Now().Add(expiresIn), nil
}

func (f *fakeStorage) DeleteObject(_ context.Context, storageKey string) error {
	f.deletedKeys = append(f.deletedKeys, storageKey)
	delete(f.objects, storageKey)
	return nil
}

func (f *fakeStorage) ObjectExists(_ context.Context, storageKey string) (bool, error) {
	return f.objects[storageKey], nil
}

func TestUploadService_CreateUploadURL(t *testing.T) {
	businessID := uuid.New()
	svc := NewUploadService(newFakeStorage(), 15*time.Minute, 0, zap.NewNop())

	t.Run("issues scoped key and URL", func(t *testing.T) {
		result, err := svc.CreateUploadURL(context.Background(), businessID, CreateUploadURLInput{
			Filename:    "invoice-042.pdf",
			ContentType: "application/pdf",
		})
		require.NoError(t, err)

		assert.Contains(t, result.StorageKey, "businesses/"+businessID.String()+"/documents/")
		assert.Contains(t, result.StorageKey, "invoice-042.pdf")
		assert.NotEmpty(t, result.UploadURL)
		assert.True(t, result.ExpiresAt.After(time.Now()))
	})

	t.Run("rejects unsupported content type", func(t *testing.T) {
		_, err := svc.CreateUploadURL(context.Background(), businessID, CreateUploadURLInput{
			Filename:    "malware.exe",
			ContentType: "application/octet-stream",
		})
		assert.Error(t, err)
	})

	t.Run("strips path traversal from filename", func(t *testing.T) {
		result, err := svc.CreateUploadURL(context.Background(), businessID, CreateUploadURLInput{
			Filename:    "../../etc/passwd.pdf",
			ContentType: "application/pdf",
		})
		require.NoError(t, err)
		assert.NotContains(t, result.StorageKey, "..")
	})

	t.Run("keeps Hebrew filenames", func(t *testing.T) {
		result, err := svc.CreateUploadURL(context.Background(), businessID, CreateUploadURLInput{
			Filename:    "חשבונית.pdf",
			ContentType: "application/pdf",
		})
		require.NoError(t, err)
		assert.Contains(t, result.StorageKey, "חשבונית.pdf")
	})
}

func TestUploadService_UploadFile(t *testing.T) {
	businessID := uuid.New()
	storage := newFakeStorage()
	svc := NewUploadService(storage, time.Minute, 64, zap.NewNop())

	t.Run("stores file and returns public URL", func(t *testing.T) {
		result, err := svc.UploadFile(context.Background(), businessID, UploadFileInput{
			Filename:    "invoice-042.pdf",
			ContentType: "application/pdf",
			Data:        []byte("%PDF-1.7"),
		})
		require.NoError(t, err)

		assert.Contains(t, result.StorageKey, "businesses/"+businessID.String()+"/documents/")
		assert.Equal(t, "https://storage.test/"+result.StorageKey, result.PublicURL)
		assert.True(t, storage.objects[result.StorageKey])
	})

	t.Run("rejects file over the size limit", func(t *testing.T) {
		_, err := svc.UploadFile(context.Background(), businessID, UploadFileInput{
			Filename:    "big.pdf",
			ContentType: "application/pdf",
			Data:        make([]byte, 65),
		})
		assert.Error(t, err)
	})

	t.Run("rejects empty file", func(t *testing.T) {
		_, err := svc.UploadFile(context.Background(), businessID, UploadFileInput{
			Filename:    "empty.pdf",
			ContentType: "application/pdf",
		})
		assert.Error(t, err)
	})

	t.Run("rejects unsupported content type", func(t *testing.T) {
		_, err := svc.UploadFile(context.Background(), businessID, UploadFileInput{
			Filename:    "notes.txt",
			ContentType: "text/plain",
			Data:        []byte("hi"),
		})
		assert.Error(t, err)
	})
}

func TestUploadService_ConfirmUpload(t *testing.T) {
	businessID := uuid.New()
	storage := newFakeStorage()
	svc := NewUploadService(storage, time.Minute, 0, zap.NewNop())

	key := fmt.Sprintf("businesses/%s/documents/abc-invoice.pdf", businessID)

	t.Run("fails when object missing", func(t *testing.T) {
		err := svc.ConfirmUpload(context.Background(), businessID, key)
		assert.Error(t, err)
	})

	t.Run("succeeds when object present", func(t *testing.T) {
		storage.objects[key] = true
		assert.NoError(t, svc.ConfirmUpload(context.Background(), businessID, key))
	})

	t.Run("rejects key of another business", func(t *testing.T) {
		otherKey := fmt.Sprintf("businesses/%s/documents/abc.pdf", uuid.New())
		storage.objects[otherKey] = true

		err := svc.ConfirmUpload(context.Background(), businessID, otherKey)
		assert.Error(t, err)
	})
}

func TestUploadService_DeleteFile(t *testing.T) {
	businessID := uuid.New()
	storage := newFakeStorage()
	svc := NewUploadService(storage, time.Minute, 0, zap.NewNop())

	key := fmt.Sprintf("businesses/%s/documents/doc.pdf", businessID)
	storage.objects[key] = true

	require.NoError(t, svc.DeleteFile(context.Background(), businessID, key))
	assert.Contains(t, storage.deletedKeys, key)

	assert.Error(t, svc.DeleteFile(context.Background(), businessID, "businesses/other/doc.pdf"))
}
