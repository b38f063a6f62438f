package storage

import (
	"context"
	"errors"
	"sync"
	"time"

	uploadapp "github.com/bizfin/backend/internal/application/upload"
)

// StubObjectStorage is an in-memory ObjectStorageService for development
// and tests. Uploads are tracked by key only; no bytes are stored.
type StubObjectStorage struct {
	BaseURL string

	mu      sync.Mutex
	objects map[string]bool
}

// NewStubObjectStorage creates a new StubObjectStorage
func NewStubObjectStorage() *StubObjectStorage {
	return &StubObjectStorage{
		BaseURL: "https://storage.example.com",
		objects: make(map[string]bool),
	}
}

var _ uploadapp.ObjectStorageService = (*StubObjectStorage)(nil)

// Upload marks the object as present without storing bytes
func (s *StubObjectStorage) Upload(_ context.Context, storageKey string, data []byte, _ string) error {
	if storageKey == "" {
		return errors.New("storage key is required")
	}
	if data == nil {
		return errors.New("data is required")
	}

	s.mu.Lock()
	s.objects[storageKey] = true
	s.mu.Unlock()
	return nil
}

// PublicURL returns the stub public address of an object
func (s *StubObjectStorage) PublicURL(storageKey string) string {
	return s.BaseURL + "/" + storageKey
}

// GenerateUploadURL generates a stub presigned URL and marks the object
// as present so the confirmation flow works without a real backend.
func (s *StubObjectStorage) GenerateUploadURL(_ context.Context, storageKey, _ string, expiresIn time.Duration) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, errors.New("storage key is required")
	}

	s.mu.Lock()
	s.objects[storageKey] = true
	s.mu.Unlock()

	expiresAt := time.Now().Add(expiresIn)
	return s.BaseURL + "/upload/" + storageKey, expiresAt, nil
}

// GenerateDownloadURL generates a stub presigned download URL
func (s *StubObjectStorage) GenerateDownloadURL(_ context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, errors.New("storage key is required")
	}

	expiresAt := time.Now().Add(expiresIn)
	return s.BaseURL + "/download/" + storageKey, expiresAt, nil
}

// DeleteObject removes the object from the in-memory set
func (s *StubObjectStorage) DeleteObject(_ context.Context, storageKey string) error {
	if storageKey == "" {
		return errors.New("storage key is required")
	}

	s.mu.Lock()
	delete(s.objects, storageKey)
	s.mu.Unlock()
	return nil
}

// ObjectExists reports whether the key was previously uploaded
func (s *StubObjectStorage) ObjectExists(_ context.Context, storageKey string) (bool, error) {
	if storageKey == "" {
		return false, errors.New("storage key is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.objects[storageKey], nil
}
