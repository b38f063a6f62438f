package upload

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/bizfin/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ObjectStorageService abstracts the S3-compatible backend used for
// invoice documents and other uploads.
type ObjectStorageService interface {
	Upload(ctx context.Context, storageKey string, data []byte, contentType string) error
	PublicURL(storageKey string) string
	GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error)
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)
	DeleteObject(ctx context.Context, storageKey string) error
	ObjectExists(ctx context.Context, storageKey string) (bool, error)
}

// allowedContentTypes lists what businesses may attach to invoices
var allowedContentTypes = map[string]string{
	"application/pdf": ".pdf",
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/webp":      ".webp",
}

// UploadService stores documents and issues presigned URLs
type UploadService struct {
	storage       ObjectStorageService
	presignExpiry time.Duration
	maxUploadSize int64
	logger        *zap.Logger
}

// NewUploadService creates a new upload service
func NewUploadService(storage ObjectStorageService, presignExpiry time.Duration, maxUploadSize int64, logger *zap.Logger) *UploadService {
	if presignExpiry == 0 {
		presignExpiry = 15 * time.Minute
	}
	if maxUploadSize <= 0 {
		maxUploadSize = 10 << 20
	}
	return &UploadService{
		storage:       storage,
		presignExpiry: presignExpiry,
		maxUploadSize: maxUploadSize,
		logger:        logger,
	}
}

// UploadFile stores a document directly and returns its public URL. The
// object key is scoped under the business so one business can never
// address another's files.
func (s *UploadService) UploadFile(ctx context.Context, businessID uuid.UUID, input UploadFileInput) (*UploadFileResult, error) {
	contentType := strings.ToLower(strings.TrimSpace(input.ContentType))
	if _, ok := allowedContentTypes[contentType]; !ok {
		return nil, shared.NewDomainError("UNSUPPORTED_CONTENT_TYPE", "Only PDF and image uploads are supported")
	}

	if int64(len(input.Data)) > s.maxUploadSize {
		return nil, shared.NewDomainError("FILE_TOO_LARGE", "File exceeds the maximum upload size")
	}
	if len(input.Data) == 0 {
		return nil, shared.NewDomainError("EMPTY_FILE", "Uploaded file is empty")
	}

	filename := sanitizeFilename(input.Filename)
	if filename == "" {
		return nil, shared.NewDomainError("INVALID_FILENAME", "Filename is required")
	}

	storageKey := fmt.Sprintf("businesses/%s/documents/%s-%s", businessID, uuid.New(), filename)

	if err := s.storage.Upload(ctx, storageKey, input.Data, contentType); err != nil {
		s.logger.Error("Failed to store uploaded file",
			zap.String("business_id", businessID.String()),
			zap.String("storage_key", storageKey),
			zap.Error(err))
		return nil, shared.NewDomainError("STORAGE_ERROR", "Failed to store file")
	}

	return &UploadFileResult{
		StorageKey: storageKey,
		PublicURL:  s.storage.PublicURL(storageKey),
	}, nil
}

// CreateUploadURL issues a presigned PUT URL for a new document. The
// object key is scoped under the business so one business can never
// address another's files.
func (s *UploadService) CreateUploadURL(ctx context.Context, businessID uuid.UUID, input CreateUploadURLInput) (*CreateUploadURLResult, error) {
	contentType := strings.ToLower(strings.TrimSpace(input.ContentType))
	if _, ok := allowedContentTypes[contentType]; !ok {
		return nil, shared.NewDomainError("UNSUPPORTED_CONTENT_TYPE", "Only PDF and image uploads are supported")
	}

	filename := sanitizeFilename(input.Filename)
	if filename == "" {
		return nil, shared.NewDomainError("INVALID_FILENAME", "Filename is required")
	}

	storageKey := fmt.Sprintf("businesses/%s/documents/%s-%s", businessID, uuid.New(), filename)

	url, expiresAt, err := s.storage.GenerateUploadURL(ctx, storageKey, contentType, s.presignExpiry)
	if err != nil {
		s.logger.Error("Failed to generate upload URL",
			zap.String("business_id", businessID.String()),
			zap.Error(err))
		return nil, shared.NewDomainError("STORAGE_ERROR", "Failed to generate upload URL")
	}

	return &CreateUploadURLResult{
		StorageKey: storageKey,
		UploadURL:  url,
		ExpiresAt:  expiresAt,
	}, nil
}

// ConfirmUpload verifies the client actually wrote the object
func (s *UploadService) ConfirmUpload(ctx context.Context, businessID uuid.UUID, storageKey string) error {
	if err := s.authorizeKey(businessID, storageKey); err != nil {
		return err
	}

	exists, err := s.storage.ObjectExists(ctx, storageKey)
	if err != nil {
		s.logger.Error("Failed to check uploaded object", zap.String("storage_key", storageKey), zap.Error(err))
		return shared.NewDomainError("STORAGE_ERROR", "Failed to verify upload")
	}
	if !exists {
		return shared.NewDomainError("UPLOAD_NOT_FOUND", "Uploaded file was not found in storage")
	}
	return nil
}

// GetDownloadURL issues a presigned GET URL for an existing document
func (s *UploadService) GetDownloadURL(ctx context.Context, businessID uuid.UUID, storageKey string) (*DownloadURLResult, error) {
	if err := s.authorizeKey(businessID, storageKey); err != nil {
		return nil, err
	}

	url, expiresAt, err := s.storage.GenerateDownloadURL(ctx, storageKey, s.presignExpiry)
	if err != nil {
		s.logger.Error("Failed to generate download URL", zap.String("storage_key", storageKey), zap.Error(err))
		return nil, shared.NewDomainError("STORAGE_ERROR", "Failed to generate download URL")
	}

	return &DownloadURLResult{
		DownloadURL: url,
		ExpiresAt:   expiresAt,
	}, nil
}

// DeleteFile removes a document from storage
func (s *UploadService) DeleteFile(ctx context.Context, businessID uuid.UUID, storageKey string) error {
	if err := s.authorizeKey(businessID, storageKey); err != nil {
		return err
	}

	if err := s.storage.DeleteObject(ctx, storageKey); err != nil {
		s.logger.Error("Failed to delete object", zap.String("storage_key", storageKey), zap.Error(err))
		return shared.NewDomainError("STORAGE_ERROR", "Failed to delete file")
	}
	return nil
}

// authorizeKey rejects keys outside the business's prefix
func (s *UploadService) authorizeKey(businessID uuid.UUID, storageKey string) error {
	if storageKey == "" {
		return shared.NewDomainError("INVALID_KEY", "Storage key is required")
	}
	prefix := fmt.Sprintf("businesses/%s/", businessID)
	if !strings.HasPrefix(storageKey, prefix) {
		return shared.NewDomainError("FORBIDDEN", "Storage key does not belong to this business")
	}
	return nil
}

// sanitizeFilename strips path components and unsafe characters
func sanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	if name == "." || name == "/" {
		return ""
	}

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		case r >= 0x0590 && r <= 0x05FF: // Hebrew letters are fine
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
