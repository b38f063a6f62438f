package upload

import "time"

// UploadFileInput is a direct (multipart) file upload
type UploadFileInput struct {
	Filename    string
	ContentType string
	Data        []byte
}

// UploadFileResult carries the stored object's key and public URL
type UploadFileResult struct {
	StorageKey string `json:"storage_key"`
	PublicURL  string `json:"public_url"`
}

// CreateUploadURLInput is a request for a presigned upload URL
type CreateUploadURLInput struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
}

// CreateUploadURLResult carries the presigned upload URL
type CreateUploadURLResult struct {
	StorageKey string    `json:"storage_key"`
	UploadURL  string    `json:"upload_url"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// DownloadURLResult carries a presigned download URL
type DownloadURLResult struct {
	DownloadURL string    `json:"download_url"`
	ExpiresAt   time.Time `json:"expires_at"`
}
