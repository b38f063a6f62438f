package handler

import (
	"io"

	"github.com/gin-gonic/gin"

	"github.com/bizfin/backend/internal/application/upload"
)

// UploadHandler exposes document upload endpoints
type UploadHandler struct {
	BaseHandler
	service *upload.UploadService
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(service *upload.UploadService) *UploadHandler {
	return &UploadHandler{service: service}
}

// UploadFile handles POST /businesses/:businessID/uploads. Accepts a
// multipart form with a "file" part and returns the stored public URL.
func (h *UploadHandler) UploadFile(c *gin.Context) {
	businessID, ok := h.businessID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "Multipart form with a \"file\" part is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.BadRequest(c, "Failed to read uploaded file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.BadRequest(c, "Failed to read uploaded file")
		return
	}

	result, err := h.service.UploadFile(c.Request.Context(), businessID, upload.UploadFileInput{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// CreateUploadURL handles POST /businesses/:businessID/uploads/presign
func (h *UploadHandler) CreateUploadURL(c *gin.Context) {
	businessID, ok := h.businessID(c)
	if !ok {
		return
	}

	var input upload.CreateUploadURLInput
	if !h.bindJSON(c, &input) {
		return
	}

	result, err := h.service.CreateUploadURL(c.Request.Context(), businessID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

type storageKeyRequest struct {
	StorageKey string `json:"storage_key" binding:"required"`
}

// ConfirmUpload handles POST /businesses/:businessID/uploads/confirm
func (h *UploadHandler) ConfirmUpload(c *gin.Context) {
	businessID, ok := h.businessID(c)
	if !ok {
		return
	}

	var req storageKeyRequest
	if !h.bindJSON(c, &req) {
		return
	}

	if err := h.service.ConfirmUpload(c.Request.Context(), businessID, req.StorageKey); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// GetDownloadURL handles GET /businesses/:businessID/uploads/download
func (h *UploadHandler) GetDownloadURL(c *gin.Context) {
	businessID, ok := h.businessID(c)
	if !ok {
		return
	}

	storageKey := c.Query("key")
	result, err := h.service.GetDownloadURL(c.Request.Context(), businessID, storageKey)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// DeleteFile handles DELETE /businesses/:businessID/uploads
func (h *UploadHandler) DeleteFile(c *gin.Context) {
	businessID, ok := h.businessID(c)
	if !ok {
		return
	}

	var req storageKeyRequest
	if !h.bindJSON(c, &req) {
		return
	}

	if err := h.service.DeleteFile(c.Request.Context(), businessID, req.StorageKey); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
