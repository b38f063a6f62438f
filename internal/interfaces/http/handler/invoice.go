package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/bizfin/backend/internal/application/ledger"
	"github.com/bizfin/backend/internal/interfaces/http/dto"
)

// InvoiceHandler exposes supplier invoice endpoints
type InvoiceHandler struct {
	BaseHandler
	service *ledger.InvoiceService
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(service *ledger.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{service: service}
}

// Create handles POST /businesses/:businessID/invoices
func (h *InvoiceHandler) Create(c *gin.Context) {
	businessID, ok := h.businessID(c)
	if !ok {
		return
	}

	var input ledger.CreateInvoiceInput
	if !h.bindJSON(c, &input) {
		return
	}

	info, err := h.service.CreateInvoice(c.Request.Context(), businessID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, info)
}

// List handles GET /businesses/:businessID/invoices
func (h *InvoiceHandler) List(c *gin.Context) {
	businessID, ok := h.businessID(c)
	if !ok {
		return
	}

	var req dto.ListRequest
	if !h.bindQuery(c, &req) {
		return
	}

	invoices, err := h.service.ListInvoices(c.Request.Context(), businessID, req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoices)
}

// ListBySupplier handles GET /businesses/:businessID/suppliers/:id/invoices
func (h *InvoiceHandler) ListBySupplier(c *gin.Context) {
	businessID, ok := h.businessID(c)
	if !ok {
		return
	}
	supplierID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	var req dto.ListRequest
	if !h.bindQuery(c, &req) {
		return
	}

	invoices, err := h.service.ListBySupplier(c.Request.Context(), businessID, supplierID, req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoices)
}

// Get handles GET /businesses/:businessID/invoices/:id
func (h *InvoiceHandler) Get(c *gin.Context) {
	businessID, ok := h.businessID(c)
	if !ok {
		return
	}
	invoiceID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	info, err := h.service.GetInvoice(c.Request.Context(), businessID, invoiceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, info)
}

// UpdateAmounts handles PUT /businesses/:businessID/invoices/:id/amounts
func (h *InvoiceHandler) UpdateAmounts(c *gin.Context) {
	businessID, ok := h.businessID(c)
	if !ok {
		return
	}
	invoiceID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	var input ledger.UpdateInvoiceAmountsInput
	if !h.bindJSON(c, &input) {
		return
	}

	info, err := h.service.UpdateAmounts(c.Request.Context(), businessID, invoiceID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, info)
}

type attachFileRequest struct {
	FileURL string `json:"file_url" binding:"required,max=500"`
}

// AttachFile handles PUT /businesses/:businessID/invoices/:id/file
func (h *InvoiceHandler) AttachFile(c *gin.Context) {
	businessID, ok := h.businessID(c)
	if !ok {
		return
	}
	invoiceID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	var req attachFileRequest
	if !h.bindJSON(c, &req) {
		return
	}

	info, err := h.service.AttachFile(c.Request.Context(), businessID, invoiceID, req.FileURL)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, info)
}

// MarkPaid handles POST /businesses/:businessID/invoices/:id/paid
func (h *InvoiceHandler) MarkPaid(c *gin.Context) {
	h.transition(c, h.service.MarkPaid)
}

// Reopen handles POST /businesses/:businessID/invoices/:id/reopen
func (h *InvoiceHandler) Reopen(c *gin.Context) {
	h.transition(c, h.service.Reopen)
}

// Cancel handles POST /businesses/:businessID/invoices/:id/cancel
func (h *InvoiceHandler) Cancel(c *gin.Context) {
	h.transition(c, h.service.Cancel)
}

func (h *InvoiceHandler) transition(c *gin.Context, fn func(ctx context.Context, businessID, invoiceID uuid.UUID) (*ledger.InvoiceInfo, error)) {
	businessID, ok := h.businessID(c)
	if !ok {
		return
	}
	invoiceID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	info, err := fn(c.Request.Context(), businessID, invoiceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, info)
}
