package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/bizfin/backend/internal/application/ledger"
	"github.com/bizfin/backend/internal/interfaces/http/dto"
)

// SupplierHandler exposes supplier endpoints
type SupplierHandler struct {
	BaseHandler
	service *ledger.SupplierService
}

// NewSupplierHandler creates a new supplier handler
func NewSupplierHandler(service *ledger.SupplierService) *SupplierHandler {
	return &SupplierHandler{service: service}
}

type listSuppliersRequest struct {
	dto.ListRequest
	ActiveOnly bool `form:"active_only"`
}

// Create handles POST /businesses/:businessID/suppliers
func (h *SupplierHandler) Create(c *gin.Context) {
	businessID, ok := h.businessID(c)
	if !ok {
		return
	}

	var input ledger.CreateSupplierInput
	if !h.bindJSON(c, &input) {
		return
	}

	info, err := h.service.CreateSupplier(c.Request.Context(), businessID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, info)
}

// List handles GET /businesses/:businessID/suppliers
func (h *SupplierHandler) List(c *gin.Context) {
	businessID, ok := h.businessID(c)
	if !ok {
		return
	}

	var req listSuppliersRequest
	if !h.bindQuery(c, &req) {
		return
	}

	suppliers, err := h.service.ListSuppliers(c.Request.Context(), businessID, req.ActiveOnly, req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, suppliers)
}

// Get handles GET /businesses/:businessID/suppliers/:id
func (h *SupplierHandler) Get(c *gin.Context) {
	businessID, ok := h.businessID(c)
	if !ok {
		return
	}
	supplierID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	info, err := h.service.GetSupplier(c.Request.Context(), businessID, supplierID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, info)
}

// Update handles PUT /businesses/:businessID/suppliers/:id
func (h *SupplierHandler) Update(c *gin.Context) {
	businessID, ok := h.businessID(c)
	if !ok {
		return
	}
	supplierID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	var input ledger.UpdateSupplierInput
	if !h.bindJSON(c, &input) {
		return
	}

	info, err := h.service.UpdateSupplier(c.Request.Context(), businessID, supplierID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, info)
}

// Deactivate handles DELETE /businesses/:businessID/suppliers/:id
func (h *SupplierHandler) Deactivate(c *gin.Context) {
	businessID, ok := h.businessID(c)
	if !ok {
		return
	}
	supplierID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeactivateSupplier(c.Request.Context(), businessID, supplierID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Activate handles POST /businesses/:businessID/suppliers/:id/activate
func (h *SupplierHandler) Activate(c *gin.Context) {
	businessID, ok := h.businessID(c)
	if !ok {
		return
	}
	supplierID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.service.ActivateSupplier(c.Request.Context(), businessID, supplierID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
