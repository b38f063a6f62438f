package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bizfin/backend/internal/application/daily"
)

const dateLayout = "2006-01-02"

// DailyHandler exposes daily entry and catalog endpoints
type DailyHandler struct {
	BaseHandler
	entryService   *daily.EntryService
	catalogService *daily.CatalogService
}

// NewDailyHandler creates a new daily collection handler
func NewDailyHandler(entryService *daily.EntryService, catalogService *daily.CatalogService) *DailyHandler {
	return &DailyHandler{
		entryService:   entryService,
		catalogService: catalogService,
	}
}

func (h *DailyHandler) pathDate(c *gin.Context) (time.Time, bool) {
	date, err := time.Parse(dateLayout, c.Param("date"))
	if err != nil {
		h.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
		return time.Time{}, false
	}
	return date, true
}

// UpsertEntry handles PUT /businesses/:businessID/daily-entries.
// Posting the same date twice replaces that day's figures.
func (h *DailyHandler) UpsertEntry(c *gin.Context) {
	businessID, ok := h.businessID(c)
	if !ok {
		return
	}

	var input daily.UpsertEntryInput
	if !h.bindJSON(c, &input) {
		return
	}

	info, err := h.entryService.UpsertEntry(c.Request.Context(), businessID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, info)
}

// GetEntry handles GET /businesses/:businessID/daily-entries/:date
func (h *DailyHandler) GetEntry(c *gin.Context) {
	businessID, ok := h.businessID(c)
	if !ok {
		return
	}
	date, ok := h.pathDate(c)
	if !ok {
		return
	}

	info, err := h.entryService.GetEntryByDate(c.Request.Context(), businessID, date)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, info)
}

type listEntriesRequest struct {
	From string `form:"from" binding:"required"`
	To   string `form:"to" binding:"required"`
}

// ListEntries handles GET /businesses/:businessID/daily-entries
func (h *DailyHandler) ListEntries(c *gin.Context) {
	businessID, ok := h.businessID(c)
	if !ok {
		return
	}

	var req listEntriesRequest
	if !h.bindQuery(c, &req) {
		return
	}
	from, err := time.Parse(dateLayout, req.From)
	if err != nil {
		h.BadRequest(c, "Invalid from date, expected YYYY-MM-DD")
		return
	}
	to, err := time.Parse(dateLayout, req.To)
	if err != nil {
		h.BadRequest(c, "Invalid to date, expected YYYY-MM-DD")
		return
	}

	entries, err := h.entryService.ListEntries(c.Request.Context(), businessID, from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entries)
}

// DeleteEntry handles DELETE /businesses/:businessID/daily-entries/:id
func (h *DailyHandler) DeleteEntry(c *gin.Context) {
	businessID, ok := h.businessID(c)
	if !ok {
		return
	}
	entryID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.entryService.DeleteEntry(c.Request.Context(), businessID, entryID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// CreateIncomeSource handles POST /businesses/:businessID/income-sources
func (h *DailyHandler) CreateIncomeSource(c *gin.Context) {
	businessID, ok := h.businessID(c)
	if !ok {
		return
	}

	var input daily.CreateIncomeSourceInput
	if !h.bindJSON(c, &input) {
		return
	}

	info, err := h.catalogService.CreateIncomeSource(c.Request.Context(), businessID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, info)
}

// ListIncomeSources handles GET /businesses/:businessID/income-sources
func (h *DailyHandler) ListIncomeSources(c *gin.Context) {
	businessID, ok := h.businessID(c)
	if !ok {
		return
	}

	sources, err := h.catalogService.ListIncomeSources(c.Request.Context(), businessID,
		c.Query("active_only") == "true")
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sources)
}

// UpdateIncomeSource handles PUT /businesses/:businessID/income-sources/:id
func (h *DailyHandler) UpdateIncomeSource(c *gin.Context) {
	businessID, ok := h.businessID(c)
	if !ok {
		return
	}
	sourceID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	var input daily.UpdateIncomeSourceInput
	if !h.bindJSON(c, &input) {
		return
	}

	info, err := h.catalogService.UpdateIncomeSource(c.Request.Context(), businessID, sourceID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, info)
}

// DeactivateIncomeSource handles DELETE /businesses/:businessID/income-sources/:id.
// Historical entry lines keep referencing the source.
func (h *DailyHandler) DeactivateIncomeSource(c *gin.Context) {
	businessID, ok := h.businessID(c)
	if !ok {
		return
	}
	sourceID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.catalogService.DeactivateIncomeSource(c.Request.Context(), businessID, sourceID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// CreateManagedProduct handles POST /businesses/:businessID/managed-products
func (h *DailyHandler) CreateManagedProduct(c *gin.Context) {
	businessID, ok := h.businessID(c)
	if !ok {
		return
	}

	var input daily.CreateManagedProductInput
	if !h.bindJSON(c, &input) {
		return
	}

	info, err := h.catalogService.CreateManagedProduct(c.Request.Context(), businessID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, info)
}

// ListManagedProducts handles GET /businesses/:businessID/managed-products
func (h *DailyHandler) ListManagedProducts(c *gin.Context) {
	businessID, ok := h.businessID(c)
	if !ok {
		return
	}

	products, err := h.catalogService.ListManagedProducts(c.Request.Context(), businessID,
		c.Query("active_only") == "true")
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, products)
}

// UpdateManagedProduct handles PUT /businesses/:businessID/managed-products/:id
func (h *DailyHandler) UpdateManagedProduct(c *gin.Context) {
	businessID, ok := h.businessID(c)
	if !ok {
		return
	}
	productID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	var input daily.UpdateManagedProductInput
	if !h.bindJSON(c, &input) {
		return
	}

	info, err := h.catalogService.UpdateManagedProduct(c.Request.Context(), businessID, productID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, info)
}

// DeactivateManagedProduct handles DELETE /businesses/:businessID/managed-products/:id
func (h *DailyHandler) DeactivateManagedProduct(c *gin.Context) {
	businessID, ok := h.businessID(c)
	if !ok {
		return
	}
	productID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.catalogService.DeactivateManagedProduct(c.Request.Context(), businessID, productID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
