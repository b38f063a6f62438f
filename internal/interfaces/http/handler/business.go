package handler

import (
	"github.com/gin-gonic/gin"

	appbusiness "github.com/bizfin/backend/internal/application/business"
	"github.com/bizfin/backend/internal/interfaces/http/dto"
)

// BusinessHandler exposes business and weekly schedule endpoints
type BusinessHandler struct {
	BaseHandler
	service *appbusiness.BusinessService
}

// NewBusinessHandler creates a new business handler
func NewBusinessHandler(service *appbusiness.BusinessService) *BusinessHandler {
	return &BusinessHandler{service: service}
}

// Create handles POST /businesses
func (h *BusinessHandler) Create(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	var input appbusiness.CreateBusinessInput
	if !h.bindJSON(c, &input) {
		return
	}

	info, err := h.service.CreateBusiness(c.Request.Context(), userID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, info)
}

// List handles GET /businesses
func (h *BusinessHandler) List(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	var req dto.ListRequest
	if !h.bindQuery(c, &req) {
		return
	}

	businesses, err := h.service.ListBusinesses(c.Request.Context(), userID, req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, businesses)
}

// Get handles GET /businesses/:businessID
func (h *BusinessHandler) Get(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	businessID, ok := h.businessID(c)
	if !ok {
		return
	}

	info, err := h.service.GetBusiness(c.Request.Context(), userID, businessID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, info)
}

// Update handles PUT /businesses/:businessID
func (h *BusinessHandler) Update(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	businessID, ok := h.businessID(c)
	if !ok {
		return
	}

	var input appbusiness.UpdateBusinessInput
	if !h.bindJSON(c, &input) {
		return
	}

	info, err := h.service.UpdateBusiness(c.Request.Context(), userID, businessID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, info)
}

// UpdateSettings handles PUT /businesses/:businessID/settings
func (h *BusinessHandler) UpdateSettings(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	businessID, ok := h.businessID(c)
	if !ok {
		return
	}

	var input appbusiness.UpdateSettingsInput
	if !h.bindJSON(c, &input) {
		return
	}

	info, err := h.service.UpdateSettings(c.Request.Context(), userID, businessID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, info)
}

// Deactivate handles DELETE /businesses/:businessID
func (h *BusinessHandler) Deactivate(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	businessID, ok := h.businessID(c)
	if !ok {
		return
	}

	if err := h.service.DeactivateBusiness(c.Request.Context(), userID, businessID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// GetSchedule handles GET /businesses/:businessID/schedule
func (h *BusinessHandler) GetSchedule(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	businessID, ok := h.businessID(c)
	if !ok {
		return
	}

	days, err := h.service.GetSchedule(c.Request.Context(), userID, businessID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, days)
}

// UpsertSchedule handles PUT /businesses/:businessID/schedule
func (h *BusinessHandler) UpsertSchedule(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	businessID, ok := h.businessID(c)
	if !ok {
		return
	}

	var input appbusiness.UpsertScheduleInput
	if !h.bindJSON(c, &input) {
		return
	}

	days, err := h.service.UpsertSchedule(c.Request.Context(), userID, businessID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, days)
}
