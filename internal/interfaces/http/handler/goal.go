package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/bizfin/backend/internal/application/goals"
	"github.com/bizfin/backend/internal/interfaces/http/dto"
)

// GoalHandler exposes monthly goal and dashboard endpoints
type GoalHandler struct {
	BaseHandler
	goalService      *goals.GoalService
	dashboardService *goals.DashboardService
}

// NewGoalHandler creates a new goal handler
func NewGoalHandler(goalService *goals.GoalService, dashboardService *goals.DashboardService) *GoalHandler {
	return &GoalHandler{
		goalService:      goalService,
		dashboardService: dashboardService,
	}
}

// Upsert handles PUT /businesses/:businessID/goals
func (h *GoalHandler) Upsert(c *gin.Context) {
	businessID, ok := h.businessID(c)
	if !ok {
		return
	}

	var input goals.UpsertGoalInput
	if !h.bindJSON(c, &input) {
		return
	}

	info, err := h.goalService.UpsertGoal(c.Request.Context(), businessID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, info)
}

// Get handles GET /businesses/:businessID/goals/:month
func (h *GoalHandler) Get(c *gin.Context) {
	businessID, ok := h.businessID(c)
	if !ok {
		return
	}

	info, err := h.goalService.GetGoal(c.Request.Context(), businessID, c.Param("month"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, info)
}

// List handles GET /businesses/:businessID/goals
func (h *GoalHandler) List(c *gin.Context) {
	businessID, ok := h.businessID(c)
	if !ok {
		return
	}

	var req dto.ListRequest
	if !h.bindQuery(c, &req) {
		return
	}

	items, err := h.goalService.ListGoals(c.Request.Context(), businessID, req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// Delete handles DELETE /businesses/:businessID/goals/:id
func (h *GoalHandler) Delete(c *gin.Context) {
	businessID, ok := h.businessID(c)
	if !ok {
		return
	}
	goalID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.goalService.DeleteGoal(c.Request.Context(), businessID, goalID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Dashboard handles GET /businesses/:businessID/dashboard/:month
func (h *GoalHandler) Dashboard(c *gin.Context) {
	businessID, ok := h.businessID(c)
	if !ok {
		return
	}

	result, err := h.dashboardService.GetDashboard(c.Request.Context(), businessID, c.Param("month"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
