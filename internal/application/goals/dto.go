package goals

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bizfin/backend/internal/domain/goals"
)

// UpsertGoalInput creates or replaces the goal for a month.
// Month accepts "YYYY-MM" or a full date; any day normalizes to the 1st.
type UpsertGoalInput struct {
	Month             string          `json:"month" binding:"required"`
	RevenueTarget     decimal.Decimal `json:"revenue_target"`
	LaborPctTarget    decimal.Decimal `json:"labor_pct_target"`
	FoodCostPctTarget decimal.Decimal `json:"food_cost_pct_target"`
	ExpenseTarget     decimal.Decimal `json:"expense_target"`
	Notes             string          `json:"notes"`
}

// GoalInfo is the goal shape returned to clients
type GoalInfo struct {
	ID                uuid.UUID       `json:"id"`
	BusinessID        uuid.UUID       `json:"business_id"`
	Month             string          `json:"month"` // YYYY-MM
	RevenueTarget     decimal.Decimal `json:"revenue_target"`
	LaborPctTarget    decimal.Decimal `json:"labor_pct_target"`
	FoodCostPctTarget decimal.Decimal `json:"food_cost_pct_target"`
	ExpenseTarget     decimal.Decimal `json:"expense_target"`
	Notes             string          `json:"notes,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// DashboardResult is the monthly budget-vs-actual view
type DashboardResult struct {
	Month     string         `json:"month"` // YYYY-MM
	Goal      *GoalInfo      `json:"goal,omitempty"`
	Progress  goals.Progress `json:"progress"`
	EntryDays int            `json:"entry_days"` // days with a recorded daily entry
}

func toGoalInfo(g *goals.Goal) GoalInfo {
	return GoalInfo{
		ID:                g.ID,
		BusinessID:        g.BusinessID,
		Month:             g.Month.Format("2006-01"),
		RevenueTarget:     g.RevenueTarget,
		LaborPctTarget:    g.LaborPctTarget,
		FoodCostPctTarget: g.FoodCostPctTarget,
		ExpenseTarget:     g.ExpenseTarget,
		Notes:             g.Notes,
		CreatedAt:         g.CreatedAt,
		UpdatedAt:         g.UpdatedAt,
	}
}
