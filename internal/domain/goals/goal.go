package goals

import (
	"time"

	"github.com/bizfin/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Goal is the monthly budget target for a business: the revenue the owner
// aims for plus the cost ceilings measured against it. One goal exists per
// (business, month).
type Goal struct {
	shared.BusinessAggregateRoot
	Month             time.Time       `gorm:"type:date;not null;uniqueIndex:idx_goal_business_month,priority:2"` // first day of month
	RevenueTarget     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	LaborPctTarget    decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"` // labor cost as % of revenue
	FoodCostPctTarget decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"` // managed product usage as % of revenue
	ExpenseTarget     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Notes             string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Goal) TableName() string {
	return "goals"
}

// NewGoal creates a goal for the month containing the given date
func NewGoal(businessID uuid.UUID, month time.Time, revenueTarget, laborPct, foodCostPct, expenseTarget decimal.Decimal) (*Goal, error) {
	if err := validateTargets(revenueTarget, laborPct, foodCostPct, expenseTarget); err != nil {
		return nil, err
	}

	g := &Goal{
		BusinessAggregateRoot: shared.NewBusinessAggregateRoot(businessID),
		Month:                 MonthOf(month),
		RevenueTarget:         revenueTarget,
		LaborPctTarget:        laborPct,
		FoodCostPctTarget:     foodCostPct,
		ExpenseTarget:         expenseTarget,
	}

	g.AddDomainEvent(NewGoalCreatedEvent(g))

	return g, nil
}

// Update replaces the goal's targets
func (g *Goal) Update(revenueTarget, laborPct, foodCostPct, expenseTarget decimal.Decimal, notes string) error {
	if err := validateTargets(revenueTarget, laborPct, foodCostPct, expenseTarget); err != nil {
		return err
	}

	g.RevenueTarget = revenueTarget
	g.LaborPctTarget = laborPct
	g.FoodCostPctTarget = foodCostPct
	g.ExpenseTarget = expenseTarget
	g.Notes = notes
	g.UpdatedAt = time.Now()
	g.IncrementVersion()

	g.AddDomainEvent(NewGoalUpdatedEvent(g))

	return nil
}

// MonthOf normalizes a date to midnight UTC on the first of its month
func MonthOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func validateTargets(revenueTarget, laborPct, foodCostPct, expenseTarget decimal.Decimal) error {
	if revenueTarget.IsNegative() {
		return shared.NewDomainError("INVALID_TARGET", "Revenue target cannot be negative")
	}
	if expenseTarget.IsNegative() {
		return shared.NewDomainError("INVALID_TARGET", "Expense target cannot be negative")
	}
	if laborPct.IsNegative() || laborPct.GreaterThan(hundred) {
		return shared.NewDomainError("INVALID_TARGET", "Labor percent target must be between 0 and 100")
	}
	if foodCostPct.IsNegative() || foodCostPct.GreaterThan(hundred) {
		return shared.NewDomainError("INVALID_TARGET", "Food cost percent target must be between 0 and 100")
	}
	return nil
}
