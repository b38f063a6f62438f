package goals

import (
	"github.com/shopspring/decimal"
)

// MonthActuals are the figures recorded for a month, summed from daily
// entries (revenue, labor, product usage) and the payments ledger
// (operating expenses).
type MonthActuals struct {
	Revenue   decimal.Decimal
	LaborCost decimal.Decimal
	FoodCost  decimal.Decimal
	Expenses  decimal.Decimal
}

// AmountMetric compares a money target with its actual
type AmountMetric struct {
	Target        decimal.Decimal `json:"target"`
	Actual        decimal.Decimal `json:"actual"`
	AttainmentPct decimal.Decimal `json:"attainment_pct"`
	PacedTarget   decimal.Decimal `json:"paced_target"` // target prorated by elapsed open days
	PacePct       decimal.Decimal `json:"pace_pct"`     // actual vs paced target
}

// PercentMetric compares a cost-percent-of-revenue target with its actual.
// For these lower is better; DeviationPts is actual minus target.
type PercentMetric struct {
	TargetPct    decimal.Decimal `json:"target_pct"`
	ActualPct    decimal.Decimal `json:"actual_pct"`
	ActualAmount decimal.Decimal `json:"actual_amount"`
	DeviationPts decimal.Decimal `json:"deviation_pts"`
	OnTrack      bool            `json:"on_track"`
}

// Progress is the computed budget-vs-actual view for one month
type Progress struct {
	HasGoal         bool          `json:"has_goal"`
	Revenue         AmountMetric  `json:"revenue"`
	Labor           PercentMetric `json:"labor"`
	FoodCost        PercentMetric `json:"food_cost"`
	Expenses        AmountMetric  `json:"expenses"`
	OpenDaysInMonth int           `json:"open_days_in_month"`
	OpenDaysElapsed int           `json:"open_days_elapsed"`
}

// ComputeProgress evaluates a month's actuals against its goal. goal may be
// nil (no budget recorded); all targets then read as zero. openDaysInMonth
// and openDaysElapsed come from the business schedule and drive pacing.
func ComputeProgress(goal *Goal, actuals MonthActuals, openDaysInMonth, openDaysElapsed int) Progress {
	p := Progress{
		HasGoal:         goal != nil,
		OpenDaysInMonth: openDaysInMonth,
		OpenDaysElapsed: openDaysElapsed,
	}

	revenueTarget := decimal.Zero
	laborPct := decimal.Zero
	foodPct := decimal.Zero
	expenseTarget := decimal.Zero
	if goal != nil {
		revenueTarget = goal.RevenueTarget
		laborPct = goal.LaborPctTarget
		foodPct = goal.FoodCostPctTarget
		expenseTarget = goal.ExpenseTarget
	}

	p.Revenue = computeAmountMetric(revenueTarget, actuals.Revenue, openDaysInMonth, openDaysElapsed)
	p.Expenses = computeAmountMetric(expenseTarget, actuals.Expenses, openDaysInMonth, openDaysElapsed)
	p.Labor = computePercentMetric(laborPct, actuals.LaborCost, actuals.Revenue)
	p.FoodCost = computePercentMetric(foodPct, actuals.FoodCost, actuals.Revenue)

	return p
}

func computeAmountMetric(target, actual decimal.Decimal, daysInMonth, daysElapsed int) AmountMetric {
	m := AmountMetric{
		Target: target,
		Actual: actual,
	}

	if target.IsPositive() {
		m.AttainmentPct = actual.Div(target).Mul(hundred).Round(2)
	}

	if daysInMonth > 0 && target.IsPositive() {
		elapsed := decimal.NewFromInt(int64(daysElapsed))
		total := decimal.NewFromInt(int64(daysInMonth))
		m.PacedTarget = target.Mul(elapsed).Div(total).Round(2)
		if m.PacedTarget.IsPositive() {
			m.PacePct = actual.Div(m.PacedTarget).Mul(hundred).Round(2)
		}
	}

	return m
}

func computePercentMetric(targetPct, costActual, revenueActual decimal.Decimal) PercentMetric {
	m := PercentMetric{
		TargetPct:    targetPct,
		ActualAmount: costActual,
	}

	if revenueActual.IsPositive() {
		m.ActualPct = costActual.Div(revenueActual).Mul(hundred).Round(2)
	}
	m.DeviationPts = m.ActualPct.Sub(targetPct).Round(2)
	// Without a target there is nothing to be on track against
	m.OnTrack = targetPct.IsPositive() && m.ActualPct.LessThanOrEqual(targetPct)

	return m
}
