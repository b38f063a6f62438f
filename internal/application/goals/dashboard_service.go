package goals

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bizfin/backend/internal/domain/business"
	"github.com/bizfin/backend/internal/domain/daily"
	"github.com/bizfin/backend/internal/domain/goals"
	"github.com/bizfin/backend/internal/domain/ledger"
	"github.com/bizfin/backend/internal/domain/shared"
)

// DashboardService composes the monthly budget-vs-actual view. Actuals come
// from daily entries (revenue, labor, product usage) and the payments ledger
// (operating expenses by due date); pacing comes from the weekly schedule.
type DashboardService struct {
	goalRepo     goals.GoalRepository
	scheduleRepo business.ScheduleRepository
	entryRepo    daily.DailyEntryRepository
	paymentRepo  ledger.PaymentRepository
	logger       *zap.Logger
	now          func() time.Time
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	goalRepo goals.GoalRepository,
	scheduleRepo business.ScheduleRepository,
	entryRepo daily.DailyEntryRepository,
	paymentRepo ledger.PaymentRepository,
	logger *zap.Logger,
) *DashboardService {
	return &DashboardService{
		goalRepo:     goalRepo,
		scheduleRepo: scheduleRepo,
		entryRepo:    entryRepo,
		paymentRepo:  paymentRepo,
		logger:       logger,
		now:          time.Now,
	}
}

// GetDashboard builds the budget-vs-actual view for the month given as
// "YYYY-MM". A missing goal still yields actuals with zero targets.
func (s *DashboardService) GetDashboard(ctx context.Context, businessID uuid.UUID, monthValue string) (*DashboardResult, error) {
	month, err := ParseMonth(monthValue)
	if err != nil {
		return nil, err
	}

	goal, err := s.goalRepo.FindByMonth(ctx, businessID, month)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		s.logger.Error("Failed to load goal", zap.Error(err))
		return nil, err
	}

	totals, err := s.entryRepo.SumMonth(ctx, businessID, month)
	if err != nil {
		s.logger.Error("Failed to sum daily entries", zap.Error(err))
		return nil, err
	}

	expenses, err := s.paymentRepo.SumSplitsDueInMonth(ctx, businessID, month)
	if err != nil {
		s.logger.Error("Failed to sum ledger expenses", zap.Error(err))
		return nil, err
	}

	week, err := s.scheduleRepo.FindByBusiness(ctx, businessID)
	if err != nil {
		s.logger.Error("Failed to load schedule", zap.Error(err))
		return nil, err
	}

	openDaysInMonth := week.OpenDaysInMonth(month)
	openDaysElapsed := s.openDaysElapsed(week, month, openDaysInMonth)

	actuals := goals.MonthActuals{
		Revenue:   totals.Revenue,
		LaborCost: totals.LaborCost,
		FoodCost:  totals.UsageCost,
		Expenses:  expenses,
	}

	result := &DashboardResult{
		Month:     month.Format("2006-01"),
		Progress:  goals.ComputeProgress(goal, actuals, openDaysInMonth, openDaysElapsed),
		EntryDays: totals.EntryDays,
	}
	if goal != nil {
		info := toGoalInfo(goal)
		result.Goal = &info
	}

	return result, nil
}

// openDaysElapsed clamps pacing to the month: past months count in full,
// future months count zero, the current month counts through today.
func (s *DashboardService) openDaysElapsed(week business.WeekSchedule, month time.Time, openDaysInMonth int) int {
	now := s.now().UTC()
	currentMonth := goals.MonthOf(now)

	switch {
	case month.Before(currentMonth):
		return openDaysInMonth
	case month.After(currentMonth):
		return 0
	default:
		return week.OpenDaysElapsed(now)
	}
}
