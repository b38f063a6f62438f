package goals

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bizfin/backend/internal/domain/goals"
	"github.com/bizfin/backend/internal/domain/shared"
)

// GoalService manages monthly budget goals
type GoalService struct {
	goalRepo       goals.GoalRepository
	eventPublisher shared.EventPublisher
	changeNotifier shared.ChangeNotifier
	logger         *zap.Logger
}

// NewGoalService creates a new goal service
func NewGoalService(
	goalRepo goals.GoalRepository,
	eventPublisher shared.EventPublisher,
	changeNotifier shared.ChangeNotifier,
	logger *zap.Logger,
) *GoalService {
	return &GoalService{
		goalRepo:       goalRepo,
		eventPublisher: eventPublisher,
		changeNotifier: changeNotifier,
		logger:         logger,
	}
}

// ParseMonth accepts "2006-01" or "2006-01-02" and returns the first of
// that month in UTC
func ParseMonth(value string) (time.Time, error) {
	for _, layout := range []string{"2006-01", "2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return goals.MonthOf(t), nil
		}
	}
	return time.Time{}, shared.NewDomainError("INVALID_MONTH", "Month must be in YYYY-MM format")
}

// UpsertGoal creates the month's goal or replaces its targets
func (s *GoalService) UpsertGoal(ctx context.Context, businessID uuid.UUID, input UpsertGoalInput) (*GoalInfo, error) {
	month, err := ParseMonth(input.Month)
	if err != nil {
		return nil, err
	}

	existing, err := s.goalRepo.FindByMonth(ctx, businessID, month)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		s.logger.Error("Failed to load goal", zap.Error(err))
		return nil, err
	}

	var (
		goal   *goals.Goal
		action shared.ChangeAction
	)
	if existing != nil {
		if err := existing.Update(input.RevenueTarget, input.LaborPctTarget, input.FoodCostPctTarget, input.ExpenseTarget, input.Notes); err != nil {
			return nil, err
		}
		goal = existing
		action = shared.ChangeActionUpdate
	} else {
		goal, err = goals.NewGoal(businessID, month, input.RevenueTarget, input.LaborPctTarget, input.FoodCostPctTarget, input.ExpenseTarget)
		if err != nil {
			return nil, err
		}
		goal.Notes = input.Notes
		action = shared.ChangeActionInsert
	}

	if err := s.goalRepo.Save(ctx, goal); err != nil {
		s.logger.Error("Failed to save goal", zap.Error(err))
		return nil, shared.NewDomainError("GOAL_SAVE_FAILED", "Failed to save goal")
	}

	s.publishEvents(ctx, goal)
	s.notifyChange(ctx, businessID, goal.ID, action)

	s.logger.Info("Goal saved",
		zap.String("business_id", businessID.String()),
		zap.String("month", month.Format("2006-01")))

	info := toGoalInfo(goal)
	return &info, nil
}

// GetGoal returns the goal for a month, or nil when none is set
func (s *GoalService) GetGoal(ctx context.Context, businessID uuid.UUID, monthValue string) (*GoalInfo, error) {
	month, err := ParseMonth(monthValue)
	if err != nil {
		return nil, err
	}

	goal, err := s.goalRepo.FindByMonth(ctx, businessID, month)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil
		}
		s.logger.Error("Failed to load goal", zap.Error(err))
		return nil, err
	}

	info := toGoalInfo(goal)
	return &info, nil
}

// ListGoals returns all goals for a business
func (s *GoalService) ListGoals(ctx context.Context, businessID uuid.UUID, filter shared.Filter) ([]GoalInfo, error) {
	items, err := s.goalRepo.FindAllForBusiness(ctx, businessID, filter)
	if err != nil {
		s.logger.Error("Failed to list goals", zap.Error(err))
		return nil, err
	}

	infos := make([]GoalInfo, len(items))
	for i := range items {
		infos[i] = toGoalInfo(&items[i])
	}
	return infos, nil
}

// DeleteGoal removes a goal
func (s *GoalService) DeleteGoal(ctx context.Context, businessID, goalID uuid.UUID) error {
	if _, err := s.goalRepo.FindByIDForBusiness(ctx, businessID, goalID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("GOAL_NOT_FOUND", "Goal not found")
		}
		return err
	}

	if err := s.goalRepo.DeleteForBusiness(ctx, businessID, goalID); err != nil {
		s.logger.Error("Failed to delete goal", zap.Error(err))
		return shared.NewDomainError("GOAL_DELETE_FAILED", "Failed to delete goal")
	}

	s.notifyChange(ctx, businessID, goalID, shared.ChangeActionDelete)
	return nil
}

func (s *GoalService) publishEvents(ctx context.Context, goal *goals.Goal) {
	events := goal.GetDomainEvents()
	if len(events) == 0 || s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Error("Failed to publish goal events", zap.Error(err))
	}
	goal.ClearDomainEvents()
}

func (s *GoalService) notifyChange(ctx context.Context, businessID, rowID uuid.UUID, action shared.ChangeAction) {
	if s.changeNotifier == nil {
		return
	}
	err := s.changeNotifier.Publish(ctx, shared.ChangeEvent{
		Table:      goals.Goal{}.TableName(),
		Action:     action,
		BusinessID: businessID,
		RowID:      rowID,
	})
	if err != nil {
		s.logger.Warn("Failed to publish change event", zap.Error(err))
	}
}
