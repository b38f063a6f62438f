package goals

import (
	"time"

	"github.com/bizfin/backend/internal/domain/shared"
)

// Event types for the goals context
const (
	EventTypeGoalCreated = "goals.goal.created"
	EventTypeGoalUpdated = "goals.goal.updated"
)

const aggregateTypeGoal = "Goal"

// GoalCreatedEvent is raised when a monthly goal is created
type GoalCreatedEvent struct {
	shared.BaseDomainEvent
	Month time.Time `json:"month"`
}

// NewGoalCreatedEvent creates a new GoalCreatedEvent
func NewGoalCreatedEvent(g *Goal) *GoalCreatedEvent {
	return &GoalCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeGoalCreated, aggregateTypeGoal, g.ID, g.BusinessID),
		Month:           g.Month,
	}
}

// GoalUpdatedEvent is raised when a goal's targets change
type GoalUpdatedEvent struct {
	shared.BaseDomainEvent
	Month time.Time `json:"month"`
}

// NewGoalUpdatedEvent creates a new GoalUpdatedEvent
func NewGoalUpdatedEvent(g *Goal) *GoalUpdatedEvent {
	return &GoalUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeGoalUpdated, aggregateTypeGoal, g.ID, g.BusinessID),
		Month:           g.Month,
	}
}
