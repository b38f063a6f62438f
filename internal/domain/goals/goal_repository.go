package goals

import (
	"context"
	"time"

	"github.com/bizfin/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// GoalRepository defines the interface for goal persistence
type GoalRepository interface {
	// FindByID finds a goal by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Goal, error)

	// FindByIDForBusiness finds a goal by ID within a business
	FindByIDForBusiness(ctx context.Context, businessID, id uuid.UUID) (*Goal, error)

	// FindByMonth finds the goal for a (business, month), month normalized
	// to the first of the month
	FindByMonth(ctx context.Context, businessID uuid.UUID, month time.Time) (*Goal, error)

	// FindAllForBusiness finds all goals for a business
	FindAllForBusiness(ctx context.Context, businessID uuid.UUID, filter shared.Filter) ([]Goal, error)

	// ExistsByMonth checks whether a goal exists for a (business, month)
	ExistsByMonth(ctx context.Context, businessID uuid.UUID, month time.Time) (bool, error)

	// Save creates or updates a goal
	Save(ctx context.Context, goal *Goal) error

	// DeleteForBusiness deletes a goal within a business
	DeleteForBusiness(ctx context.Context, businessID, id uuid.UUID) error
}
