package business

import (
	"context"

	"github.com/bizfin/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// BusinessRepository defines the interface for business persistence
type BusinessRepository interface {
	// FindByID finds a business by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Business, error)

	// FindByOwner finds all businesses owned by a profile
	FindByOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]Business, error)

	// Save creates or updates a business
	Save(ctx context.Context, b *Business) error

	// Delete deletes a business
	Delete(ctx context.Context, id uuid.UUID) error
}

// ScheduleRepository defines the interface for weekly schedule persistence
type ScheduleRepository interface {
	// FindByBusiness returns all schedule rows for a business ordered by weekday
	FindByBusiness(ctx context.Context, businessID uuid.UUID) (WeekSchedule, error)

	// FindByWeekday returns the schedule row for one weekday, if set
	FindByWeekday(ctx context.Context, businessID uuid.UUID, weekday int) (*ScheduleDay, error)

	// Save creates or updates a schedule row
	Save(ctx context.Context, day *ScheduleDay) error

	// Delete deletes a schedule row
	Delete(ctx context.Context, id uuid.UUID) error
}
