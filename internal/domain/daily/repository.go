package daily

import (
	"context"
	"time"

	"github.com/bizfin/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// IncomeSourceRepository persists income sources
type IncomeSourceRepository interface {
	FindByID(ctx context.Context, businessID, id uuid.UUID) (*IncomeSource, error)
	FindByBusiness(ctx context.Context, businessID uuid.UUID, activeOnly bool) ([]*IncomeSource, error)
	Save(ctx context.Context, source *IncomeSource) error
	Delete(ctx context.Context, businessID, id uuid.UUID) error
}

// ManagedProductRepository persists managed products
type ManagedProductRepository interface {
	FindByID(ctx context.Context, businessID, id uuid.UUID) (*ManagedProduct, error)
	FindByBusiness(ctx context.Context, businessID uuid.UUID, activeOnly bool) ([]*ManagedProduct, error)
	Save(ctx context.Context, product *ManagedProduct) error
	Delete(ctx context.Context, businessID, id uuid.UUID) error
}

// MonthTotals aggregates a month of daily entries for goal tracking
type MonthTotals struct {
	Revenue   decimal.Decimal
	LaborCost decimal.Decimal
	UsageCost decimal.Decimal
	EntryDays int
}

// DailyEntryRepository persists daily entries with their line items
type DailyEntryRepository interface {
	FindByID(ctx context.Context, businessID, id uuid.UUID) (*DailyEntry, error)
	FindByDate(ctx context.Context, businessID uuid.UUID, date time.Time) (*DailyEntry, error)
	FindByDateRange(ctx context.Context, businessID uuid.UUID, from, to time.Time) ([]*DailyEntry, error)
	List(ctx context.Context, businessID uuid.UUID, filter shared.Filter) (*shared.Paginated[*DailyEntry], error)
	// Save writes the entry and replaces its line items atomically.
	Save(ctx context.Context, entry *DailyEntry) error
	Delete(ctx context.Context, businessID, id uuid.UUID) error
	// SumMonth totals revenue, labor and usage cost for the entry's month.
	SumMonth(ctx context.Context, businessID uuid.UUID, month time.Time) (*MonthTotals, error)
}
