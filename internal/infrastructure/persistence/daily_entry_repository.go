package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/bizfin/backend/internal/domain/daily"
	"github.com/bizfin/backend/internal/domain/shared"
)

// GormDailyEntryRepository implements daily.DailyEntryRepository using GORM.
// Line items are replaced wholesale on every save so the stored rows
// always mirror the aggregate.
type GormDailyEntryRepository struct {
	db *gorm.DB
}

// NewGormDailyEntryRepository creates a new daily entry repository
func NewGormDailyEntryRepository(db *gorm.DB) *GormDailyEntryRepository {
	return &GormDailyEntryRepository{db: db}
}

// FindByID finds an entry by ID within a business, with its lines
func (r *GormDailyEntryRepository) FindByID(ctx context.Context, businessID, id uuid.UUID) (*daily.DailyEntry, error) {
	var entry daily.DailyEntry
	err := r.db.WithContext(ctx).
		Preload("RevenueLines").
		Preload("UsageLines").
		Where("business_id = ? AND id = ?", businessID, id).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// FindByDate finds the entry for a calendar date within a business
func (r *GormDailyEntryRepository) FindByDate(ctx context.Context, businessID uuid.UUID, date time.Time) (*daily.DailyEntry, error) {
	var entry daily.DailyEntry
	err := r.db.WithContext(ctx).
		Preload("RevenueLines").
		Preload("UsageLines").
		Where("business_id = ? AND date = ?", businessID, daily.DateOf(date)).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// FindByDateRange returns entries with dates in [from, to], newest first
func (r *GormDailyEntryRepository) FindByDateRange(ctx context.Context, businessID uuid.UUID, from, to time.Time) ([]*daily.DailyEntry, error) {
	var entries []*daily.DailyEntry
	err := r.db.WithContext(ctx).
		Preload("RevenueLines").
		Preload("UsageLines").
		Where("business_id = ? AND date >= ? AND date <= ?", businessID, daily.DateOf(from), daily.DateOf(to)).
		Order("date DESC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// List returns a page of entries for a business
func (r *GormDailyEntryRepository) List(ctx context.Context, businessID uuid.UUID, filter shared.Filter) (*shared.Paginated[*daily.DailyEntry], error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&daily.DailyEntry{}).
		Where("business_id = ?", businessID).
		Count(&total).Error
	if err != nil {
		return nil, err
	}

	query := r.db.WithContext(ctx).
		Preload("RevenueLines").
		Preload("UsageLines").
		Where("business_id = ?", businessID)
	query, err = applyFilter(query, filter, DailyEntrySortFields, "date DESC")
	if err != nil {
		return nil, err
	}

	var entries []*daily.DailyEntry
	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 20
	}
	result := shared.NewPaginated(entries, total, page, pageSize)
	return &result, nil
}

// Save writes the entry and replaces its line items atomically
func (r *GormDailyEntryRepository) Save(ctx context.Context, entry *daily.DailyEntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("RevenueLines", "UsageLines").Save(entry).Error; err != nil {
			return err
		}
		if err := tx.Where("entry_id = ?", entry.ID).Delete(&daily.RevenueLine{}).Error; err != nil {
			return err
		}
		if err := tx.Where("entry_id = ?", entry.ID).Delete(&daily.UsageLine{}).Error; err != nil {
			return err
		}
		if len(entry.RevenueLines) > 0 {
			if err := tx.Create(&entry.RevenueLines).Error; err != nil {
				return err
			}
		}
		if len(entry.UsageLines) > 0 {
			if err := tx.Create(&entry.UsageLines).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete deletes an entry and its lines within a business
func (r *GormDailyEntryRepository) Delete(ctx context.Context, businessID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("business_id = ? AND entry_id = ?", businessID, id).
			Delete(&daily.RevenueLine{}).Error; err != nil {
			return err
		}
		if err := tx.Where("business_id = ? AND entry_id = ?", businessID, id).
			Delete(&daily.UsageLine{}).Error; err != nil {
			return err
		}

		result := tx.Where("business_id = ? AND id = ?", businessID, id).Delete(&daily.DailyEntry{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// SumMonth totals revenue, labor and usage cost for the month containing
// the given date
func (r *GormDailyEntryRepository) SumMonth(ctx context.Context, businessID uuid.UUID, month time.Time) (*daily.MonthTotals, error) {
	from := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	entries, err := r.FindByDateRange(ctx, businessID, from, to.AddDate(0, 0, -1))
	if err != nil {
		return nil, err
	}

	totals := &daily.MonthTotals{
		Revenue:   decimal.Zero,
		LaborCost: decimal.Zero,
		UsageCost: decimal.Zero,
		EntryDays: len(entries),
	}
	for _, entry := range entries {
		totals.Revenue = totals.Revenue.Add(entry.TotalRevenue())
		totals.LaborCost = totals.LaborCost.Add(entry.LaborCost)
		totals.UsageCost = totals.UsageCost.Add(entry.TotalUsageCost())
	}
	return totals, nil
}
