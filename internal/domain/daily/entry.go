package daily

import (
	"time"

	"github.com/bizfin/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RevenueLine is one income source's takings for a day
type RevenueLine struct {
	shared.BaseEntity
	BusinessID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	EntryID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	IncomeSourceID uuid.UUID       `gorm:"type:uuid;not null"`
	Amount         decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (RevenueLine) TableName() string {
	return "daily_entry_revenues"
}

// UsageLine is one managed product's usage for a day
type UsageLine struct {
	shared.BaseEntity
	BusinessID uuid.UUID       `gorm:"type:uuid;not null;index"`
	EntryID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID  uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity   decimal.Decimal `gorm:"type:decimal(12,3);not null;default:0"`
	Cost       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (UsageLine) TableName() string {
	return "daily_entry_usages"
}

// DailyEntry holds one business day's figures. There is exactly one
// entry per business per date; saving the same date again replaces the
// line items.
type DailyEntry struct {
	shared.BusinessAggregateRoot
	Date         time.Time       `gorm:"type:date;not null;uniqueIndex:idx_daily_entries_business_date,composite:business_id"`
	LaborCost    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	CustomerCnt  int             `gorm:"not null;default:0"`
	Notes        string          `gorm:"type:text"`
	RevenueLines []RevenueLine   `gorm:"foreignKey:EntryID;constraint:OnDelete:CASCADE"`
	UsageLines   []UsageLine     `gorm:"foreignKey:EntryID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (DailyEntry) TableName() string {
	return "daily_entries"
}

// NewDailyEntry creates an entry for the given calendar date. The time
// component is discarded.
func NewDailyEntry(businessID uuid.UUID, date time.Time) *DailyEntry {
	e := &DailyEntry{
		BusinessAggregateRoot: shared.NewBusinessAggregateRoot(businessID),
		Date:                  DateOf(date),
		LaborCost:             decimal.Zero,
	}

	e.AddDomainEvent(NewDailyEntryRecordedEvent(e))

	return e
}

// DateOf truncates t to a calendar date in UTC
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// SetRevenueLines replaces the entry's revenue lines. Amounts must be
// non-negative and each income source may appear at most once.
func (e *DailyEntry) SetRevenueLines(lines []RevenueLine) error {
	seen := make(map[uuid.UUID]bool, len(lines))
	for _, l := range lines {
		if l.IncomeSourceID == uuid.Nil {
			return shared.NewDomainError("INVALID_LINE", "Revenue line must reference an income source")
		}
		if l.Amount.IsNegative() {
			return shared.NewDomainError("INVALID_AMOUNT", "Revenue amount cannot be negative")
		}
		if seen[l.IncomeSourceID] {
			return shared.NewDomainError("DUPLICATE_SOURCE", "Income source appears more than once")
		}
		seen[l.IncomeSourceID] = true
	}

	replaced := make([]RevenueLine, len(lines))
	for i, l := range lines {
		replaced[i] = RevenueLine{
			BaseEntity:     shared.NewBaseEntity(),
			BusinessID:     e.BusinessID,
			EntryID:        e.ID,
			IncomeSourceID: l.IncomeSourceID,
			Amount:         l.Amount.Round(2),
		}
	}
	e.RevenueLines = replaced
	e.UpdatedAt = time.Now()
	e.IncrementVersion()
	return nil
}

// SetUsageLines replaces the entry's product usage lines. Cost is
// derived from quantity when the caller leaves it zero.
func (e *DailyEntry) SetUsageLines(lines []UsageLine, unitCosts map[uuid.UUID]decimal.Decimal) error {
	seen := make(map[uuid.UUID]bool, len(lines))
	for _, l := range lines {
		if l.ProductID == uuid.Nil {
			return shared.NewDomainError("INVALID_LINE", "Usage line must reference a product")
		}
		if l.Quantity.IsNegative() {
			return shared.NewDomainError("INVALID_QUANTITY", "Usage quantity cannot be negative")
		}
		if l.Cost.IsNegative() {
			return shared.NewDomainError("INVALID_AMOUNT", "Usage cost cannot be negative")
		}
		if seen[l.ProductID] {
			return shared.NewDomainError("DUPLICATE_PRODUCT", "Product appears more than once")
		}
		seen[l.ProductID] = true
	}

	replaced := make([]UsageLine, len(lines))
	for i, l := range lines {
		cost := l.Cost
		if cost.IsZero() {
			if unitCost, ok := unitCosts[l.ProductID]; ok {
				cost = l.Quantity.Mul(unitCost)
			}
		}
		replaced[i] = UsageLine{
			BaseEntity: shared.NewBaseEntity(),
			BusinessID: e.BusinessID,
			EntryID:    e.ID,
			ProductID:  l.ProductID,
			Quantity:   l.Quantity,
			Cost:       cost.Round(2),
		}
	}
	e.UsageLines = replaced
	e.UpdatedAt = time.Now()
	e.IncrementVersion()
	return nil
}

// SetLaborCost sets the day's labor cost
func (e *DailyEntry) SetLaborCost(cost decimal.Decimal) error {
	if cost.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Labor cost cannot be negative")
	}
	e.LaborCost = cost.Round(2)
	e.UpdatedAt = time.Now()
	e.IncrementVersion()
	return nil
}

// SetCustomerCount sets the number of customers served
func (e *DailyEntry) SetCustomerCount(count int) error {
	if count < 0 {
		return shared.NewDomainError("INVALID_COUNT", "Customer count cannot be negative")
	}
	e.CustomerCnt = count
	e.UpdatedAt = time.Now()
	e.IncrementVersion()
	return nil
}

// SetNotes sets free-text notes for the day
func (e *DailyEntry) SetNotes(notes string) {
	e.Notes = notes
	e.UpdatedAt = time.Now()
	e.IncrementVersion()
}

// TotalRevenue sums the revenue lines
func (e *DailyEntry) TotalRevenue() decimal.Decimal {
	total := decimal.Zero
	for _, l := range e.RevenueLines {
		total = total.Add(l.Amount)
	}
	return total
}

// TotalUsageCost sums the usage line costs
func (e *DailyEntry) TotalUsageCost() decimal.Decimal {
	total := decimal.Zero
	for _, l := range e.UsageLines {
		total = total.Add(l.Cost)
	}
	return total
}
