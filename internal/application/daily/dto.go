package daily

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bizfin/backend/internal/domain/daily"
)

// CreateIncomeSourceInput adds a revenue channel to the collection form
type CreateIncomeSourceInput struct {
	Name      string `json:"name" binding:"required"`
	SortOrder int    `json:"sort_order"`
}

// UpdateIncomeSourceInput renames or reorders a channel
type UpdateIncomeSourceInput struct {
	Name      string `json:"name" binding:"required"`
	SortOrder int    `json:"sort_order"`
}

// IncomeSourceInfo is the channel shape returned to clients
type IncomeSourceInfo struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	SortOrder int       `json:"sort_order"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateManagedProductInput adds a tracked product to the collection form
type CreateManagedProductInput struct {
	Name      string          `json:"name" binding:"required"`
	Category  string          `json:"category" binding:"required"`
	Unit      string          `json:"unit"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	SortOrder int             `json:"sort_order"`
}

// UpdateManagedProductInput edits a tracked product
type UpdateManagedProductInput struct {
	Name      string          `json:"name" binding:"required"`
	Category  string          `json:"category" binding:"required"`
	Unit      string          `json:"unit"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	SortOrder int             `json:"sort_order"`
}

// ManagedProductInfo is the product shape returned to clients
type ManagedProductInfo struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Unit      string          `json:"unit"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	SortOrder int             `json:"sort_order"`
	Active    bool            `json:"active"`
	CreatedAt time.Time       `json:"created_at"`
}

// RevenueLineInput is one channel's takings in an entry submission
type RevenueLineInput struct {
	IncomeSourceID uuid.UUID       `json:"income_source_id" binding:"required"`
	Amount         decimal.Decimal `json:"amount"`
}

// UsageLineInput is one product's usage in an entry submission.
// A zero Cost derives it from the product's unit cost.
type UsageLineInput struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity"`
	Cost      decimal.Decimal `json:"cost"`
}

// UpsertEntryInput records or replaces one day's figures
type UpsertEntryInput struct {
	Date          time.Time          `json:"date" binding:"required"`
	LaborCost     decimal.Decimal    `json:"labor_cost"`
	CustomerCount int                `json:"customer_count"`
	Notes         string             `json:"notes"`
	RevenueLines  []RevenueLineInput `json:"revenue_lines"`
	UsageLines    []UsageLineInput   `json:"usage_lines"`
}

// RevenueLineInfo is one channel's takings returned to clients
type RevenueLineInfo struct {
	ID             uuid.UUID       `json:"id"`
	IncomeSourceID uuid.UUID       `json:"income_source_id"`
	Amount         decimal.Decimal `json:"amount"`
}

// UsageLineInfo is one product's usage returned to clients
type UsageLineInfo struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	Cost      decimal.Decimal `json:"cost"`
}

// EntryInfo is one day's figures returned to clients
type EntryInfo struct {
	ID             uuid.UUID         `json:"id"`
	BusinessID     uuid.UUID         `json:"business_id"`
	Date           time.Time         `json:"date"`
	LaborCost      decimal.Decimal   `json:"labor_cost"`
	CustomerCount  int               `json:"customer_count"`
	Notes          string            `json:"notes,omitempty"`
	RevenueLines   []RevenueLineInfo `json:"revenue_lines"`
	UsageLines     []UsageLineInfo   `json:"usage_lines"`
	TotalRevenue   decimal.Decimal   `json:"total_revenue"`
	TotalUsageCost decimal.Decimal   `json:"total_usage_cost"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

func toIncomeSourceInfo(s *daily.IncomeSource) IncomeSourceInfo {
	return IncomeSourceInfo{
		ID:        s.ID,
		Name:      s.Name,
		SortOrder: s.SortOrder,
		Active:    s.Active,
		CreatedAt: s.CreatedAt,
	}
}

func toManagedProductInfo(p *daily.ManagedProduct) ManagedProductInfo {
	return ManagedProductInfo{
		ID:        p.ID,
		Name:      p.Name,
		Category:  string(p.Category),
		Unit:      p.Unit,
		UnitCost:  p.UnitCost,
		SortOrder: p.SortOrder,
		Active:    p.Active,
		CreatedAt: p.CreatedAt,
	}
}

func toEntryInfo(e *daily.DailyEntry) EntryInfo {
	info := EntryInfo{
		ID:             e.ID,
		BusinessID:     e.BusinessID,
		Date:           e.Date,
		LaborCost:      e.LaborCost,
		CustomerCount:  e.CustomerCnt,
		Notes:          e.Notes,
		TotalRevenue:   e.TotalRevenue(),
		TotalUsageCost: e.TotalUsageCost(),
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
	for _, l := range e.RevenueLines {
		info.RevenueLines = append(info.RevenueLines, RevenueLineInfo{
			ID:             l.ID,
			IncomeSourceID: l.IncomeSourceID,
			Amount:         l.Amount,
		})
	}
	for _, l := range e.UsageLines {
		info.UsageLines = append(info.UsageLines, UsageLineInfo{
			ID:        l.ID,
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			Cost:      l.Cost,
		})
	}
	return info
}
