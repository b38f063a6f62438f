package business

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bizfin/backend/internal/domain/business"
)

// CreateBusinessInput is the payload for creating a business
type CreateBusinessInput struct {
	Name string `json:"name" binding:"required"`
	Type string `json:"type" binding:"required"`
}

// UpdateBusinessInput updates business details
type UpdateBusinessInput struct {
	Name  string `json:"name" binding:"required"`
	Type  string `json:"type" binding:"required"`
	Notes string `json:"notes"`
}

// UpdateSettingsInput updates VAT rate and currency
type UpdateSettingsInput struct {
	VATRate  *decimal.Decimal `json:"vat_rate"`
	Currency string           `json:"currency"`
}

// BusinessInfo is the business shape returned to clients
type BusinessInfo struct {
	ID        uuid.UUID       `json:"id"`
	OwnerID   uuid.UUID       `json:"owner_id"`
	Name      string          `json:"name"`
	Type      string          `json:"type"`
	Currency  string          `json:"currency"`
	VATRate   decimal.Decimal `json:"vat_rate"`
	Active    bool            `json:"active"`
	Notes     string          `json:"notes,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ScheduleDayInput sets the hours for one weekday
type ScheduleDayInput struct {
	Weekday   int    `json:"weekday" binding:"min=0,max=6"`
	Open      bool   `json:"open"`
	OpenTime  string `json:"open_time"`
	CloseTime string `json:"close_time"`
}

// UpsertScheduleInput replaces the weekly schedule
type UpsertScheduleInput struct {
	Days []ScheduleDayInput `json:"days" binding:"required"`
}

// ScheduleDayInfo is one weekday row returned to clients
type ScheduleDayInfo struct {
	ID        uuid.UUID `json:"id"`
	Weekday   int       `json:"weekday"`
	Open      bool      `json:"open"`
	OpenTime  string    `json:"open_time,omitempty"`
	CloseTime string    `json:"close_time,omitempty"`
}

func toBusinessInfo(b *business.Business) BusinessInfo {
	return BusinessInfo{
		ID:        b.ID,
		OwnerID:   b.OwnerID,
		Name:      b.Name,
		Type:      string(b.Type),
		Currency:  b.Currency,
		VATRate:   b.VATRate,
		Active:    b.Active,
		Notes:     b.Notes,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

func toScheduleDayInfo(d *business.ScheduleDay) ScheduleDayInfo {
	return ScheduleDayInfo{
		ID:        d.ID,
		Weekday:   d.Weekday,
		Open:      d.Open,
		OpenTime:  d.OpenTime,
		CloseTime: d.CloseTime,
	}
}
