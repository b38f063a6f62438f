package daily

import (
	"github.com/bizfin/backend/internal/domain/shared"
)

const (
	EventTypeIncomeSourceCreated   = "daily.income_source.created"
	EventTypeManagedProductCreated = "daily.managed_product.created"
	EventTypeDailyEntryRecorded    = "daily.entry.recorded"
	EventTypeDailyEntryUpdated     = "daily.entry.updated"
)

// IncomeSourceCreatedEvent is raised when an income source is created
type IncomeSourceCreatedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

// NewIncomeSourceCreatedEvent creates a new income source created event
func NewIncomeSourceCreatedEvent(s *IncomeSource) *IncomeSourceCreatedEvent {
	return &IncomeSourceCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeIncomeSourceCreated, "IncomeSource", s.ID, s.BusinessID),
		Name:            s.Name,
	}
}

// ManagedProductCreatedEvent is raised when a managed product is created
type ManagedProductCreatedEvent struct {
	shared.BaseDomainEvent
	Name     string `json:"name"`
	Category string `json:"category"`
}

// NewManagedProductCreatedEvent creates a new managed product created event
func NewManagedProductCreatedEvent(p *ManagedProduct) *ManagedProductCreatedEvent {
	return &ManagedProductCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeManagedProductCreated, "ManagedProduct", p.ID, p.BusinessID),
		Name:            p.Name,
		Category:        string(p.Category),
	}
}

// DailyEntryRecordedEvent is raised when a daily entry is first recorded
type DailyEntryRecordedEvent struct {
	shared.BaseDomainEvent
	Date string `json:"date"`
}

// NewDailyEntryRecordedEvent creates a new daily entry recorded event
func NewDailyEntryRecordedEvent(e *DailyEntry) *DailyEntryRecordedEvent {
	return &DailyEntryRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDailyEntryRecorded, "DailyEntry", e.ID, e.BusinessID),
		Date:            e.Date.Format("2006-01-02"),
	}
}

// DailyEntryUpdatedEvent is raised when an existing entry is replaced
type DailyEntryUpdatedEvent struct {
	shared.BaseDomainEvent
	Date string `json:"date"`
}

// NewDailyEntryUpdatedEvent creates a new daily entry updated event
func NewDailyEntryUpdatedEvent(e *DailyEntry) *DailyEntryUpdatedEvent {
	return &DailyEntryUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDailyEntryUpdated, "DailyEntry", e.ID, e.BusinessID),
		Date:            e.Date.Format("2006-01-02"),
	}
}
