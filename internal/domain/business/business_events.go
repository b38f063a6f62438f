package business

import (
	"github.com/bizfin/backend/internal/domain/shared"
)

// Event types for the business context
const (
	EventTypeBusinessCreated = "business.created"
	EventTypeBusinessUpdated = "business.updated"
)

const aggregateTypeBusiness = "Business"

// BusinessCreatedEvent is raised when a business is created
type BusinessCreatedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
	Type string `json:"business_type"`
}

// NewBusinessCreatedEvent creates a new BusinessCreatedEvent
func NewBusinessCreatedEvent(b *Business) *BusinessCreatedEvent {
	return &BusinessCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBusinessCreated, aggregateTypeBusiness, b.ID, b.ID),
		Name:            b.Name,
		Type:            string(b.Type),
	}
}

// BusinessUpdatedEvent is raised when business details change
type BusinessUpdatedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

// NewBusinessUpdatedEvent creates a new BusinessUpdatedEvent
func NewBusinessUpdatedEvent(b *Business) *BusinessUpdatedEvent {
	return &BusinessUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBusinessUpdated, aggregateTypeBusiness, b.ID, b.ID),
		Name:            b.Name,
	}
}
