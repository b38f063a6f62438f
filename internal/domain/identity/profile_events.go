package identity

import (
	"github.com/bizfin/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Event types for the identity context
const (
	EventTypeProfileCreated         = "identity.profile.created"
	EventTypeProfileUpdated         = "identity.profile.updated"
	EventTypeProfilePasswordChanged = "identity.profile.password_changed"
	EventTypeProfileLocked          = "identity.profile.locked"
)

const aggregateTypeProfile = "Profile"

// ProfileCreatedEvent is raised when a profile is registered
type ProfileCreatedEvent struct {
	shared.BaseDomainEvent
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}

// NewProfileCreatedEvent creates a new ProfileCreatedEvent
func NewProfileCreatedEvent(p *Profile) *ProfileCreatedEvent {
	return &ProfileCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProfileCreated, aggregateTypeProfile, p.ID, uuid.Nil),
		Email:           p.Email,
		DisplayName:     p.DisplayName,
	}
}

// ProfileUpdatedEvent is raised when profile details change
type ProfileUpdatedEvent struct {
	shared.BaseDomainEvent
	DisplayName string `json:"display_name"`
}

// NewProfileUpdatedEvent creates a new ProfileUpdatedEvent
func NewProfileUpdatedEvent(p *Profile) *ProfileUpdatedEvent {
	return &ProfileUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProfileUpdated, aggregateTypeProfile, p.ID, uuid.Nil),
		DisplayName:     p.DisplayName,
	}
}

// ProfilePasswordChangedEvent is raised when the password is replaced
type ProfilePasswordChangedEvent struct {
	shared.BaseDomainEvent
}

// NewProfilePasswordChangedEvent creates a new ProfilePasswordChangedEvent
func NewProfilePasswordChangedEvent(p *Profile) *ProfilePasswordChangedEvent {
	return &ProfilePasswordChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProfilePasswordChanged, aggregateTypeProfile, p.ID, uuid.Nil),
	}
}

// ProfileLockedEvent is raised when failed logins lock the profile
type ProfileLockedEvent struct {
	shared.BaseDomainEvent
	FailedAttempts int `json:"failed_attempts"`
}

// NewProfileLockedEvent creates a new ProfileLockedEvent
func NewProfileLockedEvent(p *Profile) *ProfileLockedEvent {
	return &ProfileLockedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProfileLocked, aggregateTypeProfile, p.ID, uuid.Nil),
		FailedAttempts:  p.FailedAttempts,
	}
}
