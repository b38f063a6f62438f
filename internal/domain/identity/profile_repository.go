package identity

import (
	"context"

	"github.com/google/uuid"
)

// ProfileRepository defines the interface for profile persistence
type ProfileRepository interface {
	// FindByID finds a profile by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Profile, error)

	// FindByEmail finds a profile by its (lowercased) email
	FindByEmail(ctx context.Context, email string) (*Profile, error)

	// ExistsByEmail checks whether a profile with the given email exists
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// Save creates or updates a profile
	Save(ctx context.Context, profile *Profile) error

	// Delete deletes a profile
	Delete(ctx context.Context, id uuid.UUID) error
}
