package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/bizfin/backend/internal/domain/shared"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// ProfileStatus represents the status of a profile
type ProfileStatus string

const (
	ProfileStatusActive      ProfileStatus = "active"
	ProfileStatusLocked      ProfileStatus = "locked"      // Locked due to failed attempts
	ProfileStatusDeactivated ProfileStatus = "deactivated" // Manually deactivated
)

// Password cost for bcrypt
const bcryptCost = 12

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Profile represents a user account. Login is by email; a profile may own
// several businesses and carries the one selected by default in the UI.
type Profile struct {
	shared.BaseAggregateRoot
	Email             string        `gorm:"type:varchar(200);not null;uniqueIndex"`
	PasswordHash      string        `gorm:"type:varchar(200);not null"`
	DisplayName       string        `gorm:"type:varchar(200)"`
	Phone             string        `gorm:"type:varchar(50)"`
	AvatarURL         string        `gorm:"type:varchar(500)"`
	Status            ProfileStatus `gorm:"type:varchar(20);not null;default:'active'"`
	DefaultBusinessID *uuid.UUID    `gorm:"type:uuid"`
	LastLoginAt       *time.Time
	LastLoginIP       string `gorm:"type:varchar(45)"`
	FailedAttempts    int    `gorm:"not null;default:0"`
	LockedUntil       *time.Time
	PasswordChangedAt *time.Time
}

// TableName returns the table name for GORM
func (Profile) TableName() string {
	return "profiles"
}

// NewProfile creates a new active profile
func NewProfile(email, password, displayName string) (*Profile, error) {
	if err := validateProfileEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	if displayName != "" && len(displayName) > 200 {
		return nil, shared.NewDomainError("INVALID_DISPLAY_NAME", "Display name cannot exceed 200 characters")
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	now := time.Now()
	profile := &Profile{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Email:             strings.ToLower(strings.TrimSpace(email)),
		PasswordHash:      hash,
		DisplayName:       strings.TrimSpace(displayName),
		Status:            ProfileStatusActive,
		PasswordChangedAt: &now,
	}

	profile.AddDomainEvent(NewProfileCreatedEvent(profile))

	return profile, nil
}

// VerifyPassword checks the given password against the stored hash
func (p *Profile) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(password)) == nil
}

// ChangePassword replaces the password after verifying the current one
func (p *Profile) ChangePassword(current, next string) error {
	if !p.VerifyPassword(current) {
		return shared.NewDomainError("INVALID_CREDENTIALS", "Current password is incorrect")
	}
	if err := validatePassword(next); err != nil {
		return err
	}

	hash, err := hashPassword(next)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	now := time.Now()
	p.PasswordHash = hash
	p.PasswordChangedAt = &now
	p.UpdatedAt = now
	p.IncrementVersion()

	p.AddDomainEvent(NewProfilePasswordChangedEvent(p))

	return nil
}

// UpdateDetails updates display name, phone and avatar
func (p *Profile) UpdateDetails(displayName, phone, avatarURL string) error {
	if displayName != "" && len(displayName) > 200 {
		return shared.NewDomainError("INVALID_DISPLAY_NAME", "Display name cannot exceed 200 characters")
	}
	if phone != "" && len(phone) > 50 {
		return shared.NewDomainError("INVALID_PHONE", "Phone cannot exceed 50 characters")
	}
	if avatarURL != "" && len(avatarURL) > 500 {
		return shared.NewDomainError("INVALID_AVATAR", "Avatar URL cannot exceed 500 characters")
	}

	p.DisplayName = strings.TrimSpace(displayName)
	p.Phone = strings.TrimSpace(phone)
	p.AvatarURL = avatarURL
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProfileUpdatedEvent(p))

	return nil
}

// SetDefaultBusiness records the business opened by default after login
func (p *Profile) SetDefaultBusiness(businessID uuid.UUID) {
	p.DefaultBusinessID = &businessID
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// RecordLoginSuccess resets failure tracking and stores the login time/IP
func (p *Profile) RecordLoginSuccess(ip string) {
	now := time.Now()
	p.LastLoginAt = &now
	p.LastLoginIP = ip
	p.FailedAttempts = 0
	p.LockedUntil = nil
	if p.Status == ProfileStatusLocked {
		p.Status = ProfileStatusActive
	}
	p.UpdatedAt = now
	p.IncrementVersion()
}

// RecordLoginFailure increments the failure counter and locks the profile
// once maxAttempts is reached. Returns true if the profile became locked.
func (p *Profile) RecordLoginFailure(maxAttempts int, lockDuration time.Duration) bool {
	p.FailedAttempts++
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	if p.FailedAttempts >= maxAttempts {
		until := time.Now().Add(lockDuration)
		p.Status = ProfileStatusLocked
		p.LockedUntil = &until
		p.AddDomainEvent(NewProfileLockedEvent(p))
		return true
	}
	return false
}

// Deactivate manually disables the profile
func (p *Profile) Deactivate() error {
	if p.Status == ProfileStatusDeactivated {
		return shared.NewDomainError("ALREADY_DEACTIVATED", "Profile is already deactivated")
	}
	p.Status = ProfileStatusDeactivated
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// IsLocked reports whether the profile is currently locked out
func (p *Profile) IsLocked() bool {
	if p.Status != ProfileStatusLocked {
		return false
	}
	// Lock expires on its own once the interval passes
	if p.LockedUntil != nil && time.Now().After(*p.LockedUntil) {
		return false
	}
	return true
}

// IsDeactivated reports whether the profile has been disabled
func (p *Profile) IsDeactivated() bool {
	return p.Status == ProfileStatusDeactivated
}

// CanLogin reports whether the profile is allowed to authenticate
func (p *Profile) CanLogin() bool {
	return !p.IsLocked() && !p.IsDeactivated()
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func validateProfileEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Email format is invalid")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	if len(password) > 72 {
		// bcrypt input limit
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 72 characters")
	}
	return nil
}
