package identity

import (
	"time"

	"github.com/google/uuid"
)

// RegisterInput is the payload for account registration
type RegisterInput struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	DisplayName string `json:"display_name"`
}

// LoginInput is the payload for authentication
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	IP       string `json:"-"`
}

// RefreshTokenInput carries the refresh token
type RefreshTokenInput struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// LogoutInput identifies the session being terminated
type LogoutInput struct {
	UserID      uuid.UUID
	JTI         string
	TokenTTL    time.Duration
	AllSessions bool
}

// ProfileInfo is the profile shape returned to clients
type ProfileInfo struct {
	ID                uuid.UUID  `json:"id"`
	Email             string     `json:"email"`
	DisplayName       string     `json:"display_name"`
	Phone             string     `json:"phone,omitempty"`
	AvatarURL         string     `json:"avatar_url,omitempty"`
	DefaultBusinessID *uuid.UUID `json:"default_business_id,omitempty"`
	LastLoginAt       *time.Time `json:"last_login_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

// LoginResult is returned on successful authentication
type LoginResult struct {
	AccessToken           string      `json:"access_token"`
	RefreshToken          string      `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time   `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time   `json:"refresh_token_expires_at"`
	TokenType             string      `json:"token_type"`
	Profile               ProfileInfo `json:"profile"`
}

// RefreshTokenResult is returned after a token refresh
type RefreshTokenResult struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
}

// UpdateProfileInput updates the caller's own profile
type UpdateProfileInput struct {
	DisplayName string `json:"display_name"`
	Phone       string `json:"phone"`
	AvatarURL   string `json:"avatar_url"`
}

// ChangePasswordInput changes the caller's password
type ChangePasswordInput struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

// SetDefaultBusinessInput selects the business opened after login
type SetDefaultBusinessInput struct {
	BusinessID uuid.UUID `json:"business_id" binding:"required"`
}
