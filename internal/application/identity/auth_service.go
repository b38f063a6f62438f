package identity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bizfin/backend/internal/domain/identity"
	"github.com/bizfin/backend/internal/domain/shared"
	"github.com/bizfin/backend/internal/infrastructure/auth"
)

// AuthServiceConfig carries the lockout policy
type AuthServiceConfig struct {
	MaxLoginAttempts int
	LockDuration     time.Duration
}

// AuthService handles registration, authentication and session lifecycle
type AuthService struct {
	profileRepo    identity.ProfileRepository
	jwtService     *auth.JWTService
	blacklist      auth.TokenBlacklist
	eventPublisher shared.EventPublisher
	cfg            AuthServiceConfig
	logger         *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(
	profileRepo identity.ProfileRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	eventPublisher shared.EventPublisher,
	cfg AuthServiceConfig,
	logger *zap.Logger,
) *AuthService {
	if cfg.MaxLoginAttempts <= 0 {
		cfg.MaxLoginAttempts = 5
	}
	if cfg.LockDuration <= 0 {
		cfg.LockDuration = 15 * time.Minute
	}
	return &AuthService{
		profileRepo:    profileRepo,
		jwtService:     jwtService,
		blacklist:      blacklist,
		eventPublisher: eventPublisher,
		cfg:            cfg,
		logger:         logger,
	}
}

// Register creates a new profile
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*ProfileInfo, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	exists, err := s.profileRepo.ExistsByEmail(ctx, email)
	if err != nil {
		s.logger.Error("Failed to check email uniqueness", zap.Error(err))
		return nil, shared.NewDomainError("REGISTRATION_FAILED", "Failed to register")
	}
	if exists {
		return nil, shared.NewDomainError("EMAIL_TAKEN", "An account with this email already exists")
	}

	profile, err := identity.NewProfile(input.Email, input.Password, input.DisplayName)
	if err != nil {
		return nil, err
	}

	if err := s.profileRepo.Save(ctx, profile); err != nil {
		s.logger.Error("Failed to save profile", zap.Error(err))
		return nil, shared.NewDomainError("REGISTRATION_FAILED", "Failed to register")
	}

	s.publishEvents(ctx, profile)

	s.logger.Info("Profile registered",
		zap.String("profile_id", profile.ID.String()),
		zap.String("email", profile.Email))

	info := toProfileInfo(profile)
	return &info, nil
}

// Login authenticates a profile and returns a token pair
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	profile, err := s.profileRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			// Same error as a wrong password so emails cannot be probed
			return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
		}
		s.logger.Error("Failed to find profile by email", zap.Error(err))
		return nil, shared.NewDomainError("LOGIN_FAILED", "Failed to process login")
	}

	if profile.IsLocked() {
		s.logger.Warn("Login attempt on locked profile",
			zap.String("profile_id", profile.ID.String()))
		return nil, shared.NewDomainError("ACCOUNT_LOCKED", "Account is temporarily locked due to failed login attempts")
	}
	if profile.IsDeactivated() {
		return nil, shared.NewDomainError("ACCOUNT_DEACTIVATED", "Account has been deactivated")
	}

	if !profile.VerifyPassword(input.Password) {
		locked := profile.RecordLoginFailure(s.cfg.MaxLoginAttempts, s.cfg.LockDuration)
		if err := s.profileRepo.Save(ctx, profile); err != nil {
			s.logger.Error("Failed to record login failure", zap.Error(err))
		}
		s.publishEvents(ctx, profile)
		if locked {
			s.logger.Warn("Profile locked after repeated failures",
				zap.String("profile_id", profile.ID.String()),
				zap.Int("attempts", profile.FailedAttempts))
			return nil, shared.NewDomainError("ACCOUNT_LOCKED", "Account is temporarily locked due to failed login attempts")
		}
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	}

	businessID := uuid.Nil
	if profile.DefaultBusinessID != nil {
		businessID = *profile.DefaultBusinessID
	}

	tokenPair, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		UserID:     profile.ID,
		Email:      profile.Email,
		BusinessID: businessID,
	})
	if err != nil {
		s.logger.Error("Failed to generate token pair", zap.Error(err))
		return nil, shared.NewDomainError("LOGIN_FAILED", "Failed to process login")
	}

	profile.RecordLoginSuccess(input.IP)
	if err := s.profileRepo.Save(ctx, profile); err != nil {
		s.logger.Error("Failed to record login success", zap.Error(err))
	}

	s.logger.Info("Profile logged in",
		zap.String("profile_id", profile.ID.String()),
		zap.String("ip", input.IP))

	return &LoginResult{
		AccessToken:           tokenPair.AccessToken,
		RefreshToken:          tokenPair.RefreshToken,
		AccessTokenExpiresAt:  tokenPair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: tokenPair.RefreshTokenExpiresAt,
		TokenType:             tokenPair.TokenType,
		Profile:               toProfileInfo(profile),
	}, nil
}

// RefreshToken exchanges a refresh token for a new token pair
func (s *AuthService) RefreshToken(ctx context.Context, input RefreshTokenInput) (*RefreshTokenResult, error) {
	claims, err := s.jwtService.ValidateRefreshToken(input.RefreshToken)
	if err != nil {
		return nil, mapTokenError(err)
	}

	if blacklisted, berr := s.blacklist.IsBlacklisted(ctx, claims.ID); berr != nil {
		s.logger.Error("Failed to check token blacklist", zap.Error(berr))
		return nil, shared.NewDomainError("REFRESH_FAILED", "Failed to refresh token")
	} else if blacklisted {
		return nil, shared.NewDomainError("TOKEN_REVOKED", "Token has been revoked")
	}

	userID, err := claims.GetUserUUID()
	if err != nil {
		return nil, shared.NewDomainError("TOKEN_INVALID", "Invalid token")
	}

	if claims.IssuedAt != nil {
		invalidated, ierr := s.blacklist.IsUserTokenInvalidated(ctx, claims.UserID, claims.IssuedAt.Time)
		if ierr != nil {
			s.logger.Error("Failed to check user token invalidation", zap.Error(ierr))
			return nil, shared.NewDomainError("REFRESH_FAILED", "Failed to refresh token")
		}
		if invalidated {
			return nil, shared.NewDomainError("TOKEN_REVOKED", "Token has been revoked")
		}
	}

	// Reload the profile so a deactivation or lock cuts existing sessions off
	profile, err := s.profileRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("TOKEN_INVALID", "Invalid token")
		}
		s.logger.Error("Failed to load profile for refresh", zap.Error(err))
		return nil, shared.NewDomainError("REFRESH_FAILED", "Failed to refresh token")
	}
	if !profile.CanLogin() {
		return nil, shared.NewDomainError("ACCOUNT_DEACTIVATED", "Account is not allowed to sign in")
	}

	businessID := uuid.Nil
	if profile.DefaultBusinessID != nil {
		businessID = *profile.DefaultBusinessID
	}

	tokenPair, err := s.jwtService.RefreshTokenPair(input.RefreshToken, profile.Email, businessID)
	if err != nil {
		return nil, mapTokenError(err)
	}

	s.logger.Debug("Token pair refreshed", zap.String("profile_id", profile.ID.String()))

	return &RefreshTokenResult{
		AccessToken:           tokenPair.AccessToken,
		RefreshToken:          tokenPair.RefreshToken,
		AccessTokenExpiresAt:  tokenPair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: tokenPair.RefreshTokenExpiresAt,
		TokenType:             tokenPair.TokenType,
	}, nil
}

// Logout revokes the presented token. With AllSessions set, every token
// issued to the user before now is revoked as well.
func (s *AuthService) Logout(ctx context.Context, input LogoutInput) error {
	if input.JTI != "" && input.TokenTTL > 0 {
		if err := s.blacklist.AddToBlacklist(ctx, input.JTI, input.TokenTTL); err != nil {
			s.logger.Error("Failed to blacklist token", zap.Error(err))
			return shared.NewDomainError("LOGOUT_FAILED", "Failed to log out")
		}
	}

	if input.AllSessions {
		ttl := s.jwtService.GetRefreshTokenExpiration()
		if err := s.blacklist.AddUserTokensToBlacklist(ctx, input.UserID.String(), ttl); err != nil {
			s.logger.Error("Failed to invalidate user tokens", zap.Error(err))
			return shared.NewDomainError("LOGOUT_FAILED", "Failed to log out")
		}
	}

	s.logger.Info("Profile logged out",
		zap.String("profile_id", input.UserID.String()),
		zap.Bool("all_sessions", input.AllSessions))

	return nil
}

// GetCurrentUser returns the profile behind the authenticated session
func (s *AuthService) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*ProfileInfo, error) {
	profile, err := s.profileRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("PROFILE_NOT_FOUND", "Profile not found")
		}
		s.logger.Error("Failed to load profile", zap.Error(err))
		return nil, err
	}

	info := toProfileInfo(profile)
	return &info, nil
}

func (s *AuthService) publishEvents(ctx context.Context, profile *identity.Profile) {
	events := profile.GetDomainEvents()
	if len(events) == 0 || s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Error("Failed to publish profile events", zap.Error(err))
	}
	profile.ClearDomainEvents()
}

func mapTokenError(err error) error {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return shared.NewDomainError("TOKEN_EXPIRED", "Token has expired")
	case errors.Is(err, auth.ErrMaxRefreshExceeded):
		return shared.NewDomainError("TOKEN_MAX_REFRESH", "Session has expired, please sign in again")
	case errors.Is(err, auth.ErrTokenBlacklisted):
		return shared.NewDomainError("TOKEN_REVOKED", "Token has been revoked")
	default:
		return shared.NewDomainError("TOKEN_INVALID", "Invalid token")
	}
}

func toProfileInfo(p *identity.Profile) ProfileInfo {
	return ProfileInfo{
		ID:                p.ID,
		Email:             p.Email,
		DisplayName:       p.DisplayName,
		Phone:             p.Phone,
		AvatarURL:         p.AvatarURL,
		DefaultBusinessID: p.DefaultBusinessID,
		LastLoginAt:       p.LastLoginAt,
		CreatedAt:         p.CreatedAt,
	}
}
