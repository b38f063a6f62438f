package identity

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bizfin/backend/internal/domain/identity"
	"github.com/bizfin/backend/internal/domain/shared"
	"github.com/bizfin/backend/internal/infrastructure/auth"
	"github.com/bizfin/backend/internal/infrastructure/config"
)

type memoryProfileRepo struct {
	mu       sync.Mutex
	profiles map[uuid.UUID]*identity.Profile
}

func newMemoryProfileRepo() *memoryProfileRepo {
	return &memoryProfileRepo{profiles: make(map[uuid.UUID]*identity.Profile)}
}

func (r *memoryProfileRepo) FindByID(_ context.Context, id uuid.UUID) (*identity.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return p, nil
}

func (r *memoryProfileRepo) FindByEmail(_ context.Context, email string) (*identity.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.profiles {
		if p.Email == strings.ToLower(email) {
			return p, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memoryProfileRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.FindByEmail(ctx, email)
	if err != nil {
		return false, nil
	}
	return true, nil
}

func (r *memoryProfileRepo) Save(_ context.Context, profile *identity.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[profile.ID] = profile
	return nil
}

func (r *memoryProfileRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.profiles, id)
	return nil
}

func newTestAuthService(t *testing.T) (*AuthService, *memoryProfileRepo) {
	t.Helper()
	repo := newMemoryProfileRepo()
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars-long",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "bizfin-test",
		MaxRefreshCount:        5,
	})
	svc := NewAuthService(
		repo,
		jwtService,
		auth.NewInMemoryTokenBlacklist(),
		nil,
		AuthServiceConfig{MaxLoginAttempts: 3, LockDuration: 10 * time.Minute},
		zap.NewNop(),
	)
	return svc, repo
}

func registerTestProfile(t *testing.T, svc *AuthService, email string) *ProfileInfo {
	t.Helper()
	info, err := svc.Register(context.Background(), RegisterInput{
		Email:       email,
		Password:    "correct-horse-battery",
		DisplayName: "דנה לוי",
	})
	require.NoError(t, err)
	return info
}

func TestAuthService_Register(t *testing.T) {
	t.Run("creates profile with lowercased email", func(t *testing.T) {
		svc, repo := newTestAuthService(t)

		info, err := svc.Register(context.Background(), RegisterInput{
			Email:       "Dana@Example.COM",
			Password:    "correct-horse-battery",
			DisplayName: "דנה לוי",
		})
		require.NoError(t, err)
		assert.Equal(t, "dana@example.com", info.Email)
		assert.Equal(t, "דנה לוי", info.DisplayName)

		stored, err := repo.FindByID(context.Background(), info.ID)
		require.NoError(t, err)
		assert.True(t, stored.VerifyPassword("correct-horse-battery"))
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		svc, _ := newTestAuthService(t)
		registerTestProfile(t, svc, "dana@example.com")

		_, err := svc.Register(context.Background(), RegisterInput{
			Email:    "DANA@example.com",
			Password: "another-password-1",
		})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "EMAIL_TAKEN", domainErr.Code)
	})

	t.Run("rejects short password", func(t *testing.T) {
		svc, _ := newTestAuthService(t)
		_, err := svc.Register(context.Background(), RegisterInput{
			Email:    "dana@example.com",
			Password: "short",
		})
		require.Error(t, err)
	})
}

func TestAuthService_Login(t *testing.T) {
	t.Run("returns token pair on valid credentials", func(t *testing.T) {
		svc, _ := newTestAuthService(t)
		registerTestProfile(t, svc, "dana@example.com")

		result, err := svc.Login(context.Background(), LoginInput{
			Email:    "dana@example.com",
			Password: "correct-horse-battery",
			IP:       "10.0.0.7",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, result.AccessToken)
		assert.NotEmpty(t, result.RefreshToken)
		assert.Equal(t, "Bearer", result.TokenType)
		assert.Equal(t, "dana@example.com", result.Profile.Email)
		require.NotNil(t, result.Profile.LastLoginAt)
	})

	t.Run("rejects wrong password", func(t *testing.T) {
		svc, _ := newTestAuthService(t)
		registerTestProfile(t, svc, "dana@example.com")

		_, err := svc.Login(context.Background(), LoginInput{
			Email:    "dana@example.com",
			Password: "wrong-password-123",
		})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_CREDENTIALS", domainErr.Code)
	})

	t.Run("unknown email reports invalid credentials", func(t *testing.T) {
		svc, _ := newTestAuthService(t)

		_, err := svc.Login(context.Background(), LoginInput{
			Email:    "nobody@example.com",
			Password: "whatever-password",
		})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_CREDENTIALS", domainErr.Code)
	})

	t.Run("locks account after repeated failures", func(t *testing.T) {
		svc, repo := newTestAuthService(t)
		info := registerTestProfile(t, svc, "dana@example.com")

		var lastErr error
		for i := 0; i < 3; i++ {
			_, lastErr = svc.Login(context.Background(), LoginInput{
				Email:    "dana@example.com",
				Password: "wrong-password-123",
			})
			require.Error(t, lastErr)
		}

		var domainErr *shared.DomainError
		require.ErrorAs(t, lastErr, &domainErr)
		assert.Equal(t, "ACCOUNT_LOCKED", domainErr.Code)

		stored, err := repo.FindByID(context.Background(), info.ID)
		require.NoError(t, err)
		assert.True(t, stored.IsLocked())

		// Correct password is also refused while the lock holds
		_, err = svc.Login(context.Background(), LoginInput{
			Email:    "dana@example.com",
			Password: "correct-horse-battery",
		})
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ACCOUNT_LOCKED", domainErr.Code)
	})

	t.Run("rejects deactivated account", func(t *testing.T) {
		svc, repo := newTestAuthService(t)
		info := registerTestProfile(t, svc, "dana@example.com")

		stored, err := repo.FindByID(context.Background(), info.ID)
		require.NoError(t, err)
		require.NoError(t, stored.Deactivate())
		require.NoError(t, repo.Save(context.Background(), stored))

		_, err = svc.Login(context.Background(), LoginInput{
			Email:    "dana@example.com",
			Password: "correct-horse-battery",
		})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ACCOUNT_DEACTIVATED", domainErr.Code)
	})
}

func TestAuthService_RefreshToken(t *testing.T) {
	t.Run("issues a new pair for a valid refresh token", func(t *testing.T) {
		svc, _ := newTestAuthService(t)
		registerTestProfile(t, svc, "dana@example.com")

		login, err := svc.Login(context.Background(), LoginInput{
			Email:    "dana@example.com",
			Password: "correct-horse-battery",
		})
		require.NoError(t, err)

		result, err := svc.RefreshToken(context.Background(), RefreshTokenInput{
			RefreshToken: login.RefreshToken,
		})
		require.NoError(t, err)
		assert.NotEmpty(t, result.AccessToken)
		assert.NotEmpty(t, result.RefreshToken)
	})

	t.Run("rejects garbage token", func(t *testing.T) {
		svc, _ := newTestAuthService(t)

		_, err := svc.RefreshToken(context.Background(), RefreshTokenInput{
			RefreshToken: "not.a.token",
		})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "TOKEN_INVALID", domainErr.Code)
	})

	t.Run("rejects access token used as refresh token", func(t *testing.T) {
		svc, _ := newTestAuthService(t)
		registerTestProfile(t, svc, "dana@example.com")

		login, err := svc.Login(context.Background(), LoginInput{
			Email:    "dana@example.com",
			Password: "correct-horse-battery",
		})
		require.NoError(t, err)

		_, err = svc.RefreshToken(context.Background(), RefreshTokenInput{
			RefreshToken: login.AccessToken,
		})
		require.Error(t, err)
	})

	t.Run("rejects refresh for deactivated account", func(t *testing.T) {
		svc, repo := newTestAuthService(t)
		info := registerTestProfile(t, svc, "dana@example.com")

		login, err := svc.Login(context.Background(), LoginInput{
			Email:    "dana@example.com",
			Password: "correct-horse-battery",
		})
		require.NoError(t, err)

		stored, err := repo.FindByID(context.Background(), info.ID)
		require.NoError(t, err)
		require.NoError(t, stored.Deactivate())
		require.NoError(t, repo.Save(context.Background(), stored))

		_, err = svc.RefreshToken(context.Background(), RefreshTokenInput{
			RefreshToken: login.RefreshToken,
		})
		require.Error(t, err)
	})
}

func TestAuthService_Logout(t *testing.T) {
	t.Run("blacklisted refresh token can no longer be used", func(t *testing.T) {
		svc, _ := newTestAuthService(t)
		registerTestProfile(t, svc, "dana@example.com")

		login, err := svc.Login(context.Background(), LoginInput{
			Email:    "dana@example.com",
			Password: "correct-horse-battery",
		})
		require.NoError(t, err)

		claims, err := svc.jwtService.ValidateRefreshToken(login.RefreshToken)
		require.NoError(t, err)

		userID, err := claims.GetUserUUID()
		require.NoError(t, err)

		err = svc.Logout(context.Background(), LogoutInput{
			UserID:   userID,
			JTI:      claims.ID,
			TokenTTL: claims.GetRemainingTTL(),
		})
		require.NoError(t, err)

		_, err = svc.RefreshToken(context.Background(), RefreshTokenInput{
			RefreshToken: login.RefreshToken,
		})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "TOKEN_REVOKED", domainErr.Code)
	})

	t.Run("all sessions logout invalidates earlier tokens", func(t *testing.T) {
		svc, _ := newTestAuthService(t)
		registerTestProfile(t, svc, "dana@example.com")

		login, err := svc.Login(context.Background(), LoginInput{
			Email:    "dana@example.com",
			Password: "correct-horse-battery",
		})
		require.NoError(t, err)

		claims, err := svc.jwtService.ValidateRefreshToken(login.RefreshToken)
		require.NoError(t, err)
		userID, err := claims.GetUserUUID()
		require.NoError(t, err)

		// Issued-at comparison needs the invalidation mark to land after issuance
		time.Sleep(1100 * time.Millisecond)

		err = svc.Logout(context.Background(), LogoutInput{
			UserID:      userID,
			AllSessions: true,
		})
		require.NoError(t, err)

		_, err = svc.RefreshToken(context.Background(), RefreshTokenInput{
			RefreshToken: login.RefreshToken,
		})
		require.Error(t, err)
	})
}

func TestProfileService(t *testing.T) {
	newProfileService := func(t *testing.T) (*ProfileService, *memoryProfileRepo, uuid.UUID) {
		t.Helper()
		authSvc, repo := newTestAuthService(t)
		info := registerTestProfile(t, authSvc, "dana@example.com")
		return NewProfileService(repo, nil, zap.NewNop()), repo, info.ID
	}

	t.Run("update details", func(t *testing.T) {
		svc, _, id := newProfileService(t)

		info, err := svc.UpdateProfile(context.Background(), id, UpdateProfileInput{
			DisplayName: "דנה כהן",
			Phone:       "052-1234567",
		})
		require.NoError(t, err)
		assert.Equal(t, "דנה כהן", info.DisplayName)
		assert.Equal(t, "052-1234567", info.Phone)
	})

	t.Run("change password requires current password", func(t *testing.T) {
		svc, repo, id := newProfileService(t)

		err := svc.ChangePassword(context.Background(), id, ChangePasswordInput{
			CurrentPassword: "wrong-password-123",
			NewPassword:     "brand-new-password",
		})
		require.Error(t, err)

		err = svc.ChangePassword(context.Background(), id, ChangePasswordInput{
			CurrentPassword: "correct-horse-battery",
			NewPassword:     "brand-new-password",
		})
		require.NoError(t, err)

		stored, err := repo.FindByID(context.Background(), id)
		require.NoError(t, err)
		assert.True(t, stored.VerifyPassword("brand-new-password"))
	})

	t.Run("set default business", func(t *testing.T) {
		svc, _, id := newProfileService(t)
		businessID := uuid.New()

		info, err := svc.SetDefaultBusiness(context.Background(), id, SetDefaultBusinessInput{
			BusinessID: businessID,
		})
		require.NoError(t, err)
		require.NotNil(t, info.DefaultBusinessID)
		assert.Equal(t, businessID, *info.DefaultBusinessID)
	})

	t.Run("unknown profile", func(t *testing.T) {
		svc, _, _ := newProfileService(t)

		_, err := svc.UpdateProfile(context.Background(), uuid.New(), UpdateProfileInput{})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "PROFILE_NOT_FOUND", domainErr.Code)
	})
}
