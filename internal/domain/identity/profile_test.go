package identity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProfile(t *testing.T) {
	t.Run("creates profile with valid input", func(t *testing.T) {
		profile, err := NewProfile("Owner@Example.COM", "s3cret-pass", "בעל העסק")
		require.NoError(t, err)
		require.NotNil(t, profile)

		assert.NotEqual(t, uuid.Nil, profile.ID)
		assert.Equal(t, "owner@example.com", profile.Email)
		assert.Equal(t, "בעל העסק", profile.DisplayName)
		assert.Equal(t, ProfileStatusActive, profile.Status)
		assert.NotEmpty(t, profile.PasswordHash)
		assert.NotEqual(t, "s3cret-pass", profile.PasswordHash)
		assert.NotNil(t, profile.PasswordChangedAt)

		events := profile.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeProfileCreated, events[0].EventType())
	})

	t.Run("fails with empty email", func(t *testing.T) {
		profile, err := NewProfile("", "s3cret-pass", "")
		assert.Nil(t, profile)
		assert.Error(t, err)
	})

	t.Run("fails with malformed email", func(t *testing.T) {
		profile, err := NewProfile("not-an-email", "s3cret-pass", "")
		assert.Nil(t, profile)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "format is invalid")
	})

	t.Run("fails with short password", func(t *testing.T) {
		profile, err := NewProfile("owner@example.com", "short", "")
		assert.Nil(t, profile)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "at least 8 characters")
	})
}

func TestProfile_VerifyPassword(t *testing.T) {
	profile, err := NewProfile("owner@example.com", "s3cret-pass", "")
	require.NoError(t, err)

	assert.True(t, profile.VerifyPassword("s3cret-pass"))
	assert.False(t, profile.VerifyPassword("wrong-pass"))
}

func TestProfile_ChangePassword(t *testing.T) {
	profile, err := NewProfile("owner@example.com", "s3cret-pass", "")
	require.NoError(t, err)
	profile.ClearDomainEvents()

	t.Run("changes password with correct current password", func(t *testing.T) {
		err := profile.ChangePassword("s3cret-pass", "new-password")
		require.NoError(t, err)
		assert.True(t, profile.VerifyPassword("new-password"))
		assert.False(t, profile.VerifyPassword("s3cret-pass"))

		events := profile.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeProfilePasswordChanged, events[0].EventType())
	})

	t.Run("rejects wrong current password", func(t *testing.T) {
		err := profile.ChangePassword("wrong-pass", "another-password")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Current password is incorrect")
	})
}

func TestProfile_LoginTracking(t *testing.T) {
	profile, err := NewProfile("owner@example.com", "s3cret-pass", "")
	require.NoError(t, err)

	t.Run("locks after max failed attempts", func(t *testing.T) {
		locked := profile.RecordLoginFailure(3, 15*time.Minute)
		assert.False(t, locked)
		locked = profile.RecordLoginFailure(3, 15*time.Minute)
		assert.False(t, locked)
		locked = profile.RecordLoginFailure(3, 15*time.Minute)
		assert.True(t, locked)

		assert.True(t, profile.IsLocked())
		assert.False(t, profile.CanLogin())
		assert.Equal(t, 3, profile.FailedAttempts)
	})

	t.Run("lock expires after the lock duration", func(t *testing.T) {
		past := time.Now().Add(-time.Minute)
		profile.LockedUntil = &past
		assert.False(t, profile.IsLocked())
		assert.True(t, profile.CanLogin())
	})

	t.Run("successful login resets failure state", func(t *testing.T) {
		profile.RecordLoginSuccess("10.0.0.1")
		assert.Equal(t, 0, profile.FailedAttempts)
		assert.Nil(t, profile.LockedUntil)
		assert.Equal(t, ProfileStatusActive, profile.Status)
		assert.Equal(t, "10.0.0.1", profile.LastLoginIP)
		require.NotNil(t, profile.LastLoginAt)
	})
}

func TestProfile_Deactivate(t *testing.T) {
	profile, err := NewProfile("owner@example.com", "s3cret-pass", "")
	require.NoError(t, err)

	require.NoError(t, profile.Deactivate())
	assert.True(t, profile.IsDeactivated())
	assert.False(t, profile.CanLogin())

	err = profile.Deactivate()
	assert.Error(t, err)
}

func TestProfile_SetDefaultBusiness(t *testing.T) {
	profile, err := NewProfile("owner@example.com", "s3cret-pass", "")
	require.NoError(t, err)

	businessID := uuid.New()
	profile.SetDefaultBusiness(businessID)
	require.NotNil(t, profile.DefaultBusinessID)
	assert.Equal(t, businessID, *profile.DefaultBusinessID)
}
