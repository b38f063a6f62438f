package ledger

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSupplier(t *testing.T) {
	businessID := uuid.New()

	t.Run("creates supplier with valid input", func(t *testing.T) {
		s, err := NewSupplier(businessID, "ירקות השדה בעמ", SupplierCategoryFood)
		require.NoError(t, err)

		assert.Equal(t, businessID, s.BusinessID)
		assert.Equal(t, "ירקות השדה בעמ", s.Name)
		assert.Equal(t, SupplierCategoryFood, s.Category)
		assert.True(t, s.Active)
		assert.Equal(t, 0, s.PaymentTermsDays)

		events := s.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeSupplierCreated, events[0].EventType())
	})

	t.Run("fails with empty name", func(t *testing.T) {
		_, err := NewSupplier(businessID, "", SupplierCategoryFood)
		assert.Error(t, err)
	})

	t.Run("fails with invalid category", func(t *testing.T) {
		_, err := NewSupplier(businessID, "Name", SupplierCategory("luxury"))
		assert.Error(t, err)
	})
}

func TestSupplier_SetContact(t *testing.T) {
	s, err := NewSupplier(uuid.New(), "Supplier", SupplierCategoryServices)
	require.NoError(t, err)

	t.Run("sets valid contact details", func(t *testing.T) {
		require.NoError(t, s.SetContact("יוסי", "03-5551234", "Yossi@Supplier.co.il"))
		assert.Equal(t, "יוסי", s.ContactName)
		assert.Equal(t, "03-5551234", s.Phone)
		assert.Equal(t, "yossi@supplier.co.il", s.Email)
	})

	t.Run("rejects malformed phone", func(t *testing.T) {
		assert.Error(t, s.SetContact("", "abc", ""))
	})

	t.Run("rejects malformed email", func(t *testing.T) {
		assert.Error(t, s.SetContact("", "", "not-an-email"))
	})
}

func TestSupplier_SetPaymentTerms(t *testing.T) {
	s, err := NewSupplier(uuid.New(), "Supplier", SupplierCategoryFood)
	require.NoError(t, err)

	require.NoError(t, s.SetPaymentTerms(30))
	assert.Equal(t, 30, s.PaymentTermsDays)

	assert.Error(t, s.SetPaymentTerms(-1))
	assert.Error(t, s.SetPaymentTerms(200))
}

func TestSupplier_DefaultDueDate(t *testing.T) {
	s, err := NewSupplier(uuid.New(), "Supplier", SupplierCategoryFood)
	require.NoError(t, err)
	require.NoError(t, s.SetPaymentTerms(30))

	// Purchase mid-February: EOM is Feb 28, +30 days = March 30
	purchase := time.Date(2026, time.February, 10, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, time.March, 30, 0, 0, 0, 0, time.UTC), s.DefaultDueDate(purchase))

	// Net EOM when terms are zero
	require.NoError(t, s.SetPaymentTerms(0))
	assert.Equal(t, time.Date(2026, time.February, 28, 0, 0, 0, 0, time.UTC), s.DefaultDueDate(purchase))
}

func TestSupplier_ActivateDeactivate(t *testing.T) {
	s, err := NewSupplier(uuid.New(), "Supplier", SupplierCategoryOther)
	require.NoError(t, err)

	require.NoError(t, s.Deactivate())
	assert.False(t, s.Active)
	assert.Error(t, s.Deactivate())

	require.NoError(t, s.Activate())
	assert.True(t, s.Active)
	assert.Error(t, s.Activate())
}
