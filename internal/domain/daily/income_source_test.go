package daily

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIncomeSource(t *testing.T) {
	businessID := uuid.New()

	t.Run("creates active source", func(t *testing.T) {
		source, err := NewIncomeSource(businessID, "אשראי", 1)
		require.NoError(t, err)

		assert.Equal(t, "אשראי", source.Name)
		assert.Equal(t, 1, source.SortOrder)
		assert.True(t, source.Active)
		assert.Len(t, source.GetDomainEvents(), 1)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewIncomeSource(businessID, "  ", 0)
		assert.Error(t, err)
	})

	t.Run("rejects overlong name", func(t *testing.T) {
		_, err := NewIncomeSource(businessID, strings.Repeat("x", 101), 0)
		assert.Error(t, err)
	})
}

func TestIncomeSource_Lifecycle(t *testing.T) {
	source, err := NewIncomeSource(uuid.New(), "מזומן", 0)
	require.NoError(t, err)

	require.NoError(t, source.Deactivate())
	assert.False(t, source.Active)
	assert.Error(t, source.Deactivate())

	require.NoError(t, source.Activate())
	assert.True(t, source.Active)
	assert.Error(t, source.Activate())
}

func TestNewManagedProduct(t *testing.T) {
	businessID := uuid.New()

	t.Run("creates product with unit cost", func(t *testing.T) {
		product, err := NewManagedProduct(businessID, "בשר טחון", ProductCategoryFood, "kg", dec("45.00"))
		require.NoError(t, err)

		assert.Equal(t, ProductCategoryFood, product.Category)
		assert.Equal(t, "kg", product.Unit)
		assert.True(t, product.UnitCost.Equal(dec("45.00")))
		assert.True(t, product.Active)
	})

	t.Run("defaults unit when empty", func(t *testing.T) {
		product, err := NewManagedProduct(businessID, "Item", ProductCategoryOther, "", decimal.Zero)
		require.NoError(t, err)
		assert.Equal(t, "unit", product.Unit)
	})

	t.Run("rejects invalid category", func(t *testing.T) {
		_, err := NewManagedProduct(businessID, "Item", "furniture", "unit", decimal.Zero)
		assert.Error(t, err)
	})

	t.Run("rejects negative unit cost", func(t *testing.T) {
		_, err := NewManagedProduct(businessID, "Item", ProductCategoryFood, "kg", dec("-1"))
		assert.Error(t, err)
	})
}

func TestManagedProduct_Update(t *testing.T) {
	product, err := NewManagedProduct(uuid.New(), "קפה", ProductCategoryBeverages, "kg", dec("80"))
	require.NoError(t, err)

	require.NoError(t, product.Update("קפה ערביקה", ProductCategoryBeverages, "kg", dec("95.50")))
	assert.Equal(t, "קפה ערביקה", product.Name)
	assert.True(t, product.UnitCost.Equal(dec("95.50")))

	assert.Error(t, product.Update("", ProductCategoryBeverages, "kg", dec("1")))
}
