package goals

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func TestNewGoal(t *testing.T) {
	businessID := uuid.New()

	t.Run("creates goal normalized to first of month", func(t *testing.T) {
		mid := time.Date(2026, time.March, 17, 13, 45, 0, 0, time.UTC)
		g, err := NewGoal(businessID, mid, d("250000"), d("28"), d("30"), d("60000"))
		require.NoError(t, err)

		assert.Equal(t, time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC), g.Month)
		assert.Equal(t, businessID, g.BusinessID)
		assert.True(t, g.RevenueTarget.Equal(d("250000")))
		assert.True(t, g.LaborPctTarget.Equal(d("28")))

		events := g.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeGoalCreated, events[0].EventType())
	})

	t.Run("fails with negative revenue target", func(t *testing.T) {
		_, err := NewGoal(businessID, time.Now(), d("-1"), d("28"), d("30"), d("0"))
		assert.Error(t, err)
	})

	t.Run("fails with percent over 100", func(t *testing.T) {
		_, err := NewGoal(businessID, time.Now(), d("1000"), d("101"), d("30"), d("0"))
		assert.Error(t, err)
	})
}

func TestGoal_Update(t *testing.T) {
	g, err := NewGoal(uuid.New(), time.Now(), d("100000"), d("30"), d("32"), d("20000"))
	require.NoError(t, err)
	g.ClearDomainEvents()

	require.NoError(t, g.Update(d("120000"), d("28"), d("30"), d("25000"), "חודש חגים"))
	assert.True(t, g.RevenueTarget.Equal(d("120000")))
	assert.Equal(t, "חודש חגים", g.Notes)
	assert.Equal(t, 2, g.Version)

	events := g.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventTypeGoalUpdated, events[0].EventType())

	assert.Error(t, g.Update(d("120000"), d("28"), d("-5"), d("25000"), ""))
}

func TestMonthOf(t *testing.T) {
	ts := time.Date(2026, time.August, 26, 18, 30, 0, 0, time.FixedZone("IST", 3*3600))
	assert.Equal(t, time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC), MonthOf(ts))
}
