package ledger

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildSplitsForForecast(t *testing.T, amount string, installments int, firstDue time.Time) []PaymentSplit {
	t.Helper()
	p, err := NewPayment(uuid.New(), uuid.New(), d(amount), PaymentMethodCreditCard, installments, firstDue)
	require.NoError(t, err)
	return p.BuildSplits()
}

func TestBuildForecast(t *testing.T) {
	now := time.Date(2026, time.June, 15, 12, 0, 0, 0, time.UTC)

	t.Run("buckets unpaid splits by due month", func(t *testing.T) {
		splits := buildSplitsForForecast(t, "3000", 3,
			time.Date(2026, time.June, 20, 0, 0, 0, 0, time.UTC))

		f := BuildForecast(splits, now, 4)
		require.Len(t, f.Months, 4)

		assert.Equal(t, time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC), f.Months[0].Month)
		assert.True(t, f.Months[0].AmountDue.Equal(d("1000")))
		assert.Equal(t, 1, f.Months[0].Count)
		assert.True(t, f.Months[1].AmountDue.Equal(d("1000")))
		assert.True(t, f.Months[2].AmountDue.Equal(d("1000")))
		assert.True(t, f.Months[3].AmountDue.IsZero())

		assert.True(t, f.TotalCommitted.Equal(d("3000")))
		assert.True(t, f.OverdueAmount.IsZero())

		// Cumulative runs across buckets
		assert.True(t, f.Months[0].CumulativeCommitted.Equal(d("1000")))
		assert.True(t, f.Months[2].CumulativeCommitted.Equal(d("3000")))
		assert.True(t, f.Months[3].CumulativeCommitted.Equal(d("3000")))
	})

	t.Run("past-due unpaid splits land in the overdue bucket", func(t *testing.T) {
		splits := buildSplitsForForecast(t, "900", 3,
			time.Date(2026, time.April, 10, 0, 0, 0, 0, time.UTC))
		// Due April 10, May 10, June 10, all before June 15

		f := BuildForecast(splits, now, 3)
		assert.True(t, f.OverdueAmount.Equal(d("900")), "got %s", f.OverdueAmount)
		assert.Equal(t, 3, f.OverdueCount)
		assert.True(t, f.Months[0].AmountDue.IsZero())
		// Overdue feeds into the cumulative committed line
		assert.True(t, f.Months[0].CumulativeCommitted.Equal(d("900")))
	})

	t.Run("paid splits are excluded", func(t *testing.T) {
		splits := buildSplitsForForecast(t, "600", 2,
			time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC))
		require.NoError(t, splits[0].MarkPaid(now))

		f := BuildForecast(splits, now, 3)
		assert.True(t, f.TotalCommitted.Equal(d("300")))
		assert.True(t, f.Months[1].AmountDue.IsZero())
		assert.True(t, f.Months[2].AmountDue.Equal(d("300")))
	})

	t.Run("splits beyond the horizon still count as committed", func(t *testing.T) {
		splits := buildSplitsForForecast(t, "1200", 12,
			time.Date(2026, time.June, 20, 0, 0, 0, 0, time.UTC))

		f := BuildForecast(splits, now, 3)
		inWindow := f.Months[0].AmountDue.Add(f.Months[1].AmountDue).Add(f.Months[2].AmountDue)
		assert.True(t, inWindow.Equal(d("300")))
		assert.True(t, f.TotalCommitted.Equal(d("1200")))
	})

	t.Run("no splits yields empty forecast", func(t *testing.T) {
		f := BuildForecast(nil, now, 2)
		require.Len(t, f.Months, 2)
		assert.True(t, f.TotalCommitted.IsZero())
		assert.True(t, f.OverdueAmount.IsZero())
	})
}
