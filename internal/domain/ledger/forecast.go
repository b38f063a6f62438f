package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// ForecastBucket is one month's worth of outstanding commitments
type ForecastBucket struct {
	Month     time.Time       `json:"month"` // first day of month
	AmountDue decimal.Decimal `json:"amount_due"`
	Count     int             `json:"count"`
	// Running total of commitments through this month inclusive
	CumulativeCommitted decimal.Decimal `json:"cumulative_committed"`
}

// Forecast is the commitment outlook built from unpaid splits
type Forecast struct {
	From           time.Time        `json:"from"`
	Months         []ForecastBucket `json:"months"`
	OverdueAmount  decimal.Decimal  `json:"overdue_amount"`
	OverdueCount   int              `json:"overdue_count"`
	TotalCommitted decimal.Decimal  `json:"total_committed"`
}

// BuildForecast buckets unpaid splits by due month over a horizon of
// monthCount months starting at the month containing from. Splits due
// before from's day count as overdue; splits due past the horizon still
// count toward the committed total.
func BuildForecast(splits []PaymentSplit, from time.Time, monthCount int) Forecast {
	if monthCount < 1 {
		monthCount = 1
	}

	start := time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, time.UTC)
	today := truncateToDay(from)

	f := Forecast{
		From:           today,
		Months:         make([]ForecastBucket, monthCount),
		OverdueAmount:  decimal.Zero,
		TotalCommitted: decimal.Zero,
	}
	for i := range f.Months {
		f.Months[i] = ForecastBucket{
			Month:               start.AddDate(0, i, 0),
			AmountDue:           decimal.Zero,
			CumulativeCommitted: decimal.Zero,
		}
	}

	for _, s := range splits {
		if s.Paid {
			continue
		}
		f.TotalCommitted = f.TotalCommitted.Add(s.Amount)

		if s.DueDate.Before(today) {
			f.OverdueAmount = f.OverdueAmount.Add(s.Amount)
			f.OverdueCount++
			continue
		}

		idx := monthsBetween(start, s.DueDate)
		if idx < 0 || idx >= monthCount {
			continue
		}
		f.Months[idx].AmountDue = f.Months[idx].AmountDue.Add(s.Amount)
		f.Months[idx].Count++
	}

	running := f.OverdueAmount
	for i := range f.Months {
		running = running.Add(f.Months[i].AmountDue)
		f.Months[i].CumulativeCommitted = running
	}

	return f
}

// monthsBetween returns the number of whole calendar months from the month
// of a to the month of b.
func monthsBetween(a, b time.Time) int {
	return (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
}
