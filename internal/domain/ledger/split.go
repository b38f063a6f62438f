package ledger

import (
	"time"

	"github.com/bizfin/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentSplit is one installment of a payment, carrying its own due date
// and amount.
type PaymentSplit struct {
	shared.BaseEntity
	BusinessID uuid.UUID       `gorm:"type:uuid;not null;index"`
	PaymentID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Seq        int             `gorm:"not null"`
	DueDate    time.Time       `gorm:"type:date;not null;index"`
	Amount     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Paid       bool            `gorm:"not null;default:false"`
	PaidAt     *time.Time
}

// TableName returns the table name for GORM
func (PaymentSplit) TableName() string {
	return "payment_splits"
}

// MarkPaid marks the installment as settled at the given time
func (s *PaymentSplit) MarkPaid(at time.Time) error {
	if s.Paid {
		return shared.NewDomainError("ALREADY_PAID", "Installment is already paid")
	}
	s.Paid = true
	s.PaidAt = &at
	s.UpdatedAt = time.Now()
	return nil
}

// MarkUnpaid reverts a settled installment
func (s *PaymentSplit) MarkUnpaid() error {
	if !s.Paid {
		return shared.NewDomainError("NOT_PAID", "Installment is not paid")
	}
	s.Paid = false
	s.PaidAt = nil
	s.UpdatedAt = time.Now()
	return nil
}

// IsOverdue reports whether the installment is unpaid past its due date
func (s *PaymentSplit) IsOverdue(today time.Time) bool {
	return !s.Paid && s.DueDate.Before(truncateToDay(today))
}

// SumSplits returns the total amount of the given splits
func SumSplits(splits []PaymentSplit) decimal.Decimal {
	total := decimal.Zero
	for _, s := range splits {
		total = total.Add(s.Amount)
	}
	return total
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
