package ledger

import (
	"time"

	"github.com/bizfin/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentMethod represents how a payment is executed
type PaymentMethod string

const (
	PaymentMethodBankTransfer  PaymentMethod = "bank_transfer"
	PaymentMethodCreditCard    PaymentMethod = "credit_card"
	PaymentMethodCheck         PaymentMethod = "check"
	PaymentMethodCash          PaymentMethod = "cash"
	PaymentMethodStandingOrder PaymentMethod = "standing_order"
)

// PaymentStatus is derived from the payment's splits
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending" // no split paid
	PaymentStatusPartial PaymentStatus = "partial" // some splits paid
	PaymentStatusPaid    PaymentStatus = "paid"    // all splits paid
)

const maxInstallments = 36

// Payment represents a commitment to pay a supplier, optionally against an
// invoice, executed as one or more installment splits.
type Payment struct {
	shared.BusinessAggregateRoot
	SupplierID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	InvoiceID    *uuid.UUID      `gorm:"type:uuid;index"`
	Amount       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Method       PaymentMethod   `gorm:"type:varchar(20);not null"`
	Installments int             `gorm:"not null;default:1"`
	FirstDueDate time.Time       `gorm:"type:date;not null;index"`
	Status       PaymentStatus   `gorm:"type:varchar(20);not null;default:'pending'"`
	Notes        string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Payment) TableName() string {
	return "payments"
}

// NewPayment creates a pending payment. Splits are built separately with
// BuildSplits so the caller controls when rows are generated.
func NewPayment(businessID, supplierID uuid.UUID, amount decimal.Decimal, method PaymentMethod, installments int, firstDueDate time.Time) (*Payment, error) {
	if err := validatePaymentAmount(amount); err != nil {
		return nil, err
	}
	if err := validatePaymentMethod(method); err != nil {
		return nil, err
	}
	if err := validateInstallments(installments); err != nil {
		return nil, err
	}

	p := &Payment{
		BusinessAggregateRoot: shared.NewBusinessAggregateRoot(businessID),
		SupplierID:            supplierID,
		Amount:                amount,
		Method:                method,
		Installments:          installments,
		FirstDueDate:          firstDueDate,
		Status:                PaymentStatusPending,
	}

	p.AddDomainEvent(NewPaymentCreatedEvent(p))

	return p, nil
}

// LinkInvoice associates the payment with an invoice
func (p *Payment) LinkInvoice(invoiceID uuid.UUID) {
	p.InvoiceID = &invoiceID
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// Reschedule replaces amount, installment count and first due date. The
// caller must rebuild the splits afterwards; rescheduling is rejected once
// any split has been paid.
func (p *Payment) Reschedule(amount decimal.Decimal, installments int, firstDueDate time.Time) error {
	if p.Status != PaymentStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Payments with paid installments cannot be rescheduled")
	}
	if err := validatePaymentAmount(amount); err != nil {
		return err
	}
	if err := validateInstallments(installments); err != nil {
		return err
	}

	p.Amount = amount
	p.Installments = installments
	p.FirstDueDate = firstDueDate
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewPaymentRescheduledEvent(p))

	return nil
}

// BuildSplits generates the payment's installment rows. The total is
// divided evenly, each installment rounded to 2 decimal places, and the
// rounding remainder is folded into the first installment so that the
// splits always sum exactly to the payment amount. Due dates advance one
// month per installment from the first due date.
func (p *Payment) BuildSplits() []PaymentSplit {
	amounts := SplitAmounts(p.Amount, p.Installments)

	splits := make([]PaymentSplit, 0, len(amounts))
	for i, amount := range amounts {
		splits = append(splits, PaymentSplit{
			BaseEntity: shared.NewBaseEntity(),
			BusinessID: p.BusinessID,
			PaymentID:  p.ID,
			Seq:        i + 1,
			DueDate:    p.FirstDueDate.AddDate(0, i, 0),
			Amount:     amount,
		})
	}
	return splits
}

// RecomputeStatus derives the payment status from its splits
func (p *Payment) RecomputeStatus(splits []PaymentSplit) {
	paid := 0
	for _, s := range splits {
		if s.Paid {
			paid++
		}
	}

	var next PaymentStatus
	switch {
	case len(splits) > 0 && paid == len(splits):
		next = PaymentStatusPaid
	case paid > 0:
		next = PaymentStatusPartial
	default:
		next = PaymentStatusPending
	}

	if next != p.Status {
		p.Status = next
		p.UpdatedAt = time.Now()
		p.IncrementVersion()
	}
}

// SplitAmounts divides total into n installments rounded to 2 decimal
// places, with the remainder on the first installment.
func SplitAmounts(total decimal.Decimal, n int) []decimal.Decimal {
	if n <= 1 {
		return []decimal.Decimal{total}
	}

	base := total.Div(decimal.NewFromInt(int64(n))).Round(2)
	first := total.Sub(base.Mul(decimal.NewFromInt(int64(n - 1))))

	amounts := make([]decimal.Decimal, n)
	amounts[0] = first
	for i := 1; i < n; i++ {
		amounts[i] = base
	}
	return amounts
}

func validatePaymentAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	return nil
}

func validatePaymentMethod(m PaymentMethod) error {
	switch m {
	case PaymentMethodBankTransfer, PaymentMethodCreditCard, PaymentMethodCheck,
		PaymentMethodCash, PaymentMethodStandingOrder:
		return nil
	default:
		return shared.NewDomainError("INVALID_METHOD", "Invalid payment method")
	}
}

func validateInstallments(n int) error {
	if n < 1 || n > maxInstallments {
		return shared.NewDomainError("INVALID_INSTALLMENTS", "Installments must be between 1 and 36")
	}
	return nil
}
