package ledger

import (
	"time"

	"github.com/bizfin/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Event types for the ledger context
const (
	EventTypeSupplierCreated    = "ledger.supplier.created"
	EventTypeSupplierUpdated    = "ledger.supplier.updated"
	EventTypeInvoiceCreated     = "ledger.invoice.created"
	EventTypeInvoicePaid        = "ledger.invoice.paid"
	EventTypeInvoiceCancelled   = "ledger.invoice.cancelled"
	EventTypePaymentCreated     = "ledger.payment.created"
	EventTypePaymentRescheduled = "ledger.payment.rescheduled"
)

const (
	aggregateTypeSupplier = "Supplier"
	aggregateTypeInvoice  = "Invoice"
	aggregateTypePayment  = "Payment"
)

// SupplierCreatedEvent is raised when a supplier is created
type SupplierCreatedEvent struct {
	shared.BaseDomainEvent
	Name     string `json:"name"`
	Category string `json:"category"`
}

// NewSupplierCreatedEvent creates a new SupplierCreatedEvent
func NewSupplierCreatedEvent(s *Supplier) *SupplierCreatedEvent {
	return &SupplierCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSupplierCreated, aggregateTypeSupplier, s.ID, s.BusinessID),
		Name:            s.Name,
		Category:        string(s.Category),
	}
}

// SupplierUpdatedEvent is raised when supplier details change
type SupplierUpdatedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

// NewSupplierUpdatedEvent creates a new SupplierUpdatedEvent
func NewSupplierUpdatedEvent(s *Supplier) *SupplierUpdatedEvent {
	return &SupplierUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSupplierUpdated, aggregateTypeSupplier, s.ID, s.BusinessID),
		Name:            s.Name,
	}
}

// InvoiceCreatedEvent is raised when an invoice is recorded
type InvoiceCreatedEvent struct {
	shared.BaseDomainEvent
	Number string          `json:"number"`
	Total  decimal.Decimal `json:"total"`
}

// NewInvoiceCreatedEvent creates a new InvoiceCreatedEvent
func NewInvoiceCreatedEvent(i *Invoice) *InvoiceCreatedEvent {
	return &InvoiceCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceCreated, aggregateTypeInvoice, i.ID, i.BusinessID),
		Number:          i.Number,
		Total:           i.Total,
	}
}

// InvoicePaidEvent is raised when an invoice is settled
type InvoicePaidEvent struct {
	shared.BaseDomainEvent
	Number string `json:"number"`
}

// NewInvoicePaidEvent creates a new InvoicePaidEvent
func NewInvoicePaidEvent(i *Invoice) *InvoicePaidEvent {
	return &InvoicePaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoicePaid, aggregateTypeInvoice, i.ID, i.BusinessID),
		Number:          i.Number,
	}
}

// InvoiceCancelledEvent is raised when an invoice is voided
type InvoiceCancelledEvent struct {
	shared.BaseDomainEvent
	Number string `json:"number"`
}

// NewInvoiceCancelledEvent creates a new InvoiceCancelledEvent
func NewInvoiceCancelledEvent(i *Invoice) *InvoiceCancelledEvent {
	return &InvoiceCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceCancelled, aggregateTypeInvoice, i.ID, i.BusinessID),
		Number:          i.Number,
	}
}

// PaymentCreatedEvent is raised when a payment commitment is recorded
type PaymentCreatedEvent struct {
	shared.BaseDomainEvent
	Amount       decimal.Decimal `json:"amount"`
	Method       string          `json:"method"`
	Installments int             `json:"installments"`
	FirstDueDate time.Time       `json:"first_due_date"`
}

// NewPaymentCreatedEvent creates a new PaymentCreatedEvent
func NewPaymentCreatedEvent(p *Payment) *PaymentCreatedEvent {
	return &PaymentCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentCreated, aggregateTypePayment, p.ID, p.BusinessID),
		Amount:          p.Amount,
		Method:          string(p.Method),
		Installments:    p.Installments,
		FirstDueDate:    p.FirstDueDate,
	}
}

// PaymentRescheduledEvent is raised when a payment's plan changes
type PaymentRescheduledEvent struct {
	shared.BaseDomainEvent
	Amount       decimal.Decimal `json:"amount"`
	Installments int             `json:"installments"`
	FirstDueDate time.Time       `json:"first_due_date"`
}

// NewPaymentRescheduledEvent creates a new PaymentRescheduledEvent
func NewPaymentRescheduledEvent(p *Payment) *PaymentRescheduledEvent {
	return &PaymentRescheduledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentRescheduled, aggregateTypePayment, p.ID, p.BusinessID),
		Amount:          p.Amount,
		Installments:    p.Installments,
		FirstDueDate:    p.FirstDueDate,
	}
}
