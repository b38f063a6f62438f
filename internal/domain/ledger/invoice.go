package ledger

import (
	"strings"
	"time"

	"github.com/bizfin/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceStatus represents the lifecycle state of an invoice
type InvoiceStatus string

const (
	InvoiceStatusOpen      InvoiceStatus = "open"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

var hundred = decimal.NewFromInt(100)

// Invoice represents a supplier invoice. Total is always subtotal plus VAT.
type Invoice struct {
	shared.BusinessAggregateRoot
	SupplierID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Number     string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_invoice_business_number,priority:2"`
	Date       time.Time       `gorm:"type:date;not null;index"`
	Subtotal   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	VATAmount  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Total      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Status     InvoiceStatus   `gorm:"type:varchar(20);not null;default:'open'"`
	FileURL    string          `gorm:"type:varchar(500)"` // scanned copy uploaded to object storage
	Notes      string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Invoice) TableName() string {
	return "invoices"
}

// NewInvoice creates an open invoice, deriving VAT from the business's
// VAT rate (percent) and the total as subtotal + VAT.
func NewInvoice(businessID, supplierID uuid.UUID, number string, date time.Time, subtotal, vatRate decimal.Decimal) (*Invoice, error) {
	if err := validateInvoiceNumber(number); err != nil {
		return nil, err
	}
	if subtotal.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Subtotal cannot be negative")
	}
	if vatRate.IsNegative() || vatRate.GreaterThan(hundred) {
		return nil, shared.NewDomainError("INVALID_VAT_RATE", "VAT rate must be between 0 and 100")
	}

	vat := subtotal.Mul(vatRate).Div(hundred).Round(2)

	inv := &Invoice{
		BusinessAggregateRoot: shared.NewBusinessAggregateRoot(businessID),
		SupplierID:            supplierID,
		Number:                strings.TrimSpace(number),
		Date:                  date,
		Subtotal:              subtotal,
		VATAmount:             vat,
		Total:                 subtotal.Add(vat),
		Status:                InvoiceStatusOpen,
	}

	inv.AddDomainEvent(NewInvoiceCreatedEvent(inv))

	return inv, nil
}

// NewInvoiceWithVAT creates an open invoice with an explicit VAT amount,
// for invoices whose printed VAT differs from the computed one.
func NewInvoiceWithVAT(businessID, supplierID uuid.UUID, number string, date time.Time, subtotal, vatAmount decimal.Decimal) (*Invoice, error) {
	if err := validateInvoiceNumber(number); err != nil {
		return nil, err
	}
	if subtotal.IsNegative() || vatAmount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amounts cannot be negative")
	}

	inv := &Invoice{
		BusinessAggregateRoot: shared.NewBusinessAggregateRoot(businessID),
		SupplierID:            supplierID,
		Number:                strings.TrimSpace(number),
		Date:                  date,
		Subtotal:              subtotal,
		VATAmount:             vatAmount,
		Total:                 subtotal.Add(vatAmount),
		Status:                InvoiceStatusOpen,
	}

	inv.AddDomainEvent(NewInvoiceCreatedEvent(inv))

	return inv, nil
}

// UpdateAmounts replaces the invoice amounts while it is still open
func (i *Invoice) UpdateAmounts(subtotal, vatAmount decimal.Decimal) error {
	if i.Status != InvoiceStatusOpen {
		return shared.NewDomainError("INVALID_STATE", "Only open invoices can be edited")
	}
	if subtotal.IsNegative() || vatAmount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Amounts cannot be negative")
	}

	i.Subtotal = subtotal
	i.VATAmount = vatAmount
	i.Total = subtotal.Add(vatAmount)
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	return nil
}

// AttachFile stores the URL of the uploaded scanned copy
func (i *Invoice) AttachFile(url string) error {
	if len(url) > 500 {
		return shared.NewDomainError("INVALID_FILE_URL", "File URL cannot exceed 500 characters")
	}
	i.FileURL = url
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
	return nil
}

// MarkPaid marks the invoice as settled
func (i *Invoice) MarkPaid() error {
	if i.Status == InvoiceStatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Cancelled invoices cannot be paid")
	}
	if i.Status == InvoiceStatusPaid {
		return shared.NewDomainError("ALREADY_PAID", "Invoice is already paid")
	}

	i.Status = InvoiceStatusPaid
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	i.AddDomainEvent(NewInvoicePaidEvent(i))

	return nil
}

// Reopen returns a paid invoice to open
func (i *Invoice) Reopen() error {
	if i.Status != InvoiceStatusPaid {
		return shared.NewDomainError("INVALID_STATE", "Only paid invoices can be reopened")
	}
	i.Status = InvoiceStatusOpen
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
	return nil
}

// Cancel voids the invoice
func (i *Invoice) Cancel() error {
	if i.Status == InvoiceStatusCancelled {
		return shared.NewDomainError("ALREADY_CANCELLED", "Invoice is already cancelled")
	}
	if i.Status == InvoiceStatusPaid {
		return shared.NewDomainError("INVALID_STATE", "Paid invoices cannot be cancelled")
	}

	i.Status = InvoiceStatusCancelled
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	i.AddDomainEvent(NewInvoiceCancelledEvent(i))

	return nil
}

// IsOpen reports whether the invoice still awaits payment
func (i *Invoice) IsOpen() bool {
	return i.Status == InvoiceStatusOpen
}

func validateInvoiceNumber(number string) error {
	number = strings.TrimSpace(number)
	if number == "" {
		return shared.NewDomainError("INVALID_NUMBER", "Invoice number cannot be empty")
	}
	if len(number) > 50 {
		return shared.NewDomainError("INVALID_NUMBER", "Invoice number cannot exceed 50 characters")
	}
	return nil
}
