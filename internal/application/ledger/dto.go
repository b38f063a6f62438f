package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bizfin/backend/internal/domain/ledger"
)

// CreateSupplierInput is the payload for creating a supplier
type CreateSupplierInput struct {
	Name             string `json:"name" binding:"required"`
	Category         string `json:"category" binding:"required"`
	ContactName      string `json:"contact_name"`
	Phone            string `json:"phone"`
	Email            string `json:"email"`
	TaxID            string `json:"tax_id"`
	PaymentTermsDays int    `json:"payment_terms_days"`
	Notes            string `json:"notes"`
}

// UpdateSupplierInput updates supplier details
type UpdateSupplierInput struct {
	Name             string `json:"name" binding:"required"`
	Category         string `json:"category" binding:"required"`
	ContactName      string `json:"contact_name"`
	Phone            string `json:"phone"`
	Email            string `json:"email"`
	TaxID            string `json:"tax_id"`
	PaymentTermsDays int    `json:"payment_terms_days"`
	Notes            string `json:"notes"`
}

// SupplierInfo is the supplier shape returned to clients
type SupplierInfo struct {
	ID               uuid.UUID `json:"id"`
	BusinessID       uuid.UUID `json:"business_id"`
	Name             string    `json:"name"`
	Category         string    `json:"category"`
	ContactName      string    `json:"contact_name,omitempty"`
	Phone            string    `json:"phone,omitempty"`
	Email            string    `json:"email,omitempty"`
	TaxID            string    `json:"tax_id,omitempty"`
	PaymentTermsDays int       `json:"payment_terms_days"`
	Active           bool      `json:"active"`
	Notes            string    `json:"notes,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// CreateInvoiceInput is the payload for recording an invoice.
// When VATAmount is nil the business's VAT rate derives it from Subtotal.
type CreateInvoiceInput struct {
	SupplierID uuid.UUID        `json:"supplier_id" binding:"required"`
	Number     string           `json:"number" binding:"required"`
	Date       time.Time        `json:"date" binding:"required"`
	Subtotal   decimal.Decimal  `json:"subtotal"`
	VATAmount  *decimal.Decimal `json:"vat_amount"`
	Notes      string           `json:"notes"`
}

// UpdateInvoiceAmountsInput edits an open invoice's amounts
type UpdateInvoiceAmountsInput struct {
	Subtotal  decimal.Decimal `json:"subtotal"`
	VATAmount decimal.Decimal `json:"vat_amount"`
}

// InvoiceInfo is the invoice shape returned to clients
type InvoiceInfo struct {
	ID         uuid.UUID       `json:"id"`
	BusinessID uuid.UUID       `json:"business_id"`
	SupplierID uuid.UUID       `json:"supplier_id"`
	Number     string          `json:"number"`
	Date       time.Time       `json:"date"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	VATAmount  decimal.Decimal `json:"vat_amount"`
	Total      decimal.Decimal `json:"total"`
	Status     string          `json:"status"`
	FileURL    string          `json:"file_url,omitempty"`
	Notes      string          `json:"notes,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// CreatePaymentInput schedules a payment to a supplier.
// With a zero FirstDueDate the supplier's EOM+N terms derive it from Date.
type CreatePaymentInput struct {
	SupplierID   uuid.UUID       `json:"supplier_id" binding:"required"`
	InvoiceID    *uuid.UUID      `json:"invoice_id"`
	Amount       decimal.Decimal `json:"amount"`
	Method       string          `json:"method" binding:"required"`
	Installments int             `json:"installments"`
	Date         time.Time       `json:"date"`
	FirstDueDate time.Time       `json:"first_due_date"`
	Notes        string          `json:"notes"`
}

// ReschedulePaymentInput replaces a pending payment's terms and rebuilds
// its installments
type ReschedulePaymentInput struct {
	Amount       decimal.Decimal `json:"amount"`
	Installments int             `json:"installments"`
	FirstDueDate time.Time       `json:"first_due_date" binding:"required"`
}

// SplitInfo is one installment returned to clients
type SplitInfo struct {
	ID        uuid.UUID       `json:"id"`
	PaymentID uuid.UUID       `json:"payment_id"`
	Seq       int             `json:"seq"`
	DueDate   time.Time       `json:"due_date"`
	Amount    decimal.Decimal `json:"amount"`
	Paid      bool            `json:"paid"`
	PaidAt    *time.Time      `json:"paid_at,omitempty"`
	Overdue   bool            `json:"overdue"`
}

// PaymentInfo is the payment shape returned to clients
type PaymentInfo struct {
	ID           uuid.UUID       `json:"id"`
	BusinessID   uuid.UUID       `json:"business_id"`
	SupplierID   uuid.UUID       `json:"supplier_id"`
	InvoiceID    *uuid.UUID      `json:"invoice_id,omitempty"`
	Amount       decimal.Decimal `json:"amount"`
	Method       string          `json:"method"`
	Installments int             `json:"installments"`
	FirstDueDate time.Time       `json:"first_due_date"`
	Status       string          `json:"status"`
	Notes        string          `json:"notes,omitempty"`
	Splits       []SplitInfo     `json:"splits,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func toSupplierInfo(s *ledger.Supplier) SupplierInfo {
	return SupplierInfo{
		ID:               s.ID,
		BusinessID:       s.BusinessID,
		Name:             s.Name,
		Category:         string(s.Category),
		ContactName:      s.ContactName,
		Phone:            s.Phone,
		Email:            s.Email,
		TaxID:            s.TaxID,
		PaymentTermsDays: s.PaymentTermsDays,
		Active:           s.Active,
		Notes:            s.Notes,
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
	}
}

func toInvoiceInfo(i *ledger.Invoice) InvoiceInfo {
	return InvoiceInfo{
		ID:         i.ID,
		BusinessID: i.BusinessID,
		SupplierID: i.SupplierID,
		Number:     i.Number,
		Date:       i.Date,
		Subtotal:   i.Subtotal,
		VATAmount:  i.VATAmount,
		Total:      i.Total,
		Status:     string(i.Status),
		FileURL:    i.FileURL,
		Notes:      i.Notes,
		CreatedAt:  i.CreatedAt,
		UpdatedAt:  i.UpdatedAt,
	}
}

func toSplitInfo(s *ledger.PaymentSplit, today time.Time) SplitInfo {
	return SplitInfo{
		ID:        s.ID,
		PaymentID: s.PaymentID,
		Seq:       s.Seq,
		DueDate:   s.DueDate,
		Amount:    s.Amount,
		Paid:      s.Paid,
		PaidAt:    s.PaidAt,
		Overdue:   s.IsOverdue(today),
	}
}

func toPaymentInfo(p *ledger.Payment, splits []ledger.PaymentSplit, today time.Time) PaymentInfo {
	info := PaymentInfo{
		ID:           p.ID,
		BusinessID:   p.BusinessID,
		SupplierID:   p.SupplierID,
		InvoiceID:    p.InvoiceID,
		Amount:       p.Amount,
		Method:       string(p.Method),
		Installments: p.Installments,
		FirstDueDate: p.FirstDueDate,
		Status:       string(p.Status),
		Notes:        p.Notes,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
	for i := range splits {
		info.Splits = append(info.Splits, toSplitInfo(&splits[i], today))
	}
	return info
}
