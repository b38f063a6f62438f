package ledger

import (
	"context"
	"time"

	"github.com/bizfin/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SupplierRepository defines the interface for supplier persistence
type SupplierRepository interface {
	// FindByIDForBusiness finds a supplier by ID within a business
	FindByIDForBusiness(ctx context.Context, businessID, id uuid.UUID) (*Supplier, error)

	// FindAllForBusiness finds all suppliers for a business
	FindAllForBusiness(ctx context.Context, businessID uuid.UUID, filter shared.Filter) ([]Supplier, error)

	// FindActive finds active suppliers for a business
	FindActive(ctx context.Context, businessID uuid.UUID, filter shared.Filter) ([]Supplier, error)

	// CountForBusiness counts suppliers for a business
	CountForBusiness(ctx context.Context, businessID uuid.UUID, filter shared.Filter) (int64, error)

	// Save creates or updates a supplier
	Save(ctx context.Context, supplier *Supplier) error

	// DeleteForBusiness deletes a supplier within a business
	DeleteForBusiness(ctx context.Context, businessID, id uuid.UUID) error
}

// InvoiceRepository defines the interface for invoice persistence
type InvoiceRepository interface {
	// FindByIDForBusiness finds an invoice by ID within a business
	FindByIDForBusiness(ctx context.Context, businessID, id uuid.UUID) (*Invoice, error)

	// FindByNumber finds an invoice by its number within a business
	FindByNumber(ctx context.Context, businessID uuid.UUID, number string) (*Invoice, error)

	// ExistsByNumber checks whether an invoice number exists in the business
	ExistsByNumber(ctx context.Context, businessID uuid.UUID, number string) (bool, error)

	// FindAllForBusiness finds all invoices for a business
	FindAllForBusiness(ctx context.Context, businessID uuid.UUID, filter shared.Filter) ([]Invoice, error)

	// FindBySupplier finds invoices for a supplier
	FindBySupplier(ctx context.Context, businessID, supplierID uuid.UUID, filter shared.Filter) ([]Invoice, error)

	// CountForBusiness counts invoices for a business
	CountForBusiness(ctx context.Context, businessID uuid.UUID, filter shared.Filter) (int64, error)

	// Save creates or updates an invoice
	Save(ctx context.Context, invoice *Invoice) error

	// DeleteForBusiness deletes an invoice within a business
	DeleteForBusiness(ctx context.Context, businessID, id uuid.UUID) error
}

// PaymentRepository defines the interface for payment and split persistence.
// A payment and its splits are saved and deleted together.
type PaymentRepository interface {
	// FindByIDForBusiness finds a payment by ID within a business
	FindByIDForBusiness(ctx context.Context, businessID, id uuid.UUID) (*Payment, error)

	// FindAllForBusiness finds all payments for a business
	FindAllForBusiness(ctx context.Context, businessID uuid.UUID, filter shared.Filter) ([]Payment, error)

	// FindBySupplier finds payments for a supplier
	FindBySupplier(ctx context.Context, businessID, supplierID uuid.UUID, filter shared.Filter) ([]Payment, error)

	// CountForBusiness counts payments for a business
	CountForBusiness(ctx context.Context, businessID uuid.UUID, filter shared.Filter) (int64, error)

	// Save creates or updates a payment
	Save(ctx context.Context, payment *Payment) error

	// SaveWithSplits saves a payment and atomically replaces its splits
	SaveWithSplits(ctx context.Context, payment *Payment, splits []PaymentSplit) error

	// DeleteForBusiness deletes a payment and its splits within a business
	DeleteForBusiness(ctx context.Context, businessID, id uuid.UUID) error

	// FindSplitsByPayment returns a payment's splits ordered by sequence
	FindSplitsByPayment(ctx context.Context, businessID, paymentID uuid.UUID) ([]PaymentSplit, error)

	// FindSplitByID finds a single split within a business
	FindSplitByID(ctx context.Context, businessID, splitID uuid.UUID) (*PaymentSplit, error)

	// FindUnpaidSplitsDueBetween returns unpaid splits with due dates in
	// [from, to) for forecasting
	FindUnpaidSplitsDueBetween(ctx context.Context, businessID uuid.UUID, from, to time.Time) ([]PaymentSplit, error)

	// FindUnpaidSplits returns all unpaid splits for a business
	FindUnpaidSplits(ctx context.Context, businessID uuid.UUID) ([]PaymentSplit, error)

	// SaveSplit updates a single split
	SaveSplit(ctx context.Context, split *PaymentSplit) error

	// SumSplitsDueInMonth sums all splits (paid or not) whose due date falls
	// in the month containing the given date; feeds the goals dashboard's
	// operating expense actual
	SumSplitsDueInMonth(ctx context.Context, businessID uuid.UUID, month time.Time) (decimal.Decimal, error)
}
