package ledger

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bizfin/backend/internal/domain/business"
	"github.com/bizfin/backend/internal/domain/ledger"
	"github.com/bizfin/backend/internal/domain/shared"
)

// InvoiceService records supplier invoices. VAT defaults to the business's
// configured rate unless the invoice carries an explicit amount.
type InvoiceService struct {
	invoiceRepo    ledger.InvoiceRepository
	supplierRepo   ledger.SupplierRepository
	businessRepo   business.BusinessRepository
	eventPublisher shared.EventPublisher
	changeNotifier shared.ChangeNotifier
	logger         *zap.Logger
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(
	invoiceRepo ledger.InvoiceRepository,
	supplierRepo ledger.SupplierRepository,
	businessRepo business.BusinessRepository,
	eventPublisher shared.EventPublisher,
	changeNotifier shared.ChangeNotifier,
	logger *zap.Logger,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo:    invoiceRepo,
		supplierRepo:   supplierRepo,
		businessRepo:   businessRepo,
		eventPublisher: eventPublisher,
		changeNotifier: changeNotifier,
		logger:         logger,
	}
}

// CreateInvoice records an invoice against a supplier
func (s *InvoiceService) CreateInvoice(ctx context.Context, businessID uuid.UUID, input CreateInvoiceInput) (*InvoiceInfo, error) {
	if _, err := s.supplierRepo.FindByIDForBusiness(ctx, businessID, input.SupplierID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("SUPPLIER_NOT_FOUND", "Supplier not found")
		}
		s.logger.Error("Failed to load supplier", zap.Error(err))
		return nil, err
	}

	exists, err := s.invoiceRepo.ExistsByNumber(ctx, businessID, input.Number)
	if err != nil {
		s.logger.Error("Failed to check invoice number", zap.Error(err))
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("DUPLICATE_NUMBER", "An invoice with this number already exists")
	}

	var invoice *ledger.Invoice
	if input.VATAmount != nil {
		invoice, err = ledger.NewInvoiceWithVAT(businessID, input.SupplierID, input.Number, input.Date, input.Subtotal, *input.VATAmount)
	} else {
		b, berr := s.businessRepo.FindByID(ctx, businessID)
		if berr != nil {
			s.logger.Error("Failed to load business", zap.Error(berr))
			return nil, berr
		}
		invoice, err = ledger.NewInvoice(businessID, input.SupplierID, input.Number, input.Date, input.Subtotal, b.VATRate)
	}
	if err != nil {
		return nil, err
	}
	invoice.Notes = input.Notes

	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		s.logger.Error("Failed to save invoice", zap.Error(err))
		return nil, shared.NewDomainError("INVOICE_SAVE_FAILED", "Failed to save invoice")
	}

	s.publishEvents(ctx, invoice)
	s.notifyChange(ctx, businessID, invoice.ID, shared.ChangeActionInsert)

	s.logger.Info("Invoice recorded",
		zap.String("business_id", businessID.String()),
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("number", invoice.Number))

	info := toInvoiceInfo(invoice)
	return &info, nil
}

// GetInvoice returns one invoice
func (s *InvoiceService) GetInvoice(ctx context.Context, businessID, invoiceID uuid.UUID) (*InvoiceInfo, error) {
	invoice, err := s.find(ctx, businessID, invoiceID)
	if err != nil {
		return nil, err
	}
	info := toInvoiceInfo(invoice)
	return &info, nil
}

// ListInvoices returns invoices for a business
func (s *InvoiceService) ListInvoices(ctx context.Context, businessID uuid.UUID, filter shared.Filter) ([]InvoiceInfo, error) {
	items, err := s.invoiceRepo.FindAllForBusiness(ctx, businessID, filter)
	if err != nil {
		s.logger.Error("Failed to list invoices", zap.Error(err))
		return nil, err
	}
	return toInvoiceInfos(items), nil
}

// ListBySupplier returns a supplier's invoices
func (s *InvoiceService) ListBySupplier(ctx context.Context, businessID, supplierID uuid.UUID, filter shared.Filter) ([]InvoiceInfo, error) {
	items, err := s.invoiceRepo.FindBySupplier(ctx, businessID, supplierID, filter)
	if err != nil {
		s.logger.Error("Failed to list supplier invoices", zap.Error(err))
		return nil, err
	}
	return toInvoiceInfos(items), nil
}

// UpdateAmounts edits an open invoice's amounts
func (s *InvoiceService) UpdateAmounts(ctx context.Context, businessID, invoiceID uuid.UUID, input UpdateInvoiceAmountsInput) (*InvoiceInfo, error) {
	invoice, err := s.find(ctx, businessID, invoiceID)
	if err != nil {
		return nil, err
	}

	if err := invoice.UpdateAmounts(input.Subtotal, input.VATAmount); err != nil {
		return nil, err
	}

	return s.save(ctx, invoice)
}

// AttachFile links an uploaded scanned copy to the invoice
func (s *InvoiceService) AttachFile(ctx context.Context, businessID, invoiceID uuid.UUID, fileURL string) (*InvoiceInfo, error) {
	invoice, err := s.find(ctx, businessID, invoiceID)
	if err != nil {
		return nil, err
	}

	if err := invoice.AttachFile(fileURL); err != nil {
		return nil, err
	}

	return s.save(ctx, invoice)
}

// MarkPaid settles the invoice
func (s *InvoiceService) MarkPaid(ctx context.Context, businessID, invoiceID uuid.UUID) (*InvoiceInfo, error) {
	invoice, err := s.find(ctx, businessID, invoiceID)
	if err != nil {
		return nil, err
	}

	if err := invoice.MarkPaid(); err != nil {
		return nil, err
	}

	return s.save(ctx, invoice)
}

// Reopen returns a paid invoice to open
func (s *InvoiceService) Reopen(ctx context.Context, businessID, invoiceID uuid.UUID) (*InvoiceInfo, error) {
	invoice, err := s.find(ctx, businessID, invoiceID)
	if err != nil {
		return nil, err
	}

	if err := invoice.Reopen(); err != nil {
		return nil, err
	}

	return s.save(ctx, invoice)
}

// Cancel voids the invoice
func (s *InvoiceService) Cancel(ctx context.Context, businessID, invoiceID uuid.UUID) (*InvoiceInfo, error) {
	invoice, err := s.find(ctx, businessID, invoiceID)
	if err != nil {
		return nil, err
	}

	if err := invoice.Cancel(); err != nil {
		return nil, err
	}

	return s.save(ctx, invoice)
}

func (s *InvoiceService) find(ctx context.Context, businessID, invoiceID uuid.UUID) (*ledger.Invoice, error) {
	invoice, err := s.invoiceRepo.FindByIDForBusiness(ctx, businessID, invoiceID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INVOICE_NOT_FOUND", "Invoice not found")
		}
		s.logger.Error("Failed to load invoice", zap.Error(err))
		return nil, err
	}
	return invoice, nil
}

func (s *InvoiceService) save(ctx context.Context, invoice *ledger.Invoice) (*InvoiceInfo, error) {
	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		s.logger.Error("Failed to save invoice", zap.Error(err))
		return nil, shared.NewDomainError("INVOICE_SAVE_FAILED", "Failed to save invoice")
	}

	s.publishEvents(ctx, invoice)
	s.notifyChange(ctx, invoice.BusinessID, invoice.ID, shared.ChangeActionUpdate)

	info := toInvoiceInfo(invoice)
	return &info, nil
}

func toInvoiceInfos(items []ledger.Invoice) []InvoiceInfo {
	infos := make([]InvoiceInfo, len(items))
	for i := range items {
		infos[i] = toInvoiceInfo(&items[i])
	}
	return infos
}

func (s *InvoiceService) publishEvents(ctx context.Context, invoice *ledger.Invoice) {
	events := invoice.GetDomainEvents()
	if len(events) == 0 || s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Error("Failed to publish invoice events", zap.Error(err))
	}
	invoice.ClearDomainEvents()
}

func (s *InvoiceService) notifyChange(ctx context.Context, businessID, rowID uuid.UUID, action shared.ChangeAction) {
	if s.changeNotifier == nil {
		return
	}
	err := s.changeNotifier.Publish(ctx, shared.ChangeEvent{
		Table:      ledger.Invoice{}.TableName(),
		Action:     action,
		BusinessID: businessID,
		RowID:      rowID,
	})
	if err != nil {
		s.logger.Warn("Failed to publish change event", zap.Error(err))
	}
}
