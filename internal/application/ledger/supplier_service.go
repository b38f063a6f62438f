package ledger

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bizfin/backend/internal/domain/ledger"
	"github.com/bizfin/backend/internal/domain/shared"
)

// SupplierService manages the supplier catalog
type SupplierService struct {
	supplierRepo   ledger.SupplierRepository
	eventPublisher shared.EventPublisher
	changeNotifier shared.ChangeNotifier
	logger         *zap.Logger
}

// NewSupplierService creates a new supplier service
func NewSupplierService(
	supplierRepo ledger.SupplierRepository,
	eventPublisher shared.EventPublisher,
	changeNotifier shared.ChangeNotifier,
	logger *zap.Logger,
) *SupplierService {
	return &SupplierService{
		supplierRepo:   supplierRepo,
		eventPublisher: eventPublisher,
		changeNotifier: changeNotifier,
		logger:         logger,
	}
}

// CreateSupplier creates a supplier in the business's catalog
func (s *SupplierService) CreateSupplier(ctx context.Context, businessID uuid.UUID, input CreateSupplierInput) (*SupplierInfo, error) {
	supplier, err := ledger.NewSupplier(businessID, input.Name, ledger.SupplierCategory(input.Category))
	if err != nil {
		return nil, err
	}

	if err := s.applyDetails(supplier, input.ContactName, input.Phone, input.Email, input.TaxID, input.PaymentTermsDays); err != nil {
		return nil, err
	}
	supplier.Notes = input.Notes

	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		s.logger.Error("Failed to save supplier", zap.Error(err))
		return nil, shared.NewDomainError("SUPPLIER_SAVE_FAILED", "Failed to save supplier")
	}

	s.publishEvents(ctx, supplier)
	s.notifyChange(ctx, businessID, supplier.ID, shared.ChangeActionInsert)

	s.logger.Info("Supplier created",
		zap.String("business_id", businessID.String()),
		zap.String("supplier_id", supplier.ID.String()))

	info := toSupplierInfo(supplier)
	return &info, nil
}

// GetSupplier returns one supplier
func (s *SupplierService) GetSupplier(ctx context.Context, businessID, supplierID uuid.UUID) (*SupplierInfo, error) {
	supplier, err := s.find(ctx, businessID, supplierID)
	if err != nil {
		return nil, err
	}
	info := toSupplierInfo(supplier)
	return &info, nil
}

// ListSuppliers returns suppliers for a business, optionally active only
func (s *SupplierService) ListSuppliers(ctx context.Context, businessID uuid.UUID, activeOnly bool, filter shared.Filter) ([]SupplierInfo, error) {
	var (
		items []ledger.Supplier
		err   error
	)
	if activeOnly {
		items, err = s.supplierRepo.FindActive(ctx, businessID, filter)
	} else {
		items, err = s.supplierRepo.FindAllForBusiness(ctx, businessID, filter)
	}
	if err != nil {
		s.logger.Error("Failed to list suppliers", zap.Error(err))
		return nil, err
	}

	infos := make([]SupplierInfo, len(items))
	for i := range items {
		infos[i] = toSupplierInfo(&items[i])
	}
	return infos, nil
}

// UpdateSupplier updates a supplier's details, contacts and terms
func (s *SupplierService) UpdateSupplier(ctx context.Context, businessID, supplierID uuid.UUID, input UpdateSupplierInput) (*SupplierInfo, error) {
	supplier, err := s.find(ctx, businessID, supplierID)
	if err != nil {
		return nil, err
	}

	if err := supplier.Update(input.Name, ledger.SupplierCategory(input.Category), input.Notes); err != nil {
		return nil, err
	}
	if err := s.applyDetails(supplier, input.ContactName, input.Phone, input.Email, input.TaxID, input.PaymentTermsDays); err != nil {
		return nil, err
	}

	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		s.logger.Error("Failed to save supplier", zap.Error(err))
		return nil, shared.NewDomainError("SUPPLIER_SAVE_FAILED", "Failed to save supplier")
	}

	s.publishEvents(ctx, supplier)
	s.notifyChange(ctx, businessID, supplier.ID, shared.ChangeActionUpdate)

	info := toSupplierInfo(supplier)
	return &info, nil
}

// DeactivateSupplier hides the supplier from active listings. Historical
// invoices and payments keep pointing at it.
func (s *SupplierService) DeactivateSupplier(ctx context.Context, businessID, supplierID uuid.UUID) error {
	return s.setActive(ctx, businessID, supplierID, false)
}

// ActivateSupplier re-enables a deactivated supplier
func (s *SupplierService) ActivateSupplier(ctx context.Context, businessID, supplierID uuid.UUID) error {
	return s.setActive(ctx, businessID, supplierID, true)
}

func (s *SupplierService) setActive(ctx context.Context, businessID, supplierID uuid.UUID, active bool) error {
	supplier, err := s.find(ctx, businessID, supplierID)
	if err != nil {
		return err
	}

	if active {
		err = supplier.Activate()
	} else {
		err = supplier.Deactivate()
	}
	if err != nil {
		return err
	}

	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		s.logger.Error("Failed to save supplier", zap.Error(err))
		return shared.NewDomainError("SUPPLIER_SAVE_FAILED", "Failed to save supplier")
	}

	s.notifyChange(ctx, businessID, supplier.ID, shared.ChangeActionUpdate)
	return nil
}

func (s *SupplierService) applyDetails(supplier *ledger.Supplier, contactName, phone, email, taxID string, termsDays int) error {
	if err := supplier.SetContact(contactName, phone, email); err != nil {
		return err
	}
	if err := supplier.SetTaxID(taxID); err != nil {
		return err
	}
	return supplier.SetPaymentTerms(termsDays)
}

func (s *SupplierService) find(ctx context.Context, businessID, supplierID uuid.UUID) (*ledger.Supplier, error) {
	supplier, err := s.supplierRepo.FindByIDForBusiness(ctx, businessID, supplierID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("SUPPLIER_NOT_FOUND", "Supplier not found")
		}
		s.logger.Error("Failed to load supplier", zap.Error(err))
		return nil, err
	}
	return supplier, nil
}

func (s *SupplierService) publishEvents(ctx context.Context, supplier *ledger.Supplier) {
	events := supplier.GetDomainEvents()
	if len(events) == 0 || s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Error("Failed to publish supplier events", zap.Error(err))
	}
	supplier.ClearDomainEvents()
}

func (s *SupplierService) notifyChange(ctx context.Context, businessID, rowID uuid.UUID, action shared.ChangeAction) {
	if s.changeNotifier == nil {
		return
	}
	err := s.changeNotifier.Publish(ctx, shared.ChangeEvent{
		Table:      ledger.Supplier{}.TableName(),
		Action:     action,
		BusinessID: businessID,
		RowID:      rowID,
	})
	if err != nil {
		s.logger.Warn("Failed to publish change event", zap.Error(err))
	}
}
