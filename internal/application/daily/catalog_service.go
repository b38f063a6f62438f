package daily

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bizfin/backend/internal/domain/daily"
	"github.com/bizfin/backend/internal/domain/shared"
)

// CatalogService manages the daily collection form's building blocks:
// income sources and managed products
type CatalogService struct {
	sourceRepo     daily.IncomeSourceRepository
	productRepo    daily.ManagedProductRepository
	eventPublisher shared.EventPublisher
	changeNotifier shared.ChangeNotifier
	logger         *zap.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(
	sourceRepo daily.IncomeSourceRepository,
	productRepo daily.ManagedProductRepository,
	eventPublisher shared.EventPublisher,
	changeNotifier shared.ChangeNotifier,
	logger *zap.Logger,
) *CatalogService {
	return &CatalogService{
		sourceRepo:     sourceRepo,
		productRepo:    productRepo,
		eventPublisher: eventPublisher,
		changeNotifier: changeNotifier,
		logger:         logger,
	}
}

// CreateIncomeSource adds a revenue channel
func (s *CatalogService) CreateIncomeSource(ctx context.Context, businessID uuid.UUID, input CreateIncomeSourceInput) (*IncomeSourceInfo, error) {
	source, err := daily.NewIncomeSource(businessID, input.Name, input.SortOrder)
	if err != nil {
		return nil, err
	}

	if err := s.sourceRepo.Save(ctx, source); err != nil {
		s.logger.Error("Failed to save income source", zap.Error(err))
		return nil, shared.NewDomainError("SOURCE_SAVE_FAILED", "Failed to save income source")
	}

	s.publishSourceEvents(ctx, source)
	s.notifyChange(ctx, daily.IncomeSource{}.TableName(), businessID, source.ID, shared.ChangeActionInsert)

	info := toIncomeSourceInfo(source)
	return &info, nil
}

// ListIncomeSources lists the business's revenue channels
func (s *CatalogService) ListIncomeSources(ctx context.Context, businessID uuid.UUID, activeOnly bool) ([]IncomeSourceInfo, error) {
	items, err := s.sourceRepo.FindByBusiness(ctx, businessID, activeOnly)
	if err != nil {
		s.logger.Error("Failed to list income sources", zap.Error(err))
		return nil, err
	}

	infos := make([]IncomeSourceInfo, len(items))
	for i, item := range items {
		infos[i] = toIncomeSourceInfo(item)
	}
	return infos, nil
}

// UpdateIncomeSource renames or reorders a channel
func (s *CatalogService) UpdateIncomeSource(ctx context.Context, businessID, sourceID uuid.UUID, input UpdateIncomeSourceInput) (*IncomeSourceInfo, error) {
	source, err := s.findSource(ctx, businessID, sourceID)
	if err != nil {
		return nil, err
	}

	if err := source.Rename(input.Name); err != nil {
		return nil, err
	}
	source.SetSortOrder(input.SortOrder)

	if err := s.sourceRepo.Save(ctx, source); err != nil {
		s.logger.Error("Failed to save income source", zap.Error(err))
		return nil, shared.NewDomainError("SOURCE_SAVE_FAILED", "Failed to save income source")
	}

	s.notifyChange(ctx, daily.IncomeSource{}.TableName(), businessID, source.ID, shared.ChangeActionUpdate)

	info := toIncomeSourceInfo(source)
	return &info, nil
}

// DeactivateIncomeSource removes a channel from the form without touching
// historical entry lines
func (s *CatalogService) DeactivateIncomeSource(ctx context.Context, businessID, sourceID uuid.UUID) error {
	source, err := s.findSource(ctx, businessID, sourceID)
	if err != nil {
		return err
	}

	if err := source.Deactivate(); err != nil {
		return err
	}

	if err := s.sourceRepo.Save(ctx, source); err != nil {
		s.logger.Error("Failed to save income source", zap.Error(err))
		return shared.NewDomainError("SOURCE_SAVE_FAILED", "Failed to save income source")
	}

	s.notifyChange(ctx, daily.IncomeSource{}.TableName(), businessID, source.ID, shared.ChangeActionUpdate)
	return nil
}

// CreateManagedProduct adds a tracked product
func (s *CatalogService) CreateManagedProduct(ctx context.Context, businessID uuid.UUID, input CreateManagedProductInput) (*ManagedProductInfo, error) {
	product, err := daily.NewManagedProduct(businessID, input.Name, daily.ProductCategory(input.Category), input.Unit, input.UnitCost)
	if err != nil {
		return nil, err
	}
	product.SetSortOrder(input.SortOrder)

	if err := s.productRepo.Save(ctx, product); err != nil {
		s.logger.Error("Failed to save managed product", zap.Error(err))
		return nil, shared.NewDomainError("PRODUCT_SAVE_FAILED", "Failed to save product")
	}

	s.publishProductEvents(ctx, product)
	s.notifyChange(ctx, daily.ManagedProduct{}.TableName(), businessID, product.ID, shared.ChangeActionInsert)

	info := toManagedProductInfo(product)
	return &info, nil
}

// ListManagedProducts lists the business's tracked products
func (s *CatalogService) ListManagedProducts(ctx context.Context, businessID uuid.UUID, activeOnly bool) ([]ManagedProductInfo, error) {
	items, err := s.productRepo.FindByBusiness(ctx, businessID, activeOnly)
	if err != nil {
		s.logger.Error("Failed to list managed products", zap.Error(err))
		return nil, err
	}

	infos := make([]ManagedProductInfo, len(items))
	for i, item := range items {
		infos[i] = toManagedProductInfo(item)
	}
	return infos, nil
}

// UpdateManagedProduct edits a tracked product
func (s *CatalogService) UpdateManagedProduct(ctx context.Context, businessID, productID uuid.UUID, input UpdateManagedProductInput) (*ManagedProductInfo, error) {
	product, err := s.findProduct(ctx, businessID, productID)
	if err != nil {
		return nil, err
	}

	if err := product.Update(input.Name, daily.ProductCategory(input.Category), input.Unit, input.UnitCost); err != nil {
		return nil, err
	}
	product.SetSortOrder(input.SortOrder)

	if err := s.productRepo.Save(ctx, product); err != nil {
		s.logger.Error("Failed to save managed product", zap.Error(err))
		return nil, shared.NewDomainError("PRODUCT_SAVE_FAILED", "Failed to save product")
	}

	s.notifyChange(ctx, daily.ManagedProduct{}.TableName(), businessID, product.ID, shared.ChangeActionUpdate)

	info := toManagedProductInfo(product)
	return &info, nil
}

// DeactivateManagedProduct removes a product from the form without
// touching historical usage lines
func (s *CatalogService) DeactivateManagedProduct(ctx context.Context, businessID, productID uuid.UUID) error {
	product, err := s.findProduct(ctx, businessID, productID)
	if err != nil {
		return err
	}

	if err := product.Deactivate(); err != nil {
		return err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		s.logger.Error("Failed to save managed product", zap.Error(err))
		return shared.NewDomainError("PRODUCT_SAVE_FAILED", "Failed to save product")
	}

	s.notifyChange(ctx, daily.ManagedProduct{}.TableName(), businessID, product.ID, shared.ChangeActionUpdate)
	return nil
}

func (s *CatalogService) findSource(ctx context.Context, businessID, sourceID uuid.UUID) (*daily.IncomeSource, error) {
	source, err := s.sourceRepo.FindByID(ctx, businessID, sourceID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("SOURCE_NOT_FOUND", "Income source not found")
		}
		s.logger.Error("Failed to load income source", zap.Error(err))
		return nil, err
	}
	return source, nil
}

func (s *CatalogService) findProduct(ctx context.Context, businessID, productID uuid.UUID) (*daily.ManagedProduct, error) {
	product, err := s.productRepo.FindByID(ctx, businessID, productID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("PRODUCT_NOT_FOUND", "Product not found")
		}
		s.logger.Error("Failed to load managed product", zap.Error(err))
		return nil, err
	}
	return product, nil
}

func (s *CatalogService) publishSourceEvents(ctx context.Context, source *daily.IncomeSource) {
	events := source.GetDomainEvents()
	if len(events) == 0 || s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Error("Failed to publish income source events", zap.Error(err))
	}
	source.ClearDomainEvents()
}

func (s *CatalogService) publishProductEvents(ctx context.Context, product *daily.ManagedProduct) {
	events := product.GetDomainEvents()
	if len(events) == 0 || s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Error("Failed to publish product events", zap.Error(err))
	}
	product.ClearDomainEvents()
}

func (s *CatalogService) notifyChange(ctx context.Context, table string, businessID, rowID uuid.UUID, action shared.ChangeAction) {
	if s.changeNotifier == nil {
		return
	}
	err := s.changeNotifier.Publish(ctx, shared.ChangeEvent{
		Table:      table,
		Action:     action,
		BusinessID: businessID,
		RowID:      rowID,
	})
	if err != nil {
		s.logger.Warn("Failed to publish change event", zap.Error(err))
	}
}
