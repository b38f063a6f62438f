package daily

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/bizfin/backend/internal/domain/daily"
	"github.com/bizfin/backend/internal/domain/shared"
)

// EntryService records daily business figures. Each (business, date) has a
// single entry; submitting the same date again replaces its lines.
type EntryService struct {
	entryRepo      daily.DailyEntryRepository
	sourceRepo     daily.IncomeSourceRepository
	productRepo    daily.ManagedProductRepository
	eventPublisher shared.EventPublisher
	changeNotifier shared.ChangeNotifier
	logger         *zap.Logger
}

// NewEntryService creates a new entry service
func NewEntryService(
	entryRepo daily.DailyEntryRepository,
	sourceRepo daily.IncomeSourceRepository,
	productRepo daily.ManagedProductRepository,
	eventPublisher shared.EventPublisher,
	changeNotifier shared.ChangeNotifier,
	logger *zap.Logger,
) *EntryService {
	return &EntryService{
		entryRepo:      entryRepo,
		sourceRepo:     sourceRepo,
		productRepo:    productRepo,
		eventPublisher: eventPublisher,
		changeNotifier: changeNotifier,
		logger:         logger,
	}
}

// UpsertEntry records a day's figures, creating the entry or replacing the
// existing one for that date
func (s *EntryService) UpsertEntry(ctx context.Context, businessID uuid.UUID, input UpsertEntryInput) (*EntryInfo, error) {
	if err := s.validateReferences(ctx, businessID, input); err != nil {
		return nil, err
	}

	existing, err := s.entryRepo.FindByDate(ctx, businessID, input.Date)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		s.logger.Error("Failed to load daily entry", zap.Error(err))
		return nil, err
	}

	var (
		entry  *daily.DailyEntry
		action shared.ChangeAction
	)
	if existing != nil {
		entry = existing
		action = shared.ChangeActionUpdate
		entry.AddDomainEvent(daily.NewDailyEntryUpdatedEvent(entry))
	} else {
		entry = daily.NewDailyEntry(businessID, input.Date)
		action = shared.ChangeActionInsert
	}

	if err := s.applyInput(ctx, businessID, entry, input); err != nil {
		return nil, err
	}

	if err := s.entryRepo.Save(ctx, entry); err != nil {
		s.logger.Error("Failed to save daily entry", zap.Error(err))
		return nil, shared.NewDomainError("ENTRY_SAVE_FAILED", "Failed to save daily entry")
	}

	s.publishEvents(ctx, entry)
	s.notifyChange(ctx, businessID, entry.ID, action)

	s.logger.Info("Daily entry recorded",
		zap.String("business_id", businessID.String()),
		zap.String("date", entry.Date.Format("2006-01-02")))

	info := toEntryInfo(entry)
	return &info, nil
}

// GetEntryByDate returns the entry for a calendar date, or nil when the day
// has not been recorded
func (s *EntryService) GetEntryByDate(ctx context.Context, businessID uuid.UUID, date time.Time) (*EntryInfo, error) {
	entry, err := s.entryRepo.FindByDate(ctx, businessID, date)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil
		}
		s.logger.Error("Failed to load daily entry", zap.Error(err))
		return nil, err
	}

	info := toEntryInfo(entry)
	return &info, nil
}

// ListEntries returns entries in [from, to] inclusive
func (s *EntryService) ListEntries(ctx context.Context, businessID uuid.UUID, from, to time.Time) ([]EntryInfo, error) {
	entries, err := s.entryRepo.FindByDateRange(ctx, businessID, daily.DateOf(from), daily.DateOf(to))
	if err != nil {
		s.logger.Error("Failed to list daily entries", zap.Error(err))
		return nil, err
	}

	infos := make([]EntryInfo, len(entries))
	for i, e := range entries {
		infos[i] = toEntryInfo(e)
	}
	return infos, nil
}

// DeleteEntry removes a day's entry and its lines
func (s *EntryService) DeleteEntry(ctx context.Context, businessID, entryID uuid.UUID) error {
	if _, err := s.entryRepo.FindByID(ctx, businessID, entryID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("ENTRY_NOT_FOUND", "Daily entry not found")
		}
		return err
	}

	if err := s.entryRepo.Delete(ctx, businessID, entryID); err != nil {
		s.logger.Error("Failed to delete daily entry", zap.Error(err))
		return shared.NewDomainError("ENTRY_DELETE_FAILED", "Failed to delete daily entry")
	}

	s.notifyChange(ctx, businessID, entryID, shared.ChangeActionDelete)
	return nil
}

// validateReferences checks every referenced source and product belongs to
// the business
func (s *EntryService) validateReferences(ctx context.Context, businessID uuid.UUID, input UpsertEntryInput) error {
	for _, line := range input.RevenueLines {
		if _, err := s.sourceRepo.FindByID(ctx, businessID, line.IncomeSourceID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewDomainError("SOURCE_NOT_FOUND", "Income source not found")
			}
			return err
		}
	}
	for _, line := range input.UsageLines {
		if _, err := s.productRepo.FindByID(ctx, businessID, line.ProductID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewDomainError("PRODUCT_NOT_FOUND", "Product not found")
			}
			return err
		}
	}
	return nil
}

func (s *EntryService) applyInput(ctx context.Context, businessID uuid.UUID, entry *daily.DailyEntry, input UpsertEntryInput) error {
	revenueLines := make([]daily.RevenueLine, len(input.RevenueLines))
	for i, line := range input.RevenueLines {
		revenueLines[i] = daily.RevenueLine{
			IncomeSourceID: line.IncomeSourceID,
			Amount:         line.Amount,
		}
	}
	if err := entry.SetRevenueLines(revenueLines); err != nil {
		return err
	}

	unitCosts, err := s.unitCosts(ctx, businessID)
	if err != nil {
		return err
	}
	usageLines := make([]daily.UsageLine, len(input.UsageLines))
	for i, line := range input.UsageLines {
		usageLines[i] = daily.UsageLine{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Cost:      line.Cost,
		}
	}
	if err := entry.SetUsageLines(usageLines, unitCosts); err != nil {
		return err
	}

	if err := entry.SetLaborCost(input.LaborCost); err != nil {
		return err
	}
	if err := entry.SetCustomerCount(input.CustomerCount); err != nil {
		return err
	}
	entry.SetNotes(input.Notes)
	return nil
}

func (s *EntryService) unitCosts(ctx context.Context, businessID uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	products, err := s.productRepo.FindByBusiness(ctx, businessID, false)
	if err != nil {
		s.logger.Error("Failed to load managed products", zap.Error(err))
		return nil, err
	}

	costs := make(map[uuid.UUID]decimal.Decimal, len(products))
	for _, p := range products {
		costs[p.ID] = p.UnitCost
	}
	return costs, nil
}

func (s *EntryService) publishEvents(ctx context.Context, entry *daily.DailyEntry) {
	events := entry.GetDomainEvents()
	if len(events) == 0 || s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Error("Failed to publish entry events", zap.Error(err))
	}
	entry.ClearDomainEvents()
}

func (s *EntryService) notifyChange(ctx context.Context, businessID, rowID uuid.UUID, action shared.ChangeAction) {
	if s.changeNotifier == nil {
		return
	}
	err := s.changeNotifier.Publish(ctx, shared.ChangeEvent{
		Table:      daily.DailyEntry{}.TableName(),
		Action:     action,
		BusinessID: businessID,
		RowID:      rowID,
	})
	if err != nil {
		s.logger.Warn("Failed to publish change event", zap.Error(err))
	}
}
