package business

import (
	"context"
	"errors"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bizfin/backend/internal/domain/business"
	"github.com/bizfin/backend/internal/domain/shared"
)

// BusinessService handles business and weekly schedule management
type BusinessService struct {
	businessRepo   business.BusinessRepository
	scheduleRepo   business.ScheduleRepository
	eventPublisher shared.EventPublisher
	changeNotifier shared.ChangeNotifier
	logger         *zap.Logger
}

// NewBusinessService creates a new business service
func NewBusinessService(
	businessRepo business.BusinessRepository,
	scheduleRepo business.ScheduleRepository,
	eventPublisher shared.EventPublisher,
	changeNotifier shared.ChangeNotifier,
	logger *zap.Logger,
) *BusinessService {
	return &BusinessService{
		businessRepo:   businessRepo,
		scheduleRepo:   scheduleRepo,
		eventPublisher: eventPublisher,
		changeNotifier: changeNotifier,
		logger:         logger,
	}
}

// CreateBusiness creates a business owned by the caller
func (s *BusinessService) CreateBusiness(ctx context.Context, ownerID uuid.UUID, input CreateBusinessInput) (*BusinessInfo, error) {
	b, err := business.NewBusiness(ownerID, input.Name, business.BusinessType(input.Type))
	if err != nil {
		return nil, err
	}

	if err := s.businessRepo.Save(ctx, b); err != nil {
		s.logger.Error("Failed to save business", zap.Error(err))
		return nil, shared.NewDomainError("BUSINESS_CREATE_FAILED", "Failed to create business")
	}

	s.publishEvents(ctx, b)
	s.notifyChange(ctx, b.ID, b.ID, shared.ChangeActionInsert)

	s.logger.Info("Business created",
		zap.String("business_id", b.ID.String()),
		zap.String("owner_id", ownerID.String()))

	info := toBusinessInfo(b)
	return &info, nil
}

// GetBusiness returns a business the caller owns
func (s *BusinessService) GetBusiness(ctx context.Context, ownerID, businessID uuid.UUID) (*BusinessInfo, error) {
	b, err := s.findOwned(ctx, ownerID, businessID)
	if err != nil {
		return nil, err
	}
	info := toBusinessInfo(b)
	return &info, nil
}

// ListBusinesses returns all businesses the caller owns
func (s *BusinessService) ListBusinesses(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]BusinessInfo, error) {
	items, err := s.businessRepo.FindByOwner(ctx, ownerID, filter)
	if err != nil {
		s.logger.Error("Failed to list businesses", zap.Error(err))
		return nil, err
	}

	infos := make([]BusinessInfo, len(items))
	for i := range items {
		infos[i] = toBusinessInfo(&items[i])
	}
	return infos, nil
}

// UpdateBusiness updates the details of a business the caller owns
func (s *BusinessService) UpdateBusiness(ctx context.Context, ownerID, businessID uuid.UUID, input UpdateBusinessInput) (*BusinessInfo, error) {
	b, err := s.findOwned(ctx, ownerID, businessID)
	if err != nil {
		return nil, err
	}

	if err := b.Update(input.Name, business.BusinessType(input.Type), input.Notes); err != nil {
		return nil, err
	}

	if err := s.businessRepo.Save(ctx, b); err != nil {
		s.logger.Error("Failed to save business", zap.Error(err))
		return nil, shared.NewDomainError("BUSINESS_UPDATE_FAILED", "Failed to update business")
	}

	s.publishEvents(ctx, b)
	s.notifyChange(ctx, b.ID, b.ID, shared.ChangeActionUpdate)

	info := toBusinessInfo(b)
	return &info, nil
}

// UpdateSettings updates VAT rate and currency
func (s *BusinessService) UpdateSettings(ctx context.Context, ownerID, businessID uuid.UUID, input UpdateSettingsInput) (*BusinessInfo, error) {
	b, err := s.findOwned(ctx, ownerID, businessID)
	if err != nil {
		return nil, err
	}

	if input.VATRate != nil {
		if err := b.SetVATRate(*input.VATRate); err != nil {
			return nil, err
		}
	}
	if input.Currency != "" {
		if err := b.SetCurrency(input.Currency); err != nil {
			return nil, err
		}
	}

	if err := s.businessRepo.Save(ctx, b); err != nil {
		s.logger.Error("Failed to save business", zap.Error(err))
		return nil, shared.NewDomainError("BUSINESS_UPDATE_FAILED", "Failed to update business")
	}

	s.notifyChange(ctx, b.ID, b.ID, shared.ChangeActionUpdate)

	info := toBusinessInfo(b)
	return &info, nil
}

// DeactivateBusiness hides the business from active listings
func (s *BusinessService) DeactivateBusiness(ctx context.Context, ownerID, businessID uuid.UUID) error {
	b, err := s.findOwned(ctx, ownerID, businessID)
	if err != nil {
		return err
	}

	if err := b.Deactivate(); err != nil {
		return err
	}

	if err := s.businessRepo.Save(ctx, b); err != nil {
		s.logger.Error("Failed to save business", zap.Error(err))
		return shared.NewDomainError("BUSINESS_UPDATE_FAILED", "Failed to update business")
	}

	s.notifyChange(ctx, b.ID, b.ID, shared.ChangeActionUpdate)
	return nil
}

// GetSchedule returns the weekly schedule ordered by weekday
func (s *BusinessService) GetSchedule(ctx context.Context, ownerID, businessID uuid.UUID) ([]ScheduleDayInfo, error) {
	if _, err := s.findOwned(ctx, ownerID, businessID); err != nil {
		return nil, err
	}

	week, err := s.scheduleRepo.FindByBusiness(ctx, businessID)
	if err != nil {
		s.logger.Error("Failed to load schedule", zap.Error(err))
		return nil, err
	}

	infos := make([]ScheduleDayInfo, len(week))
	for i := range week {
		infos[i] = toScheduleDayInfo(&week[i])
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Weekday < infos[j].Weekday })
	return infos, nil
}

// UpsertSchedule replaces the submitted weekday rows, creating missing ones
func (s *BusinessService) UpsertSchedule(ctx context.Context, ownerID, businessID uuid.UUID, input UpsertScheduleInput) ([]ScheduleDayInfo, error) {
	if _, err := s.findOwned(ctx, ownerID, businessID); err != nil {
		return nil, err
	}

	seen := make(map[int]bool, len(input.Days))
	for _, day := range input.Days {
		if seen[day.Weekday] {
			return nil, shared.NewDomainError("DUPLICATE_WEEKDAY", "Each weekday can appear only once")
		}
		seen[day.Weekday] = true
	}

	for _, dayInput := range input.Days {
		existing, err := s.scheduleRepo.FindByWeekday(ctx, businessID, dayInput.Weekday)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			s.logger.Error("Failed to load schedule row", zap.Error(err))
			return nil, err
		}

		var row *business.ScheduleDay
		if existing != nil {
			if err := existing.Set(dayInput.Open, dayInput.OpenTime, dayInput.CloseTime); err != nil {
				return nil, err
			}
			row = existing
		} else {
			row, err = business.NewScheduleDay(businessID, dayInput.Weekday, dayInput.Open, dayInput.OpenTime, dayInput.CloseTime)
			if err != nil {
				return nil, err
			}
		}

		if err := s.scheduleRepo.Save(ctx, row); err != nil {
			s.logger.Error("Failed to save schedule row", zap.Error(err))
			return nil, shared.NewDomainError("SCHEDULE_UPDATE_FAILED", "Failed to update schedule")
		}

		s.notifyScheduleChange(ctx, businessID, row.ID)
	}

	return s.GetSchedule(ctx, ownerID, businessID)
}

func (s *BusinessService) findOwned(ctx context.Context, ownerID, businessID uuid.UUID) (*business.Business, error) {
	b, err := s.businessRepo.FindByID(ctx, businessID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("BUSINESS_NOT_FOUND", "Business not found")
		}
		s.logger.Error("Failed to load business", zap.Error(err))
		return nil, err
	}
	if !b.IsOwnedBy(ownerID) {
		return nil, shared.ErrForbidden
	}
	return b, nil
}

func (s *BusinessService) publishEvents(ctx context.Context, b *business.Business) {
	events := b.GetDomainEvents()
	if len(events) == 0 || s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Error("Failed to publish business events", zap.Error(err))
	}
	b.ClearDomainEvents()
}

func (s *BusinessService) notifyChange(ctx context.Context, businessID, rowID uuid.UUID, action shared.ChangeAction) {
	if s.changeNotifier == nil {
		return
	}
	err := s.changeNotifier.Publish(ctx, shared.ChangeEvent{
		Table:      business.Business{}.TableName(),
		Action:     action,
		BusinessID: businessID,
		RowID:      rowID,
	})
	if err != nil {
		s.logger.Warn("Failed to publish change event", zap.Error(err))
	}
}

func (s *BusinessService) notifyScheduleChange(ctx context.Context, businessID, rowID uuid.UUID) {
	if s.changeNotifier == nil {
		return
	}
	err := s.changeNotifier.Publish(ctx, shared.ChangeEvent{
		Table:      business.ScheduleDay{}.TableName(),
		Action:     shared.ChangeActionUpdate,
		BusinessID: businessID,
		RowID:      rowID,
	})
	if err != nil {
		s.logger.Warn("Failed to publish change event", zap.Error(err))
	}
}
