package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bizfin/backend/internal/domain/identity"
	"github.com/bizfin/backend/internal/domain/shared"
)

// ProfileService handles self-service profile management
type ProfileService struct {
	profileRepo    identity.ProfileRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewProfileService creates a new profile service
func NewProfileService(
	profileRepo identity.ProfileRepository,
	eventPublisher shared.EventPublisher,
	logger *zap.Logger,
) *ProfileService {
	return &ProfileService{
		profileRepo:    profileRepo,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

// UpdateProfile updates the caller's own details
func (s *ProfileService) UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*ProfileInfo, error) {
	profile, err := s.findProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := profile.UpdateDetails(input.DisplayName, input.Phone, input.AvatarURL); err != nil {
		return nil, err
	}

	if err := s.profileRepo.Save(ctx, profile); err != nil {
		s.logger.Error("Failed to save profile", zap.Error(err))
		return nil, shared.NewDomainError("PROFILE_UPDATE_FAILED", "Failed to update profile")
	}

	s.publishEvents(ctx, profile)

	info := toProfileInfo(profile)
	return &info, nil
}

// ChangePassword changes the caller's password after verifying the current one
func (s *ProfileService) ChangePassword(ctx context.Context, userID uuid.UUID, input ChangePasswordInput) error {
	profile, err := s.findProfile(ctx, userID)
	if err != nil {
		return err
	}

	if err := profile.ChangePassword(input.CurrentPassword, input.NewPassword); err != nil {
		return err
	}

	if err := s.profileRepo.Save(ctx, profile); err != nil {
		s.logger.Error("Failed to save profile", zap.Error(err))
		return shared.NewDomainError("PASSWORD_CHANGE_FAILED", "Failed to change password")
	}

	s.publishEvents(ctx, profile)

	s.logger.Info("Password changed", zap.String("profile_id", profile.ID.String()))

	return nil
}

// SetDefaultBusiness records which business opens after login
func (s *ProfileService) SetDefaultBusiness(ctx context.Context, userID uuid.UUID, input SetDefaultBusinessInput) (*ProfileInfo, error) {
	profile, err := s.findProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile.SetDefaultBusiness(input.BusinessID)

	if err := s.profileRepo.Save(ctx, profile); err != nil {
		s.logger.Error("Failed to save profile", zap.Error(err))
		return nil, shared.NewDomainError("PROFILE_UPDATE_FAILED", "Failed to update profile")
	}

	info := toProfileInfo(profile)
	return &info, nil
}

func (s *ProfileService) findProfile(ctx context.Context, userID uuid.UUID) (*identity.Profile, error) {
	profile, err := s.profileRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("PROFILE_NOT_FOUND", "Profile not found")
		}
		s.logger.Error("Failed to load profile", zap.Error(err))
		return nil, err
	}
	return profile, nil
}

func (s *ProfileService) publishEvents(ctx context.Context, profile *identity.Profile) {
	events := profile.GetDomainEvents()
	if len(events) == 0 || s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Error("Failed to publish profile events", zap.Error(err))
	}
	profile.ClearDomainEvents()
}
