package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/cssprep-api/internal/dto"
	"github.com/noah-isme/cssprep-api/internal/repository"
)

// ErrProfileNotFound indicates the profile does not exist.
var ErrProfileNotFound = errors.New("profile not found")

// ProfileService exposes entitlement lookups and manual subscription overrides.
type ProfileService interface {
	Get(ctx context.Context, id uint) (dto.ProfileResponse, error)
	UpdateSubscription(ctx context.Context, id uint, payload dto.SubscriptionUpdateRequest) (dto.ProfileResponse, error)
}

type profileService struct {
	profiles  repository.ProfileRepository
	validator *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
}

// NewProfileService constructs the profile service.
func NewProfileService(profiles repository.ProfileRepository, validate *validator.Validate, logger zerolog.Logger) ProfileService {
	return &profileService{
		profiles:  profiles,
		validator: validate,
		logger:    logger.With().Str("component", "profile_service").Logger(),
		now:       time.Now,
	}
}

func (s *profileService) Get(ctx context.Context, id uint) (dto.ProfileResponse, error) {
	profile, err := s.profiles.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ProfileResponse{}, ErrProfileNotFound
		}
		return dto.ProfileResponse{}, err
	}
	return dto.NewProfileResponse(profile, s.now()), nil
}

func (s *profileService) UpdateSubscription(ctx context.Context, id uint, payload dto.SubscriptionUpdateRequest) (dto.ProfileResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ProfileResponse{}, err
	}

	profile, err := s.profiles.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ProfileResponse{}, ErrProfileNotFound
		}
		return dto.ProfileResponse{}, err
	}

	previous := profile.SubscriptionStatus
	profile.SubscriptionStatus = payload.Status
	profile.SubscriptionExpiresAt = payload.ExpiresAt
	if err := s.profiles.Update(ctx, &profile); err != nil {
		return dto.ProfileResponse{}, err
	}

	s.logger.Info().
		Uint("profile_id", profile.ID).
		Str("from", previous).
		Str("to", profile.SubscriptionStatus).
		Msg("subscription overridden")

	return dto.NewProfileResponse(profile, s.now()), nil
}
