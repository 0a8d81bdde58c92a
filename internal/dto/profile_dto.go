package dto

import (
	"time"

	"github.com/noah-isme/cssprep-api/internal/models"
)

// SubscriptionUpdateRequest manually overrides a profile's subscription state.
type SubscriptionUpdateRequest struct {
	Status    string     `json:"status" validate:"required,oneof=active inactive cancelled"`
	ExpiresAt *time.Time `json:"expires_at"`
}

// ProfileResponse exposes a profile and its entitlement.
type ProfileResponse struct {
	ID                    uint       `json:"id"`
	Name                  string     `json:"name"`
	Email                 string     `json:"email"`
	Role                  string     `json:"role"`
	SubscriptionStatus    string     `json:"subscription_status"`
	SubscriptionExpiresAt *time.Time `json:"subscription_expires_at,omitempty"`
	CanCheckEssays        bool       `json:"can_check_essays"`
}

// NewProfileResponse builds the response for a profile evaluated at now.
func NewProfileResponse(profile models.Profile, now time.Time) ProfileResponse {
	return ProfileResponse{
		ID:                    profile.ID,
		Name:                  profile.Name,
		Email:                 profile.Email,
		Role:                  profile.Role,
		SubscriptionStatus:    profile.SubscriptionStatus,
		SubscriptionExpiresAt: profile.SubscriptionExpiresAt,
		CanCheckEssays:        profile.HasActiveSubscription(now),
	}
}
