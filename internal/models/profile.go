package models

import "time"

// Subscription states a profile can be in.
const (
	SubscriptionStatusActive    = "active"
	SubscriptionStatusInactive  = "inactive"
	SubscriptionStatusCancelled = "cancelled"
)

// Profile represents a platform user and their essay-checking entitlement.
type Profile struct {
	ID                    uint       `gorm:"primaryKey" json:"id"`
	Name                  string     `gorm:"size:255" json:"name"`
	Email                 string     `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Role                  string     `gorm:"size:32;not null;default:student" json:"role"`
	SubscriptionStatus    string     `gorm:"size:32;not null;default:inactive" json:"subscription_status"`
	SubscriptionExpiresAt *time.Time `json:"subscription_expires_at"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

// HasActiveSubscription reports whether the profile may use essay checking at now.
func (p Profile) HasActiveSubscription(now time.Time) bool {
	if p.SubscriptionStatus != SubscriptionStatusActive {
		return false
	}
	return p.SubscriptionExpiresAt == nil || p.SubscriptionExpiresAt.After(now)
}
