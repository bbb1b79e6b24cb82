package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/scrapworks/junkshop-api/internal/domain/enum"
	"gorm.io/gorm"
)

// BusinessInvitation invites an email address into a business at a given
// role. It is redeemable only while status is pending and not yet expired.
type BusinessInvitation struct {
	ID         uuid.UUID             `gorm:"type:uuid;primary_key" json:"id"`
	BusinessID uuid.UUID             `gorm:"type:uuid;not null;index" json:"business_id"`
	Email      string                `gorm:"size:255;not null;index" json:"email"`
	Role       enum.Role             `gorm:"size:20;not null;default:'employee'" json:"role"`
	Token      string                `gorm:"size:255;not null;uniqueIndex" json:"-"`
	ExpiresAt  time.Time             `gorm:"not null" json:"expires_at"`
	Status     enum.InvitationStatus `gorm:"size:20;not null;default:'pending'" json:"status"`
	InvitedBy  uuid.UUID             `gorm:"type:uuid;not null" json:"invited_by"`
	CreatedAt  time.Time             `json:"created_at"`
	UpdatedAt  time.Time             `json:"updated_at"`

	// Relationships
	Business Business `gorm:"foreignKey:BusinessID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new invitation
func (i *BusinessInvitation) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the BusinessInvitation model
func (BusinessInvitation) TableName() string {
	return "business_invitations"
}

// IsExpired checks if the invitation has passed its expiry horizon
func (i *BusinessInvitation) IsExpired() bool {
	return !time.Now().Before(i.ExpiresAt)
}

// Redeemable checks if the invitation can still be accepted
func (i *BusinessInvitation) Redeemable() bool {
	return i.Status == enum.InvitationStatusPending && !i.IsExpired()
}
