package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/scrapworks/junkshop-api/internal/domain/enum"
	"gorm.io/gorm"
)

// BusinessSettings is an opaque mapping of per-business configuration
type BusinessSettings map[string]interface{}

// Business represents a junkshop organization owning its own transactions,
// memberships and settings
type Business struct {
	ID               uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	Name             string           `gorm:"size:255;not null" json:"name"`
	Phone            string           `gorm:"size:50" json:"phone,omitempty"`
	Email            string           `gorm:"size:255" json:"email,omitempty"`
	Address          string           `gorm:"type:text" json:"address,omitempty"`
	Settings         BusinessSettings `gorm:"type:jsonb;serializer:json" json:"settings"`
	SubscriptionPlan string           `gorm:"size:50;default:'free'" json:"subscription_plan"`
	IsActive         bool             `gorm:"default:true" json:"is_active"`
	CreatedBy        uuid.UUID        `gorm:"type:uuid;not null;index" json:"created_by"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
	DeletedAt        gorm.DeletedAt   `gorm:"index" json:"-"`

	// Relationships
	Members []BusinessUser `gorm:"foreignKey:BusinessID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new business
func (b *Business) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Business model
func (Business) TableName() string {
	return "businesses"
}

// Capabilities is the permission set attached to a membership
type Capabilities struct {
	CanManageEmployees    bool `json:"can_manage_employees"`
	CanManageTransactions bool `json:"can_manage_transactions"`
	CanManageCash         bool `json:"can_manage_cash"`
	CanViewReports        bool `json:"can_view_reports"`
	CanManageSettings     bool `json:"can_manage_settings"`
	CanInviteUsers        bool `json:"can_invite_users"`
}

// CapabilitiesForRole maps a role to its capability set. This is the single
// place role semantics are defined; callers must not compare role strings
// at enforcement points.
func CapabilitiesForRole(role enum.Role) Capabilities {
	switch role {
	case enum.RoleOwner:
		return Capabilities{
			CanManageEmployees:    true,
			CanManageTransactions: true,
			CanManageCash:         true,
			CanViewReports:        true,
			CanManageSettings:     true,
			CanInviteUsers:        true,
		}
	case enum.RoleManager:
		return Capabilities{
			CanManageTransactions: true,
			CanManageCash:         true,
			CanViewReports:        true,
			CanInviteUsers:        true,
		}
	case enum.RoleEmployee:
		return Capabilities{
			CanManageTransactions: true,
		}
	case enum.RoleViewer:
		return Capabilities{
			CanViewReports: true,
		}
	}
	return Capabilities{}
}

// MemberUser represents a subset of user fields for membership responses
type MemberUser struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
}

// BusinessUser links a profile to a business with a role and capability set.
// Removing a user deactivates the membership; the row is kept so historical
// transaction authorship stays resolvable.
type BusinessUser struct {
	BusinessID  uuid.UUID    `gorm:"type:uuid;primaryKey" json:"business_id"`
	UserID      uuid.UUID    `gorm:"type:uuid;primaryKey" json:"user_id"`
	Role        enum.Role    `gorm:"size:20;not null;default:'employee'" json:"role"`
	Permissions Capabilities `gorm:"type:jsonb;serializer:json" json:"permissions"`
	IsActive    bool         `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`

	// Relationships
	Business Business `gorm:"foreignKey:BusinessID" json:"-"`
	User     User     `gorm:"foreignKey:UserID" json:"-"`

	// Computed field for JSON response
	MemberUser *MemberUser `gorm:"-" json:"user,omitempty"`
}

// PopulateUserDetails populates the MemberUser field from the User relationship
func (bu *BusinessUser) PopulateUserDetails() {
	if bu.User.ID != uuid.Nil {
		bu.MemberUser = &MemberUser{
			ID:        bu.User.ID,
			FirstName: bu.User.FirstName,
			LastName:  bu.User.LastName,
			Email:     bu.User.Email,
		}
	}
}

// TableName returns the table name for the BusinessUser model
func (BusinessUser) TableName() string {
	return "business_users"
}
