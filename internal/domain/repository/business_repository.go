package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/scrapworks/junkshop-api/internal/domain/entity"
	"github.com/scrapworks/junkshop-api/internal/domain/enum"
)

// BusinessRepository defines the interface for business and membership data
// operations
type BusinessRepository interface {
	// CreateWithOwner atomically creates a business together with its owner
	// membership. There is never a business row without an owner.
	CreateWithOwner(ctx context.Context, business *entity.Business, owner *entity.BusinessUser) error

	GetByID(ctx context.Context, id uuid.UUID) (*entity.Business, error)

	// GetByName retrieves a business by exact name (used for the default
	// business during membership repair)
	GetByName(ctx context.Context, name string) (*entity.Business, error)

	Update(ctx context.Context, business *entity.Business) error

	// ListForUser retrieves all businesses where the user holds an active
	// membership
	ListForUser(ctx context.Context, userID uuid.UUID) ([]entity.Business, error)

	// AddMember creates a membership row
	AddMember(ctx context.Context, membership *entity.BusinessUser) error

	// SaveMember persists changes to an existing membership
	SaveMember(ctx context.Context, membership *entity.BusinessUser) error

	// GetMembership retrieves a membership row regardless of its active flag
	GetMembership(ctx context.Context, businessID, userID uuid.UUID) (*entity.BusinessUser, error)

	// GetMembers retrieves all active members of a business
	GetMembers(ctx context.Context, businessID uuid.UUID) ([]entity.BusinessUser, error)

	// DeactivateMember soft-deletes a membership (is_active = false)
	DeactivateMember(ctx context.Context, businessID, userID uuid.UUID) error

	// UpdateMemberRole changes a member's role and stored capability set
	UpdateMemberRole(ctx context.Context, businessID, userID uuid.UUID, role enum.Role) error

	// FirstActiveMembership returns the user's oldest active membership, or
	// nil when none exists
	FirstActiveMembership(ctx context.Context, userID uuid.UUID) (*entity.BusinessUser, error)
}
