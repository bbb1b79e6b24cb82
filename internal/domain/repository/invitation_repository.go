package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/scrapworks/junkshop-api/internal/domain/entity"
)

// InvitationRepository defines the interface for business invitation data
// operations
type InvitationRepository interface {
	Create(ctx context.Context, invitation *entity.BusinessInvitation) error
	GetByToken(ctx context.Context, token string) (*entity.BusinessInvitation, error)

	// MarkAccepted flips a pending invitation to accepted. It reports false
	// when the invitation was no longer pending, which is how a losing
	// concurrent redemption finds out it lost the race.
	MarkAccepted(ctx context.Context, id uuid.UUID) (bool, error)

	// MarkExpired records that an invitation lapsed before redemption
	MarkExpired(ctx context.Context, id uuid.UUID) error

	// Cancel withdraws a pending invitation
	Cancel(ctx context.Context, id uuid.UUID) error

	ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]entity.BusinessInvitation, error)
}
