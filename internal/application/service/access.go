package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/scrapworks/junkshop-api/internal/domain/entity"
	"github.com/scrapworks/junkshop-api/internal/domain/enum"
	"github.com/scrapworks/junkshop-api/pkg/apperror"
)

// Access is the resolved identity of a caller within their current business:
// who they are, what role they hold, and what that role lets them do.
type Access struct {
	UserID     uuid.UUID
	Name       string
	Email      string
	BusinessID uuid.UUID
	Role       enum.Role
	Caps       entity.Capabilities

	// ViewAll lets the caller read transactions authored by anyone in the
	// business; without it, visibility is restricted to their own records.
	ViewAll bool

	// EditCompleted lets the caller modify a transaction after it reached
	// the completed status.
	EditCompleted bool
}

// resolveAccess derives the full set of rights for a membership. Derived
// flags live here, next to CapabilitiesForRole, so enforcement points never
// re-derive them from role strings.
func resolveAccess(user *entity.User, membership *entity.BusinessUser) *Access {
	caps := entity.CapabilitiesForRole(membership.Role)
	return &Access{
		UserID:        user.ID,
		Name:          user.FullName(),
		Email:         user.Email,
		BusinessID:    membership.BusinessID,
		Role:          membership.Role,
		Caps:          caps,
		ViewAll:       caps.CanViewReports,
		EditCompleted: membership.Role == enum.RoleOwner,
	}
}

// CanSee evaluates the authorization predicate for reading a transaction
// against its normalized (created_by, business_id) attributes.
func (a *Access) CanSee(t *entity.Transaction) bool {
	if t.BusinessID != a.BusinessID {
		return false
	}
	if a.ViewAll {
		return true
	}
	return t.CreatedBy == a.UserID
}

// CanEdit reports whether the caller may modify the transaction in its
// current state. Completed transactions are locked for everyone except
// callers holding EditCompleted.
func (a *Access) CanEdit(t *entity.Transaction) error {
	if !a.Caps.CanManageTransactions {
		return apperror.NewForbiddenError("Your role cannot modify transactions")
	}
	if t.Status == enum.TransactionStatusCompleted && !a.EditCompleted {
		return apperror.NewForbiddenError("Completed transactions can only be modified by the business owner")
	}
	return nil
}

// AccessGate resolves a caller's identity and role from the business
// directory. Every authenticated request passes through here once.
type AccessGate struct {
	businessService *BusinessService
}

// NewAccessGate creates a new access gate
func NewAccessGate(businessService *BusinessService) *AccessGate {
	return &AccessGate{businessService: businessService}
}

// Resolve looks up the caller's current business membership, repairing a
// missing association through the directory's bounded recovery path.
func (g *AccessGate) Resolve(ctx context.Context, userID uuid.UUID) (*Access, error) {
	user, membership, err := g.businessService.ResolveMembership(ctx, userID)
	if err != nil {
		return nil, err
	}
	return resolveAccess(user, membership), nil
}
