package service

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/scrapworks/junkshop-api/internal/domain/entity"
	"github.com/scrapworks/junkshop-api/internal/domain/enum"
	"github.com/scrapworks/junkshop-api/internal/domain/repository"
	"github.com/scrapworks/junkshop-api/pkg/apperror"
	"github.com/scrapworks/junkshop-api/pkg/email"
	"github.com/scrapworks/junkshop-api/pkg/utils"
)

// BusinessService is the tenant directory: it manages businesses,
// memberships and the invitation lifecycle, and supplies the role the
// access gate enforces.
type BusinessService struct {
	businessRepo   repository.BusinessRepository
	userRepo       repository.UserRepository
	invitationRepo repository.InvitationRepository
	emailService   *email.EmailService

	defaultBusinessName string
	bootstrapOwnerEmail string
	invitationTTL       time.Duration
}

// BusinessServiceConfig holds the directory's bootstrap settings
type BusinessServiceConfig struct {
	// DefaultBusinessName is the well-known business assigned when a
	// profile has no resolvable membership
	DefaultBusinessName string

	// BootstrapOwnerEmail, when it matches the repaired user's email,
	// grants the owner role instead of employee
	BootstrapOwnerEmail string

	// InvitationTTL is the expiry horizon for new invitations
	InvitationTTL time.Duration
}

// NewBusinessService creates a new business service
func NewBusinessService(
	businessRepo repository.BusinessRepository,
	userRepo repository.UserRepository,
	invitationRepo repository.InvitationRepository,
	emailService *email.EmailService,
	cfg BusinessServiceConfig,
) *BusinessService {
	if cfg.DefaultBusinessName == "" {
		cfg.DefaultBusinessName = "Main Junkshop"
	}
	if cfg.InvitationTTL <= 0 {
		cfg.InvitationTTL = 7 * 24 * time.Hour
	}
	return &BusinessService{
		businessRepo:        businessRepo,
		userRepo:            userRepo,
		invitationRepo:      invitationRepo,
		emailService:        emailService,
		defaultBusinessName: cfg.DefaultBusinessName,
		bootstrapOwnerEmail: cfg.BootstrapOwnerEmail,
		invitationTTL:       cfg.InvitationTTL,
	}
}

// CreateBusinessInput represents input for creating a business
type CreateBusinessInput struct {
	Name      string
	Phone     string
	Email     string
	Address   string
	Settings  entity.BusinessSettings
	CreatorID uuid.UUID
}

// CreateBusiness creates a business and grants its creator the owner role in
// a single store transaction, then points the creator's profile at it.
func (s *BusinessService) CreateBusiness(ctx context.Context, input *CreateBusinessInput) (*entity.Business, error) {
	if input.Name == "" {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "name", Message: "Business name is required"},
		})
	}

	business := &entity.Business{
		ID:        uuid.New(),
		Name:      input.Name,
		Phone:     input.Phone,
		Email:     input.Email,
		Address:   input.Address,
		Settings:  input.Settings,
		IsActive:  true,
		CreatedBy: input.CreatorID,
	}

	owner := &entity.BusinessUser{
		BusinessID:  business.ID,
		UserID:      input.CreatorID,
		Role:        enum.RoleOwner,
		Permissions: entity.CapabilitiesForRole(enum.RoleOwner),
		IsActive:    true,
	}

	if err := s.businessRepo.CreateWithOwner(ctx, business, owner); err != nil {
		return nil, err
	}

	if err := s.userRepo.SetCurrentBusiness(ctx, input.CreatorID, business.ID); err != nil {
		return nil, err
	}

	return business, nil
}

// GetBusiness retrieves a business by ID
func (s *BusinessService) GetBusiness(ctx context.Context, id uuid.UUID) (*entity.Business, error) {
	business, err := s.businessRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if business == nil {
		return nil, apperror.NewNotFoundError("Business")
	}
	return business, nil
}

// ListUserBusinesses retrieves all businesses the user actively belongs to
func (s *BusinessService) ListUserBusinesses(ctx context.Context, userID uuid.UUID) ([]entity.Business, error) {
	return s.businessRepo.ListForUser(ctx, userID)
}

// GetMembers retrieves all active members of a business
func (s *BusinessService) GetMembers(ctx context.Context, businessID uuid.UUID) ([]entity.BusinessUser, error) {
	members, err := s.businessRepo.GetMembers(ctx, businessID)
	if err != nil {
		return nil, err
	}
	for i := range members {
		members[i].PopulateUserDetails()
	}
	return members, nil
}

// InviteUserInput represents input for inviting a user into a business
type InviteUserInput struct {
	Email string
	Role  enum.Role
}

// InviteUser creates a pending invitation with a fresh unguessable token.
// Membership is only granted when the invitation is accepted.
func (s *BusinessService) InviteUser(ctx context.Context, caller *Access, input *InviteUserInput) (*entity.BusinessInvitation, error) {
	if !caller.Caps.CanInviteUsers {
		return nil, apperror.NewForbiddenError("Your role cannot invite users")
	}

	var errs []apperror.FieldError
	if input.Email == "" {
		errs = append(errs, apperror.FieldError{Field: "email", Message: "Email is required"})
	}
	if !input.Role.Valid() {
		errs = append(errs, apperror.FieldError{Field: "role", Message: "Unknown role"})
	}
	if len(errs) > 0 {
		return nil, apperror.NewValidationError(errs)
	}

	token, err := utils.GenerateSecureToken(32)
	if err != nil {
		return nil, err
	}

	invitation := &entity.BusinessInvitation{
		BusinessID: caller.BusinessID,
		Email:      input.Email,
		Role:       input.Role,
		Token:      token,
		ExpiresAt:  time.Now().Add(s.invitationTTL),
		Status:     enum.InvitationStatusPending,
		InvitedBy:  caller.UserID,
	}

	if err := s.invitationRepo.Create(ctx, invitation); err != nil {
		return nil, err
	}

	if s.emailService != nil {
		business, err := s.businessRepo.GetByID(ctx, caller.BusinessID)
		businessName := ""
		if err == nil && business != nil {
			businessName = business.Name
		}
		if err := s.emailService.SendInvitationEmail(input.Email, businessName, input.Role.String(), token); err != nil {
			// Delivery failure doesn't void the invitation; the token can
			// still be shared out of band.
			log.Printf("Warning: failed to send invitation email to %s: %v", input.Email, err)
		}
	}

	return invitation, nil
}

// AcceptInvitation redeems an invitation token for the calling identity.
// The pending->accepted flip is the single-writer gate: of two concurrent
// redemptions, exactly one wins and the other fails without granting
// membership.
func (s *BusinessService) AcceptInvitation(ctx context.Context, userID uuid.UUID, token string) (*entity.BusinessUser, error) {
	invitation, err := s.invitationRepo.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if invitation == nil {
		return nil, apperror.NewNotFoundError("Invitation")
	}

	switch invitation.Status {
	case enum.InvitationStatusPending:
		// fall through to expiry and redemption checks
	case enum.InvitationStatusExpired:
		return nil, apperror.ErrInvitationExpired
	default:
		return nil, apperror.ErrInvitationAlreadyUsed
	}

	if invitation.IsExpired() {
		if err := s.invitationRepo.MarkExpired(ctx, invitation.ID); err != nil {
			log.Printf("Warning: failed to mark invitation %s expired: %v", invitation.ID, err)
		}
		return nil, apperror.ErrInvitationExpired
	}

	won, err := s.invitationRepo.MarkAccepted(ctx, invitation.ID)
	if err != nil {
		return nil, err
	}
	if !won {
		return nil, apperror.ErrInvitationAlreadyUsed
	}

	membership, err := s.businessRepo.GetMembership(ctx, invitation.BusinessID, userID)
	if err != nil {
		return nil, err
	}

	if membership != nil {
		membership.Role = invitation.Role
		membership.Permissions = entity.CapabilitiesForRole(invitation.Role)
		membership.IsActive = true
		if err := s.businessRepo.SaveMember(ctx, membership); err != nil {
			return nil, err
		}
	} else {
		membership = &entity.BusinessUser{
			BusinessID:  invitation.BusinessID,
			UserID:      userID,
			Role:        invitation.Role,
			Permissions: entity.CapabilitiesForRole(invitation.Role),
			IsActive:    true,
		}
		if err := s.businessRepo.AddMember(ctx, membership); err != nil {
			return nil, err
		}
	}

	// Point a business-less profile at the business it just joined
	user, err := s.userRepo.GetByID(ctx, userID)
	if err == nil && user != nil && user.CurrentBusinessID == nil {
		if err := s.userRepo.SetCurrentBusiness(ctx, userID, invitation.BusinessID); err != nil {
			log.Printf("Warning: failed to set current business for user %s: %v", userID, err)
		}
	}

	return membership, nil
}

// SwitchBusiness updates the caller's current-business pointer. It is
// permitted only when an active membership exists in the target business;
// otherwise the pointer is left untouched.
func (s *BusinessService) SwitchBusiness(ctx context.Context, userID, businessID uuid.UUID) error {
	membership, err := s.businessRepo.GetMembership(ctx, businessID, userID)
	if err != nil {
		return err
	}
	if membership == nil || !membership.IsActive {
		return apperror.NewForbiddenError("You are not an active member of this business")
	}
	return s.userRepo.SetCurrentBusiness(ctx, userID, businessID)
}

// RemoveUser soft-deletes a membership. Historical transaction authorship is
// untouched.
func (s *BusinessService) RemoveUser(ctx context.Context, caller *Access, userID uuid.UUID) error {
	if !caller.Caps.CanManageEmployees {
		return apperror.NewForbiddenError("Your role cannot manage employees")
	}
	if userID == caller.UserID {
		return apperror.NewBadRequestError("You cannot remove yourself from the business")
	}
	return s.businessRepo.DeactivateMember(ctx, caller.BusinessID, userID)
}

// UpdateMemberRole changes a member's role within the caller's business
func (s *BusinessService) UpdateMemberRole(ctx context.Context, caller *Access, userID uuid.UUID, role enum.Role) error {
	if !caller.Caps.CanManageEmployees {
		return apperror.NewForbiddenError("Your role cannot manage employees")
	}
	if !role.Valid() {
		return apperror.NewValidationError([]apperror.FieldError{
			{Field: "role", Message: "Unknown role"},
		})
	}
	return s.businessRepo.UpdateMemberRole(ctx, caller.BusinessID, userID, role)
}

// ResolveMembership resolves the caller's current business membership.
// Order of resolution: the profile's current-business pointer, then any
// other active membership, then the bounded default-business repair. The
// repair runs at most once per call; a failure there is a hard failure.
func (s *BusinessService) ResolveMembership(ctx context.Context, userID uuid.UUID) (*entity.User, *entity.BusinessUser, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, apperror.NewNotFoundError("User")
	}

	if user.CurrentBusinessID != nil {
		membership, err := s.businessRepo.GetMembership(ctx, *user.CurrentBusinessID, userID)
		if err != nil {
			return nil, nil, err
		}
		if membership != nil && membership.IsActive {
			return user, membership, nil
		}
	}

	// The pointer is stale or missing: fail over to any active membership
	membership, err := s.businessRepo.FirstActiveMembership(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if membership != nil {
		if err := s.userRepo.SetCurrentBusiness(ctx, userID, membership.BusinessID); err != nil {
			return nil, nil, err
		}
		return user, membership, nil
	}

	membership, err = s.repairMembership(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, membership, nil
}

// repairMembership is the explicit recovery path for a profile with no
// resolvable business: it deterministically assigns the well-known default
// business. This papers over accounts created before membership became an
// invariant of signup; it is logged every time so the inconsistency stays
// visible.
func (s *BusinessService) repairMembership(ctx context.Context, user *entity.User) (*entity.BusinessUser, error) {
	log.Printf("Repairing missing business membership for user %s (%s)", user.ID, user.Email)

	business, err := s.businessRepo.GetByName(ctx, s.defaultBusinessName)
	if err != nil {
		return nil, err
	}

	role := enum.RoleEmployee
	if s.bootstrapOwnerEmail != "" && user.Email == s.bootstrapOwnerEmail {
		role = enum.RoleOwner
	}

	if business == nil {
		business = &entity.Business{
			ID:        uuid.New(),
			Name:      s.defaultBusinessName,
			IsActive:  true,
			CreatedBy: user.ID,
		}
		owner := &entity.BusinessUser{
			BusinessID:  business.ID,
			UserID:      user.ID,
			Role:        enum.RoleOwner,
			Permissions: entity.CapabilitiesForRole(enum.RoleOwner),
			IsActive:    true,
		}
		if err := s.businessRepo.CreateWithOwner(ctx, business, owner); err != nil {
			return nil, err
		}
		if err := s.userRepo.SetCurrentBusiness(ctx, user.ID, business.ID); err != nil {
			return nil, err
		}
		return owner, nil
	}

	// A removed member still has a deactivated row under the composite key,
	// so reactivate it instead of inserting a duplicate
	membership, err := s.businessRepo.GetMembership(ctx, business.ID, user.ID)
	if err != nil {
		return nil, err
	}
	if membership != nil {
		membership.Role = role
		membership.Permissions = entity.CapabilitiesForRole(role)
		membership.IsActive = true
		if err := s.businessRepo.SaveMember(ctx, membership); err != nil {
			return nil, err
		}
	} else {
		membership = &entity.BusinessUser{
			BusinessID:  business.ID,
			UserID:      user.ID,
			Role:        role,
			Permissions: entity.CapabilitiesForRole(role),
			IsActive:    true,
		}
		if err := s.businessRepo.AddMember(ctx, membership); err != nil {
			return nil, err
		}
	}
	if err := s.userRepo.SetCurrentBusiness(ctx, user.ID, business.ID); err != nil {
		return nil, err
	}
	return membership, nil
}
