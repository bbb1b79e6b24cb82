package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/scrapworks/junkshop-api/internal/domain/entity"
	"github.com/scrapworks/junkshop-api/internal/domain/enum"
	"github.com/scrapworks/junkshop-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type businessTestEnv struct {
	svc            *BusinessService
	businessRepo   *fakeBusinessRepo
	userRepo       *fakeUserRepo
	invitationRepo *fakeInvitationRepo
}

func newBusinessTestEnv() *businessTestEnv {
	businessRepo := newFakeBusinessRepo()
	userRepo := newFakeUserRepo()
	invitationRepo := newFakeInvitationRepo()
	svc := NewBusinessService(businessRepo, userRepo, invitationRepo, nil, BusinessServiceConfig{
		DefaultBusinessName: "Main Junkshop",
		BootstrapOwnerEmail: "boss@example.com",
	})
	return &businessTestEnv{
		svc:            svc,
		businessRepo:   businessRepo,
		userRepo:       userRepo,
		invitationRepo: invitationRepo,
	}
}

func (e *businessTestEnv) addUser(t *testing.T, email string) *entity.User {
	t.Helper()
	user := &entity.User{FirstName: "Test", LastName: "User", Email: email}
	require.NoError(t, e.userRepo.Create(context.Background(), user))
	return user
}

func (e *businessTestEnv) addBusinessWithOwner(t *testing.T, name string, ownerID uuid.UUID) *entity.Business {
	t.Helper()
	business, err := e.svc.CreateBusiness(context.Background(), &CreateBusinessInput{
		Name:      name,
		CreatorID: ownerID,
	})
	require.NoError(t, err)
	return business
}

func (e *businessTestEnv) accessFor(t *testing.T, userID uuid.UUID) *Access {
	t.Helper()
	access, err := NewAccessGate(e.svc).Resolve(context.Background(), userID)
	require.NoError(t, err)
	return access
}

func TestCreateBusiness(t *testing.T) {
	ctx := context.Background()
	env := newBusinessTestEnv()
	creator := env.addUser(t, "maria@example.com")

	business := env.addBusinessWithOwner(t, "Cruz Scrap Trading", creator.ID)

	t.Run("creator becomes owner", func(t *testing.T) {
		membership, err := env.businessRepo.GetMembership(ctx, business.ID, creator.ID)
		require.NoError(t, err)
		require.NotNil(t, membership)
		assert.Equal(t, enum.RoleOwner, membership.Role)
		assert.True(t, membership.IsActive)
	})

	t.Run("current business pointer is set", func(t *testing.T) {
		user, err := env.userRepo.GetByID(ctx, creator.ID)
		require.NoError(t, err)
		require.NotNil(t, user.CurrentBusinessID)
		assert.Equal(t, business.ID, *user.CurrentBusinessID)
	})

	t.Run("name is required", func(t *testing.T) {
		_, err := env.svc.CreateBusiness(ctx, &CreateBusinessInput{CreatorID: creator.ID})
		require.Error(t, err)
		assert.Equal(t, 400, apperror.GetAppError(err).Code)
	})
}

func TestInviteAndAccept(t *testing.T) {
	ctx := context.Background()

	t.Run("full invitation round trip", func(t *testing.T) {
		env := newBusinessTestEnv()
		owner := env.addUser(t, "owner@example.com")
		business := env.addBusinessWithOwner(t, "Cruz Scrap Trading", owner.ID)
		ownerAccess := env.accessFor(t, owner.ID)

		invitation, err := env.svc.InviteUser(ctx, ownerAccess, &InviteUserInput{
			Email: "worker@example.com",
			Role:  enum.RoleEmployee,
		})
		require.NoError(t, err)
		assert.Equal(t, enum.InvitationStatusPending, invitation.Status)
		assert.NotEmpty(t, invitation.Token)

		worker := env.addUser(t, "worker@example.com")
		membership, err := env.svc.AcceptInvitation(ctx, worker.ID, invitation.Token)
		require.NoError(t, err)
		assert.Equal(t, business.ID, membership.BusinessID)
		assert.Equal(t, enum.RoleEmployee, membership.Role)
		assert.True(t, membership.IsActive)

		// The worker's profile now points at the business
		refreshed, err := env.userRepo.GetByID(ctx, worker.ID)
		require.NoError(t, err)
		require.NotNil(t, refreshed.CurrentBusinessID)
		assert.Equal(t, business.ID, *refreshed.CurrentBusinessID)
	})

	t.Run("employee cannot invite", func(t *testing.T) {
		env := newBusinessTestEnv()
		owner := env.addUser(t, "owner@example.com")
		business := env.addBusinessWithOwner(t, "Cruz Scrap Trading", owner.ID)

		worker := env.addUser(t, "worker@example.com")
		require.NoError(t, env.businessRepo.AddMember(ctx, &entity.BusinessUser{
			BusinessID: business.ID,
			UserID:     worker.ID,
			Role:       enum.RoleEmployee,
			IsActive:   true,
		}))
		require.NoError(t, env.userRepo.SetCurrentBusiness(ctx, worker.ID, business.ID))
		workerAccess := env.accessFor(t, worker.ID)

		_, err := env.svc.InviteUser(ctx, workerAccess, &InviteUserInput{
			Email: "friend@example.com",
			Role:  enum.RoleEmployee,
		})
		require.Error(t, err)
		assert.Equal(t, 403, apperror.GetAppError(err).Code)
	})

	t.Run("second redemption fails and grants nothing", func(t *testing.T) {
		env := newBusinessTestEnv()
		owner := env.addUser(t, "owner@example.com")
		business := env.addBusinessWithOwner(t, "Cruz Scrap Trading", owner.ID)
		ownerAccess := env.accessFor(t, owner.ID)

		invitation, err := env.svc.InviteUser(ctx, ownerAccess, &InviteUserInput{
			Email: "worker@example.com",
			Role:  enum.RoleManager,
		})
		require.NoError(t, err)

		first := env.addUser(t, "worker@example.com")
		second := env.addUser(t, "impostor@example.com")

		_, err = env.svc.AcceptInvitation(ctx, first.ID, invitation.Token)
		require.NoError(t, err)

		_, err = env.svc.AcceptInvitation(ctx, second.ID, invitation.Token)
		require.Error(t, err)
		assert.Equal(t, 409, apperror.GetAppError(err).Code)

		membership, err := env.businessRepo.GetMembership(ctx, business.ID, second.ID)
		require.NoError(t, err)
		assert.Nil(t, membership)
	})

	t.Run("expired invitation is rejected and marked", func(t *testing.T) {
		env := newBusinessTestEnv()
		owner := env.addUser(t, "owner@example.com")
		business := env.addBusinessWithOwner(t, "Cruz Scrap Trading", owner.ID)

		invitation := &entity.BusinessInvitation{
			BusinessID: business.ID,
			Email:      "late@example.com",
			Role:       enum.RoleEmployee,
			Token:      "stale-token",
			ExpiresAt:  time.Now().Add(-time.Hour),
			Status:     enum.InvitationStatusPending,
			InvitedBy:  owner.ID,
		}
		require.NoError(t, env.invitationRepo.Create(ctx, invitation))

		late := env.addUser(t, "late@example.com")
		_, err := env.svc.AcceptInvitation(ctx, late.ID, "stale-token")
		require.Error(t, err)
		assert.Equal(t, 403, apperror.GetAppError(err).Code)

		stored := env.invitationRepo.invitations[invitation.ID]
		assert.Equal(t, enum.InvitationStatusExpired, stored.Status)
	})
}

func TestSwitchBusiness(t *testing.T) {
	ctx := context.Background()

	t.Run("switch requires an active membership", func(t *testing.T) {
		env := newBusinessTestEnv()
		owner := env.addUser(t, "owner@example.com")
		home := env.addBusinessWithOwner(t, "Cruz Scrap Trading", owner.ID)

		other := env.addUser(t, "other@example.com")
		foreign := env.addBusinessWithOwner(t, "Reyes Junkshop", other.ID)

		err := env.svc.SwitchBusiness(ctx, owner.ID, foreign.ID)
		require.Error(t, err)
		assert.Equal(t, 403, apperror.GetAppError(err).Code)

		// The pointer is untouched by the failed switch
		user, getErr := env.userRepo.GetByID(ctx, owner.ID)
		require.NoError(t, getErr)
		require.NotNil(t, user.CurrentBusinessID)
		assert.Equal(t, home.ID, *user.CurrentBusinessID)
	})

	t.Run("switch with membership moves the pointer", func(t *testing.T) {
		env := newBusinessTestEnv()
		owner := env.addUser(t, "owner@example.com")
		env.addBusinessWithOwner(t, "Cruz Scrap Trading", owner.ID)
		second := env.addBusinessWithOwner(t, "Second Yard", owner.ID)

		require.NoError(t, env.svc.SwitchBusiness(ctx, owner.ID, second.ID))

		user, err := env.userRepo.GetByID(ctx, owner.ID)
		require.NoError(t, err)
		assert.Equal(t, second.ID, *user.CurrentBusinessID)
	})
}

func TestRemoveUser(t *testing.T) {
	ctx := context.Background()
	env := newBusinessTestEnv()
	owner := env.addUser(t, "owner@example.com")
	business := env.addBusinessWithOwner(t, "Cruz Scrap Trading", owner.ID)
	ownerAccess := env.accessFor(t, owner.ID)

	worker := env.addUser(t, "worker@example.com")
	require.NoError(t, env.businessRepo.AddMember(ctx, &entity.BusinessUser{
		BusinessID: business.ID,
		UserID:     worker.ID,
		Role:       enum.RoleEmployee,
		IsActive:   true,
	}))

	t.Run("cannot remove self", func(t *testing.T) {
		err := env.svc.RemoveUser(ctx, ownerAccess, owner.ID)
		require.Error(t, err)
		assert.Equal(t, 400, apperror.GetAppError(err).Code)
	})

	t.Run("removal deactivates the membership row", func(t *testing.T) {
		require.NoError(t, env.svc.RemoveUser(ctx, ownerAccess, worker.ID))

		membership, err := env.businessRepo.GetMembership(ctx, business.ID, worker.ID)
		require.NoError(t, err)
		require.NotNil(t, membership)
		assert.False(t, membership.IsActive)
	})
}

func TestResolveMembership(t *testing.T) {
	ctx := context.Background()

	t.Run("stale pointer fails over to another active membership", func(t *testing.T) {
		env := newBusinessTestEnv()
		owner := env.addUser(t, "owner@example.com")
		first := env.addBusinessWithOwner(t, "Cruz Scrap Trading", owner.ID)
		second := env.addBusinessWithOwner(t, "Second Yard", owner.ID)

		// Deactivate the membership the pointer references
		require.NoError(t, env.businessRepo.DeactivateMember(ctx, second.ID, owner.ID))

		_, membership, err := env.svc.ResolveMembership(ctx, owner.ID)
		require.NoError(t, err)
		assert.Equal(t, first.ID, membership.BusinessID)

		user, err := env.userRepo.GetByID(ctx, owner.ID)
		require.NoError(t, err)
		assert.Equal(t, first.ID, *user.CurrentBusinessID)
	})

	t.Run("memberless profile is repaired into the default business", func(t *testing.T) {
		env := newBusinessTestEnv()
		orphan := env.addUser(t, "orphan@example.com")

		_, membership, err := env.svc.ResolveMembership(ctx, orphan.ID)
		require.NoError(t, err)
		assert.Equal(t, enum.RoleOwner, membership.Role)

		business, err := env.businessRepo.GetByName(ctx, "Main Junkshop")
		require.NoError(t, err)
		require.NotNil(t, business)
		assert.Equal(t, business.ID, membership.BusinessID)
	})

	t.Run("repair into existing default business grants employee role", func(t *testing.T) {
		env := newBusinessTestEnv()
		founder := env.addUser(t, "founder@example.com")
		env.addBusinessWithOwner(t, "Main Junkshop", founder.ID)

		orphan := env.addUser(t, "orphan@example.com")
		_, membership, err := env.svc.ResolveMembership(ctx, orphan.ID)
		require.NoError(t, err)
		assert.Equal(t, enum.RoleEmployee, membership.Role)
	})

	t.Run("repair after removal reactivates the old membership row", func(t *testing.T) {
		env := newBusinessTestEnv()
		founder := env.addUser(t, "founder@example.com")
		business := env.addBusinessWithOwner(t, "Main Junkshop", founder.ID)

		worker := env.addUser(t, "worker@example.com")
		_, membership, err := env.svc.ResolveMembership(ctx, worker.ID)
		require.NoError(t, err)
		assert.Equal(t, enum.RoleEmployee, membership.Role)

		// Removal deactivates but keeps the row under the composite key;
		// a later repair must reactivate it rather than insert a duplicate
		founderAccess := env.accessFor(t, founder.ID)
		require.NoError(t, env.svc.RemoveUser(ctx, founderAccess, worker.ID))

		_, membership, err = env.svc.ResolveMembership(ctx, worker.ID)
		require.NoError(t, err)
		assert.Equal(t, business.ID, membership.BusinessID)
		assert.Equal(t, enum.RoleEmployee, membership.Role)
		assert.True(t, membership.IsActive)
	})

	t.Run("bootstrap owner email is repaired as owner", func(t *testing.T) {
		env := newBusinessTestEnv()
		founder := env.addUser(t, "founder@example.com")
		env.addBusinessWithOwner(t, "Main Junkshop", founder.ID)

		boss := env.addUser(t, "boss@example.com")
		_, membership, err := env.svc.ResolveMembership(ctx, boss.ID)
		require.NoError(t, err)
		assert.Equal(t, enum.RoleOwner, membership.Role)
	})
}

func TestUpdateMemberRole(t *testing.T) {
	ctx := context.Background()
	env := newBusinessTestEnv()
	owner := env.addUser(t, "owner@example.com")
	business := env.addBusinessWithOwner(t, "Cruz Scrap Trading", owner.ID)
	ownerAccess := env.accessFor(t, owner.ID)

	worker := env.addUser(t, "worker@example.com")
	require.NoError(t, env.businessRepo.AddMember(ctx, &entity.BusinessUser{
		BusinessID: business.ID,
		UserID:     worker.ID,
		Role:       enum.RoleEmployee,
		IsActive:   true,
	}))

	t.Run("promotion refreshes the stored capability set", func(t *testing.T) {
		require.NoError(t, env.svc.UpdateMemberRole(ctx, ownerAccess, worker.ID, enum.RoleManager))

		membership, err := env.businessRepo.GetMembership(ctx, business.ID, worker.ID)
		require.NoError(t, err)
		assert.Equal(t, enum.RoleManager, membership.Role)
		assert.True(t, membership.Permissions.CanInviteUsers)
	})

	t.Run("unknown role is rejected", func(t *testing.T) {
		err := env.svc.UpdateMemberRole(ctx, ownerAccess, worker.ID, enum.Role("supervisor"))
		require.Error(t, err)
		assert.Equal(t, 400, apperror.GetAppError(err).Code)
	})
}
