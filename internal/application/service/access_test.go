package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/scrapworks/junkshop-api/internal/domain/entity"
	"github.com/scrapworks/junkshop-api/internal/domain/enum"
	"github.com/stretchr/testify/assert"
)

func accessFor(role enum.Role) *Access {
	user := &entity.User{ID: uuid.New(), FirstName: "Test", LastName: "User", Email: "test@example.com"}
	membership := &entity.BusinessUser{
		BusinessID: uuid.New(),
		UserID:     user.ID,
		Role:       role,
		IsActive:   true,
	}
	return resolveAccess(user, membership)
}

func TestResolveAccessDerivedFlags(t *testing.T) {
	tests := []struct {
		role          enum.Role
		viewAll       bool
		editCompleted bool
		manageTx      bool
		invite        bool
		manageStaff   bool
	}{
		{enum.RoleOwner, true, true, true, true, true},
		{enum.RoleManager, true, false, true, true, false},
		{enum.RoleEmployee, false, false, true, false, false},
		{enum.RoleViewer, true, false, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.role.String(), func(t *testing.T) {
			access := accessFor(tt.role)
			assert.Equal(t, tt.viewAll, access.ViewAll)
			assert.Equal(t, tt.editCompleted, access.EditCompleted)
			assert.Equal(t, tt.manageTx, access.Caps.CanManageTransactions)
			assert.Equal(t, tt.invite, access.Caps.CanInviteUsers)
			assert.Equal(t, tt.manageStaff, access.Caps.CanManageEmployees)
		})
	}
}

func TestAccessCanSee(t *testing.T) {
	owner := accessFor(enum.RoleOwner)
	employee := accessFor(enum.RoleEmployee)

	t.Run("other business is invisible regardless of role", func(t *testing.T) {
		foreign := &entity.Transaction{BusinessID: uuid.New(), CreatedBy: owner.UserID}
		assert.False(t, owner.CanSee(foreign))
	})

	t.Run("view-all roles see everything in their business", func(t *testing.T) {
		other := &entity.Transaction{BusinessID: owner.BusinessID, CreatedBy: uuid.New()}
		assert.True(t, owner.CanSee(other))
	})

	t.Run("employee sees only own records", func(t *testing.T) {
		own := &entity.Transaction{BusinessID: employee.BusinessID, CreatedBy: employee.UserID}
		other := &entity.Transaction{BusinessID: employee.BusinessID, CreatedBy: uuid.New()}
		assert.True(t, employee.CanSee(own))
		assert.False(t, employee.CanSee(other))
	})
}

func TestAccessCanEdit(t *testing.T) {
	t.Run("viewer cannot edit anything", func(t *testing.T) {
		viewer := accessFor(enum.RoleViewer)
		tx := &entity.Transaction{BusinessID: viewer.BusinessID, Status: enum.TransactionStatusForPayment}
		assert.Error(t, viewer.CanEdit(tx))
	})

	t.Run("employee can edit open transactions", func(t *testing.T) {
		employee := accessFor(enum.RoleEmployee)
		tx := &entity.Transaction{BusinessID: employee.BusinessID, Status: enum.TransactionStatusInProgress}
		assert.NoError(t, employee.CanEdit(tx))
	})

	t.Run("completed transactions are locked for non-owners", func(t *testing.T) {
		manager := accessFor(enum.RoleManager)
		tx := &entity.Transaction{BusinessID: manager.BusinessID, Status: enum.TransactionStatusCompleted}
		assert.Error(t, manager.CanEdit(tx))
	})

	t.Run("owner can edit completed transactions", func(t *testing.T) {
		owner := accessFor(enum.RoleOwner)
		tx := &entity.Transaction{BusinessID: owner.BusinessID, Status: enum.TransactionStatusCompleted}
		assert.NoError(t, owner.CanEdit(tx))
	})
}
