package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/scrapworks/junkshop-api/internal/domain/entity"
	"github.com/scrapworks/junkshop-api/internal/domain/enum"
	"github.com/scrapworks/junkshop-api/internal/domain/repository"
	"github.com/scrapworks/junkshop-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTransactionTestService() (*TransactionService, *fakeTransactionRepo) {
	repo := newFakeTransactionRepo()
	return NewTransactionService(repo), repo
}

func accessInBusiness(role enum.Role, businessID uuid.UUID) *Access {
	user := &entity.User{ID: uuid.New(), FirstName: "Dina", LastName: "Cruz", Email: "dina@example.com"}
	membership := &entity.BusinessUser{
		BusinessID: businessID,
		UserID:     user.ID,
		Role:       role,
		IsActive:   true,
	}
	return resolveAccess(user, membership)
}

func validCreateInput() *CreateTransactionInput {
	return &CreateTransactionInput{
		Type:         enum.TransactionTypeBuy,
		CustomerType: enum.CustomerTypePerson,
		CustomerName: "Walk-in",
		Items: []entity.TransactionItem{
			{Name: "Copper wire", Weight: 10, Price: 5},
			{Name: "Car battery", Pieces: 3, Price: 2},
		},
		Expenses: 20,
	}
}

func TestCreateTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("computes derived totals and defaults", func(t *testing.T) {
		svc, _ := newTransactionTestService()
		caller := accessInBusiness(enum.RoleOwner, uuid.New())

		tx, err := svc.CreateTransaction(ctx, caller, validCreateInput())
		require.NoError(t, err)

		assert.Equal(t, 56.0, tx.Subtotal)
		assert.Equal(t, 76.0, tx.Total)
		assert.Equal(t, enum.TransactionStatusForPayment, tx.Status)
		assert.Equal(t, caller.BusinessID, tx.BusinessID)
		assert.Equal(t, caller.UserID, tx.CreatedBy)
		assert.Equal(t, caller.Name, tx.CreatedByName)
		assert.Equal(t, caller.Name, tx.Employee)
		assert.False(t, tx.Timestamp.IsZero())
	})

	t.Run("rejects empty item list", func(t *testing.T) {
		svc, _ := newTransactionTestService()
		caller := accessInBusiness(enum.RoleOwner, uuid.New())

		input := validCreateInput()
		input.Items = nil

		_, err := svc.CreateTransaction(ctx, caller, input)
		require.Error(t, err)
		assert.Equal(t, 400, apperror.GetAppError(err).Code)
	})

	t.Run("rejects zero price item", func(t *testing.T) {
		svc, _ := newTransactionTestService()
		caller := accessInBusiness(enum.RoleOwner, uuid.New())

		input := validCreateInput()
		input.Items = []entity.TransactionItem{{Name: "Copper", Weight: 5, Price: 0}}

		_, err := svc.CreateTransaction(ctx, caller, input)
		require.Error(t, err)
		assert.Equal(t, 400, apperror.GetAppError(err).Code)
	})

	t.Run("rejects item without quantity", func(t *testing.T) {
		svc, _ := newTransactionTestService()
		caller := accessInBusiness(enum.RoleOwner, uuid.New())

		input := validCreateInput()
		input.Items = []entity.TransactionItem{{Name: "Copper", Price: 5}}

		_, err := svc.CreateTransaction(ctx, caller, input)
		require.Error(t, err)
	})

	t.Run("rejects item with both weight and pieces", func(t *testing.T) {
		svc, _ := newTransactionTestService()
		caller := accessInBusiness(enum.RoleOwner, uuid.New())

		input := validCreateInput()
		input.Items = []entity.TransactionItem{{Name: "Copper", Weight: 5, Pieces: 2, Price: 5}}

		_, err := svc.CreateTransaction(ctx, caller, input)
		require.Error(t, err)
		assert.Equal(t, 400, apperror.GetAppError(err).Code)
	})

	t.Run("viewer cannot create", func(t *testing.T) {
		svc, _ := newTransactionTestService()
		caller := accessInBusiness(enum.RoleViewer, uuid.New())

		_, err := svc.CreateTransaction(ctx, caller, validCreateInput())
		require.Error(t, err)
		assert.Equal(t, 403, apperror.GetAppError(err).Code)
	})
}

func TestUpdateTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("expense change recomputes total from stored subtotal", func(t *testing.T) {
		svc, _ := newTransactionTestService()
		caller := accessInBusiness(enum.RoleOwner, uuid.New())

		created, err := svc.CreateTransaction(ctx, caller, validCreateInput())
		require.NoError(t, err)

		newExpenses := 30.0
		updated, err := svc.UpdateTransaction(ctx, caller, &UpdateTransactionInput{
			ID:       created.ID,
			Expenses: &newExpenses,
		})
		require.NoError(t, err)

		assert.Equal(t, 56.0, updated.Subtotal)
		assert.Equal(t, 86.0, updated.Total)
		require.NotNil(t, updated.UpdatedBy)
		assert.Equal(t, caller.UserID, *updated.UpdatedBy)
	})

	t.Run("item change recomputes both totals", func(t *testing.T) {
		svc, _ := newTransactionTestService()
		caller := accessInBusiness(enum.RoleOwner, uuid.New())

		created, err := svc.CreateTransaction(ctx, caller, validCreateInput())
		require.NoError(t, err)

		newItems := []entity.TransactionItem{{Name: "Aluminum", Weight: 4, Price: 25}}
		updated, err := svc.UpdateTransaction(ctx, caller, &UpdateTransactionInput{
			ID:    created.ID,
			Items: &newItems,
		})
		require.NoError(t, err)

		assert.Equal(t, 100.0, updated.Subtotal)
		assert.Equal(t, 120.0, updated.Total)
	})

	t.Run("illegal status transition is rejected", func(t *testing.T) {
		svc, _ := newTransactionTestService()
		caller := accessInBusiness(enum.RoleOwner, uuid.New())

		created, err := svc.CreateTransaction(ctx, caller, validCreateInput())
		require.NoError(t, err)

		_, err = svc.MarkPaid(ctx, caller, created.ID)
		require.NoError(t, err)

		backward := enum.TransactionStatusInProgress
		_, err = svc.UpdateTransaction(ctx, caller, &UpdateTransactionInput{
			ID:     created.ID,
			Status: &backward,
		})
		require.Error(t, err)
		assert.Equal(t, 403, apperror.GetAppError(err).Code)
	})

	t.Run("employee cannot edit a completed transaction", func(t *testing.T) {
		svc, _ := newTransactionTestService()
		businessID := uuid.New()
		owner := accessInBusiness(enum.RoleOwner, businessID)
		employee := accessInBusiness(enum.RoleEmployee, businessID)

		created, err := svc.CreateTransaction(ctx, employee, validCreateInput())
		require.NoError(t, err)
		_, err = svc.MarkPaid(ctx, employee, created.ID)
		require.NoError(t, err)

		name := "Changed"
		_, err = svc.UpdateTransaction(ctx, employee, &UpdateTransactionInput{
			ID:           created.ID,
			CustomerName: &name,
		})
		require.Error(t, err)
		assert.Equal(t, 403, apperror.GetAppError(err).Code)

		// The owner still can
		updated, err := svc.UpdateTransaction(ctx, owner, &UpdateTransactionInput{
			ID:           created.ID,
			CustomerName: &name,
		})
		require.NoError(t, err)
		assert.Equal(t, "Changed", updated.CustomerName)
	})

	t.Run("record from another business reads as not found", func(t *testing.T) {
		svc, _ := newTransactionTestService()
		caller := accessInBusiness(enum.RoleOwner, uuid.New())
		stranger := accessInBusiness(enum.RoleOwner, uuid.New())

		created, err := svc.CreateTransaction(ctx, caller, validCreateInput())
		require.NoError(t, err)

		name := "Changed"
		_, err = svc.UpdateTransaction(ctx, stranger, &UpdateTransactionInput{
			ID:           created.ID,
			CustomerName: &name,
		})
		require.Error(t, err)
		assert.Equal(t, 404, apperror.GetAppError(err).Code)
	})
}

func TestTransitions(t *testing.T) {
	ctx := context.Background()

	t.Run("mark paid completes and locks totals", func(t *testing.T) {
		svc, _ := newTransactionTestService()
		caller := accessInBusiness(enum.RoleManager, uuid.New())

		created, err := svc.CreateTransaction(ctx, caller, validCreateInput())
		require.NoError(t, err)

		paid, err := svc.MarkPaid(ctx, caller, created.ID)
		require.NoError(t, err)
		assert.Equal(t, enum.TransactionStatusCompleted, paid.Status)
		assert.Equal(t, created.Total, paid.Total)

		// Double completion is rejected, so totals can never change twice
		_, err = svc.MarkPaid(ctx, caller, created.ID)
		require.Error(t, err)
		assert.Equal(t, 403, apperror.GetAppError(err).Code)
	})

	t.Run("cancel from terminal state is rejected", func(t *testing.T) {
		svc, _ := newTransactionTestService()
		caller := accessInBusiness(enum.RoleOwner, uuid.New())

		created, err := svc.CreateTransaction(ctx, caller, validCreateInput())
		require.NoError(t, err)
		_, err = svc.Cancel(ctx, caller, created.ID)
		require.NoError(t, err)

		_, err = svc.MarkPaid(ctx, caller, created.ID)
		require.Error(t, err)
	})
}

func TestListTransactions(t *testing.T) {
	ctx := context.Background()

	t.Run("employee listing is scoped to own records", func(t *testing.T) {
		svc, _ := newTransactionTestService()
		businessID := uuid.New()
		owner := accessInBusiness(enum.RoleOwner, businessID)
		employee := accessInBusiness(enum.RoleEmployee, businessID)

		_, err := svc.CreateTransaction(ctx, owner, validCreateInput())
		require.NoError(t, err)
		_, err = svc.CreateTransaction(ctx, employee, validCreateInput())
		require.NoError(t, err)

		ownerResult, err := svc.ListTransactions(ctx, owner, &repository.TransactionFilterParams{})
		require.NoError(t, err)
		assert.Len(t, ownerResult.Items, 2)

		employeeResult, err := svc.ListTransactions(ctx, employee, &repository.TransactionFilterParams{})
		require.NoError(t, err)
		require.Len(t, employeeResult.Items, 1)
		assert.Equal(t, employee.UserID, employeeResult.Items[0].CreatedBy)
	})
}
