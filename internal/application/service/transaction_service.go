package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/scrapworks/junkshop-api/internal/domain/entity"
	"github.com/scrapworks/junkshop-api/internal/domain/enum"
	"github.com/scrapworks/junkshop-api/internal/domain/money"
	"github.com/scrapworks/junkshop-api/internal/domain/repository"
	"github.com/scrapworks/junkshop-api/pkg/apperror"
	"github.com/scrapworks/junkshop-api/pkg/pagination"
)

// TransactionService orchestrates the transaction lifecycle: it validates
// requests, recomputes derived totals, enforces status transition legality
// and delegates persistence to the repository.
type TransactionService struct {
	transactionRepo repository.TransactionRepository
}

// NewTransactionService creates a new transaction service
func NewTransactionService(transactionRepo repository.TransactionRepository) *TransactionService {
	return &TransactionService{transactionRepo: transactionRepo}
}

// CreateTransactionInput represents the create transaction input
type CreateTransactionInput struct {
	Type             enum.TransactionType
	CustomerType     enum.CustomerType
	CustomerName     string
	Employee         string
	Location         string
	Items            []entity.TransactionItem
	Expenses         float64
	TripExpenses     []entity.SubExpense
	DeliveryExpenses []entity.SubExpense
	SessionImages    []string
	IsPickup         bool
	IsDelivery       bool
	SessionType      string
}

// CreateTransaction validates the request, computes derived totals, stamps
// the creation time and audit fields and persists the record. The returned
// entity is re-read from the store so generated identity reflects the store
// of record.
func (s *TransactionService) CreateTransaction(ctx context.Context, caller *Access, input *CreateTransactionInput) (*entity.Transaction, error) {
	if !caller.Caps.CanManageTransactions {
		return nil, apperror.NewForbiddenError("Your role cannot create transactions")
	}

	if err := s.validateCreate(input); err != nil {
		return nil, err
	}

	subtotal := money.Subtotal(input.Items)
	total := money.Total(subtotal, input.Expenses)

	employee := input.Employee
	if employee == "" {
		employee = caller.Name
	}

	transaction := &entity.Transaction{
		BusinessID:       caller.BusinessID,
		Type:             input.Type,
		CustomerType:     input.CustomerType,
		CustomerName:     input.CustomerName,
		Employee:         employee,
		Location:         input.Location,
		Items:            input.Items,
		Expenses:         input.Expenses,
		TripExpenses:     input.TripExpenses,
		DeliveryExpenses: input.DeliveryExpenses,
		SessionImages:    input.SessionImages,
		IsPickup:         input.IsPickup,
		IsDelivery:       input.IsDelivery,
		SessionType:      input.SessionType,
		Status:           enum.TransactionStatusForPayment,
		Subtotal:         subtotal,
		Total:            total,
		Timestamp:        time.Now(),
		CreatedBy:        caller.UserID,
		CreatedByName:    caller.Name,
	}

	if err := s.transactionRepo.Create(ctx, transaction); err != nil {
		return nil, err
	}

	return s.transactionRepo.GetByID(ctx, transaction.ID)
}

// UpdateTransactionInput represents the update transaction input. Nil fields
// are left unchanged (partial-update semantics).
type UpdateTransactionInput struct {
	ID               uuid.UUID
	Status           *enum.TransactionStatus
	CustomerType     *enum.CustomerType
	CustomerName     *string
	Employee         *string
	Location         *string
	Items            *[]entity.TransactionItem
	Expenses         *float64
	TripExpenses     *[]entity.SubExpense
	DeliveryExpenses *[]entity.SubExpense
	SessionImages    *[]string
	IsPickup         *bool
	IsDelivery       *bool
	SessionType      *string
}

// UpdateTransaction merges changed fields over the existing record. Any write
// that changes items or expenses recomputes subtotal and total before
// persistence; status changes must follow the lifecycle state machine.
func (s *TransactionService) UpdateTransaction(ctx context.Context, caller *Access, input *UpdateTransactionInput) (*entity.Transaction, error) {
	if input.ID == uuid.Nil {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "id", Message: "Transaction id is required"},
		})
	}
	if err := s.validateUpdate(input); err != nil {
		return nil, err
	}

	existing, err := s.transactionRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if existing == nil || !caller.CanSee(existing) {
		return nil, apperror.NewNotFoundError("Transaction")
	}

	if err := caller.CanEdit(existing); err != nil {
		return nil, err
	}

	if input.Status != nil && *input.Status != existing.Status {
		if !existing.Status.CanTransitionTo(*input.Status) {
			return nil, apperror.NewInvalidTransitionError(existing.Status.String(), input.Status.String())
		}
		existing.Status = *input.Status
	}

	// Totals are derived, never settable: recompute from the new items when
	// supplied, or from the existing subtotal when only expenses changed.
	switch {
	case input.Items != nil:
		existing.Items = *input.Items
		if input.Expenses != nil {
			existing.Expenses = *input.Expenses
		}
		existing.Subtotal = money.Subtotal(existing.Items)
		existing.Total = money.Total(existing.Subtotal, existing.Expenses)
	case input.Expenses != nil:
		existing.Expenses = *input.Expenses
		existing.Total = money.Total(existing.Subtotal, existing.Expenses)
	}

	if input.CustomerType != nil {
		existing.CustomerType = *input.CustomerType
	}
	if input.CustomerName != nil {
		existing.CustomerName = *input.CustomerName
	}
	if input.Employee != nil {
		existing.Employee = *input.Employee
	}
	if input.Location != nil {
		existing.Location = *input.Location
	}
	if input.TripExpenses != nil {
		existing.TripExpenses = *input.TripExpenses
	}
	if input.DeliveryExpenses != nil {
		existing.DeliveryExpenses = *input.DeliveryExpenses
	}
	if input.SessionImages != nil {
		existing.SessionImages = *input.SessionImages
	}
	if input.IsPickup != nil {
		existing.IsPickup = *input.IsPickup
	}
	if input.IsDelivery != nil {
		existing.IsDelivery = *input.IsDelivery
	}
	if input.SessionType != nil {
		existing.SessionType = *input.SessionType
	}

	s.stampUpdate(existing, caller)

	if err := s.transactionRepo.Update(ctx, existing); err != nil {
		return nil, err
	}

	return s.transactionRepo.GetByID(ctx, existing.ID)
}

// MarkPaid completes a transaction without touching monetary fields. A
// transaction that is already completed or cancelled rejects the transition,
// so double-completion can never alter totals.
func (s *TransactionService) MarkPaid(ctx context.Context, caller *Access, id uuid.UUID) (*entity.Transaction, error) {
	return s.transition(ctx, caller, id, enum.TransactionStatusCompleted)
}

// Cancel moves a for-payment or in-progress transaction to cancelled
func (s *TransactionService) Cancel(ctx context.Context, caller *Access, id uuid.UUID) (*entity.Transaction, error) {
	return s.transition(ctx, caller, id, enum.TransactionStatusCancelled)
}

func (s *TransactionService) transition(ctx context.Context, caller *Access, id uuid.UUID, next enum.TransactionStatus) (*entity.Transaction, error) {
	existing, err := s.transactionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil || !caller.CanSee(existing) {
		return nil, apperror.NewNotFoundError("Transaction")
	}
	if err := caller.CanEdit(existing); err != nil {
		return nil, err
	}
	if existing.Status == next || !existing.Status.CanTransitionTo(next) {
		return nil, apperror.NewInvalidTransitionError(existing.Status.String(), next.String())
	}

	existing.Status = next
	s.stampUpdate(existing, caller)

	if err := s.transactionRepo.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// DeleteTransaction soft-deletes a transaction. The same edit rules apply, so
// completed records can only be removed by the business owner.
func (s *TransactionService) DeleteTransaction(ctx context.Context, caller *Access, id uuid.UUID) error {
	existing, err := s.transactionRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil || !caller.CanSee(existing) {
		return apperror.NewNotFoundError("Transaction")
	}
	if err := caller.CanEdit(existing); err != nil {
		return err
	}
	return s.transactionRepo.Delete(ctx, id)
}

// GetTransaction retrieves a transaction visible to the caller
func (s *TransactionService) GetTransaction(ctx context.Context, caller *Access, id uuid.UUID) (*entity.Transaction, error) {
	transaction, err := s.transactionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if transaction == nil || !caller.CanSee(transaction) {
		return nil, apperror.NewNotFoundError("Transaction")
	}
	return transaction, nil
}

// ListTransactions lists transactions the caller may see, newest first.
// Employee-role callers only ever receive their own records.
func (s *TransactionService) ListTransactions(ctx context.Context, caller *Access, params *repository.TransactionFilterParams) (*pagination.PaginatedResult[entity.Transaction], error) {
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	if !caller.ViewAll {
		params.CreatedBy = &caller.UserID
	}

	transactions, total, err := s.transactionRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	params.Pagination.Validate()
	page := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(transactions, page), nil
}

// stampUpdate records who last touched the record. Audit trail, not a
// business rule, but mandatory for traceability.
func (s *TransactionService) stampUpdate(t *entity.Transaction, caller *Access) {
	updatedBy := caller.UserID
	t.UpdatedBy = &updatedBy
	t.UpdatedByName = caller.Name
}
