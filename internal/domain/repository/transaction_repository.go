package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/scrapworks/junkshop-api/internal/domain/entity"
	"github.com/scrapworks/junkshop-api/internal/domain/enum"
	"github.com/scrapworks/junkshop-api/pkg/pagination"
)

// TransactionRepository defines the interface for transaction data operations.
// All reads are scoped to the business carried in the context.
type TransactionRepository interface {
	Create(ctx context.Context, transaction *entity.Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error)
	Update(ctx context.Context, transaction *entity.Transaction) error
	Delete(ctx context.Context, id uuid.UUID) error

	// List returns transactions ordered by timestamp descending
	List(ctx context.Context, params *TransactionFilterParams) ([]entity.Transaction, int64, error)
}

// TransactionFilterParams is the closed set of filters a transaction listing
// accepts. Nil fields are not applied.
type TransactionFilterParams struct {
	Pagination *pagination.PaginationParams
	Type       *enum.TransactionType
	Status     *enum.TransactionStatus
	Employee   *string

	// CreatedBy restricts results to a single author. The access gate sets
	// this for employee-role callers.
	CreatedBy *uuid.UUID

	DateFrom *time.Time
	DateTo   *time.Time
}
