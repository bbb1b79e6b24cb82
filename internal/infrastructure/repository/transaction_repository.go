package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/scrapworks/junkshop-api/internal/domain/entity"
	domainRepo "github.com/scrapworks/junkshop-api/internal/domain/repository"
	"gorm.io/gorm"
)

type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *gorm.DB) domainRepo.TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(ctx context.Context, transaction *entity.Transaction) error {
	return r.db.WithContext(ctx).Create(transaction).Error
}

func (r *transactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	var transaction entity.Transaction
	err := r.db.WithContext(ctx).Scopes(BusinessScope(ctx)).First(&transaction, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &transaction, err
}

func (r *transactionRepository) Update(ctx context.Context, transaction *entity.Transaction) error {
	return r.db.WithContext(ctx).Save(transaction).Error
}

func (r *transactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Scopes(BusinessScope(ctx)).
		Delete(&entity.Transaction{}, "id = ?", id).Error
}

func (r *transactionRepository) List(ctx context.Context, params *domainRepo.TransactionFilterParams) ([]entity.Transaction, int64, error) {
	var transactions []entity.Transaction
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Transaction{}).Scopes(BusinessScope(ctx))

	if params.Type != nil {
		query = query.Where("type = ?", *params.Type)
	}
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.Employee != nil {
		query = query.Where("employee = ?", *params.Employee)
	}
	if params.CreatedBy != nil {
		query = query.Where("created_by = ?", *params.CreatedBy)
	}
	if params.DateFrom != nil {
		query = query.Where("timestamp >= ?", *params.DateFrom)
	}
	if params.DateTo != nil {
		query = query.Where("timestamp <= ?", *params.DateTo)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Order("timestamp DESC").
		Find(&transactions).Error

	return transactions, total, err
}
