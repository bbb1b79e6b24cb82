package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/scrapworks/junkshop-api/internal/domain/entity"
	"github.com/scrapworks/junkshop-api/internal/domain/enum"
	domainRepo "github.com/scrapworks/junkshop-api/internal/domain/repository"
	"gorm.io/gorm"
)

type businessRepository struct {
	db *gorm.DB
}

// NewBusinessRepository creates a new business repository
func NewBusinessRepository(db *gorm.DB) domainRepo.BusinessRepository {
	return &businessRepository{db: db}
}

func (r *businessRepository) CreateWithOwner(ctx context.Context, business *entity.Business, owner *entity.BusinessUser) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(business).Error; err != nil {
			return err
		}
		owner.BusinessID = business.ID
		return tx.Create(owner).Error
	})
}

func (r *businessRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Business, error) {
	var business entity.Business
	err := r.db.WithContext(ctx).First(&business, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &business, err
}

func (r *businessRepository) GetByName(ctx context.Context, name string) (*entity.Business, error) {
	var business entity.Business
	err := r.db.WithContext(ctx).First(&business, "name = ?", name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &business, err
}

func (r *businessRepository) Update(ctx context.Context, business *entity.Business) error {
	return r.db.WithContext(ctx).Save(business).Error
}

func (r *businessRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]entity.Business, error) {
	var businesses []entity.Business
	err := r.db.WithContext(ctx).
		Joins("JOIN business_users ON business_users.business_id = businesses.id").
		Where("business_users.user_id = ? AND business_users.is_active = ?", userID, true).
		Order("businesses.created_at ASC").
		Find(&businesses).Error
	return businesses, err
}

func (r *businessRepository) AddMember(ctx context.Context, membership *entity.BusinessUser) error {
	return r.db.WithContext(ctx).Create(membership).Error
}

func (r *businessRepository) SaveMember(ctx context.Context, membership *entity.BusinessUser) error {
	return r.db.WithContext(ctx).Save(membership).Error
}

func (r *businessRepository) GetMembership(ctx context.Context, businessID, userID uuid.UUID) (*entity.BusinessUser, error) {
	var membership entity.BusinessUser
	err := r.db.WithContext(ctx).
		First(&membership, "business_id = ? AND user_id = ?", businessID, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &membership, err
}

func (r *businessRepository) GetMembers(ctx context.Context, businessID uuid.UUID) ([]entity.BusinessUser, error) {
	var members []entity.BusinessUser
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("business_id = ? AND is_active = ?", businessID, true).
		Order("created_at ASC").
		Find(&members).Error
	return members, err
}

func (r *businessRepository) DeactivateMember(ctx context.Context, businessID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&entity.BusinessUser{}).
		Where("business_id = ? AND user_id = ?", businessID, userID).
		Update("is_active", false).Error
}

func (r *businessRepository) UpdateMemberRole(ctx context.Context, businessID, userID uuid.UUID, role enum.Role) error {
	var membership entity.BusinessUser
	err := r.db.WithContext(ctx).
		First(&membership, "business_id = ? AND user_id = ?", businessID, userID).Error
	if err != nil {
		return err
	}
	membership.Role = role
	membership.Permissions = entity.CapabilitiesForRole(role)
	return r.db.WithContext(ctx).Save(&membership).Error
}

func (r *businessRepository) FirstActiveMembership(ctx context.Context, userID uuid.UUID) (*entity.BusinessUser, error) {
	var membership entity.BusinessUser
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("created_at ASC").
		First(&membership).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &membership, err
}
