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

type invitationRepository struct {
	db *gorm.DB
}

// NewInvitationRepository creates a new invitation repository
func NewInvitationRepository(db *gorm.DB) domainRepo.InvitationRepository {
	return &invitationRepository{db: db}
}

func (r *invitationRepository) Create(ctx context.Context, invitation *entity.BusinessInvitation) error {
	return r.db.WithContext(ctx).Create(invitation).Error
}

func (r *invitationRepository) GetByToken(ctx context.Context, token string) (*entity.BusinessInvitation, error) {
	var invitation entity.BusinessInvitation
	err := r.db.WithContext(ctx).First(&invitation, "token = ?", token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &invitation, err
}

// MarkAccepted is a conditional update: only a still-pending row is flipped.
// RowsAffected tells concurrent redeemers apart; exactly one caller wins.
func (r *invitationRepository) MarkAccepted(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Model(&entity.BusinessInvitation{}).
		Where("id = ? AND status = ?", id, enum.InvitationStatusPending).
		Update("status", enum.InvitationStatusAccepted)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *invitationRepository) MarkExpired(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&entity.BusinessInvitation{}).
		Where("id = ? AND status = ?", id, enum.InvitationStatusPending).
		Update("status", enum.InvitationStatusExpired).Error
}

func (r *invitationRepository) Cancel(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&entity.BusinessInvitation{}).
		Where("id = ? AND status = ?", id, enum.InvitationStatusPending).
		Update("status", enum.InvitationStatusCancelled).Error
}

func (r *invitationRepository) ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]entity.BusinessInvitation, error) {
	var invitations []entity.BusinessInvitation
	err := r.db.WithContext(ctx).
		Where("business_id = ?", businessID).
		Order("created_at DESC").
		Find(&invitations).Error
	return invitations, err
}
