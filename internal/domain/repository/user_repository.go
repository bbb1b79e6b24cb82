package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/scrapworks/junkshop-api/internal/domain/entity"
)

// UserRepository defines the interface for user profile data operations
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error

	// SetCurrentBusiness updates the user's current-business pointer
	SetCurrentBusiness(ctx context.Context, userID, businessID uuid.UUID) error
}
