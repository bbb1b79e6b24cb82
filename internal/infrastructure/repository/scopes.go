package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ctxKey string

// BusinessIDKey is the context key for the caller's resolved business ID
const BusinessIDKey ctxKey = "business_id"

// BusinessScope returns a GORM scope that filters by the business carried in
// the context. Applied to every query over business-owned entities.
func BusinessScope(ctx context.Context) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		businessID, ok := ctx.Value(BusinessIDKey).(uuid.UUID)
		if !ok {
			// Fail-safe: no business context means no results. Prevents
			// accidental cross-business data access.
			return db.Where("1 = 0")
		}
		return db.Where("business_id = ?", businessID)
	}
}

// WithBusiness adds the business ID to the context
func WithBusiness(ctx context.Context, businessID uuid.UUID) context.Context {
	return context.WithValue(ctx, BusinessIDKey, businessID)
}

// GetBusinessID extracts the business ID from the context
func GetBusinessID(ctx context.Context) (uuid.UUID, bool) {
	businessID, ok := ctx.Value(BusinessIDKey).(uuid.UUID)
	return businessID, ok
}
