package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/scrapworks/junkshop-api/internal/application/service"
	infraRepo "github.com/scrapworks/junkshop-api/internal/infrastructure/repository"
	"github.com/scrapworks/junkshop-api/internal/presentation/http/dto/response"
)

// BusinessMiddleware resolves the caller's membership in their current
// business and attaches the resulting access to the request. Repositories
// downstream scope every query to the business placed in the request context.
func BusinessMiddleware(gate *service.AccessGate) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			response.Unauthorized(c, "Authentication required")
			c.Abort()
			return
		}
		userID, ok := userIDVal.(uuid.UUID)
		if !ok || userID == uuid.Nil {
			response.Unauthorized(c, "Authentication required")
			c.Abort()
			return
		}

		access, err := gate.Resolve(c.Request.Context(), userID)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set("access", access)
		c.Set("business_id", access.BusinessID)

		ctx := infraRepo.WithBusiness(c.Request.Context(), access.BusinessID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetBusinessID retrieves the business ID from gin context
func GetBusinessID(c *gin.Context) uuid.UUID {
	businessID, exists := c.Get("business_id")
	if !exists {
		return uuid.Nil
	}
	id, ok := businessID.(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return id
}
