package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/scrapworks/junkshop-api/internal/application/service"
)

// GetUserID extracts the user ID from the Gin context
func GetUserID(c *gin.Context) *uuid.UUID {
	userIDVal, exists := c.Get("user_id")
	if !exists {
		return nil
	}
	userID, ok := userIDVal.(uuid.UUID)
	if !ok {
		return nil
	}
	return &userID
}

// GetUserEmail extracts the user email from the Gin context
func GetUserEmail(c *gin.Context) string {
	email, exists := c.Get("user_email")
	if !exists {
		return ""
	}
	return email.(string)
}

// GetAccess extracts the resolved access from the Gin context. It is set by
// the business middleware on every authenticated business route.
func GetAccess(c *gin.Context) *service.Access {
	accessVal, exists := c.Get("access")
	if !exists {
		return nil
	}
	access, ok := accessVal.(*service.Access)
	if !ok {
		return nil
	}
	return access
}
