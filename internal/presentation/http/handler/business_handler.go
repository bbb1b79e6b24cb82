package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/scrapworks/junkshop-api/internal/application/service"
	"github.com/scrapworks/junkshop-api/internal/domain/entity"
	"github.com/scrapworks/junkshop-api/internal/domain/enum"
	"github.com/scrapworks/junkshop-api/internal/presentation/http/dto/response"
)

// BusinessHandler handles business and membership HTTP requests
type BusinessHandler struct {
	businessService *service.BusinessService
}

// NewBusinessHandler creates a new business handler
func NewBusinessHandler(businessService *service.BusinessService) *BusinessHandler {
	return &BusinessHandler{businessService: businessService}
}

// Create handles creating a business
func (h *BusinessHandler) Create(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req struct {
		Name     string                  `json:"name" binding:"required"`
		Phone    string                  `json:"phone"`
		Email    string                  `json:"email"`
		Address  string                  `json:"address"`
		Settings entity.BusinessSettings `json:"settings"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	business, err := h.businessService.CreateBusiness(c.Request.Context(), &service.CreateBusinessInput{
		Name:      req.Name,
		Phone:     req.Phone,
		Email:     req.Email,
		Address:   req.Address,
		Settings:  req.Settings,
		CreatorID: *userID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Business created successfully", business)
}

// List handles listing the caller's businesses
func (h *BusinessHandler) List(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	businesses, err := h.businessService.ListUserBusinesses(c.Request.Context(), *userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Businesses retrieved successfully", businesses)
}

// Current returns the caller's current business
func (h *BusinessHandler) Current(c *gin.Context) {
	access := GetAccess(c)
	if access == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	business, err := h.businessService.GetBusiness(c.Request.Context(), access.BusinessID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Business retrieved successfully", gin.H{
		"business":     business,
		"role":         access.Role,
		"capabilities": access.Caps,
	})
}

// Members handles listing active members of the current business
func (h *BusinessHandler) Members(c *gin.Context) {
	access := GetAccess(c)
	if access == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	members, err := h.businessService.GetMembers(c.Request.Context(), access.BusinessID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Members retrieved successfully", members)
}

// Invite handles inviting a user into the current business
func (h *BusinessHandler) Invite(c *gin.Context) {
	access := GetAccess(c)
	if access == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req struct {
		Email string    `json:"email" binding:"required,email"`
		Role  enum.Role `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	invitation, err := h.businessService.InviteUser(c.Request.Context(), access, &service.InviteUserInput{
		Email: req.Email,
		Role:  req.Role,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Invitation sent successfully", invitation)
}

// AcceptInvitation redeems an invitation token for the caller
func (h *BusinessHandler) AcceptInvitation(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	membership, err := h.businessService.AcceptInvitation(c.Request.Context(), *userID, req.Token)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invitation accepted successfully", membership)
}

// Switch changes the caller's current business
func (h *BusinessHandler) Switch(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	businessID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid business ID")
		return
	}

	if err := h.businessService.SwitchBusiness(c.Request.Context(), *userID, businessID); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Business switched successfully", nil)
}

// RemoveMember deactivates a member of the current business
func (h *BusinessHandler) RemoveMember(c *gin.Context) {
	access := GetAccess(c)
	if access == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	memberID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		response.BadRequest(c, "Invalid user ID")
		return
	}

	if err := h.businessService.RemoveUser(c.Request.Context(), access, memberID); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Member removed successfully", nil)
}

// UpdateMemberRole changes a member's role in the current business
func (h *BusinessHandler) UpdateMemberRole(c *gin.Context) {
	access := GetAccess(c)
	if access == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	memberID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		response.BadRequest(c, "Invalid user ID")
		return
	}

	var req struct {
		Role enum.Role `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.businessService.UpdateMemberRole(c.Request.Context(), access, memberID, req.Role); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Member role updated successfully", nil)
}
