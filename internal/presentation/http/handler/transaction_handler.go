package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/scrapworks/junkshop-api/internal/application/service"
	"github.com/scrapworks/junkshop-api/internal/domain/entity"
	"github.com/scrapworks/junkshop-api/internal/domain/enum"
	"github.com/scrapworks/junkshop-api/internal/domain/repository"
	"github.com/scrapworks/junkshop-api/internal/presentation/http/dto/response"
	"github.com/scrapworks/junkshop-api/pkg/pagination"
)

// TransactionHandler handles transaction-related HTTP requests
type TransactionHandler struct {
	transactionService *service.TransactionService
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(transactionService *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// List handles listing transactions
func (h *TransactionHandler) List(c *gin.Context) {
	access := GetAccess(c)
	if access == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))

	params := &repository.TransactionFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    page,
			PerPage: perPage,
		},
	}

	if typeStr := c.Query("type"); typeStr != "" {
		t := enum.TransactionType(typeStr)
		if !t.Valid() {
			response.BadRequest(c, "Unknown transaction type")
			return
		}
		params.Type = &t
	}

	if statusStr := c.Query("status"); statusStr != "" {
		s := enum.TransactionStatus(statusStr)
		if !s.Valid() {
			response.BadRequest(c, "Unknown transaction status")
			return
		}
		params.Status = &s
	}

	if employee := c.Query("employee"); employee != "" {
		params.Employee = &employee
	}

	if createdByStr := c.Query("created_by"); createdByStr != "" {
		if createdBy, err := uuid.Parse(createdByStr); err == nil {
			params.CreatedBy = &createdBy
		}
	}

	if startDateStr := c.Query("date_from"); startDateStr != "" {
		if startDate, err := time.Parse("2006-01-02", startDateStr); err == nil {
			params.DateFrom = &startDate
		}
	}

	if endDateStr := c.Query("date_to"); endDateStr != "" {
		if endDate, err := time.Parse("2006-01-02", endDateStr); err == nil {
			params.DateTo = &endDate
		}
	}

	result, err := h.transactionService.ListTransactions(c.Request.Context(), access, params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Transactions retrieved successfully", result)
}

// Create handles creating a transaction
func (h *TransactionHandler) Create(c *gin.Context) {
	access := GetAccess(c)
	if access == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req struct {
		Type             enum.TransactionType     `json:"type" binding:"required"`
		CustomerType     enum.CustomerType        `json:"customer_type" binding:"required"`
		CustomerName     string                   `json:"customer_name"`
		Employee         string                   `json:"employee"`
		Location         string                   `json:"location"`
		Items            []entity.TransactionItem `json:"items" binding:"required"`
		Expenses         float64                  `json:"expenses"`
		TripExpenses     []entity.SubExpense      `json:"trip_expenses"`
		DeliveryExpenses []entity.SubExpense      `json:"delivery_expenses"`
		SessionImages    []string                 `json:"session_images"`
		IsPickup         bool                     `json:"is_pickup"`
		IsDelivery       bool                     `json:"is_delivery"`
		SessionType      string                   `json:"session_type"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	transaction, err := h.transactionService.CreateTransaction(c.Request.Context(), access, &service.CreateTransactionInput{
		Type:             req.Type,
		CustomerType:     req.CustomerType,
		CustomerName:     req.CustomerName,
		Employee:         req.Employee,
		Location:         req.Location,
		Items:            req.Items,
		Expenses:         req.Expenses,
		TripExpenses:     req.TripExpenses,
		DeliveryExpenses: req.DeliveryExpenses,
		SessionImages:    req.SessionImages,
		IsPickup:         req.IsPickup,
		IsDelivery:       req.IsDelivery,
		SessionType:      req.SessionType,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Transaction created successfully", transaction)
}

// Get handles retrieving a single transaction
func (h *TransactionHandler) Get(c *gin.Context) {
	access := GetAccess(c)
	if access == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid transaction ID")
		return
	}

	transaction, err := h.transactionService.GetTransaction(c.Request.Context(), access, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Transaction retrieved successfully", transaction)
}

// Update handles partially updating a transaction
func (h *TransactionHandler) Update(c *gin.Context) {
	access := GetAccess(c)
	if access == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid transaction ID")
		return
	}

	var req struct {
		Status           *enum.TransactionStatus   `json:"status"`
		CustomerType     *enum.CustomerType        `json:"customer_type"`
		CustomerName     *string                   `json:"customer_name"`
		Employee         *string                   `json:"employee"`
		Location         *string                   `json:"location"`
		Items            *[]entity.TransactionItem `json:"items"`
		Expenses         *float64                  `json:"expenses"`
		TripExpenses     *[]entity.SubExpense      `json:"trip_expenses"`
		DeliveryExpenses *[]entity.SubExpense      `json:"delivery_expenses"`
		SessionImages    *[]string                 `json:"session_images"`
		IsPickup         *bool                     `json:"is_pickup"`
		IsDelivery       *bool                     `json:"is_delivery"`
		SessionType      *string                   `json:"session_type"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	transaction, err := h.transactionService.UpdateTransaction(c.Request.Context(), access, &service.UpdateTransactionInput{
		ID:               id,
		Status:           req.Status,
		CustomerType:     req.CustomerType,
		CustomerName:     req.CustomerName,
		Employee:         req.Employee,
		Location:         req.Location,
		Items:            req.Items,
		Expenses:         req.Expenses,
		TripExpenses:     req.TripExpenses,
		DeliveryExpenses: req.DeliveryExpenses,
		SessionImages:    req.SessionImages,
		IsPickup:         req.IsPickup,
		IsDelivery:       req.IsDelivery,
		SessionType:      req.SessionType,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Transaction updated successfully", transaction)
}

// MarkPaid completes a transaction
func (h *TransactionHandler) MarkPaid(c *gin.Context) {
	access := GetAccess(c)
	if access == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid transaction ID")
		return
	}

	transaction, err := h.transactionService.MarkPaid(c.Request.Context(), access, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Transaction marked as paid", transaction)
}

// Cancel cancels a transaction
func (h *TransactionHandler) Cancel(c *gin.Context) {
	access := GetAccess(c)
	if access == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid transaction ID")
		return
	}

	transaction, err := h.transactionService.Cancel(c.Request.Context(), access, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Transaction cancelled", transaction)
}

// Delete handles deleting a transaction
func (h *TransactionHandler) Delete(c *gin.Context) {
	access := GetAccess(c)
	if access == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid transaction ID")
		return
	}

	if err := h.transactionService.DeleteTransaction(c.Request.Context(), access, id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Transaction deleted successfully", nil)
}
