package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/scrapworks/junkshop-api/internal/domain/enum"
	"gorm.io/gorm"
)

// TransactionItem is a single scrap line item. Quantity is measured either
// by weight (kilograms) or by pieces; exactly one of the two should be set.
type TransactionItem struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight,omitempty"`
	Pieces float64 `json:"pieces,omitempty"`
	Price  float64 `json:"price"`
}

// HasQuantity reports whether the item carries a positive quantity measure
func (i TransactionItem) HasQuantity() bool {
	return i.Weight > 0 || i.Pieces > 0
}

// HasName reports whether the item name is non-blank
func (i TransactionItem) HasName() bool {
	return strings.TrimSpace(i.Name) != ""
}

// SubExpense is a labelled expense attached to a trip or delivery
type SubExpense struct {
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

// Transaction represents a scrap purchase or sale recorded by a business.
// Subtotal and Total are always derived from Items and Expenses; they are
// never accepted from a client.
type Transaction struct {
	ID               uuid.UUID              `gorm:"type:uuid;primary_key" json:"id"`
	BusinessID       uuid.UUID              `gorm:"type:uuid;not null;index" json:"business_id"`
	Type             enum.TransactionType   `gorm:"size:10;not null" json:"type"`
	CustomerType     enum.CustomerType      `gorm:"size:20;not null" json:"customer_type"`
	CustomerName     string                 `gorm:"size:255" json:"customer_name"`
	Employee         string                 `gorm:"size:255" json:"employee"`
	Location         string                 `gorm:"size:255" json:"location"`
	Items            []TransactionItem      `gorm:"type:jsonb;serializer:json" json:"items"`
	Expenses         float64                `gorm:"default:0" json:"expenses"`
	TripExpenses     []SubExpense           `gorm:"type:jsonb;serializer:json" json:"trip_expenses,omitempty"`
	DeliveryExpenses []SubExpense           `gorm:"type:jsonb;serializer:json" json:"delivery_expenses,omitempty"`
	SessionImages    []string               `gorm:"type:jsonb;serializer:json" json:"session_images,omitempty"`
	IsPickup         bool                   `gorm:"default:false" json:"is_pickup"`
	IsDelivery       bool                   `gorm:"default:false" json:"is_delivery"`
	SessionType      string                 `gorm:"size:50" json:"session_type"`
	Status           enum.TransactionStatus `gorm:"size:20;not null;default:'for-payment'" json:"status"`
	Subtotal         float64                `gorm:"default:0" json:"subtotal"`
	Total            float64                `gorm:"default:0" json:"total"`
	Timestamp        time.Time              `gorm:"not null;index" json:"timestamp"`
	CreatedBy        uuid.UUID              `gorm:"type:uuid;not null;index" json:"created_by"`
	CreatedByName    string                 `gorm:"size:255" json:"created_by_name"`
	UpdatedBy        *uuid.UUID             `gorm:"type:uuid" json:"updated_by,omitempty"`
	UpdatedByName    string                 `gorm:"size:255" json:"updated_by_name,omitempty"`
	CreatedAt        time.Time              `json:"created_at"`
	UpdatedAt        time.Time              `json:"updated_at"`
	DeletedAt        gorm.DeletedAt         `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new transaction
func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Transaction model
func (Transaction) TableName() string {
	return "transactions"
}
