package service

import (
	"fmt"

	"github.com/scrapworks/junkshop-api/internal/domain/entity"
	"github.com/scrapworks/junkshop-api/pkg/apperror"
)

// validateItems checks every line item, naming the offending field and item
// index. An item must have a non-blank name, exactly a positive quantity
// measure (weight or pieces), and a positive unit price.
func validateItems(items []entity.TransactionItem) []apperror.FieldError {
	var errs []apperror.FieldError
	if len(items) == 0 {
		return append(errs, apperror.FieldError{
			Field:   "items",
			Message: "At least one item is required",
		})
	}
	for i, item := range items {
		if !item.HasName() {
			errs = append(errs, apperror.FieldError{
				Field:   fmt.Sprintf("items[%d].name", i),
				Message: "Item name is required",
			})
		}
		if !item.HasQuantity() {
			errs = append(errs, apperror.FieldError{
				Field:   fmt.Sprintf("items[%d]", i),
				Message: "Item requires a positive weight or pieces",
			})
		}
		if item.Weight > 0 && item.Pieces > 0 {
			errs = append(errs, apperror.FieldError{
				Field:   fmt.Sprintf("items[%d]", i),
				Message: "Item must be measured by weight or by pieces, not both",
			})
		}
		if item.Price <= 0 {
			errs = append(errs, apperror.FieldError{
				Field:   fmt.Sprintf("items[%d].price", i),
				Message: "Item price must be positive",
			})
		}
	}
	return errs
}

// validateCreate validates a create request. Any failure rejects the whole
// request; nothing is persisted partially.
func (s *TransactionService) validateCreate(input *CreateTransactionInput) error {
	var errs []apperror.FieldError

	if !input.Type.Valid() {
		errs = append(errs, apperror.FieldError{
			Field:   "type",
			Message: "Type must be either buy or sell",
		})
	}
	if !input.CustomerType.Valid() {
		errs = append(errs, apperror.FieldError{
			Field:   "customer_type",
			Message: "Customer type must be person, company or government",
		})
	}
	if input.Expenses < 0 {
		errs = append(errs, apperror.FieldError{
			Field:   "expenses",
			Message: "Expenses cannot be negative",
		})
	}
	errs = append(errs, validateItems(input.Items)...)

	if len(errs) > 0 {
		return apperror.NewValidationError(errs)
	}
	return nil
}

// validateUpdate validates an update request. Nil fields mean "leave
// unchanged" and are not checked.
func (s *TransactionService) validateUpdate(input *UpdateTransactionInput) error {
	var errs []apperror.FieldError

	if input.Status != nil && !input.Status.Valid() {
		errs = append(errs, apperror.FieldError{
			Field:   "status",
			Message: "Unknown transaction status",
		})
	}
	if input.CustomerType != nil && !input.CustomerType.Valid() {
		errs = append(errs, apperror.FieldError{
			Field:   "customer_type",
			Message: "Customer type must be person, company or government",
		})
	}
	if input.Expenses != nil && *input.Expenses < 0 {
		errs = append(errs, apperror.FieldError{
			Field:   "expenses",
			Message: "Expenses cannot be negative",
		})
	}
	if input.Items != nil {
		errs = append(errs, validateItems(*input.Items)...)
	}

	if len(errs) > 0 {
		return apperror.NewValidationError(errs)
	}
	return nil
}
