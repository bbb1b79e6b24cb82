// Package money computes transaction monetary totals. The functions here are
// pure and never reject input; validation is a separate concern handled
// before anything is persisted.
package money

import "github.com/scrapworks/junkshop-api/internal/domain/entity"

// Quantity returns the measure used to price a line item: weight when set,
// otherwise pieces, otherwise zero.
func Quantity(item entity.TransactionItem) float64 {
	if item.Weight > 0 {
		return item.Weight
	}
	if item.Pieces > 0 {
		return item.Pieces
	}
	return 0
}

// Subtotal sums quantity times unit price over all line items. An item with
// neither weight nor pieces contributes nothing.
func Subtotal(items []entity.TransactionItem) float64 {
	var sum float64
	for _, item := range items {
		sum += Quantity(item) * item.Price
	}
	return sum
}

// Total is the subtotal plus session expenses
func Total(subtotal, expenses float64) float64 {
	return subtotal + expenses
}
