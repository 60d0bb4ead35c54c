// Package cart reads the shopping cart kept for a browser session.
package cart

import (
	"context"

	"github.com/shopspring/decimal"
)

// LineItem is one product in the cart with the price captured when it was added.
type LineItem struct {
	ProductID uint            `json:"product_id"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

func (i LineItem) Cost() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart is a session-scoped, ordered collection of line items.
type Cart interface {
	Items(ctx context.Context) ([]LineItem, error)
	// Clear is idempotent.
	Clear(ctx context.Context) error
}

func Total(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Cost())
	}
	return total
}
