package domain

import "math"

// TaxRate is the fixed surcharge applied on top of the cart subtotal.
const TaxRate = 0.18

// CartLineItem is one product-plus-quantity entry in the cart.
// ID is assigned by the upstream store on creation; until then it is empty.
type CartLineItem struct {
	ID           string `json:"id"`
	ProductID    string `json:"product_id"`
	UserID       string `json:"user_id"`
	Quantity     int    `json:"quantity"`
	UnitPrice    int64  `json:"unit_price"`
	DisplayPrice int64  `json:"display_price"`
	Name         string `json:"name"`
	ImageURL     string `json:"image_url,omitempty"`
	Category     string `json:"category,omitempty"`
}

// Key returns the composite dedup key. Two line items with the same key are
// the same logical entry even if their storage IDs differ.
func (i CartLineItem) Key() ItemKey {
	return ItemKey{ProductID: i.ProductID, UserID: i.UserID}
}

// ItemKey is the (productID, userID) pair used for dedup, distinct from the
// record's storage identity.
type ItemKey struct {
	ProductID string
	UserID    string
}

// Totals is the derived order total for a cart snapshot. It is recomputed on
// demand and never cached.
type Totals struct {
	Subtotal int64   `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Total    int64   `json:"total"`
}

// ComputeTotals calculates subtotal, tax, and the rounded payable total for
// the given line items. Amounts are integer currency subunits; the tax share
// keeps its fractional part until the final rounding.
func ComputeTotals(items []CartLineItem) Totals {
	var subtotal int64
	for _, item := range items {
		subtotal += item.UnitPrice * int64(item.Quantity)
	}
	tax := float64(subtotal) * TaxRate
	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    int64(math.Round(float64(subtotal) + tax)),
	}
}

// CartView is the derived view state handed to the presentation layer after a
// container transition.
type CartView struct {
	Items  []CartLineItem `json:"items"`
	Coupon int64          `json:"coupon"`
	Totals Totals         `json:"totals"`
}
