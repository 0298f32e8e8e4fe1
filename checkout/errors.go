package checkout

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyCart guards checkout entry: no session may open on an empty
	// cart. Callers redirect the shopper back to the catalog.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrAuthRequired is returned past cart review for anonymous owners; the
	// cart survives the authentication detour untouched.
	ErrAuthRequired = errors.New("authentication required")

	// ErrShippingNotSelected is returned by Confirm before a shipping method
	// was chosen.
	ErrShippingNotSelected = errors.New("shipping method not selected")
)

// Diff names one field that drifted between cart review and confirmation.
type Diff struct {
	ProductID uint    `json:"product_id,omitempty"`
	Field     string  `json:"field"` // "price", "stock", "product", "shipping_method", "shipping_cost"
	Expected  float64 `json:"expected"`
	Actual    float64 `json:"actual"`
}

// RevalidationError aborts the transition to payment when price, stock or
// shipping cost no longer match what the shopper reviewed. The caller
// re-renders the cart with the corrected values instead of charging a stale
// price.
type RevalidationError struct {
	Diffs []Diff
}

func (e *RevalidationError) Error() string {
	return fmt.Sprintf("checkout revalidation failed: %d field(s) changed", len(e.Diffs))
}
