package services

import (
	"errors"
	"fmt"
)

// Business-rule failures are returned with enough detail for a specific
// message. Unexpected storage failures are surfaced only as ErrCheckoutFailed;
// the underlying cause is kept in the audit trail, not leaked to the caller.
var (
	ErrEmptyCart       = errors.New("cart is empty")
	ErrOrderNotFound   = errors.New("order not found")
	ErrProductNotFound = errors.New("product not found")
	ErrCheckoutFailed  = errors.New("checkout failed")
)

// ValidationError reports malformed input, caught before any mutation.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// InsufficientStockError rejects a checkout whose cart asks for more units
// than the catalog currently holds.
type InsufficientStockError struct {
	ProductName string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("not enough stock for %s", e.ProductName)
}
