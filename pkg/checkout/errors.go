package checkout

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyCart is returned when checking out with no cart lines.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrNotCustomer is returned when a non-customer account tries to
	// place an order.
	ErrNotCustomer = errors.New("only customer accounts can place orders")

	// ErrAddressRequired is returned for a delivery order with no
	// delivery address.
	ErrAddressRequired = errors.New("delivery address is required")

	// ErrStoreRequired is returned for a pickup order with no store.
	ErrStoreRequired = errors.New("pickup store is required")

	// ErrInvalidFulfilment is returned for an unknown fulfilment mode.
	ErrInvalidFulfilment = errors.New("fulfilment must be DELIVERY or PICKUP")
)

// OutOfStockError is returned when a cart line asks for more units than
// the catalog currently holds.
type OutOfStockError struct {
	SKU       string
	Requested int
	Available int
}

// Error implements the error interface.
func (e *OutOfStockError) Error() string {
	return fmt.Sprintf("%s: %d requested, %d in stock", e.SKU, e.Requested, e.Available)
}
