package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when no product exists for a SKU.
	ErrNotFound = errors.New("product not found")
)

// ValidationError reports a product field that failed validation.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid product %s: %s", e.Field, e.Message)
}

// DuplicateSKUError is returned when adding a product whose SKU already exists.
type DuplicateSKUError struct {
	SKU string
}

// Error implements the error interface.
func (e *DuplicateSKUError) Error() string {
	return fmt.Sprintf("product %s already exists", e.SKU)
}

// CategoryLimitError is returned when adding a product would introduce a new
// category beyond the catalog's category limit.
type CategoryLimitError struct {
	Limit int
}

// Error implements the error interface.
func (e *CategoryLimitError) Error() string {
	return fmt.Sprintf("catalog is limited to %d categories", e.Limit)
}
