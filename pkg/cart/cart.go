// Package cart holds the per-session shopping cart and its size caps.
package cart

import (
	"errors"
	"fmt"

	"github.com/ferngrove/kiosk/pkg/catalog"
)

const (
	// MaxLineQty caps the quantity of a single cart line.
	MaxLineQty = 10

	// MaxUnits caps the total units across the whole cart.
	MaxUnits = 20
)

var (
	// ErrLineExists is returned when adding a SKU that is already in the
	// cart; callers update the existing line instead.
	ErrLineExists = errors.New("item already in cart")

	// ErrLineNotFound is returned when updating or removing an absent line.
	ErrLineNotFound = errors.New("item not in cart")
)

// QuantityRangeError is returned when a line quantity falls outside 1-10.
type QuantityRangeError struct {
	Qty int
}

// Error implements the error interface.
func (e *QuantityRangeError) Error() string {
	return fmt.Sprintf("quantity %d is outside the allowed range 1-%d", e.Qty, MaxLineQty)
}

// CapacityError is returned when an add or update would push the cart
// past its total unit cap.
type CapacityError struct {
	Units int
}

// Error implements the error interface.
func (e *CapacityError) Error() string {
	return fmt.Sprintf("cart would hold %d units, the limit is %d", e.Units, MaxUnits)
}

// Line is one cart entry. It references the product by SKU and keeps the
// name for display; prices are resolved fresh at checkout.
type Line struct {
	SKU  string
	Name string
	Qty  int
}

// Cart is an insertion-ordered set of lines. Stock is not checked here;
// availability is validated against the live catalog at checkout.
type Cart struct {
	lines []*Line
}

// New creates an empty cart.
func New() *Cart {
	return &Cart{}
}

// Add appends a line for a product. It fails if the quantity is outside
// 1-10, the SKU already has a line, or the cart would exceed 20 units.
func (c *Cart) Add(p *catalog.Product, qty int) error {
	if qty < 1 || qty > MaxLineQty {
		return &QuantityRangeError{Qty: qty}
	}
	if _, ok := c.Line(p.SKU); ok {
		return ErrLineExists
	}
	if total := c.Units() + qty; total > MaxUnits {
		return &CapacityError{Units: total}
	}

	c.lines = append(c.lines, &Line{SKU: p.SKU, Name: p.Name, Qty: qty})
	return nil
}

// UpdateQuantity replaces the quantity of an existing line, enforcing the
// same caps as Add.
func (c *Cart) UpdateQuantity(sku string, qty int) error {
	line, ok := c.Line(sku)
	if !ok {
		return ErrLineNotFound
	}
	if qty < 1 || qty > MaxLineQty {
		return &QuantityRangeError{Qty: qty}
	}
	if total := c.Units() - line.Qty + qty; total > MaxUnits {
		return &CapacityError{Units: total}
	}

	line.Qty = qty
	return nil
}

// Remove deletes a line by SKU.
func (c *Cart) Remove(sku string) error {
	for i, line := range c.lines {
		if line.SKU == sku {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return nil
		}
	}
	return ErrLineNotFound
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.lines = nil
}

// Line returns the entry for a SKU, if present.
func (c *Cart) Line(sku string) (*Line, bool) {
	for _, line := range c.lines {
		if line.SKU == sku {
			return line, true
		}
	}
	return nil, false
}

// Lines returns the entries in insertion order. The slice is a copy; the
// lines are shared.
func (c *Cart) Lines() []*Line {
	out := make([]*Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Units returns the total quantity across all lines.
func (c *Cart) Units() int {
	total := 0
	for _, line := range c.lines {
		total += line.Qty
	}
	return total
}

// Len returns the number of distinct lines.
func (c *Cart) Len() int {
	return len(c.lines)
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}
