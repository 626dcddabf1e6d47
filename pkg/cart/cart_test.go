package cart

import (
	"errors"
	"testing"

	"github.com/ferngrove/kiosk/pkg/catalog"
)

func product(sku, name string) *catalog.Product {
	return &catalog.Product{SKU: sku, Name: name}
}

func TestCart_Add(t *testing.T) {
	tests := []struct {
		name    string
		prime   func(c *Cart)
		sku     string
		qty     int
		wantErr error
	}{
		{
			name: "simple add",
			sku:  "GR001", qty: 2,
		},
		{
			name: "quantity below range",
			sku:  "GR001", qty: 0,
			wantErr: &QuantityRangeError{},
		},
		{
			name: "quantity above range",
			sku:  "GR001", qty: 11,
			wantErr: &QuantityRangeError{},
		},
		{
			name: "duplicate line",
			prime: func(c *Cart) {
				_ = c.Add(product("GR001", "Oats"), 1)
			},
			sku: "GR001", qty: 1,
			wantErr: ErrLineExists,
		},
		{
			name: "over unit cap",
			prime: func(c *Cart) {
				_ = c.Add(product("GR001", "Oats"), 10)
				_ = c.Add(product("GR002", "Rice"), 5)
			},
			sku: "GR003", qty: 6,
			wantErr: &CapacityError{},
		},
		{
			name: "exactly at unit cap",
			prime: func(c *Cart) {
				_ = c.Add(product("GR001", "Oats"), 10)
				_ = c.Add(product("GR002", "Rice"), 5)
			},
			sku: "GR003", qty: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New()
			if tt.prime != nil {
				tt.prime(c)
			}

			err := c.Add(product(tt.sku, "Item"), tt.qty)

			switch want := tt.wantErr.(type) {
			case nil:
				if err != nil {
					t.Fatalf("Add() error = %v", err)
				}
			case *QuantityRangeError:
				var qerr *QuantityRangeError
				if !errors.As(err, &qerr) {
					t.Fatalf("Add() error = %v, want QuantityRangeError", err)
				}
			case *CapacityError:
				var cerr *CapacityError
				if !errors.As(err, &cerr) {
					t.Fatalf("Add() error = %v, want CapacityError", err)
				}
			default:
				if !errors.Is(err, want) {
					t.Fatalf("Add() error = %v, want %v", err, want)
				}
			}

			if c.Units() > MaxUnits {
				t.Errorf("Units() = %d, cap is %d", c.Units(), MaxUnits)
			}
		})
	}
}

func TestCart_UpdateQuantity(t *testing.T) {
	c := New()
	if err := c.Add(product("GR001", "Oats"), 2); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if err := c.Add(product("GR002", "Rice"), 10); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	if err := c.UpdateQuantity("GR404", 1); !errors.Is(err, ErrLineNotFound) {
		t.Errorf("UpdateQuantity() missing line error = %v, want ErrLineNotFound", err)
	}

	var qerr *QuantityRangeError
	if err := c.UpdateQuantity("GR001", 0); !errors.As(err, &qerr) {
		t.Errorf("UpdateQuantity() error = %v, want QuantityRangeError", err)
	}
	if err := c.UpdateQuantity("GR001", 11); !errors.As(err, &qerr) {
		t.Errorf("UpdateQuantity() error = %v, want QuantityRangeError", err)
	}

	// 10 + 10 = 20 stays within the cap; the old quantity must not be
	// double-counted.
	if err := c.UpdateQuantity("GR001", 10); err != nil {
		t.Fatalf("UpdateQuantity() error = %v", err)
	}
	if c.Units() != 20 {
		t.Errorf("Units() = %d, want 20", c.Units())
	}
}

func TestCart_UpdateQuantity_OverCap(t *testing.T) {
	c := New()
	_ = c.Add(product("GR001", "Oats"), 10)
	_ = c.Add(product("GR002", "Rice"), 6)
	_ = c.Add(product("GR003", "Milk"), 2)

	var cerr *CapacityError
	if err := c.UpdateQuantity("GR002", 9); !errors.As(err, &cerr) {
		t.Fatalf("UpdateQuantity() error = %v, want CapacityError", err)
	}
	if cerr.Units != 21 {
		t.Errorf("CapacityError.Units = %d, want 21", cerr.Units)
	}
	if line, _ := c.Line("GR002"); line.Qty != 6 {
		t.Errorf("failed update changed quantity to %d", line.Qty)
	}
}

func TestCart_InsertionOrderPreserved(t *testing.T) {
	c := New()
	for _, sku := range []string{"GR003", "GR001", "GR002"} {
		if err := c.Add(product(sku, sku), 1); err != nil {
			t.Fatalf("Add(%s) error = %v", sku, err)
		}
	}

	// Updating a quantity must not reorder lines.
	if err := c.UpdateQuantity("GR003", 5); err != nil {
		t.Fatalf("UpdateQuantity() error = %v", err)
	}

	want := []string{"GR003", "GR001", "GR002"}
	for i, line := range c.Lines() {
		if line.SKU != want[i] {
			t.Fatalf("Lines()[%d] = %s, want %s", i, line.SKU, want[i])
		}
	}
}

func TestCart_RemoveAndClear(t *testing.T) {
	c := New()
	_ = c.Add(product("GR001", "Oats"), 2)
	_ = c.Add(product("GR002", "Rice"), 3)

	if err := c.Remove("GR404"); !errors.Is(err, ErrLineNotFound) {
		t.Errorf("Remove() missing line error = %v, want ErrLineNotFound", err)
	}
	if err := c.Remove("GR001"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if c.Len() != 1 || c.Units() != 3 {
		t.Errorf("after Remove: Len() = %d, Units() = %d, want 1 and 3", c.Len(), c.Units())
	}

	c.Clear()
	if !c.IsEmpty() {
		t.Error("Clear() left the cart non-empty")
	}
}
