package catalog

import (
	"cmp"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// Filter narrows a product listing. Zero-value fields are ignored.
type Filter struct {
	Category    string
	Subcategory string
	Brand       string
	MinPrice    *decimal.Decimal
	MaxPrice    *decimal.Decimal
	InStockOnly bool
}

// Match reports whether a product satisfies every set criterion.
// String comparisons are case-insensitive; price bounds apply to the
// regular price.
func (f Filter) Match(p *Product) bool {
	if f.Category != "" && !strings.EqualFold(f.Category, p.Category) {
		return false
	}
	if f.Subcategory != "" && !strings.EqualFold(f.Subcategory, p.Subcategory) {
		return false
	}
	if f.Brand != "" && !strings.EqualFold(f.Brand, p.Brand) {
		return false
	}
	if f.MinPrice != nil && p.Price.LessThan(*f.MinPrice) {
		return false
	}
	if f.MaxPrice != nil && p.Price.GreaterThan(*f.MaxPrice) {
		return false
	}
	if f.InStockOnly && !p.InStock() {
		return false
	}
	return true
}

// Apply filters products and orders the result for display: in-stock
// products first, then by name.
func Apply(products []*Product, f Filter) []*Product {
	var out []*Product
	for _, p := range products {
		if f.Match(p) {
			out = append(out, p)
		}
	}

	slices.SortStableFunc(out, func(a, b *Product) int {
		if a.InStock() != b.InStock() {
			if a.InStock() {
				return -1
			}
			return 1
		}
		return cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})

	return out
}
