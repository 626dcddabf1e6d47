// Package catalog defines products and the admin operations that manage them.
package catalog

import (
	"github.com/shopspring/decimal"
)

// Product is a single catalog entry keyed by SKU.
type Product struct {
	SKU         string          `csv:"sku"`
	Name        string          `csv:"name"`
	Brand       string          `csv:"brand"`
	Description string          `csv:"description"`
	Category    string          `csv:"category"`
	Subcategory string          `csv:"subcategory"`
	Price       decimal.Decimal `csv:"price"`
	VIPPrice    decimal.Decimal `csv:"vip_price"`
	Stock       int             `csv:"stock"`
	Perishable  bool            `csv:"perishable"`
	ExpiryDate  string          `csv:"expiry_date"`
	Ingredients string          `csv:"ingredients"`
	Storage     string          `csv:"storage"`
	Allergens   string          `csv:"allergens"`
}

// UnitPrice returns the per-unit price for a customer, using the VIP price
// when the customer's membership is active.
func (p *Product) UnitPrice(vipActive bool) decimal.Decimal {
	if vipActive {
		return p.VIPPrice
	}
	return p.Price
}

// InStock reports whether at least one unit is available.
func (p *Product) InStock() bool {
	return p.Stock > 0
}
