package checkout

import (
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Line is one order line with its price frozen at confirmation time.
type Line struct {
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	Qty       int             `json:"qty"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// Order is a priced checkout result. Once placed it is immutable and
// lives in the append-only order log.
type Order struct {
	ID         string
	Email      string
	PlacedAt   time.Time
	Fulfilment Fulfilment
	Address    string
	StoreID    string
	Lines      []Line

	Subtotal        decimal.Decimal
	StudentDiscount decimal.Decimal
	PromoDiscount   decimal.Decimal
	PromoCode       string
	DeliveryFee     decimal.Decimal
	Total           decimal.Decimal

	// PromoRejection carries the validation message when a requested
	// promo code did not apply. It is display-only and never persisted.
	PromoRejection string
}

// Units returns the total quantity across all lines.
func (o *Order) Units() int {
	total := 0
	for _, line := range o.Lines {
		total += line.Qty
	}
	return total
}

// NewOrderID generates an order id of the form ORD-3F2A9C01.
func NewOrderID() string {
	id := uuid.New()
	return "ORD-" + strings.ToUpper(hex.EncodeToString(id[:4]))
}
