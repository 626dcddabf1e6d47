package storage

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ferngrove/kiosk/pkg/account"
	"github.com/ferngrove/kiosk/pkg/checkout"
)

// orderRow is the CSV projection of an order. Line items ride in the
// lines column as a JSON array so the file stays one row per order.
type orderRow struct {
	ID              string            `csv:"order_id"`
	Email           string            `csv:"email"`
	PlacedAt        account.Timestamp `csv:"placed_at"`
	Fulfilment      string            `csv:"fulfilment"`
	Address         string            `csv:"address"`
	StoreID         string            `csv:"store_id"`
	PromoCode       string            `csv:"promo_code"`
	Subtotal        decimal.Decimal   `csv:"subtotal"`
	StudentDiscount decimal.Decimal   `csv:"student_discount"`
	PromoDiscount   decimal.Decimal   `csv:"promo_discount"`
	DeliveryFee     decimal.Decimal   `csv:"delivery_fee"`
	Total           decimal.Decimal   `csv:"total"`
	Lines           string            `csv:"lines"`
}

func newOrderRow(o *checkout.Order) (*orderRow, error) {
	lines, err := json.Marshal(o.Lines)
	if err != nil {
		return nil, fmt.Errorf("encode order %s lines: %w", o.ID, err)
	}
	return &orderRow{
		ID:              o.ID,
		Email:           o.Email,
		PlacedAt:        account.Timestamp{Time: o.PlacedAt},
		Fulfilment:      string(o.Fulfilment),
		Address:         o.Address,
		StoreID:         o.StoreID,
		PromoCode:       o.PromoCode,
		Subtotal:        o.Subtotal,
		StudentDiscount: o.StudentDiscount,
		PromoDiscount:   o.PromoDiscount,
		DeliveryFee:     o.DeliveryFee,
		Total:           o.Total,
		Lines:           string(lines),
	}, nil
}

func (r *orderRow) order() (*checkout.Order, error) {
	o := &checkout.Order{
		ID:              r.ID,
		Email:           r.Email,
		PlacedAt:        r.PlacedAt.Time,
		Fulfilment:      checkout.Fulfilment(r.Fulfilment),
		Address:         r.Address,
		StoreID:         r.StoreID,
		PromoCode:       r.PromoCode,
		Subtotal:        r.Subtotal,
		StudentDiscount: r.StudentDiscount,
		PromoDiscount:   r.PromoDiscount,
		DeliveryFee:     r.DeliveryFee,
		Total:           r.Total,
	}
	if r.Lines != "" {
		if err := json.Unmarshal([]byte(r.Lines), &o.Lines); err != nil {
			return nil, fmt.Errorf("decode order %s lines: %w", r.ID, err)
		}
	}
	return o, nil
}

// OrderStore is the append-only CSV order log.
type OrderStore struct {
	table *Table[orderRow]
}

// OpenOrders loads the order log at path.
func OpenOrders(path string) (*OrderStore, error) {
	table, err := OpenTable[orderRow](path, nil)
	if err != nil {
		return nil, err
	}
	return &OrderStore{table: table}, nil
}

// Append adds an order to the log and persists it immediately.
func (s *OrderStore) Append(o *checkout.Order) error {
	row, err := newOrderRow(o)
	if err != nil {
		return err
	}
	s.table.Append(row)
	return s.table.SaveAll()
}

// All returns every order, newest first.
func (s *OrderStore) All() ([]*checkout.Order, error) {
	return s.collect(func(*orderRow) bool { return true })
}

// ListByEmail returns a customer's orders, newest first.
func (s *OrderStore) ListByEmail(email string) ([]*checkout.Order, error) {
	return s.collect(func(r *orderRow) bool { return r.Email == email })
}

// HasPickupOrder reports whether the customer has ever placed a pickup
// order, which settles first-pickup promotion eligibility.
func (s *OrderStore) HasPickupOrder(email string) (bool, error) {
	for _, row := range s.table.All() {
		if row.Email == email && checkout.Fulfilment(row.Fulfilment) == checkout.Pickup {
			return true, nil
		}
	}
	return false, nil
}

// Len reports the number of logged orders.
func (s *OrderStore) Len() int {
	return s.table.Len()
}

func (s *OrderStore) collect(match func(*orderRow) bool) ([]*checkout.Order, error) {
	rows := s.table.All()

	var orders []*checkout.Order
	for i := len(rows) - 1; i >= 0; i-- {
		if !match(rows[i]) {
			continue
		}
		o, err := rows[i].order()
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}
