// Package checkout prices carts into orders and commits them against the
// catalog and user stores.
package checkout

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ferngrove/kiosk/pkg/account"
	"github.com/ferngrove/kiosk/pkg/cart"
	"github.com/ferngrove/kiosk/pkg/catalog"
	"github.com/ferngrove/kiosk/pkg/promo"
)

// CatalogStore is the product persistence the engine depends on.
type CatalogStore interface {
	FindBySKU(sku string) (*catalog.Product, error)
	Upsert(p *catalog.Product) error
	SaveAll() error
}

// UserStore is the account persistence the engine depends on.
type UserStore interface {
	Upsert(u *account.User) error
	SaveAll() error
}

// OrderStore is the append-only order log the engine depends on.
type OrderStore interface {
	Append(o *Order) error
	HasPickupOrder(email string) (bool, error)
}

// Policy holds the pricing constants: the flat delivery fee and the
// student pickup discount rate.
type Policy struct {
	DeliveryFee decimal.Decimal
	StudentRate decimal.Decimal
}

// DefaultPolicy returns the standard pricing: $20 delivery, 5% student
// pickup discount.
func DefaultPolicy() Policy {
	return Policy{
		DeliveryFee: decimal.NewFromInt(20),
		StudentRate: decimal.NewFromFloat(0.05),
	}
}

// Request is one checkout attempt. The cart is preserved on failure so
// the customer can retry.
type Request struct {
	Customer   *account.User
	Cart       *cart.Cart
	Fulfilment Fulfilment
	Address    string
	StoreID    string
	PromoCode  string
}

// Engine prices and places orders.
type Engine struct {
	products CatalogStore
	users    UserStore
	orders   OrderStore
	promos   *promo.Catalog
	policy   Policy
	now      func() time.Time
}

// NewEngine creates an Engine over the given stores and promotion catalog.
func NewEngine(products CatalogStore, users UserStore, orders OrderStore, promos *promo.Catalog, policy Policy) *Engine {
	return &Engine{
		products: products,
		users:    users,
		orders:   orders,
		promos:   promos,
		policy:   policy,
		now:      time.Now,
	}
}

// Quote prices the request without mutating anything.
//
// It resolves every cart line against live stock, snapshots unit prices
// (VIP price when the membership is active), applies the student pickup
// discount or the promo code (never both), adds the delivery fee, floors
// the total at zero, and verifies the customer can pay. A promo code
// that fails validation does not block the quote; the rejection message
// is carried on the returned order instead.
func (e *Engine) Quote(req Request) (*Order, error) {
	cust := req.Customer
	if cust == nil || cust.Role != account.RoleCustomer {
		return nil, ErrNotCustomer
	}
	if req.Cart == nil || req.Cart.IsEmpty() {
		return nil, ErrEmptyCart
	}
	if !req.Fulfilment.Valid() {
		return nil, ErrInvalidFulfilment
	}
	if req.Fulfilment == Delivery && strings.TrimSpace(req.Address) == "" {
		return nil, ErrAddressRequired
	}
	if req.Fulfilment == Pickup && strings.TrimSpace(req.StoreID) == "" {
		return nil, ErrStoreRequired
	}

	now := e.now()
	order := &Order{
		ID:         NewOrderID(),
		Email:      cust.Email,
		PlacedAt:   now,
		Fulfilment: req.Fulfilment,
	}
	switch req.Fulfilment {
	case Delivery:
		order.Address = strings.TrimSpace(req.Address)
	case Pickup:
		order.StoreID = strings.TrimSpace(req.StoreID)
	}

	vip := cust.VIPActiveOn(now)
	subtotal := decimal.Zero
	for _, line := range req.Cart.Lines() {
		p, err := e.products.FindBySKU(line.SKU)
		if err != nil {
			return nil, err
		}
		if line.Qty > p.Stock {
			return nil, &OutOfStockError{SKU: p.SKU, Requested: line.Qty, Available: p.Stock}
		}

		unit := p.UnitPrice(vip)
		lineTotal := unit.Mul(decimal.NewFromInt(int64(line.Qty)))
		order.Lines = append(order.Lines, Line{
			SKU:       p.SKU,
			Name:      p.Name,
			Qty:       line.Qty,
			UnitPrice: unit,
			LineTotal: lineTotal,
		})
		subtotal = subtotal.Add(lineTotal)
	}
	order.Subtotal = subtotal

	// Student benefit: 5% off for pickup, fee waived for delivery.
	// Pickup never carries a delivery fee.
	studentDiscount := cust.Student && req.Fulfilment == Pickup
	if studentDiscount {
		order.StudentDiscount = subtotal.Mul(e.policy.StudentRate).Round(2)
	}
	if req.Fulfilment == Delivery && !cust.Student {
		order.DeliveryFee = e.policy.DeliveryFee
	}

	if code := strings.TrimSpace(req.PromoCode); code != "" {
		p, err := e.ValidatePromo(cust, req.Fulfilment, code)
		switch {
		case err == nil:
			order.PromoCode = p.Code
			order.PromoDiscount = p.Discount(subtotal)
		default:
			var perr *promo.InvalidPromoError
			if !errors.As(err, &perr) {
				return nil, err
			}
			order.PromoRejection = perr.Error()
		}
	}

	total := subtotal.
		Sub(order.StudentDiscount).
		Sub(order.PromoDiscount).
		Add(order.DeliveryFee)
	if total.IsNegative() {
		total = decimal.Zero
	}
	order.Total = total

	if cust.Funds.LessThan(total) {
		return nil, &account.InsufficientFundsError{Required: total, Available: cust.Funds}
	}

	return order, nil
}

// ValidatePromo checks a promo code for the customer and fulfilment mode,
// resolving first-order eligibility against the order history. The error
// is an *promo.InvalidPromoError when the code cannot be applied.
func (e *Engine) ValidatePromo(cust *account.User, f Fulfilment, code string) (*promo.Promotion, error) {
	hasPickup, err := e.orders.HasPickupOrder(cust.Email)
	if err != nil {
		return nil, err
	}
	return e.promos.Validate(code, promo.Request{
		Email:       cust.Email,
		Student:     cust.Student,
		Pickup:      f == Pickup,
		FirstPickup: !hasPickup,
	})
}

// Place prices the request and commits it: stock is decremented, funds
// are debited, and the order is appended to the log. The commit is
// all-or-nothing; every precondition is re-validated before any mutation
// is applied.
func (e *Engine) Place(req Request) (*Order, error) {
	order, err := e.Quote(req)
	if err != nil {
		return nil, err
	}
	if err := e.commit(req.Customer, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (e *Engine) commit(cust *account.User, order *Order) error {
	// Check-then-commit: resolve and validate every line before the
	// first mutation.
	products := make([]*catalog.Product, len(order.Lines))
	for i, line := range order.Lines {
		p, err := e.products.FindBySKU(line.SKU)
		if err != nil {
			return err
		}
		if line.Qty > p.Stock {
			return &OutOfStockError{SKU: p.SKU, Requested: line.Qty, Available: p.Stock}
		}
		products[i] = p
	}

	if err := cust.Debit(order.Total); err != nil {
		return err
	}

	for i, line := range order.Lines {
		products[i].Stock -= line.Qty
		if err := e.products.Upsert(products[i]); err != nil {
			return err
		}
	}
	if err := e.users.Upsert(cust); err != nil {
		return err
	}

	if err := e.products.SaveAll(); err != nil {
		return err
	}
	if err := e.users.SaveAll(); err != nil {
		return err
	}
	if err := e.orders.Append(order); err != nil {
		return err
	}

	slog.Info("order placed",
		"order_id", order.ID,
		"email", order.Email,
		"fulfilment", order.Fulfilment,
		"units", order.Units(),
		"total", order.Total,
	)
	return nil
}
