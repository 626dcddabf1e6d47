package checkout

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ferngrove/kiosk/pkg/account"
	"github.com/ferngrove/kiosk/pkg/cart"
	"github.com/ferngrove/kiosk/pkg/catalog"
	"github.com/ferngrove/kiosk/pkg/promo"
)

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type memCatalog struct {
	products map[string]*catalog.Product
	saves    int
}

func (s *memCatalog) FindBySKU(sku string) (*catalog.Product, error) {
	p, ok := s.products[sku]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	return p, nil
}

func (s *memCatalog) Upsert(p *catalog.Product) error {
	s.products[p.SKU] = p
	return nil
}

func (s *memCatalog) SaveAll() error {
	s.saves++
	return nil
}

type memUsers struct {
	saves int
}

func (s *memUsers) Upsert(u *account.User) error { return nil }
func (s *memUsers) SaveAll() error               { s.saves++; return nil }

type memOrders struct {
	orders []*Order
}

func (s *memOrders) Append(o *Order) error {
	s.orders = append(s.orders, o)
	return nil
}

func (s *memOrders) HasPickupOrder(email string) (bool, error) {
	for _, o := range s.orders {
		if o.Email == email && o.Fulfilment == Pickup {
			return true, nil
		}
	}
	return false, nil
}

func fixedNow() time.Time {
	return time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC)
}

func testEngine() (*Engine, *memCatalog, *memUsers, *memOrders) {
	products := &memCatalog{products: map[string]*catalog.Product{
		"GR001": {SKU: "GR001", Name: "Rolled Oats", Brand: "Harvest Co", Category: "Pantry",
			Price: money("19.99"), VIPPrice: money("17.99"), Stock: 10},
		"GR002": {SKU: "GR002", Name: "Basmati Rice", Brand: "Harvest Co", Category: "Pantry",
			Price: money("8.00"), VIPPrice: money("7.50"), Stock: 3},
	}}
	users := &memUsers{}
	orders := &memOrders{}

	e := NewEngine(products, users, orders, promo.Default(), DefaultPolicy())
	e.now = fixedNow
	return e, products, users, orders
}

func shopper(email string, student bool, funds string) *account.User {
	return &account.User{
		Email:   email,
		Role:    account.RoleCustomer,
		Student: student,
		Funds:   money(funds),
	}
}

func cartWith(t *testing.T, skuQty ...any) *cart.Cart {
	t.Helper()
	c := cart.New()
	for i := 0; i < len(skuQty); i += 2 {
		sku := skuQty[i].(string)
		qty := skuQty[i+1].(int)
		if err := c.Add(&catalog.Product{SKU: sku, Name: sku}, qty); err != nil {
			t.Fatalf("cart.Add(%s, %d) error = %v", sku, qty, err)
		}
	}
	return c
}

func TestEngine_Quote_Pricing(t *testing.T) {
	tests := []struct {
		name            string
		customer        *account.User
		fulfilment      Fulfilment
		promoCode       string
		subtotal        string
		studentDiscount string
		promoDiscount   string
		fee             string
		total           string
		promoRejected   bool
	}{
		{
			name:       "non-student delivery no promo",
			customer:   shopper("quinn@example.com", false, "1000"),
			fulfilment: Delivery,
			subtotal:   "39.98", studentDiscount: "0", promoDiscount: "0",
			fee: "20.00", total: "59.98",
		},
		{
			name:       "student pickup no promo",
			customer:   shopper("kim@student.ferngrove.edu", true, "1000"),
			fulfilment: Pickup,
			subtotal:   "39.98", studentDiscount: "2.00", promoDiscount: "0",
			fee: "0", total: "37.98",
		},
		{
			name:       "staff pickup with STAFF5",
			customer:   shopper("staff@ferngrove.edu", false, "1000"),
			fulfilment: Pickup,
			promoCode:  "STAFF5",
			subtotal:   "39.98", studentDiscount: "0", promoDiscount: "2.00",
			fee: "0", total: "37.98",
		},
		{
			name:       "student delivery waives the fee",
			customer:   shopper("kim@student.ferngrove.edu", true, "1000"),
			fulfilment: Delivery,
			subtotal:   "39.98", studentDiscount: "0", promoDiscount: "0",
			fee: "0", total: "39.98",
		},
		{
			name:       "student pickup rejects promo instead of stacking",
			customer:   shopper("kim@student.ferngrove.edu", true, "1000"),
			fulfilment: Pickup,
			promoCode:  "STAFF5",
			subtotal:   "39.98", studentDiscount: "2.00", promoDiscount: "0",
			fee: "0", total: "37.98",
			promoRejected: true,
		},
		{
			name:       "first pickup with WELCOME20",
			customer:   shopper("quinn@example.com", false, "1000"),
			fulfilment: Pickup,
			promoCode:  "WELCOME20",
			subtotal:   "39.98", studentDiscount: "0", promoDiscount: "8.00",
			fee: "0", total: "31.98",
		},
		{
			name:       "invalid promo does not block checkout",
			customer:   shopper("quinn@example.com", false, "1000"),
			fulfilment: Delivery,
			promoCode:  "NOPE99",
			subtotal:   "39.98", studentDiscount: "0", promoDiscount: "0",
			fee: "20.00", total: "59.98",
			promoRejected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _, _, _ := testEngine()

			req := Request{
				Customer:   tt.customer,
				Cart:       cartWith(t, "GR001", 2),
				Fulfilment: tt.fulfilment,
				Address:    "7 Fern St, Southbank",
				StoreID:    "S1",
				PromoCode:  tt.promoCode,
			}

			order, err := e.Quote(req)
			if err != nil {
				t.Fatalf("Quote() error = %v", err)
			}

			assertMoney(t, "subtotal", order.Subtotal, tt.subtotal)
			assertMoney(t, "student discount", order.StudentDiscount, tt.studentDiscount)
			assertMoney(t, "promo discount", order.PromoDiscount, tt.promoDiscount)
			assertMoney(t, "delivery fee", order.DeliveryFee, tt.fee)
			assertMoney(t, "total", order.Total, tt.total)

			if tt.promoRejected && order.PromoRejection == "" {
				t.Error("Quote() expected a promo rejection message")
			}
			if !tt.promoRejected && order.PromoRejection != "" {
				t.Errorf("Quote() unexpected promo rejection %q", order.PromoRejection)
			}
			if tt.promoRejected && order.PromoCode != "" {
				t.Errorf("Quote() rejected promo recorded code %q", order.PromoCode)
			}

			// The invariant the whole pipeline hangs on.
			want := order.Subtotal.Sub(order.StudentDiscount).Sub(order.PromoDiscount).Add(order.DeliveryFee)
			if !order.Total.Equal(want) {
				t.Errorf("total %v does not equal subtotal - discounts + fee (%v)", order.Total, want)
			}
			if order.Total.IsNegative() {
				t.Errorf("total %v is negative", order.Total)
			}
		})
	}
}

func assertMoney(t *testing.T, field string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(money(want)) {
		t.Errorf("%s = %v, want %s", field, got, want)
	}
}

func TestEngine_Quote_VIPPriceSnapshot(t *testing.T) {
	e, products, _, _ := testEngine()

	vip := shopper("quinn@example.com", false, "1000")
	vip.ExtendVIP(1, fixedNow())

	order, err := e.Quote(Request{
		Customer:   vip,
		Cart:       cartWith(t, "GR001", 2),
		Fulfilment: Pickup,
		StoreID:    "S1",
	})
	if err != nil {
		t.Fatalf("Quote() error = %v", err)
	}

	assertMoney(t, "unit price", order.Lines[0].UnitPrice, "17.99")
	assertMoney(t, "subtotal", order.Subtotal, "35.98")

	// A later price change must not affect the priced order.
	products.products["GR001"].Price = money("29.99")
	assertMoney(t, "unit price after edit", order.Lines[0].UnitPrice, "17.99")
}

func TestEngine_Quote_ExpiredVIPPaysRegular(t *testing.T) {
	e, _, _, _ := testEngine()

	lapsed := shopper("quinn@example.com", false, "1000")
	lapsed.VIPExpires = account.NewDate(fixedNow().AddDate(0, 0, -1))

	order, err := e.Quote(Request{
		Customer:   lapsed,
		Cart:       cartWith(t, "GR001", 1),
		Fulfilment: Pickup,
		StoreID:    "S1",
	})
	if err != nil {
		t.Fatalf("Quote() error = %v", err)
	}
	assertMoney(t, "unit price", order.Lines[0].UnitPrice, "19.99")
}

func TestEngine_Quote_Validation(t *testing.T) {
	e, _, _, _ := testEngine()
	customer := shopper("quinn@example.com", false, "1000")

	tests := []struct {
		name    string
		req     Request
		wantErr error
	}{
		{
			name:    "empty cart",
			req:     Request{Customer: customer, Cart: cart.New(), Fulfilment: Pickup, StoreID: "S1"},
			wantErr: ErrEmptyCart,
		},
		{
			name:    "nil cart",
			req:     Request{Customer: customer, Fulfilment: Pickup, StoreID: "S1"},
			wantErr: ErrEmptyCart,
		},
		{
			name:    "admin cannot order",
			req:     Request{Customer: &account.User{Email: "admin@ferngrove.edu", Role: account.RoleAdmin}},
			wantErr: ErrNotCustomer,
		},
		{
			name:    "delivery without address",
			req:     Request{Customer: customer, Cart: cartWith(t, "GR001", 1), Fulfilment: Delivery, Address: "  "},
			wantErr: ErrAddressRequired,
		},
		{
			name:    "pickup without store",
			req:     Request{Customer: customer, Cart: cartWith(t, "GR001", 1), Fulfilment: Pickup},
			wantErr: ErrStoreRequired,
		},
		{
			name:    "unknown fulfilment",
			req:     Request{Customer: customer, Cart: cartWith(t, "GR001", 1), Fulfilment: "COURIER"},
			wantErr: ErrInvalidFulfilment,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := e.Quote(tt.req); !errors.Is(err, tt.wantErr) {
				t.Errorf("Quote() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestEngine_Quote_OutOfStock(t *testing.T) {
	e, products, _, _ := testEngine()
	customer := shopper("quinn@example.com", false, "1000")

	var serr *OutOfStockError
	_, err := e.Quote(Request{
		Customer:   customer,
		Cart:       cartWith(t, "GR002", 5),
		Fulfilment: Pickup,
		StoreID:    "S1",
	})
	if !errors.As(err, &serr) {
		t.Fatalf("Quote() error = %v, want OutOfStockError", err)
	}
	if serr.SKU != "GR002" || serr.Requested != 5 || serr.Available != 3 {
		t.Errorf("OutOfStockError = %+v, want GR002 5/3", serr)
	}

	if products.products["GR002"].Stock != 3 {
		t.Errorf("stock mutated on failed quote: %d", products.products["GR002"].Stock)
	}
	if !customer.Funds.Equal(money("1000")) {
		t.Errorf("funds mutated on failed quote: %v", customer.Funds)
	}
}

func TestEngine_Quote_UnknownSKU(t *testing.T) {
	e, _, _, _ := testEngine()

	_, err := e.Quote(Request{
		Customer:   shopper("quinn@example.com", false, "1000"),
		Cart:       cartWith(t, "GR404", 1),
		Fulfilment: Pickup,
		StoreID:    "S1",
	})
	if !errors.Is(err, catalog.ErrNotFound) {
		t.Errorf("Quote() error = %v, want catalog.ErrNotFound", err)
	}
}

func TestEngine_Quote_InsufficientFunds(t *testing.T) {
	e, _, _, _ := testEngine()
	customer := shopper("quinn@example.com", false, "30.00")

	var ferr *account.InsufficientFundsError
	_, err := e.Quote(Request{
		Customer:   customer,
		Cart:       cartWith(t, "GR001", 2),
		Fulfilment: Delivery,
		Address:    "7 Fern St",
	})
	if !errors.As(err, &ferr) {
		t.Fatalf("Quote() error = %v, want InsufficientFundsError", err)
	}
	assertMoney(t, "required", ferr.Required, "59.98")
	assertMoney(t, "available", ferr.Available, "30.00")
	assertMoney(t, "funds untouched", customer.Funds, "30.00")
}

func TestEngine_Place_CommitsEverything(t *testing.T) {
	e, products, users, orders := testEngine()
	customer := shopper("quinn@example.com", false, "100.00")

	order, err := e.Place(Request{
		Customer:   customer,
		Cart:       cartWith(t, "GR001", 2, "GR002", 1),
		Fulfilment: Delivery,
		Address:    "7 Fern St, Southbank",
	})
	if err != nil {
		t.Fatalf("Place() error = %v", err)
	}

	// 39.98 + 8.00 + 20 fee
	assertMoney(t, "total", order.Total, "67.98")
	assertMoney(t, "funds", customer.Funds, "32.02")

	if got := products.products["GR001"].Stock; got != 8 {
		t.Errorf("GR001 stock = %d, want 8", got)
	}
	if got := products.products["GR002"].Stock; got != 2 {
		t.Errorf("GR002 stock = %d, want 2", got)
	}
	if products.saves != 1 || users.saves != 1 {
		t.Errorf("saves: products %d, users %d, want 1 and 1", products.saves, users.saves)
	}
	if len(orders.orders) != 1 || orders.orders[0].ID != order.ID {
		t.Fatalf("order log = %v, want the placed order", orders.orders)
	}
	if !strings.HasPrefix(order.ID, "ORD-") || len(order.ID) != 12 {
		t.Errorf("order id %q, want ORD- plus 8 hex digits", order.ID)
	}
	if !order.PlacedAt.Equal(fixedNow()) {
		t.Errorf("PlacedAt = %v, want %v", order.PlacedAt, fixedNow())
	}
}

func TestEngine_Commit_AllOrNothing(t *testing.T) {
	e, products, _, orders := testEngine()
	customer := shopper("quinn@example.com", false, "1000")

	// Build an order whose second line exceeds stock; the first line is
	// fine. Nothing may be applied.
	order := &Order{
		ID:    NewOrderID(),
		Email: customer.Email,
		Lines: []Line{
			{SKU: "GR001", Qty: 2, UnitPrice: money("19.99"), LineTotal: money("39.98")},
			{SKU: "GR002", Qty: 5, UnitPrice: money("8.00"), LineTotal: money("40.00")},
		},
		Total: money("79.98"),
	}

	var serr *OutOfStockError
	if err := e.commit(customer, order); !errors.As(err, &serr) {
		t.Fatalf("commit() error = %v, want OutOfStockError", err)
	}

	if got := products.products["GR001"].Stock; got != 10 {
		t.Errorf("GR001 stock = %d, want 10 (no partial mutation)", got)
	}
	if !customer.Funds.Equal(money("1000")) {
		t.Errorf("funds = %v, want 1000 (no partial mutation)", customer.Funds)
	}
	if products.saves != 0 || len(orders.orders) != 0 {
		t.Errorf("saves = %d, orders = %d, want none", products.saves, len(orders.orders))
	}
}

func TestEngine_WelcomePromoOnlyOnFirstPickup(t *testing.T) {
	e, _, _, _ := testEngine()
	customer := shopper("quinn@example.com", false, "1000")

	first, err := e.Place(Request{
		Customer:   customer,
		Cart:       cartWith(t, "GR001", 1),
		Fulfilment: Pickup,
		StoreID:    "S1",
		PromoCode:  "WELCOME20",
	})
	if err != nil {
		t.Fatalf("Place() error = %v", err)
	}
	assertMoney(t, "first order promo", first.PromoDiscount, "4.00")

	second, err := e.Quote(Request{
		Customer:   customer,
		Cart:       cartWith(t, "GR001", 1),
		Fulfilment: Pickup,
		StoreID:    "S1",
		PromoCode:  "WELCOME20",
	})
	if err != nil {
		t.Fatalf("Quote() error = %v", err)
	}
	if second.PromoRejection == "" {
		t.Error("Quote() second pickup should reject WELCOME20")
	}
	assertMoney(t, "second order promo", second.PromoDiscount, "0")
}

func TestEngine_Quote_TotalFlooredAtZero(t *testing.T) {
	catalogAll := promo.NewCatalog()
	if err := catalogAll.Register(&promo.Promotion{
		Code: "COMP100",
		Rate: money("1.00"),
		Rule: promo.FirstPickupOnly{},
	}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	products := &memCatalog{products: map[string]*catalog.Product{
		"GR001": {SKU: "GR001", Name: "Rolled Oats", Price: money("5.00"), VIPPrice: money("4.50"), Stock: 10},
	}}
	e := NewEngine(products, &memUsers{}, &memOrders{}, catalogAll, DefaultPolicy())
	e.now = fixedNow

	order, err := e.Quote(Request{
		Customer:   shopper("quinn@example.com", false, "1000"),
		Cart:       cartWith(t, "GR001", 1),
		Fulfilment: Pickup,
		StoreID:    "S1",
		PromoCode:  "COMP100",
	})
	if err != nil {
		t.Fatalf("Quote() error = %v", err)
	}
	assertMoney(t, "total", order.Total, "0")
	if order.Total.IsNegative() {
		t.Errorf("total %v is negative", order.Total)
	}
}
