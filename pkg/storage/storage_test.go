package storage

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ferngrove/kiosk/pkg/account"
	"github.com/ferngrove/kiosk/pkg/catalog"
	"github.com/ferngrove/kiosk/pkg/checkout"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestProductStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.csv")

	store, err := OpenProducts(path)
	require.NoError(t, err)
	require.Equal(t, 0, store.Len(), "missing file opens empty")

	oats := &catalog.Product{
		SKU: "PAN001", Name: "Rolled Oats 1kg", Brand: "Harvest Co",
		Category: "Pantry", Subcategory: "Grains",
		Price: dec("6.50"), VIPPrice: dec("5.85"), Stock: 40,
		Perishable: true, ExpiryDate: "2026-09-30",
		Ingredients: "oats", Storage: "cool and dry", Allergens: "gluten",
	}
	require.NoError(t, store.Upsert(oats))
	require.NoError(t, store.SaveAll())

	reopened, err := OpenProducts(path)
	require.NoError(t, err)
	require.Equal(t, 1, reopened.Len())

	got, err := reopened.FindBySKU("pan001")
	require.NoError(t, err)
	assert.Equal(t, "Rolled Oats 1kg", got.Name)
	assert.True(t, got.Price.Equal(dec("6.50")), "price = %v", got.Price)
	assert.True(t, got.VIPPrice.Equal(dec("5.85")), "vip price = %v", got.VIPPrice)
	assert.Equal(t, 40, got.Stock)
	assert.True(t, got.Perishable)
	assert.Equal(t, "2026-09-30", got.ExpiryDate)

	_, err = reopened.FindBySKU("PAN999")
	assert.ErrorIs(t, err, catalog.ErrNotFound)

	require.NoError(t, reopened.Delete("PAN001"))
	assert.ErrorIs(t, reopened.Delete("PAN001"), catalog.ErrNotFound)
}

func TestUserStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.csv")

	store, err := OpenUsers(path)
	require.NoError(t, err)

	user := &account.User{
		Email:      "quinn@example.com",
		Role:       account.RoleCustomer,
		FirstName:  "Quinn",
		LastName:   "Park",
		Mobile:     "0400 555 666",
		Address:    "7 Fern St, Southbank",
		Student:    true,
		VIPYears:   2,
		VIPExpires: account.NewDate(time.Date(2027, 3, 10, 0, 0, 0, 0, time.UTC)),
		Funds:      dec("941.25"),
	}
	require.NoError(t, user.SetPassword("Shopper123"))
	require.NoError(t, store.Upsert(user))
	require.NoError(t, store.SaveAll())

	reopened, err := OpenUsers(path)
	require.NoError(t, err)

	got, err := reopened.FindByEmail("  QUINN@example.com ")
	require.NoError(t, err)
	assert.Equal(t, account.RoleCustomer, got.Role)
	assert.True(t, got.Student)
	assert.Equal(t, 2, got.VIPYears)
	assert.Equal(t, "2027-03-10", got.VIPExpires.Format("2006-01-02"))
	assert.True(t, got.Funds.Equal(dec("941.25")), "funds = %v", got.Funds)
	assert.True(t, got.CheckPassword("Shopper123"), "hash survives the round trip")

	_, err = reopened.FindByEmail("nobody@example.com")
	assert.ErrorIs(t, err, account.ErrNotFound)
}

func TestUserStore_VIPExpiryNullable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.csv")

	store, err := OpenUsers(path)
	require.NoError(t, err)
	require.NoError(t, store.Upsert(&account.User{
		Email: "plain@example.com",
		Role:  account.RoleCustomer,
		Funds: dec("1000"),
	}))
	require.NoError(t, store.SaveAll())

	reopened, err := OpenUsers(path)
	require.NoError(t, err)
	got, err := reopened.FindByEmail("plain@example.com")
	require.NoError(t, err)
	assert.True(t, got.VIPExpires.IsZero(), "empty cell stays a null date")
}

func TestOrderStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders.csv")

	store, err := OpenOrders(path)
	require.NoError(t, err)

	placed := time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC)
	first := &checkout.Order{
		ID:         "ORD-AAAA1111",
		Email:      "quinn@example.com",
		PlacedAt:   placed,
		Fulfilment: checkout.Pickup,
		StoreID:    "S1",
		Lines: []checkout.Line{
			{SKU: "PAN001", Name: "Rolled Oats 1kg", Qty: 2, UnitPrice: dec("6.50"), LineTotal: dec("13.00")},
		},
		Subtotal:        dec("13.00"),
		StudentDiscount: dec("0.65"),
		Total:           dec("12.35"),
	}
	second := &checkout.Order{
		ID:         "ORD-BBBB2222",
		Email:      "alex@example.com",
		PlacedAt:   placed.Add(time.Hour),
		Fulfilment: checkout.Delivery,
		Address:    "19 Wattle Ave, Northcote",
		Lines: []checkout.Line{
			{SKU: "BEV001", Name: "Sparkling Water 6x500ml", Qty: 1, UnitPrice: dec("9.99"), LineTotal: dec("9.99")},
		},
		Subtotal:    dec("9.99"),
		DeliveryFee: dec("20.00"),
		Total:       dec("29.99"),
	}
	require.NoError(t, store.Append(first))
	require.NoError(t, store.Append(second))

	reopened, err := OpenOrders(path)
	require.NoError(t, err)
	require.Equal(t, 2, reopened.Len())

	all, err := reopened.All()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "ORD-BBBB2222", all[0].ID, "newest first")
	assert.Equal(t, "ORD-AAAA1111", all[1].ID)

	mine, err := reopened.ListByEmail("quinn@example.com")
	require.NoError(t, err)
	require.Len(t, mine, 1)

	got := mine[0]
	assert.Equal(t, checkout.Pickup, got.Fulfilment)
	assert.Equal(t, "S1", got.StoreID)
	assert.True(t, got.PlacedAt.Equal(placed), "placed at = %v", got.PlacedAt)
	require.Len(t, got.Lines, 1)
	assert.Equal(t, 2, got.Lines[0].Qty)
	assert.True(t, got.Lines[0].UnitPrice.Equal(dec("6.50")), "unit price = %v", got.Lines[0].UnitPrice)
	assert.True(t, got.StudentDiscount.Equal(dec("0.65")), "student discount = %v", got.StudentDiscount)
	assert.True(t, got.Total.Equal(dec("12.35")), "total = %v", got.Total)

	hasPickup, err := reopened.HasPickupOrder("quinn@example.com")
	require.NoError(t, err)
	assert.True(t, hasPickup)

	hasPickup, err = reopened.HasPickupOrder("alex@example.com")
	require.NoError(t, err)
	assert.False(t, hasPickup, "delivery orders do not count")
}

func TestMembershipLedger_NewestFirst(t *testing.T) {
	path := filepath.Join(t.TempDir(), "membership.csv")

	ledger, err := OpenMembership(path)
	require.NoError(t, err)

	at := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	require.NoError(t, ledger.Append(&account.MembershipEvent{
		Email: "quinn@example.com", Action: account.MembershipPurchase,
		Years: 1, Amount: dec("20"), RecordedAt: account.NewTimestamp(at),
	}))
	require.NoError(t, ledger.Append(&account.MembershipEvent{
		Email: "quinn@example.com", Action: account.MembershipRenew,
		Years: 2, Amount: dec("40"), RecordedAt: account.NewTimestamp(at.Add(time.Hour)),
	}))
	require.NoError(t, ledger.Append(&account.MembershipEvent{
		Email: "other@example.com", Action: account.MembershipCancel,
		RecordedAt: account.NewTimestamp(at.Add(2 * time.Hour)), Note: "non-refundable",
	}))

	reopened, err := OpenMembership(path)
	require.NoError(t, err)
	require.Equal(t, 3, reopened.Len())

	events := reopened.ListByEmail("quinn@example.com")
	require.Len(t, events, 2)
	assert.Equal(t, account.MembershipRenew, events[0].Action, "newest first")
	assert.Equal(t, account.MembershipPurchase, events[1].Action)
	assert.True(t, events[1].Amount.Equal(dec("20")), "amount = %v", events[1].Amount)
}

func TestStoreDirectory_FindByID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stores.csv")

	dir, err := OpenStores(path)
	require.NoError(t, err)
	require.NoError(t, dir.Upsert(&StoreLocation{
		ID: "S1", Name: "Ferngrove Market Central",
		Address: "12 Garden St, Southbank", Phone: "03 9999 9999",
		Hours: "Mon-Fri 9am-5pm",
	}))
	require.NoError(t, dir.SaveAll())

	reopened, err := OpenStores(path)
	require.NoError(t, err)

	got, err := reopened.FindByID("s1")
	require.NoError(t, err)
	assert.Equal(t, "Ferngrove Market Central", got.Name)

	_, err = reopened.FindByID("S9")
	assert.True(t, errors.Is(err, ErrStoreNotFound), "err = %v", err)
}

func TestTable_UpsertReplacesByKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.csv")

	store, err := OpenProducts(path)
	require.NoError(t, err)

	require.NoError(t, store.Upsert(&catalog.Product{SKU: "PAN001", Name: "Rolled Oats", Price: dec("6.50"), VIPPrice: dec("5.85"), Stock: 40}))
	require.NoError(t, store.Upsert(&catalog.Product{SKU: "PAN001", Name: "Rolled Oats 1kg", Price: dec("6.90"), VIPPrice: dec("6.20"), Stock: 38}))

	require.Equal(t, 1, store.Len())
	got, err := store.FindBySKU("PAN001")
	require.NoError(t, err)
	assert.Equal(t, "Rolled Oats 1kg", got.Name)
	assert.Equal(t, 38, got.Stock)
}
