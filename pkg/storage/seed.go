package storage

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ferngrove/kiosk/pkg/account"
	"github.com/ferngrove/kiosk/pkg/catalog"
)

// File names under the data directory.
const (
	ProductsFile   = "products.csv"
	UsersFile      = "users.csv"
	OrdersFile     = "orders.csv"
	StoresFile     = "stores.csv"
	MembershipFile = "membership.csv"
)

// Data bundles every store opened from one data directory.
type Data struct {
	Products   *ProductStore
	Users      *UserStore
	Orders     *OrderStore
	Stores     *StoreDirectory
	Membership *MembershipLedger
}

// Open loads every table under dir. When the user table is absent or
// empty the default accounts and pickup stores are provisioned, so a
// fresh data directory is usable straight away.
func Open(dir string) (*Data, error) {
	d := &Data{}

	var err error
	if d.Products, err = OpenProducts(filepath.Join(dir, ProductsFile)); err != nil {
		return nil, err
	}
	if d.Users, err = OpenUsers(filepath.Join(dir, UsersFile)); err != nil {
		return nil, err
	}
	if d.Orders, err = OpenOrders(filepath.Join(dir, OrdersFile)); err != nil {
		return nil, err
	}
	if d.Stores, err = OpenStores(filepath.Join(dir, StoresFile)); err != nil {
		return nil, err
	}
	if d.Membership, err = OpenMembership(filepath.Join(dir, MembershipFile)); err != nil {
		return nil, err
	}

	if d.Users.Len() == 0 {
		if err := d.Seed(false, false); err != nil {
			return nil, fmt.Errorf("seed %s: %w", dir, err)
		}
	}
	return d, nil
}

// Seed provisions the default accounts and pickup stores, plus the demo
// catalog when demo is set. Existing records are kept unless force is
// set; the order and membership logs are never touched.
func (d *Data) Seed(demo, force bool) error {
	seeded := 0

	if force || d.Users.Len() == 0 {
		users, err := seedUsers()
		if err != nil {
			return err
		}
		d.Users.table.Replace(users)
		if err := d.Users.SaveAll(); err != nil {
			return err
		}
		seeded++
	}
	if force || d.Stores.Len() == 0 {
		d.Stores.table.Replace(seedStores())
		if err := d.Stores.SaveAll(); err != nil {
			return err
		}
		seeded++
	}
	if demo && (force || d.Products.Len() == 0) {
		d.Products.table.Replace(DemoProducts())
		if err := d.Products.SaveAll(); err != nil {
			return err
		}
		seeded++
	}

	if seeded > 0 {
		slog.Info("seeded data directory",
			"users", d.Users.Len(),
			"stores", d.Stores.Len(),
			"products", d.Products.Len(),
		)
	}
	return nil
}

func seedUsers() ([]*account.User, error) {
	rates := account.DefaultRates()

	seeds := []struct {
		user     *account.User
		password string
	}{
		{
			user: &account.User{
				Email:     "student@student.ferngrove.edu",
				Role:      account.RoleCustomer,
				FirstName: "Sam",
				LastName:  "Reyes",
				Mobile:    "0400 111 222",
				Address:   "7 Fern St, Southbank",
				Student:   true,
				Funds:     rates.InitialFunds,
			},
			password: "Shopper123",
		},
		{
			user: &account.User{
				Email:     "staff@ferngrove.edu",
				Role:      account.RoleCustomer,
				FirstName: "Alex",
				LastName:  "Nguyen",
				Mobile:    "0400 333 444",
				Address:   "19 Wattle Ave, Northcote",
				Funds:     rates.InitialFunds,
			},
			password: "Shopper123",
		},
		{
			user: &account.User{
				Email:     "admin@ferngrove.edu",
				Role:      account.RoleAdmin,
				FirstName: "Morgan",
				LastName:  "Hale",
			},
			password: "Admin1234",
		},
	}

	users := make([]*account.User, 0, len(seeds))
	for _, s := range seeds {
		if err := s.user.SetPassword(s.password); err != nil {
			return nil, fmt.Errorf("seed %s: %w", s.user.Email, err)
		}
		users = append(users, s.user)
	}
	return users, nil
}

func seedStores() []*StoreLocation {
	return []*StoreLocation{
		{
			ID:      "S1",
			Name:    "Ferngrove Market Central",
			Address: "12 Garden St, Southbank",
			Phone:   "03 9999 9999",
			Hours:   "Mon-Fri 9am-5pm",
		},
		{
			ID:      "S2",
			Name:    "Ferngrove Market North",
			Address: "284 Wellington Rd, Northcote",
			Phone:   "03 8888 8888",
			Hours:   "Mon-Sat 8am-6pm",
		},
	}
}

// DemoProducts returns the sample catalog used by seed --demo.
func DemoProducts() []*catalog.Product {
	soon := func(days int) string {
		return time.Now().AddDate(0, 0, days).Format("2006-01-02")
	}
	price := func(s string) decimal.Decimal {
		return decimal.RequireFromString(s)
	}

	return []*catalog.Product{
		{
			SKU: "PAN001", Name: "Rolled Oats 1kg", Brand: "Harvest Co",
			Description: "Wholegrain oats, stone rolled",
			Category:    "Pantry", Subcategory: "Grains",
			Price: price("6.50"), VIPPrice: price("5.85"), Stock: 40,
			Ingredients: "oats", Allergens: "gluten",
		},
		{
			SKU: "PAN002", Name: "Basmati Rice 2kg", Brand: "Golden Paddock",
			Description: "Aged long-grain basmati",
			Category:    "Pantry", Subcategory: "Grains",
			Price: price("12.00"), VIPPrice: price("10.80"), Stock: 25,
		},
		{
			SKU: "PAN003", Name: "Olive Oil Extra Virgin 1L", Brand: "Ferngrove Reserve",
			Description: "Cold pressed, single estate",
			Category:    "Pantry", Subcategory: "Oils",
			Price: price("19.99"), VIPPrice: price("17.99"), Stock: 22,
		},
		{
			SKU: "DAI001", Name: "Full Cream Milk 2L", Brand: "Fern Dairy",
			Category: "Dairy", Subcategory: "Milk",
			Price: price("3.10"), VIPPrice: price("2.80"), Stock: 60,
			Perishable: true, ExpiryDate: soon(10),
			Storage: "keep refrigerated", Allergens: "milk",
		},
		{
			SKU: "DAI002", Name: "Vintage Cheddar 250g", Brand: "Fern Dairy",
			Description: "Aged 18 months",
			Category:    "Dairy", Subcategory: "Cheese",
			Price: price("8.90"), VIPPrice: price("8.00"), Stock: 30,
			Perishable: true, ExpiryDate: soon(45),
			Storage: "keep refrigerated", Allergens: "milk",
		},
		{
			SKU: "PRO001", Name: "Pink Lady Apples 1kg", Brand: "Orchard Lane",
			Category: "Produce", Subcategory: "Fruit",
			Price: price("5.90"), VIPPrice: price("5.30"), Stock: 50,
			Perishable: true, ExpiryDate: soon(14),
		},
		{
			SKU: "PRO002", Name: "Baby Spinach 120g", Brand: "Greenfields",
			Category: "Produce", Subcategory: "Vegetables",
			Price: price("4.20"), VIPPrice: price("3.80"), Stock: 35,
			Perishable: true, ExpiryDate: soon(6),
			Storage: "keep refrigerated",
		},
		{
			SKU: "BAK001", Name: "Sourdough Loaf", Brand: "Stonemill Bakery",
			Description: "Slow fermented white sourdough",
			Category:    "Bakery", Subcategory: "Bread",
			Price: price("7.50"), VIPPrice: price("6.75"), Stock: 20,
			Perishable: true, ExpiryDate: soon(3),
			Ingredients: "flour, water, salt", Allergens: "gluten",
		},
		{
			SKU: "BEV001", Name: "Sparkling Water 6x500ml", Brand: "Clearbrook",
			Category: "Beverages", Subcategory: "Water",
			Price: price("9.99"), VIPPrice: price("8.99"), Stock: 45,
		},
		{
			SKU: "BEV002", Name: "Cold Brew Coffee 1L", Brand: "Northcote Roasters",
			Description: "Single origin, small batch",
			Category:    "Beverages", Subcategory: "Coffee",
			Price: price("11.50"), VIPPrice: price("10.35"), Stock: 18,
			Perishable: true, ExpiryDate: soon(21),
			Storage: "keep refrigerated",
		},
	}
}
