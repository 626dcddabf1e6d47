package catalog

import (
	"log/slog"
	"slices"
	"strings"
)

// MaxCategories caps the number of distinct categories the catalog may hold.
const MaxCategories = 10

// Store is the persistence capability the manager operates on.
type Store interface {
	LoadAll() ([]*Product, error)
	FindBySKU(sku string) (*Product, error)
	Upsert(p *Product) error
	Delete(sku string) error
	SaveAll() error
}

// Manager performs the admin CRUD operations against a catalog store.
// It owns field validation and the category cap; it has no pricing logic.
type Manager struct {
	store Store
}

// NewManager creates a Manager over a catalog store.
func NewManager(store Store) *Manager {
	return &Manager{store: store}
}

// Add inserts a new product. It fails if the SKU already exists, if any
// field is invalid, or if the product would introduce a category beyond
// the catalog limit.
func (m *Manager) Add(p *Product) error {
	normalize(p)
	if err := validate(p); err != nil {
		return err
	}
	if _, err := m.store.FindBySKU(p.SKU); err == nil {
		return &DuplicateSKUError{SKU: p.SKU}
	}

	categories, err := m.Categories()
	if err != nil {
		return err
	}
	if len(categories) >= MaxCategories && !containsFold(categories, p.Category) {
		return &CategoryLimitError{Limit: MaxCategories}
	}

	if err := m.store.Upsert(p); err != nil {
		return err
	}
	if err := m.store.SaveAll(); err != nil {
		return err
	}
	slog.Info("product added", "sku", p.SKU, "name", p.Name)
	return nil
}

// Update replaces an existing product. It fails if the SKU is not found
// or any field is invalid.
func (m *Manager) Update(p *Product) error {
	normalize(p)
	if err := validate(p); err != nil {
		return err
	}
	if _, err := m.store.FindBySKU(p.SKU); err != nil {
		return err
	}
	if err := m.store.Upsert(p); err != nil {
		return err
	}
	if err := m.store.SaveAll(); err != nil {
		return err
	}
	slog.Info("product updated", "sku", p.SKU)
	return nil
}

// Remove deletes a product by SKU. Existing orders are unaffected; they
// keep their price snapshots.
func (m *Manager) Remove(sku string) error {
	if err := m.store.Delete(strings.TrimSpace(sku)); err != nil {
		return err
	}
	if err := m.store.SaveAll(); err != nil {
		return err
	}
	slog.Info("product removed", "sku", sku)
	return nil
}

// Get looks up one product by SKU.
func (m *Manager) Get(sku string) (*Product, error) {
	return m.store.FindBySKU(strings.TrimSpace(sku))
}

// List returns the filtered catalog in display order.
func (m *Manager) List(f Filter) ([]*Product, error) {
	products, err := m.store.LoadAll()
	if err != nil {
		return nil, err
	}
	return Apply(products, f), nil
}

// Categories returns the distinct category names in the catalog, sorted.
func (m *Manager) Categories() ([]string, error) {
	products, err := m.store.LoadAll()
	if err != nil {
		return nil, err
	}

	var categories []string
	for _, p := range products {
		if !containsFold(categories, p.Category) {
			categories = append(categories, p.Category)
		}
	}
	slices.Sort(categories)
	return categories, nil
}

func normalize(p *Product) {
	p.SKU = strings.ToUpper(strings.TrimSpace(p.SKU))
	p.Name = strings.TrimSpace(p.Name)
	p.Brand = strings.TrimSpace(p.Brand)
	p.Category = strings.TrimSpace(p.Category)
	p.Subcategory = strings.TrimSpace(p.Subcategory)
}

func validate(p *Product) error {
	switch {
	case p.SKU == "":
		return &ValidationError{Field: "sku", Message: "must not be empty"}
	case p.Name == "":
		return &ValidationError{Field: "name", Message: "must not be empty"}
	case p.Brand == "":
		return &ValidationError{Field: "brand", Message: "must not be empty"}
	case p.Category == "":
		return &ValidationError{Field: "category", Message: "must not be empty"}
	}
	if !p.Price.IsPositive() {
		return &ValidationError{Field: "price", Message: "must be greater than zero"}
	}
	if !p.VIPPrice.IsPositive() {
		return &ValidationError{Field: "vip_price", Message: "must be greater than zero"}
	}
	if p.VIPPrice.GreaterThan(p.Price) {
		return &ValidationError{Field: "vip_price", Message: "must not exceed the regular price"}
	}
	if p.Stock < 0 {
		return &ValidationError{Field: "stock", Message: "must not be negative"}
	}
	return nil
}

func containsFold(list []string, s string) bool {
	for _, item := range list {
		if strings.EqualFold(item, s) {
			return true
		}
	}
	return false
}
