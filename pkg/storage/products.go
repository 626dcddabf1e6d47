package storage

import (
	"strings"

	"github.com/ferngrove/kiosk/pkg/catalog"
)

// ProductStore is the CSV-backed product catalog.
type ProductStore struct {
	table *Table[catalog.Product]
}

// OpenProducts loads the product table at path.
func OpenProducts(path string) (*ProductStore, error) {
	table, err := OpenTable(path, func(p *catalog.Product) string {
		return strings.ToUpper(p.SKU)
	})
	if err != nil {
		return nil, err
	}
	return &ProductStore{table: table}, nil
}

// LoadAll returns every product in file order.
func (s *ProductStore) LoadAll() ([]*catalog.Product, error) {
	return s.table.All(), nil
}

// FindBySKU looks a product up by SKU, case-insensitively.
func (s *ProductStore) FindBySKU(sku string) (*catalog.Product, error) {
	p, ok := s.table.FindByKey(strings.ToUpper(strings.TrimSpace(sku)))
	if !ok {
		return nil, catalog.ErrNotFound
	}
	return p, nil
}

// Upsert inserts or replaces a product by SKU.
func (s *ProductStore) Upsert(p *catalog.Product) error {
	return s.table.Upsert(p)
}

// Delete removes a product by SKU.
func (s *ProductStore) Delete(sku string) error {
	if !s.table.Delete(strings.ToUpper(strings.TrimSpace(sku))) {
		return catalog.ErrNotFound
	}
	return nil
}

// SaveAll rewrites the products file.
func (s *ProductStore) SaveAll() error {
	return s.table.SaveAll()
}

// Len reports the number of products.
func (s *ProductStore) Len() int {
	return s.table.Len()
}
