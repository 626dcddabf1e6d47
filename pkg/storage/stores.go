package storage

import (
	"errors"
	"strings"
)

// ErrStoreNotFound reports an unknown pickup store id.
var ErrStoreNotFound = errors.New("store not found")

// StoreLocation is a pickup store.
type StoreLocation struct {
	ID      string `csv:"store_id"`
	Name    string `csv:"name"`
	Address string `csv:"address"`
	Phone   string `csv:"phone"`
	Hours   string `csv:"hours"`
}

// StoreDirectory is the CSV-backed list of pickup stores.
type StoreDirectory struct {
	table *Table[StoreLocation]
}

// OpenStores loads the store directory at path.
func OpenStores(path string) (*StoreDirectory, error) {
	table, err := OpenTable(path, func(s *StoreLocation) string {
		return strings.ToUpper(s.ID)
	})
	if err != nil {
		return nil, err
	}
	return &StoreDirectory{table: table}, nil
}

// LoadAll returns every store in file order.
func (d *StoreDirectory) LoadAll() ([]*StoreLocation, error) {
	return d.table.All(), nil
}

// FindByID looks a store up by id, case-insensitively.
func (d *StoreDirectory) FindByID(id string) (*StoreLocation, error) {
	s, ok := d.table.FindByKey(strings.ToUpper(strings.TrimSpace(id)))
	if !ok {
		return nil, ErrStoreNotFound
	}
	return s, nil
}

// Upsert inserts or replaces a store by id.
func (d *StoreDirectory) Upsert(s *StoreLocation) error {
	return d.table.Upsert(s)
}

// SaveAll rewrites the stores file.
func (d *StoreDirectory) SaveAll() error {
	return d.table.SaveAll()
}

// Len reports the number of stores.
func (d *StoreDirectory) Len() int {
	return d.table.Len()
}
