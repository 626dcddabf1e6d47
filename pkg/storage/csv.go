// Package storage persists kiosk records as CSV flat files, one file per
// record type. Column mapping comes from gocsv struct tags; every table
// is held fully in memory and rewritten to disk on save.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gocarina/gocsv"
)

var errNoKey = errors.New("storage: table has no key function")

// Table is an in-memory record set backed by one CSV file.
// Usage: storage.OpenTable(path, func(p *catalog.Product) string { return p.SKU })
type Table[T any] struct {
	mu   sync.RWMutex
	path string
	key  func(*T) string
	rows []*T
}

// OpenTable loads the CSV file at path into a Table. A missing or empty
// file yields an empty table. key extracts the unique key used by
// FindByKey, Upsert and Delete; pass nil for append-only logs.
func OpenTable[T any](path string, key func(*T) string) (*Table[T], error) {
	t := &Table[T]{path: path, key: key}
	if err := t.Reload(); err != nil {
		return nil, err
	}
	return t, nil
}

// Reload replaces the in-memory rows with the file's current contents.
func (t *Table[T]) Reload() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	f, err := os.Open(t.path)
	if errors.Is(err, os.ErrNotExist) {
		t.rows = nil
		return nil
	}
	if err != nil {
		return fmt.Errorf("open %s: %w", t.path, err)
	}
	defer f.Close()

	var rows []*T
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			t.rows = nil
			return nil
		}
		return fmt.Errorf("decode %s: %w", t.path, err)
	}
	t.rows = rows
	return nil
}

// All returns the rows in file order. The slice is a copy; the rows are
// shared.
func (t *Table[T]) All() []*T {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]*T, len(t.rows))
	copy(out, t.rows)
	return out
}

// Len reports the number of rows.
func (t *Table[T]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rows)
}

// FindByKey returns the row whose key matches, if present.
func (t *Table[T]) FindByKey(key string) (*T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.key == nil {
		return nil, false
	}
	for _, row := range t.rows {
		if t.key(row) == key {
			return row, true
		}
	}
	return nil, false
}

// Upsert replaces the row sharing the new row's key, or appends it.
func (t *Table[T]) Upsert(row *T) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.key == nil {
		return errNoKey
	}
	key := t.key(row)
	for i, existing := range t.rows {
		if t.key(existing) == key {
			t.rows[i] = row
			return nil
		}
	}
	t.rows = append(t.rows, row)
	return nil
}

// Delete removes the row with the key, reporting whether it was present.
func (t *Table[T]) Delete(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.key == nil {
		return false
	}
	for i, row := range t.rows {
		if t.key(row) == key {
			t.rows = append(t.rows[:i], t.rows[i+1:]...)
			return true
		}
	}
	return false
}

// Append adds rows without key checking, for append-only logs.
func (t *Table[T]) Append(rows ...*T) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rows = append(t.rows, rows...)
}

// Replace swaps the entire row set, for reseeding.
func (t *Table[T]) Replace(rows []*T) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rows = rows
}

// SaveAll rewrites the CSV file from memory, creating the parent
// directory if needed. An empty table writes the header row only.
func (t *Table[T]) SaveAll() error {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if err := os.MkdirAll(filepath.Dir(t.path), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	f, err := os.Create(t.path)
	if err != nil {
		return fmt.Errorf("create %s: %w", t.path, err)
	}
	if err := gocsv.MarshalFile(&t.rows, f); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", t.path, err)
	}
	return f.Close()
}
