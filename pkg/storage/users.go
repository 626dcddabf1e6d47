package storage

import (
	"strings"

	"github.com/ferngrove/kiosk/pkg/account"
)

// UserStore is the CSV-backed account store.
type UserStore struct {
	table *Table[account.User]
}

// OpenUsers loads the user table at path.
func OpenUsers(path string) (*UserStore, error) {
	table, err := OpenTable(path, func(u *account.User) string {
		return strings.ToLower(u.Email)
	})
	if err != nil {
		return nil, err
	}
	return &UserStore{table: table}, nil
}

// All returns every user in file order.
func (s *UserStore) All() []*account.User {
	return s.table.All()
}

// FindByEmail looks a user up by email, case-insensitively.
func (s *UserStore) FindByEmail(email string) (*account.User, error) {
	u, ok := s.table.FindByKey(strings.ToLower(strings.TrimSpace(email)))
	if !ok {
		return nil, account.ErrNotFound
	}
	return u, nil
}

// Upsert inserts or replaces a user by email.
func (s *UserStore) Upsert(u *account.User) error {
	return s.table.Upsert(u)
}

// SaveAll rewrites the users file.
func (s *UserStore) SaveAll() error {
	return s.table.SaveAll()
}

// Len reports the number of accounts.
func (s *UserStore) Len() int {
	return s.table.Len()
}
