// Package session carries the signed-in user and their cart through one
// terminal session. Flows receive a Session explicitly; there is no
// package-global current user.
package session

import (
	"time"

	"github.com/ferngrove/kiosk/pkg/account"
	"github.com/ferngrove/kiosk/pkg/cart"
)

// Session is one signed-in terminal session.
type Session struct {
	User      *account.User
	Cart      *cart.Cart
	StartedAt time.Time
}

// New starts a session for an authenticated user with an empty cart.
func New(u *account.User) *Session {
	return &Session{
		User:      u,
		Cart:      cart.New(),
		StartedAt: time.Now(),
	}
}

// IsAdmin reports whether the session belongs to an admin.
func (s *Session) IsAdmin() bool {
	return s.User.IsAdmin()
}
