// Package account defines users, credentials, funds, and the VIP
// membership lifecycle.
package account

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Role distinguishes shoppers from catalog administrators.
type Role string

const (
	// RoleCustomer can browse, fill a cart, and place orders.
	RoleCustomer Role = "customer"

	// RoleAdmin manages the product catalog and cannot place orders.
	RoleAdmin Role = "admin"
)

// User is one account record keyed by email. Customers carry funds and
// membership state; admins only carry credentials.
type User struct {
	Email        string          `csv:"email"`
	PasswordHash string          `csv:"password_hash"`
	Role         Role            `csv:"role"`
	FirstName    string          `csv:"first_name"`
	LastName     string          `csv:"last_name"`
	Mobile       string          `csv:"mobile"`
	Address      string          `csv:"address"`
	Student      bool            `csv:"student"`
	VIPYears     int             `csv:"vip_years"`
	VIPExpires   Date            `csv:"vip_expires"`
	Funds        decimal.Decimal `csv:"funds"`
}

// DisplayName returns the user's full name, falling back to the email
// when no name is recorded.
func (u *User) DisplayName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Email
	}
	return name
}

// IsAdmin reports whether the account has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Debit subtracts amount from the user's funds. It fails with
// InsufficientFundsError when the balance cannot cover it.
func (u *User) Debit(amount decimal.Decimal) error {
	if u.Funds.LessThan(amount) {
		return &InsufficientFundsError{Required: amount, Available: u.Funds}
	}
	u.Funds = u.Funds.Sub(amount)
	return nil
}

// Credit adds amount to the user's funds.
func (u *User) Credit(amount decimal.Decimal) {
	u.Funds = u.Funds.Add(amount)
}

// VIPActiveOn reports whether the membership is active on the given day:
// an expiry is set and falls on that day or later.
func (u *User) VIPActiveOn(t time.Time) bool {
	if u.VIPExpires.IsZero() {
		return false
	}
	return !NewDate(t).After(u.VIPExpires.Time)
}

// VIPDaysRemaining returns whole days until expiry, or zero when the
// membership is not active.
func (u *User) VIPDaysRemaining(t time.Time) int {
	if !u.VIPActiveOn(t) {
		return 0
	}
	return int(u.VIPExpires.Sub(NewDate(t).Time).Hours() / 24)
}
