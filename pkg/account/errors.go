package account

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound is returned when no account exists for an email.
	ErrNotFound = errors.New("account not found")

	// ErrInvalidCredentials is returned when login or password checks
	// fail. It deliberately does not reveal which part was wrong.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrNoActiveVIP is returned when cancelling a membership that is
	// not active.
	ErrNoActiveVIP = errors.New("no active VIP membership")
)

// InsufficientFundsError is returned when a debit exceeds the available
// balance.
type InsufficientFundsError struct {
	Required  decimal.Decimal
	Available decimal.Decimal
}

// Error implements the error interface.
func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: $%s required, $%s available",
		e.Required.StringFixed(2), e.Available.StringFixed(2))
}

// AmountError is returned when a monetary amount is outside its allowed
// range.
type AmountError struct {
	Amount decimal.Decimal
	Reason string
}

// Error implements the error interface.
func (e *AmountError) Error() string {
	return fmt.Sprintf("invalid amount $%s: %s", e.Amount.StringFixed(2), e.Reason)
}

// WeakPasswordError is returned when a password does not meet the policy.
type WeakPasswordError struct {
	Reason string
}

// Error implements the error interface.
func (e *WeakPasswordError) Error() string {
	return fmt.Sprintf("password too weak: %s", e.Reason)
}
