package account

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestUser_Debit(t *testing.T) {
	u := &User{Funds: amount("50.00")}

	if err := u.Debit(amount("19.99")); err != nil {
		t.Fatalf("Debit() error = %v", err)
	}
	if !u.Funds.Equal(amount("30.01")) {
		t.Errorf("Debit() funds = %v, want 30.01", u.Funds)
	}

	var ferr *InsufficientFundsError
	err := u.Debit(amount("100.00"))
	if !errors.As(err, &ferr) {
		t.Fatalf("Debit() error = %v, want InsufficientFundsError", err)
	}
	if !ferr.Required.Equal(amount("100.00")) || !ferr.Available.Equal(amount("30.01")) {
		t.Errorf("InsufficientFundsError = %v, want required 100.00 available 30.01", ferr)
	}
	if !u.Funds.Equal(amount("30.01")) {
		t.Errorf("Debit() failed debit changed funds to %v", u.Funds)
	}
}

func TestUser_DisplayName(t *testing.T) {
	tests := []struct {
		name     string
		user     User
		expected string
	}{
		{"full name", User{FirstName: "Quinn", LastName: "Harper", Email: "q@ferngrove.edu"}, "Quinn Harper"},
		{"first only", User{FirstName: "Quinn", Email: "q@ferngrove.edu"}, "Quinn"},
		{"falls back to email", User{Email: "q@ferngrove.edu"}, "q@ferngrove.edu"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.user.DisplayName(); got != tt.expected {
				t.Errorf("DisplayName() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		valid    bool
	}{
		{"meets policy", "Shopper123", true},
		{"too short", "Ab1", false},
		{"no uppercase", "shopper123", false},
		{"no digit", "ShopperPass", false},
		{"exactly eight", "Abcdefg1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.valid && err != nil {
				t.Errorf("ValidatePassword() error = %v, want nil", err)
			}
			if !tt.valid {
				var werr *WeakPasswordError
				if !errors.As(err, &werr) {
					t.Errorf("ValidatePassword() error = %v, want WeakPasswordError", err)
				}
			}
		})
	}
}

func TestUser_SetAndCheckPassword(t *testing.T) {
	u := &User{}

	if err := u.SetPassword("weak"); err == nil {
		t.Fatal("SetPassword() accepted a weak password")
	}

	if err := u.SetPassword("Shopper123"); err != nil {
		t.Fatalf("SetPassword() error = %v", err)
	}
	if u.PasswordHash == "" || u.PasswordHash == "Shopper123" {
		t.Fatalf("SetPassword() stored %q, want a bcrypt hash", u.PasswordHash)
	}

	if !u.CheckPassword("Shopper123") {
		t.Error("CheckPassword() rejected the correct password")
	}
	if u.CheckPassword("Shopper124") {
		t.Error("CheckPassword() accepted a wrong password")
	}
}

func TestDate_CSVRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"set date", "2026-03-15"},
		{"unset", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Date
			if err := d.UnmarshalCSV(tt.value); err != nil {
				t.Fatalf("UnmarshalCSV() error = %v", err)
			}
			got, err := d.MarshalCSV()
			if err != nil {
				t.Fatalf("MarshalCSV() error = %v", err)
			}
			if got != tt.value {
				t.Errorf("round trip = %q, want %q", got, tt.value)
			}
		})
	}
}
