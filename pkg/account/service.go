package account

import (
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Store is the persistence capability the service operates on.
type Store interface {
	FindByEmail(email string) (*User, error)
	Upsert(u *User) error
	SaveAll() error
}

// Ledger records membership events, append-only.
type Ledger interface {
	Append(ev *MembershipEvent) error
}

// Rates holds the account-level money settings.
type Rates struct {
	VIPYearPrice decimal.Decimal
	TopUpMax     decimal.Decimal
	InitialFunds decimal.Decimal
}

// DefaultRates returns the standard rates: $20 per VIP year, $1000 top-up
// cap per transaction, $1000 starting balance.
func DefaultRates() Rates {
	return Rates{
		VIPYearPrice: decimal.NewFromInt(20),
		TopUpMax:     decimal.NewFromInt(1000),
		InitialFunds: decimal.NewFromInt(1000),
	}
}

// Service performs account operations that touch persistence: login,
// top-ups, membership purchases, and profile updates.
type Service struct {
	store  Store
	ledger Ledger
	rates  Rates
	now    func() time.Time
}

// NewService creates a Service over an account store and membership ledger.
func NewService(store Store, ledger Ledger, rates Rates) *Service {
	return &Service{
		store:  store,
		ledger: ledger,
		rates:  rates,
		now:    time.Now,
	}
}

// Rates returns the service's money settings.
func (s *Service) Rates() Rates {
	return s.rates
}

// Authenticate verifies an email/password pair and returns the account.
// Lookup and password failures both return ErrInvalidCredentials.
func (s *Service) Authenticate(email, password string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	u, err := s.store.FindByEmail(email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !u.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}

	slog.Info("login", "email", u.Email, "role", u.Role)
	return u, nil
}

// TopUp adds funds to the account. The amount must be positive and no
// more than the per-transaction cap.
func (s *Service) TopUp(u *User, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return &AmountError{Amount: amount, Reason: "must be greater than zero"}
	}
	if amount.GreaterThan(s.rates.TopUpMax) {
		return &AmountError{
			Amount: amount,
			Reason: "exceeds the $" + s.rates.TopUpMax.StringFixed(2) + " per-transaction limit",
		}
	}

	u.Credit(amount)
	if err := s.persist(u); err != nil {
		return err
	}
	slog.Info("funds topped up", "email", u.Email, "amount", amount, "balance", u.Funds)
	return nil
}

// BuyVIP purchases or renews membership years, debiting years x the
// yearly price. An active membership extends from its current expiry.
// The charge is returned for display.
func (s *Service) BuyVIP(u *User, years int) (decimal.Decimal, error) {
	if years < 1 {
		return decimal.Zero, &AmountError{Amount: decimal.NewFromInt(int64(years)), Reason: "years must be at least 1"}
	}

	now := s.now()
	cost := s.rates.VIPYearPrice.Mul(decimal.NewFromInt(int64(years)))
	action := MembershipPurchase
	if u.VIPActiveOn(now) {
		action = MembershipRenew
	}

	if err := u.Debit(cost); err != nil {
		return decimal.Zero, err
	}
	u.ExtendVIP(years, now)

	if err := s.persist(u); err != nil {
		return decimal.Zero, err
	}
	if err := s.ledger.Append(&MembershipEvent{
		Email:      u.Email,
		Action:     action,
		Years:      years,
		Amount:     cost,
		RecordedAt: NewTimestamp(now),
	}); err != nil {
		return decimal.Zero, err
	}

	slog.Info("vip extended", "email", u.Email, "years", years, "expires", u.VIPExpires.Time)
	return cost, nil
}

// CancelVIP ends an active membership immediately. The purchase is not
// refunded.
func (s *Service) CancelVIP(u *User) error {
	now := s.now()
	if !u.VIPActiveOn(now) {
		return ErrNoActiveVIP
	}

	u.CancelVIP()
	if err := s.persist(u); err != nil {
		return err
	}
	if err := s.ledger.Append(&MembershipEvent{
		Email:      u.Email,
		Action:     MembershipCancel,
		RecordedAt: NewTimestamp(now),
		Note:       "non-refundable",
	}); err != nil {
		return err
	}

	slog.Info("vip cancelled", "email", u.Email)
	return nil
}

// ChangePassword verifies the current password, applies the policy to
// the new one, and persists the new hash.
func (s *Service) ChangePassword(u *User, current, next string) error {
	if !u.CheckPassword(current) {
		return ErrInvalidCredentials
	}
	if err := u.SetPassword(next); err != nil {
		return err
	}
	return s.persist(u)
}

// UpdateContact changes the mobile number and delivery address. Email
// and student status are immutable.
func (s *Service) UpdateContact(u *User, mobile, address string) error {
	u.Mobile = strings.TrimSpace(mobile)
	u.Address = strings.TrimSpace(address)
	return s.persist(u)
}

func (s *Service) persist(u *User) error {
	if err := s.store.Upsert(u); err != nil {
		return err
	}
	return s.store.SaveAll()
}
