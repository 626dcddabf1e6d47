package account

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memUserStore struct {
	users map[string]*User
	saves int
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: make(map[string]*User)}
}

func (s *memUserStore) FindByEmail(email string) (*User, error) {
	u, ok := s.users[email]
	if !ok {
		return nil, ErrNotFound
	}
	return u, nil
}

func (s *memUserStore) Upsert(u *User) error {
	s.users[u.Email] = u
	return nil
}

func (s *memUserStore) SaveAll() error {
	s.saves++
	return nil
}

type memLedger struct {
	events []*MembershipEvent
}

func (l *memLedger) Append(ev *MembershipEvent) error {
	l.events = append(l.events, ev)
	return nil
}

func newTestService(t *testing.T, now time.Time) (*Service, *memUserStore, *memLedger, *User) {
	t.Helper()

	store := newMemUserStore()
	ledger := &memLedger{}
	svc := NewService(store, ledger, DefaultRates())
	svc.now = func() time.Time { return now }

	u := &User{
		Email:     "shopper@ferngrove.edu",
		Role:      RoleCustomer,
		FirstName: "Quinn",
		Funds:     amount("100.00"),
	}
	require.NoError(t, u.SetPassword("Shopper123"))
	require.NoError(t, store.Upsert(u))

	return svc, store, ledger, u
}

func TestService_Authenticate(t *testing.T) {
	svc, _, _, _ := newTestService(t, date(2026, 1, 10))

	u, err := svc.Authenticate("  Shopper@Ferngrove.edu ", "Shopper123")
	require.NoError(t, err)
	assert.Equal(t, "shopper@ferngrove.edu", u.Email)

	_, err = svc.Authenticate("shopper@ferngrove.edu", "WrongPass1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate("nobody@ferngrove.edu", "Shopper123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_TopUp(t *testing.T) {
	svc, store, _, u := newTestService(t, date(2026, 1, 10))

	require.NoError(t, svc.TopUp(u, amount("250.00")))
	assert.True(t, u.Funds.Equal(amount("350.00")), "funds = %v", u.Funds)
	assert.Equal(t, 1, store.saves)

	var aerr *AmountError
	assert.ErrorAs(t, svc.TopUp(u, amount("0")), &aerr)
	assert.ErrorAs(t, svc.TopUp(u, amount("-5")), &aerr)
	assert.ErrorAs(t, svc.TopUp(u, amount("1000.01")), &aerr)

	// The cap is per transaction, not per balance.
	require.NoError(t, svc.TopUp(u, amount("1000.00")))
	assert.True(t, u.Funds.Equal(amount("1350.00")), "funds = %v", u.Funds)
}

func TestService_BuyVIP(t *testing.T) {
	now := date(2026, 1, 10)
	svc, _, ledger, u := newTestService(t, now)

	cost, err := svc.BuyVIP(u, 2)
	require.NoError(t, err)
	assert.True(t, cost.Equal(amount("40.00")), "cost = %v", cost)
	assert.True(t, u.Funds.Equal(amount("60.00")), "funds = %v", u.Funds)
	assert.True(t, u.VIPActiveOn(now))

	require.Len(t, ledger.events, 1)
	assert.Equal(t, MembershipPurchase, ledger.events[0].Action)
	assert.Equal(t, 2, ledger.events[0].Years)

	// Buying again while active is a renewal.
	_, err = svc.BuyVIP(u, 1)
	require.NoError(t, err)
	require.Len(t, ledger.events, 2)
	assert.Equal(t, MembershipRenew, ledger.events[1].Action)

	want := NewDate(now).AddDate(0, 0, 3*VIPYearDays)
	assert.True(t, u.VIPExpires.Equal(want), "expiry = %v, want %v", u.VIPExpires.Time, want)
}

func TestService_BuyVIP_InsufficientFunds(t *testing.T) {
	svc, _, ledger, u := newTestService(t, date(2026, 1, 10))
	u.Funds = amount("10.00")

	var ferr *InsufficientFundsError
	_, err := svc.BuyVIP(u, 1)
	require.ErrorAs(t, err, &ferr)
	assert.True(t, u.Funds.Equal(amount("10.00")), "funds changed on failed purchase")
	assert.Empty(t, ledger.events)
	assert.False(t, u.VIPActiveOn(date(2026, 1, 10)))
}

func TestService_CancelVIP(t *testing.T) {
	now := date(2026, 1, 10)
	svc, _, ledger, u := newTestService(t, now)

	assert.ErrorIs(t, svc.CancelVIP(u), ErrNoActiveVIP)

	_, err := svc.BuyVIP(u, 1)
	require.NoError(t, err)
	fundsAfterPurchase := u.Funds

	require.NoError(t, svc.CancelVIP(u))
	assert.False(t, u.VIPActiveOn(now))
	assert.True(t, u.Funds.Equal(fundsAfterPurchase), "cancellation must not refund")

	require.Len(t, ledger.events, 2)
	assert.Equal(t, MembershipCancel, ledger.events[1].Action)
}

func TestService_ChangePassword(t *testing.T) {
	svc, _, _, u := newTestService(t, date(2026, 1, 10))

	err := svc.ChangePassword(u, "WrongPass1", "NewShopper1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	var werr *WeakPasswordError
	err = svc.ChangePassword(u, "Shopper123", "weak")
	require.ErrorAs(t, err, &werr)

	require.NoError(t, svc.ChangePassword(u, "Shopper123", "NewShopper1"))
	assert.True(t, u.CheckPassword("NewShopper1"))
	assert.False(t, u.CheckPassword("Shopper123"))
}

func TestService_UpdateContact(t *testing.T) {
	svc, store, _, u := newTestService(t, date(2026, 1, 10))

	require.NoError(t, svc.UpdateContact(u, " 0400 123 456 ", " 7 Fern St, Southbank "))
	assert.Equal(t, "0400 123 456", u.Mobile)
	assert.Equal(t, "7 Fern St, Southbank", u.Address)
	assert.Equal(t, 1, store.saves)
}

func TestService_BuyVIP_InvalidYears(t *testing.T) {
	svc, _, ledger, u := newTestService(t, date(2026, 1, 10))

	var aerr *AmountError
	_, err := svc.BuyVIP(u, 0)
	require.ErrorAs(t, err, &aerr)
	assert.Empty(t, ledger.events)
}
