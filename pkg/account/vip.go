package account

import (
	"time"

	"github.com/shopspring/decimal"
)

// VIPYearDays is the length of one purchased membership year.
const VIPYearDays = 365

// MembershipAction labels an entry in the membership ledger.
type MembershipAction string

const (
	// MembershipPurchase records a first membership purchase.
	MembershipPurchase MembershipAction = "PURCHASE"

	// MembershipRenew records an extension of an active membership.
	MembershipRenew MembershipAction = "RENEW"

	// MembershipCancel records a cancellation. Non-refundable.
	MembershipCancel MembershipAction = "CANCEL"
)

// MembershipEvent is one append-only ledger entry.
type MembershipEvent struct {
	Email      string           `csv:"email"`
	Action     MembershipAction `csv:"action"`
	Years      int              `csv:"years"`
	Amount     decimal.Decimal  `csv:"amount"`
	RecordedAt Timestamp        `csv:"recorded_at"`
	Note       string           `csv:"note"`
}

// ExtendVIP adds purchased years to the membership. An active membership
// extends from its current expiry; otherwise the clock starts today.
func (u *User) ExtendVIP(years int, now time.Time) {
	start := NewDate(now).Time
	if u.VIPActiveOn(now) {
		start = u.VIPExpires.Time
	}
	u.VIPExpires = Date{start.AddDate(0, 0, VIPYearDays*years)}
	u.VIPYears += years
}

// CancelVIP clears the membership immediately. No refund is issued.
func (u *User) CancelVIP() {
	u.VIPExpires = Date{}
}
