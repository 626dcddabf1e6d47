// Package promo defines promotion codes, their eligibility rules, and the
// catalog that validates them.
package promo

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// InvalidPromoError reports why a promotion code cannot be applied.
type InvalidPromoError struct {
	Code   string
	Reason string
}

// Error implements the error interface.
func (e *InvalidPromoError) Error() string {
	return fmt.Sprintf("invalid promotion code %s: %s", e.Code, e.Reason)
}

// Request is the checkout context an eligibility rule sees. It carries
// plain facts so rules stay decoupled from the checkout types.
type Request struct {
	Email       string
	Student     bool
	Pickup      bool
	FirstPickup bool
}

// Rule is one eligibility predicate variant. Eligible returns nil when
// the request qualifies and a reason error otherwise.
type Rule interface {
	Eligible(req Request) error
	Describe() string
}

// FirstPickupOnly restricts a code to the customer's first pickup order.
type FirstPickupOnly struct{}

// Eligible implements Rule.
func (FirstPickupOnly) Eligible(req Request) error {
	if !req.Pickup {
		return fmt.Errorf("valid for pickup orders only")
	}
	if !req.FirstPickup {
		return fmt.Errorf("valid on your first pickup order only")
	}
	return nil
}

// Describe implements Rule.
func (FirstPickupOnly) Describe() string {
	return "first pickup order only"
}

// StaffDomainOnly restricts a code to accounts on a staff email domain.
// Student accounts live on a subdomain and therefore do not match.
type StaffDomainOnly struct {
	Domain string
}

// Eligible implements Rule.
func (r StaffDomainOnly) Eligible(req Request) error {
	if !strings.HasSuffix(strings.ToLower(req.Email), "@"+strings.ToLower(r.Domain)) {
		return fmt.Errorf("restricted to %s staff accounts", r.Domain)
	}
	return nil
}

// Describe implements Rule.
func (r StaffDomainOnly) Describe() string {
	return "staff accounts (@" + r.Domain + ") only"
}

// Promotion is one discount code.
type Promotion struct {
	Code        string
	Rate        decimal.Decimal
	Description string
	Rule        Rule
}

// Discount computes the promotion's discount on a subtotal, rounded to
// cents and clamped so it never exceeds the subtotal.
func (p *Promotion) Discount(subtotal decimal.Decimal) decimal.Decimal {
	d := subtotal.Mul(p.Rate).Round(2)
	if d.GreaterThan(subtotal) {
		return subtotal
	}
	return d
}

// Percent renders the rate for display, e.g. "20%".
func (p *Promotion) Percent() string {
	return p.Rate.Mul(decimal.NewFromInt(100)).String() + "%"
}
