package promo

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
)

// StaffDomain is the email domain that marks staff accounts.
const StaffDomain = "ferngrove.edu"

// Catalog is a thread-safe registry of promotion codes.
type Catalog struct {
	mu    sync.RWMutex
	codes map[string]*Promotion
}

// NewCatalog creates an empty Catalog.
func NewCatalog() *Catalog {
	return &Catalog{codes: make(map[string]*Promotion)}
}

// Register adds a promotion. Codes are case-insensitive and must be
// unique.
func (c *Catalog) Register(p *Promotion) error {
	code := strings.ToUpper(strings.TrimSpace(p.Code))
	if code == "" {
		return fmt.Errorf("promotion code must not be empty")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.codes[code]; ok {
		return fmt.Errorf("promotion code %s already registered", code)
	}
	p.Code = code
	c.codes[code] = p
	return nil
}

// Lookup finds a promotion by code, case-insensitively.
func (c *Catalog) Lookup(code string) (*Promotion, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	p, ok := c.codes[strings.ToUpper(strings.TrimSpace(code))]
	return p, ok
}

// All returns every promotion ordered by code.
func (c *Catalog) All() []*Promotion {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*Promotion, 0, len(c.codes))
	for _, p := range c.codes {
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b *Promotion) int {
		return cmp.Compare(a.Code, b.Code)
	})
	return out
}

// Validate resolves a code and checks it against the request. A student
// pickup request always fails: the promotion would stack with the student
// pickup discount, and the two are mutually exclusive.
func (c *Catalog) Validate(code string, req Request) (*Promotion, error) {
	p, ok := c.Lookup(code)
	if !ok {
		return nil, &InvalidPromoError{
			Code:   strings.ToUpper(strings.TrimSpace(code)),
			Reason: "no such code",
		}
	}
	if req.Student && req.Pickup {
		return nil, &InvalidPromoError{
			Code:   p.Code,
			Reason: "cannot be combined with the student pickup discount",
		}
	}
	if err := p.Rule.Eligible(req); err != nil {
		return nil, &InvalidPromoError{Code: p.Code, Reason: err.Error()}
	}
	return p, nil
}

// defaultCatalog holds the standing Ferngrove promotions.
var defaultCatalog = buildDefault()

func buildDefault() *Catalog {
	c := NewCatalog()
	mustRegister(c, &Promotion{
		Code:        "WELCOME20",
		Rate:        decimal.NewFromFloat(0.20),
		Description: "20% off your first pickup order",
		Rule:        FirstPickupOnly{},
	})
	mustRegister(c, &Promotion{
		Code:        "STAFF5",
		Rate:        decimal.NewFromFloat(0.05),
		Description: "5% off for Ferngrove staff",
		Rule:        StaffDomainOnly{Domain: StaffDomain},
	})
	return c
}

func mustRegister(c *Catalog, p *Promotion) {
	if err := c.Register(p); err != nil {
		panic(err)
	}
}

// Default returns the catalog of standing promotions.
func Default() *Catalog {
	return defaultCatalog
}
