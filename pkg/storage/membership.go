package storage

import (
	"github.com/ferngrove/kiosk/pkg/account"
)

// MembershipLedger is the append-only CSV log of VIP membership events.
type MembershipLedger struct {
	table *Table[account.MembershipEvent]
}

// OpenMembership loads the membership ledger at path.
func OpenMembership(path string) (*MembershipLedger, error) {
	table, err := OpenTable[account.MembershipEvent](path, nil)
	if err != nil {
		return nil, err
	}
	return &MembershipLedger{table: table}, nil
}

// Append adds an event to the ledger and persists it immediately.
func (l *MembershipLedger) Append(ev *account.MembershipEvent) error {
	l.table.Append(ev)
	return l.table.SaveAll()
}

// ListByEmail returns a customer's events, newest first.
func (l *MembershipLedger) ListByEmail(email string) []*account.MembershipEvent {
	rows := l.table.All()

	var events []*account.MembershipEvent
	for i := len(rows) - 1; i >= 0; i-- {
		if rows[i].Email == email {
			events = append(events, rows[i])
		}
	}
	return events
}

// Len reports the number of ledger entries.
func (l *MembershipLedger) Len() int {
	return l.table.Len()
}
