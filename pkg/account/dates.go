package account

import (
	"time"
)

const (
	dateLayout      = "2006-01-02"
	timestampLayout = "2006-01-02 15:04:05"
)

// Date is a calendar date with no time component. The zero value means
// unset and round-trips through CSV as an empty string.
type Date struct {
	time.Time
}

// NewDate truncates t to its calendar date.
func NewDate(t time.Time) Date {
	return Date{time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

// MarshalCSV renders the date as YYYY-MM-DD, or an empty string when unset.
func (d Date) MarshalCSV() (string, error) {
	if d.IsZero() {
		return "", nil
	}
	return d.Format(dateLayout), nil
}

// UnmarshalCSV parses a YYYY-MM-DD value; an empty string means unset.
func (d *Date) UnmarshalCSV(value string) error {
	if value == "" {
		*d = Date{}
		return nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return err
	}
	*d = Date{t}
	return nil
}

// Timestamp is a second-precision wall-clock time stored as
// "2006-01-02 15:04:05".
type Timestamp struct {
	time.Time
}

// NewTimestamp truncates t to whole seconds.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{t.Truncate(time.Second)}
}

// MarshalCSV renders the timestamp, or an empty string when unset.
func (ts Timestamp) MarshalCSV() (string, error) {
	if ts.IsZero() {
		return "", nil
	}
	return ts.Format(timestampLayout), nil
}

// UnmarshalCSV parses a timestamp; an empty string means unset.
func (ts *Timestamp) UnmarshalCSV(value string) error {
	if value == "" {
		*ts = Timestamp{}
		return nil
	}
	t, err := time.Parse(timestampLayout, value)
	if err != nil {
		return err
	}
	*ts = Timestamp{t}
	return nil
}
