// Package panel provides the time keys and observation series behind the
// entropy panels: calendar months, event clocks counting months relative
// to a treatment event, and annual/monthly measurement series.
package panel

import (
	"fmt"
	"strings"
	"time"
)

// Month is a calendar month.
type Month struct {
	Year int
	Mon  time.Month
}

// NewMonth creates a month key.
func NewMonth(year int, mon time.Month) Month {
	return Month{Year: year, Mon: mon}
}

// ParseMonth parses a "2006-01" formatted month key.
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse("2006-01", strings.TrimSpace(s))
	if err != nil {
		return Month{}, fmt.Errorf("parse month %q: %w", s, err)
	}
	return Month{Year: t.Year(), Mon: t.Month()}, nil
}

// String formats the month as "2006-01".
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Mon))
}

// Key returns the chronological sort key year*100+month shared with the
// stacked panel builders.
func (m Month) Key() int {
	return m.Year*100 + int(m.Mon)
}

// Before reports whether m precedes o.
func (m Month) Before(o Month) bool {
	return m.Key() < o.Key()
}

// AddMonths returns the month n months after m (n may be negative).
func (m Month) AddMonths(n int) Month {
	t := time.Date(m.Year, m.Mon, 1, 0, 0, 0, 0, time.UTC).AddDate(0, n, 0)
	return Month{Year: t.Year(), Mon: t.Month()}
}

// Next returns the following month.
func (m Month) Next() Month {
	return m.AddMonths(1)
}

// Days returns the number of days in the month.
func (m Month) Days() int {
	return time.Date(m.Year, m.Mon+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// FirstDay returns the first day of the month as "2006-01-02".
func (m Month) FirstDay() string {
	return fmt.Sprintf("%04d-%02d-01", m.Year, int(m.Mon))
}

// LastDay returns the last day of the month as "2006-01-02".
func (m Month) LastDay() string {
	return fmt.Sprintf("%04d-%02d-%02d", m.Year, int(m.Mon), m.Days())
}

// MarshalJSON encodes the month as its "2006-01" string.
func (m Month) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

// UnmarshalJSON decodes a "2006-01" string.
func (m *Month) UnmarshalJSON(data []byte) error {
	parsed, err := ParseMonth(strings.Trim(string(data), `"`))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// MonthRange returns n consecutive months starting at start.
func MonthRange(start Month, n int) []Month {
	out := make([]Month, 0, n)
	m := start
	for i := 0; i < n; i++ {
		out = append(out, m)
		m = m.Next()
	}
	return out
}

// EventClock indexes months relative to an event month: tau is zero at
// the event, negative before it, positive after it.
type EventClock struct {
	Event Month
}

// NewEventClock creates a clock centered on the event month.
func NewEventClock(event Month) EventClock {
	return EventClock{Event: event}
}

// Tau returns the signed month offset of m from the event.
func (c EventClock) Tau(m Month) int {
	return (m.Year-c.Event.Year)*12 + int(m.Mon) - int(c.Event.Mon)
}

// MonthAt returns the month at offset tau.
func (c EventClock) MonthAt(tau int) Month {
	return c.Event.AddMonths(tau)
}
