// Package clock resolves "today" as a civil date in the Asia/Bahrain zone,
// which is the day boundary every prayer record is keyed on.
package clock

import (
	"fmt"
	"time"

	// Embedded zone database so Asia/Bahrain resolves on hosts without zoneinfo.
	_ "time/tzdata"
)

const (
	// Zone is fixed; deployment location and client zone never matter.
	Zone = "Asia/Bahrain"

	DateLayout = "2006-01-02"
)

// Resolver maps wall-clock instants onto Bahrain-local calendar dates.
type Resolver struct {
	loc *time.Location
	now func() time.Time
}

// NewResolver returns a Resolver reading the current instant from now.
// A nil now uses time.Now.
func NewResolver(now func() time.Time) (*Resolver, error) {
	loc, err := time.LoadLocation(Zone)
	if err != nil {
		return nil, fmt.Errorf("load %s zone: %w", Zone, err)
	}
	if now == nil {
		now = time.Now
	}
	return &Resolver{loc: loc, now: now}, nil
}

// Today returns the current Bahrain-local date as YYYY-MM-DD.
func (r *Resolver) Today() string {
	return r.now().In(r.loc).Format(DateLayout)
}

// ParseDate converts a YYYY-MM-DD string into UTC midnight of that date,
// the representation stored in date columns.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return d, nil
}

// FormatDate renders a stored date column value back to YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}
