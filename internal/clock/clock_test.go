package clock

import (
	"testing"
	"time"
)

func fixed(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestTodayRollsOverAtBahrainMidnight(t *testing.T) {
	// Bahrain is UTC+3 with no daylight saving.
	tests := []struct {
		name string
		now  time.Time
		want string
	}{
		{"utc evening still same bahrain day", time.Date(2024, 3, 10, 20, 59, 59, 0, time.UTC), "2024-03-10"},
		{"bahrain midnight", time.Date(2024, 3, 10, 21, 0, 0, 0, time.UTC), "2024-03-11"},
		{"utc midnight is 3am in bahrain", time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC), "2024-03-11"},
		{"year boundary", time.Date(2024, 12, 31, 21, 30, 0, 0, time.UTC), "2025-01-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewResolver(fixed(tt.now))
			if err != nil {
				t.Fatalf("NewResolver: %v", err)
			}
			if got := r.Today(); got != tt.want {
				t.Errorf("Today() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestTodayIgnoresInstantZone(t *testing.T) {
	instant := time.Date(2024, 6, 1, 22, 15, 0, 0, time.UTC)
	zones := []*time.Location{
		time.UTC,
		time.FixedZone("PST", -8*60*60),
		time.FixedZone("JST", 9*60*60),
	}

	for _, loc := range zones {
		r, err := NewResolver(fixed(instant.In(loc)))
		if err != nil {
			t.Fatalf("NewResolver: %v", err)
		}
		if got := r.Today(); got != "2024-06-02" {
			t.Errorf("zone %s: Today() = %s, want 2024-06-02", loc, got)
		}
	}
}

func TestTodayStableWithinDay(t *testing.T) {
	current := time.Date(2024, 5, 4, 21, 0, 0, 0, time.UTC) // 00:00 Bahrain
	r, err := NewResolver(func() time.Time { return current })
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}

	first := r.Today()
	current = current.Add(23*time.Hour + 59*time.Minute)
	if got := r.Today(); got != first {
		t.Fatalf("date changed within day: %s -> %s", first, got)
	}
	current = current.Add(time.Minute)
	if got := r.Today(); got == first {
		t.Fatalf("date did not change after midnight: still %s", got)
	}
}

func TestNilNowUsesWallClock(t *testing.T) {
	r, err := NewResolver(nil)
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}
	if _, err := ParseDate(r.Today()); err != nil {
		t.Fatalf("Today() not a valid date: %v", err)
	}
}

func TestParseAndFormatDate(t *testing.T) {
	d, err := ParseDate("2024-02-29")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if d.Location() != time.UTC || d.Hour() != 0 {
		t.Errorf("ParseDate returned %v, want UTC midnight", d)
	}
	if got := FormatDate(d); got != "2024-02-29" {
		t.Errorf("FormatDate = %s", got)
	}

	for _, bad := range []string{"", "2024-13-01", "01/02/2024", "2023-02-29"} {
		if _, err := ParseDate(bad); err == nil {
			t.Errorf("ParseDate(%q) succeeded, want error", bad)
		}
	}
}
