package prayer

import (
	"fmt"
	"strings"
	"time"
)

// Clock is a wall-clock time of day with minute precision, as the provider reports it.
type Clock struct {
	Hour   int
	Minute int
}

// ParseClock parses a time string like "05:12" or "05:12 (+03)".
// The zone annotation the API sometimes appends is stripped.
func ParseClock(raw string) (Clock, error) {
	s := strings.TrimSpace(raw)
	if idx := strings.Index(s, " "); idx != -1 {
		s = s[:idx]
	}

	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return Clock{}, fmt.Errorf("invalid time format: %q", raw)
	}

	var hour, min int
	if _, err := fmt.Sscanf(parts[0], "%d", &hour); err != nil {
		return Clock{}, fmt.Errorf("invalid hour in %q: %w", raw, err)
	}
	if _, err := fmt.Sscanf(parts[1], "%d", &min); err != nil {
		return Clock{}, fmt.Errorf("invalid minute in %q: %w", raw, err)
	}
	if hour < 0 || hour > 23 || min < 0 || min > 59 {
		return Clock{}, fmt.Errorf("time out of range: %q", raw)
	}

	return Clock{Hour: hour, Minute: min}, nil
}

// String renders the clock as "HH:MM".
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// Format renders the clock with a Go time layout such as "15:04" or "3:04 PM".
func (c Clock) Format(layout string) string {
	return time.Date(2000, 1, 1, c.Hour, c.Minute, 0, 0, time.UTC).Format(layout)
}

// On combines the clock with a calendar date in loc.
func (c Clock) On(d Date, loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, c.Hour, c.Minute, 0, 0, loc)
}

// Before reports whether c is strictly earlier in the day than o.
func (c Clock) Before(o Clock) bool {
	return c.minutes() < o.minutes()
}

// Matches reports whether t falls inside this clock's minute. Seconds are ignored.
func (c Clock) Matches(t time.Time) bool {
	return t.Hour() == c.Hour && t.Minute() == c.Minute
}

func (c Clock) minutes() int {
	return c.Hour*60 + c.Minute
}
