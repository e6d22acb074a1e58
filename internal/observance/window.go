// Package observance maps calendar days onto the fixed fasting window and
// numbers them.
package observance

import (
	"errors"
	"fmt"
	"time"

	"github.com/smokyabdulrahman/imsakiye/internal/prayer"
)

// DefaultDays is the window length.
const DefaultDays = 30

// Window is the fixed observance range. It is built once from configuration
// and read-only afterwards.
type Window struct {
	Start  prayer.Date
	Days   int
	Months []prayer.YearMonth // months queried to cover the window, in order
}

// DefaultWindow is Ramadan 1447: 19 February to 20 March 2026.
func DefaultWindow() Window {
	return Window{
		Start: prayer.Date{Year: 2026, Month: time.February, Day: 19},
		Days:  DefaultDays,
		Months: []prayer.YearMonth{
			{Year: 2026, Month: time.February},
			{Year: 2026, Month: time.March},
		},
	}
}

// End returns the last day inside the window.
func (w Window) End() prayer.Date {
	return w.Start.AddDays(w.Days - 1)
}

// Ordinal returns the 1-based position of d in the window. ok is false when d
// falls outside it.
func (w Window) Ordinal(d prayer.Date) (n int, ok bool) {
	n = d.DaysSince(w.Start) + 1
	if n < 1 || n > w.Days {
		return 0, false
	}
	return n, true
}

// Contains reports whether d is inside the window.
func (w Window) Contains(d prayer.Date) bool {
	_, ok := w.Ordinal(d)
	return ok
}

// Validate checks that the queried months are consecutive and cover every
// day of the window.
func (w Window) Validate() error {
	if w.Start.IsZero() {
		return errors.New("window start is not set")
	}
	if w.Days < 1 {
		return fmt.Errorf("window length must be positive, got %d", w.Days)
	}
	if len(w.Months) == 0 {
		return errors.New("window has no months to query")
	}
	for i := 1; i < len(w.Months); i++ {
		if w.Months[i] != w.Months[i-1].Next() {
			return fmt.Errorf("window months %s and %s are not consecutive", w.Months[i-1], w.Months[i])
		}
	}
	if !w.Months[0].Contains(w.Start) {
		return fmt.Errorf("window start %s is not in %s", w.Start.ISO(), w.Months[0])
	}
	last := w.Months[len(w.Months)-1]
	after := last.Next()
	if end := w.End(); !end.Before(prayer.Date{Year: after.Year, Month: after.Month, Day: 1}) {
		return fmt.Errorf("window end %s is after %s", end.ISO(), last)
	}
	return nil
}
