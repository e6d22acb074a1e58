package prayer

import (
	"fmt"
	"time"
)

// Remaining is a countdown decomposed for display. Hours is the total number of
// whole hours and is not wrapped at 24.
type Remaining struct {
	Hours   int
	Minutes int
	Seconds int
}

// Decompose splits d into whole hours, minutes within the hour and seconds
// within the minute. Negative durations clamp to zero.
func Decompose(d time.Duration) Remaining {
	ms := d.Milliseconds()
	if ms < 0 {
		ms = 0
	}
	return Remaining{
		Hours:   int(ms / (60 * 60 * 1000)),
		Minutes: int(ms/(60*1000)) % 60,
		Seconds: int(ms/1000) % 60,
	}
}

// String renders "HH:MM:SS"; hours may exceed two digits.
func (r Remaining) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", r.Hours, r.Minutes, r.Seconds)
}

// FormatRemaining formats a duration as "Xh Ym" or "Ym" if less than an hour.
func FormatRemaining(d time.Duration) string {
	if d < 0 {
		return "0m"
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60

	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}
