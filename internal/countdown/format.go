package countdown

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/smokyabdulrahman/imsakiye/internal/prayer"
)

// Format constants for display modes.
const (
	FormatClock         = "clock"          // 05:12:33
	FormatTimeRemaining = "time-remaining" // 5h 12m
	FormatNameAndTime   = "name-and-time"
	FormatNameAndClock  = "name-and-clock"
	FormatFull          = "full"
)

// FormatModes lists the named modes, for flag help.
var FormatModes = []string{FormatClock, FormatTimeRemaining, FormatNameAndTime, FormatNameAndClock, FormatFull}

// FormatData is the data passed to custom Go templates.
type FormatData struct {
	City      string // e.g. "Istanbul"
	Label     string // e.g. "Akşam (İftar)"
	Time      string // target clock time, "18:47" or "6:47 PM"
	Remaining string // "13h 32m"
	Clock     string // "13:32:05"
	Hours     int    // total hours, not capped at 24
	Minutes   int
	Seconds   int
}

// FormatOutput renders t for display. timeFormat is "15:04" for 24h or
// "3:04 PM" for 12h.
//
// If mode contains "{{", it is treated as a custom Go template string.
// Example: "{{.City}} {{.Label}} {{.Clock}}" -> "Istanbul Akşam (İftar) 13:32:05"
func FormatOutput(t Target, mode, timeFormat string) string {
	remaining := prayer.FormatRemaining(t.Duration)
	timeStr := t.Clock.Format(timeFormat)
	clock := t.Remaining.String()

	if strings.Contains(mode, "{{") {
		return formatCustom(mode, FormatData{
			City:      t.City,
			Label:     t.Label,
			Time:      timeStr,
			Remaining: remaining,
			Clock:     clock,
			Hours:     t.Remaining.Hours,
			Minutes:   t.Remaining.Minutes,
			Seconds:   t.Remaining.Seconds,
		})
	}

	switch mode {
	case FormatClock:
		return clock
	case FormatTimeRemaining:
		return remaining
	case FormatNameAndTime:
		return fmt.Sprintf("%s %s", t.Label, timeStr)
	case FormatNameAndClock:
		return fmt.Sprintf("%s %s", t.Label, clock)
	default:
		return fmt.Sprintf("%s\n%s %s (%s)", t.Header(), t.Label, timeStr, clock)
	}
}

// formatCustom executes a user-provided Go template string against the FormatData.
func formatCustom(tmpl string, data FormatData) string {
	t, err := template.New("custom").Parse(tmpl)
	if err != nil {
		return fmt.Sprintf("template-err: %v", err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return fmt.Sprintf("template-err: %v", err)
	}

	return buf.String()
}
