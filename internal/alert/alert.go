// Package alert detects cities whose fasting boundary is happening this
// minute.
package alert

import (
	"fmt"
	"sort"
	"time"

	"github.com/smokyabdulrahman/imsakiye/internal/aggregate"
	"github.com/smokyabdulrahman/imsakiye/internal/prayer"
)

// IdleMessage is shown when no city has an active alert.
const IdleMessage = "Şuan herhangi bir şehir için İftar/Sahur vakti değil."

// Alert is one city reaching one boundary. It exists only for the tick that
// observed it.
type Alert struct {
	City  string           `json:"city"`
	Kind  prayer.EventKind `json:"kind"`
	Clock prayer.Clock     `json:"-"`
	Time  string           `json:"time"`
}

// Message is the user-facing text, e.g. "İftar Vakti geldi! (18:47)".
func (a Alert) Message() string {
	return fmt.Sprintf("%s geldi! (%s)", a.Kind.AlertTitle(), a.Clock)
}

// Detector compares the wall clock against each city's boundaries. Matching
// is by hour and minute only, with no memory across calls.
type Detector struct {
	order []string
}

// NewDetector creates a Detector that reports alerts in the order of cities.
// Cities missing from the list are reported afterwards, sorted by name.
func NewDetector(cities []prayer.City) *Detector {
	order := make([]string, len(cities))
	for i, c := range cities {
		order[i] = c.Name
	}
	return &Detector{order: order}
}

// Active returns the alerts for now across every city in m.
func (d *Detector) Active(m aggregate.DailyMap, now time.Time) []Alert {
	var alerts []Alert
	for _, city := range d.cityOrder(m) {
		snap := m[city]
		for _, kind := range prayer.FastingEvents {
			clock := kind.Clock(snap)
			if clock.Matches(now) {
				alerts = append(alerts, Alert{City: city, Kind: kind, Clock: clock, Time: clock.String()})
			}
		}
	}
	return alerts
}

func (d *Detector) cityOrder(m aggregate.DailyMap) []string {
	seen := make(map[string]bool, len(d.order))
	out := make([]string, 0, len(m))
	for _, name := range d.order {
		if _, ok := m[name]; ok && !seen[name] {
			out = append(out, name)
			seen[name] = true
		}
	}

	var rest []string
	for name := range m {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}
