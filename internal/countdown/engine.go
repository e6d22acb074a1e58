// Package countdown derives the next fasting boundary for a city and the time
// left until it.
package countdown

import (
	"time"

	"github.com/smokyabdulrahman/imsakiye/internal/aggregate"
	"github.com/smokyabdulrahman/imsakiye/internal/prayer"
)

// Target is the next boundary for one city, recomputed on every tick.
type Target struct {
	City      string
	Kind      prayer.EventKind
	Label     string
	Clock     prayer.Clock
	Date      prayer.Date
	At        time.Time
	Duration  time.Duration
	Remaining prayer.Remaining
	First     bool // first pre-dawn of the observance window
}

// Header is the line shown above the countdown.
func (t Target) Header() string {
	return t.City + " için " + t.Label + " Vaktine Kalan Süre"
}

// Engine picks the next boundary. Only today's two events are considered;
// once both have passed the pre-dawn event rolls to tomorrow.
type Engine struct {
	windowStart prayer.Date
}

// NewEngine creates an Engine that marks the pre-dawn event on windowStart as
// the first of the window.
func NewEngine(windowStart prayer.Date) *Engine {
	return &Engine{windowStart: windowStart}
}

// Next returns the target for city from m. ok is false when m has no
// snapshot for city.
func (e *Engine) Next(city string, m aggregate.DailyMap, now time.Time) (Target, bool) {
	snap, ok := m[city]
	if !ok {
		return Target{}, false
	}
	t := e.NextFor(snap, now)
	t.City = city
	return t, true
}

// NextFor computes the target from one snapshot. Event clocks are placed on
// now's calendar date in now's location.
func (e *Engine) NextFor(snap prayer.DailySnapshot, now time.Time) Target {
	loc := now.Location()
	today := prayer.DateOf(now)

	var (
		best  Target
		found bool
	)
	for _, kind := range prayer.FastingEvents {
		clock := kind.Clock(snap)
		at := clock.On(today, loc)
		if !at.After(now) {
			continue
		}
		if !found || at.Before(best.At) {
			best = Target{Kind: kind, Clock: clock, Date: today, At: at}
			found = true
		}
	}

	if !found {
		tomorrow := today.AddDays(1)
		clock := prayer.EventPreDawn.Clock(snap)
		best = Target{Kind: prayer.EventPreDawn, Clock: clock, Date: tomorrow, At: clock.On(tomorrow, loc)}
	}

	best.Label = best.Kind.Label()
	if best.Kind == prayer.EventPreDawn && best.Date == e.windowStart {
		best.Label = prayer.FirstPreDawnLabel
		best.First = true
	}

	best.Duration = best.At.Sub(now)
	if best.Duration < 0 {
		best.Duration = 0
	}
	best.Remaining = prayer.Decompose(best.Duration)
	return best
}
