package observance

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/smokyabdulrahman/imsakiye/internal/aggregate"
	"github.com/smokyabdulrahman/imsakiye/internal/prayer"
)

// Day is a snapshot annotated with its position in the window. Ordinal is 0
// for days outside the window.
type Day struct {
	prayer.DailySnapshot
	Ordinal int
}

// HasOrdinal reports whether the day is numbered.
func (d Day) HasOrdinal() bool {
	return d.Ordinal > 0
}

// Label is "Ramazan N. Gün" inside the window and the lunar date otherwise.
func (d Day) Label() string {
	if d.HasOrdinal() {
		return fmt.Sprintf("Ramazan %d. Gün", d.Ordinal)
	}
	return d.Hijri.Label()
}

// Annotate numbers a single snapshot against w.
func (w Window) Annotate(s prayer.DailySnapshot) Day {
	n, _ := w.Ordinal(s.Date)
	return Day{DailySnapshot: s, Ordinal: n}
}

// Mapper turns the per-month schedules of a city into the window's days.
type Mapper struct {
	window Window
	log    zerolog.Logger
}

// NewMapper creates a Mapper for w.
func NewMapper(w Window, log zerolog.Logger) *Mapper {
	return &Mapper{window: w, log: log.With().Str("component", "observance").Logger()}
}

// Window returns the mapper's window.
func (m *Mapper) Window() Window {
	return m.window
}

// Days returns the window's days for city, ordered by date. It returns nil
// when the city is absent from wm or any of its months is missing.
func (m *Mapper) Days(city string, wm aggregate.WindowMap) []Day {
	schedules, ok := wm[city]
	if !ok {
		return nil
	}
	if len(schedules) != len(m.window.Months) {
		m.log.Warn().Str("city", city).Int("months", len(schedules)).Msg("incomplete window data, omitting city")
		return nil
	}
	return m.FromSchedules(schedules...)
}

// FromSchedules concatenates schedules, keeps the days inside the window and
// numbers them.
func (m *Mapper) FromSchedules(schedules ...prayer.MonthlySchedule) []Day {
	var all []prayer.DailySnapshot
	for _, s := range schedules {
		all = append(all, s...)
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].Date.Before(all[j].Date) })

	days := make([]Day, 0, m.window.Days)
	for _, s := range all {
		d := m.window.Annotate(s)
		if !d.HasOrdinal() {
			continue
		}
		// Drop duplicate dates if the provider repeats a day across months.
		if n := len(days); n > 0 && days[n-1].Date == d.Date {
			continue
		}
		days = append(days, d)
	}
	return days
}

// All maps every city in wm to its window days. Cities with incomplete data
// are left out.
func (m *Mapper) All(wm aggregate.WindowMap) map[string][]Day {
	out := make(map[string][]Day, len(wm))
	for city := range wm {
		if days := m.Days(city, wm); days != nil {
			out[city] = days
		}
	}
	return out
}
