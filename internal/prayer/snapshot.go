package prayer

import (
	"fmt"
	"strconv"

	"github.com/smokyabdulrahman/imsakiye/internal/api"
)

// Timings holds one day's parsed clock times. Imsak, Sunset and Midnight are
// optional markers; the rest are always present in a valid snapshot.
type Timings struct {
	Imsak    *Clock
	Fajr     Clock
	Sunrise  Clock
	Dhuhr    Clock
	Asr      Clock
	Sunset   *Clock
	Maghrib  Clock
	Isha     Clock
	Midnight *Clock
}

// HijriDate is the lunar-calendar representation attached to a snapshot.
type HijriDate struct {
	Day     int
	Month   string
	Year    string
	Weekday string
}

// Label renders the lunar date as "<day> <month>", e.g. "1 Ramaḍān".
func (h HijriDate) Label() string {
	if h.Day == 0 || h.Month == "" {
		return ""
	}
	return strconv.Itoa(h.Day) + " " + h.Month
}

// DailySnapshot is one city's timings for one calendar date.
type DailySnapshot struct {
	Timings  Timings
	Date     Date
	Weekday  string
	Hijri    HijriDate
	Timezone string
}

// MonthlySchedule is one city's snapshots for a calendar month, ascending by date.
type MonthlySchedule []DailySnapshot

// FromAPI normalizes one day of provider data into a DailySnapshot.
// Every required clock (Fajr, Sunrise, Dhuhr, Asr, Maghrib, Isha) must parse,
// Fajr through Maghrib must be strictly ascending, and the Gregorian date must
// be valid; otherwise the whole snapshot is rejected. Optional markers that
// fail to parse are left nil.
func FromAPI(d api.Data) (DailySnapshot, error) {
	var (
		s   DailySnapshot
		err error
	)

	required := []struct {
		name string
		raw  string
		dst  *Clock
	}{
		{"Fajr", d.Timings.Fajr, &s.Timings.Fajr},
		{"Sunrise", d.Timings.Sunrise, &s.Timings.Sunrise},
		{"Dhuhr", d.Timings.Dhuhr, &s.Timings.Dhuhr},
		{"Asr", d.Timings.Asr, &s.Timings.Asr},
		{"Maghrib", d.Timings.Maghrib, &s.Timings.Maghrib},
		{"Isha", d.Timings.Isha, &s.Timings.Isha},
	}
	for _, r := range required {
		if *r.dst, err = ParseClock(r.raw); err != nil {
			return DailySnapshot{}, fmt.Errorf("failed to parse time for %s: %w", r.name, err)
		}
	}

	optional := []struct {
		raw string
		dst **Clock
	}{
		{d.Timings.Imsak, &s.Timings.Imsak},
		{d.Timings.Sunset, &s.Timings.Sunset},
		{d.Timings.Midnight, &s.Timings.Midnight},
	}
	for _, o := range optional {
		if o.raw == "" {
			continue
		}
		c, err := ParseClock(o.raw)
		if err != nil {
			continue
		}
		*o.dst = &c
	}

	// Isha may legitimately fall after midnight at high latitudes, so only the
	// daytime sequence is checked.
	seq := []Clock{s.Timings.Fajr, s.Timings.Sunrise, s.Timings.Dhuhr, s.Timings.Asr, s.Timings.Maghrib}
	for i := 1; i < len(seq); i++ {
		if !seq[i-1].Before(seq[i]) {
			return DailySnapshot{}, fmt.Errorf("timings out of order: %s is not before %s", seq[i-1], seq[i])
		}
	}

	if s.Date, err = ParseDate(d.Date.Gregorian.Date); err != nil {
		return DailySnapshot{}, err
	}
	s.Weekday = d.Date.Gregorian.Weekday.En

	s.Hijri = HijriDate{
		Month:   d.Date.Hijri.Month.En,
		Year:    d.Date.Hijri.Year,
		Weekday: d.Date.Hijri.Weekday.En,
	}
	if day, err := strconv.Atoi(d.Date.Hijri.Day); err == nil {
		s.Hijri.Day = day
	}
	s.Timezone = d.Meta.Timezone

	return s, nil
}

// ScheduleFromAPI normalizes a month of provider data. A single day that
// FromAPI rejects fails the whole month.
func ScheduleFromAPI(days []api.Data) (MonthlySchedule, error) {
	out := make(MonthlySchedule, 0, len(days))
	for i, d := range days {
		s, err := FromAPI(d)
		if err != nil {
			return nil, fmt.Errorf("day %d: %w", i+1, err)
		}
		out = append(out, s)
	}
	return out, nil
}

// Day returns the snapshot for d, if the schedule contains it.
func (m MonthlySchedule) Day(d Date) (DailySnapshot, bool) {
	for _, s := range m {
		if s.Date == d {
			return s, true
		}
	}
	return DailySnapshot{}, false
}
