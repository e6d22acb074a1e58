package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smokyabdulrahman/imsakiye/internal/live"
	"github.com/smokyabdulrahman/imsakiye/internal/observance"
	"github.com/smokyabdulrahman/imsakiye/internal/prayer"
)

var cities = []prayer.City{
	{Name: "Batman", Country: "Turkey"},
	{Name: "Istanbul", Country: "Turkey"},
}

// stubFetcher serves fixed timings for every date. Cities in fail always
// error.
type stubFetcher struct {
	fail map[string]bool
}

func timingsFor(city string) prayer.Timings {
	if city == "Batman" {
		return prayer.Timings{
			Fajr:    prayer.Clock{Hour: 4, Minute: 55},
			Maghrib: prayer.Clock{Hour: 18, Minute: 9},
		}
	}
	return prayer.Timings{
		Fajr:    prayer.Clock{Hour: 5, Minute: 12},
		Maghrib: prayer.Clock{Hour: 18, Minute: 47},
	}
}

func (f stubFetcher) Daily(_ context.Context, c prayer.City) (prayer.DailySnapshot, error) {
	if f.fail[c.Name] {
		return prayer.DailySnapshot{}, fmt.Errorf("unavailable: %s", c.Name)
	}
	return prayer.DailySnapshot{
		Date:    prayer.Date{Year: 2026, Month: time.February, Day: 19},
		Timings: timingsFor(c.Name),
	}, nil
}

func (f stubFetcher) Monthly(_ context.Context, c prayer.City, ym prayer.YearMonth) (prayer.MonthlySchedule, error) {
	if f.fail[c.Name] {
		return nil, fmt.Errorf("unavailable: %s", c.Name)
	}
	days := time.Date(ym.Year, ym.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	out := make(prayer.MonthlySchedule, days)
	for i := range out {
		out[i] = prayer.DailySnapshot{
			Date:    prayer.Date{Year: ym.Year, Month: ym.Month, Day: i + 1},
			Timings: timingsFor(c.Name),
		}
	}
	return out, nil
}

func newTestService(t *testing.T, f stubFetcher, now time.Time) *Service {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Istanbul")
	require.NoError(t, err)
	return New(f, Options{
		Cities:   cities,
		Window:   observance.DefaultWindow(),
		Location: loc,
		Now:      func() time.Time { return now },
		Logger:   zerolog.Nop(),
	})
}

func istanbul(t *testing.T, month time.Month, day, hour, min int) time.Time {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Istanbul")
	require.NoError(t, err)
	return time.Date(2026, month, day, hour, min, 0, 0, loc)
}

func TestLookupCity(t *testing.T) {
	s := newTestService(t, stubFetcher{}, time.Now())

	c, ok := s.LookupCity("istanbul")
	assert.True(t, ok)
	assert.Equal(t, "Istanbul", c.Name)

	_, ok = s.LookupCity("Izmir")
	assert.False(t, ok)
}

func TestDaily_OmitsFailures(t *testing.T) {
	s := newTestService(t, stubFetcher{fail: map[string]bool{"Batman": true}}, time.Now())

	m := s.Daily(context.Background())
	assert.Len(t, m, 1)
	assert.Contains(t, m, "Istanbul")
}

func TestObservance_FullWindow(t *testing.T) {
	s := newTestService(t, stubFetcher{}, time.Now())

	wm := s.Observance(context.Background())
	require.Len(t, wm, 2)

	days := s.ObservanceDays("Istanbul", wm)
	require.Len(t, days, observance.DefaultDays)
	assert.Equal(t, "Ramazan 1. Gün", days[0].Label())
	assert.Equal(t, prayer.Date{Year: 2026, Month: time.February, Day: 19}, days[0].Date)
	assert.Equal(t, prayer.Date{Year: 2026, Month: time.March, Day: 20}, days[len(days)-1].Date)
}

func TestCityWindow(t *testing.T) {
	s := newTestService(t, stubFetcher{}, time.Now())

	city, days, err := s.CityWindow(context.Background(), "batman")
	require.NoError(t, err)
	assert.Equal(t, "Batman", city.Name)
	assert.Len(t, days, observance.DefaultDays)

	_, _, err = s.CityWindow(context.Background(), "Izmir")
	assert.Error(t, err)
}

func TestCityWindow_FetchFailure(t *testing.T) {
	s := newTestService(t, stubFetcher{fail: map[string]bool{"Batman": true}}, time.Now())

	_, _, err := s.CityWindow(context.Background(), "Batman")
	assert.Error(t, err)
}

func TestCityMonth_AnnotatesWindowDays(t *testing.T) {
	s := newTestService(t, stubFetcher{}, istanbul(t, time.February, 25, 12, 0))

	_, days, err := s.CityMonth(context.Background(), "Istanbul")
	require.NoError(t, err)
	require.Len(t, days, 28)
	assert.False(t, days[17].HasOrdinal(), "Feb 18 is before the window")
	assert.Equal(t, 1, days[18].Ordinal)
	assert.Equal(t, 10, days[27].Ordinal)
}

func TestNextEvent(t *testing.T) {
	now := istanbul(t, time.February, 19, 12, 0)
	s := newTestService(t, stubFetcher{}, now)
	m := s.Daily(context.Background())

	tg, ok := s.NextEvent("Istanbul", m, now)
	require.True(t, ok)
	assert.Equal(t, prayer.EventSunset, tg.Kind)
	assert.Equal(t, 6*time.Hour+47*time.Minute, tg.Duration)

	_, ok = s.NextEvent("Izmir", m, now)
	assert.False(t, ok)
}

func TestActiveAlerts(t *testing.T) {
	now := istanbul(t, time.February, 19, 18, 9)
	s := newTestService(t, stubFetcher{}, now)
	m := s.Daily(context.Background())

	alerts := s.ActiveAlerts(m, now)
	require.Len(t, alerts, 1)
	assert.Equal(t, "Batman", alerts[0].City)
	assert.Equal(t, prayer.EventSunset, alerts[0].Kind)
}

func TestNow_UsesLocation(t *testing.T) {
	s := newTestService(t, stubFetcher{}, time.Date(2026, 2, 19, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, 3, s.Now().Hour())
	assert.Equal(t, "Europe/Istanbul", s.Location().String())
}

func TestNewSession_DefaultsToServiceClock(t *testing.T) {
	now := istanbul(t, time.February, 19, 12, 0)
	s := newTestService(t, stubFetcher{}, now)

	sess := s.NewSession(live.Options{Logger: zerolog.Nop()})
	sess.Apply(s.Daily(context.Background()))
	sess.Select("Istanbul")

	tg, ok := sess.TickCountdown()
	require.True(t, ok)
	assert.Equal(t, prayer.EventSunset, tg.Kind)
}
