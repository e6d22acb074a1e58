// Package service exposes the aggregation, countdown, alert and observance
// operations behind one facade shared by the CLI and the HTTP server.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/smokyabdulrahman/imsakiye/internal/aggregate"
	"github.com/smokyabdulrahman/imsakiye/internal/alert"
	"github.com/smokyabdulrahman/imsakiye/internal/countdown"
	"github.com/smokyabdulrahman/imsakiye/internal/live"
	"github.com/smokyabdulrahman/imsakiye/internal/observance"
	"github.com/smokyabdulrahman/imsakiye/internal/prayer"
)

// Options configures a Service. Cities and Window are read-only after New.
type Options struct {
	Cities      []prayer.City
	Window      observance.Window
	Location    *time.Location   // defaults to time.Local
	Now         func() time.Time // defaults to time.Now
	Concurrency int
	Logger      zerolog.Logger
}

// Service is the consumption interface over the configured cities.
type Service struct {
	agg      *aggregate.Aggregator
	mapper   *observance.Mapper
	engine   *countdown.Engine
	detector *alert.Detector
	cities   []prayer.City
	window   observance.Window
	loc      *time.Location
	now      func() time.Time
	log      zerolog.Logger
}

// New creates a Service that fetches through f.
func New(f aggregate.Fetcher, opts Options) *Service {
	s := &Service{
		cities: append([]prayer.City(nil), opts.Cities...),
		window: opts.Window,
		loc:    opts.Location,
		now:    opts.Now,
		log:    opts.Logger.With().Str("component", "service").Logger(),
	}
	if s.loc == nil {
		s.loc = time.Local
	}
	if s.now == nil {
		s.now = time.Now
	}

	s.agg = aggregate.New(f, s.cities,
		aggregate.WithLogger(opts.Logger),
		aggregate.WithClock(s.Now),
		aggregate.WithConcurrency(opts.Concurrency),
	)
	s.mapper = observance.NewMapper(opts.Window, opts.Logger)
	s.engine = countdown.NewEngine(opts.Window.Start)
	s.detector = alert.NewDetector(s.cities)
	return s
}

// Now returns the current instant in the service's location.
func (s *Service) Now() time.Time {
	return s.now().In(s.loc)
}

// Location returns the zone schedules are interpreted in.
func (s *Service) Location() *time.Location {
	return s.loc
}

// Cities returns the configured cities in display order.
func (s *Service) Cities() []prayer.City {
	return append([]prayer.City(nil), s.cities...)
}

// Window returns the observance window.
func (s *Service) Window() observance.Window {
	return s.window
}

// LookupCity finds a configured city by name, case-insensitively.
func (s *Service) LookupCity(name string) (prayer.City, bool) {
	return prayer.FindCity(s.cities, name)
}

// Daily aggregates today's snapshot for every city.
func (s *Service) Daily(ctx context.Context) aggregate.DailyMap {
	return s.agg.Daily(ctx)
}

// Monthly aggregates the current month's schedule for every city.
func (s *Service) Monthly(ctx context.Context) aggregate.MonthlyMap {
	return s.agg.Monthly(ctx)
}

// Observance aggregates every window month for every city. A city is only
// present if all of its months resolved.
func (s *Service) Observance(ctx context.Context) aggregate.WindowMap {
	return s.agg.Months(ctx, s.window.Months)
}

// ObservanceDays returns the window days for city from wm.
func (s *Service) ObservanceDays(city string, wm aggregate.WindowMap) []observance.Day {
	return s.mapper.Days(city, wm)
}

// CityWindow fetches and maps the window for a single city.
func (s *Service) CityWindow(ctx context.Context, name string) (prayer.City, []observance.Day, error) {
	city, ok := s.LookupCity(name)
	if !ok {
		return prayer.City{}, nil, fmt.Errorf("unknown city %q", name)
	}
	wm := s.agg.Only(city.Name).Months(ctx, s.window.Months)
	days := s.mapper.Days(city.Name, wm)
	if len(days) == 0 {
		return city, nil, fmt.Errorf("no window data for %s", city.Name)
	}
	return city, days, nil
}

// CityMonth fetches the current month for a single city.
func (s *Service) CityMonth(ctx context.Context, name string) (prayer.City, []observance.Day, error) {
	city, ok := s.LookupCity(name)
	if !ok {
		return prayer.City{}, nil, fmt.Errorf("unknown city %q", name)
	}
	m := s.agg.Only(city.Name).Monthly(ctx)
	sched, ok := m[city.Name]
	if !ok {
		return city, nil, fmt.Errorf("no monthly data for %s", city.Name)
	}
	return city, s.Annotate(sched...), nil
}

// Annotate numbers snapshots against the window; days outside it keep a
// zero ordinal.
func (s *Service) Annotate(snaps ...prayer.DailySnapshot) []observance.Day {
	out := make([]observance.Day, len(snaps))
	for i, snap := range snaps {
		out[i] = s.window.Annotate(snap)
	}
	return out
}

// NextEvent returns the countdown target for city, or false when m has no
// snapshot for it.
func (s *Service) NextEvent(city string, m aggregate.DailyMap, now time.Time) (countdown.Target, bool) {
	return s.engine.Next(city, m, now)
}

// ActiveAlerts returns the cities at a fasting boundary this minute.
func (s *Service) ActiveAlerts(m aggregate.DailyMap, now time.Time) []alert.Alert {
	return s.detector.Active(m, now)
}

// NewSession creates a live session over this service's engine and
// detector. Unset Now and Refresh default to the service's own.
func (s *Service) NewSession(opts live.Options) *live.Session {
	if opts.Now == nil {
		opts.Now = s.Now
	}
	if opts.Refresh == nil {
		opts.Refresh = s.Daily
	}
	return live.NewSession(s.engine, s.detector, opts)
}
