// Package aggregate fans TimeSource queries out over the configured cities
// concurrently and merges the successes into maps keyed by city name.
package aggregate

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/smokyabdulrahman/imsakiye/internal/prayer"
)

// Fetcher answers one query for one city. *timesource.Source implements it.
type Fetcher interface {
	Daily(ctx context.Context, city prayer.City) (prayer.DailySnapshot, error)
	Monthly(ctx context.Context, city prayer.City, ym prayer.YearMonth) (prayer.MonthlySchedule, error)
}

// DailyMap holds today's snapshot for every city that resolved.
type DailyMap map[string]prayer.DailySnapshot

// MonthlyMap holds one month's schedule for every city that resolved.
type MonthlyMap map[string]prayer.MonthlySchedule

// WindowMap holds, per city, one schedule for each requested month in the
// order requested. A city appears only if every month resolved.
type WindowMap map[string][]prayer.MonthlySchedule

// Aggregator issues one query per city concurrently and joins on all of them.
type Aggregator struct {
	fetcher Fetcher
	cities  []prayer.City
	limit   int
	now     func() time.Time
	log     zerolog.Logger
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithLogger sets the logger used for per-city failures.
func WithLogger(l zerolog.Logger) Option {
	return func(a *Aggregator) { a.log = l.With().Str("component", "aggregate").Logger() }
}

// WithClock sets the time source used to pick the current month. The returned
// instants should already be in the schedule's location.
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) { a.now = now }
}

// WithConcurrency caps the number of in-flight queries. Zero means unlimited.
func WithConcurrency(n int) Option {
	return func(a *Aggregator) { a.limit = n }
}

// New creates an Aggregator over cities. The slice is copied.
func New(f Fetcher, cities []prayer.City, opts ...Option) *Aggregator {
	a := &Aggregator{
		fetcher: f,
		cities:  append([]prayer.City(nil), cities...),
		now:     time.Now,
		log:     zerolog.Nop(),
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Cities returns the configured cities in display order.
func (a *Aggregator) Cities() []prayer.City {
	return append([]prayer.City(nil), a.cities...)
}

// Only returns an Aggregator restricted to the named cities, matched
// case-insensitively. Unknown names are ignored.
func (a *Aggregator) Only(names ...string) *Aggregator {
	sub := *a
	sub.cities = nil
	for _, n := range names {
		if c, ok := prayer.FindCity(a.cities, n); ok {
			sub.cities = append(sub.cities, c)
		}
	}
	return &sub
}

// Daily returns today's snapshot for every city whose query succeeded.
func (a *Aggregator) Daily(ctx context.Context) DailyMap {
	results := collect(ctx, a, func(ctx context.Context, c prayer.City) (prayer.DailySnapshot, error) {
		return a.fetcher.Daily(ctx, c)
	})
	return Merge(results)
}

// Monthly returns the current month's schedule for every city whose query
// succeeded.
func (a *Aggregator) Monthly(ctx context.Context) MonthlyMap {
	ym := prayer.MonthOf(a.now())
	results := collect(ctx, a, func(ctx context.Context, c prayer.City) (prayer.MonthlySchedule, error) {
		return a.fetcher.Monthly(ctx, c, ym)
	})
	return Merge(results)
}

// Months fetches every month in months for each city. Cities run
// concurrently; the months of one city are fetched in order and the city is
// dropped as soon as any of them fails.
func (a *Aggregator) Months(ctx context.Context, months []prayer.YearMonth) WindowMap {
	results := collect(ctx, a, func(ctx context.Context, c prayer.City) ([]prayer.MonthlySchedule, error) {
		out := make([]prayer.MonthlySchedule, 0, len(months))
		for _, ym := range months {
			s, err := a.fetcher.Monthly(ctx, c, ym)
			if err != nil {
				return nil, err
			}
			out = append(out, s)
		}
		return out, nil
	})
	return Merge(results)
}

// collect runs fetch for every city and waits for all of them. Each result
// lands in the slot of its city, so completion order never shows.
func collect[T any](ctx context.Context, a *Aggregator, fetch func(context.Context, prayer.City) (T, error)) []Result[T] {
	results := make([]Result[T], len(a.cities))

	var g errgroup.Group
	if a.limit > 0 {
		g.SetLimit(a.limit)
	}
	for i, c := range a.cities {
		g.Go(func() error {
			v, err := fetch(ctx, c)
			if err != nil {
				a.log.Warn().Err(err).Str("city", c.Name).Str("country", c.Country).Msg("omitting city from this cycle")
				results[i] = Failed[T](c, err)
				return nil
			}
			results[i] = Ok(c, v)
			return nil
		})
	}
	_ = g.Wait() // workers never return an error

	return results
}
