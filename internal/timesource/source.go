// Package timesource fetches one city's daily or monthly timings from the
// provider, serving repeated queries from a time-bounded cache.
package timesource

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/smokyabdulrahman/imsakiye/internal/api"
	"github.com/smokyabdulrahman/imsakiye/internal/cache"
	"github.com/smokyabdulrahman/imsakiye/internal/prayer"
)

const (
	// DailyTTL is how long a single-day answer stays fresh.
	DailyTTL = time.Hour
	// MonthlyTTL is how long a month answer stays fresh.
	MonthlyTTL = 24 * time.Hour
)

// Provider is the subset of the API client the Source needs.
type Provider interface {
	TimingsByCity(ctx context.Context, date time.Time, city, country string, method int) (*api.Response, error)
	CalendarByCity(ctx context.Context, year int, month time.Month, city, country string, method int) (*api.CalendarResponse, error)
}

// Options configures a Source.
type Options struct {
	Method   int
	Location *time.Location   // "today" is evaluated here; defaults to time.Local
	Now      func() time.Time // defaults to time.Now
	Logger   zerolog.Logger
}

// Source is the TimeSource client: provider + cache + normalization.
type Source struct {
	provider Provider
	store    cache.Store // nil disables caching
	method   int
	loc      *time.Location
	now      func() time.Time
	log      zerolog.Logger
}

// New creates a Source. store may be nil.
func New(p Provider, store cache.Store, opts Options) *Source {
	s := &Source{
		provider: p,
		store:    store,
		method:   opts.Method,
		loc:      opts.Location,
		now:      opts.Now,
		log:      opts.Logger.With().Str("component", "timesource").Logger(),
	}
	if s.loc == nil {
		s.loc = time.Local
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Today returns the current civil date in the source's location.
func (s *Source) Today() prayer.Date {
	return prayer.DateOf(s.now().In(s.loc))
}

// Daily returns today's snapshot for city.
func (s *Source) Daily(ctx context.Context, city prayer.City) (prayer.DailySnapshot, error) {
	date := s.Today()
	key := cache.Key("daily", city.Name, city.Country, s.method, date.String())

	var data api.Data
	if s.load(ctx, key, &data) {
		snap, err := prayer.FromAPI(data)
		if err == nil {
			return snap, nil
		}
		s.log.Debug().Err(err).Str("key", key).Msg("discarding unusable cache entry")
	}

	resp, err := s.provider.TimingsByCity(ctx, date.Time(s.loc), city.Name, city.Country, s.method)
	if err != nil {
		return prayer.DailySnapshot{}, fmt.Errorf("daily timings for %s: %w", city, err)
	}

	snap, err := prayer.FromAPI(resp.Data)
	if err != nil {
		return prayer.DailySnapshot{}, fmt.Errorf("daily timings for %s: %w", city, err)
	}

	s.save(ctx, key, resp.Data, DailyTTL)
	return snap, nil
}

// Monthly returns the schedule for city over the calendar month ym.
func (s *Source) Monthly(ctx context.Context, city prayer.City, ym prayer.YearMonth) (prayer.MonthlySchedule, error) {
	key := cache.Key("monthly", city.Name, city.Country, s.method, ym.String())

	var days []api.Data
	if s.load(ctx, key, &days) {
		sched, err := prayer.ScheduleFromAPI(days)
		if err == nil {
			return sched, nil
		}
		s.log.Debug().Err(err).Str("key", key).Msg("discarding unusable cache entry")
	}

	resp, err := s.provider.CalendarByCity(ctx, ym.Year, ym.Month, city.Name, city.Country, s.method)
	if err != nil {
		return nil, fmt.Errorf("%s timings for %s: %w", ym, city, err)
	}

	sched, err := prayer.ScheduleFromAPI(resp.Data)
	if err != nil {
		return nil, fmt.Errorf("%s timings for %s: %w", ym, city, err)
	}

	s.save(ctx, key, resp.Data, MonthlyTTL)
	return sched, nil
}

func (s *Source) load(ctx context.Context, key string, out any) bool {
	if s.store == nil {
		return false
	}
	b, ok := s.store.Get(ctx, key)
	if !ok {
		return false
	}
	if err := json.Unmarshal(b, out); err != nil {
		s.log.Debug().Err(err).Str("key", key).Msg("corrupt cache entry")
		return false
	}
	return true
}

func (s *Source) save(ctx context.Context, key string, v any, ttl time.Duration) {
	if s.store == nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		s.log.Debug().Err(err).Msg("failed to encode cache entry")
		return
	}
	if err := s.store.Set(ctx, key, b, ttl); err != nil {
		s.log.Debug().Err(err).Str("key", key).Msg("cache write failed")
	}
}
