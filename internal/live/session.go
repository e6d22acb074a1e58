// Package live runs the periodic countdown and alert computations for one
// selected city against the latest daily snapshots.
package live

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/smokyabdulrahman/imsakiye/internal/aggregate"
	"github.com/smokyabdulrahman/imsakiye/internal/alert"
	"github.com/smokyabdulrahman/imsakiye/internal/countdown"
)

// Default tick periods.
const (
	DefaultCountdownPeriod = time.Second
	DefaultAlertPeriod     = 20 * time.Second
)

// Options configures a Session. Periods below one second are rounded up to
// one second by the scheduler.
type Options struct {
	CountdownPeriod time.Duration
	AlertPeriod     time.Duration

	// RefreshPeriod > 0 together with Refresh re-fetches snapshots in the
	// background and applies them.
	RefreshPeriod time.Duration
	Refresh       func(ctx context.Context) aggregate.DailyMap

	Now    func() time.Time
	Logger zerolog.Logger

	// OnCountdown receives every countdown tick; ok is false when the
	// selected city has no snapshot.
	OnCountdown func(t countdown.Target, ok bool)
	// OnAlerts receives every alert tick, including empty ones.
	OnAlerts func(alerts []alert.Alert)
}

// Session owns one scheduler with independent countdown and alert jobs.
// Snapshots and the selected city are replaced atomically; jobs only read.
type Session struct {
	engine   *countdown.Engine
	detector *alert.Detector
	opts     Options
	log      zerolog.Logger

	snapshots atomic.Pointer[aggregate.DailyMap]
	selected  atomic.Pointer[string]
	stopped   atomic.Bool

	cron   *cron.Cron
	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	started bool
}

// NewSession creates a stopped Session.
func NewSession(engine *countdown.Engine, detector *alert.Detector, opts Options) *Session {
	if opts.CountdownPeriod <= 0 {
		opts.CountdownPeriod = DefaultCountdownPeriod
	}
	if opts.AlertPeriod <= 0 {
		opts.AlertPeriod = DefaultAlertPeriod
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	s := &Session{
		engine:   engine,
		detector: detector,
		opts:     opts,
		log:      opts.Logger.With().Str("component", "live").Logger(),
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())

	cronLog := cron.PrintfLogger(&s.log)
	s.cron = cron.New(
		cron.WithLogger(cronLog),
		cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
	)

	empty := aggregate.DailyMap{}
	s.snapshots.Store(&empty)
	none := ""
	s.selected.Store(&none)
	return s
}

// Select makes city the countdown target. Last writer wins.
func (s *Session) Select(city string) {
	s.selected.Store(&city)
}

// Selected returns the current countdown city.
func (s *Session) Selected() string {
	return *s.selected.Load()
}

// Apply replaces the snapshot map. It returns false, leaving state untouched,
// once the session has been stopped.
func (s *Session) Apply(m aggregate.DailyMap) bool {
	if s.stopped.Load() {
		return false
	}
	if m == nil {
		m = aggregate.DailyMap{}
	}
	s.snapshots.Store(&m)
	return true
}

// Snapshots returns the current snapshot map. Callers must not modify it.
func (s *Session) Snapshots() aggregate.DailyMap {
	return *s.snapshots.Load()
}

// TickCountdown computes the countdown for the selected city and hands it to
// OnCountdown.
func (s *Session) TickCountdown() (countdown.Target, bool) {
	if s.stopped.Load() {
		return countdown.Target{}, false
	}
	t, ok := s.engine.Next(s.Selected(), s.Snapshots(), s.opts.Now())
	if s.opts.OnCountdown != nil {
		s.opts.OnCountdown(t, ok)
	}
	return t, ok
}

// TickAlerts computes the active alerts and hands them to OnAlerts.
func (s *Session) TickAlerts() []alert.Alert {
	if s.stopped.Load() {
		return nil
	}
	alerts := s.detector.Active(s.Snapshots(), s.opts.Now())
	if s.opts.OnAlerts != nil {
		s.opts.OnAlerts(alerts)
	}
	return alerts
}

func (s *Session) refresh() {
	m := s.opts.Refresh(s.ctx)
	if !s.Apply(m) {
		s.log.Debug().Msg("discarding refresh result after stop")
		return
	}
	s.log.Debug().Int("cities", len(m)).Msg("snapshots refreshed")
}

// Start runs both ticks once and schedules them. It does not block.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped.Load() {
		return errors.New("session already stopped")
	}
	if s.started {
		return nil
	}

	s.cron.Schedule(cron.Every(s.opts.CountdownPeriod), cron.FuncJob(func() { s.TickCountdown() }))
	s.cron.Schedule(cron.Every(s.opts.AlertPeriod), cron.FuncJob(func() { s.TickAlerts() }))
	if s.opts.RefreshPeriod > 0 && s.opts.Refresh != nil {
		s.cron.Schedule(cron.Every(s.opts.RefreshPeriod), cron.FuncJob(s.refresh))
	}

	s.TickCountdown()
	s.TickAlerts()

	s.cron.Start()
	s.started = true
	s.log.Debug().
		Dur("countdown_period", s.opts.CountdownPeriod).
		Dur("alert_period", s.opts.AlertPeriod).
		Msg("live session started")
	return nil
}

// Stop halts both jobs and waits for any running tick to return. After Stop
// no callback fires and Apply is a no-op. Stop is idempotent.
// It must not be called from inside a callback.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped.Swap(true) {
		return
	}
	s.cancel()
	<-s.cron.Stop().Done()
	s.log.Debug().Msg("live session stopped")
}

// Run starts the session and blocks until ctx is done, then stops it.
func (s *Session) Run(ctx context.Context) error {
	if err := s.Start(); err != nil {
		return err
	}
	<-ctx.Done()
	s.Stop()
	return nil
}
