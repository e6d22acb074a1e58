package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/imsakiye/internal/aggregate"
	"github.com/smokyabdulrahman/imsakiye/internal/api"
	"github.com/smokyabdulrahman/imsakiye/internal/cache"
	"github.com/smokyabdulrahman/imsakiye/internal/config"
	"github.com/smokyabdulrahman/imsakiye/internal/display"
	"github.com/smokyabdulrahman/imsakiye/internal/geo"
	"github.com/smokyabdulrahman/imsakiye/internal/logging"
	"github.com/smokyabdulrahman/imsakiye/internal/prayer"
	"github.com/smokyabdulrahman/imsakiye/internal/service"
	"github.com/smokyabdulrahman/imsakiye/internal/timesource"
)

// newFetcher builds the timings source. Tests replace it with a stub.
var newFetcher = func(cfg config.Config, store cache.Store, loc *time.Location, log zerolog.Logger) aggregate.Fetcher {
	return timesource.New(api.NewClient(), store, timesource.Options{
		Method:   cfg.MethodOrDefault(api.DefaultMethod),
		Location: loc,
		Logger:   log,
	})
}

// now is the wall clock. Tests pin it.
var now = time.Now

// locator resolves default_city "auto". Tests replace it.
var locator = func(ctx context.Context, cities []prayer.City) (prayer.City, error) {
	return geo.NewDetector().Resolve(ctx, cities)
}

// runtime is everything a command needs, built from the effective config.
type runtime struct {
	cfg   config.Config
	log   zerolog.Logger
	store cache.Store
	svc   *service.Service
	tf    string
	out   io.Writer
}

func newRuntime(cmd *cobra.Command) (*runtime, error) {
	return buildRuntime(cmd, true)
}

// buildRuntime logs to stderr, human-readable when pretty and as JSON lines
// otherwise.
func buildRuntime(cmd *cobra.Command, pretty bool) (*runtime, error) {
	cfg, err := effectiveConfig(cmd)
	if err != nil {
		return nil, err
	}

	log := logging.New(cmd.ErrOrStderr(), cfg.LogLevel, pretty)
	if FlagJSON {
		display.SetEnabled(false)
	}

	store, err := cache.Open(cfg.CacheOptions())
	if err != nil {
		log.Warn().Err(err).Msg("cache disabled")
		store = nil
	}

	// Validate has already checked these.
	cities, _ := cfg.CityList()
	loc, _ := cfg.Location()
	window, _ := cfg.Window()

	svc := service.New(newFetcher(cfg, store, loc, log), service.Options{
		Cities:   cities,
		Window:   window,
		Location: loc,
		Now:      now,
		Logger:   log,
	})

	return &runtime{
		cfg:   cfg,
		log:   log,
		store: store,
		svc:   svc,
		tf:    cfg.GoTimeFormat(),
		out:   cmd.OutOrStdout(),
	}, nil
}

// Close releases the cache connection, if any.
func (rt *runtime) Close() {
	if c, ok := rt.store.(io.Closer); ok {
		if err := c.Close(); err != nil {
			rt.log.Debug().Err(err).Msg("closing cache")
		}
	}
}

// city picks the command's target city: the --city flag, then default_city.
// "auto" is resolved from the caller's IP, falling back to the first city.
func (rt *runtime) city(ctx context.Context, flag string) (prayer.City, error) {
	name := flag
	if name == "" {
		name = rt.cfg.DefaultCity
	}

	cities := rt.svc.Cities()
	if name == "" || name == config.AutoCity {
		if len(cities) == 0 {
			return prayer.City{}, fmt.Errorf("no cities configured")
		}
		if name == "" {
			return cities[0], nil
		}
		c, err := locator(ctx, cities)
		if err != nil {
			rt.log.Warn().Err(err).Str("fallback", cities[0].Name).Msg("location detection failed")
			return cities[0], nil
		}
		rt.log.Debug().Str("city", c.Name).Msg("location detected")
		return c, nil
	}

	c, ok := rt.svc.LookupCity(name)
	if !ok {
		return prayer.City{}, fmt.Errorf("unknown city %q; configured: %s", name, prayer.FormatCities(cities))
	}
	return c, nil
}

func (rt *runtime) printf(format string, args ...any) {
	fmt.Fprintf(rt.out, format, args...)
}
