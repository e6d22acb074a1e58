package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/smokyabdulrahman/imsakiye/internal/config"
	"github.com/smokyabdulrahman/imsakiye/internal/prayer"
)

// Global flags shared across all subcommands.
var (
	FlagCities     string
	FlagMethod     int
	FlagJSON       bool
	FlagCacheDir   string
	FlagCache      string
	FlagTimeFormat string
	FlagLogLevel   string
)

// loadedConfig holds the config file loaded during PersistentPreRunE.
// Available to all subcommand handlers.
var loadedConfig *config.Config

// NewRootCmd creates the root command for the imsakiye CLI.
// The version parameter is set by the calling binary via ldflags.
func NewRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "imsakiye",
		Short: "Ramadan sahur and iftar times for several cities",
		Long: "A CLI for Ramadan fasting times powered by the Al Adhan API.\n" +
			"Shows daily timings, the observance calendar, live countdowns to the\n" +
			"next sahur or iftar, and alerts when a city reaches one.",
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config.LoadDotEnv()
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			loadedConfig = cfg
			return nil
		},
		// Default action: show today's timings for every city.
		RunE:          runToday,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&FlagCities, "cities", "", `Override the city list ("Name:Country,Name,...")`)
	pf.IntVar(&FlagMethod, "method", -1, "Override calculation method (0-23)")
	pf.BoolVar(&FlagJSON, "json", false, "Output as JSON (where supported)")
	pf.StringVar(&FlagCacheDir, "cache-dir", "", "Cache directory for the file backend (default: ~/.cache/imsakiye/)")
	pf.StringVar(&FlagCache, "cache", "", "Cache backend: memory, file, redis or none")
	pf.StringVar(&FlagTimeFormat, "time-format", "", "Time format: 12h or 24h (overrides config)")
	pf.StringVar(&FlagLogLevel, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(newCountdownCmd())
	rootCmd.AddCommand(newAlertsCmd())
	rootCmd.AddCommand(newWindowCmd())
	rootCmd.AddCommand(newMonthCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newMethodsCmd())

	return rootCmd
}

// effectiveConfig returns the merged configuration, applying the priority:
// CLI flags > environment > config file > defaults. It uses cobra's Changed()
// to detect whether a flag was explicitly set.
func effectiveConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Resolve(loadedConfig)
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	root := cmd.Root().PersistentFlags()

	overrides := []struct {
		flag, key, value string
	}{
		{"cities", "cities", FlagCities},
		{"method", "method", fmt.Sprint(FlagMethod)},
		{"cache-dir", "cache_dir", FlagCacheDir},
		{"cache", "cache_backend", FlagCache},
		{"time-format", "time_format", FlagTimeFormat},
		{"log-level", "log_level", FlagLogLevel},
	}
	for _, o := range overrides {
		if !flagWasSet(flags, root, o.flag) {
			continue
		}
		if err := cfg.Set(o.key, o.value); err != nil {
			return config.Config{}, fmt.Errorf("--%s: %w", o.flag, err)
		}
	}

	// A city list given on the command line may not contain the saved default.
	if flagWasSet(flags, root, "cities") && cfg.DefaultCity != config.AutoCity {
		if cities, err := cfg.CityList(); err == nil && len(cities) > 0 {
			if _, ok := prayer.FindCity(cities, cfg.DefaultCity); !ok {
				cfg.DefaultCity = cities[0].Name
			}
		}
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// flagWasSet checks if a flag was explicitly set on either the local or persistent flag set.
func flagWasSet(local, persistent *pflag.FlagSet, name string) bool {
	if f := local.Lookup(name); f != nil && f.Changed {
		return true
	}
	if f := persistent.Lookup(name); f != nil && f.Changed {
		return true
	}
	return false
}
