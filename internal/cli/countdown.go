package cli

import (
	"fmt"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/imsakiye/internal/alert"
	"github.com/smokyabdulrahman/imsakiye/internal/countdown"
	"github.com/smokyabdulrahman/imsakiye/internal/display"
	"github.com/smokyabdulrahman/imsakiye/internal/live"
	"github.com/smokyabdulrahman/imsakiye/internal/prayer"
)

// refreshPeriod re-fetches the daily snapshots of a watching session so it
// rolls over to the next day.
const refreshPeriod = time.Hour

func newCountdownCmd() *cobra.Command {
	var (
		city   string
		watch  bool
		format string
	)

	cmd := &cobra.Command{
		Use:   "countdown",
		Short: "Time left until the next sahur or iftar",
		Long: "Show the time remaining until the next pre-dawn (sahur) or sunset (iftar)\n" +
			"boundary for one city. With --watch the countdown ticks every second and\n" +
			"alerts for every configured city are checked every 20 seconds.",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			c, err := rt.city(cmd.Context(), city)
			if err != nil {
				return err
			}
			if watch {
				return watchCountdown(cmd, rt, c, format)
			}

			m := rt.svc.Daily(cmd.Context())
			t, ok := rt.svc.NextEvent(c.Name, m, rt.svc.Now())
			if FlagJSON {
				return writeJSON(rt, countdownJSON(c.Name, t, ok, rt.tf))
			}
			if !ok {
				return fmt.Errorf("no timings available for %s", c.Name)
			}
			rt.printf("%s\n", renderTarget(t, format, rt.tf))
			return nil
		},
	}

	cmd.Flags().StringVar(&city, "city", "", "City to count down for (default: default_city)")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Keep ticking until interrupted")
	cmd.Flags().StringVarP(&format, "format", "f", countdown.FormatFull,
		fmt.Sprintf("Display format: %s, or a Go template (e.g. '{{.Label}} {{.Clock}}'). Template fields: .City, .Label, .Time, .Remaining, .Clock, .Hours, .Minutes, .Seconds",
			strings.Join(countdown.FormatModes, ", ")))

	return cmd
}

func renderTarget(t countdown.Target, format, tf string) string {
	if format != countdown.FormatFull {
		return countdown.FormatOutput(t, format, tf)
	}
	label := display.Sahur
	if t.Kind == prayer.EventSunset {
		label = display.Iftar
	}
	return fmt.Sprintf("%s\n%s %s  %s",
		display.Bold(t.Header()),
		label(t.Label),
		display.Gray(t.Clock.Format(tf)),
		display.Accent(t.Remaining.String()),
	)
}

// watchCountdown runs a live session for city until SIGINT or SIGTERM.
func watchCountdown(cmd *cobra.Command, rt *runtime, city prayer.City, format string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var mu sync.Mutex
	sess := rt.svc.NewSession(live.Options{
		RefreshPeriod: refreshPeriod,
		Logger:        rt.log,
		OnCountdown: func(t countdown.Target, ok bool) {
			mu.Lock()
			defer mu.Unlock()
			if !ok {
				rt.printf("\r\033[K%s", display.Gray(city.Name+" için vakit bilgisi bekleniyor"))
				return
			}
			line := strings.ReplaceAll(renderTarget(t, format, rt.tf), "\n", "  ")
			rt.printf("\r\033[K%s", line)
		},
		OnAlerts: func(alerts []alert.Alert) {
			if len(alerts) == 0 {
				return
			}
			mu.Lock()
			defer mu.Unlock()
			rt.printf("\r\033[K%s", display.Alerts(alerts))
		},
	})
	sess.Apply(rt.svc.Daily(ctx))
	sess.Select(city.Name)

	err := sess.Run(ctx)
	mu.Lock()
	rt.printf("\n")
	mu.Unlock()
	return err
}
