package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/imsakiye/internal/alert"
	"github.com/smokyabdulrahman/imsakiye/internal/countdown"
	"github.com/smokyabdulrahman/imsakiye/internal/display"
	"github.com/smokyabdulrahman/imsakiye/internal/live"
)

// alertPublisher is the subset of the MQTT publisher the command uses.
type alertPublisher interface {
	Publish(ctx context.Context, alerts []alert.Alert) error
	Close()
}

// newPublisher connects to the MQTT broker. Tests replace it.
var newPublisher = func(rt *runtime) (alertPublisher, error) {
	host, _ := os.Hostname()
	return alert.NewMQTTPublisher(rt.cfg.MQTTBroker, "imsakiye-"+host, rt.cfg.MQTTTopic, rt.log)
}

func newAlertsCmd() *cobra.Command {
	var (
		watch   bool
		publish bool
	)

	cmd := &cobra.Command{
		Use:   "alerts",
		Short: "Show cities whose sahur or iftar is this minute",
		Long: "List every configured city whose pre-dawn or sunset time matches the\n" +
			"current hour and minute. With --watch the check repeats every 20 seconds.\n" +
			"With --publish each alert is also sent to the configured MQTT broker.",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			var pub alertPublisher
			if publish {
				if rt.cfg.MQTTBroker == "" {
					return fmt.Errorf("--publish requires mqtt_broker to be configured")
				}
				pub, err = newPublisher(rt)
				if err != nil {
					return err
				}
				defer pub.Close()
			}

			if watch {
				return watchAlerts(cmd, rt, pub)
			}

			ctx := cmd.Context()
			alerts := rt.svc.ActiveAlerts(rt.svc.Daily(ctx), rt.svc.Now())
			if pub != nil {
				if err := pub.Publish(ctx, alerts); err != nil {
					return err
				}
			}
			if FlagJSON {
				return writeJSON(rt, alertsJSON(alerts))
			}
			rt.printf("%s", display.Alerts(alerts))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Keep checking until interrupted")
	cmd.Flags().BoolVar(&publish, "publish", false, "Publish alerts to mqtt_broker")

	return cmd
}

// watchAlerts prints alerts as they occur. The idle text is printed once and
// again after each alert passes.
func watchAlerts(cmd *cobra.Command, rt *runtime, pub alertPublisher) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	lastIdle := false
	sess := rt.svc.NewSession(live.Options{
		// The countdown job is unused here; tick it rarely.
		CountdownPeriod: refreshPeriod,
		RefreshPeriod:   refreshPeriod,
		Logger:          rt.log,
		OnCountdown:     func(countdown.Target, bool) {},
		OnAlerts: func(alerts []alert.Alert) {
			if len(alerts) == 0 {
				if !lastIdle {
					rt.printf("%s", display.Alerts(nil))
				}
				lastIdle = true
				return
			}
			lastIdle = false
			rt.printf("%s", display.Alerts(alerts))
			if pub != nil {
				if err := pub.Publish(ctx, alerts); err != nil {
					rt.log.Warn().Err(err).Msg("publishing alerts")
				}
			}
		},
	})
	sess.Apply(rt.svc.Daily(ctx))
	return sess.Run(ctx)
}
