package cli

import (
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/imsakiye/internal/server"
)

func newServeCmd() *cobra.Command {
	var (
		addr    string
		origins string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve timings, countdowns and alerts over HTTP",
		Long: "Start the JSON API. Routes:\n" +
			"  GET /api/cities\n" +
			"  GET /api/daily\n" +
			"  GET /api/monthly\n" +
			"  GET /api/window\n" +
			"  GET /api/window/:city[?format=ics]\n" +
			"  GET /api/countdown/:city\n" +
			"  GET /api/alerts\n" +
			"  GET /api/live/:city   (Server-Sent Events)",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := buildRuntime(cmd, false)
			if err != nil {
				return err
			}
			defer rt.Close()

			if addr == "" {
				addr = rt.cfg.HTTPAddr
			}
			var allow []string
			for _, o := range strings.Split(origins, ",") {
				if o = strings.TrimSpace(o); o != "" {
					allow = append(allow, o)
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv := server.New(rt.svc, server.Options{
				Addr:          addr,
				TimeFormat:    rt.tf,
				AllowOrigins:  allow,
				RefreshPeriod: refreshPeriod,
				Logger:        rt.log,
			})
			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default: http_addr)")
	cmd.Flags().StringVar(&origins, "cors-origins", "", "Comma-separated allowed origins (default: any)")

	return cmd
}
