package cli

import (
	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/imsakiye/internal/display"
	"github.com/smokyabdulrahman/imsakiye/internal/observance"
	"github.com/smokyabdulrahman/imsakiye/internal/prayer"
)

func newWindowCmd() *cobra.Command {
	var (
		city string
		ics  bool
	)

	cmd := &cobra.Command{
		Use:   "window",
		Short: "Show the Ramadan calendar for a city",
		Long: "Display every day of the observance window for one city, numbered\n" +
			"\"Ramazan N. Gün\", with today's row highlighted. --ics writes the sahur\n" +
			"and iftar times as an iCalendar feed instead.",
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
			c, days, err := rt.svc.CityWindow(cmd.Context(), c.Name)
			if err != nil {
				return err
			}

			switch {
			case ics:
				return observance.WriteICS(rt.out, c, days, rt.svc.Location(), rt.svc.Now())
			case FlagJSON:
				return writeJSON(rt, map[string]any{"city": c.Name, "days": daysJSON(days, rt.tf)})
			}

			w := rt.svc.Window()
			rt.printf("\n  %s  %s\n\n", display.Bold(c.Name+" İmsakiyesi"),
				display.Gray(w.Start.String()+" - "+w.End().String()))
			rt.printf("%s\n", display.ScheduleTable(days, prayer.DateOf(rt.svc.Now()), rt.tf).Render())
			return nil
		},
	}

	cmd.Flags().StringVar(&city, "city", "", "City to show (default: default_city)")
	cmd.Flags().BoolVar(&ics, "ics", false, "Write an iCalendar feed to stdout")

	return cmd
}

func newMonthCmd() *cobra.Command {
	var city string

	cmd := &cobra.Command{
		Use:   "month",
		Short: "Show this month's timings for a city",
		Long:  "Display a table of prayer times for the current calendar month.",
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
			c, days, err := rt.svc.CityMonth(cmd.Context(), c.Name)
			if err != nil {
				return err
			}

			if FlagJSON {
				return writeJSON(rt, map[string]any{"city": c.Name, "days": daysJSON(days, rt.tf)})
			}

			t := rt.svc.Now()
			rt.printf("\n  %s  %s\n\n", display.Bold(c.Name), display.Gray(t.Format("01.2006")))
			rt.printf("%s\n", display.ScheduleTable(days, prayer.DateOf(t), rt.tf).Render())
			return nil
		},
	}

	cmd.Flags().StringVar(&city, "city", "", "City to show (default: default_city)")

	return cmd
}
