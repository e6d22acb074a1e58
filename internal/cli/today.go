package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/imsakiye/internal/aggregate"
	"github.com/smokyabdulrahman/imsakiye/internal/display"
	"github.com/smokyabdulrahman/imsakiye/internal/prayer"
)

func runToday(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx := cmd.Context()
	m := rt.svc.Daily(ctx)
	if len(m) == 0 {
		return fmt.Errorf("no timings could be fetched for any city")
	}
	t := rt.svc.Now()

	if FlagJSON {
		return printTodayJSON(rt, m, t)
	}

	rt.printf("\n  %s  %s\n\n", display.Bold("İmsakiye"), display.Gray(t.Format("02.01.2006 15:04")))
	for _, city := range rt.svc.Cities() {
		snap, ok := m[city.Name]
		if !ok {
			rt.printf("  %s  %s\n\n", display.Bold(city.Name), display.Red("veri alınamadı"))
			continue
		}
		day := rt.svc.Annotate(snap)[0]
		rt.printf("%s", display.CityCard(city.Name, day, rt.tf))

		if tg, ok := rt.svc.NextEvent(city.Name, m, t); ok {
			rt.printf("    %s\n", display.Accent(fmt.Sprintf("<- %s in %s", tg.Label, prayer.FormatRemaining(tg.Duration))))
		}
		rt.printf("\n")
	}
	return nil
}

// todayJSON is one city in the root command's JSON output.
type todayJSON struct {
	City    string            `json:"city"`
	Date    string            `json:"date"`
	Label   string            `json:"label"`
	Timings map[string]string `json:"timings"`
	Next    *todayJSONNext    `json:"next,omitempty"`
}

type todayJSONNext struct {
	Kind      string `json:"kind"`
	Label     string `json:"label"`
	Time      string `json:"time"`
	Remaining string `json:"remaining"`
}

func printTodayJSON(rt *runtime, m aggregate.DailyMap, t time.Time) error {
	out := make([]todayJSON, 0, len(m))
	for _, city := range rt.svc.Cities() {
		snap, ok := m[city.Name]
		if !ok {
			continue
		}
		day := rt.svc.Annotate(snap)[0]
		tm := snap.Timings
		entry := todayJSON{
			City:  city.Name,
			Date:  snap.Date.ISO(),
			Label: day.Label(),
			Timings: map[string]string{
				"fajr":    tm.Fajr.Format(rt.tf),
				"sunrise": tm.Sunrise.Format(rt.tf),
				"dhuhr":   tm.Dhuhr.Format(rt.tf),
				"asr":     tm.Asr.Format(rt.tf),
				"maghrib": tm.Maghrib.Format(rt.tf),
				"isha":    tm.Isha.Format(rt.tf),
			},
		}
		if tg, ok := rt.svc.NextEvent(city.Name, m, t); ok {
			entry.Next = &todayJSONNext{
				Kind:      tg.Kind.String(),
				Label:     tg.Label,
				Time:      tg.Clock.Format(rt.tf),
				Remaining: prayer.FormatRemaining(tg.Duration),
			}
		}
		out = append(out, entry)
	}
	return writeJSON(rt, out)
}

func writeJSON(rt *runtime, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	rt.printf("%s\n", data)
	return nil
}
