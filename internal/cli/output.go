package cli

import (
	"github.com/smokyabdulrahman/imsakiye/internal/alert"
	"github.com/smokyabdulrahman/imsakiye/internal/countdown"
	"github.com/smokyabdulrahman/imsakiye/internal/observance"
)

type targetOut struct {
	Kind      string `json:"kind"`
	Label     string `json:"label"`
	Time      string `json:"time"`
	Date      string `json:"date"`
	Remaining string `json:"remaining"`
	Seconds   int64  `json:"seconds"`
	First     bool   `json:"first,omitempty"`
}

type countdownOut struct {
	City   string     `json:"city"`
	Target *targetOut `json:"target"`
}

func countdownJSON(city string, t countdown.Target, ok bool, tf string) countdownOut {
	out := countdownOut{City: city}
	if ok {
		out.Target = &targetOut{
			Kind:      t.Kind.String(),
			Label:     t.Label,
			Time:      t.Clock.Format(tf),
			Date:      t.Date.ISO(),
			Remaining: t.Remaining.String(),
			Seconds:   int64(t.Duration.Seconds()),
			First:     t.First,
		}
	}
	return out
}

type alertOut struct {
	City    string `json:"city"`
	Kind    string `json:"kind"`
	Time    string `json:"time"`
	Message string `json:"message"`
}

func alertsJSON(alerts []alert.Alert) []alertOut {
	out := make([]alertOut, len(alerts))
	for i, a := range alerts {
		out[i] = alertOut{City: a.City, Kind: a.Kind.String(), Time: a.Clock.String(), Message: a.Message()}
	}
	return out
}

type dayOut struct {
	Date    string            `json:"date"`
	Label   string            `json:"label"`
	Ordinal int               `json:"ordinal,omitempty"`
	Timings map[string]string `json:"timings"`
}

func daysJSON(days []observance.Day, tf string) []dayOut {
	out := make([]dayOut, len(days))
	for i, d := range days {
		tm := d.Timings
		out[i] = dayOut{
			Date:    d.Date.ISO(),
			Label:   d.Label(),
			Ordinal: d.Ordinal,
			Timings: map[string]string{
				"fajr":    tm.Fajr.Format(tf),
				"sunrise": tm.Sunrise.Format(tf),
				"dhuhr":   tm.Dhuhr.Format(tf),
				"asr":     tm.Asr.Format(tf),
				"maghrib": tm.Maghrib.Format(tf),
				"isha":    tm.Isha.Format(tf),
			},
		}
	}
	return out
}
