package server

import (
	"time"

	"github.com/smokyabdulrahman/imsakiye/internal/alert"
	"github.com/smokyabdulrahman/imsakiye/internal/countdown"
	"github.com/smokyabdulrahman/imsakiye/internal/observance"
	"github.com/smokyabdulrahman/imsakiye/internal/prayer"
)

type cityJSON struct {
	Name    string `json:"name"`
	Country string `json:"country"`
}

type timingsJSON struct {
	Imsak   string `json:"imsak,omitempty"`
	Fajr    string `json:"fajr"`
	Sunrise string `json:"sunrise"`
	Dhuhr   string `json:"dhuhr"`
	Asr     string `json:"asr"`
	Maghrib string `json:"maghrib"`
	Isha    string `json:"isha"`
}

type dayJSON struct {
	Date    string      `json:"date"`
	Weekday string      `json:"weekday,omitempty"`
	Hijri   string      `json:"hijri,omitempty"`
	Ordinal int         `json:"ordinal,omitempty"`
	Label   string      `json:"label"`
	Timings timingsJSON `json:"timings"`
}

type cityDaysJSON struct {
	City string    `json:"city"`
	Days []dayJSON `json:"days"`
}

type dailyJSON struct {
	City string  `json:"city"`
	Day  dayJSON `json:"day"`
}

type windowJSON struct {
	Start  string   `json:"start"`
	End    string   `json:"end"`
	Days   int      `json:"days"`
	Months []string `json:"months"`
}

type targetJSON struct {
	Kind      string `json:"kind"`
	Label     string `json:"label"`
	Header    string `json:"header"`
	Time      string `json:"time"`
	At        string `json:"at"`
	Seconds   int64  `json:"seconds"`
	Remaining string `json:"remaining"`
	First     bool   `json:"first"`
}

type countdownJSON struct {
	City   string      `json:"city"`
	Target *targetJSON `json:"target"`
}

type alertJSON struct {
	City    string `json:"city"`
	Kind    string `json:"kind"`
	Time    string `json:"time"`
	Message string `json:"message"`
}

type alertsJSON struct {
	Alerts  []alertJSON `json:"alerts"`
	Message string      `json:"message,omitempty"`
}

type errorJSON struct {
	Error string `json:"error"`
}

func toTimings(tm prayer.Timings, tf string) timingsJSON {
	out := timingsJSON{
		Fajr:    tm.Fajr.Format(tf),
		Sunrise: tm.Sunrise.Format(tf),
		Dhuhr:   tm.Dhuhr.Format(tf),
		Asr:     tm.Asr.Format(tf),
		Maghrib: tm.Maghrib.Format(tf),
		Isha:    tm.Isha.Format(tf),
	}
	if tm.Imsak != nil {
		out.Imsak = tm.Imsak.Format(tf)
	}
	return out
}

func toDay(d observance.Day, tf string) dayJSON {
	return dayJSON{
		Date:    d.Date.ISO(),
		Weekday: d.Weekday,
		Hijri:   d.Hijri.Label(),
		Ordinal: d.Ordinal,
		Label:   d.Label(),
		Timings: toTimings(d.Timings, tf),
	}
}

func toDays(days []observance.Day, tf string) []dayJSON {
	out := make([]dayJSON, len(days))
	for i, d := range days {
		out[i] = toDay(d, tf)
	}
	return out
}

func toWindow(w observance.Window) windowJSON {
	months := make([]string, len(w.Months))
	for i, m := range w.Months {
		months[i] = m.String()
	}
	return windowJSON{Start: w.Start.ISO(), End: w.End().ISO(), Days: w.Days, Months: months}
}

func toCountdown(city string, t countdown.Target, ok bool, tf string) countdownJSON {
	out := countdownJSON{City: city}
	if !ok {
		return out
	}
	out.Target = &targetJSON{
		Kind:      t.Kind.String(),
		Label:     t.Label,
		Header:    t.Header(),
		Time:      t.Clock.Format(tf),
		At:        t.At.Format(time.RFC3339),
		Seconds:   int64(t.Duration.Seconds()),
		Remaining: t.Remaining.String(),
		First:     t.First,
	}
	return out
}

func toAlerts(alerts []alert.Alert) alertsJSON {
	out := alertsJSON{Alerts: make([]alertJSON, len(alerts))}
	for i, a := range alerts {
		out.Alerts[i] = alertJSON{City: a.City, Kind: a.Kind.String(), Time: a.Clock.String(), Message: a.Message()}
	}
	if len(alerts) == 0 {
		out.Message = alert.IdleMessage
	}
	return out
}
