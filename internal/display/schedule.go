package display

import (
	"fmt"
	"strings"

	"github.com/smokyabdulrahman/imsakiye/internal/alert"
	"github.com/smokyabdulrahman/imsakiye/internal/observance"
	"github.com/smokyabdulrahman/imsakiye/internal/prayer"
)

// ScheduleHeaders are the columns of a schedule table.
var ScheduleHeaders = []string{"Gün", "Tarih", "İmsak", "Güneş", "Öğle", "İkindi", "Akşam", "Yatsı"}

const (
	colImsak = 2
	colAksam = 6
)

// ScheduleTable builds a table with one row per day. The row for today, if
// present, is highlighted.
func ScheduleTable(days []observance.Day, today prayer.Date, timeFormat string) *Table {
	tbl := NewTable(ScheduleHeaders)
	tbl.StyleColumn(colImsak, Sahur)
	tbl.StyleColumn(colAksam, Iftar)

	for i, d := range days {
		tm := d.Timings
		tbl.AddRow([]string{
			d.Label(),
			fmt.Sprintf("%s %s", d.Date, shortWeekday(d.Weekday)),
			tm.Fajr.Format(timeFormat),
			tm.Sunrise.Format(timeFormat),
			tm.Dhuhr.Format(timeFormat),
			tm.Asr.Format(timeFormat),
			tm.Maghrib.Format(timeFormat),
			tm.Isha.Format(timeFormat),
		})
		if d.Date == today {
			tbl.SetHighlightRow(i)
		}
	}
	return tbl
}

// CityCard renders one city's timings for a day, with the two fasting
// boundaries on their own lines.
func CityCard(city string, d observance.Day, timeFormat string) string {
	tm := d.Timings
	var sb strings.Builder

	label := d.Label()
	if d.Weekday != "" {
		label = d.Weekday + ", " + label
	}
	fmt.Fprintf(&sb, "  %s  %s\n", Bold(city), Gray(label))
	fmt.Fprintf(&sb, "    %-14s %s\n", prayer.EventPreDawn.Label(), Sahur(tm.Fajr.Format(timeFormat)))
	fmt.Fprintf(&sb, "    %-14s %s\n", prayer.EventSunset.Label(), Iftar(tm.Maghrib.Format(timeFormat)))
	fmt.Fprintf(&sb, "    %s\n", Dim(fmt.Sprintf("Güneş %s  Öğle %s  İkindi %s  Yatsı %s",
		tm.Sunrise.Format(timeFormat),
		tm.Dhuhr.Format(timeFormat),
		tm.Asr.Format(timeFormat),
		tm.Isha.Format(timeFormat),
	)))
	return sb.String()
}

// Alerts renders active alerts one per line, or the idle text.
func Alerts(alerts []alert.Alert) string {
	if len(alerts) == 0 {
		return Gray(alert.IdleMessage) + "\n"
	}
	var sb strings.Builder
	for _, a := range alerts {
		fmt.Fprintf(&sb, "%s: %s\n", Bold(a.City), Alert(a.Message()))
	}
	return sb.String()
}

// shortWeekday trims an English weekday name to three letters.
func shortWeekday(s string) string {
	if len(s) > 3 {
		return s[:3]
	}
	return s
}
