package observance

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/emersion/go-ical"

	"github.com/smokyabdulrahman/imsakiye/internal/prayer"
)

// iCalendar property names and fixed values.
const (
	propUID         = "UID"
	propSummary     = "SUMMARY"
	propDescription = "DESCRIPTION"
	propDTStart     = "DTSTART"
	propDTStamp     = "DTSTAMP"
	propVersion     = "VERSION"
	propProdid      = "PRODID"
	propCalName     = "X-WR-CALNAME"
	propCalScale    = "CALSCALE"

	icalVersion = "2.0"
	icalProdid  = "-//imsakiye//Imsakiye//TR"
	icalScale   = "GREGORIAN"
	icalDomain  = "imsakiye"

	stubCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + icalProdid + "\r\nEND:VCALENDAR\r\n"
)

// WriteICS writes the window days of one city as an iCalendar feed with a
// sahur and an iftar event per day. Event times are anchored in loc.
func WriteICS(w io.Writer, city prayer.City, days []Day, loc *time.Location, stamp time.Time) error {
	if len(days) == 0 {
		_, err := io.WriteString(w, stubCalendar)
		return err
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(propVersion, icalVersion)
	cal.Props.SetText(propProdid, icalProdid)
	cal.Props.SetText(propCalName, fmt.Sprintf("İmsakiye %s", city.Name))
	cal.Props.SetText(propCalScale, icalScale)

	dtStamp := ical.NewProp(propDTStamp)
	dtStamp.SetDateTime(stamp.UTC())

	slug := strings.ToLower(strings.ReplaceAll(city.Name, " ", "-"))
	for _, d := range days {
		for _, kind := range prayer.FastingEvents {
			clock := kind.Clock(d.DailySnapshot)

			event := ical.NewEvent()
			event.Props.SetText(propUID, fmt.Sprintf("%s-%s-%s@%s", slug, d.Date.ISO(), kind, icalDomain))
			event.Props.SetText(propSummary, fmt.Sprintf("%s (%s)", kind.AlertTitle(), city.Name))
			event.Props.SetText(propDescription, fmt.Sprintf("%s, %s", d.Label(), clock))

			start := ical.NewProp(propDTStart)
			start.SetDateTime(clock.On(d.Date, loc))
			event.Props.Set(start)
			event.Props.Set(dtStamp)

			cal.Children = append(cal.Children, event.Component)
		}
	}

	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("failed to encode calendar: %w", err)
	}
	return nil
}
