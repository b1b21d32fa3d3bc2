package calendar

import (
	"fmt"
	"io"
	"time"

	ical "github.com/arran4/golang-ical"
)

// icsProductID identifies the exporter in PRODID.
const icsProductID = "-//predici-api//calendar liturgic//RO"

// WriteICS writes entries as an iCalendar document of all-day events.
//
// UIDs are derived from the date so that re-exporting a year updates
// subscribers' events in place. stamp is used for DTSTAMP.
func WriteICS(w io.Writer, year int, entries []Entry, stamp time.Time) error {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(icsProductID)
	cal.SetXWRCalName(fmt.Sprintf("Calendar ortodox %d", year))

	for _, e := range entries {
		start := e.Date.Time(time.UTC)

		ev := cal.AddEvent(fmt.Sprintf("%s@predici-api", e.Date))
		ev.SetDtStampTime(stamp.UTC())
		ev.SetAllDayStartAt(start)
		ev.SetAllDayEndAt(start.AddDate(0, 0, 1))
		ev.SetSummary(e.Name)
	}

	if err := cal.SerializeTo(w); err != nil {
		return fmt.Errorf("serialize calendar: %w", err)
	}
	return nil
}
