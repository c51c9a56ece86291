package normalizer

import (
	"fmt"
	"time"

	"cloud.google.com/go/civil"
)

// Day is the calendar date of t in t's location.
func Day(t time.Time) civil.Date {
	return civil.DateOf(t)
}

// WeekStart returns the Monday that begins the ISO-8601 week containing t.
// A date late in December that belongs to week 1 of the next ISO year maps
// to that week's Monday, and an early-January date in the last week of the
// previous ISO year maps back into December.
func WeekStart(t time.Time) civil.Date {
	back := (int(t.Weekday()) + 6) % 7
	return civil.DateOf(t).AddDays(-back)
}

// ISOWeekLabel renders a week start as "2025-W01".
func ISOWeekLabel(d civil.Date) string {
	year, week := d.In(time.UTC).ISOWeek()
	return fmt.Sprintf("%04d-W%02d", year, week)
}

// MonthKey is the zero-padded "YYYY-MM" of t.
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}
