package attendance

import (
	"fmt"
	"strconv"
	"time"

	"github.com/teambition/rrule-go"
)

// Weekdays returns every Monday through Friday of the given month, in order.
func Weekdays(year int, month time.Month, loc *time.Location) ([]time.Time, error) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	end := start.AddDate(0, 1, 0).Add(-time.Second)

	r, err := rrule.NewRRule(rrule.ROption{
		Freq:      rrule.DAILY,
		Dtstart:   start,
		Until:     end,
		Byweekday: []rrule.Weekday{rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR},
	})
	if err != nil {
		return nil, fmt.Errorf("weekday rule for %s %d: %w", month, year, err)
	}
	return r.All(), nil
}

// Label formats a date as the day-of-month label the timesheet renders: no zero padding.
func Label(t time.Time) string {
	return strconv.Itoa(t.Day())
}

// ParseMonth parses a "2006-01" month expression. An empty string means the month of now.
func ParseMonth(s string, now time.Time) (time.Time, error) {
	if s == "" {
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), nil
	}
	t, err := time.ParseInLocation("2006-01", s, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognized month %q (expected YYYY-MM)", s)
	}
	return t, nil
}
