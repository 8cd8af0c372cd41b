package markethours

import (
	"time"
)

// IST is the exchange-local time zone (UTC+5:30). All trading-day keys and
// entry-window checks are derived here, never in UTC.
var IST = time.FixedZone("IST", 5*3600+30*60)

// DayKey returns the trading-day key for t: the calendar date in IST.
func DayKey(t time.Time) string {
	return t.In(IST).Format("2006-01-02")
}

// Midnight returns 00:00 IST of t's trading day.
func Midnight(t time.Time) time.Time {
	ist := t.In(IST)
	return time.Date(ist.Year(), ist.Month(), ist.Day(), 0, 0, 0, 0, IST)
}

// IsWeekday returns true if t is Mon-Fri in IST.
func IsWeekday(t time.Time) bool {
	wd := t.In(IST).Weekday()
	return wd >= time.Monday && wd <= time.Friday
}

// WindowCheck is the result of an entry-window evaluation.
type WindowCheck int

const (
	TooEarly WindowCheck = iota
	InWindow
	TooLate
)

// CheckWindow places t relative to the entry window [startMin, endMin],
// expressed as minutes past midnight IST.
func CheckWindow(t time.Time, startMin, endMin int) WindowCheck {
	ist := t.In(IST)
	hm := ist.Hour()*60 + ist.Minute()
	switch {
	case hm < startMin:
		return TooEarly
	case hm > endMin:
		return TooLate
	default:
		return InWindow
	}
}

// ParseClock parses "HH:MM" into minutes past midnight. Returns -1 when the
// value is not a valid clock time.
func ParseClock(s string) int {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return -1
	}
	return t.Hour()*60 + t.Minute()
}
