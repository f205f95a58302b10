package service

import "time"

// Midnight-rollover window: a punch before 04:00 local compared against a
// shift ending after 20:00 belongs to the previous day's shift.
const (
	rolloverPunchBefore   = 240  // 04:00
	rolloverShiftEndAfter = 1200 // 20:00
	minutesPerDay         = 1440
)

// LocalDayMinute converts a UTC instant into the civil date and the
// minutes-of-day (0–1439) in the given organization timezone.
//
// The math goes through loc, never the process-local zone, so the same
// instant yields the same result wherever the service runs; DST offsets
// are resolved per calendar date by the zone database.
func LocalDayMinute(t time.Time, loc *time.Location) (time.Time, int) {
	lt := t.In(loc)
	day := time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, time.UTC)
	return day, lt.Hour()*60 + lt.Minute()
}

// rolloverAdjust lifts an early-morning punch minute into the previous
// day's minute space when the shift it is measured against ends late.
func rolloverAdjust(punchMinute, shiftEndMinute int) int {
	if punchMinute < rolloverPunchBefore && shiftEndMinute > rolloverShiftEndAfter {
		return punchMinute + minutesPerDay
	}
	return punchMinute
}

// civilDate builds a date-only key for maps and DB date columns.
func civilDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// nextDay returns the following civil date.
func nextDay(day time.Time) time.Time {
	return day.AddDate(0, 0, 1)
}
