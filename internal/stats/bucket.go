package stats

import "time"

// Pure date-bucketing helpers anchored to an arbitrary reference date (T0),
// not to the calendar. Everything works on day granularity in the reference
// date's location.

// DayOf truncates t to day granularity.
func DayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// WeekStart returns the Monday of t's week at day granularity.
func WeekStart(t time.Time) time.Time {
	day := DayOf(t)
	offset := (int(day.Weekday()) + 6) % 7 // Monday=0 ... Sunday=6
	return day.AddDate(0, 0, -offset)
}

// DaysBetween counts whole days from a to b, at least zero.
func DaysBetween(a, b time.Time) int {
	days := int(DayOf(b).Sub(DayOf(a)).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// BucketIndex places t in the fixed-size bucket grid anchored at t0.
func BucketIndex(t0, t time.Time, bucketDays int) int {
	return DaysBetween(t0, t) / bucketDays
}

// WeekIndex numbers t's week relative to t0's week. The week containing t0 is
// week 1.
func WeekIndex(t0, t time.Time) int {
	return DaysBetween(WeekStart(t0), WeekStart(t))/7 + 1
}
