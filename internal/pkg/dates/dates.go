// Package dates provides civil (timezone-naive) calendar date arithmetic for
// the scheduling engine. A civil date is represented as a time.Time fixed at
// midnight UTC; every boundary that accepts external input must normalize
// through New or Civil before handing dates to the engine.
package dates

import "time"

// New builds a civil date at midnight UTC.
func New(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Civil truncates an arbitrary timestamp to its civil date.
func Civil(t time.Time) time.Time {
	return New(t.Year(), t.Month(), t.Day())
}

// Today returns the current civil date.
func Today() time.Time {
	return Civil(time.Now())
}

// AddDays shifts a date by n calendar days. n may be negative.
func AddDays(d time.Time, n int) time.Time {
	return d.AddDate(0, 0, n)
}

// AddWeeks shifts a date by 7*n calendar days. n may be negative.
func AddWeeks(d time.Time, n int) time.Time {
	return d.AddDate(0, 0, 7*n)
}

// Earlier returns the chronologically earlier of two dates.
func Earlier(a, b time.Time) time.Time {
	if b.Before(a) {
		return b
	}
	return a
}

// DayIndex reports the day of week with Monday=0 through Sunday=6. This is
// the one canonical weekday origin for the whole module.
func DayIndex(d time.Time) int {
	// time.Weekday has Sunday=0.
	return (int(d.Weekday()) + 6) % 7
}

// DaysBetween returns b minus a in whole calendar days, negative when b is
// before a.
func DaysBetween(a, b time.Time) int {
	return int(Civil(b).Sub(Civil(a)).Hours() / 24)
}
