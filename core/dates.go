package core

import "time"

// DateOnly truncates t to midnight in its location.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// AddMonths advances t by n calendar months, clamping to the last day of the
// target month. Jan 31 + 1 month is Feb 28 (29 in leap years), not Mar 2/3 as
// time.AddDate would normalize it to.
func AddMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	firstOfTarget := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, t.Location())
	if last := daysIn(firstOfTarget.Year(), firstOfTarget.Month(), t.Location()); d > last {
		d = last
	}
	return time.Date(
		firstOfTarget.Year(), firstOfTarget.Month(), d,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location(),
	)
}

// AddYears advances t by n calendar years; Feb 29 clamps to Feb 28 in
// non-leap target years.
func AddYears(t time.Time, n int) time.Time {
	return AddMonths(t, n*12)
}

func daysIn(year int, month time.Month, loc *time.Location) int {
	// day 0 of next month is the last day of this month
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}
