package core

import "time"

// isWorkingDay reports whether a date is a weekday. Public holidays are not
// modeled, matching the rest of the burn arithmetic.
func isWorkingDay(t time.Time) bool {
	wd := t.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// CountWorkingDays walks the calendar from one date to another, inclusive on
// both ends, and counts non-weekend days. It returns 0 when to precedes from.
func CountWorkingDays(from, to time.Time) int {
	from = truncateDay(from)
	to = truncateDay(to)
	if to.Before(from) {
		return 0
	}
	count := 0
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if isWorkingDay(d) {
			count++
		}
	}
	return count
}

// WorkingDaysRemaining counts non-weekend days from today through the
// deadline, both inclusive. Today counts because its work is still ahead at
// the time a report runs.
func WorkingDaysRemaining(today, deadline time.Time) int {
	return CountWorkingDays(today, deadline)
}

// truncateDay drops the time-of-day component.
func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
