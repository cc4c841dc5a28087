// Package budget implements the expense aggregation and budget-status
// engine: date-window classification, period totals and averages, category
// breakdowns, spending trend, danger-zone evaluation and the budget alert
// threshold state machine.
//
// Every function here is a pure function of an expense snapshot, the daily
// limit and an explicit "now". Nothing mutates its input and nothing reads
// the wall clock, so one aggregation pass is internally consistent even
// across a midnight boundary.
package budget

import "time"

// sameDay reports whether a and ref fall on the same calendar date,
// evaluated in ref's location.
func sameDay(a, ref time.Time) bool {
	y1, m1, d1 := a.In(ref.Location()).Date()
	y2, m2, d2 := ref.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// IsToday reports whether ts falls on the same calendar date as now.
func IsToday(ts, now time.Time) bool {
	return sameDay(ts, now)
}

// IsYesterday reports whether ts falls on the calendar date one day
// before now.
func IsYesterday(ts, now time.Time) bool {
	return sameDay(ts, now.AddDate(0, 0, -1))
}

// startOfWeek returns midnight on the Sunday of now's week.
func startOfWeek(now time.Time) time.Time {
	y, m, d := now.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	return midnight.AddDate(0, 0, -int(now.Weekday()))
}

// IsThisWeek reports whether ts falls within the current week, which runs
// from Sunday 00:00:00 through the end of Saturday in now's location.
func IsThisWeek(ts, now time.Time) bool {
	start := startOfWeek(now)
	end := start.AddDate(0, 0, 7)
	ts = ts.In(now.Location())
	return !ts.Before(start) && ts.Before(end)
}

// IsThisMonth reports whether ts and now share calendar month and year.
func IsThisMonth(ts, now time.Time) bool {
	ts = ts.In(now.Location())
	return ts.Year() == now.Year() && ts.Month() == now.Month()
}

// dayKey collapses a timestamp to its calendar date in ref's location,
// used to count distinct spend days.
func dayKey(ts, ref time.Time) string {
	return ts.In(ref.Location()).Format("2006-01-02")
}
