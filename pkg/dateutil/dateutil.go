// Package dateutil holds the calendar-date helpers shared by the simulation
// engine and configuration loader. All dates are civil dates carried in
// time.Time values at midnight UTC.
package dateutil

import "time"

// Layout is the date format used in configuration files and reports.
const Layout = "2006-01-02"

// Date returns midnight UTC for the given civil date.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Truncate drops the time-of-day and location of t, keeping its civil date.
func Truncate(t time.Time) time.Time {
	y, m, d := t.Date()
	return Date(y, m, d)
}

// Parse parses a YYYY-MM-DD string into a civil date.
func Parse(s string) (time.Time, error) {
	return time.Parse(Layout, s)
}

// DaysBetween returns the signed number of whole days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(Truncate(b).Sub(Truncate(a)).Hours() / 24)
}

// NextDay returns the civil date following t.
func NextDay(t time.Time) time.Time {
	return t.AddDate(0, 0, 1)
}

// IsMonthEnd reports whether t is the last day of its month.
func IsMonthEnd(t time.Time) bool {
	return NextDay(t).Month() != t.Month()
}

// IsYearEnd reports whether t is December 31st.
func IsYearEnd(t time.Time) bool {
	return t.Month() == time.December && t.Day() == 31
}

// YearStart returns January 1st of the given year.
func YearStart(year int) time.Time {
	return Date(year, time.January, 1)
}

// InRange reports whether t falls within [start, end], inclusive.
func InRange(t, start, end time.Time) bool {
	return !t.Before(start) && !t.After(end)
}
