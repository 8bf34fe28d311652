// Package calendar converts between Julian Day Numbers and calendar dates in the
// proleptic Julian and Gregorian calendars, joined at the 1582 Reformation.
//
// All functions are pure and safe for concurrent use.
package calendar

import "math"

// Time constants, in seconds.
const (
	Minute  = 60
	Hour    = 60 * Minute
	HalfDay = 12 * Hour
	Day     = 24 * Hour
)

// Regime boundaries as Julian Day Numbers (noon-based) and days of the year.
const (
	// GregReform is noon on 1582-10-15 Gregorian, the day after 1582-10-04 Julian.
	GregReform = 2299161

	// YdayReform is the zero-based day-of-year of 1582-10-15 in the short year 1582.
	YdayReform = 277

	// Start1583 is noon on 1583-01-01 Gregorian.
	Start1583 = GregReform + 78

	// Start1600 is noon on 1600-01-01 Gregorian, the start of the first full
	// 400-year Gregorian cycle.
	Start1600 = Start1583 + 6209

	// UKReform is noon on 1752-09-14 Gregorian, the first Gregorian day in Britain.
	UKReform = 2361222
)

// MaxDayNumber bounds the supported day numbers. The reflection used for
// negative day numbers evaluates 365-jdn, and the forward formulas multiply the
// year by 365, so the range is kept well inside the int range.
const (
	MaxDayNumber = math.MaxInt >> 3
	MinDayNumber = -MaxDayNumber
)

var monthDays = [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// IsLeap reports whether year is a leap year: the Julian rule up to and
// including 1582, the Gregorian rule afterwards.
func IsLeap(year int) bool {
	if year <= 1582 {
		return year%4 == 0
	}
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// JulianIsLeap reports whether year is a leap year in the Julian calendar.
func JulianIsLeap(year int) bool {
	return year%4 == 0
}

// YearLength returns the number of days in year. 1582 has 355 days since
// October 5-14 were removed.
func YearLength(year int) int {
	if year == 1582 {
		return 355
	}
	if IsLeap(year) {
		return 366
	}
	return 365
}

// julianYearLength is YearLength for the pure Julian calendar.
func julianYearLength(year int) int {
	if JulianIsLeap(year) {
		return 366
	}
	return 365
}

// daysSince1583 returns the number of days in the years [1583, year).
// year must be at least 1583.
func daysSince1583(year int) int {
	return (year-1583)*365 + (year-1581)/4 - (year-1501)/100 + (year-1201)/400
}

// MonthLength returns the number of days in month (1-12) of year. October 1582
// has 21 days.
func MonthLength(year, month int) int {
	if month < 1 || month > 12 {
		return 0
	}
	if year == 1582 && month == 10 {
		return 21
	}
	if month == 2 && IsLeap(year) {
		return 29
	}
	return monthDays[month-1]
}
