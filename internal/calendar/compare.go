package calendar

import "cmp"

// Compare orders moments by year, day-of-year and seconds, returning -1, 0 or
// +1. A moment without a time of day sorts before any moment with one on the
// same day, which keeps the order total; compare Date() values to ignore the
// time entirely.
func Compare(a, b CalendarMoment) int {
	if c := cmp.Compare(a.Year, b.Year); c != 0 {
		return c
	}
	if c := cmp.Compare(a.DayOfYear, b.DayOfYear); c != 0 {
		return c
	}
	as, aok := a.Seconds.Get()
	bs, bok := b.Seconds.Get()
	switch {
	case !aok && !bok:
		return 0
	case !aok:
		return -1
	case !bok:
		return 1
	}
	return cmp.Compare(as, bs)
}

// Before reports whether m sorts before other.
func (m CalendarMoment) Before(other CalendarMoment) bool {
	return Compare(m, other) < 0
}

// Equal reports whether m and other are the same moment.
func (m CalendarMoment) Equal(other CalendarMoment) bool {
	return Compare(m, other) == 0
}
