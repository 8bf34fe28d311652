package calendar

// LeapKind selects the month table used to split a day-of-year.
type LeapKind int

const (
	Common   LeapKind = iota // 365 days
	Leap                     // 366 days, February 29
	Year1582                 // 355 days, October 5-14 removed
)

func (k LeapKind) String() string {
	switch k {
	case Common:
		return "common"
	case Leap:
		return "leap"
	case Year1582:
		return "1582"
	default:
		return "unknown"
	}
}

// KindOf returns the LeapKind of year in the reformed calendar.
func KindOf(year int) LeapKind {
	switch {
	case year == 1582:
		return Year1582
	case IsLeap(year):
		return Leap
	default:
		return Common
	}
}

// JulianKindOf returns the LeapKind of year in the pure Julian calendar, as
// used for Old Style dates.
func JulianKindOf(year int) LeapKind {
	if JulianIsLeap(year) {
		return Leap
	}
	return Common
}

// BreakDays splits a zero-based day-of-year into a month and day of month,
// both starting at 1. In October of Year1582, offsets 0-3 are the 1st-4th and
// offsets 4-20 are the 15th-31st.
func BreakDays(dayOfYear int, kind LeapKind) (month, day int, err error) {
	if dayOfYear < 0 {
		return 0, 0, newError("BreakDays", ErrInvalidCalendarDate, "%d", dayOfYear)
	}
	days := dayOfYear
	for i, length := range monthDays {
		if i == 1 && kind == Leap {
			length++
		}
		if i == 9 && kind == Year1582 {
			length = 21
			if days < length {
				if days < 4 {
					return 10, days + 1, nil
				}
				return 10, days + 11, nil
			}
		}
		if days < length {
			return i + 1, days + 1, nil
		}
		days -= length
	}
	return 0, 0, newError("BreakDays", ErrInvalidCalendarDate, "%d (%s year)", dayOfYear, kind)
}

// UnbreakDays returns the zero-based day-of-year of year-month-day. Dates that
// do not exist are rejected, including 1582-10-05 through 1582-10-14 which
// fail with ErrReformationGap.
func UnbreakDays(year, month, day int) (int, error) {
	if month < 1 || month > 12 {
		return 0, newError("UnbreakDays", ErrInvalidCalendarDate, "%d-%02d-%02d", year, month, day)
	}
	length := monthDays[month-1]
	if month == 2 && IsLeap(year) {
		length++
	}
	if day < 1 || day > length {
		return 0, newError("UnbreakDays", ErrInvalidCalendarDate, "%d-%02d-%02d", year, month, day)
	}
	if year == 1582 && month == 10 && day > 4 && day < 15 {
		return 0, newError("UnbreakDays", ErrReformationGap, "%d-%02d-%02d", year, month, day)
	}

	yday := day - 1
	for i := 0; i < month-1; i++ {
		yday += monthDays[i]
		if i == 1 && IsLeap(year) {
			yday++
		}
	}
	if year == 1582 && (month > 10 || (month == 10 && day >= 15)) {
		yday -= 10
	}
	return yday, nil
}
