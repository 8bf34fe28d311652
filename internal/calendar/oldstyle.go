package calendar

// OldStyleApplies reports whether a date should also be shown Old Style, in
// the Julian calendar. That is the case from the Reformation until Britain
// adopted the Gregorian calendar, or from the Reformation onwards when
// ukMode is set.
func OldStyleApplies(dayNumber int, ukMode bool) bool {
	if ukMode {
		return dayNumber >= GregReform
	}
	return OldStyleAppliesUntil(dayNumber, UKReform)
}

// OldStyleAppliesUntil is OldStyleApplies for a region that adopted the
// Gregorian calendar on the day numbered cutover.
func OldStyleAppliesUntil(dayNumber, cutover int) bool {
	return dayNumber >= GregReform && dayNumber < cutover
}

// ToOldStyle converts a Julian Day Number to a moment in the proleptic Julian
// calendar, regardless of the Reformation. The day-of-year of the result
// follows Julian leap years; split it with JulianKindOf.
func ToOldStyle(jm JulianMoment) (CalendarMoment, error) {
	if !jm.Fraction.valid() {
		return CalendarMoment{}, newError("ToOldStyle", ErrInvalidTime, "%v", jm.Fraction)
	}
	days, secs := civilDay(jm)
	if days < MinDayNumber || days > MaxDayNumber {
		return CalendarMoment{}, newError("ToOldStyle", ErrOutOfRange, "%d", jm.DayNumber)
	}
	year, yday := JulianToYday(days)
	return CalendarMoment{Year: year, DayOfYear: yday, Seconds: secs}, nil
}
