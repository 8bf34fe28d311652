package calendar

// JulianToYday converts a Julian Day Number to a year and zero-based
// day-of-year in the proleptic Julian calendar. Day 0 is noon on January 1,
// 4713 BC (year -4712).
//
// Negative day numbers are reflected through 365-jdn, relying on the point
// symmetry of the Julian calendar about the epoch: year y maps to -9424-y and
// day d to length-1-d. jdn must not be below MinDayNumber.
func JulianToYday(jdn int) (year, dayOfYear int) {
	if jdn < 0 {
		year, dayOfYear = JulianToYday(365 - jdn)
		year = -4712 - (year + 4712)
		return year, julianYearLength(year) - 1 - dayOfYear
	}
	year = (jdn / 1461) * 4
	dayOfYear = jdn % 1461
	if dayOfYear > 365 {
		// past the leap year that opens each four-year cycle
		dayOfYear -= 366
		year += 1 + dayOfYear/365
		dayOfYear %= 365
	}
	return year - 4712, dayOfYear
}

// YdayToJulian is the inverse of JulianToYday: the Julian Day Number of a
// zero-based day-of-year in the proleptic Julian calendar.
func YdayToJulian(year, dayOfYear int) int {
	if year < -4712 {
		// Closed form counting back from the epoch, so that the quarter-year
		// term never sees a negative operand.
		rev := -4712 - year
		return dayOfYear - (rev*365 + rev/4)
	}
	y := year + 4712
	return y*365 + (y+3)/4 + dayOfYear
}
