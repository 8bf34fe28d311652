package calendar

import (
	"encoding/json"
	"strconv"
	"time"
)

// UnixEpoch is the Julian Day Number of 1970-01-01 (noon).
const UnixEpoch = 2440588

// =============================================================================
// Seconds
// =============================================================================

// Seconds is an optional count of seconds within a day. The zero value is
// unset, meaning the time of day is unknown; an unset fraction on a
// JulianMoment carries an uncertainty of half a day either way.
type Seconds struct {
	n   int
	set bool
}

// SecondsOf returns a set Seconds holding n.
func SecondsOf(n int) Seconds {
	return Seconds{n: n, set: true}
}

// Get returns the seconds and whether they are set.
func (s Seconds) Get() (int, bool) {
	return s.n, s.set
}

// IsSet reports whether s holds a value.
func (s Seconds) IsSet() bool {
	return s.set
}

func (s Seconds) valid() bool {
	return !s.set || (s.n >= 0 && s.n < Day)
}

func (s Seconds) String() string {
	if !s.set {
		return "unset"
	}
	return strconv.Itoa(s.n)
}

// MarshalJSON encodes an unset value as null.
func (s Seconds) MarshalJSON() ([]byte, error) {
	if !s.set {
		return []byte("null"), nil
	}
	return json.Marshal(s.n)
}

func (s *Seconds) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = Seconds{}
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*s = SecondsOf(n)
	return nil
}

// MarshalYAML encodes an unset value as null.
func (s Seconds) MarshalYAML() (any, error) {
	if !s.set {
		return nil, nil
	}
	return s.n, nil
}

// =============================================================================
// Moments
// =============================================================================

// CalendarMoment is a calendar date with an optional time of day, in UTC.
// Years use astronomical numbering: 0 is 1 BC, -1 is 2 BC.
type CalendarMoment struct {
	Year      int     `json:"year" yaml:"year"`
	DayOfYear int     `json:"day_of_year" yaml:"day_of_year"` // zero-based
	Seconds   Seconds `json:"seconds" yaml:"seconds"`         // seconds after midnight
}

// JulianMoment is a Julian Day Number with an optional fraction. The fraction
// counts seconds since the noon that defines DayNumber, not since midnight.
type JulianMoment struct {
	DayNumber int     `json:"day_number" yaml:"day_number"`
	Fraction  Seconds `json:"fraction" yaml:"fraction"`
}

// Date returns m without its time of day.
func (m CalendarMoment) Date() CalendarMoment {
	return CalendarMoment{Year: m.Year, DayOfYear: m.DayOfYear}
}

// MonthDay returns the month and day of month of m in the reformed calendar.
func (m CalendarMoment) MonthDay() (month, day int, err error) {
	return BreakDays(m.DayOfYear, KindOf(m.Year))
}

// FromCivil returns the moment of year-month-day with no time of day.
func FromCivil(year, month, day int) (CalendarMoment, error) {
	yday, err := UnbreakDays(year, month, day)
	if err != nil {
		return CalendarMoment{}, err
	}
	return CalendarMoment{Year: year, DayOfYear: yday}, nil
}

var (
	// MinMoment and MaxMoment are the first and last supported calendar days.
	MinMoment = fromJulian(MinDayNumber, Seconds{})
	MaxMoment = fromJulian(MaxDayNumber, Seconds{})
)

// CheckRange returns ErrOutOfRange if the date of m lies outside
// [MinMoment, MaxMoment]. The time of day is not considered.
func CheckRange(m CalendarMoment) error {
	d := m.Date()
	if Compare(d, MinMoment) < 0 || Compare(d, MaxMoment) > 0 {
		return newError("CheckRange", ErrOutOfRange, "year %d day %d", m.Year, m.DayOfYear)
	}
	return nil
}

// ToJulianMoment converts a calendar moment to a Julian Day Number. Moments
// before 1582-10-15 are read in the Julian calendar, later ones in the
// Gregorian. A moment without a time of day yields a JulianMoment without a
// fraction.
func ToJulianMoment(m CalendarMoment) (JulianMoment, error) {
	const op = "ToJulianMoment"
	if err := CheckRange(m); err != nil {
		return JulianMoment{}, err
	}
	if m.DayOfYear < 0 || m.DayOfYear >= YearLength(m.Year) {
		return JulianMoment{}, newError(op, ErrInvalidCalendarDate, "year %d day %d", m.Year, m.DayOfYear)
	}
	if !m.Seconds.valid() {
		return JulianMoment{}, newError(op, ErrInvalidTime, "%v", m.Seconds)
	}

	var jdn int
	switch {
	case m.Year < 1582 || (m.Year == 1582 && m.DayOfYear < YdayReform):
		jdn = YdayToJulian(m.Year, m.DayOfYear)
	case m.Year == 1582:
		jdn = GregReform + (m.DayOfYear - YdayReform)
	default:
		jdn = Start1583 + daysSince1583(m.Year) + m.DayOfYear
	}

	secs, ok := m.Seconds.Get()
	switch {
	case !ok:
		return JulianMoment{DayNumber: jdn}, nil
	case secs < HalfDay:
		// before noon belongs to the previous Julian day
		return JulianMoment{DayNumber: jdn - 1, Fraction: SecondsOf(secs + HalfDay)}, nil
	default:
		return JulianMoment{DayNumber: jdn, Fraction: SecondsOf(secs - HalfDay)}, nil
	}
}

// FromJulianMoment converts a Julian Day Number to a calendar moment, using
// the Julian calendar before noon on 1582-10-15 and the Gregorian afterwards.
func FromJulianMoment(jm JulianMoment) (CalendarMoment, error) {
	const op = "FromJulianMoment"
	if !jm.Fraction.valid() {
		return CalendarMoment{}, newError(op, ErrInvalidTime, "%v", jm.Fraction)
	}
	if jm.DayNumber < MinDayNumber-1 || jm.DayNumber > MaxDayNumber {
		return CalendarMoment{}, newError(op, ErrOutOfRange, "%d", jm.DayNumber)
	}
	days, _ := civilDay(jm)
	if days < MinDayNumber || days > MaxDayNumber {
		return CalendarMoment{}, newError(op, ErrOutOfRange, "%d", jm.DayNumber)
	}
	return fromJulian(jm.DayNumber, jm.Fraction), nil
}

// civilDay returns the noon-based day number of the civil (midnight-based)
// day containing jm, and the seconds since that midnight.
func civilDay(jm JulianMoment) (int, Seconds) {
	frac, ok := jm.Fraction.Get()
	if !ok {
		return jm.DayNumber, Seconds{}
	}
	secs := frac + HalfDay
	if secs >= Day {
		return jm.DayNumber + 1, SecondsOf(secs - Day)
	}
	return jm.DayNumber, SecondsOf(secs)
}

func fromJulian(dayNumber int, fraction Seconds) CalendarMoment {
	days, secs := civilDay(JulianMoment{DayNumber: dayNumber, Fraction: fraction})
	if days < Start1600 {
		var year, yday int
		if days >= GregReform {
			// The Gregorian calendar runs ten days ahead of the Julian until
			// 1700, so shift and decompose as Julian.
			year, yday = JulianToYday(days + 10)
			if days < Start1583 {
				yday -= 10
			}
		} else {
			year, yday = JulianToYday(days)
		}
		return CalendarMoment{Year: year, DayOfYear: yday, Seconds: secs}
	}
	year, yday := gregorianToYday(days)
	return CalendarMoment{Year: year, DayOfYear: yday, Seconds: secs}
}

// gregorianToYday decomposes a day number on or after Start1600 in the
// Gregorian calendar.
func gregorianToYday(jdn int) (year, dayOfYear int) {
	days := jdn - Start1600
	year = 1600 + 400*(days/146097)
	days %= 146097

	// The first century of each cycle opens with a leap year and is 36525
	// days long; the other three are a day short. Give those a virtual leap
	// day after their first 365 days so every century splits into 25 uniform
	// four-year cycles.
	if days >= 36525 {
		days -= 36525
		year += 100 * (1 + days/36524)
		days %= 36524
		if days >= 365 {
			days++
		}
	}

	year += 4 * (days / 1461)
	days %= 1461
	if days >= 366 {
		days -= 366
		year += 1 + days/365
		days %= 365
	}
	return year, days
}

// FromTime returns the calendar moment of t in UTC. Times before 1582-10-15
// come out in the Julian calendar.
func FromTime(t time.Time) CalendarMoment {
	unix := t.Unix()
	days := unix / Day
	secs := unix % Day
	if secs < 0 {
		days--
		secs += Day
	}
	civil := UnixEpoch + int(days)
	jm := JulianMoment{DayNumber: civil, Fraction: SecondsOf(int(secs) - HalfDay)}
	if secs < HalfDay {
		jm = JulianMoment{DayNumber: civil - 1, Fraction: SecondsOf(int(secs) + HalfDay)}
	}
	return fromJulian(jm.DayNumber, jm.Fraction)
}

// Now returns the current moment in UTC.
func Now() CalendarMoment {
	return FromTime(time.Now())
}
