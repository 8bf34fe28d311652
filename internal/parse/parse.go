// Package parse reads date arguments as typed on the command line or in a
// URL path.
//
// An argument is classified by what follows its leading integer:
//
//	2000-01-01             calendar date
//	2000-01-01T12:30:00Z   calendar date and time (the T may be a space)
//	2000-060               ordinal date, day of year counted from 1
//	2451545                Julian Day Number without a fraction
//	2451545.25             Julian date with a decimal fraction
//	2451545:21600          Julian Day Number and seconds since noon
//
// A leading minus sign makes the year or day number negative.
package parse

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/zapponejosh/julian/internal/calendar"
)

// MaxFractionDigits is the number of fraction digits considered; further
// digits are ignored.
const MaxFractionDigits = 9

// ErrInvalidArgument is returned for text that is not a recognised date form.
var ErrInvalidArgument = errors.New("invalid date argument")

// Kind says which side of the conversion an argument is on.
type Kind int

const (
	KindCalendar Kind = iota
	KindJulian
)

func (k Kind) String() string {
	if k == KindJulian {
		return "julian"
	}
	return "calendar"
}

// Argument is a parsed date argument. Only the field matching Kind is set.
type Argument struct {
	Input    string
	Kind     Kind
	Calendar calendar.CalendarMoment
	Julian   calendar.JulianMoment
}

var (
	leadingRe  = regexp.MustCompile(`^([+-]?\d+)(.*)$`)
	timeSuffix = `(?:(?:\s*T\s*|\s+)(\d{1,2}):(\d{2})(?::(\d{2}))?\s*Z?)?$`
	civilRe    = regexp.MustCompile(`^-(\d{1,2})-(\d{1,2})` + timeSuffix)
	ordinalRe  = regexp.MustCompile(`^-(\d{3})` + timeSuffix)
	fractionRe = regexp.MustCompile(`^\.(\d+)$`)
	secondsRe  = regexp.MustCompile(`^:(\d+)$`)
)

// Parse classifies and converts s. Calendar dates are validated against the
// month lengths of their year, so 1582-10-10 fails with
// calendar.ErrReformationGap.
func Parse(s string) (Argument, error) {
	input := strings.TrimSpace(s)
	m := leadingRe.FindStringSubmatch(input)
	if m == nil {
		return Argument{}, invalid(s, nil)
	}
	lead, err := strconv.Atoi(m[1])
	if err != nil {
		return Argument{}, invalid(s, calendar.ErrOutOfRange)
	}
	rest := m[2]

	arg := Argument{Input: input}
	switch {
	case rest == "":
		arg.Kind = KindJulian
		arg.Julian = calendar.JulianMoment{DayNumber: lead}
	case rest[0] == '.' || rest[0] == ':':
		frac, err := fraction(rest)
		if err != nil {
			return Argument{}, invalid(s, err)
		}
		arg.Kind = KindJulian
		arg.Julian = calendar.JulianMoment{DayNumber: lead, Fraction: frac}
	case rest[0] == '-':
		cm, err := calendarDate(lead, rest)
		if err != nil {
			return Argument{}, invalid(s, err)
		}
		arg.Kind = KindCalendar
		arg.Calendar = cm
	default:
		return Argument{}, invalid(s, nil)
	}
	return arg, nil
}

func invalid(s string, err error) error {
	if err == nil {
		return fmt.Errorf("%w %q", ErrInvalidArgument, s)
	}
	return fmt.Errorf("%w %q: %w", ErrInvalidArgument, s, err)
}

// fraction reads ".DIGITS" as a fraction of a day, truncated to whole
// seconds, or ":SECS" as seconds since noon.
func fraction(rest string) (calendar.Seconds, error) {
	if m := secondsRe.FindStringSubmatch(rest); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil || n >= calendar.Day {
			return calendar.Seconds{}, calendar.ErrInvalidTime
		}
		return calendar.SecondsOf(n), nil
	}
	m := fractionRe.FindStringSubmatch(rest)
	if m == nil {
		return calendar.Seconds{}, errors.New("malformed fraction")
	}
	digits := m[1]
	if len(digits) > MaxFractionDigits {
		digits = digits[:MaxFractionDigits]
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return calendar.Seconds{}, err
	}
	scale := 1
	for range digits {
		scale *= 10
	}
	return calendar.SecondsOf(n * calendar.Day / scale), nil
}

func calendarDate(year int, rest string) (calendar.CalendarMoment, error) {
	if m := civilRe.FindStringSubmatch(rest); m != nil {
		month, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		cm, err := calendar.FromCivil(year, month, day)
		if err != nil {
			return calendar.CalendarMoment{}, err
		}
		secs, err := clock(m[3], m[4], m[5])
		if err != nil {
			return calendar.CalendarMoment{}, err
		}
		cm.Seconds = secs
		return cm, nil
	}

	m := ordinalRe.FindStringSubmatch(rest)
	if m == nil {
		return calendar.CalendarMoment{}, errors.New("malformed calendar date")
	}
	n, _ := strconv.Atoi(m[1])
	if n < 1 || n > calendar.YearLength(year) {
		return calendar.CalendarMoment{}, fmt.Errorf("day %d of %d: %w", n, year, calendar.ErrInvalidCalendarDate)
	}
	secs, err := clock(m[2], m[3], m[4])
	if err != nil {
		return calendar.CalendarMoment{}, err
	}
	return calendar.CalendarMoment{Year: year, DayOfYear: n - 1, Seconds: secs}, nil
}

// clock converts optional hour, minute and second fields to seconds after
// midnight. All empty means no time of day.
func clock(h, m, s string) (calendar.Seconds, error) {
	if h == "" {
		return calendar.Seconds{}, nil
	}
	hour, _ := strconv.Atoi(h)
	minute, _ := strconv.Atoi(m)
	second := 0
	if s != "" {
		second, _ = strconv.Atoi(s)
	}
	if hour > 23 || minute > 59 || second > 59 {
		return calendar.Seconds{}, fmt.Errorf("%s:%s:%s: %w", h, m, s, calendar.ErrInvalidTime)
	}
	return calendar.SecondsOf(hour*calendar.Hour + minute*calendar.Minute + second), nil
}
