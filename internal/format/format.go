// Package format renders calendar and Julian moments as text.
//
// Output shape is controlled by an Options value passed to every call; the
// package holds no state of its own.
package format

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/zapponejosh/julian/internal/calendar"
)

// DefaultPlaces is the number of fraction digits shown for Julian dates.
const DefaultPlaces = 5

// Options controls how moments are rendered.
type Options struct {
	Places         int  // fraction digits of Julian dates, 0 for none
	DayOfYear      bool // YYYY-DDD instead of YYYY-MM-DD
	IntegerSeconds bool // JDN:SECS instead of JDN.FFFFF
}

// DefaultOptions returns the options used by the julian command.
func DefaultOptions() Options {
	return Options{Places: DefaultPlaces}
}

// Calendar renders m as YYYY-MM-DD (or YYYY-DDD) followed by THH:MM:SSZ when
// the time of day is known. Years are zero-padded to four digits and signed
// when negative.
func Calendar(m calendar.CalendarMoment, opts Options) (string, error) {
	return render(m, calendar.KindOf(m.Year), opts)
}

// OldStyle renders a moment produced by calendar.ToOldStyle, prefixed "O.S.".
func OldStyle(m calendar.CalendarMoment, opts Options) (string, error) {
	s, err := render(m, calendar.JulianKindOf(m.Year), opts)
	if err != nil {
		return "", err
	}
	return "O.S. " + s, nil
}

func render(m calendar.CalendarMoment, kind calendar.LeapKind, opts Options) (string, error) {
	var b strings.Builder
	if opts.DayOfYear {
		fmt.Fprintf(&b, "%.4d-%03d", m.Year, m.DayOfYear+1)
	} else {
		month, day, err := calendar.BreakDays(m.DayOfYear, kind)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "%.4d-%02d-%02d", m.Year, month, day)
	}
	if secs, ok := m.Seconds.Get(); ok {
		b.WriteString("T")
		b.WriteString(Clock(secs))
		b.WriteString("Z")
	}
	return b.String(), nil
}

// Clock renders seconds after midnight as HH:MM:SS.
func Clock(secs int) string {
	return fmt.Sprintf("%02d:%02d:%02d", secs/calendar.Hour, secs%calendar.Hour/calendar.Minute, secs%calendar.Minute)
}

// Julian renders jm as a decimal Julian date rounded to opts.Places digits,
// or as JDN:SECS with IntegerSeconds. The fraction is always a positive
// offset from the printed day number, so -2.50000 is half a day after -2.
// Without a fraction the day number is followed by " ± 0.5".
func Julian(jm calendar.JulianMoment, opts Options) string {
	frac, ok := jm.Fraction.Get()
	if opts.IntegerSeconds {
		if !ok {
			return strconv.Itoa(jm.DayNumber) + " ± 0.5"
		}
		return fmt.Sprintf("%d:%d", jm.DayNumber, frac)
	}
	if opts.Places <= 0 {
		return strconv.Itoa(jm.DayNumber)
	}
	if !ok {
		return strconv.Itoa(jm.DayNumber) + " ± 0.5"
	}

	day, digits := roundFraction(jm.DayNumber, frac, opts.Places)
	return fmt.Sprintf("%d.%0*d", day, opts.Places, digits)
}

// roundFraction rounds frac/Day half up to places decimal digits, carrying
// into the day number when the fraction rounds up to a whole day.
func roundFraction(day, frac, places int) (int, int) {
	scale := 1
	for i := 0; i < places; i++ {
		scale *= 10
	}
	digits := (2*frac*scale + calendar.Day) / (2 * calendar.Day)
	if digits >= scale {
		return day + 1, 0
	}
	return day, digits
}
