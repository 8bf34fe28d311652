// Package convert turns parsed date arguments into rendered conversions.
// It sits between the front ends (the julian command and the HTTP API) and
// the calendar and format packages.
package convert

import (
	"fmt"
	"strings"
	"time"

	"github.com/zapponejosh/julian/internal/calendar"
	"github.com/zapponejosh/julian/internal/format"
	"github.com/zapponejosh/julian/internal/parse"
)

// Mode selects when Old Style dates accompany Julian-to-calendar conversions.
type Mode string

const (
	ModeOff    Mode = "off"
	ModeReform Mode = "reform" // from the Reformation until the cutover
	ModeAlways Mode = "always" // from the Reformation onwards
)

// ParseMode validates s as a Mode.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeOff, ModeReform, ModeAlways:
		return m, nil
	default:
		return "", fmt.Errorf("unknown old style mode %q (want off, reform or always)", s)
	}
}

// OldStyle decides which day numbers get an Old Style rendering.
type OldStyle struct {
	Mode Mode
	// Cutover is the first Gregorian day number of the region whose Old
	// Style is shown. Zero means Great Britain.
	Cutover int
}

// Applies reports whether dayNumber should be shown Old Style.
func (o OldStyle) Applies(dayNumber int) bool {
	switch o.Mode {
	case ModeAlways:
		return calendar.OldStyleApplies(dayNumber, true)
	case ModeReform:
		if o.Cutover == 0 {
			return calendar.OldStyleApplies(dayNumber, false)
		}
		return calendar.OldStyleAppliesUntil(dayNumber, o.Cutover)
	default:
		return false
	}
}

// Result is one finished conversion.
type Result struct {
	Input        string                  `json:"input" yaml:"input"`
	Kind         string                  `json:"kind" yaml:"kind"`
	Calendar     string                  `json:"calendar" yaml:"calendar"`
	Julian       string                  `json:"julian" yaml:"julian"`
	OldStyle     string                  `json:"old_style,omitempty" yaml:"old_style,omitempty"`
	Moment       calendar.CalendarMoment `json:"moment" yaml:"moment"`
	JulianMoment calendar.JulianMoment   `json:"julian_moment" yaml:"julian_moment"`
}

// Kinds reported in Result.Kind.
const (
	KindCalendar = "calendar"
	KindJulian   = "julian"
	KindNow      = "now"
)

// Text renders r as a line of the julian command's output. Calendar input
// reads "DATE = JD", Julian input "JD = DATE". With quiet only the right hand
// side is kept. An Old Style date is appended in brackets either way.
func (r Result) Text(quiet bool) string {
	var b strings.Builder
	if r.Kind == KindJulian {
		if !quiet {
			b.WriteString(r.Julian + " = ")
		}
		b.WriteString(r.Calendar)
		if r.OldStyle != "" {
			b.WriteString(" [" + r.OldStyle + "]")
		}
		return b.String()
	}
	if !quiet {
		b.WriteString(r.Calendar + " = ")
	}
	b.WriteString(r.Julian)
	return b.String()
}

// Converter converts arguments with fixed output options.
type Converter struct {
	Format   format.Options
	OldStyle OldStyle
}

// New returns a Converter with the given options.
func New(opts format.Options, oldStyle OldStyle) *Converter {
	return &Converter{Format: opts, OldStyle: oldStyle}
}

// String parses and converts s.
func (c *Converter) String(s string) (Result, error) {
	arg, err := parse.Parse(s)
	if err != nil {
		return Result{}, err
	}
	return c.Convert(arg)
}

// Convert converts a parsed argument to the other side.
func (c *Converter) Convert(arg parse.Argument) (Result, error) {
	if arg.Kind == parse.KindJulian {
		r, err := c.FromJulian(arg.Julian)
		r.Input = arg.Input
		return r, err
	}
	r, err := c.FromCalendar(arg.Calendar)
	r.Input = arg.Input
	return r, err
}

// FromCalendar converts a calendar moment to its Julian date.
func (c *Converter) FromCalendar(m calendar.CalendarMoment) (Result, error) {
	jm, err := calendar.ToJulianMoment(m)
	if err != nil {
		return Result{}, err
	}
	date, err := format.Calendar(m, c.Format)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Kind:         KindCalendar,
		Calendar:     date,
		Julian:       format.Julian(jm, c.Format),
		Moment:       m,
		JulianMoment: jm,
	}, nil
}

// FromJulian converts a Julian date to its calendar moment, adding the Old
// Style date when the policy applies.
func (c *Converter) FromJulian(jm calendar.JulianMoment) (Result, error) {
	m, err := calendar.FromJulianMoment(jm)
	if err != nil {
		return Result{}, err
	}
	date, err := format.Calendar(m, c.Format)
	if err != nil {
		return Result{}, err
	}
	r := Result{
		Kind:         KindJulian,
		Calendar:     date,
		Julian:       format.Julian(jm, c.Format),
		Moment:       m,
		JulianMoment: jm,
	}
	if c.OldStyle.Applies(jm.DayNumber) {
		old, err := calendar.ToOldStyle(jm)
		if err != nil {
			return Result{}, err
		}
		if r.OldStyle, err = format.OldStyle(old, c.Format); err != nil {
			return Result{}, err
		}
	}
	return r, nil
}

// Now converts the instant t, which is read in UTC.
func (c *Converter) Now(t time.Time) (Result, error) {
	r, err := c.FromCalendar(calendar.FromTime(t))
	if err != nil {
		return Result{}, err
	}
	r.Kind = KindNow
	r.Input = t.UTC().Format(time.RFC3339)
	return r, nil
}
