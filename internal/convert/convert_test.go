package convert

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zapponejosh/julian/internal/calendar"
	"github.com/zapponejosh/julian/internal/format"
	"github.com/zapponejosh/julian/internal/parse"
)

func TestParseMode(t *testing.T) {
	for _, s := range []string{"off", "reform", "always"} {
		m, err := ParseMode(s)
		require.NoError(t, err)
		assert.Equal(t, Mode(s), m)
	}
	_, err := ParseMode("sometimes")
	assert.Error(t, err)
}

func TestOldStyle_Applies(t *testing.T) {
	tests := []struct {
		name      string
		policy    OldStyle
		dayNumber int
		want      bool
	}{
		{"off", OldStyle{Mode: ModeOff}, 2300000, false},
		{"reform before reformation", OldStyle{Mode: ModeReform}, calendar.GregReform - 1, false},
		{"reform at reformation", OldStyle{Mode: ModeReform}, calendar.GregReform, true},
		{"reform before uk", OldStyle{Mode: ModeReform}, calendar.UKReform - 1, true},
		{"reform at uk", OldStyle{Mode: ModeReform}, calendar.UKReform, false},
		{"always after uk", OldStyle{Mode: ModeAlways}, 2451545, true},
		{"always before reformation", OldStyle{Mode: ModeAlways}, calendar.GregReform - 1, false},
		{"france before cutover", OldStyle{Mode: ModeReform, Cutover: 2299227}, 2299226, true},
		{"france at cutover", OldStyle{Mode: ModeReform, Cutover: 2299227}, 2299227, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.policy.Applies(tt.dayNumber))
		})
	}
}

func TestConverter_String(t *testing.T) {
	tests := []struct {
		name   string
		policy OldStyle
		input  string
		text   string
		quiet  string
	}{
		{"calendar date", OldStyle{}, "2000-01-01", "2000-01-01 = 2451545 ± 0.5", "2451545 ± 0.5"},
		{"calendar time", OldStyle{}, "2000-01-01T00:00:00Z", "2000-01-01T00:00:00Z = 2451544.50000", "2451544.50000"},
		{"julian", OldStyle{}, "2451545.0", "2451545.00000 = 2000-01-01T12:00:00Z", "2000-01-01T12:00:00Z"},
		{"julian old style", OldStyle{Mode: ModeReform}, "2299161", "2299161 ± 0.5 = 1582-10-15 [O.S. 1582-10-05]", "1582-10-15 [O.S. 1582-10-05]"},
		{"julian old style off", OldStyle{}, "2299161", "2299161 ± 0.5 = 1582-10-15", "1582-10-15"},
		{"julian old style always", OldStyle{Mode: ModeAlways}, "2451545", "2451545 ± 0.5 = 2000-01-01 [O.S. 1999-12-19]", "2000-01-01 [O.S. 1999-12-19]"},
		{"julian past uk", OldStyle{Mode: ModeReform}, "2451545", "2451545 ± 0.5 = 2000-01-01", "2000-01-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(format.DefaultOptions(), tt.policy)
			r, err := c.String(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.input, r.Input)
			assert.Equal(t, tt.text, r.Text(false))
			assert.Equal(t, tt.quiet, r.Text(true))
		})
	}
}

func TestConverter_Kinds(t *testing.T) {
	c := New(format.DefaultOptions(), OldStyle{})

	r, err := c.String("2000-01-01")
	require.NoError(t, err)
	assert.Equal(t, KindCalendar, r.Kind)
	assert.Equal(t, calendar.JulianMoment{DayNumber: 2451545}, r.JulianMoment)

	r, err = c.String("2451545")
	require.NoError(t, err)
	assert.Equal(t, KindJulian, r.Kind)
	assert.Equal(t, calendar.CalendarMoment{Year: 2000}, r.Moment)
}

func TestConverter_Errors(t *testing.T) {
	c := New(format.DefaultOptions(), OldStyle{})

	_, err := c.String("1582-10-10")
	assert.True(t, errors.Is(err, calendar.ErrReformationGap))
	assert.True(t, errors.Is(err, parse.ErrInvalidArgument))

	_, err = c.Convert(parse.Argument{Kind: parse.KindJulian, Julian: calendar.JulianMoment{DayNumber: calendar.MaxDayNumber + 1}})
	assert.True(t, calendar.IsOutOfRange(err))

	_, err = c.FromCalendar(calendar.CalendarMoment{Year: 2001, DayOfYear: 365})
	assert.True(t, calendar.IsInvalidDate(err))
}

func TestConverter_Now(t *testing.T) {
	c := New(format.DefaultOptions(), OldStyle{})
	r, err := c.Now(time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, KindNow, r.Kind)
	assert.Equal(t, "2000-01-01T12:00:00Z", r.Input)
	assert.Equal(t, "2000-01-01T12:00:00Z = 2451545.00000", r.Text(false))
}

func TestConverter_DayOfYear(t *testing.T) {
	c := New(format.Options{Places: 2, DayOfYear: true}, OldStyle{})
	r, err := c.String("2024-12-31T18:00:00")
	require.NoError(t, err)
	assert.Equal(t, "2024-366T18:00:00Z = 2460676.25", r.Text(false))
}
