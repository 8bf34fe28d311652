package database

import (
	"fmt"
	"regexp"
	"time"

	"github.com/zapponejosh/julian/internal/calendar"
)

// Adoption records when a region switched from the Julian to the Gregorian
// calendar.
type Adoption struct {
	Code              string    `json:"code" yaml:"code"`                               // short lowercase key, e.g. "gb"
	Name              string    `json:"name" yaml:"name"`                               // display name
	FirstGregorianJDN int       `json:"first_gregorian_jdn" yaml:"first_gregorian_jdn"` // first New Style day
	Notes             *string   `json:"notes,omitempty" yaml:"notes,omitempty"`         // nullable
	CreatedAt         time.Time `json:"created_at" yaml:"-"`
	UpdatedAt         time.Time `json:"updated_at" yaml:"-"`
}

var codePattern = regexp.MustCompile(`^[a-z][a-z0-9_-]{1,15}$`)

// Validate checks the fields a caller may set.
func (a *Adoption) Validate() error {
	if !codePattern.MatchString(a.Code) {
		return fmt.Errorf("code %q must be 2-16 lowercase letters, digits, '-' or '_'", a.Code)
	}
	if a.Name == "" {
		return fmt.Errorf("name is required")
	}
	if a.FirstGregorianJDN < calendar.GregReform || a.FirstGregorianJDN > calendar.MaxDayNumber {
		return fmt.Errorf("first_gregorian_jdn %d must be on or after %d", a.FirstGregorianJDN, calendar.GregReform)
	}
	return nil
}

// OldStyleApplies reports whether dayNumber falls between the Reformation and
// the region's adoption, when its civil dates were still Julian.
func (a *Adoption) OldStyleApplies(dayNumber int) bool {
	return calendar.OldStyleAppliesUntil(dayNumber, a.FirstGregorianJDN)
}

// FirstGregorian returns the first New Style day of the region.
func (a *Adoption) FirstGregorian() (calendar.CalendarMoment, error) {
	return calendar.FromJulianMoment(calendar.JulianMoment{DayNumber: a.FirstGregorianJDN})
}

// LastJulian returns the last Old Style day of the region, in the Julian
// calendar.
func (a *Adoption) LastJulian() (calendar.CalendarMoment, error) {
	return calendar.ToOldStyle(calendar.JulianMoment{DayNumber: a.FirstGregorianJDN - 1})
}
