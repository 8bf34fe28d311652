package calendar

import (
	"errors"
	"fmt"
)

// =============================================================================
// Error Types
// =============================================================================

var (
	// ErrInvalidCalendarDate is returned when a month, day or day-of-year does
	// not exist in the given year.
	ErrInvalidCalendarDate = errors.New("invalid calendar date")

	// ErrReformationGap is returned for 1582-10-05 through 1582-10-14, the days
	// removed by the Gregorian Reformation. It wraps ErrInvalidCalendarDate.
	ErrReformationGap = fmt.Errorf("date skipped by the Gregorian Reformation: %w", ErrInvalidCalendarDate)

	// ErrInvalidTime is returned when a seconds value lies outside [0, 86400).
	ErrInvalidTime = errors.New("invalid time of day")

	// ErrOutOfRange is returned when a day number or year lies outside the
	// supported range [MinDayNumber, MaxDayNumber].
	ErrOutOfRange = errors.New("out of supported range")
)

// DateError records a failed conversion and the value that caused it.
type DateError struct {
	Op    string // operation that failed, e.g. "ToJulianMoment"
	Value string // offending value as text
	Err   error  // one of the sentinel errors above
}

func (e *DateError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Value, e.Err)
}

func (e *DateError) Unwrap() error {
	return e.Err
}

func newError(op string, err error, format string, args ...any) *DateError {
	return &DateError{Op: op, Value: fmt.Sprintf(format, args...), Err: err}
}

// IsInvalidDate reports whether err is, or wraps, ErrInvalidCalendarDate.
func IsInvalidDate(err error) bool {
	return errors.Is(err, ErrInvalidCalendarDate)
}

// IsOutOfRange reports whether err is, or wraps, ErrOutOfRange.
func IsOutOfRange(err error) bool {
	return errors.Is(err, ErrOutOfRange)
}
