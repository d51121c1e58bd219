package directory

import (
	"errors"
	"time"
)

// Time-of-day validation errors.
var (
	ErrBadHour   = errors.New("directory: hour must be between 1 and 12")
	ErrBadMinute = errors.New("directory: minute must be between 0 and 59")
	ErrBadSecond = errors.New("directory: second must be between 0 and 59")
	ErrBadPeriod = errors.New("directory: period must be AM or PM")
)

// TimeOfDay is a 12-hour-clock time as entered by an admin recording a
// claim: hour 1-12 plus an AM/PM designator. When recording a new claim the
// admin can only pick a time-of-day for today, not an arbitrary past date.
type TimeOfDay struct {
	Hour   int
	Minute int
	Second int
	Period string // "AM" or "PM"
}

// Validate checks the field ranges.
func (t TimeOfDay) Validate() error {
	if t.Hour < 1 || t.Hour > 12 {
		return ErrBadHour
	}
	if t.Minute < 0 || t.Minute > 59 {
		return ErrBadMinute
	}
	if t.Second < 0 || t.Second > 59 {
		return ErrBadSecond
	}
	if t.Period != "AM" && t.Period != "PM" {
		return ErrBadPeriod
	}
	return nil
}

// On composes an instant from t on the calendar date of ref, in ref's
// location. 12 AM maps to hour 0 and 12 PM stays 12; other PM hours add 12.
func (t TimeOfDay) On(ref time.Time) (time.Time, error) {
	if err := t.Validate(); err != nil {
		return time.Time{}, err
	}

	h := t.Hour
	if t.Period == "PM" && h != 12 {
		h += 12
	}
	if t.Period == "AM" && h == 12 {
		h = 0
	}

	y, m, d := ref.Date()
	return time.Date(y, m, d, h, t.Minute, t.Second, 0, ref.Location()), nil
}
