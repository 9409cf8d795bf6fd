package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// DayFormat is the canonical wire and storage format for calendar days.
const DayFormat = "2006-01-02"

var ErrInvalidDay = errors.New("invalid date (expected YYYY-MM-DD)")

// Day is a calendar day with no time-of-day component. Every date in the
// system goes through this type so that record keys, range membership and
// streak walks all agree on what "a day" is: the value is pinned to
// midnight UTC and never shifted by a local timezone.
//
// The zero Day means "no date" and never matches any range.
type Day struct {
	t time.Time
}

// NewDay returns the normalized Day for the given year, month and day.
// Out-of-range components roll over the way time.Date does.
func NewDay(year int, month time.Month, day int) Day {
	return Day{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DayOf truncates an instant to the calendar day it falls on in UTC.
func DayOf(t time.Time) Day {
	y, m, d := t.UTC().Date()
	return NewDay(y, m, d)
}

// Today returns the current calendar day in UTC.
func Today() Day {
	return DayOf(time.Now())
}

// ParseDay parses a strict YYYY-MM-DD string as a UTC calendar day.
func ParseDay(s string) (Day, error) {
	t, err := time.Parse(DayFormat, s)
	if err != nil {
		return Day{}, fmt.Errorf("%w: %q", ErrInvalidDay, s)
	}
	return DayOf(t), nil
}

// MustParseDay is ParseDay that panics on error. Test helper.
func MustParseDay(s string) Day {
	d, err := ParseDay(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Day) IsZero() bool { return d.t.IsZero() }

func (d Day) String() string { return d.t.Format(DayFormat) }

func (d Day) Year() int { return d.t.Year() }

func (d Day) Month() time.Month { return d.t.Month() }

func (d Day) DayOfMonth() int { return d.t.Day() }

func (d Day) Weekday() time.Weekday { return d.t.Weekday() }

// AddDays returns the day n calendar days after d (before, when negative).
func (d Day) AddDays(n int) Day {
	return DayOf(d.t.AddDate(0, 0, n))
}

// AddMonths returns the day n calendar months after d, normalized.
func (d Day) AddMonths(n int) Day {
	return DayOf(d.t.AddDate(0, n, 0))
}

func (d Day) Before(x Day) bool { return d.t.Before(x.t) }

func (d Day) After(x Day) bool { return d.t.After(x.t) }

func (d Day) Equal(x Day) bool { return d.t.Equal(x.t) }

// DaysUntil returns the number of calendar days from d to x,
// negative when x is before d.
func (d Day) DaysUntil(x Day) int {
	return int(x.t.Sub(d.t).Hours() / 24)
}

// MonthStart returns the first day of d's month.
func (d Day) MonthStart() Day {
	return NewDay(d.t.Year(), d.t.Month(), 1)
}

// Quarter returns the calendar quarter of d, 1 through 4.
func (d Day) Quarter() int {
	return (int(d.t.Month())-1)/3 + 1
}

// QuarterStart returns the first day of d's calendar quarter.
func (d Day) QuarterStart() Day {
	m := time.Month((d.Quarter()-1)*3 + 1)
	return NewDay(d.t.Year(), m, 1)
}

func (d Day) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Day) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	day, err := ParseDay(s)
	if err != nil {
		return err
	}
	*d = day
	return nil
}

// Value stores the day as a plain DATE.
func (d Day) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.t, nil
}

// Scan accepts DATE columns (time.Time) and textual representations.
func (d *Day) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = Day{}
		return nil
	case time.Time:
		*d = DayOf(v)
		return nil
	case string:
		return d.scanString(v)
	case []byte:
		return d.scanString(string(v))
	default:
		return fmt.Errorf("cannot scan %T into Day", src)
	}
}

func (d *Day) scanString(s string) error {
	if len(s) > len(DayFormat) {
		s = s[:len(DayFormat)]
	}
	day, err := ParseDay(s)
	if err != nil {
		return err
	}
	*d = day
	return nil
}

var _ json.Marshaler = (*Day)(nil)
var _ json.Unmarshaler = (*Day)(nil)
