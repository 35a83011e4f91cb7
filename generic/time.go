/*
Package generic provides the date and period primitives the leave engine
is built on.

PURPOSE:
  Leave balances are tracked at day granularity over fixed accrual cycles.
  This package owns the two concepts everything else leans on:
  - TimePoint: a calendar date (UTC, day granularity, no clock component)
  - Period:    a contiguous [start, end] date range (an entitlement cycle)

DESIGN PRINCIPLES:
  1. Dates are values: TimePoint is comparable and safe to copy
  2. Day granularity only: the clock portion of time.Time is always zeroed
  3. Structured dates are the sort key - never formatted date strings

SEE ALSO:
  - period.go: Period and the period strategies
  - leave/: the breakdown core consuming these types
*/
package generic

import (
	"context"
	"time"
)

// =============================================================================
// TIME POINT - A calendar date
// =============================================================================

// TimePoint is a single calendar date at day granularity.
// The wrapped time.Time is always midnight UTC.
type TimePoint struct {
	Time time.Time
}

const dateLayout = "2006-01-02"

// NewTimePoint constructs a date from its components.
func NewTimePoint(year int, month time.Month, day int) TimePoint {
	return TimePoint{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// FromTime truncates an arbitrary time.Time to its calendar date.
func FromTime(t time.Time) TimePoint {
	return NewTimePoint(t.Year(), t.Month(), t.Day())
}

// ParseTimePoint parses a YYYY-MM-DD date string.
func ParseTimePoint(s string) (TimePoint, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return TimePoint{}, err
	}
	return FromTime(t), nil
}

// Today returns the current calendar date.
func Today() TimePoint {
	return FromTime(time.Now().UTC())
}

// Comparison
func (tp TimePoint) Before(other TimePoint) bool        { return tp.Time.Before(other.Time) }
func (tp TimePoint) Equal(other TimePoint) bool         { return tp.Time.Equal(other.Time) }
func (tp TimePoint) After(other TimePoint) bool         { return tp.Time.After(other.Time) }
func (tp TimePoint) BeforeOrEqual(other TimePoint) bool { return !tp.After(other) }
func (tp TimePoint) AfterOrEqual(other TimePoint) bool  { return !tp.Before(other) }

// Arithmetic
func (tp TimePoint) AddDays(n int) TimePoint  { return FromTime(tp.Time.AddDate(0, 0, n)) }
func (tp TimePoint) AddYears(n int) TimePoint { return FromTime(tp.Time.AddDate(n, 0, 0)) }

// Properties
func (tp TimePoint) Year() int             { return tp.Time.Year() }
func (tp TimePoint) Month() time.Month     { return tp.Time.Month() }
func (tp TimePoint) Day() int              { return tp.Time.Day() }
func (tp TimePoint) Weekday() time.Weekday { return tp.Time.Weekday() }
func (tp TimePoint) IsZero() bool          { return tp.Time.IsZero() }

// IsWeekend reports whether the date falls on Saturday or Sunday.
func (tp TimePoint) IsWeekend() bool {
	wd := tp.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func (tp TimePoint) String() string {
	return tp.Time.Format(dateLayout)
}

// DaysBetween returns the number of days from one date to another.
func DaysBetween(from, to TimePoint) int {
	return int(to.Time.Sub(from.Time).Hours() / 24)
}

func StartOfYear(year int) TimePoint { return NewTimePoint(year, time.January, 1) }
func EndOfYear(year int) TimePoint   { return NewTimePoint(year, time.December, 31) }

// =============================================================================
// HOLIDAY CALENDAR
// =============================================================================

// Holiday is a company holiday. Days on which a holiday falls never deduct
// from a leave balance, even inside an applied leave range.
type Holiday struct {
	ID        string
	Date      TimePoint
	Name      string
	Recurring bool // same month/day every year
}

// HolidayCalendar answers whether a given date is a holiday.
type HolidayCalendar interface {
	// HolidayOn returns the holiday falling on the date, or nil.
	HolidayOn(ctx context.Context, date TimePoint) (*Holiday, error)
}

// NoHolidays is a calendar with no holidays, for setups that track none.
type NoHolidays struct{}

func (NoHolidays) HolidayOn(context.Context, TimePoint) (*Holiday, error) { return nil, nil }
