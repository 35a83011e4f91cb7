package entitlement

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/warp/leave-engine/generic"
	"github.com/warp/leave-engine/leave"
)

// =============================================================================
// APPLIED-RANGE DAY SOURCE
// =============================================================================

// Status names surfaced for non-deducting days.
const (
	weekendName = "Weekend"
	holidayName = "Holiday"
)

// DayGenerator produces the day list of an applied leave range: one record
// per calendar day, with weekends and holidays marked non-deducting at
// length zero. Implements leave.LeaveDaySource.
type DayGenerator struct {
	Calendar generic.HolidayCalendar

	// DayLength is the length of each deducting day (half days: 0.5).
	// Zero value means a full day.
	DayLength decimal.Decimal
}

func NewDayGenerator(calendar generic.HolidayCalendar) *DayGenerator {
	return &DayGenerator{Calendar: calendar}
}

// WithDayLength returns a copy of the generator producing deducting days
// of the given length.
func (g *DayGenerator) WithDayLength(length decimal.Decimal) *DayGenerator {
	copied := *g
	copied.DayLength = length
	return &copied
}

// Fetch generates day records for every date in [from, to], ascending.
// An inverted range yields no days.
func (g *DayGenerator) Fetch(ctx context.Context, employee leave.EmployeeID, leaveType leave.LeaveTypeID, from, to generic.TimePoint) ([]leave.LeaveDay, error) {
	length := g.DayLength
	if length.IsZero() {
		length = decimal.NewFromInt(1)
	}
	calendar := g.Calendar
	if calendar == nil {
		calendar = generic.NoHolidays{}
	}

	var days []leave.LeaveDay
	for date := from; date.BeforeOrEqual(to); date = date.AddDays(1) {
		if date.IsWeekend() {
			days = append(days, leave.LeaveDay{
				Date:       date,
				Length:     decimal.Zero,
				Status:     leave.DayWeekend,
				StatusName: weekendName,
			})
			continue
		}

		holiday, err := calendar.HolidayOn(ctx, date)
		if err != nil {
			return nil, err
		}
		if holiday != nil {
			days = append(days, leave.LeaveDay{
				Date:       date,
				Length:     decimal.Zero,
				Status:     leave.DayHoliday,
				StatusName: holidayName,
			})
			continue
		}

		days = append(days, leave.LeaveDay{
			Date:   date,
			Length: length,
			Status: leave.DayNormal,
		})
	}

	return days, nil
}

var _ leave.LeaveDaySource = (*DayGenerator)(nil)
