/*
entitlement_test.go - Store-backed collaborator tests

Runs the resolver, calculator and day generator against a seeded in-memory
SQLite store, the same wiring the API handlers use.
*/
package entitlement

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/leave-engine/generic"
	"github.com/warp/leave-engine/leave"
	"github.com/warp/leave-engine/store/sqlite"
)

// =============================================================================
// FIXTURES
// =============================================================================

// newTestStore seeds an in-memory store with one employee (hired
// 2020-09-15), three leave types, a 4-day entitlement for 2025, and the
// leave records of the worked example (3 pending, 0.5 taken).
func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	ctx := context.Background()

	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	require.NoError(t, store.SaveEmployee(ctx, sqlite.Employee{
		ID:       "emp-1",
		Name:     "Ada Example",
		Email:    "ada@example.com",
		HireDate: time.Date(2020, time.September, 15, 0, 0, 0, 0, time.UTC),
	}))

	require.NoError(t, store.SaveLeaveType(ctx, sqlite.LeaveTypeRecord{
		ID: "annual", Name: "Annual Leave", PeriodType: string(generic.PeriodCalendarYear),
	}))
	require.NoError(t, store.SaveLeaveType(ctx, sqlite.LeaveTypeRecord{
		ID: "fiscal", Name: "Fiscal Leave", PeriodType: string(generic.PeriodCustomYear),
		PeriodStartMonth: 4, PeriodStartDay: 1,
	}))
	require.NoError(t, store.SaveLeaveType(ctx, sqlite.LeaveTypeRecord{
		ID: "service", Name: "Service Leave", PeriodType: string(generic.PeriodAnniversary),
	}))
	require.NoError(t, store.SaveLeaveType(ctx, sqlite.LeaveTypeRecord{
		ID: "unpaid", Name: "Unpaid Leave",
	}))

	require.NoError(t, store.SaveEntitlement(ctx, sqlite.EntitlementRecord{
		ID: "ent-1", EmployeeID: "emp-1", LeaveTypeID: "annual",
		FromDate: time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
		ToDate:   time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC),
		Days:     decimal.NewFromInt(4),
	}))

	leaves := []sqlite.LeaveRecord{
		{ID: "lv-1", Date: time.Date(2025, time.July, 7, 0, 0, 0, 0, time.UTC), Length: decimal.NewFromInt(1), Status: sqlite.LeaveStatusPending},
		{ID: "lv-2", Date: time.Date(2025, time.July, 8, 0, 0, 0, 0, time.UTC), Length: decimal.NewFromInt(1), Status: sqlite.LeaveStatusPending},
		{ID: "lv-3", Date: time.Date(2025, time.July, 9, 0, 0, 0, 0, time.UTC), Length: decimal.NewFromInt(1), Status: sqlite.LeaveStatusPending},
		{ID: "lv-4", Date: time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC), Length: decimal.NewFromFloat(0.5), Status: sqlite.LeaveStatusTaken},
	}
	for _, l := range leaves {
		l.EmployeeID, l.LeaveTypeID = "emp-1", "annual"
		require.NoError(t, store.SaveLeaveRecord(ctx, l))
	}

	return store
}

// =============================================================================
// RESOLVER TESTS
// =============================================================================

func TestResolver_CalendarYear(t *testing.T) {
	store := newTestStore(t)
	r := NewResolver(store)

	period, err := r.ResolvePeriod(context.Background(), "emp-1", "annual", generic.NewTimePoint(2025, time.August, 17))

	require.NoError(t, err)
	require.NotNil(t, period)
	assert.Equal(t, "2025-01-01", period.Start.String())
	assert.Equal(t, "2025-12-31", period.End.String())
}

func TestResolver_CustomYear(t *testing.T) {
	store := newTestStore(t)
	r := NewResolver(store)

	// February falls in the fiscal year that started the previous April.
	period, err := r.ResolvePeriod(context.Background(), "emp-1", "fiscal", generic.NewTimePoint(2025, time.February, 10))

	require.NoError(t, err)
	require.NotNil(t, period)
	assert.Equal(t, "2024-04-01", period.Start.String())
	assert.Equal(t, "2025-03-31", period.End.String())
}

func TestResolver_AnniversaryAnchoredAtHireDate(t *testing.T) {
	store := newTestStore(t)
	r := NewResolver(store)

	period, err := r.ResolvePeriod(context.Background(), "emp-1", "service", generic.NewTimePoint(2025, time.October, 1))

	require.NoError(t, err)
	require.NotNil(t, period)
	assert.Equal(t, "2025-09-15", period.Start.String())
	assert.Equal(t, "2026-09-14", period.End.String())
}

func TestResolver_UnconfiguredTypeHasNoPeriod(t *testing.T) {
	store := newTestStore(t)
	r := NewResolver(store)

	period, err := r.ResolvePeriod(context.Background(), "emp-1", "unpaid", generic.NewTimePoint(2025, time.August, 17))

	require.NoError(t, err)
	assert.Nil(t, period)
}

func TestResolver_UnknownTypeHasNoPeriod(t *testing.T) {
	store := newTestStore(t)
	r := NewResolver(store)

	period, err := r.ResolvePeriod(context.Background(), "emp-1", "nope", generic.NewTimePoint(2025, time.August, 17))

	require.NoError(t, err)
	assert.Nil(t, period)
}

func TestResolver_AnniversaryNeedsEmployee(t *testing.T) {
	store := newTestStore(t)
	r := NewResolver(store)

	_, err := r.ResolvePeriod(context.Background(), "ghost", "service", generic.NewTimePoint(2025, time.October, 1))

	require.Error(t, err)
	assert.True(t, errors.Is(err, leave.ErrEmployeeNotFound))
}

// =============================================================================
// CALCULATOR TESTS
// =============================================================================

func TestCalculator_AggregatesGrantsAndUsage(t *testing.T) {
	// 4 days entitled; 3 pending + 0.5 taken recorded in the window.
	store := newTestStore(t)
	c := NewCalculator(store)

	snap, err := c.Compute(context.Background(), "emp-1", "annual",
		generic.NewTimePoint(2025, time.January, 1), generic.NewTimePoint(2025, time.December, 31))

	require.NoError(t, err)
	assert.True(t, snap.Entitled.Equal(decimal.NewFromInt(4)), "entitled = %s", snap.Entitled)
	assert.True(t, snap.Pending.Equal(decimal.NewFromInt(3)), "pending = %s", snap.Pending)
	assert.True(t, snap.Taken.Equal(decimal.NewFromFloat(0.5)), "taken = %s", snap.Taken)
	assert.True(t, snap.Scheduled.IsZero(), "scheduled = %s", snap.Scheduled)
	assert.True(t, snap.Used.Equal(decimal.NewFromFloat(3.5)), "used = %s", snap.Used)
	assert.True(t, snap.Balance.Equal(decimal.NewFromFloat(0.5)), "balance = %s", snap.Balance)
	assert.Equal(t, "2025-01-01", snap.AsAtDate.String())
	assert.Equal(t, "2025-12-31", snap.EndDate.String())
}

func TestCalculator_WindowExcludesOutsideRecords(t *testing.T) {
	// A window covering only June sees the taken half day, not the July
	// pending days, and still the year-wide grant.
	store := newTestStore(t)
	c := NewCalculator(store)

	snap, err := c.Compute(context.Background(), "emp-1", "annual",
		generic.NewTimePoint(2025, time.June, 1), generic.NewTimePoint(2025, time.June, 30))

	require.NoError(t, err)
	assert.True(t, snap.Entitled.Equal(decimal.NewFromInt(4)))
	assert.True(t, snap.Taken.Equal(decimal.NewFromFloat(0.5)))
	assert.True(t, snap.Pending.IsZero())
	assert.True(t, snap.Balance.Equal(decimal.NewFromFloat(3.5)))
}

func TestCalculator_RejectedAndCancelledDoNotCount(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveLeaveRecord(ctx, sqlite.LeaveRecord{
		ID: "lv-r", EmployeeID: "emp-1", LeaveTypeID: "annual",
		Date: time.Date(2025, time.August, 4, 0, 0, 0, 0, time.UTC), Length: decimal.NewFromInt(1),
		Status: sqlite.LeaveStatusRejected,
	}))
	require.NoError(t, store.SaveLeaveRecord(ctx, sqlite.LeaveRecord{
		ID: "lv-c", EmployeeID: "emp-1", LeaveTypeID: "annual",
		Date: time.Date(2025, time.August, 5, 0, 0, 0, 0, time.UTC), Length: decimal.NewFromInt(1),
		Status: sqlite.LeaveStatusCancelled,
	}))

	c := NewCalculator(store)
	snap, err := c.Compute(ctx, "emp-1", "annual",
		generic.NewTimePoint(2025, time.January, 1), generic.NewTimePoint(2025, time.December, 31))

	require.NoError(t, err)
	assert.True(t, snap.Used.Equal(decimal.NewFromFloat(3.5)), "used = %s", snap.Used)
}

func TestCalculator_NothingStoredMeansZeros(t *testing.T) {
	store := newTestStore(t)
	c := NewCalculator(store)

	snap, err := c.Compute(context.Background(), "emp-1", "annual",
		generic.NewTimePoint(2030, time.January, 1), generic.NewTimePoint(2030, time.December, 31))

	require.NoError(t, err)
	assert.True(t, snap.Entitled.IsZero())
	assert.True(t, snap.Used.IsZero())
	assert.True(t, snap.Balance.IsZero())
}

// =============================================================================
// DAY GENERATOR TESTS
// =============================================================================

func TestDayGenerator_ClassifiesWeekendsAndHolidays(t *testing.T) {
	// Fri Aug 15 through Mon Aug 18 2025; Aug 18 is a stored holiday.
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.SaveHoliday(ctx, generic.Holiday{
		ID: "hol-1", Date: generic.NewTimePoint(2025, time.August, 18), Name: "Founders Day",
	}))

	g := NewDayGenerator(store)
	days, err := g.Fetch(ctx, "emp-1", "annual",
		generic.NewTimePoint(2025, time.August, 15), generic.NewTimePoint(2025, time.August, 18))

	require.NoError(t, err)
	require.Len(t, days, 4)

	assert.Equal(t, leave.DayNormal, days[0].Status)
	assert.True(t, days[0].Length.Equal(decimal.NewFromInt(1)))

	assert.Equal(t, leave.DayWeekend, days[1].Status)
	assert.Equal(t, "Weekend", days[1].StatusName)
	assert.True(t, days[1].Length.IsZero())

	assert.Equal(t, leave.DayWeekend, days[2].Status)

	assert.Equal(t, leave.DayHoliday, days[3].Status)
	assert.Equal(t, "Holiday", days[3].StatusName)
	assert.True(t, days[3].Length.IsZero())
}

func TestDayGenerator_WeekendWinsOverHoliday(t *testing.T) {
	// A holiday falling on a Saturday is reported as a weekend.
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.SaveHoliday(ctx, generic.Holiday{
		ID: "hol-sat", Date: generic.NewTimePoint(2025, time.August, 16), Name: "Saturday Holiday",
	}))

	g := NewDayGenerator(store)
	days, err := g.Fetch(ctx, "emp-1", "annual",
		generic.NewTimePoint(2025, time.August, 16), generic.NewTimePoint(2025, time.August, 16))

	require.NoError(t, err)
	require.Len(t, days, 1)
	assert.Equal(t, leave.DayWeekend, days[0].Status)
}

func TestDayGenerator_RecurringHolidayMatchesAnyYear(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.SaveHoliday(ctx, generic.Holiday{
		ID: "hol-xmas", Date: generic.NewTimePoint(2020, time.December, 25), Name: "Christmas", Recurring: true,
	}))

	g := NewDayGenerator(store)
	// Dec 25 2025 is a Thursday.
	days, err := g.Fetch(ctx, "emp-1", "annual",
		generic.NewTimePoint(2025, time.December, 25), generic.NewTimePoint(2025, time.December, 25))

	require.NoError(t, err)
	require.Len(t, days, 1)
	assert.Equal(t, leave.DayHoliday, days[0].Status)
}

func TestDayGenerator_HalfDays(t *testing.T) {
	store := newTestStore(t)

	g := NewDayGenerator(store).WithDayLength(decimal.NewFromFloat(0.5))
	// Mon-Tue Aug 11-12 2025.
	days, err := g.Fetch(context.Background(), "emp-1", "annual",
		generic.NewTimePoint(2025, time.August, 11), generic.NewTimePoint(2025, time.August, 12))

	require.NoError(t, err)
	require.Len(t, days, 2)
	for _, d := range days {
		assert.Equal(t, leave.DayNormal, d.Status)
		assert.True(t, d.Length.Equal(decimal.NewFromFloat(0.5)), "length = %s", d.Length)
	}
}

func TestDayGenerator_InvertedRangeYieldsNoDays(t *testing.T) {
	g := NewDayGenerator(generic.NoHolidays{})

	days, err := g.Fetch(context.Background(), "emp-1", "annual",
		generic.NewTimePoint(2025, time.August, 18), generic.NewTimePoint(2025, time.August, 15))

	require.NoError(t, err)
	assert.Empty(t, days)
}
