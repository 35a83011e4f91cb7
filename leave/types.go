/*
Package leave computes an employee's leave balance broken down by
entitlement period for a range of applied leave days.

PURPOSE:
  Given the ordered day list of a leave application, the package:
  - segments the days by the entitlement period each falls into
  - fetches the period's entitlement snapshot at the period boundary
  - walks the days in date order, decrementing a running balance
  - leaves weekend/holiday days out of the deduction
  - flags whether the running balance ever goes negative

  Everything around it (HTTP parameter parsing, response shaping,
  persistence) is thin adapter code; the collaborators that feed the
  computation are injected interfaces (see collaborators.go).

KEY CONCEPTS IN THIS FILE (types.go):
  - LeaveDay: one applied day with its length and status
  - EntitlementSnapshot: a period's aggregate entitlement/usage figures
  - PeriodBreakdown / BreakdownResult: the per-period output

DESIGN PRINCIPLES:
  1. Precision: decimal.Decimal for every length and balance - running
     balances feed user-facing negative/positive determinations and must
     not drift
  2. Ordered slices, not keyed maps: days are a date-sorted sequence with
     a strict-ascending invariant checked at the boundary
  3. Read-only collaborators: the assembler owns the running totals; the
     snapshots and day lists it consumes are never mutated

SEE ALSO:
  - breakdown.go: segmenter, walker, assembler
  - collaborators.go: the injected interfaces
  - errors.go: error kinds
*/
package leave

import (
	"github.com/shopspring/decimal"
	"github.com/warp/leave-engine/generic"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type EmployeeID string
type LeaveTypeID string

// =============================================================================
// LEAVE DAY - One applied day
// =============================================================================

// DayStatus classifies an applied leave day. Weekend and holiday days are
// non-deducting: they appear in the breakdown but never consume balance.
type DayStatus string

const (
	DayNormal  DayStatus = "normal"
	DayWeekend DayStatus = "weekend"
	DayHoliday DayStatus = "holiday"
)

// Deducting reports whether a day of this status consumes balance.
func (s DayStatus) Deducting() bool { return s == DayNormal }

// Key returns the wire-level status key (weekend 4, holiday 5, normal 0).
func (s DayStatus) Key() int {
	switch s {
	case DayWeekend:
		return 4
	case DayHoliday:
		return 5
	default:
		return 0
	}
}

// LeaveDay is one applied leave day.
// Length is always zero for non-deducting statuses. StatusName carries the
// human-readable name for weekend/holiday days and is empty otherwise.
type LeaveDay struct {
	Date       generic.TimePoint
	Length     decimal.Decimal
	Status     DayStatus
	StatusName string
}

// =============================================================================
// ENTITLEMENT SNAPSHOT - Aggregate figures for one period window
// =============================================================================

// EntitlementSnapshot is the entitlement calculator's result for a window
// [AsAtDate, EndDate]. Balance is the starting balance for the walk: it is
// not yet adjusted for the days in the current breakdown segment.
type EntitlementSnapshot struct {
	Entitled  decimal.Decimal
	Used      decimal.Decimal
	Scheduled decimal.Decimal
	Pending   decimal.Decimal
	Taken     decimal.Decimal
	Balance   decimal.Decimal

	AsAtDate generic.TimePoint
	EndDate  generic.TimePoint
}

// =============================================================================
// BREAKDOWN OUTPUT
// =============================================================================

// LeaveEntry is one day within a breakdown. Balance is the running balance
// after accounting for this day.
type LeaveEntry struct {
	Date       generic.TimePoint
	Length     decimal.Decimal
	Status     DayStatus
	StatusName string
	Balance    decimal.Decimal
}

// PeriodBreakdown is the breakdown of one entitlement period: the period,
// its snapshot, and the walked day entries in date order.
type PeriodBreakdown struct {
	Period  generic.Period
	Balance EntitlementSnapshot
	Leaves  []LeaveEntry
}

// BreakdownResult is the full breakdown across periods. Negative is true
// iff any entry's running balance in any period is below zero.
type BreakdownResult struct {
	Negative  bool
	Breakdown []PeriodBreakdown
}

// BalanceResult is what the top-level query produces: a full breakdown when
// an applied range was given and days were found, otherwise a bare
// snapshot. Exactly one field is set.
type BalanceResult struct {
	Breakdown *BreakdownResult
	Balance   *EntitlementSnapshot
}
