/*
breakdown.go - Per-period leave balance breakdown

PURPOSE:
  The three stages of the computation, leaf-first:
  - segment: group date-ordered days into consecutive entitlement periods
  - walk:    decrement a running balance through one period's day group
  - Assembler.Assemble: combine segments, snapshots and walks into the
    final BreakdownResult

INVARIANTS:
  - Concatenating the segments' day groups in order reproduces the input
    day sequence exactly
  - The running balance never increases during a walk; weekend/holiday
    days leave it untouched
  - Either the full BreakdownResult is produced or an error is returned;
    there are no partial results
*/
package leave

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/warp/leave-engine/generic"
)

// =============================================================================
// ASSEMBLER
// =============================================================================

// Assembler computes leave balance breakdowns. All three collaborators are
// required; they are injected once at construction.
type Assembler struct {
	Periods      PeriodResolver
	Entitlements EntitlementCalculator
	Days         LeaveDaySource
}

// NewAssembler wires an assembler from its collaborators.
func NewAssembler(periods PeriodResolver, entitlements EntitlementCalculator, days LeaveDaySource) *Assembler {
	return &Assembler{Periods: periods, Entitlements: entitlements, Days: days}
}

// =============================================================================
// SEGMENTER - Group days by entitlement period
// =============================================================================

type segment struct {
	period generic.Period
	days   []LeaveDay
}

// segmentDays walks the day list in order, opening a new group whenever a
// day falls past the current period's end. The initial group exists even
// when no day matches it. Applied leave rarely spans more than two cycles,
// but days of different cycles must never be merged: their entitlement
// snapshots differ.
func (a *Assembler) segmentDays(ctx context.Context, employee EmployeeID, leaveType LeaveTypeID, days []LeaveDay, initial generic.Period) ([]segment, error) {
	segments := []segment{{period: initial}}
	cur := 0

	for i, day := range days {
		if i > 0 && !days[i-1].Date.Before(day.Date) {
			return nil, &UnsortedInputError{Previous: days[i-1].Date, Next: day.Date}
		}

		if day.Date.After(segments[cur].period.End) {
			next, err := a.Periods.ResolvePeriod(ctx, employee, leaveType, day.Date)
			if err != nil {
				return nil, err
			}
			if next == nil {
				// A day with no enclosing period cannot be assigned a balance.
				return nil, &NoPeriodError{Employee: employee, LeaveType: leaveType, Date: day.Date}
			}
			if next.End.BeforeOrEqual(segments[cur].period.End) {
				// Resolver produced a period that does not advance: the
				// input was effectively out of order.
				return nil, &UnsortedInputError{Previous: segments[cur].period.End, Next: day.Date}
			}
			segments = append(segments, segment{period: *next})
			cur++
		}

		segments[cur].days = append(segments[cur].days, day)
	}

	return segments, nil
}

// =============================================================================
// WALKER - Running balance within one period
// =============================================================================

// walk decrements the starting balance through the group's days in order.
// Non-deducting days and zero-length normal days leave the balance
// untouched but are still emitted with the balance as of that day.
func walk(startingBalance decimal.Decimal, days []LeaveDay) []LeaveEntry {
	running := startingBalance
	entries := make([]LeaveEntry, 0, len(days))

	for _, day := range days {
		length := day.Length
		if !day.Status.Deducting() {
			length = decimal.Zero
		} else if day.Length.IsPositive() {
			running = running.Sub(day.Length)
		}

		entries = append(entries, LeaveEntry{
			Date:       day.Date,
			Length:     length,
			Status:     day.Status,
			StatusName: day.StatusName,
			Balance:    running,
		})
	}

	return entries
}

// =============================================================================
// ASSEMBLY
// =============================================================================

// Assemble computes the full per-period breakdown for an applied day list.
// startDate anchors the initial period: it is the start of the applied
// range, and days must not precede the period containing it.
func (a *Assembler) Assemble(ctx context.Context, employee EmployeeID, leaveType LeaveTypeID, days []LeaveDay, startDate generic.TimePoint) (*BreakdownResult, error) {
	initial, err := a.Periods.ResolvePeriod(ctx, employee, leaveType, startDate)
	if err != nil {
		return nil, err
	}
	if initial == nil {
		return nil, &NoPeriodError{Employee: employee, LeaveType: leaveType, Date: startDate}
	}

	segments, err := a.segmentDays(ctx, employee, leaveType, days, *initial)
	if err != nil {
		return nil, err
	}

	negative := false
	breakdown := make([]PeriodBreakdown, 0, len(segments))

	for _, seg := range segments {
		// Snapshot window: the period bounds, widened to the actual
		// first/last applied day when those fall outside them.
		from, to := seg.period.Start, seg.period.End
		if n := len(seg.days); n > 0 {
			if seg.days[0].Date.Before(from) {
				from = seg.days[0].Date
			}
			if seg.days[n-1].Date.After(to) {
				to = seg.days[n-1].Date
			}
		}

		snapshot, err := a.Entitlements.Compute(ctx, employee, leaveType, from, to)
		if err != nil {
			return nil, err
		}

		entries := walk(snapshot.Balance, seg.days)
		// The walk never increases the balance, so the final entry holds
		// the minimum.
		if n := len(entries); n > 0 && entries[n-1].Balance.IsNegative() {
			negative = true
		}

		breakdown = append(breakdown, PeriodBreakdown{
			Period:  seg.period,
			Balance: snapshot,
			Leaves:  entries,
		})
	}

	return &BreakdownResult{Negative: negative, Breakdown: breakdown}, nil
}

// =============================================================================
// SINGLE-POINT QUERY - Fallback when no applied range was given
// =============================================================================

// PointBalance returns the bare entitlement snapshot as of a single date,
// with no segmentation or walking. When no end date is given it defaults
// to the end of the period containing asAt, or to asAt itself if no period
// is configured.
func (a *Assembler) PointBalance(ctx context.Context, employee EmployeeID, leaveType LeaveTypeID, asAt generic.TimePoint, end *generic.TimePoint) (EntitlementSnapshot, error) {
	to := asAt
	if end != nil {
		to = *end
	} else {
		period, err := a.Periods.ResolvePeriod(ctx, employee, leaveType, asAt)
		if err != nil {
			return EntitlementSnapshot{}, err
		}
		if period != nil {
			to = period.End
		}
	}

	return a.Entitlements.Compute(ctx, employee, leaveType, asAt, to)
}

// =============================================================================
// TOP-LEVEL ENTRY POINT
// =============================================================================

// BreakdownOrBalance is the single query the caller sees: a full breakdown
// when both range dates are present and the range contains leave days,
// otherwise a point-in-time snapshot anchored at from (or today).
func (a *Assembler) BreakdownOrBalance(ctx context.Context, employee EmployeeID, leaveType LeaveTypeID, from, to *generic.TimePoint) (*BalanceResult, error) {
	if from != nil && to != nil {
		days, err := a.Days.Fetch(ctx, employee, leaveType, *from, *to)
		if err != nil {
			return nil, err
		}
		if len(days) > 0 {
			result, err := a.Assemble(ctx, employee, leaveType, days, *from)
			if err != nil {
				return nil, err
			}
			return &BalanceResult{Breakdown: result}, nil
		}
	}

	asAt := generic.Today()
	if from != nil {
		asAt = *from
	}
	snapshot, err := a.PointBalance(ctx, employee, leaveType, asAt, to)
	if err != nil {
		return nil, err
	}
	return &BalanceResult{Balance: &snapshot}, nil
}
