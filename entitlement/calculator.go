package entitlement

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/warp/leave-engine/generic"
	"github.com/warp/leave-engine/leave"
	"github.com/warp/leave-engine/store/sqlite"
)

// =============================================================================
// ENTITLEMENT CALCULATOR
// =============================================================================

// Calculator computes aggregate entitlement snapshots from stored grants
// and recorded leave. Implements leave.EntitlementCalculator.
type Calculator struct {
	Store *sqlite.Store
}

func NewCalculator(store *sqlite.Store) *Calculator {
	return &Calculator{Store: store}
}

// Compute sums entitlement grants overlapping [from, to] and the recorded
// leave within it:
//
//	taken     leave already deducted
//	scheduled approved leave still ahead
//	pending   leave awaiting approval
//	used      taken + scheduled + pending
//	balance   entitled - used
//
// The returned snapshot echoes the window actually used.
func (c *Calculator) Compute(ctx context.Context, employee leave.EmployeeID, leaveType leave.LeaveTypeID, from, to generic.TimePoint) (leave.EntitlementSnapshot, error) {
	grants, err := c.Store.EntitlementsOverlapping(ctx, string(employee), string(leaveType), from.Time, to.Time)
	if err != nil {
		return leave.EntitlementSnapshot{}, err
	}

	entitled := decimal.Zero
	for _, g := range grants {
		entitled = entitled.Add(g.Days)
	}

	records, err := c.Store.LeaveRecordsInRange(ctx, string(employee), string(leaveType), from.Time, to.Time)
	if err != nil {
		return leave.EntitlementSnapshot{}, err
	}

	taken, scheduled, pending := decimal.Zero, decimal.Zero, decimal.Zero
	for _, rec := range records {
		switch rec.Status {
		case sqlite.LeaveStatusTaken:
			taken = taken.Add(rec.Length)
		case sqlite.LeaveStatusScheduled:
			scheduled = scheduled.Add(rec.Length)
		case sqlite.LeaveStatusPending:
			pending = pending.Add(rec.Length)
		}
		// Rejected and cancelled records never count against the balance.
	}

	used := taken.Add(scheduled).Add(pending)

	return leave.EntitlementSnapshot{
		Entitled:  entitled,
		Used:      used,
		Scheduled: scheduled,
		Pending:   pending,
		Taken:     taken,
		Balance:   entitled.Sub(used),
		AsAtDate:  from,
		EndDate:   to,
	}, nil
}

var _ leave.EntitlementCalculator = (*Calculator)(nil)
