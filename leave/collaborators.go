/*
collaborators.go - The injected interfaces the breakdown core consumes

PURPOSE:
  The core decides nothing about entitlement policy. Period layout,
  aggregate entitlement figures, and the applied day list all come from
  these three collaborators, injected into the Assembler explicitly -
  there is no lazy-init or hidden service lookup.

IMPLEMENTATIONS:
  - entitlement/: store-backed implementations used by the HTTP server
  - *Func adapters below: plain functions, used by tests
*/
package leave

import (
	"context"

	"github.com/warp/leave-engine/generic"
)

// PeriodResolver maps a date to its enclosing entitlement period for an
// employee and leave type. A nil period (with nil error) means no period
// exists: the leave type is not configured.
type PeriodResolver interface {
	ResolvePeriod(ctx context.Context, employee EmployeeID, leaveType LeaveTypeID, date generic.TimePoint) (*generic.Period, error)
}

// EntitlementCalculator computes the aggregate entitlement snapshot for an
// employee and leave type over a window [from, to].
type EntitlementCalculator interface {
	Compute(ctx context.Context, employee EmployeeID, leaveType LeaveTypeID, from, to generic.TimePoint) (EntitlementSnapshot, error)
}

// LeaveDaySource supplies the day records of an applied leave range,
// sorted ascending by date. The core verifies the ordering and fails with
// ErrUnsortedInput if the contract is violated.
type LeaveDaySource interface {
	Fetch(ctx context.Context, employee EmployeeID, leaveType LeaveTypeID, from, to generic.TimePoint) ([]LeaveDay, error)
}

// Function adapters, mainly for tests.

type PeriodResolverFunc func(ctx context.Context, employee EmployeeID, leaveType LeaveTypeID, date generic.TimePoint) (*generic.Period, error)

func (f PeriodResolverFunc) ResolvePeriod(ctx context.Context, employee EmployeeID, leaveType LeaveTypeID, date generic.TimePoint) (*generic.Period, error) {
	return f(ctx, employee, leaveType, date)
}

type EntitlementCalculatorFunc func(ctx context.Context, employee EmployeeID, leaveType LeaveTypeID, from, to generic.TimePoint) (EntitlementSnapshot, error)

func (f EntitlementCalculatorFunc) Compute(ctx context.Context, employee EmployeeID, leaveType LeaveTypeID, from, to generic.TimePoint) (EntitlementSnapshot, error) {
	return f(ctx, employee, leaveType, from, to)
}

type LeaveDaySourceFunc func(ctx context.Context, employee EmployeeID, leaveType LeaveTypeID, from, to generic.TimePoint) ([]LeaveDay, error)

func (f LeaveDaySourceFunc) Fetch(ctx context.Context, employee EmployeeID, leaveType LeaveTypeID, from, to generic.TimePoint) ([]LeaveDay, error) {
	return f(ctx, employee, leaveType, from, to)
}
