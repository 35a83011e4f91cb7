/*
Package entitlement provides the store-backed collaborators the breakdown
core consumes: the period resolver, the entitlement calculator, and the
applied-range day source.

PURPOSE:
  leave/ defines the interfaces and owns the algorithm; this package binds
  them to the SQLite store. Entitlement policy itself (how many days were
  granted, accrual, carry-forward) is not decided here - grants are read
  as stored.

SEE ALSO:
  - leave/collaborators.go: the interfaces implemented here
  - store/sqlite/: the persistence layer underneath
*/
package entitlement

import (
	"context"
	"fmt"
	"time"

	"github.com/warp/leave-engine/generic"
	"github.com/warp/leave-engine/leave"
	"github.com/warp/leave-engine/store/sqlite"
)

// =============================================================================
// PERIOD RESOLVER
// =============================================================================

// Resolver maps dates to entitlement periods using the leave type's stored
// period configuration. Implements leave.PeriodResolver.
type Resolver struct {
	Store *sqlite.Store
}

func NewResolver(store *sqlite.Store) *Resolver {
	return &Resolver{Store: store}
}

// ResolvePeriod returns the entitlement period containing the date, or nil
// when the leave type does not exist or carries no period configuration.
func (r *Resolver) ResolvePeriod(ctx context.Context, employee leave.EmployeeID, leaveType leave.LeaveTypeID, date generic.TimePoint) (*generic.Period, error) {
	lt, err := r.Store.GetLeaveType(ctx, string(leaveType))
	if err != nil {
		return nil, err
	}
	if lt == nil || lt.PeriodType == "" {
		return nil, nil
	}

	config := generic.PeriodConfig{
		Type:       generic.PeriodType(lt.PeriodType),
		StartMonth: time.Month(lt.PeriodStartMonth),
		StartDay:   lt.PeriodStartDay,
	}

	if config.Type == generic.PeriodAnniversary {
		emp, err := r.Store.GetEmployee(ctx, string(employee))
		if err != nil {
			return nil, err
		}
		if emp == nil {
			return nil, fmt.Errorf("resolving period for %s: %w", employee, leave.ErrEmployeeNotFound)
		}
		anchor := generic.FromTime(emp.HireDate)
		config.AnchorDate = &anchor
	}

	period := config.PeriodFor(date)
	return &period, nil
}

var _ leave.PeriodResolver = (*Resolver)(nil)
