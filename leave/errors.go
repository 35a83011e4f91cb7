/*
errors.go - Centralized error types for the leave breakdown core

ERROR CATEGORIES:
  1. Resolution errors - no entitlement period exists for a required date
  2. Contract errors   - a collaborator violated its input contract
  3. Lookup errors     - referenced employee/leave type does not exist

Collaborator failures (resolver, calculator, day source) are propagated
unchanged: the core does not retry or suppress, and no partial breakdown
is ever returned.
*/
package leave

import (
	"errors"
	"fmt"

	"github.com/warp/leave-engine/generic"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrNoPeriodFound is returned when the period resolver has no
	// entitlement period for a required date. Fatal to the whole assembly.
	ErrNoPeriodFound = errors.New("no leave period found")

	// ErrUnsortedInput is returned when the day source violates the
	// ascending-date contract. The core fails fast rather than
	// mis-segmenting silently.
	ErrUnsortedInput = errors.New("leave days out of date order")

	// ErrLeaveTypeNotFound is returned when a referenced leave type
	// does not exist.
	ErrLeaveTypeNotFound = errors.New("leave type not found")

	// ErrEmployeeNotFound is returned when a referenced employee
	// does not exist.
	ErrEmployeeNotFound = errors.New("employee not found")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// NoPeriodError reports the date for which no period could be resolved.
type NoPeriodError struct {
	Employee  EmployeeID
	LeaveType LeaveTypeID
	Date      generic.TimePoint
}

func (e *NoPeriodError) Error() string {
	return fmt.Sprintf("no leave period for %s (employee %s, leave type %s)",
		e.Date, e.Employee, e.LeaveType)
}

func (e *NoPeriodError) Unwrap() error { return ErrNoPeriodFound }

// UnsortedInputError reports the pair of dates that broke the
// strict-ascending invariant.
type UnsortedInputError struct {
	Previous generic.TimePoint
	Next     generic.TimePoint
}

func (e *UnsortedInputError) Error() string {
	return fmt.Sprintf("leave days out of date order: %s followed by %s", e.Previous, e.Next)
}

func (e *UnsortedInputError) Unwrap() error { return ErrUnsortedInput }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrUnsortedInput)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNoPeriodFound) ||
		errors.Is(err, ErrLeaveTypeNotFound) ||
		errors.Is(err, ErrEmployeeNotFound)
}
