/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication, decoupling the
  internal domain model from the external contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

BALANCE RESPONSE SHAPES:
  Point query:  {"balance": {entitled, used, scheduled, pending, taken,
                 balance, asAtDate, endDate}}
  Breakdown:    {"negative": bool, "breakdown": [{period, balance,
                 leaves: [{balance, date, length, status}]}]}
  A leave entry's status is null for deducting days, otherwise
  {key, name} with key 4 for weekends and 5 for holidays.

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - leave/types.go: The domain types behind them
*/
package api

import (
	"time"

	"github.com/warp/leave-engine/generic"
	"github.com/warp/leave-engine/leave"
	"github.com/warp/leave-engine/store/sqlite"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// EmployeeDTO represents an employee in API responses.
type EmployeeDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	HireDate  string `json:"hire_date"`
	CreatedAt string `json:"created_at,omitempty"`
}

// CreateEmployeeRequest is the request to create an employee.
type CreateEmployeeRequest struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	HireDate string `json:"hire_date"`
}

// LeaveTypeDTO represents a leave type and its period configuration.
type LeaveTypeDTO struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	PeriodType       string `json:"period_type,omitempty"`
	PeriodStartMonth int    `json:"period_start_month,omitempty"`
	PeriodStartDay   int    `json:"period_start_day,omitempty"`
	CreatedAt        string `json:"created_at,omitempty"`
}

// CreateLeaveTypeRequest is the request to create a leave type.
type CreateLeaveTypeRequest struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	PeriodType       string `json:"period_type"`
	PeriodStartMonth int    `json:"period_start_month"`
	PeriodStartDay   int    `json:"period_start_day"`
}

// CreateEntitlementRequest grants leave days to an employee over a range.
type CreateEntitlementRequest struct {
	LeaveTypeID string  `json:"leave_type_id"`
	FromDate    string  `json:"from_date"`
	ToDate      string  `json:"to_date"`
	Days        float64 `json:"days"`
}

// EntitlementDTO represents an entitlement grant.
type EntitlementDTO struct {
	ID          string  `json:"id"`
	EmployeeID  string  `json:"employee_id"`
	LeaveTypeID string  `json:"leave_type_id"`
	FromDate    string  `json:"from_date"`
	ToDate      string  `json:"to_date"`
	Days        float64 `json:"days"`
}

// CreateLeaveRequest records one leave day for an employee.
type CreateLeaveRequest struct {
	LeaveTypeID string  `json:"leave_type_id"`
	Date        string  `json:"date"`
	Length      float64 `json:"length"`
	Status      string  `json:"status"`
}

// LeaveRecordDTO represents one recorded leave day.
type LeaveRecordDTO struct {
	ID          string  `json:"id"`
	EmployeeID  string  `json:"employee_id"`
	LeaveTypeID string  `json:"leave_type_id"`
	Date        string  `json:"date"`
	Length      float64 `json:"length"`
	Status      string  `json:"status"`
}

// HolidayDTO represents a holiday.
type HolidayDTO struct {
	ID        string `json:"id"`
	Date      string `json:"date"`
	Name      string `json:"name"`
	Recurring bool   `json:"recurring"`
}

// CreateHolidayRequest is the request to create a holiday.
type CreateHolidayRequest struct {
	Date      string `json:"date"`
	Name      string `json:"name"`
	Recurring bool   `json:"recurring"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// BALANCE RESPONSES
// =============================================================================

// BalanceSnapshotDTO mirrors leave.EntitlementSnapshot on the wire.
type BalanceSnapshotDTO struct {
	Entitled  float64 `json:"entitled"`
	Used      float64 `json:"used"`
	Scheduled float64 `json:"scheduled"`
	Pending   float64 `json:"pending"`
	Taken     float64 `json:"taken"`
	Balance   float64 `json:"balance"`
	AsAtDate  string  `json:"asAtDate"`
	EndDate   string  `json:"endDate"`
}

// PeriodDTO represents one entitlement period.
type PeriodDTO struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// DayStatusDTO marks a non-deducting day (weekend key 4, holiday key 5).
type DayStatusDTO struct {
	Key  int    `json:"key"`
	Name string `json:"name"`
}

// LeaveEntryDTO is one day of a breakdown. Balance is the running balance
// after this day; Status is null for deducting days.
type LeaveEntryDTO struct {
	Balance float64       `json:"balance"`
	Date    string        `json:"date"`
	Length  float64       `json:"length"`
	Status  *DayStatusDTO `json:"status"`
}

// PeriodBreakdownDTO is the breakdown of one period.
type PeriodBreakdownDTO struct {
	Period  PeriodDTO          `json:"period"`
	Balance BalanceSnapshotDTO `json:"balance"`
	Leaves  []LeaveEntryDTO    `json:"leaves"`
}

// BreakdownResponse is the response when an applied range was given.
type BreakdownResponse struct {
	Negative  bool                 `json:"negative"`
	Breakdown []PeriodBreakdownDTO `json:"breakdown"`
}

// PointBalanceResponse is the response for a point-in-time query.
type PointBalanceResponse struct {
	Balance BalanceSnapshotDTO `json:"balance"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toBalanceSnapshotDTO(s leave.EntitlementSnapshot) BalanceSnapshotDTO {
	entitled, _ := s.Entitled.Float64()
	used, _ := s.Used.Float64()
	scheduled, _ := s.Scheduled.Float64()
	pending, _ := s.Pending.Float64()
	taken, _ := s.Taken.Float64()
	balance, _ := s.Balance.Float64()
	return BalanceSnapshotDTO{
		Entitled:  entitled,
		Used:      used,
		Scheduled: scheduled,
		Pending:   pending,
		Taken:     taken,
		Balance:   balance,
		AsAtDate:  s.AsAtDate.String(),
		EndDate:   s.EndDate.String(),
	}
}

func toPeriodDTO(p generic.Period) PeriodDTO {
	return PeriodDTO{StartDate: p.Start.String(), EndDate: p.End.String()}
}

func toLeaveEntryDTO(e leave.LeaveEntry) LeaveEntryDTO {
	balance, _ := e.Balance.Float64()
	length, _ := e.Length.Float64()
	dto := LeaveEntryDTO{
		Balance: balance,
		Date:    e.Date.String(),
		Length:  length,
	}
	if !e.Status.Deducting() {
		dto.Status = &DayStatusDTO{Key: e.Status.Key(), Name: e.StatusName}
	}
	return dto
}

func toBreakdownResponse(r *leave.BreakdownResult) BreakdownResponse {
	periods := make([]PeriodBreakdownDTO, len(r.Breakdown))
	for i, pb := range r.Breakdown {
		leaves := make([]LeaveEntryDTO, len(pb.Leaves))
		for j, entry := range pb.Leaves {
			leaves[j] = toLeaveEntryDTO(entry)
		}
		periods[i] = PeriodBreakdownDTO{
			Period:  toPeriodDTO(pb.Period),
			Balance: toBalanceSnapshotDTO(pb.Balance),
			Leaves:  leaves,
		}
	}
	return BreakdownResponse{Negative: r.Negative, Breakdown: periods}
}

func toEmployeeDTO(e sqlite.Employee) EmployeeDTO {
	dto := EmployeeDTO{
		ID:       e.ID,
		Name:     e.Name,
		Email:    e.Email,
		HireDate: e.HireDate.Format("2006-01-02"),
	}
	if !e.CreatedAt.IsZero() {
		dto.CreatedAt = e.CreatedAt.Format(time.RFC3339)
	}
	return dto
}

func toLeaveTypeDTO(lt sqlite.LeaveTypeRecord) LeaveTypeDTO {
	dto := LeaveTypeDTO{
		ID:               lt.ID,
		Name:             lt.Name,
		PeriodType:       lt.PeriodType,
		PeriodStartMonth: lt.PeriodStartMonth,
		PeriodStartDay:   lt.PeriodStartDay,
	}
	if !lt.CreatedAt.IsZero() {
		dto.CreatedAt = lt.CreatedAt.Format(time.RFC3339)
	}
	return dto
}

func toLeaveRecordDTO(r sqlite.LeaveRecord) LeaveRecordDTO {
	length, _ := r.Length.Float64()
	return LeaveRecordDTO{
		ID:          r.ID,
		EmployeeID:  r.EmployeeID,
		LeaveTypeID: r.LeaveTypeID,
		Date:        r.Date.Format("2006-01-02"),
		Length:      length,
		Status:      r.Status,
	}
}
