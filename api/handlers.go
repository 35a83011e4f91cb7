/*
handlers.go - HTTP API handlers for the leave engine

PURPOSE:
  Exposes the breakdown computation and its supporting data over REST.
  Handles HTTP request/response, JSON serialization, and delegates to the
  leave core. The interesting work happens in leave/; everything here is
  parameter extraction and DTO mapping.

ENDPOINTS:
  Employees:
    GET    /api/employees                       List employees
    POST   /api/employees                       Create employee
    GET    /api/employees/{id}                  Get employee
    GET    /api/employees/{id}/leave-balance    Balance or breakdown
    GET    /api/employees/{id}/leaves           Recorded leave days
    POST   /api/employees/{id}/leaves           Record a leave day
    POST   /api/employees/{id}/entitlements     Grant entitlement

  Leave types:
    GET    /api/leave-types                     List leave types
    POST   /api/leave-types                     Create leave type

  Holidays:
    GET    /api/holidays                        List holidays
    POST   /api/holidays                        Create holiday

BALANCE QUERY:
  GET /api/employees/{id}/leave-balance
      ?leave_type=annual&from_date=2025-08-17&to_date=2025-08-21&duration=half_day

  With both dates and leave days in range: full per-period breakdown.
  Otherwise: bare balance snapshot anchored at from_date (or today).

ERROR HANDLING:
  - 400: invalid dates, missing parameters, unsorted day input
  - 404: unknown employee/leave type, no entitlement period configured
  - 500: store or collaborator failures

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
  - leave/breakdown.go: The computation behind the balance endpoint
*/
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/warp/leave-engine/entitlement"
	"github.com/warp/leave-engine/generic"
	"github.com/warp/leave-engine/leave"
	"github.com/warp/leave-engine/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store *sqlite.Store

	resolver   *entitlement.Resolver
	calculator *entitlement.Calculator
	generator  *entitlement.DayGenerator
}

// NewHandler creates a new handler with the given store. The store doubles
// as the holiday calendar for the applied-range day generator.
func NewHandler(store *sqlite.Store) *Handler {
	return &Handler{
		Store:      store,
		resolver:   entitlement.NewResolver(store),
		calculator: entitlement.NewCalculator(store),
		generator:  entitlement.NewDayGenerator(store),
	}
}

// assembler wires the breakdown core for one request. The duration option
// only affects the day source, so the collaborators are shared.
func (h *Handler) assembler(days leave.LeaveDaySource) *leave.Assembler {
	return leave.NewAssembler(h.resolver, h.calculator, days)
}

// =============================================================================
// BALANCE HANDLER
// =============================================================================

// GetLeaveBalance returns the per-period breakdown for an applied leave
// range, or a bare balance snapshot when no full range was supplied.
func (h *Handler) GetLeaveBalance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	employeeID := chi.URLParam(r, "id")

	emp, err := h.Store.GetEmployee(ctx, employeeID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get employee", err)
		return
	}
	if emp == nil {
		writeError(w, http.StatusNotFound, "Employee not found", nil)
		return
	}

	leaveTypeID := r.URL.Query().Get("leave_type")
	if leaveTypeID == "" {
		writeError(w, http.StatusBadRequest, "leave_type is required", nil)
		return
	}
	leaveType, err := h.Store.GetLeaveType(ctx, leaveTypeID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get leave type", err)
		return
	}
	if leaveType == nil {
		writeError(w, http.StatusNotFound, "Leave type not found", nil)
		return
	}

	from, err := parseOptionalDate(r, "from_date")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid from_date format (use YYYY-MM-DD)", err)
		return
	}
	to, err := parseOptionalDate(r, "to_date")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid to_date format (use YYYY-MM-DD)", err)
		return
	}
	if from != nil && to != nil && from.After(*to) {
		writeError(w, http.StatusBadRequest, "from_date must not be after to_date", nil)
		return
	}

	days := leave.LeaveDaySource(h.generator)
	switch r.URL.Query().Get("duration") {
	case "", "full_day":
	case "half_day":
		days = h.generator.WithDayLength(decimal.NewFromFloat(0.5))
	default:
		writeError(w, http.StatusBadRequest, "Invalid duration (use full_day or half_day)", nil)
		return
	}

	result, err := h.assembler(days).BreakdownOrBalance(
		ctx, leave.EmployeeID(employeeID), leave.LeaveTypeID(leaveTypeID), from, to)
	if err != nil {
		switch {
		case leave.IsClientError(err):
			writeError(w, http.StatusBadRequest, "Invalid leave day input", err)
		case leave.IsNotFound(err):
			writeError(w, http.StatusNotFound, "No leave period found", err)
		default:
			writeError(w, http.StatusInternalServerError, "Failed to compute leave balance", err)
		}
		return
	}

	if result.Breakdown != nil {
		writeJSON(w, http.StatusOK, toBreakdownResponse(result.Breakdown))
		return
	}
	writeJSON(w, http.StatusOK, PointBalanceResponse{Balance: toBalanceSnapshotDTO(*result.Balance)})
}

// =============================================================================
// EMPLOYEE HANDLERS
// =============================================================================

// ListEmployees returns all employees.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Store.ListEmployees(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list employees", err)
		return
	}

	dtos := make([]EmployeeDTO, len(employees))
	for i, e := range employees {
		dtos[i] = toEmployeeDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetEmployee returns a single employee.
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	emp, err := h.Store.GetEmployee(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get employee", err)
		return
	}
	if emp == nil {
		writeError(w, http.StatusNotFound, "Employee not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(*emp))
}

// CreateEmployee creates a new employee.
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	hireDate, err := time.Parse("2006-01-02", req.HireDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid hire_date format (use YYYY-MM-DD)", err)
		return
	}

	emp := sqlite.Employee{
		ID:       req.ID,
		Name:     req.Name,
		Email:    req.Email,
		HireDate: hireDate,
	}
	if err := h.Store.SaveEmployee(r.Context(), emp); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create employee", err)
		return
	}

	writeJSON(w, http.StatusCreated, toEmployeeDTO(emp))
}

// =============================================================================
// LEAVE TYPE HANDLERS
// =============================================================================

// ListLeaveTypes returns all leave types.
func (h *Handler) ListLeaveTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.Store.ListLeaveTypes(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list leave types", err)
		return
	}

	dtos := make([]LeaveTypeDTO, len(types))
	for i, lt := range types {
		dtos[i] = toLeaveTypeDTO(lt)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateLeaveType creates a new leave type.
func (h *Handler) CreateLeaveType(w http.ResponseWriter, r *http.Request) {
	var req CreateLeaveTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	switch generic.PeriodType(req.PeriodType) {
	case generic.PeriodCalendarYear, generic.PeriodCustomYear, generic.PeriodAnniversary:
	case "":
		// No period configuration: balance queries for the type will fail
		// with "no leave period found" until one is set.
	default:
		writeError(w, http.StatusBadRequest, "Invalid period_type", nil)
		return
	}

	lt := sqlite.LeaveTypeRecord{
		ID:               req.ID,
		Name:             req.Name,
		PeriodType:       req.PeriodType,
		PeriodStartMonth: req.PeriodStartMonth,
		PeriodStartDay:   req.PeriodStartDay,
	}
	if err := h.Store.SaveLeaveType(r.Context(), lt); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create leave type", err)
		return
	}

	writeJSON(w, http.StatusCreated, toLeaveTypeDTO(lt))
}

// =============================================================================
// ENTITLEMENT HANDLERS
// =============================================================================

// CreateEntitlement grants leave days to an employee over a date range.
func (h *Handler) CreateEntitlement(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "id")

	var req CreateEntitlementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	fromDate, err := time.Parse("2006-01-02", req.FromDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid from_date format (use YYYY-MM-DD)", err)
		return
	}
	toDate, err := time.Parse("2006-01-02", req.ToDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid to_date format (use YYYY-MM-DD)", err)
		return
	}
	if req.Days < 0 {
		writeError(w, http.StatusBadRequest, "days must not be negative", nil)
		return
	}

	record := sqlite.EntitlementRecord{
		ID:          newID("ent"),
		EmployeeID:  employeeID,
		LeaveTypeID: req.LeaveTypeID,
		FromDate:    fromDate,
		ToDate:      toDate,
		Days:        decimal.NewFromFloat(req.Days),
	}
	if err := h.Store.SaveEntitlement(r.Context(), record); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create entitlement", err)
		return
	}

	writeJSON(w, http.StatusCreated, EntitlementDTO{
		ID:          record.ID,
		EmployeeID:  record.EmployeeID,
		LeaveTypeID: record.LeaveTypeID,
		FromDate:    record.FromDate.Format("2006-01-02"),
		ToDate:      record.ToDate.Format("2006-01-02"),
		Days:        req.Days,
	})
}

// =============================================================================
// LEAVE RECORD HANDLERS
// =============================================================================

// ListLeaves returns an employee's recorded leave days in a range.
func (h *Handler) ListLeaves(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "id")
	leaveTypeID := r.URL.Query().Get("leave_type")
	if leaveTypeID == "" {
		writeError(w, http.StatusBadRequest, "leave_type is required", nil)
		return
	}

	from, err := parseOptionalDate(r, "from_date")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid from_date format (use YYYY-MM-DD)", err)
		return
	}
	to, err := parseOptionalDate(r, "to_date")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid to_date format (use YYYY-MM-DD)", err)
		return
	}

	fromDate := generic.NewTimePoint(1900, time.January, 1)
	toDate := generic.NewTimePoint(2999, time.December, 31)
	if from != nil {
		fromDate = *from
	}
	if to != nil {
		toDate = *to
	}

	records, err := h.Store.LeaveRecordsInRange(r.Context(), employeeID, leaveTypeID, fromDate.Time, toDate.Time)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list leaves", err)
		return
	}

	dtos := make([]LeaveRecordDTO, len(records))
	for i, rec := range records {
		dtos[i] = toLeaveRecordDTO(rec)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateLeave records one leave day for an employee.
func (h *Handler) CreateLeave(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "id")

	var req CreateLeaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}

	switch req.Status {
	case sqlite.LeaveStatusTaken, sqlite.LeaveStatusScheduled, sqlite.LeaveStatusPending,
		sqlite.LeaveStatusRejected, sqlite.LeaveStatusCancelled:
	default:
		writeError(w, http.StatusBadRequest, "Invalid status", nil)
		return
	}
	if req.Length < 0 {
		writeError(w, http.StatusBadRequest, "length must not be negative", nil)
		return
	}

	record := sqlite.LeaveRecord{
		ID:          newID("lv"),
		EmployeeID:  employeeID,
		LeaveTypeID: req.LeaveTypeID,
		Date:        date,
		Length:      decimal.NewFromFloat(req.Length),
		Status:      req.Status,
	}
	if err := h.Store.SaveLeaveRecord(r.Context(), record); err != nil {
		writeError(w, http.StatusConflict, "Failed to record leave (duplicate day?)", err)
		return
	}

	writeJSON(w, http.StatusCreated, toLeaveRecordDTO(record))
}

// =============================================================================
// HOLIDAY HANDLERS
// =============================================================================

// ListHolidays returns all holidays.
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	holidays, err := h.Store.ListHolidays(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list holidays", err)
		return
	}

	dtos := make([]HolidayDTO, len(holidays))
	for i, hol := range holidays {
		dtos[i] = HolidayDTO{
			ID:        hol.ID,
			Date:      hol.Date.String(),
			Name:      hol.Name,
			Recurring: hol.Recurring,
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateHoliday creates a holiday.
func (h *Handler) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	var req CreateHolidayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	date, err := generic.ParseTimePoint(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}

	holiday := generic.Holiday{
		ID:        newID("hol"),
		Date:      date,
		Name:      req.Name,
		Recurring: req.Recurring,
	}
	if err := h.Store.SaveHoliday(r.Context(), holiday); err != nil {
		writeError(w, http.StatusConflict, "Failed to create holiday (duplicate?)", err)
		return
	}

	writeJSON(w, http.StatusCreated, HolidayDTO{
		ID:        holiday.ID,
		Date:      holiday.Date.String(),
		Name:      holiday.Name,
		Recurring: holiday.Recurring,
	})
}

// =============================================================================
// HELPERS
// =============================================================================

func parseOptionalDate(r *http.Request, key string) (*generic.TimePoint, error) {
	value := r.URL.Query().Get(key)
	if value == "" {
		return nil, nil
	}
	tp, err := generic.ParseTimePoint(value)
	if err != nil {
		return nil, err
	}
	return &tp, nil
}

func newID(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
