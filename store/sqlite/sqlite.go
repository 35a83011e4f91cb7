/*
Package sqlite provides the SQLite-backed persistence for the leave engine.

PURPOSE:
  Stores the data the breakdown collaborators read: employees, leave types
  (with their period configuration), entitlement grants, recorded leave
  days, and holidays. In production the same patterns apply to PostgreSQL,
  only SQL dialect details change.

KEY TABLES:
  employees:     employee records (hire date anchors anniversary periods)
  leave_types:   leave type + period strategy configuration
  entitlements:  entitlement grants per employee/type over a date range
  leaves:        one row per recorded leave day, unique per
                 employee/type/date
  holidays:      company holidays (optionally recurring yearly)

NUMERIC STORAGE:
  Day counts are stored as decimal TEXT and parsed with shopspring/decimal.
  They are never round-tripped through binary floats.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging): multiple readers don't
  block and crash recovery is more robust.

USAGE:
  store, err := sqlite.New("./data/leave.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - entitlement/: the collaborator implementations reading this store
  - leave/collaborators.go: the interfaces they implement
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/warp/leave-engine/generic"
)

const dateLayout = "2006-01-02"

// Store implements the persistence layer using SQLite.
type Store struct {
	db *sql.DB
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Employees
	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT,
		hire_date TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	-- Leave types and their period configuration.
	-- period_type '' means no entitlement periods are configured for the
	-- type: balance queries against it fail with "no period found".
	CREATE TABLE IF NOT EXISTS leave_types (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		period_type TEXT NOT NULL DEFAULT '',
		period_start_month INTEGER NOT NULL DEFAULT 1,
		period_start_day INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL
	);

	-- Entitlement grants
	CREATE TABLE IF NOT EXISTS entitlements (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		leave_type_id TEXT NOT NULL,
		from_date TEXT NOT NULL,
		to_date TEXT NOT NULL,
		days TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_entitlements_employee_type
		ON entitlements(employee_id, leave_type_id, from_date, to_date);

	-- Recorded leave days. One row per day; an employee cannot hold two
	-- leave records of the same type on the same date.
	CREATE TABLE IF NOT EXISTS leaves (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		leave_type_id TEXT NOT NULL,
		date TEXT NOT NULL,
		length_days TEXT NOT NULL,
		status TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_leaves_unique_day
		ON leaves(employee_id, leave_type_id, date);
	CREATE INDEX IF NOT EXISTS idx_leaves_employee_type_date
		ON leaves(employee_id, leave_type_id, date);

	-- Holidays
	CREATE TABLE IF NOT EXISTS holidays (
		id TEXT PRIMARY KEY,
		date TEXT NOT NULL,
		name TEXT NOT NULL,
		recurring BOOLEAN DEFAULT FALSE,
		created_at TEXT NOT NULL
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_holidays_unique
		ON holidays(date, name);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// EMPLOYEES
// =============================================================================

type Employee struct {
	ID        string
	Name      string
	Email     string
	HireDate  time.Time
	CreatedAt time.Time
}

func (s *Store) SaveEmployee(ctx context.Context, e Employee) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO employees (id, name, email, hire_date, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		e.ID, e.Name, e.Email, e.HireDate.Format(dateLayout), time.Now().UTC().Format(time.RFC3339))
	return err
}

// GetEmployee returns the employee, or nil when none exists.
func (s *Store) GetEmployee(ctx context.Context, id string) (*Employee, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, email, hire_date, created_at FROM employees WHERE id = ?`, id)

	var e Employee
	var hireDate, createdAt string
	if err := row.Scan(&e.ID, &e.Name, &e.Email, &hireDate, &createdAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	var err error
	if e.HireDate, err = time.Parse(dateLayout, hireDate); err != nil {
		return nil, fmt.Errorf("invalid hire_date for employee %s: %w", e.ID, err)
	}
	e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &e, nil
}

func (s *Store) ListEmployees(ctx context.Context) ([]Employee, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, email, hire_date, created_at FROM employees ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []Employee
	for rows.Next() {
		var e Employee
		var hireDate, createdAt string
		if err := rows.Scan(&e.ID, &e.Name, &e.Email, &hireDate, &createdAt); err != nil {
			return nil, err
		}
		e.HireDate, _ = time.Parse(dateLayout, hireDate)
		e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

// =============================================================================
// LEAVE TYPES
// =============================================================================

type LeaveTypeRecord struct {
	ID   string
	Name string

	// Period configuration. PeriodType "" = not configured.
	PeriodType       string
	PeriodStartMonth int
	PeriodStartDay   int

	CreatedAt time.Time
}

func (s *Store) SaveLeaveType(ctx context.Context, lt LeaveTypeRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO leave_types (id, name, period_type, period_start_month, period_start_day, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		lt.ID, lt.Name, lt.PeriodType, lt.PeriodStartMonth, lt.PeriodStartDay,
		time.Now().UTC().Format(time.RFC3339))
	return err
}

// GetLeaveType returns the leave type, or nil when none exists.
func (s *Store) GetLeaveType(ctx context.Context, id string) (*LeaveTypeRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, period_type, period_start_month, period_start_day, created_at
		FROM leave_types WHERE id = ?`, id)

	var lt LeaveTypeRecord
	var createdAt string
	err := row.Scan(&lt.ID, &lt.Name, &lt.PeriodType, &lt.PeriodStartMonth, &lt.PeriodStartDay, &createdAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	lt.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &lt, nil
}

func (s *Store) ListLeaveTypes(ctx context.Context) ([]LeaveTypeRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, period_type, period_start_month, period_start_day, created_at
		FROM leave_types ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var types []LeaveTypeRecord
	for rows.Next() {
		var lt LeaveTypeRecord
		var createdAt string
		if err := rows.Scan(&lt.ID, &lt.Name, &lt.PeriodType, &lt.PeriodStartMonth, &lt.PeriodStartDay, &createdAt); err != nil {
			return nil, err
		}
		lt.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		types = append(types, lt)
	}
	return types, rows.Err()
}

// =============================================================================
// ENTITLEMENTS
// =============================================================================

type EntitlementRecord struct {
	ID          string
	EmployeeID  string
	LeaveTypeID string
	FromDate    time.Time
	ToDate      time.Time
	Days        decimal.Decimal
	CreatedAt   time.Time
}

func (s *Store) SaveEntitlement(ctx context.Context, e EntitlementRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO entitlements (id, employee_id, leave_type_id, from_date, to_date, days, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.EmployeeID, e.LeaveTypeID,
		e.FromDate.Format(dateLayout), e.ToDate.Format(dateLayout),
		e.Days.String(), time.Now().UTC().Format(time.RFC3339))
	return err
}

// EntitlementsOverlapping returns entitlement grants whose validity range
// overlaps [from, to], ordered by from_date.
func (s *Store) EntitlementsOverlapping(ctx context.Context, employeeID, leaveTypeID string, from, to time.Time) ([]EntitlementRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, employee_id, leave_type_id, from_date, to_date, days, created_at
		FROM entitlements
		WHERE employee_id = ? AND leave_type_id = ?
		  AND from_date <= ? AND to_date >= ?
		ORDER BY from_date`,
		employeeID, leaveTypeID, to.Format(dateLayout), from.Format(dateLayout))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []EntitlementRecord
	for rows.Next() {
		var r EntitlementRecord
		var fromDate, toDate, days, createdAt string
		if err := rows.Scan(&r.ID, &r.EmployeeID, &r.LeaveTypeID, &fromDate, &toDate, &days, &createdAt); err != nil {
			return nil, err
		}
		if r.FromDate, err = time.Parse(dateLayout, fromDate); err != nil {
			return nil, fmt.Errorf("invalid from_date for entitlement %s: %w", r.ID, err)
		}
		if r.ToDate, err = time.Parse(dateLayout, toDate); err != nil {
			return nil, fmt.Errorf("invalid to_date for entitlement %s: %w", r.ID, err)
		}
		if r.Days, err = decimal.NewFromString(days); err != nil {
			return nil, fmt.Errorf("invalid days for entitlement %s: %w", r.ID, err)
		}
		r.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		records = append(records, r)
	}
	return records, rows.Err()
}

// =============================================================================
// LEAVE RECORDS
// =============================================================================

// Leave record statuses. Taken/scheduled/pending all count as usage when
// computing a balance; rejected and cancelled records do not.
const (
	LeaveStatusTaken     = "taken"
	LeaveStatusScheduled = "scheduled"
	LeaveStatusPending   = "pending"
	LeaveStatusRejected  = "rejected"
	LeaveStatusCancelled = "cancelled"
)

type LeaveRecord struct {
	ID          string
	EmployeeID  string
	LeaveTypeID string
	Date        time.Time
	Length      decimal.Decimal
	Status      string
	CreatedAt   time.Time
}

func (s *Store) SaveLeaveRecord(ctx context.Context, l LeaveRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO leaves (id, employee_id, leave_type_id, date, length_days, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.EmployeeID, l.LeaveTypeID, l.Date.Format(dateLayout),
		l.Length.String(), l.Status, time.Now().UTC().Format(time.RFC3339))
	return err
}

// LeaveRecordsInRange returns recorded leave days in [from, to], ordered
// ascending by date.
func (s *Store) LeaveRecordsInRange(ctx context.Context, employeeID, leaveTypeID string, from, to time.Time) ([]LeaveRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, employee_id, leave_type_id, date, length_days, status, created_at
		FROM leaves
		WHERE employee_id = ? AND leave_type_id = ? AND date >= ? AND date <= ?
		ORDER BY date`,
		employeeID, leaveTypeID, from.Format(dateLayout), to.Format(dateLayout))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []LeaveRecord
	for rows.Next() {
		var r LeaveRecord
		var date, length, createdAt string
		if err := rows.Scan(&r.ID, &r.EmployeeID, &r.LeaveTypeID, &date, &length, &r.Status, &createdAt); err != nil {
			return nil, err
		}
		if r.Date, err = time.Parse(dateLayout, date); err != nil {
			return nil, fmt.Errorf("invalid date for leave %s: %w", r.ID, err)
		}
		if r.Length, err = decimal.NewFromString(length); err != nil {
			return nil, fmt.Errorf("invalid length for leave %s: %w", r.ID, err)
		}
		r.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		records = append(records, r)
	}
	return records, rows.Err()
}

// =============================================================================
// HOLIDAYS - implements generic.HolidayCalendar
// =============================================================================

func (s *Store) SaveHoliday(ctx context.Context, h generic.Holiday) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO holidays (id, date, name, recurring, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		h.ID, h.Date.String(), h.Name, h.Recurring, time.Now().UTC().Format(time.RFC3339))
	return err
}

func (s *Store) ListHolidays(ctx context.Context) ([]generic.Holiday, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, date, name, recurring FROM holidays ORDER BY date`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var holidays []generic.Holiday
	for rows.Next() {
		var h generic.Holiday
		var date string
		if err := rows.Scan(&h.ID, &date, &h.Name, &h.Recurring); err != nil {
			return nil, err
		}
		if h.Date, err = generic.ParseTimePoint(date); err != nil {
			return nil, fmt.Errorf("invalid date for holiday %s: %w", h.ID, err)
		}
		holidays = append(holidays, h)
	}
	return holidays, rows.Err()
}

// HolidayOn returns the holiday on the given date, or nil. Recurring
// holidays match on month and day in any year.
func (s *Store) HolidayOn(ctx context.Context, date generic.TimePoint) (*generic.Holiday, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, date, name, recurring FROM holidays
		WHERE date = ? OR (recurring AND substr(date, 6) = ?)
		LIMIT 1`,
		date.String(), date.String()[5:])
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}

	var h generic.Holiday
	var stored string
	if err := rows.Scan(&h.ID, &stored, &h.Name, &h.Recurring); err != nil {
		return nil, err
	}
	h.Date = date
	return &h, nil
}

var _ generic.HolidayCalendar = (*Store)(nil)
