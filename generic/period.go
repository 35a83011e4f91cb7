package generic

import "time"

// =============================================================================
// PERIOD - One entitlement cycle
// =============================================================================

// Period is a contiguous date range [Start, End], both inclusive.
// Periods for the same employee and leave type are contiguous and
// non-overlapping; a period with Start == End is a valid single-day cycle.
type Period struct {
	Start TimePoint
	End   TimePoint
}

// Contains returns true if the date is within the period [Start, End].
func (p Period) Contains(t TimePoint) bool {
	return t.AfterOrEqual(p.Start) && t.BeforeOrEqual(p.End)
}

// IsValid reports whether the period is well-formed (End not before Start).
func (p Period) IsValid() bool {
	return !p.End.Before(p.Start)
}

// NextPeriod returns the period following this one, assuming contiguity.
func (p Period) NextPeriod() Period {
	newStart := p.End.AddDays(1)
	return Period{Start: newStart, End: newStart.AddDays(DaysBetween(p.Start, p.End))}
}

func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}

// =============================================================================
// PERIOD CONFIG - How entitlement cycles are laid out for a leave type
// =============================================================================

// PeriodType selects the strategy for laying out entitlement cycles.
type PeriodType string

const (
	PeriodCalendarYear PeriodType = "calendar_year" // Jan 1 - Dec 31
	PeriodCustomYear   PeriodType = "custom_year"   // one year from a configured month/day
	PeriodAnniversary  PeriodType = "anniversary"   // one year from an anchor (e.g. hire date)
)

// PeriodConfig describes the cycle layout for one leave type.
type PeriodConfig struct {
	Type PeriodType

	// For custom_year: the month/day each cycle starts (e.g. Apr 1).
	StartMonth time.Month
	StartDay   int

	// For anniversary: the anchor date the cycles are counted from.
	AnchorDate *TimePoint
}

// PeriodFor returns the cycle that contains the given date.
func (pc PeriodConfig) PeriodFor(date TimePoint) Period {
	switch pc.Type {
	case PeriodCustomYear:
		return pc.customYearPeriod(date)

	case PeriodAnniversary:
		if pc.AnchorDate == nil {
			// No anchor configured. Fall back to calendar year.
			return Period{Start: StartOfYear(date.Year()), End: EndOfYear(date.Year())}
		}
		return pc.anniversaryPeriod(date)

	default: // PeriodCalendarYear or unset
		return Period{Start: StartOfYear(date.Year()), End: EndOfYear(date.Year())}
	}
}

func (pc PeriodConfig) customYearPeriod(date TimePoint) Period {
	start := NewTimePoint(date.Year(), pc.StartMonth, pc.StartDay)
	if date.Before(start) {
		start = NewTimePoint(date.Year()-1, pc.StartMonth, pc.StartDay)
	}
	return Period{Start: start, End: start.AddYears(1).AddDays(-1)}
}

func (pc PeriodConfig) anniversaryPeriod(date TimePoint) Period {
	anchor := *pc.AnchorDate

	yearsElapsed := date.Year() - anchor.Year()
	start := NewTimePoint(anchor.Year()+yearsElapsed, anchor.Month(), anchor.Day())
	if date.Before(start) {
		start = NewTimePoint(anchor.Year()+yearsElapsed-1, anchor.Month(), anchor.Day())
	}
	return Period{Start: start, End: start.AddYears(1).AddDays(-1)}
}
