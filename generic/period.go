package generic

import "time"

// =============================================================================
// PERIOD - The billing window of a statement
// =============================================================================

// Period is an inclusive date range [Start, End]. Statements are always
// computed for a calendar-month period.
type Period struct {
	Start TimePoint
	End   TimePoint
}

// MonthPeriod returns the calendar month as a period.
func MonthPeriod(year int, month time.Month) Period {
	return Period{Start: StartOfMonth(year, month), End: EndOfMonth(year, month)}
}

// MonthOf returns the calendar month containing t.
func MonthOf(t time.Time) Period {
	return MonthPeriod(t.Year(), t.Month())
}

// Contains returns true if the time point is within the period [Start, End]
func (p Period) Contains(t TimePoint) bool {
	return t.AfterOrEqual(p.Start) && t.BeforeOrEqual(p.End)
}

// Days returns all days in the period as a slice of TimePoints.
func (p Period) Days() []TimePoint {
	var days []TimePoint
	for current := p.Start; current.BeforeOrEqual(p.End); current = current.AddDays(1) {
		days = append(days, current)
	}
	return days
}

// Widen extends the period by n days on both sides. Statements load one extra
// day each way so duty blocks crossing the month boundary still link.
func (p Period) Widen(n int) Period {
	return Period{Start: p.Start.AddDays(-n), End: p.End.AddDays(n)}
}

// PreviousMonth returns the calendar month before the one p starts in.
func (p Period) PreviousMonth() Period {
	prev := p.Start.AddDays(-1)
	return MonthPeriod(prev.Year(), prev.Month())
}

// String returns a string representation of the period.
func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}
