package generic

// =============================================================================
// PERIOD - Inclusive range of calendar days
// =============================================================================

// Period is the inclusive day range [Start, End]. A period whose End is
// before its Start is empty.
type Period struct {
	Start TimePoint
	End   TimePoint
}

// Contains returns true if the day is within the period [Start, End]
func (p Period) Contains(t TimePoint) bool {
	return t.AfterOrEqual(p.Start) && t.BeforeOrEqual(p.End)
}

// IsEmpty reports whether the period holds no day at all.
func (p Period) IsEmpty() bool {
	return p.End.Before(p.Start)
}

// Len returns the number of days in the period (0 when empty).
func (p Period) Len() int {
	if p.IsEmpty() {
		return 0
	}
	return DaysBetween(p.Start, p.End) + 1
}

// Days returns all days in the period as a slice of TimePoints.
func (p Period) Days() []TimePoint {
	var days []TimePoint
	current := p.Start
	for current.BeforeOrEqual(p.End) {
		days = append(days, current)
		current = current.AddDays(1)
	}
	return days
}

// Truncate keeps at most n days from the start of the period.
func (p Period) Truncate(n int) Period {
	if n <= 0 {
		return Period{Start: p.Start, End: p.Start.AddDays(-1)}
	}
	if p.Len() <= n {
		return p
	}
	return Period{Start: p.Start, End: p.Start.AddDays(n - 1)}
}

// String returns a string representation of the period.
func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}
