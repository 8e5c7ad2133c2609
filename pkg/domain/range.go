package domain

// TimeRange is a half-open interval on the project timeline, in seconds.
type TimeRange struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Empty reports whether the range is degenerate (no audible span).
// The workflow refuses to run on an empty range.
func (r TimeRange) Empty() bool {
	return r.End <= r.Start
}

// Length returns the span of the range in seconds, never negative.
func (r TimeRange) Length() float64 {
	if r.Empty() {
		return 0
	}
	return r.End - r.Start
}

// Contains reports whether a position falls inside the range.
func (r TimeRange) Contains(pos float64) bool {
	return pos >= r.Start && pos < r.End
}

// Overlaps reports whether an item spanning [start, end) intersects the range.
func (r TimeRange) Overlaps(start, end float64) bool {
	return start < r.End && end > r.Start
}
