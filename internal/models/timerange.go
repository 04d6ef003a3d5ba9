package models

// TimeRange is a closed time-of-day interval on some weekday. Bounds are
// HH:MM:SS strings, which order correctly under plain string comparison.
type TimeRange struct {
	Start string
	End   string
}

// Overlaps reports whether the two ranges share any point in time:
// [s1,e1] and [s2,e2] overlap iff s1 <= e2 && s2 <= e1.
func (r TimeRange) Overlaps(other TimeRange) bool {
	return r.Start <= other.End && other.Start <= r.End
}
