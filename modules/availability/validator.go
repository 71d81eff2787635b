package availability

import (
	"cmp"
	"slices"
)

const (
	FieldStartTime = "start_time"
	FieldEndTime   = "end_time"
)

// Issue is one validation problem attached to a window of the input slice.
type Issue struct {
	Index int    `json:"index"`
	Field string `json:"field"`
	Err   error  `json:"-"`
}

func (i Issue) Message() string {
	return i.Err.Error()
}

// ValidateDay checks the windows authored for a single day of week. Every
// window overlapping another gets an OverlapError on its end time, every
// window with start >= end gets an InvertedRangeError on its start time.
// The input is not modified.
func ValidateDay(windows []Window) []Issue {
	var issues []Issue
	for i, w := range windows {
		// report the earliest overlapping window so the result does not
		// depend on input order
		var first *Window
		for j := range windows {
			other := windows[j]
			if i == j || !w.Overlaps(other) {
				continue
			}
			if first == nil || other.Start < first.Start || (other.Start == first.Start && other.End < first.End) {
				first = &other
			}
		}
		if first != nil {
			issues = append(issues, Issue{Index: i, Field: FieldEndTime, Err: &OverlapError{Window: w, Other: *first}})
		}
		if w.Inverted() {
			issues = append(issues, Issue{Index: i, Field: FieldStartTime, Err: &InvertedRangeError{Window: w}})
		}
	}
	return issues
}

// ValidateWindows validates a flat list spanning several days. Overlap is
// only checked between windows of the same day. Issue indexes refer to the
// input slice.
func ValidateWindows(windows []Window) []Issue {
	byDay := make(map[DayOfWeek][]int)
	for i, w := range windows {
		byDay[w.Day] = append(byDay[w.Day], i)
	}

	var issues []Issue
	for _, indexes := range byDay {
		day := make([]Window, len(indexes))
		for k, idx := range indexes {
			day[k] = windows[idx]
		}
		for _, issue := range ValidateDay(day) {
			issue.Index = indexes[issue.Index]
			issues = append(issues, issue)
		}
	}

	slices.SortFunc(issues, func(a, b Issue) int {
		if c := cmp.Compare(a.Index, b.Index); c != 0 {
			return c
		}
		return cmp.Compare(a.Field, b.Field)
	})
	return issues
}
