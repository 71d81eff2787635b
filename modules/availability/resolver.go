package availability

import (
	"slices"
	"time"
)

// BusyInterval is a span [Start, End) during which the host is committed.
type BusyInterval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Overlaps reports whether [start, end) intersects the interval. Touching
// intervals do not overlap.
func (b BusyInterval) Overlaps(start, end time.Time) bool {
	return b.Start.Before(end) && start.Before(b.End)
}

// ResolveBookableSlots returns the candidates at which a meeting of
// durationMinutes can be booked, in input order and without duplicates.
//
// A candidate is bookable when it is not before now, the meeting fits entirely
// inside one window of the host-local day the candidate falls on, and the
// meeting does not overlap any busy interval. Every candidate is evaluated on
// its own; the function is pure.
func ResolveBookableSlots(candidates []time.Time, durationMinutes int, schedule *Schedule, busy []BusyInterval, now time.Time) []time.Time {
	if schedule == nil || durationMinutes <= 0 {
		return []time.Time{}
	}

	bookable := make([]time.Time, 0, len(candidates))
	for _, c := range candidates {
		if !IsBookable(c, durationMinutes, schedule, busy, now) {
			continue
		}
		if slices.ContainsFunc(bookable, c.Equal) {
			continue
		}
		bookable = append(bookable, c)
	}
	return bookable
}

// IsBookable evaluates a single candidate start instant.
func IsBookable(candidate time.Time, durationMinutes int, schedule *Schedule, busy []BusyInterval, now time.Time) bool {
	if schedule == nil || durationMinutes <= 0 {
		return false
	}
	if candidate.Before(now) {
		return false
	}

	end := candidate.Add(time.Duration(durationMinutes) * time.Minute)

	local := candidate.In(schedule.Location())
	windows := schedule.byDay[FromWeekday(local.Weekday())]
	if len(windows) == 0 {
		return false
	}

	if !fitsAnyWindow(candidate, end, local, windows) {
		return false
	}

	for _, b := range busy {
		if b.Overlaps(candidate, end) {
			return false
		}
	}
	return true
}

// fitsAnyWindow checks containment of [start, end) in one window, bounds inclusive.
func fitsAnyWindow(start, end, local time.Time, windows []Window) bool {
	for _, w := range windows {
		windowStart, windowEnd := w.bounds(local)
		if !start.Before(windowStart) && !end.After(windowEnd) {
			return true
		}
	}
	return false
}

// CandidateStarts lists instants on a grid of step that restarts at every
// local midnight in loc, from the first grid point at or after from while
// strictly before to.
func CandidateStarts(from, to time.Time, step time.Duration, loc *time.Location) []time.Time {
	if step <= 0 || !from.Before(to) {
		return nil
	}
	if loc == nil {
		loc = time.UTC
	}

	local := from.In(loc)
	day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)

	var out []time.Time
	for day.Before(to) {
		next := day.AddDate(0, 0, 1)
		first := day
		if first.Before(from) {
			first = first.Add((from.Sub(day) + step - 1) / step * step)
		}
		for t := first; t.Before(next) && t.Before(to); t = t.Add(step) {
			out = append(out, t)
		}
		day = next
	}
	return out
}
