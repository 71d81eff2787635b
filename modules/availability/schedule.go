package availability

import (
	"fmt"
	"slices"
	"time"
)

const FieldDayOfWeek = "day_of_week"

// Schedule is a host's validated weekly availability in one IANA timezone.
// It is immutable once built; saving replaces it wholesale.
type Schedule struct {
	hostID   string
	timezone string
	location *time.Location
	byDay    map[DayOfWeek][]Window
}

// NewSchedule validates windows and groups them by day of week. It returns a
// *TimezoneError for an unknown timezone and a *ValidationError when any
// window is malformed, inverted or overlapping.
func NewSchedule(hostID, timezone string, windows []Window) (*Schedule, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil || timezone == "" {
		if err == nil {
			err = fmt.Errorf("timezone is required")
		}
		return nil, &TimezoneError{Name: timezone, Err: err}
	}

	var issues []Issue
	for i, w := range windows {
		if !w.Day.Valid() {
			issues = append(issues, Issue{Index: i, Field: FieldDayOfWeek, Err: fmt.Errorf("unknown day of week %q", w.Day)})
		}
		if !w.Start.Valid() {
			issues = append(issues, Issue{Index: i, Field: FieldStartTime, Err: &FormatError{Input: fmt.Sprint(int(w.Start))}})
		}
		if !w.End.Valid() {
			issues = append(issues, Issue{Index: i, Field: FieldEndTime, Err: &FormatError{Input: fmt.Sprint(int(w.End))}})
		}
	}
	if len(issues) == 0 {
		issues = ValidateWindows(windows)
	}
	if len(issues) > 0 {
		return nil, &ValidationError{Issues: issues}
	}

	byDay := make(map[DayOfWeek][]Window, len(DaysInOrder))
	for _, w := range windows {
		byDay[w.Day] = append(byDay[w.Day], w)
	}
	for day := range byDay {
		sortWindows(byDay[day])
	}

	return &Schedule{
		hostID:   hostID,
		timezone: timezone,
		location: loc,
		byDay:    byDay,
	}, nil
}

func (s *Schedule) HostID() string           { return s.hostID }
func (s *Schedule) Timezone() string         { return s.timezone }
func (s *Schedule) Location() *time.Location { return s.location }

// WindowsFor returns a copy of the windows of one day, ordered by start time.
func (s *Schedule) WindowsFor(day DayOfWeek) []Window {
	return slices.Clone(s.byDay[day])
}

// Windows returns every window ordered by day, then start time.
func (s *Schedule) Windows() []Window {
	var out []Window
	for _, day := range DaysInOrder {
		out = append(out, s.byDay[day]...)
	}
	return out
}

func (s *Schedule) Empty() bool {
	return len(s.byDay) == 0
}
