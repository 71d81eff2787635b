package availability

import (
	"cmp"
	"slices"
	"strings"
	"time"
)

type DayOfWeek string

const (
	Monday    DayOfWeek = "monday"
	Tuesday   DayOfWeek = "tuesday"
	Wednesday DayOfWeek = "wednesday"
	Thursday  DayOfWeek = "thursday"
	Friday    DayOfWeek = "friday"
	Saturday  DayOfWeek = "saturday"
	Sunday    DayOfWeek = "sunday"
)

// DaysInOrder is the display order used for listings.
var DaysInOrder = []DayOfWeek{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

var weekdays = map[time.Weekday]DayOfWeek{
	time.Monday:    Monday,
	time.Tuesday:   Tuesday,
	time.Wednesday: Wednesday,
	time.Thursday:  Thursday,
	time.Friday:    Friday,
	time.Saturday:  Saturday,
	time.Sunday:    Sunday,
}

func FromWeekday(w time.Weekday) DayOfWeek {
	return weekdays[w]
}

func ParseDayOfWeek(s string) (DayOfWeek, bool) {
	d := DayOfWeek(strings.ToLower(strings.TrimSpace(s)))
	return d, d.Valid()
}

func (d DayOfWeek) Valid() bool {
	return slices.Contains(DaysInOrder, d)
}

func (d DayOfWeek) index() int {
	return slices.Index(DaysInOrder, d)
}

// Window is a recurring weekly interval [Start, End) of local availability.
type Window struct {
	Day   DayOfWeek `json:"day_of_week"`
	Start TimeOfDay `json:"start_time"`
	End   TimeOfDay `json:"end_time"`
}

// Overlaps applies the half-open test and ignores Day; callers compare
// windows of one day only.
func (w Window) Overlaps(other Window) bool {
	return w.Start < other.End && other.Start < w.End
}

func (w Window) Inverted() bool {
	return w.Start >= w.End
}

// bounds materialises the window on the local calendar date of day.
func (w Window) bounds(day time.Time) (time.Time, time.Time) {
	y, m, d := day.Date()
	loc := day.Location()
	start := time.Date(y, m, d, w.Start.Hour(), w.Start.Minute(), 0, 0, loc)
	end := time.Date(y, m, d, w.End.Hour(), w.End.Minute(), 0, 0, loc)
	return start, end
}

func sortWindows(windows []Window) {
	slices.SortFunc(windows, func(a, b Window) int {
		if c := cmp.Compare(a.Day.index(), b.Day.index()); c != 0 {
			return c
		}
		if c := Compare(a.Start, b.Start); c != 0 {
			return c
		}
		return Compare(a.End, b.End)
	})
}
