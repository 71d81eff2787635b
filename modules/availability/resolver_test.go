package availability

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func mustLoad(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	if err != nil {
		t.Fatalf("load %s: %v", name, err)
	}
	return loc
}

func mustSchedule(t *testing.T, tz string, windows ...Window) *Schedule {
	t.Helper()
	s, err := NewSchedule("host-1", tz, windows)
	if err != nil {
		t.Fatalf("NewSchedule: %v", err)
	}
	return s
}

func formatAll(ts []time.Time, loc *time.Location) string {
	out := make([]string, len(ts))
	for i, v := range ts {
		out[i] = v.In(loc).Format("Mon 15:04")
	}
	return fmt.Sprint(out)
}

func TestResolveNewYorkScenario(t *testing.T) {
	ny := mustLoad(t, "America/New_York")
	schedule := mustSchedule(t, "America/New_York", win(Monday, "09:00", "17:00"))

	// 2024-03-04 is a Monday
	at := func(h, m int) time.Time { return time.Date(2024, 3, 4, h, m, 0, 0, ny) }
	busy := []BusyInterval{{Start: at(14, 0).UTC(), End: at(15, 0).UTC()}}
	candidates := []time.Time{at(9, 0), at(14, 30), at(16, 30), at(17, 0)}
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	got := ResolveBookableSlots(candidates, 30, schedule, busy, now)

	if want := "[Mon 09:00 Mon 16:30]"; formatAll(got, ny) != want {
		t.Fatalf("bookable = %s, want %s", formatAll(got, ny), want)
	}
}

func TestResolveAucklandUsesHostLocalDay(t *testing.T) {
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	// 2024-03-03 is a Sunday in UTC; Auckland is UTC+13 (NZDT) that week
	sundayLate := time.Date(2024, 3, 3, 23, 30, 0, 0, time.UTC)
	sundayEvening := time.Date(2024, 3, 3, 18, 30, 0, 0, time.UTC)

	tests := []struct {
		name      string
		window    Window
		candidate time.Time
		want      bool
	}{
		{"monday early window fits 07:30 local", win(Monday, "00:00", "08:00"), sundayEvening, true},
		{"monday early window misses 12:30 local", win(Monday, "00:00", "08:00"), sundayLate, false},
		{"monday midday window fits 12:30 local", win(Monday, "12:00", "13:00"), sundayLate, true},
		{"sunday window is never consulted", win(Sunday, "00:00", "23:59"), sundayLate, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schedule := mustSchedule(t, "Pacific/Auckland", tt.window)
			got := IsBookable(tt.candidate, 30, schedule, nil, now)
			if got != tt.want {
				t.Fatalf("IsBookable(%s) = %v, want %v", tt.candidate.Format(time.RFC3339), got, tt.want)
			}
		})
	}
}

func TestResolveExcludesPastCandidates(t *testing.T) {
	schedule := mustSchedule(t, "UTC", win(Wednesday, "00:00", "23:59"))
	// 2024-01-10 is a Wednesday
	now := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	candidates := []time.Time{
		now.Add(-time.Minute),
		now.Add(-2 * time.Hour),
		now,
		now.Add(time.Hour),
	}

	got := ResolveBookableSlots(candidates, 30, schedule, nil, now)
	if len(got) != 2 || !got[0].Equal(now) || !got[1].Equal(now.Add(time.Hour)) {
		t.Fatalf("bookable = %v", got)
	}
}

func TestResolveWindowBoundsAreInclusive(t *testing.T) {
	schedule := mustSchedule(t, "UTC", win(Thursday, "10:00", "11:00"))
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	// 2024-01-11 is a Thursday
	start := time.Date(2024, 1, 11, 10, 0, 0, 0, time.UTC)

	if !IsBookable(start, 60, schedule, nil, now) {
		t.Fatalf("meeting exactly filling the window must be bookable")
	}
	if IsBookable(start.Add(-time.Minute), 60, schedule, nil, now) {
		t.Fatalf("meeting starting before the window must be rejected")
	}
	if IsBookable(start.Add(time.Minute), 60, schedule, nil, now) {
		t.Fatalf("meeting ending after the window must be rejected")
	}
}

func TestResolveMeetingCannotSpanAdjacentWindows(t *testing.T) {
	schedule := mustSchedule(t, "UTC",
		win(Thursday, "09:00", "10:00"),
		win(Thursday, "10:00", "11:00"),
	)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	start := time.Date(2024, 1, 11, 9, 30, 0, 0, time.UTC)

	if IsBookable(start, 60, schedule, nil, now) {
		t.Fatalf("meeting across two contiguous windows must be rejected")
	}
	if !IsBookable(start, 30, schedule, nil, now) {
		t.Fatalf("shorter meeting inside the first window must be accepted")
	}
}

func TestResolveBusyIntervalBoundaries(t *testing.T) {
	schedule := mustSchedule(t, "UTC", win(Friday, "08:00", "18:00"))
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	// 2024-01-12 is a Friday
	start := time.Date(2024, 1, 12, 10, 0, 0, 0, time.UTC)
	end := start.Add(30 * time.Minute)

	tests := []struct {
		name string
		busy BusyInterval
		want bool
	}{
		{"abuts after", BusyInterval{Start: end, End: end.Add(time.Hour)}, true},
		{"abuts before", BusyInterval{Start: start.Add(-time.Hour), End: start}, true},
		{"one minute into the end", BusyInterval{Start: end.Add(-time.Minute), End: end.Add(time.Hour)}, false},
		{"one minute into the start", BusyInterval{Start: start.Add(-time.Hour), End: start.Add(time.Minute)}, false},
		{"covers meeting", BusyInterval{Start: start.Add(-time.Hour), End: end.Add(time.Hour)}, false},
		{"inside meeting", BusyInterval{Start: start.Add(5 * time.Minute), End: start.Add(10 * time.Minute)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsBookable(start, 30, schedule, []BusyInterval{tt.busy}, now)
			if got != tt.want {
				t.Fatalf("IsBookable = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolveFollowsDaylightSaving(t *testing.T) {
	schedule := mustSchedule(t, "America/New_York", win(Monday, "09:00", "10:00"))
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	summer := time.Date(2024, 7, 1, 13, 0, 0, 0, time.UTC) // 09:00 EDT
	winter := time.Date(2024, 1, 8, 13, 0, 0, 0, time.UTC) // 08:00 EST

	if !IsBookable(summer, 60, schedule, nil, now) {
		t.Fatalf("13:00 UTC in July is 09:00 in New York and should be bookable")
	}
	if IsBookable(winter, 60, schedule, nil, now) {
		t.Fatalf("13:00 UTC in January is 08:00 in New York and should be rejected")
	}
	if !IsBookable(winter.Add(time.Hour), 60, schedule, nil, now) {
		t.Fatalf("14:00 UTC in January is 09:00 in New York and should be bookable")
	}
}

func TestResolveDurationChangesOutcomePerCandidate(t *testing.T) {
	schedule := mustSchedule(t, "UTC", win(Monday, "09:00", "10:00"))
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	start := time.Date(2024, 1, 15, 9, 15, 0, 0, time.UTC)

	if !IsBookable(start, 45, schedule, nil, now) {
		t.Fatalf("45 minutes from 09:15 fits")
	}
	if IsBookable(start, 46, schedule, nil, now) {
		t.Fatalf("46 minutes from 09:15 does not fit")
	}
}

func TestResolveIsIdempotentAndDeduplicates(t *testing.T) {
	schedule := mustSchedule(t, "Europe/Berlin",
		win(Monday, "09:00", "12:00"),
		win(Monday, "13:00", "17:00"),
	)
	berlin := mustLoad(t, "Europe/Berlin")
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	busy := []BusyInterval{{
		Start: time.Date(2024, 1, 15, 10, 0, 0, 0, berlin),
		End:   time.Date(2024, 1, 15, 10, 30, 0, 0, berlin),
	}}

	candidates := CandidateStarts(
		time.Date(2024, 1, 15, 8, 0, 0, 0, berlin),
		time.Date(2024, 1, 15, 18, 0, 0, 0, berlin),
		15*time.Minute,
		berlin,
	)
	candidates = append(candidates, candidates[4]) // duplicate of 09:00

	first := ResolveBookableSlots(candidates, 30, schedule, busy, now)
	second := ResolveBookableSlots(candidates, 30, schedule, busy, now)
	if formatAll(first, berlin) != formatAll(second, berlin) {
		t.Fatalf("results differ:\n%s\n%s", formatAll(first, berlin), formatAll(second, berlin))
	}

	seen := map[int64]bool{}
	for _, ts := range first {
		if seen[ts.Unix()] {
			t.Fatalf("duplicate %s in result", ts)
		}
		seen[ts.Unix()] = true
	}
	if len(first) == 0 {
		t.Fatalf("expected bookable slots")
	}
}

func TestResolveWithoutScheduleOrDuration(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := []time.Time{now.Add(time.Hour)}
	if got := ResolveBookableSlots(c, 30, nil, nil, now); len(got) != 0 {
		t.Fatalf("nil schedule should yield nothing, got %v", got)
	}
	schedule := mustSchedule(t, "UTC", win(Monday, "00:00", "23:59"))
	if got := ResolveBookableSlots(c, 0, schedule, nil, now); len(got) != 0 {
		t.Fatalf("zero duration should yield nothing, got %v", got)
	}
}

func TestNewScheduleRejectsInvalidInput(t *testing.T) {
	_, err := NewSchedule("h", "Mars/Olympus", nil)
	var tzErr *TimezoneError
	if !errors.As(err, &tzErr) {
		t.Fatalf("expected *TimezoneError, got %v", err)
	}

	_, err = NewSchedule("h", "UTC", []Window{win(Monday, "09:00", "12:00"), win(Monday, "11:00", "13:00")})
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if len(vErr.Issues) != 2 {
		t.Fatalf("expected 2 issues, got %+v", vErr.Issues)
	}

	_, err = NewSchedule("h", "UTC", []Window{{Day: "someday", Start: 0, End: 60}})
	if !errors.As(err, &vErr) || vErr.Issues[0].Field != FieldDayOfWeek {
		t.Fatalf("expected day_of_week issue, got %v", err)
	}
}

func TestScheduleGroupsWindowsByDay(t *testing.T) {
	s := mustSchedule(t, "UTC",
		win(Tuesday, "13:00", "14:00"),
		win(Monday, "09:00", "10:00"),
		win(Tuesday, "08:00", "09:00"),
	)
	tue := s.WindowsFor(Tuesday)
	if len(tue) != 2 || tue[0].Start != MustParseTimeOfDay("08:00") {
		t.Fatalf("tuesday windows = %v", tue)
	}
	all := s.Windows()
	if len(all) != 3 || all[0].Day != Monday {
		t.Fatalf("windows = %v", all)
	}
	if len(s.WindowsFor(Sunday)) != 0 {
		t.Fatalf("sunday should be empty")
	}
}

func TestCandidateStarts(t *testing.T) {
	from := time.Date(2024, 1, 1, 9, 7, 0, 0, time.UTC)
	to := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	got := CandidateStarts(from, to, 15*time.Minute, time.UTC)
	if len(got) != 3 {
		t.Fatalf("expected 3 candidates, got %v", got)
	}
	if got[0].Minute() != 15 || got[2].Minute() != 45 {
		t.Fatalf("candidates not aligned: %v", got)
	}
	if CandidateStarts(to, from, time.Minute, time.UTC) != nil {
		t.Fatalf("inverted range should be empty")
	}
}

func TestCandidateStartsFollowHostClock(t *testing.T) {
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		tz       string
		window   Window
		step     time.Duration
		duration int
		want     string
	}{
		{
			name:     "kolkata hourly",
			tz:       "Asia/Kolkata",
			window:   win(Monday, "09:00", "17:00"),
			step:     time.Hour,
			duration: 60,
			want:     "[Mon 09:00 Mon 10:00 Mon 11:00 Mon 12:00 Mon 13:00 Mon 14:00 Mon 15:00 Mon 16:00]",
		},
		{
			name:     "kathmandu half hour",
			tz:       "Asia/Kathmandu",
			window:   win(Monday, "09:00", "10:00"),
			step:     30 * time.Minute,
			duration: 30,
			want:     "[Mon 09:00 Mon 09:30]",
		},
		{
			name:     "kathmandu hourly",
			tz:       "Asia/Kathmandu",
			window:   win(Monday, "09:00", "10:00"),
			step:     time.Hour,
			duration: 60,
			want:     "[Mon 09:00]",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc := mustLoad(t, tt.tz)
			schedule := mustSchedule(t, tt.tz, tt.window)

			// 2024-03-04 is a Monday
			from := time.Date(2024, 3, 4, 8, 10, 0, 0, loc)
			to := time.Date(2024, 3, 4, 23, 0, 0, 0, loc)
			candidates := CandidateStarts(from, to, tt.step, schedule.Location())

			got := ResolveBookableSlots(candidates, tt.duration, schedule, nil, now)
			if formatAll(got, loc) != tt.want {
				t.Fatalf("bookable = %s, want %s", formatAll(got, loc), tt.want)
			}
		})
	}
}

func TestCandidateStartsRestartAtLocalMidnight(t *testing.T) {
	kathmandu := mustLoad(t, "Asia/Kathmandu")
	from := time.Date(2024, 3, 4, 22, 0, 0, 0, kathmandu)
	to := time.Date(2024, 3, 5, 1, 0, 0, 0, kathmandu)

	got := CandidateStarts(from, to, 45*time.Minute, kathmandu)
	if want := "[Mon 22:30 Mon 23:15 Tue 00:00 Tue 00:45]"; formatAll(got, kathmandu) != want {
		t.Fatalf("candidates = %s, want %s", formatAll(got, kathmandu), want)
	}
}
