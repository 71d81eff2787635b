package availability

import (
	"errors"
	"fmt"
	"sort"
	"testing"
)

func win(day DayOfWeek, start, end string) Window {
	return Window{Day: day, Start: MustParseTimeOfDay(start), End: MustParseTimeOfDay(end)}
}

func TestValidateDayAcceptsDisjointWindows(t *testing.T) {
	windows := []Window{
		win(Monday, "09:00", "12:00"),
		win(Monday, "12:00", "13:00"), // touching is fine
		win(Monday, "14:00", "17:00"),
	}
	if issues := ValidateDay(windows); len(issues) != 0 {
		t.Fatalf("expected no issues, got %+v", issues)
	}
}

func TestValidateDayFlagsOverlap(t *testing.T) {
	windows := []Window{
		win(Monday, "09:00", "12:00"),
		win(Monday, "11:59", "13:00"),
		win(Monday, "15:00", "16:00"),
	}
	issues := ValidateDay(windows)
	if len(issues) != 2 {
		t.Fatalf("expected 2 issues, got %+v", issues)
	}
	for i, issue := range issues {
		if issue.Index != i {
			t.Errorf("issue %d index = %d", i, issue.Index)
		}
		if issue.Field != FieldEndTime {
			t.Errorf("overlap attached to %q, want %q", issue.Field, FieldEndTime)
		}
		var overlap *OverlapError
		if !errors.As(issue.Err, &overlap) {
			t.Errorf("issue %d error = %v, want *OverlapError", i, issue.Err)
		}
	}
}

func TestValidateDayFlagsInvertedRange(t *testing.T) {
	windows := []Window{
		win(Tuesday, "10:00", "10:00"),
		win(Tuesday, "18:00", "08:00"),
	}
	issues := ValidateDay(windows)

	inverted := 0
	for _, issue := range issues {
		var inv *InvertedRangeError
		if errors.As(issue.Err, &inv) {
			inverted++
			if issue.Field != FieldStartTime {
				t.Errorf("inverted range attached to %q, want %q", issue.Field, FieldStartTime)
			}
		}
	}
	if inverted != 2 {
		t.Fatalf("expected 2 inverted range issues, got %d (%+v)", inverted, issues)
	}
}

func TestValidateDayDoesNotMutateInput(t *testing.T) {
	windows := []Window{win(Monday, "13:00", "14:00"), win(Monday, "09:00", "13:30")}
	before := fmt.Sprint(windows)
	ValidateDay(windows)
	if fmt.Sprint(windows) != before {
		t.Fatalf("input mutated: %v -> %v", before, windows)
	}
}

// issueSet keys each issue by the window it belongs to instead of its index.
func issueSet(windows []Window, issues []Issue) []string {
	var out []string
	for _, issue := range issues {
		w := windows[issue.Index]
		out = append(out, fmt.Sprintf("%s %s-%s %s %s", w.Day, w.Start, w.End, issue.Field, issue.Err))
	}
	sort.Strings(out)
	return out
}

func permutations(ws []Window) [][]Window {
	if len(ws) <= 1 {
		return [][]Window{append([]Window(nil), ws...)}
	}
	var out [][]Window
	for i := range ws {
		rest := make([]Window, 0, len(ws)-1)
		rest = append(rest, ws[:i]...)
		rest = append(rest, ws[i+1:]...)
		for _, p := range permutations(rest) {
			out = append(out, append([]Window{ws[i]}, p...))
		}
	}
	return out
}

func TestValidateDayIsOrderIndependent(t *testing.T) {
	windows := []Window{
		win(Friday, "09:00", "11:00"),
		win(Friday, "10:00", "12:00"),
		win(Friday, "10:30", "10:45"),
		win(Friday, "16:00", "15:00"),
	}
	want := issueSet(windows, ValidateDay(windows))
	if len(want) == 0 {
		t.Fatalf("fixture should produce issues")
	}

	for _, p := range permutations(windows) {
		got := issueSet(p, ValidateDay(p))
		if fmt.Sprint(got) != fmt.Sprint(want) {
			t.Fatalf("permutation %v\n got %v\nwant %v", p, got, want)
		}
	}
}

func TestValidateDayEveryOverlappingPairIsFlagged(t *testing.T) {
	times := []string{"08:00", "09:00", "10:00", "11:00", "12:00"}
	for _, s1 := range times {
		for _, e1 := range times {
			for _, s2 := range times {
				for _, e2 := range times {
					a, b := win(Monday, s1, e1), win(Monday, s2, e2)
					if !(a.Start < b.End && b.Start < a.End) {
						continue
					}
					issues := ValidateDay([]Window{a, b})
					flagged := false
					for _, issue := range issues {
						var overlap *OverlapError
						if errors.As(issue.Err, &overlap) {
							flagged = true
						}
					}
					if !flagged {
						t.Fatalf("overlap between %v and %v not flagged", a, b)
					}
				}
			}
		}
	}
}

func TestValidateWindowsIsDayScoped(t *testing.T) {
	windows := []Window{
		win(Monday, "09:00", "17:00"),
		win(Tuesday, "09:00", "17:00"),
		win(Monday, "16:00", "18:00"),
	}
	issues := ValidateWindows(windows)
	if len(issues) != 2 {
		t.Fatalf("expected 2 issues, got %+v", issues)
	}
	if issues[0].Index != 0 || issues[1].Index != 2 {
		t.Fatalf("issues should point at the monday windows, got %+v", issues)
	}
}
