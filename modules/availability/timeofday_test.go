package availability

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		in   string
		want TimeOfDay
	}{
		{"00:00", 0},
		{"0:00", 0},
		{"9:05", 9*60 + 5},
		{"09:05", 9*60 + 5},
		{"12:30", 12*60 + 30},
		{"23:59", 1439},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTimeOfDay(tt.in)
			if err != nil {
				t.Fatalf("ParseTimeOfDay(%q) error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Fatalf("ParseTimeOfDay(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseTimeOfDayRejectsMalformed(t *testing.T) {
	for _, in := range []string{"", "24:00", "25:00", "12:60", "1:5", "123:00", "12-30", "12:30:00", " 12:30", "ab:cd", "-1:00"} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseTimeOfDay(in)
			var formatErr *FormatError
			if !errors.As(err, &formatErr) {
				t.Fatalf("ParseTimeOfDay(%q) error = %v, want *FormatError", in, err)
			}
			if formatErr.Input != in {
				t.Fatalf("FormatError.Input = %q, want %q", formatErr.Input, in)
			}
		})
	}
}

func TestTimeOfDayRoundTrip(t *testing.T) {
	for m := 0; m < MinutesPerDay; m++ {
		tod := TimeOfDay(m)
		s := tod.String()
		if len(s) != 5 {
			t.Fatalf("String(%d) = %q, want HH:MM", m, s)
		}
		back, err := ParseTimeOfDay(s)
		if err != nil {
			t.Fatalf("ParseTimeOfDay(%q): %v", s, err)
		}
		if back != tod {
			t.Fatalf("round trip %d -> %q -> %d", m, s, back)
		}
	}
}

func TestCompare(t *testing.T) {
	nine := MustParseTimeOfDay("09:00")
	five := MustParseTimeOfDay("17:00")
	if Compare(nine, five) >= 0 {
		t.Errorf("Compare(09:00, 17:00) should be negative")
	}
	if Compare(five, nine) <= 0 {
		t.Errorf("Compare(17:00, 09:00) should be positive")
	}
	if Compare(nine, MustParseTimeOfDay("9:00")) != 0 {
		t.Errorf("Compare(09:00, 9:00) should be zero")
	}
}

func TestWindowJSONUsesClockStrings(t *testing.T) {
	var w Window
	if err := json.Unmarshal([]byte(`{"day_of_week":"monday","start_time":"9:00","end_time":"17:30"}`), &w); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if w.Day != Monday || w.Start != 540 || w.End != 1050 {
		t.Fatalf("unexpected window %+v", w)
	}

	b, err := json.Marshal(w)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"day_of_week":"monday","start_time":"09:00","end_time":"17:30"}` {
		t.Fatalf("marshal = %s", b)
	}

	if err := json.Unmarshal([]byte(`{"start_time":"7pm"}`), &w); err == nil {
		t.Fatalf("expected error for malformed time")
	}
}
