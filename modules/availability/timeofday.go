package availability

import (
	"cmp"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// MinutesPerDay bounds TimeOfDay: valid values are [0, MinutesPerDay).
const MinutesPerDay = 24 * 60

var timeOfDayPattern = regexp.MustCompile(`^(?:\d|[01]\d|2[0-3]):[0-5]\d$`)

// TimeOfDay is a wall-clock minute of the day, 0 (00:00) through 1439 (23:59).
type TimeOfDay int

// ParseTimeOfDay accepts "H:MM" or "HH:MM" with hours 0-23 and minutes 0-59.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	if !timeOfDayPattern.MatchString(s) {
		return 0, &FormatError{Input: s}
	}
	hours, minutes, _ := strings.Cut(s, ":")
	h, _ := strconv.Atoi(hours)
	m, _ := strconv.Atoi(minutes)
	return TimeOfDay(h*60 + m), nil
}

// MustParseTimeOfDay is ParseTimeOfDay for literals known to be valid.
func MustParseTimeOfDay(s string) TimeOfDay {
	t, err := ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

func (t TimeOfDay) Hour() int   { return int(t) / 60 }
func (t TimeOfDay) Minute() int { return int(t) % 60 }

func (t TimeOfDay) Valid() bool {
	return t >= 0 && t < MinutesPerDay
}

// String always renders the canonical zero-padded "HH:MM" form.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

func (t TimeOfDay) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *TimeOfDay) UnmarshalText(b []byte) error {
	parsed, err := ParseTimeOfDay(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Compare returns -1, 0 or +1.
func Compare(a, b TimeOfDay) int {
	return cmp.Compare(a, b)
}
