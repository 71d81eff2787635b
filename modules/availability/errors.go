package availability

import (
	"fmt"
	"strings"
	"time"
)

// FormatError reports a time-of-day string that is not H:MM or HH:MM.
type FormatError struct {
	Input string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid time of day %q: expected HH:MM (00-23 for hours, 00-59 for minutes)", e.Input)
}

// InvertedRangeError reports a window whose start is not before its end.
type InvertedRangeError struct {
	Window Window
}

func (e *InvertedRangeError) Error() string {
	return fmt.Sprintf("start time %s must be before end time %s", e.Window.Start, e.Window.End)
}

// OverlapError reports a window that overlaps another window of the same day.
type OverlapError struct {
	Window Window
	Other  Window
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("availability %s-%s overlaps with %s-%s on %s",
		e.Window.Start, e.Window.End, e.Other.Start, e.Other.End, e.Window.Day)
}

// ValidationError aggregates the issues that prevented a Schedule from being built.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		msgs = append(msgs, fmt.Sprintf("window %d %s: %v", issue.Index, issue.Field, issue.Err))
	}
	return "invalid availability: " + strings.Join(msgs, "; ")
}

// TimezoneError reports an unknown IANA timezone name.
type TimezoneError struct {
	Name string
	Err  error
}

func (e *TimezoneError) Error() string {
	return fmt.Sprintf("unknown timezone %q: %v", e.Name, e.Err)
}

func (e *TimezoneError) Unwrap() error { return e.Err }

// CalendarUnavailableError means busy intervals could not be fetched. Callers
// must treat it as "cannot determine availability", never as "free".
type CalendarUnavailableError struct {
	HostID string
	Err    error
}

func (e *CalendarUnavailableError) Error() string {
	return fmt.Sprintf("calendar unavailable for host %s: %v", e.HostID, e.Err)
}

func (e *CalendarUnavailableError) Unwrap() error { return e.Err }

// BookingConflictError means none of the requested candidates is bookable.
type BookingConflictError struct {
	Requested []time.Time
}

func (e *BookingConflictError) Error() string {
	if len(e.Requested) == 1 {
		return fmt.Sprintf("requested time %s is not available", e.Requested[0].UTC().Format(time.RFC3339))
	}
	return fmt.Sprintf("none of the %d requested times is available", len(e.Requested))
}

// ExternalBookingFailure means the calendar event could not be created after
// the slot was confirmed bookable.
type ExternalBookingFailure struct {
	HostID string
	Err    error
}

func (e *ExternalBookingFailure) Error() string {
	return fmt.Sprintf("failed to create calendar event for host %s: %v", e.HostID, e.Err)
}

func (e *ExternalBookingFailure) Unwrap() error { return e.Err }
