package availability

import (
	"context"
	"time"
)

// ScheduleStore persists schedules. SaveSchedule must be atomic: after it
// succeeds the stored window set equals windows exactly. LoadSchedule returns
// nil, nil for a host without a schedule.
type ScheduleStore interface {
	LoadSchedule(ctx context.Context, hostID string) (*Schedule, error)
	SaveSchedule(ctx context.Context, hostID, timezone string, windows []Window) error
}

// BusySource returns the host's busy intervals overlapping [start, end),
// ordered by start. Failures are reported as *CalendarUnavailableError.
type BusySource interface {
	FetchBusyIntervals(ctx context.Context, hostID string, start, end time.Time) ([]BusyInterval, error)
}

// MeetingRequest describes the external calendar event to create.
type MeetingRequest struct {
	// RequestID makes creation idempotent on providers that support it.
	RequestID       string
	HostID          string
	GuestEmail      string
	GuestName       string
	GuestNotes      string
	Start           time.Time
	DurationMinutes int
	Timezone        string
	EventTitle      string
}

func (r MeetingRequest) End() time.Time {
	return r.Start.Add(time.Duration(r.DurationMinutes) * time.Minute)
}

// MeetingCreator writes the booked meeting to the host's calendar and returns
// the external event id. Failures are reported as *ExternalBookingFailure.
type MeetingCreator interface {
	CreateExternalEvent(ctx context.Context, req MeetingRequest) (string, error)
}
