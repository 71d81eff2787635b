package service

import (
	"context"
	stdErrors "errors"
	"strings"
	"testing"
	"time"

	"smart-schedule/core/clock"
	"smart-schedule/core/config"
	"smart-schedule/core/errors"
	"smart-schedule/core/queue"
	"smart-schedule/modules/availability"
	"smart-schedule/modules/booking/dto"
	eventDto "smart-schedule/modules/event/dto"

	"github.com/google/uuid"
)

type stubEvents struct {
	event *eventDto.EventResponse
}

func (s *stubEvents) FindActiveEvent(_ context.Context, _ uuid.UUID, idOrSlug string) (*eventDto.EventResponse, *errors.AppError) {
	if s.event == nil || (idOrSlug != s.event.ID && idOrSlug != s.event.Slug) {
		return nil, errors.NewAppError(errors.ErrNotFound, "Event not found", nil)
	}
	return s.event, nil
}

type stubSchedules struct {
	schedule *availability.Schedule
}

func (s *stubSchedules) LoadSchedule(context.Context, string) (*availability.Schedule, error) {
	return s.schedule, nil
}

func (s *stubSchedules) SaveSchedule(context.Context, string, string, []availability.Window) error {
	return nil
}

type stubBusy struct {
	busy   []availability.BusyInterval
	err    error
	ranges [][2]time.Time
}

func (s *stubBusy) FetchBusyIntervals(_ context.Context, _ string, start, end time.Time) ([]availability.BusyInterval, error) {
	s.ranges = append(s.ranges, [2]time.Time{start, end})
	return s.busy, s.err
}

type stubCreator struct {
	err     error
	created []availability.MeetingRequest
}

func (s *stubCreator) CreateExternalEvent(_ context.Context, req availability.MeetingRequest) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.created = append(s.created, req)
	return "evt" + req.RequestID, nil
}

type stubPublisher struct {
	err       error
	published []queue.BookingConfirmedPayload
}

func (s *stubPublisher) PublishBookingConfirmed(_ context.Context, p queue.BookingConfirmedPayload) error {
	s.published = append(s.published, p)
	return s.err
}

func (s *stubPublisher) Close() error { return nil }

type fixture struct {
	svc       BookingService
	hostID    uuid.UUID
	schedules *stubSchedules
	busy      *stubBusy
	creator   *stubCreator
	publisher *stubPublisher
	eventID   string
}

func mustTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

// newFixture: host in New York available Monday 09:00-12:00 (14:00-17:00 UTC
// in March before DST), busy 15:00-15:30 UTC, now Monday 2024-03-04 12:00 UTC.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	hostID := uuid.New()
	schedule, err := availability.NewSchedule(hostID.String(), "America/New_York", []availability.Window{{
		Day:   availability.Monday,
		Start: availability.MustParseTimeOfDay("09:00"),
		End:   availability.MustParseTimeOfDay("12:00"),
	}})
	if err != nil {
		t.Fatal(err)
	}

	f := &fixture{
		hostID:    hostID,
		schedules: &stubSchedules{schedule: schedule},
		busy: &stubBusy{busy: []availability.BusyInterval{{
			Start: mustTime("2024-03-04T15:00:00Z"),
			End:   mustTime("2024-03-04T15:30:00Z"),
		}}},
		creator:   &stubCreator{},
		publisher: &stubPublisher{},
	}
	f.eventID = uuid.NewString()
	events := &stubEvents{event: &eventDto.EventResponse{ID: f.eventID, Slug: "intro-call", Name: "Intro call", DurationMinutes: 30, IsActive: true}}
	f.svc = NewBookingService(events, f.schedules, f.busy, f.creator, f.publisher,
		clock.NewFixed(mustTime("2024-03-04T12:00:00Z")),
		config.BookingConfig{CandidateStepMinutes: 60})
	return f
}

func bookingRequest(start string) *dto.CreateBookingRequest {
	return &dto.CreateBookingRequest{
		StartTime:  start,
		GuestEmail: "guest@example.com",
		GuestName:  "Guest",
		GuestNotes: "agenda",
		Timezone:   "Europe/Berlin",
	}
}

func TestGetSlotsGroupsByGuestDate(t *testing.T) {
	f := newFixture(t)
	from, to := mustTime("2024-03-04T00:00:00Z"), mustTime("2024-03-05T00:00:00Z")

	resp, appErr := f.svc.GetSlots(context.Background(), f.hostID, "intro-call", from, to, "Asia/Tokyo")
	if appErr != nil {
		t.Fatalf("GetSlots: %v", appErr)
	}
	if len(resp.Days) != 2 {
		t.Fatalf("days = %+v", resp.Days)
	}
	if resp.Days[0].Date != "2024-03-04" || resp.Days[0].Slots[0].StartTime != "2024-03-04T14:00:00Z" || resp.Days[0].Slots[0].LocalTime != "23:00" {
		t.Fatalf("first day = %+v", resp.Days[0])
	}
	if resp.Days[1].Date != "2024-03-05" || resp.Days[1].Slots[0].StartTime != "2024-03-04T16:00:00Z" || resp.Days[1].Slots[0].LocalTime != "01:00" {
		t.Fatalf("second day = %+v", resp.Days[1])
	}

	// busy is fetched from now, not from the past start, through the last meeting end
	if got := f.busy.ranges[0]; !got[0].Equal(mustTime("2024-03-04T12:00:00Z")) || !got[1].Equal(mustTime("2024-03-05T00:30:00Z")) {
		t.Fatalf("busy range = %v", got)
	}
}

func TestGetSlotsWithoutScheduleIsEmpty(t *testing.T) {
	f := newFixture(t)
	f.schedules.schedule = nil
	resp, appErr := f.svc.GetSlots(context.Background(), f.hostID, "intro-call", time.Time{}, time.Time{}, "")
	if appErr != nil {
		t.Fatal(appErr)
	}
	if len(resp.Days) != 0 || len(f.busy.ranges) != 0 {
		t.Fatalf("expected no slots and no calendar read, got %+v", resp)
	}
}

func TestGetSlotsCalendarUnavailable(t *testing.T) {
	f := newFixture(t)
	f.busy.err = &availability.CalendarUnavailableError{HostID: f.hostID.String(), Err: stdErrors.New("timeout")}
	_, appErr := f.svc.GetSlots(context.Background(), f.hostID, "intro-call", time.Time{}, time.Time{}, "")
	if appErr == nil || appErr.Code != errors.ErrCalendarUnavailable {
		t.Fatalf("expected calendar unavailable, got %v", appErr)
	}
}

func TestGetSlotsRejectsBadTimezone(t *testing.T) {
	f := newFixture(t)
	_, appErr := f.svc.GetSlots(context.Background(), f.hostID, "intro-call", time.Time{}, time.Time{}, "Mars/Olympus")
	if appErr == nil || appErr.Code != errors.ErrInvalidInput {
		t.Fatalf("expected invalid input, got %v", appErr)
	}
}

func TestCreateBookingSuccess(t *testing.T) {
	f := newFixture(t)
	resp, appErr := f.svc.CreateBooking(context.Background(), f.hostID, "intro-call", bookingRequest("2024-03-04T15:00:00+01:00"))
	if appErr != nil {
		t.Fatalf("CreateBooking: %v", appErr)
	}
	if resp.StartTime != "2024-03-04T14:00:00Z" || resp.EndTime != "2024-03-04T14:30:00Z" {
		t.Fatalf("unexpected times %+v", resp)
	}
	if resp.LocalStart != "Monday, March 4, 2024 at 3:00 PM CET" {
		t.Fatalf("local start = %q", resp.LocalStart)
	}

	if len(f.creator.created) != 1 {
		t.Fatalf("creator called %d times", len(f.creator.created))
	}
	req := f.creator.created[0]
	if req.Timezone != "Europe/Berlin" || req.DurationMinutes != 30 || req.EventTitle != "Intro call" || req.GuestNotes != "agenda" {
		t.Fatalf("meeting request = %+v", req)
	}
	if resp.ExternalEventID != "evt"+req.RequestID {
		t.Fatalf("external id = %q", resp.ExternalEventID)
	}

	if len(f.publisher.published) != 1 || f.publisher.published[0].ExternalEventID != resp.ExternalEventID {
		t.Fatalf("published = %+v", f.publisher.published)
	}
	if got := f.busy.ranges[0]; !got[0].Equal(mustTime("2024-03-04T14:00:00Z")) || !got[1].Equal(mustTime("2024-03-04T14:30:00Z")) {
		t.Fatalf("busy range = %v", got)
	}
}

func TestCreateBookingFailures(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(*fixture)
		event   string
		start   string
		code    errors.ErrorCode
		creates bool
	}{
		{name: "busy slot", start: "2024-03-04T15:00:00Z", code: errors.ErrBookingConflict},
		{name: "outside window", start: "2024-03-04T16:45:00Z", code: errors.ErrBookingConflict},
		{name: "in the past", start: "2024-03-04T11:00:00Z", code: errors.ErrBookingConflict},
		{name: "beyond horizon", start: "2024-05-13T14:00:00Z", code: errors.ErrBookingConflict},
		{name: "no schedule", start: "2024-03-04T14:00:00Z", code: errors.ErrBookingConflict,
			setup: func(f *fixture) { f.schedules.schedule = nil }},
		{name: "unknown event", event: "missing", start: "2024-03-04T14:00:00Z", code: errors.ErrNotFound},
		{name: "calendar unavailable", start: "2024-03-04T14:00:00Z", code: errors.ErrCalendarUnavailable,
			setup: func(f *fixture) {
				f.busy.err = &availability.CalendarUnavailableError{HostID: f.hostID.String(), Err: stdErrors.New("down")}
			}},
		{name: "external failure", start: "2024-03-04T14:00:00Z", code: errors.ErrExternalBookingFailed,
			setup: func(f *fixture) {
				f.creator.err = &availability.ExternalBookingFailure{HostID: f.hostID.String(), Err: stdErrors.New("quota")}
			}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			if tt.setup != nil {
				tt.setup(f)
			}
			event := tt.event
			if event == "" {
				event = "intro-call"
			}
			_, appErr := f.svc.CreateBooking(context.Background(), f.hostID, event, bookingRequest(tt.start))
			if appErr == nil || appErr.Code != tt.code {
				t.Fatalf("error = %v, want code %d", appErr, tt.code)
			}
			if len(f.creator.created) != 0 || len(f.publisher.published) != 0 {
				t.Fatalf("nothing should be created or published")
			}
			if tt.code == errors.ErrBookingConflict {
				var conflict *availability.BookingConflictError
				if !stdErrors.As(appErr, &conflict) {
					t.Fatalf("conflict should wrap *BookingConflictError, got %v", appErr.Err)
				}
			}
		})
	}
}

func TestCreateBookingValidation(t *testing.T) {
	f := newFixture(t)
	mutate := map[string]func(*dto.CreateBookingRequest){
		"missing name":     func(r *dto.CreateBookingRequest) { r.GuestName = " " },
		"bad email":        func(r *dto.CreateBookingRequest) { r.GuestEmail = "not-an-email" },
		"missing timezone": func(r *dto.CreateBookingRequest) { r.Timezone = "" },
		"bad timezone":     func(r *dto.CreateBookingRequest) { r.Timezone = "Nowhere/City" },
		"bad start":        func(r *dto.CreateBookingRequest) { r.StartTime = "tomorrow" },
	}
	for name, m := range mutate {
		t.Run(name, func(t *testing.T) {
			req := bookingRequest("2024-03-04T14:00:00Z")
			m(req)
			_, appErr := f.svc.CreateBooking(context.Background(), f.hostID, "intro-call", req)
			if appErr == nil || appErr.Code != errors.ErrInvalidInput {
				t.Fatalf("expected invalid input, got %v", appErr)
			}
		})
	}
	if len(f.busy.ranges) != 0 {
		t.Fatalf("calendar must not be read for invalid requests")
	}
}

func TestCreateBookingSucceedsWhenPublishFails(t *testing.T) {
	f := newFixture(t)
	f.publisher.err = stdErrors.New("redis down")
	if _, appErr := f.svc.CreateBooking(context.Background(), f.hostID, "intro-call", bookingRequest("2024-03-04T14:00:00Z")); appErr != nil {
		t.Fatalf("booking should succeed, got %v", appErr)
	}
}

func TestBookingSuccessAndICS(t *testing.T) {
	f := newFixture(t)
	start := mustTime("2024-03-04T14:00:00Z")

	success, appErr := f.svc.GetBookingSuccess(context.Background(), f.hostID, "intro-call", start, "America/New_York")
	if appErr != nil {
		t.Fatal(appErr)
	}
	if success.EventName != "Intro call" || success.LocalStart != "Monday, March 4, 2024 at 9:00 AM EST" {
		t.Fatalf("success = %+v", success)
	}

	first, appErr := f.svc.GetConfirmationICS(context.Background(), f.hostID, "intro-call", start)
	if appErr != nil {
		t.Fatal(appErr)
	}
	second, _ := f.svc.GetConfirmationICS(context.Background(), f.hostID, "intro-call", start)
	ics := string(first)
	for _, want := range []string{"BEGIN:VCALENDAR", "SUMMARY:Intro call", "DTSTART:20240304T140000Z", "DTEND:20240304T143000Z"} {
		if !strings.Contains(ics, want) {
			t.Errorf("ics missing %q:\n%s", want, ics)
		}
	}
	if ics != string(second) {
		t.Fatalf("ics should be stable for the same booking")
	}
	if want := "UID:" + MeetingUID(f.hostID.String(), f.eventID, start); !strings.Contains(ics, want) {
		t.Fatalf("ics missing %q:\n%s", want, ics)
	}
}

func TestCreateBookingHorizonMatchesSlots(t *testing.T) {
	f := newFixture(t)

	// Mondays 10:00 EDT, 56 and 70 days after now; the default horizon is 60 days
	inside := "2024-04-29T14:00:00Z"
	beyond := "2024-05-13T14:00:00Z"

	if _, appErr := f.svc.CreateBooking(context.Background(), f.hostID, "intro-call", bookingRequest(inside)); appErr != nil {
		t.Fatalf("booking inside the horizon: %v", appErr)
	}

	_, appErr := f.svc.CreateBooking(context.Background(), f.hostID, "intro-call", bookingRequest(beyond))
	if appErr == nil || appErr.Code != errors.ErrBookingConflict {
		t.Fatalf("booking beyond the horizon = %v, want conflict", appErr)
	}
	if len(f.busy.ranges) != 1 {
		t.Fatalf("calendar reads = %d, want only the in-horizon booking", len(f.busy.ranges))
	}

	slots, appErr := f.svc.GetSlots(context.Background(), f.hostID, "intro-call",
		mustTime("2024-05-13T00:00:00Z"), mustTime("2024-05-14T00:00:00Z"), "UTC")
	if appErr != nil {
		t.Fatal(appErr)
	}
	if len(slots.Days) != 0 {
		t.Fatalf("slots beyond the horizon = %+v", slots.Days)
	}
}
