package provider

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"smart-schedule/modules/availability"

	"github.com/emersion/go-ical"
)

func TestMeetingCalendarEncodes(t *testing.T) {
	req := availability.MeetingRequest{
		GuestEmail:      "guest@example.com",
		GuestName:       "Ada",
		GuestNotes:      "Agenda attached",
		Start:           time.Date(2024, 3, 4, 14, 0, 0, 0, time.UTC),
		DurationMinutes: 45,
		EventTitle:      "Intro",
	}
	raw, err := EncodeCalendar(MeetingCalendar(req, "uid-1", "host@example.com", req.Start))
	if err != nil {
		t.Fatalf("EncodeCalendar: %v", err)
	}
	text := string(raw)
	for _, want := range []string{
		"BEGIN:VEVENT",
		"UID:uid-1",
		"DTSTART:20240304T140000Z",
		"DTEND:20240304T144500Z",
		"SUMMARY:Intro",
		"mailto:guest@example.com",
		"mailto:host@example.com",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("calendar missing %q:\n%s", want, text)
		}
	}
}

func TestICalBusyIntervals(t *testing.T) {
	raw := strings.Join([]string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//test//EN",
		"BEGIN:VEVENT",
		"UID:1",
		"DTSTAMP:20240301T000000Z",
		"DTSTART:20240304T140000Z",
		"DTEND:20240304T150000Z",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"UID:2",
		"DTSTAMP:20240301T000000Z",
		"DTSTART:20240304T160000Z",
		"DURATION:PT30M",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"UID:3",
		"DTSTAMP:20240301T000000Z",
		"DTSTART;VALUE=DATE:20240305",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"UID:4",
		"DTSTAMP:20240301T000000Z",
		"TRANSP:TRANSPARENT",
		"DTSTART:20240304T180000Z",
		"DTEND:20240304T190000Z",
		"END:VEVENT",
		"END:VCALENDAR",
		"",
	}, "\r\n")
	cal, err := ical.NewDecoder(bytes.NewReader([]byte(raw))).Decode()
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	tokyo, _ := time.LoadLocation("Asia/Tokyo")
	busy, err := icalBusyIntervals(cal, tokyo)
	if err != nil {
		t.Fatalf("icalBusyIntervals: %v", err)
	}
	busy = normalize(busy)
	want := []availability.BusyInterval{
		{Start: time.Date(2024, 3, 4, 14, 0, 0, 0, time.UTC), End: time.Date(2024, 3, 4, 15, 0, 0, 0, time.UTC)},
		// 2024-03-05 in Tokyo starts at 15:00 UTC the day before
		{Start: time.Date(2024, 3, 5, 0, 0, 0, 0, tokyo), End: time.Date(2024, 3, 6, 0, 0, 0, 0, tokyo)},
		{Start: time.Date(2024, 3, 4, 16, 0, 0, 0, time.UTC), End: time.Date(2024, 3, 4, 16, 30, 0, 0, time.UTC)},
	}
	if len(busy) != len(want) {
		t.Fatalf("busy = %v", busy)
	}
	for i := range want {
		if !busy[i].Start.Equal(want[i].Start) || !busy[i].End.Equal(want[i].End) {
			t.Errorf("busy[%d] = %v, want %v", i, busy[i], want[i])
		}
	}
}
