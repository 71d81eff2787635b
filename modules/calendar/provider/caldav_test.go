package provider

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"smart-schedule/core/constants"
	"smart-schedule/modules/availability"
	"smart-schedule/modules/calendar/entity"
)

const multistatusTemplate = `<?xml version="1.0" encoding="utf-8"?>
<d:multistatus xmlns:d="DAV:" xmlns:c="urn:ietf:params:xml:ns:caldav">
  <d:response>
    <d:href>/dav/cal/standup.ics</d:href>
    <d:propstat>
      <d:prop>
        <d:getetag>"1"</d:getetag>
        <c:calendar-data>%s</c:calendar-data>
      </d:prop>
      <d:status>HTTP/1.1 200 OK</d:status>
    </d:propstat>
  </d:response>
</d:multistatus>`

func icsBody(lines ...string) string {
	all := append([]string{"BEGIN:VCALENDAR", "VERSION:2.0", "PRODID:-//test//EN"}, lines...)
	all = append(all, "END:VCALENDAR", "")
	return strings.Join(all, "\r\n")
}

type caldavRecorder struct {
	method    string
	path      string
	user      string
	pass      string
	userAgent string
	body      string
}

func newCalDAVServer(t *testing.T, rec *caldavRecorder, report string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		rec.method = r.Method
		rec.path = r.URL.Path
		rec.user, rec.pass, _ = r.BasicAuth()
		rec.userAgent = r.Header.Get("User-Agent")
		rec.body = string(b)

		switch r.Method {
		case "REPORT":
			w.Header().Set("Content-Type", "application/xml; charset=utf-8")
			w.WriteHeader(http.StatusMultiStatus)
			// keep CR in calendar-data; XML normalises literal CRLF
			data := strings.ReplaceAll(report, "\r", "&#13;")
			_, _ = io.WriteString(w, strings.Replace(multistatusTemplate, "%s", data, 1))
		case http.MethodPut:
			w.Header().Set("ETag", `"abc"`)
			w.WriteHeader(http.StatusCreated)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func caldavConn(url string) *entity.CalendarConnection {
	return &entity.CalendarConnection{
		Provider:      constants.ProviderCalDAV,
		CalendarURL:   url + "/dav/cal",
		Username:      "host",
		Password:      "secret",
		CalendarEmail: "host@example.com",
	}
}

func TestNewCalDAVProviderRejectsBadURL(t *testing.T) {
	for _, raw := range []string{"", "not a url", "/relative/path"} {
		if _, err := NewCalDAVProvider(nil, "", &entity.CalendarConnection{CalendarURL: raw}); err == nil {
			t.Errorf("NewCalDAVProvider(%q) should fail", raw)
		}
	}
}

func TestCalDAVFetchBusy(t *testing.T) {
	rec := &caldavRecorder{}
	report := icsBody(
		"BEGIN:VEVENT",
		"UID:busy-1",
		"DTSTAMP:20240301T000000Z",
		"DTSTART:20240304T150000Z",
		"DTEND:20240304T153000Z",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"UID:free-1",
		"DTSTAMP:20240301T000000Z",
		"DTSTART:20240304T160000Z",
		"DTEND:20240304T170000Z",
		"TRANSP:TRANSPARENT",
		"END:VEVENT",
	)
	srv := newCalDAVServer(t, rec, report)

	p, err := NewCalDAVProvider(srv.Client(), "smart-schedule-test", caldavConn(srv.URL))
	if err != nil {
		t.Fatalf("NewCalDAVProvider: %v", err)
	}

	start := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	busy, err := p.FetchBusy(context.Background(), start, start.Add(24*time.Hour), time.UTC)
	if err != nil {
		t.Fatalf("FetchBusy: %v", err)
	}

	want := availability.BusyInterval{
		Start: time.Date(2024, 3, 4, 15, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 3, 4, 15, 30, 0, 0, time.UTC),
	}
	if len(busy) != 1 || !busy[0].Start.Equal(want.Start) || !busy[0].End.Equal(want.End) {
		t.Fatalf("busy = %+v, want [%+v]", busy, want)
	}

	if rec.method != "REPORT" || rec.path != "/dav/cal/" {
		t.Errorf("request = %s %s", rec.method, rec.path)
	}
	if rec.user != "host" || rec.pass != "secret" {
		t.Errorf("basic auth = %q/%q", rec.user, rec.pass)
	}
	if rec.userAgent != "smart-schedule-test" {
		t.Errorf("user agent = %q", rec.userAgent)
	}
	if !strings.Contains(rec.body, "calendar-query") {
		t.Errorf("report body should be a calendar-query:\n%s", rec.body)
	}
}

func TestCalDAVCreateEvent(t *testing.T) {
	rec := &caldavRecorder{}
	srv := newCalDAVServer(t, rec, "")

	p, err := NewCalDAVProvider(srv.Client(), "", caldavConn(srv.URL))
	if err != nil {
		t.Fatalf("NewCalDAVProvider: %v", err)
	}

	req := availability.MeetingRequest{
		RequestID:       "req123",
		GuestEmail:      "guest@example.com",
		GuestName:       "Ada",
		Start:           time.Date(2024, 3, 4, 14, 0, 0, 0, time.UTC),
		DurationMinutes: 30,
		EventTitle:      "Intro",
	}
	id, err := p.CreateEvent(context.Background(), req)
	if err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}
	if id != "req123" {
		t.Fatalf("external id = %q", id)
	}
	if rec.method != http.MethodPut || rec.path != "/dav/cal/req123.ics" {
		t.Fatalf("request = %s %s", rec.method, rec.path)
	}
	if !strings.Contains(rec.body, "UID:req123") || !strings.Contains(rec.body, "SUMMARY:Intro") {
		t.Fatalf("unexpected body:\n%s", rec.body)
	}

	if _, err := p.CreateEvent(context.Background(), availability.MeetingRequest{}); err == nil {
		t.Fatalf("CreateEvent without request id should fail")
	}
}
