package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"smart-schedule/modules/availability"
	"smart-schedule/modules/calendar/entity"

	"github.com/emersion/go-webdav/caldav"
)

// basicAuthTransport adds credentials and the user agent to every request.
type basicAuthTransport struct {
	username  string
	password  string
	userAgent string
	base      http.RoundTripper
}

func (t *basicAuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	if t.username != "" {
		req.SetBasicAuth(t.username, t.password)
	}
	if t.userAgent != "" {
		req.Header.Set("User-Agent", t.userAgent)
	}
	return t.base.RoundTrip(req)
}

type CalDAVProvider struct {
	client       *caldav.Client
	calendarPath string
	organizer    string
}

// NewCalDAVProvider connects to the calendar collection at conn.CalendarURL.
func NewCalDAVProvider(httpClient *http.Client, userAgent string, conn *entity.CalendarConnection) (*CalDAVProvider, error) {
	u, err := url.Parse(conn.CalendarURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid calendar url %q", conn.CalendarURL)
	}

	base := http.DefaultTransport
	if httpClient != nil && httpClient.Transport != nil {
		base = httpClient.Transport
	}
	client := &http.Client{
		Transport: &basicAuthTransport{username: conn.Username, password: conn.Password, userAgent: userAgent, base: base},
	}
	if httpClient != nil {
		client.Timeout = httpClient.Timeout
	}

	endpoint := u.Scheme + "://" + u.Host
	cd, err := caldav.NewClient(client, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create caldav client: %w", err)
	}

	calendarPath := u.Path
	if !strings.HasSuffix(calendarPath, "/") {
		calendarPath += "/"
	}
	return &CalDAVProvider{client: cd, calendarPath: calendarPath, organizer: conn.CalendarEmail}, nil
}

func (p *CalDAVProvider) FetchBusy(ctx context.Context, start, end time.Time, loc *time.Location) ([]availability.BusyInterval, error) {
	if loc == nil {
		loc = time.UTC
	}
	query := &caldav.CalendarQuery{
		CompRequest: caldav.CalendarCompRequest{
			Name: "VCALENDAR",
			Comps: []caldav.CalendarCompRequest{{
				Name:  "VEVENT",
				Props: []string{"UID", "DTSTART", "DTEND", "DURATION", "TRANSP", "STATUS"},
			}},
			Expand: &caldav.CalendarExpandRequest{Start: start.UTC(), End: end.UTC()},
		},
		CompFilter: caldav.CompFilter{
			Name: "VCALENDAR",
			Comps: []caldav.CompFilter{{
				Name:  "VEVENT",
				Start: start.UTC(),
				End:   end.UTC(),
			}},
		},
	}

	objects, err := p.client.QueryCalendar(ctx, p.calendarPath, query)
	if err != nil {
		return nil, fmt.Errorf("caldav query %s: %w", p.calendarPath, err)
	}

	var busy []availability.BusyInterval
	for _, obj := range objects {
		if obj.Data == nil {
			continue
		}
		intervals, err := icalBusyIntervals(obj.Data, loc)
		if err != nil {
			return nil, fmt.Errorf("caldav object %s: %w", obj.Path, err)
		}
		for _, b := range intervals {
			if b.Overlaps(start, end) {
				busy = append(busy, b)
			}
		}
	}
	return normalize(busy), nil
}

// CreateEvent stores the meeting under <RequestID>.ics so retries overwrite
// the same object.
func (p *CalDAVProvider) CreateEvent(ctx context.Context, req availability.MeetingRequest) (string, error) {
	if req.RequestID == "" {
		return "", fmt.Errorf("caldav event requires a request id")
	}
	cal := MeetingCalendar(req, req.RequestID, p.organizer, time.Now())
	objectPath := path.Join(p.calendarPath, req.RequestID+".ics")
	if _, err := p.client.PutCalendarObject(ctx, objectPath, cal); err != nil {
		return "", fmt.Errorf("caldav put %s: %w", objectPath, err)
	}
	return req.RequestID, nil
}
