package provider

import (
	"context"
	stdErrors "errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"smart-schedule/core/logger"
	"smart-schedule/modules/availability"
	"smart-schedule/modules/calendar/entity"

	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const (
	primaryCalendar = "primary"
	maxEventResults = 2500
)

type GoogleProvider struct {
	service    *calendar.Service
	calendarID string
}

// persistingTokenSource reports every token the underlying source refreshes.
type persistingTokenSource struct {
	mu     sync.Mutex
	base   oauth2.TokenSource
	last   string
	onSave func(*oauth2.Token)
}

func (s *persistingTokenSource) Token() (*oauth2.Token, error) {
	tok, err := s.base.Token()
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	changed := tok.AccessToken != s.last
	s.last = tok.AccessToken
	s.mu.Unlock()
	if changed && s.onSave != nil {
		s.onSave(tok)
	}
	return tok, nil
}

func NewGoogleProvider(ctx context.Context, cfg *oauth2.Config, conn *entity.CalendarConnection, save TokenSaver) (*GoogleProvider, error) {
	if cfg == nil {
		return nil, fmt.Errorf("google calendar is not configured")
	}
	if conn.AccessToken == "" && conn.RefreshToken == "" {
		return nil, fmt.Errorf("google connection %s has no tokens", conn.ID)
	}

	token := &oauth2.Token{AccessToken: conn.AccessToken, RefreshToken: conn.RefreshToken}
	if conn.TokenExpiresAt != nil {
		token.Expiry = *conn.TokenExpiresAt
	}

	src := &persistingTokenSource{
		base: cfg.TokenSource(context.WithoutCancel(ctx), token),
		last: token.AccessToken,
		onSave: func(t *oauth2.Token) {
			if save == nil {
				return
			}
			if err := save(context.WithoutCancel(ctx), conn, t); err != nil {
				logger.Error("GoogleProvider:SaveToken", "connection_id", conn.ID, "error", err)
				return
			}
			logger.Info("GoogleProvider:TokenRefreshed", "connection_id", conn.ID, "expiry", t.Expiry)
		},
	}

	svc, err := calendar.NewService(ctx, option.WithTokenSource(src))
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}
	return &GoogleProvider{service: svc, calendarID: primaryCalendar}, nil
}

// NewGoogleProviderWithClient targets endpoint with a preauthorized client.
func NewGoogleProviderWithClient(ctx context.Context, client *http.Client, endpoint string) (*GoogleProvider, error) {
	svc, err := calendar.NewService(ctx, option.WithHTTPClient(client), option.WithEndpoint(endpoint))
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}
	return &GoogleProvider{service: svc, calendarID: primaryCalendar}, nil
}

func (p *GoogleProvider) FetchBusy(ctx context.Context, start, end time.Time, loc *time.Location) ([]availability.BusyInterval, error) {
	if loc == nil {
		loc = time.UTC
	}
	var busy []availability.BusyInterval

	call := p.service.Events.List(p.calendarID).
		SingleEvents(true).
		EventTypes("default").
		ShowDeleted(false).
		MaxResults(maxEventResults).
		TimeMin(start.UTC().Format(time.RFC3339)).
		TimeMax(end.UTC().Format(time.RFC3339))

	err := call.Pages(ctx, func(page *calendar.Events) error {
		pageLoc := loc
		if page.TimeZone != "" {
			if l, err := time.LoadLocation(page.TimeZone); err == nil {
				pageLoc = l
			}
		}
		for _, item := range page.Items {
			interval, ok, err := googleBusyInterval(item, pageLoc)
			if err != nil {
				return err
			}
			if ok {
				busy = append(busy, interval)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve events: %w", err)
	}
	return normalize(busy), nil
}

// googleBusyInterval maps one event to the span it blocks. Cancelled,
// transparent and self-declined events block nothing.
func googleBusyInterval(item *calendar.Event, loc *time.Location) (availability.BusyInterval, bool, error) {
	if item == nil || item.Start == nil || item.End == nil || item.Status == "cancelled" || item.Transparency == "transparent" {
		return availability.BusyInterval{}, false, nil
	}
	for _, a := range item.Attendees {
		if a != nil && a.Self && a.ResponseStatus == "declined" {
			return availability.BusyInterval{}, false, nil
		}
	}

	if item.Start.DateTime != "" && item.End.DateTime != "" {
		s, err := time.Parse(time.RFC3339, item.Start.DateTime)
		if err != nil {
			return availability.BusyInterval{}, false, fmt.Errorf("event %s start: %w", item.Id, err)
		}
		e, err := time.Parse(time.RFC3339, item.End.DateTime)
		if err != nil {
			return availability.BusyInterval{}, false, fmt.Errorf("event %s end: %w", item.Id, err)
		}
		return availability.BusyInterval{Start: s, End: e}, true, nil
	}

	if item.Start.Date != "" && item.End.Date != "" {
		// all-day: end date is exclusive
		s, err := time.ParseInLocation(time.DateOnly, item.Start.Date, loc)
		if err != nil {
			return availability.BusyInterval{}, false, fmt.Errorf("event %s start date: %w", item.Id, err)
		}
		e, err := time.ParseInLocation(time.DateOnly, item.End.Date, loc)
		if err != nil {
			return availability.BusyInterval{}, false, fmt.Errorf("event %s end date: %w", item.Id, err)
		}
		return availability.BusyInterval{Start: s, End: e}, true, nil
	}
	return availability.BusyInterval{}, false, nil
}

func (p *GoogleProvider) CreateEvent(ctx context.Context, req availability.MeetingRequest) (string, error) {
	ev := &calendar.Event{
		Id:          req.RequestID,
		Summary:     req.EventTitle,
		Description: req.GuestNotes,
		Start:       &calendar.EventDateTime{DateTime: req.Start.Format(time.RFC3339), TimeZone: req.Timezone},
		End:         &calendar.EventDateTime{DateTime: req.End().Format(time.RFC3339), TimeZone: req.Timezone},
		Attendees: []*calendar.EventAttendee{
			{Email: req.GuestEmail, DisplayName: req.GuestName},
		},
	}

	created, err := p.service.Events.Insert(p.calendarID, ev).SendUpdates("all").Context(ctx).Do()
	if err != nil {
		var apiErr *googleapi.Error
		if req.RequestID != "" && stdErrors.As(err, &apiErr) && apiErr.Code == http.StatusConflict {
			// a retry of a request that already went through
			return req.RequestID, nil
		}
		return "", fmt.Errorf("failed to insert event: %w", err)
	}
	return created.Id, nil
}
