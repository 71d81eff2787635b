package provider

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"time"

	"smart-schedule/core/constants"
	"smart-schedule/modules/availability"
	"smart-schedule/modules/calendar/entity"

	"golang.org/x/oauth2"
)

// Provider talks to one connected calendar.
type Provider interface {
	// FetchBusy returns busy intervals overlapping [start, end). All-day
	// entries are resolved in loc.
	FetchBusy(ctx context.Context, start, end time.Time, loc *time.Location) ([]availability.BusyInterval, error)
	// CreateEvent writes the meeting and returns the provider's event id.
	CreateEvent(ctx context.Context, req availability.MeetingRequest) (string, error)
}

// Factory builds a Provider for a stored connection.
type Factory interface {
	New(ctx context.Context, conn *entity.CalendarConnection) (Provider, error)
}

// TokenSaver persists a refreshed OAuth token for the connection.
type TokenSaver func(ctx context.Context, conn *entity.CalendarConnection, token *oauth2.Token) error

type defaultFactory struct {
	google     *oauth2.Config
	userAgent  string
	saveToken  TokenSaver
	httpClient *http.Client
}

func NewFactory(google *oauth2.Config, userAgent string, saveToken TokenSaver) Factory {
	return &defaultFactory{
		google:     google,
		userAgent:  userAgent,
		saveToken:  saveToken,
		httpClient: &http.Client{Timeout: constants.CalendarAPITimeout},
	}
}

func (f *defaultFactory) New(ctx context.Context, conn *entity.CalendarConnection) (Provider, error) {
	switch conn.Provider {
	case constants.ProviderGoogle:
		return NewGoogleProvider(ctx, f.google, conn, f.saveToken)
	case constants.ProviderCalDAV:
		return NewCalDAVProvider(f.httpClient, f.userAgent, conn)
	default:
		return nil, fmt.Errorf("unsupported calendar provider %q", conn.Provider)
	}
}

// normalize drops empty spans and returns the rest in UTC ordered by start.
func normalize(intervals []availability.BusyInterval) []availability.BusyInterval {
	out := intervals[:0]
	for _, b := range intervals {
		if !b.Start.Before(b.End) {
			continue
		}
		out = append(out, availability.BusyInterval{Start: b.Start.UTC(), End: b.End.UTC()})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out
}
