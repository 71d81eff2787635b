package service

import (
	"context"
	stdErrors "errors"
	"fmt"
	"time"

	"smart-schedule/core/cache"
	"smart-schedule/core/constants"
	"smart-schedule/core/logger"
	"smart-schedule/modules/availability"
	"smart-schedule/modules/calendar/entity"
	"smart-schedule/modules/calendar/provider"
	"smart-schedule/modules/calendar/repository"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

var ErrNoConnection = stdErrors.New("no active calendar connection")

// LocationResolver returns the timezone all-day entries of a host resolve in.
type LocationResolver func(ctx context.Context, hostID string) *time.Location

// ScheduleLocations resolves a host's timezone from their saved schedule,
// falling back to UTC.
func ScheduleLocations(store availability.ScheduleStore) LocationResolver {
	return func(ctx context.Context, hostID string) *time.Location {
		if store == nil {
			return time.UTC
		}
		s, err := store.LoadSchedule(ctx, hostID)
		if err != nil || s == nil {
			return time.UTC
		}
		return s.Location()
	}
}

// Gateway reads busy time from and writes meetings to a host's connected
// calendar. It implements availability.BusySource and availability.MeetingCreator.
type Gateway struct {
	repo     repository.CalendarRepository
	factory  provider.Factory
	cache    cache.Cache
	locate   LocationResolver
	cacheTTL time.Duration
}

var (
	_ availability.BusySource     = (*Gateway)(nil)
	_ availability.MeetingCreator = (*Gateway)(nil)
)

func NewGateway(repo repository.CalendarRepository, factory provider.Factory, c cache.Cache, locate LocationResolver) *Gateway {
	if locate == nil {
		locate = ScheduleLocations(nil)
	}
	return &Gateway{repo: repo, factory: factory, cache: c, locate: locate, cacheTTL: constants.BusyCacheTTL}
}

// TokenSaver persists refreshed Google tokens through repo.
func TokenSaver(repo repository.CalendarRepository) provider.TokenSaver {
	return func(ctx context.Context, conn *entity.CalendarConnection, tok *oauth2.Token) error {
		refresh := tok.RefreshToken
		if refresh == "" {
			refresh = conn.RefreshToken
		}
		var expiry *time.Time
		if !tok.Expiry.IsZero() {
			e := tok.Expiry
			expiry = &e
		}
		return repo.UpdateTokens(ctx, conn.ID, tok.AccessToken, refresh, expiry)
	}
}

func busyKeyPrefix(hostID string) string {
	return constants.RedisKeyBusyIntervals + hostID + ":"
}

func busyKey(hostID string, start, end time.Time) string {
	return fmt.Sprintf("%s%d:%d", busyKeyPrefix(hostID), start.Unix(), end.Unix())
}

func (g *Gateway) providerFor(ctx context.Context, hostID string) (provider.Provider, error) {
	id, err := uuid.Parse(hostID)
	if err != nil {
		return nil, fmt.Errorf("invalid host id: %w", err)
	}
	conn, err := g.repo.GetActiveConnection(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load connection: %w", err)
	}
	if conn == nil {
		return nil, ErrNoConnection
	}
	return g.factory.New(ctx, conn)
}

func (g *Gateway) FetchBusyIntervals(ctx context.Context, hostID string, start, end time.Time) ([]availability.BusyInterval, error) {
	key := busyKey(hostID, start, end)
	if g.cache != nil {
		var cached []availability.BusyInterval
		hit, err := g.cache.Get(ctx, key, &cached)
		if err != nil {
			logger.Warn("CalendarGateway:FetchBusyIntervals:CacheGet", "key", key, "error", err)
		} else if hit {
			return cached, nil
		}
	}

	p, err := g.providerFor(ctx, hostID)
	if err != nil {
		logger.Warn("CalendarGateway:FetchBusyIntervals:Provider", "host_id", hostID, "error", err)
		return nil, &availability.CalendarUnavailableError{HostID: hostID, Err: err}
	}

	callCtx, cancel := context.WithTimeout(ctx, constants.CalendarAPITimeout)
	defer cancel()
	busy, err := p.FetchBusy(callCtx, start, end, g.locate(ctx, hostID))
	if err != nil {
		logger.Error("CalendarGateway:FetchBusyIntervals:Fetch", "host_id", hostID, "error", err)
		return nil, &availability.CalendarUnavailableError{HostID: hostID, Err: err}
	}
	if busy == nil {
		busy = []availability.BusyInterval{}
	}

	if g.cache != nil {
		if err := g.cache.Set(ctx, key, busy, g.cacheTTL); err != nil {
			logger.Warn("CalendarGateway:FetchBusyIntervals:CacheSet", "key", key, "error", err)
		}
	}
	return busy, nil
}

func (g *Gateway) CreateExternalEvent(ctx context.Context, req availability.MeetingRequest) (string, error) {
	p, err := g.providerFor(ctx, req.HostID)
	if err != nil {
		return "", &availability.ExternalBookingFailure{HostID: req.HostID, Err: err}
	}

	callCtx, cancel := context.WithTimeout(ctx, constants.CalendarAPITimeout)
	defer cancel()
	externalID, err := p.CreateEvent(callCtx, req)
	if err != nil {
		logger.Error("CalendarGateway:CreateExternalEvent", "host_id", req.HostID, "request_id", req.RequestID, "error", err)
		return "", &availability.ExternalBookingFailure{HostID: req.HostID, Err: err}
	}

	g.Invalidate(ctx, req.HostID)
	logger.Info("CalendarGateway:CreateExternalEvent:Created", "host_id", req.HostID, "external_id", externalID)
	return externalID, nil
}

// Invalidate drops every cached busy snapshot of the host.
func (g *Gateway) Invalidate(ctx context.Context, hostID string) {
	if g.cache == nil {
		return
	}
	if err := g.cache.DelPrefix(ctx, busyKeyPrefix(hostID)); err != nil {
		logger.Warn("CalendarGateway:Invalidate", "host_id", hostID, "error", err)
	}
}
