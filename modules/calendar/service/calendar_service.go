package service

import (
	"context"
	stdErrors "errors"
	"net/url"
	"strings"
	"time"

	"smart-schedule/core/constants"
	"smart-schedule/core/errors"
	"smart-schedule/core/logger"
	"smart-schedule/core/utils"
	"smart-schedule/modules/availability"
	"smart-schedule/modules/calendar/dto"
	"smart-schedule/modules/calendar/entity"
	"smart-schedule/modules/calendar/mapper"
	"smart-schedule/modules/calendar/repository"

	"github.com/google/uuid"
)

type CalendarService interface {
	GetConnections(ctx context.Context, hostID uuid.UUID) (*dto.CalendarConnectionListResponse, *errors.AppError)
	ConnectGoogle(ctx context.Context, hostID uuid.UUID, req *dto.ConnectGoogleRequest) (*dto.CalendarConnectionResponse, *errors.AppError)
	ConnectCalDAV(ctx context.Context, hostID uuid.UUID, req *dto.ConnectCalDAVRequest) (*dto.CalendarConnectionResponse, *errors.AppError)
	DisconnectCalendar(ctx context.Context, hostID uuid.UUID, provider string) *errors.AppError
	GetBusy(ctx context.Context, hostID uuid.UUID, start, end time.Time) (*dto.BusyResponse, *errors.AppError)
}

type calendarService struct {
	repo    repository.CalendarRepository
	gateway *Gateway
}

func NewCalendarService(repo repository.CalendarRepository, gateway *Gateway) CalendarService {
	return &calendarService{repo: repo, gateway: gateway}
}

func (s *calendarService) GetConnections(ctx context.Context, hostID uuid.UUID) (*dto.CalendarConnectionListResponse, *errors.AppError) {
	conns, err := s.repo.GetConnectionsByHostID(ctx, hostID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to get connections", err)
	}
	return mapper.ToConnectionListResponse(conns), nil
}

func (s *calendarService) ConnectGoogle(ctx context.Context, hostID uuid.UUID, req *dto.ConnectGoogleRequest) (*dto.CalendarConnectionResponse, *errors.AppError) {
	if strings.TrimSpace(req.AccessToken) == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "access_token is required", nil)
	}
	if req.CalendarEmail != "" && !utils.IsValidEmail(req.CalendarEmail) {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Invalid calendar_email", nil)
	}

	conn := &entity.CalendarConnection{
		HostID:        hostID,
		Provider:      constants.ProviderGoogle,
		CalendarEmail: req.CalendarEmail,
		AccessToken:   req.AccessToken,
		RefreshToken:  req.RefreshToken,
	}
	if !req.ExpiresAt.IsZero() {
		expiresAt := req.ExpiresAt.UTC()
		conn.TokenExpiresAt = &expiresAt
	}
	return s.save(ctx, conn)
}

func (s *calendarService) ConnectCalDAV(ctx context.Context, hostID uuid.UUID, req *dto.ConnectCalDAVRequest) (*dto.CalendarConnectionResponse, *errors.AppError) {
	u, err := url.Parse(strings.TrimSpace(req.CalendarURL))
	if err != nil || (u.Scheme != "https" && u.Scheme != "http") || u.Host == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "calendar_url must be an absolute http(s) URL", err)
	}
	if req.Username == "" || req.Password == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "username and password are required", nil)
	}
	if req.CalendarEmail != "" && !utils.IsValidEmail(req.CalendarEmail) {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Invalid calendar_email", nil)
	}

	return s.save(ctx, &entity.CalendarConnection{
		HostID:        hostID,
		Provider:      constants.ProviderCalDAV,
		CalendarEmail: req.CalendarEmail,
		CalendarURL:   u.String(),
		Username:      req.Username,
		Password:      req.Password,
	})
}

func (s *calendarService) save(ctx context.Context, conn *entity.CalendarConnection) (*dto.CalendarConnectionResponse, *errors.AppError) {
	saved, err := s.repo.UpsertConnection(ctx, conn)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCreateFailed, "Failed to save connection", err)
	}
	s.gateway.Invalidate(ctx, conn.HostID.String())
	logger.Info("CalendarService:Connect:Saved", "host_id", conn.HostID, "provider", conn.Provider)
	return mapper.ToConnectionResponse(saved), nil
}

func (s *calendarService) DisconnectCalendar(ctx context.Context, hostID uuid.UUID, provider string) *errors.AppError {
	if provider != constants.ProviderGoogle && provider != constants.ProviderCalDAV {
		return errors.NewAppError(errors.ErrInvalidInput, "Invalid provider", nil)
	}
	found, err := s.repo.DeactivateConnection(ctx, hostID, provider)
	if err != nil {
		logger.Error("CalendarService:DisconnectCalendar", "host_id", hostID, "provider", provider, "error", err)
		return errors.NewAppError(errors.ErrDeleteFailed, "Failed to disconnect", err)
	}
	if !found {
		return errors.NewAppError(errors.ErrNotFound, "Connection not found", nil)
	}
	s.gateway.Invalidate(ctx, hostID.String())
	return nil
}

func (s *calendarService) GetBusy(ctx context.Context, hostID uuid.UUID, start, end time.Time) (*dto.BusyResponse, *errors.AppError) {
	if !start.Before(end) {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "end_time must be after start_time", nil)
	}
	if end.Sub(start) > constants.MaxSlotRangeDays*24*time.Hour {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Requested range is too long", nil)
	}

	busy, err := s.gateway.FetchBusyIntervals(ctx, hostID.String(), start, end)
	if err != nil {
		var unavailable *availability.CalendarUnavailableError
		if stdErrors.As(err, &unavailable) {
			return nil, errors.NewAppError(errors.ErrCalendarUnavailable, "Calendar unavailable", err)
		}
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to read calendar", err)
	}

	return &dto.BusyResponse{HostID: hostID.String(), Busy: mapper.ToTimeSlots(busy)}, nil
}
