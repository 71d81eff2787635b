package service

import (
	"context"
	stdErrors "errors"
	"strings"
	"time"

	"smart-schedule/core/clock"
	"smart-schedule/core/config"
	"smart-schedule/core/constants"
	"smart-schedule/core/errors"
	"smart-schedule/core/logger"
	"smart-schedule/core/queue"
	"smart-schedule/core/utils"
	"smart-schedule/modules/availability"
	"smart-schedule/modules/booking/dto"
	eventDto "smart-schedule/modules/event/dto"

	"github.com/google/uuid"
)

const (
	dateLayout       = "2006-01-02"
	localTimeLayout  = "15:04"
	displayLayout    = "Monday, January 2, 2006 at 3:04 PM MST"
	defaultSlotRange = 7 * 24 * time.Hour
)

// EventFinder resolves a host's active event type by id or slug.
type EventFinder interface {
	FindActiveEvent(ctx context.Context, hostID uuid.UUID, idOrSlug string) (*eventDto.EventResponse, *errors.AppError)
}

type BookingService interface {
	GetSlots(ctx context.Context, hostID uuid.UUID, eventRef string, from, to time.Time, timezone string) (*dto.SlotsResponse, *errors.AppError)
	CreateBooking(ctx context.Context, hostID uuid.UUID, eventRef string, req *dto.CreateBookingRequest) (*dto.BookingResponse, *errors.AppError)
	GetBookingSuccess(ctx context.Context, hostID uuid.UUID, eventRef string, start time.Time, timezone string) (*dto.BookingSuccessResponse, *errors.AppError)
	GetConfirmationICS(ctx context.Context, hostID uuid.UUID, eventRef string, start time.Time) ([]byte, *errors.AppError)
}

type bookingService struct {
	events    EventFinder
	schedules availability.ScheduleStore
	busy      availability.BusySource
	creator   availability.MeetingCreator
	publisher queue.Publisher
	clock     clock.Clock
	step      time.Duration
	horizon   time.Duration
}

func NewBookingService(
	events EventFinder,
	schedules availability.ScheduleStore,
	busy availability.BusySource,
	creator availability.MeetingCreator,
	publisher queue.Publisher,
	clk clock.Clock,
	cfg config.BookingConfig,
) BookingService {
	step := cfg.CandidateStepMinutes
	if step <= 0 {
		step = constants.DefaultCandidateStepMinutes
	}
	horizon := cfg.HorizonDays
	if horizon <= 0 {
		horizon = constants.DefaultBookingHorizonDays
	}
	if clk == nil {
		clk = clock.Real()
	}
	return &bookingService{
		events:    events,
		schedules: schedules,
		busy:      busy,
		creator:   creator,
		publisher: publisher,
		clock:     clk,
		step:      time.Duration(step) * time.Minute,
		horizon:   time.Duration(horizon) * 24 * time.Hour,
	}
}

func loadLocation(tz string) (*time.Location, *errors.AppError) {
	if tz == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Invalid timezone", err)
	}
	return loc, nil
}

func busyError(err error) *errors.AppError {
	var unavailable *availability.CalendarUnavailableError
	if stdErrors.As(err, &unavailable) {
		return errors.NewAppError(errors.ErrCalendarUnavailable, "Host calendar is unavailable, try again later", err)
	}
	return errors.NewAppError(errors.ErrInternalServer, "Failed to check availability", err)
}

func (s *bookingService) GetSlots(ctx context.Context, hostID uuid.UUID, eventRef string, from, to time.Time, timezone string) (*dto.SlotsResponse, *errors.AppError) {
	loc, appErr := loadLocation(timezone)
	if appErr != nil {
		return nil, appErr
	}
	event, appErr := s.events.FindActiveEvent(ctx, hostID, eventRef)
	if appErr != nil {
		return nil, appErr
	}

	now := s.clock.Now()
	if from.IsZero() || from.Before(now) {
		from = now
	}
	if to.IsZero() {
		to = from.Add(defaultSlotRange)
	}
	if limit := now.Add(s.horizon); to.After(limit) {
		to = limit
	}
	if to.Sub(from) > constants.MaxSlotRangeDays*24*time.Hour {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Requested range is too long", nil)
	}

	resp := &dto.SlotsResponse{
		HostID:          hostID.String(),
		EventID:         event.ID,
		EventName:       event.Name,
		DurationMinutes: event.DurationMinutes,
		Timezone:        loc.String(),
		From:            from.UTC().Format(time.RFC3339),
		To:              to.UTC().Format(time.RFC3339),
		Days:            []dto.SlotDay{},
	}
	if !from.Before(to) {
		return resp, nil
	}

	schedule, err := s.schedules.LoadSchedule(ctx, hostID.String())
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to load schedule", err)
	}
	if schedule == nil || schedule.Empty() {
		return resp, nil
	}

	duration := time.Duration(event.DurationMinutes) * time.Minute
	busy, err := s.busy.FetchBusyIntervals(ctx, hostID.String(), from, to.Add(duration))
	if err != nil {
		logger.Warn("BookingService:GetSlots:FetchBusy", "host_id", hostID, "error", err)
		return nil, busyError(err)
	}

	candidates := availability.CandidateStarts(from, to, s.step, schedule.Location())
	slots := availability.ResolveBookableSlots(candidates, event.DurationMinutes, schedule, busy, now)
	resp.Days = groupByLocalDate(slots, loc)
	return resp, nil
}

// groupByLocalDate buckets slots by their calendar date in loc, keeping order.
func groupByLocalDate(slots []time.Time, loc *time.Location) []dto.SlotDay {
	days := []dto.SlotDay{}
	for _, slot := range slots {
		local := slot.In(loc)
		date := local.Format(dateLayout)
		if len(days) == 0 || days[len(days)-1].Date != date {
			days = append(days, dto.SlotDay{Date: date})
		}
		last := &days[len(days)-1]
		last.Slots = append(last.Slots, dto.Slot{
			StartTime: slot.UTC().Format(time.RFC3339),
			LocalTime: local.Format(localTimeLayout),
		})
	}
	return days
}

func validateBookingRequest(req *dto.CreateBookingRequest) (time.Time, *time.Location, *errors.AppError) {
	if strings.TrimSpace(req.GuestName) == "" {
		return time.Time{}, nil, errors.NewAppError(errors.ErrInvalidInput, "Please enter a guest name", nil)
	}
	if !utils.IsValidEmail(strings.TrimSpace(req.GuestEmail)) {
		return time.Time{}, nil, errors.NewAppError(errors.ErrInvalidInput, "Please enter a valid guest email", nil)
	}
	if strings.TrimSpace(req.Timezone) == "" {
		return time.Time{}, nil, errors.NewAppError(errors.ErrInvalidInput, "Please enter a timezone", nil)
	}
	loc, appErr := loadLocation(req.Timezone)
	if appErr != nil {
		return time.Time{}, nil, appErr
	}
	start, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		return time.Time{}, nil, errors.NewAppError(errors.ErrInvalidInput, "Invalid start_time", err)
	}
	return start, loc, nil
}

func conflict(start time.Time) *errors.AppError {
	return errors.NewAppError(errors.ErrBookingConflict, "The selected time is no longer available",
		&availability.BookingConflictError{Requested: []time.Time{start}})
}

func (s *bookingService) CreateBooking(ctx context.Context, hostID uuid.UUID, eventRef string, req *dto.CreateBookingRequest) (*dto.BookingResponse, *errors.AppError) {
	start, loc, appErr := validateBookingRequest(req)
	if appErr != nil {
		return nil, appErr
	}

	event, appErr := s.events.FindActiveEvent(ctx, hostID, eventRef)
	if appErr != nil {
		return nil, appErr
	}

	now := s.clock.Now()
	if !start.Before(now.Add(s.horizon)) {
		logger.Info("BookingService:CreateBooking:BeyondHorizon", "host_id", hostID, "start", start)
		return nil, conflict(start)
	}

	schedule, err := s.schedules.LoadSchedule(ctx, hostID.String())
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to load schedule", err)
	}
	if schedule == nil {
		return nil, conflict(start)
	}

	end := start.Add(time.Duration(event.DurationMinutes) * time.Minute)
	busy, err := s.busy.FetchBusyIntervals(ctx, hostID.String(), start, end)
	if err != nil {
		logger.Warn("BookingService:CreateBooking:FetchBusy", "host_id", hostID, "error", err)
		return nil, busyError(err)
	}

	if len(availability.ResolveBookableSlots([]time.Time{start}, event.DurationMinutes, schedule, busy, now)) == 0 {
		logger.Info("BookingService:CreateBooking:Conflict", "host_id", hostID, "event_id", event.ID, "start", start)
		return nil, conflict(start)
	}

	meeting := availability.MeetingRequest{
		RequestID:       utils.GenerateRequestID(),
		HostID:          hostID.String(),
		GuestEmail:      strings.TrimSpace(req.GuestEmail),
		GuestName:       strings.TrimSpace(req.GuestName),
		GuestNotes:      strings.TrimSpace(req.GuestNotes),
		Start:           start.UTC(),
		DurationMinutes: event.DurationMinutes,
		Timezone:        loc.String(),
		EventTitle:      event.Name,
	}
	externalID, err := s.creator.CreateExternalEvent(ctx, meeting)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrExternalBookingFailed, "Failed to create the meeting, please try again", err)
	}

	if s.publisher != nil {
		payload := queue.BookingConfirmedPayload{
			RequestID:       meeting.RequestID,
			ExternalEventID: externalID,
			HostID:          meeting.HostID,
			EventID:         event.ID,
			EventTitle:      event.Name,
			GuestEmail:      meeting.GuestEmail,
			GuestName:       meeting.GuestName,
			GuestNotes:      meeting.GuestNotes,
			Start:           meeting.Start,
			End:             meeting.End(),
			Timezone:        meeting.Timezone,
		}
		if err := s.publisher.PublishBookingConfirmed(ctx, payload); err != nil {
			logger.Error("BookingService:CreateBooking:Publish", "host_id", hostID, "external_id", externalID, "error", err)
		}
	}

	logger.Info("BookingService:CreateBooking:Booked", "host_id", hostID, "event_id", event.ID, "external_id", externalID)
	return &dto.BookingResponse{
		EventName:       event.Name,
		HostID:          hostID.String(),
		StartTime:       meeting.Start.Format(time.RFC3339),
		EndTime:         meeting.End().Format(time.RFC3339),
		Timezone:        meeting.Timezone,
		LocalStart:      start.In(loc).Format(displayLayout),
		ExternalEventID: externalID,
	}, nil
}

func (s *bookingService) GetBookingSuccess(ctx context.Context, hostID uuid.UUID, eventRef string, start time.Time, timezone string) (*dto.BookingSuccessResponse, *errors.AppError) {
	loc, appErr := loadLocation(timezone)
	if appErr != nil {
		return nil, appErr
	}
	event, appErr := s.events.FindActiveEvent(ctx, hostID, eventRef)
	if appErr != nil {
		return nil, appErr
	}
	return &dto.BookingSuccessResponse{
		EventName:  event.Name,
		HostID:     hostID.String(),
		StartTime:  start.UTC().Format(time.RFC3339),
		Timezone:   loc.String(),
		LocalStart: start.In(loc).Format(displayLayout),
		Message:    "You should receive an email confirmation shortly. You can safely close this page now.",
	}, nil
}

func (s *bookingService) GetConfirmationICS(ctx context.Context, hostID uuid.UUID, eventRef string, start time.Time) ([]byte, *errors.AppError) {
	event, appErr := s.events.FindActiveEvent(ctx, hostID, eventRef)
	if appErr != nil {
		return nil, appErr
	}
	req := availability.MeetingRequest{
		HostID:          hostID.String(),
		Start:           start.UTC(),
		DurationMinutes: event.DurationMinutes,
		EventTitle:      event.Name,
	}
	body, err := ConfirmationICS(req, MeetingUID(hostID.String(), event.ID, start), s.clock.Now())
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to render calendar file", err)
	}
	return body, nil
}
