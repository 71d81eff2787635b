package service

import (
	"context"
	"fmt"
	"strings"

	"smart-schedule/core/constants"
	"smart-schedule/core/errors"
	"smart-schedule/core/logger"
	"smart-schedule/core/params"
	"smart-schedule/core/utils"
	"smart-schedule/modules/event/dto"
	"smart-schedule/modules/event/entity"
	"smart-schedule/modules/event/mapper"
	"smart-schedule/modules/event/repository"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

const maxSlugAttempts = 20

type EventServiceInterface interface {
	CreateEvent(ctx context.Context, hostID uuid.UUID, req *dto.CreateEventRequest) (*dto.EventResponse, *errors.AppError)
	GetEvent(ctx context.Context, hostID, id uuid.UUID) (*dto.EventResponse, *errors.AppError)
	GetMyEvents(ctx context.Context, hostID uuid.UUID, params params.QueryParams) (*dto.PaginatedEventDTO, *errors.AppError)
	UpdateEvent(ctx context.Context, hostID, id uuid.UUID, req *dto.UpdateEventRequest) (*dto.EventResponse, *errors.AppError)
	DeleteEvent(ctx context.Context, hostID, id uuid.UUID) *errors.AppError

	GetPublicEvents(ctx context.Context, hostID uuid.UUID) ([]dto.PublicEventResponse, *errors.AppError)
	FindActiveEvent(ctx context.Context, hostID uuid.UUID, idOrSlug string) (*dto.EventResponse, *errors.AppError)
}

type EventService struct {
	repo repository.EventRepositoryInterface
}

func NewEventService(repo repository.EventRepositoryInterface) EventServiceInterface {
	return &EventService{repo: repo}
}

func validateEventFields(name string, duration int) *errors.AppError {
	if strings.TrimSpace(name) == "" {
		return errors.NewAppError(errors.ErrInvalidInput, "Name is required", nil)
	}
	if duration <= 0 || duration > constants.MaxEventDurationMinutes {
		return errors.NewAppError(errors.ErrInvalidInput,
			fmt.Sprintf("Duration must be between 1 and %d minutes", constants.MaxEventDurationMinutes), nil)
	}
	return nil
}

// uniqueSlug derives a slug from name that no other event of the host uses.
func (s *EventService) uniqueSlug(ctx context.Context, hostID uuid.UUID, name string, excludeID uuid.UUID) (string, error) {
	base := slug.Make(name)
	if base == "" {
		base = "event"
	}
	candidate := base
	for i := 2; i <= maxSlugAttempts; i++ {
		exists, err := s.repo.SlugExists(ctx, hostID, candidate, excludeID)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
	return base + "-" + strings.ToLower(utils.GenerateID()), nil
}

func (s *EventService) CreateEvent(ctx context.Context, hostID uuid.UUID, req *dto.CreateEventRequest) (*dto.EventResponse, *errors.AppError) {
	if appErr := validateEventFields(req.Name, req.DurationMinutes); appErr != nil {
		return nil, appErr
	}

	eventSlug, err := s.uniqueSlug(ctx, hostID, req.Name, uuid.Nil)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCreateFailed, "Failed to create event", err)
	}

	event := &entity.Event{
		HostID:          hostID,
		Name:            strings.TrimSpace(req.Name),
		Slug:            eventSlug,
		DurationMinutes: req.DurationMinutes,
		IsActive:        true,
	}
	if req.IsActive != nil {
		event.IsActive = *req.IsActive
	}
	if d := strings.TrimSpace(req.Description); d != "" {
		event.Description = &d
	}

	created, err := s.repo.CreateEvent(ctx, event)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCreateFailed, "Failed to create event", err)
	}
	logger.Info("EventService:CreateEvent", "host_id", hostID, "event_id", created.ID, "slug", created.Slug)
	return mapper.ToEventResponse(created), nil
}

func (s *EventService) GetEvent(ctx context.Context, hostID, id uuid.UUID) (*dto.EventResponse, *errors.AppError) {
	event, err := s.repo.GetEventByID(ctx, hostID, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to get event", err)
	}
	if event == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Event not found", nil)
	}
	return mapper.ToEventResponse(event), nil
}

func (s *EventService) GetMyEvents(ctx context.Context, hostID uuid.UUID, params params.QueryParams) (*dto.PaginatedEventDTO, *errors.AppError) {
	page, err := s.repo.GetEventsByHostID(ctx, hostID, params)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to get events", err)
	}
	return mapper.ToPaginatedEventDTO(page), nil
}

func (s *EventService) UpdateEvent(ctx context.Context, hostID, id uuid.UUID, req *dto.UpdateEventRequest) (*dto.EventResponse, *errors.AppError) {
	event, err := s.repo.GetEventByID(ctx, hostID, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to get event", err)
	}
	if event == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Event not found", nil)
	}

	if req.Name != nil && strings.TrimSpace(*req.Name) != event.Name {
		event.Name = strings.TrimSpace(*req.Name)
		if event.Name != "" {
			event.Slug, err = s.uniqueSlug(ctx, hostID, event.Name, event.ID)
			if err != nil {
				return nil, errors.NewAppError(errors.ErrUpdateFailed, "Failed to update event", err)
			}
		}
	}
	if req.DurationMinutes != nil {
		event.DurationMinutes = *req.DurationMinutes
	}
	if req.Description != nil {
		if d := strings.TrimSpace(*req.Description); d != "" {
			event.Description = &d
		} else {
			event.Description = nil
		}
	}
	if req.IsActive != nil {
		event.IsActive = *req.IsActive
	}
	if appErr := validateEventFields(event.Name, event.DurationMinutes); appErr != nil {
		return nil, appErr
	}

	if err := s.repo.UpdateEvent(ctx, event); err != nil {
		return nil, errors.NewAppError(errors.ErrUpdateFailed, "Failed to update event", err)
	}
	return mapper.ToEventResponse(event), nil
}

func (s *EventService) DeleteEvent(ctx context.Context, hostID, id uuid.UUID) *errors.AppError {
	deleted, err := s.repo.DeleteEvent(ctx, hostID, id)
	if err != nil {
		return errors.NewAppError(errors.ErrDeleteFailed, "Failed to delete event", err)
	}
	if !deleted {
		return errors.NewAppError(errors.ErrNotFound, "Event not found", nil)
	}
	return nil
}

// GetPublicEvents lists the host's active events ordered by name.
func (s *EventService) GetPublicEvents(ctx context.Context, hostID uuid.UUID) ([]dto.PublicEventResponse, *errors.AppError) {
	events, err := s.repo.GetActiveEventsByHostID(ctx, hostID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to get events", err)
	}
	if len(events) == 0 {
		return nil, errors.NewAppError(errors.ErrNotFound, "No events available", nil)
	}
	out := make([]dto.PublicEventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, mapper.ToPublicEventResponse(e))
	}
	return out, nil
}

func (s *EventService) FindActiveEvent(ctx context.Context, hostID uuid.UUID, idOrSlug string) (*dto.EventResponse, *errors.AppError) {
	event, err := s.repo.FindActiveEvent(ctx, hostID, idOrSlug)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to get event", err)
	}
	if event == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Event not found", nil)
	}
	return mapper.ToEventResponse(event), nil
}
