package repository

import (
	"context"
	"database/sql"
	stdErrors "errors"

	"smart-schedule/core/database"
	"smart-schedule/core/logger"
	"smart-schedule/core/params"
	"smart-schedule/modules/event/entity"

	"github.com/google/uuid"
)

type EventRepositoryInterface interface {
	CreateEvent(ctx context.Context, event *entity.Event) (*entity.Event, error)
	GetEventByID(ctx context.Context, hostID, id uuid.UUID) (*entity.Event, error)
	GetEventsByHostID(ctx context.Context, hostID uuid.UUID, params params.QueryParams) (*entity.PaginatedEventEntity, error)
	UpdateEvent(ctx context.Context, event *entity.Event) error
	DeleteEvent(ctx context.Context, hostID, id uuid.UUID) (bool, error)
	SlugExists(ctx context.Context, hostID uuid.UUID, slug string, excludeID uuid.UUID) (bool, error)

	// Public lookups only return active events.
	GetActiveEventsByHostID(ctx context.Context, hostID uuid.UUID) ([]entity.Event, error)
	FindActiveEvent(ctx context.Context, hostID uuid.UUID, idOrSlug string) (*entity.Event, error)
}

type EventRepository struct {
	DB database.IDatabase
}

func NewEventRepository(db database.IDatabase) *EventRepository {
	return &EventRepository{DB: db}
}

const eventColumns = `id, host_id, name, slug, description, duration_minutes, is_active, created_at, updated_at`

func (r *EventRepository) CreateEvent(ctx context.Context, event *entity.Event) (*entity.Event, error) {
	query := `
		INSERT INTO events (host_id, name, slug, description, duration_minutes, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + eventColumns

	var created entity.Event
	err := r.DB.GetContext(ctx, &created, query,
		event.HostID, event.Name, event.Slug, event.Description, event.DurationMinutes, event.IsActive)
	if err != nil {
		logger.Error("EventRepository:CreateEvent", "host_id", event.HostID, "error", err)
		return nil, err
	}
	return &created, nil
}

func (r *EventRepository) GetEventByID(ctx context.Context, hostID, id uuid.UUID) (*entity.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1 AND host_id = $2`

	var event entity.Event
	if err := r.DB.GetContext(ctx, &event, query, id, hostID); err != nil {
		if stdErrors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		logger.Error("EventRepository:GetEventByID", "id", id, "error", err)
		return nil, err
	}
	return &event, nil
}

func (r *EventRepository) GetEventsByHostID(ctx context.Context, hostID uuid.UUID, params params.QueryParams) (*entity.PaginatedEventEntity, error) {
	search := "%" + params.Search + "%"

	var total int
	countQuery := `SELECT COUNT(*) FROM events WHERE host_id = $1 AND name ILIKE $2`
	if err := r.DB.GetContext(ctx, &total, countQuery, hostID, search); err != nil {
		logger.Error("EventRepository:GetEventsByHostID:Count", "host_id", hostID, "error", err)
		return nil, err
	}

	events := []entity.Event{}
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE host_id = $1 AND name ILIKE $2
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`
	if err := r.DB.SelectContext(ctx, &events, query, hostID, search, params.PageSize, params.Offset()); err != nil {
		logger.Error("EventRepository:GetEventsByHostID:Select", "host_id", hostID, "error", err)
		return nil, err
	}

	return &entity.PaginatedEventEntity{
		Items:      events,
		TotalItems: total,
		PageNumber: params.PageNumber,
		PageSize:   params.PageSize,
	}, nil
}

func (r *EventRepository) UpdateEvent(ctx context.Context, event *entity.Event) error {
	query := `
		UPDATE events
		SET name = :name, slug = :slug, description = :description,
		    duration_minutes = :duration_minutes, is_active = :is_active, updated_at = NOW()
		WHERE id = :id AND host_id = :host_id
	`
	if _, err := r.DB.NamedExecContext(ctx, query, event); err != nil {
		logger.Error("EventRepository:UpdateEvent", "id", event.ID, "error", err)
		return err
	}
	return nil
}

func (r *EventRepository) DeleteEvent(ctx context.Context, hostID, id uuid.UUID) (bool, error) {
	var deleted uuid.UUID
	err := r.DB.GetContext(ctx, &deleted, `DELETE FROM events WHERE id = $1 AND host_id = $2 RETURNING id`, id, hostID)
	if err != nil {
		if stdErrors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		logger.Error("EventRepository:DeleteEvent", "id", id, "error", err)
		return false, err
	}
	return true, nil
}

func (r *EventRepository) SlugExists(ctx context.Context, hostID uuid.UUID, slug string, excludeID uuid.UUID) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM events WHERE host_id = $1 AND slug = $2 AND id <> $3)`
	if err := r.DB.GetContext(ctx, &exists, query, hostID, slug, excludeID); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *EventRepository) GetActiveEventsByHostID(ctx context.Context, hostID uuid.UUID) ([]entity.Event, error) {
	events := []entity.Event{}
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE host_id = $1 AND is_active = TRUE
		ORDER BY lower(name)
	`
	if err := r.DB.SelectContext(ctx, &events, query, hostID); err != nil {
		logger.Error("EventRepository:GetActiveEventsByHostID", "host_id", hostID, "error", err)
		return nil, err
	}
	return events, nil
}

// FindActiveEvent matches idOrSlug against the event id first, then the slug.
func (r *EventRepository) FindActiveEvent(ctx context.Context, hostID uuid.UUID, idOrSlug string) (*entity.Event, error) {
	var (
		event entity.Event
		err   error
	)
	if id, parseErr := uuid.Parse(idOrSlug); parseErr == nil {
		query := `SELECT ` + eventColumns + ` FROM events WHERE host_id = $1 AND id = $2 AND is_active = TRUE`
		err = r.DB.GetContext(ctx, &event, query, hostID, id)
	} else {
		query := `SELECT ` + eventColumns + ` FROM events WHERE host_id = $1 AND slug = $2 AND is_active = TRUE`
		err = r.DB.GetContext(ctx, &event, query, hostID, idOrSlug)
	}
	if err != nil {
		if stdErrors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		logger.Error("EventRepository:FindActiveEvent", "host_id", hostID, "event", idOrSlug, "error", err)
		return nil, err
	}
	return &event, nil
}
