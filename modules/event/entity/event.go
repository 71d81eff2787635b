package entity

import (
	"smart-schedule/core/entity"

	"github.com/google/uuid"
)

// Event is a bookable meeting type offered by a host.
type Event struct {
	entity.BaseEntity
	HostID          uuid.UUID `db:"host_id" json:"host_id"`
	Name            string    `db:"name" json:"name"`
	Slug            string    `db:"slug" json:"slug"`
	Description     *string   `db:"description" json:"description,omitempty"`
	DurationMinutes int       `db:"duration_minutes" json:"duration_minutes"`
	IsActive        bool      `db:"is_active" json:"is_active"`
}

type PaginatedEventEntity = entity.Pagination[Event]
