package dto

import (
	"time"

	"smart-schedule/core/dto"
)

type CreateEventRequest struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	DurationMinutes int    `json:"duration_minutes"`
	IsActive        *bool  `json:"is_active"`
}

// UpdateEventRequest changes only the fields that are present.
type UpdateEventRequest struct {
	Name            *string `json:"name"`
	Description     *string `json:"description"`
	DurationMinutes *int    `json:"duration_minutes"`
	IsActive        *bool   `json:"is_active"`
}

type EventResponse struct {
	ID              string    `json:"id"`
	HostID          string    `json:"host_id"`
	Name            string    `json:"name"`
	Slug            string    `json:"slug"`
	Description     string    `json:"description,omitempty"`
	DurationMinutes int       `json:"duration_minutes"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// PublicEventResponse is what guests see on a host's booking page.
type PublicEventResponse struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Slug            string `json:"slug"`
	Description     string `json:"description,omitempty"`
	DurationMinutes int    `json:"duration_minutes"`
}

type PaginatedEventDTO = dto.Pagination[EventResponse]
