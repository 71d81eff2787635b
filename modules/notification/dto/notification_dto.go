package dto

import (
	"time"

	coreDto "smart-schedule/core/dto"

	"github.com/google/uuid"
)

type NotificationResponse struct {
	ID        uuid.UUID      `json:"id"`
	Title     string         `json:"title"`
	Message   string         `json:"message"`
	Type      string         `json:"type"`
	Data      map[string]any `json:"data"`
	IsRead    bool           `json:"is_read"`
	CreatedAt time.Time      `json:"created_at"`
}

type PaginatedNotificationDTO = coreDto.Pagination[NotificationResponse]

type MarkAsReadRequest struct {
	IDs []string `json:"ids"`
}

type UnreadCountResponse struct {
	Count int `json:"count"`
}

type CreateNotificationRequest struct {
	HostID  uuid.UUID      `json:"host_id"`
	Title   string         `json:"title"`
	Message string         `json:"message"`
	Type    string         `json:"type"`
	Data    map[string]any `json:"data"`
}
