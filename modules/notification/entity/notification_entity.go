package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	"smart-schedule/core/entity"

	"github.com/google/uuid"
)

type Notification struct {
	HostID  uuid.UUID `db:"host_id" json:"host_id"`
	Title   string    `db:"title" json:"title"`
	Message string    `db:"message" json:"message"`
	Type    string    `db:"type" json:"type"`
	Data    JSONB     `db:"data" json:"data"`
	IsRead  bool      `db:"is_read" json:"is_read"`
	entity.BaseEntity
}

type JSONB map[string]any

func (a JSONB) Value() (driver.Value, error) {
	if a == nil {
		return nil, nil
	}
	return json.Marshal(a)
}

func (a *JSONB) Scan(value any) error {
	if value == nil {
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(b, a)
}

type PaginatedNotificationEntity = entity.Pagination[Notification]
