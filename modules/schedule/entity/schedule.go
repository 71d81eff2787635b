package entity

import (
	"smart-schedule/core/entity"

	"github.com/google/uuid"
)

type Schedule struct {
	entity.BaseEntity
	HostID   uuid.UUID `db:"host_id" json:"host_id"`
	Timezone string    `db:"timezone" json:"timezone"`
}

// ScheduleAvailability is one weekly window; times are minutes after midnight.
type ScheduleAvailability struct {
	entity.BaseEntity
	ScheduleID  uuid.UUID `db:"schedule_id" json:"schedule_id"`
	DayOfWeek   string    `db:"day_of_week" json:"day_of_week"`
	StartMinute int       `db:"start_minute" json:"start_minute"`
	EndMinute   int       `db:"end_minute" json:"end_minute"`
}
