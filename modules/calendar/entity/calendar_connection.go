package entity

import (
	"time"

	"smart-schedule/core/entity"

	"github.com/google/uuid"
)

// CalendarConnection links a host to the calendar provider their busy times
// are read from and bookings are written to.
type CalendarConnection struct {
	entity.BaseEntity
	HostID         uuid.UUID  `db:"host_id" json:"host_id"`
	Provider       string     `db:"provider" json:"provider"` // "google" | "caldav"
	CalendarEmail  string     `db:"calendar_email" json:"calendar_email"`
	CalendarURL    string     `db:"calendar_url" json:"calendar_url"`
	Username       string     `db:"username" json:"-"`
	Password       string     `db:"password" json:"-"`
	AccessToken    string     `db:"access_token" json:"-"`
	RefreshToken   string     `db:"refresh_token" json:"-"`
	TokenExpiresAt *time.Time `db:"token_expires_at" json:"token_expires_at,omitempty"`
	IsActive       bool       `db:"is_active" json:"is_active"`
}
