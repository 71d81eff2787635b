package dto

import "time"

type CalendarConnectionResponse struct {
	ID            string `json:"id"`
	Provider      string `json:"provider"`
	CalendarEmail string `json:"calendar_email,omitempty"`
	CalendarURL   string `json:"calendar_url,omitempty"`
	IsActive      bool   `json:"is_active"`
	ConnectedAt   string `json:"connected_at"`
}

type CalendarConnectionListResponse struct {
	Connections []CalendarConnectionResponse `json:"connections"`
}

// ConnectGoogleRequest carries tokens already obtained from the identity provider.
type ConnectGoogleRequest struct {
	AccessToken   string    `json:"access_token"`
	RefreshToken  string    `json:"refresh_token"`
	ExpiresAt     time.Time `json:"expires_at"`
	CalendarEmail string    `json:"calendar_email"`
}

type ConnectCalDAVRequest struct {
	CalendarURL   string `json:"calendar_url"`
	Username      string `json:"username"`
	Password      string `json:"password"`
	CalendarEmail string `json:"calendar_email"`
}

type TimeSlot struct {
	Start string `json:"start"` // RFC3339
	End   string `json:"end"`   // RFC3339
}

type BusyResponse struct {
	HostID string     `json:"host_id"`
	Busy   []TimeSlot `json:"busy"`
}
