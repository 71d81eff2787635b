package dto

// Slot is one bookable start. StartTime is RFC3339 in UTC, LocalTime is the
// guest-local clock time.
type Slot struct {
	StartTime string `json:"start_time"`
	LocalTime string `json:"local_time"`
}

// SlotDay groups the slots of one guest-local calendar date (YYYY-MM-DD).
type SlotDay struct {
	Date  string `json:"date"`
	Slots []Slot `json:"slots"`
}

type SlotsResponse struct {
	HostID          string    `json:"host_id"`
	EventID         string    `json:"event_id"`
	EventName       string    `json:"event_name"`
	DurationMinutes int       `json:"duration_minutes"`
	Timezone        string    `json:"timezone"`
	From            string    `json:"from"`
	To              string    `json:"to"`
	Days            []SlotDay `json:"days"`
}

type CreateBookingRequest struct {
	StartTime  string `json:"start_time"`
	GuestEmail string `json:"guest_email"`
	GuestName  string `json:"guest_name"`
	GuestNotes string `json:"guest_notes"`
	Timezone   string `json:"timezone"`
}

type BookingResponse struct {
	EventName       string `json:"event_name"`
	HostID          string `json:"host_id"`
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
	Timezone        string `json:"timezone"`
	LocalStart      string `json:"local_start"`
	ExternalEventID string `json:"external_event_id"`
}

// BookingSuccessResponse carries what the confirmation page shows.
type BookingSuccessResponse struct {
	EventName  string `json:"event_name"`
	HostID     string `json:"host_id"`
	StartTime  string `json:"start_time"`
	Timezone   string `json:"timezone"`
	LocalStart string `json:"local_start"`
	Message    string `json:"message"`
}
