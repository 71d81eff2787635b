package dto

type AvailabilityRequest struct {
	DayOfWeek string `json:"day_of_week"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type SaveScheduleRequest struct {
	Timezone       string                `json:"timezone"`
	Availabilities []AvailabilityRequest `json:"availabilities"`
}

type AvailabilityResponse struct {
	DayOfWeek string `json:"day_of_week"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type ScheduleResponse struct {
	HostID         string                 `json:"host_id"`
	Timezone       string                 `json:"timezone"`
	Availabilities []AvailabilityResponse `json:"availabilities"`
}

// FieldError points at one invalid field of the request body.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
