package mapper

import (
	"time"

	"smart-schedule/modules/availability"
	"smart-schedule/modules/calendar/dto"
	"smart-schedule/modules/calendar/entity"
)

func ToConnectionResponse(conn *entity.CalendarConnection) *dto.CalendarConnectionResponse {
	if conn == nil {
		return nil
	}
	return &dto.CalendarConnectionResponse{
		ID:            conn.ID.String(),
		Provider:      conn.Provider,
		CalendarEmail: conn.CalendarEmail,
		CalendarURL:   conn.CalendarURL,
		IsActive:      conn.IsActive,
		ConnectedAt:   conn.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func ToConnectionListResponse(conns []entity.CalendarConnection) *dto.CalendarConnectionListResponse {
	out := &dto.CalendarConnectionListResponse{Connections: make([]dto.CalendarConnectionResponse, 0, len(conns))}
	for i := range conns {
		out.Connections = append(out.Connections, *ToConnectionResponse(&conns[i]))
	}
	return out
}

func ToTimeSlots(busy []availability.BusyInterval) []dto.TimeSlot {
	slots := make([]dto.TimeSlot, 0, len(busy))
	for _, b := range busy {
		slots = append(slots, dto.TimeSlot{
			Start: b.Start.UTC().Format(time.RFC3339),
			End:   b.End.UTC().Format(time.RFC3339),
		})
	}
	return slots
}
