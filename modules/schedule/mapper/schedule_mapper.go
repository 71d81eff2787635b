package mapper

import (
	"fmt"

	"smart-schedule/modules/availability"
	"smart-schedule/modules/schedule/dto"
	"smart-schedule/modules/schedule/entity"
)

const fieldAvailabilities = "availabilities"

func fieldPath(index int, field string) string {
	return fmt.Sprintf("%s[%d].%s", fieldAvailabilities, index, field)
}

// ToWindows parses the request windows. Parse failures are returned per field
// and no window is produced for a request that has any. At least one window
// is required.
func ToWindows(req *dto.SaveScheduleRequest) ([]availability.Window, []dto.FieldError) {
	if len(req.Availabilities) == 0 {
		return nil, []dto.FieldError{{Field: fieldAvailabilities, Message: "At least one day must be configured"}}
	}

	windows := make([]availability.Window, 0, len(req.Availabilities))
	var fieldErrs []dto.FieldError

	for i, a := range req.Availabilities {
		day, ok := availability.ParseDayOfWeek(a.DayOfWeek)
		if !ok {
			fieldErrs = append(fieldErrs, dto.FieldError{
				Field:   fieldPath(i, availability.FieldDayOfWeek),
				Message: fmt.Sprintf("unknown day of week %q", a.DayOfWeek),
			})
		}
		start, err := availability.ParseTimeOfDay(a.StartTime)
		if err != nil {
			fieldErrs = append(fieldErrs, dto.FieldError{Field: fieldPath(i, availability.FieldStartTime), Message: err.Error()})
		}
		end, err := availability.ParseTimeOfDay(a.EndTime)
		if err != nil {
			fieldErrs = append(fieldErrs, dto.FieldError{Field: fieldPath(i, availability.FieldEndTime), Message: err.Error()})
		}
		windows = append(windows, availability.Window{Day: day, Start: start, End: end})
	}

	if len(fieldErrs) > 0 {
		return nil, fieldErrs
	}
	return windows, nil
}

func ToFieldErrors(issues []availability.Issue) []dto.FieldError {
	out := make([]dto.FieldError, 0, len(issues))
	for _, issue := range issues {
		out = append(out, dto.FieldError{Field: fieldPath(issue.Index, issue.Field), Message: issue.Message()})
	}
	return out
}

func ToScheduleResponse(s *availability.Schedule) *dto.ScheduleResponse {
	windows := s.Windows()
	resp := &dto.ScheduleResponse{
		HostID:         s.HostID(),
		Timezone:       s.Timezone(),
		Availabilities: make([]dto.AvailabilityResponse, 0, len(windows)),
	}
	for _, w := range windows {
		resp.Availabilities = append(resp.Availabilities, dto.AvailabilityResponse{
			DayOfWeek: string(w.Day),
			StartTime: w.Start.String(),
			EndTime:   w.End.String(),
		})
	}
	return resp
}

func ToWindow(row entity.ScheduleAvailability) availability.Window {
	return availability.Window{
		Day:   availability.DayOfWeek(row.DayOfWeek),
		Start: availability.TimeOfDay(row.StartMinute),
		End:   availability.TimeOfDay(row.EndMinute),
	}
}

func ToAvailabilityEntities(windows []availability.Window) []entity.ScheduleAvailability {
	rows := make([]entity.ScheduleAvailability, 0, len(windows))
	for _, w := range windows {
		rows = append(rows, entity.ScheduleAvailability{
			DayOfWeek:   string(w.Day),
			StartMinute: int(w.Start),
			EndMinute:   int(w.End),
		})
	}
	return rows
}
