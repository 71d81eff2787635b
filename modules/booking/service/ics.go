package service

import (
	"time"

	"smart-schedule/modules/availability"
	"smart-schedule/modules/calendar/provider"

	"github.com/google/uuid"
)

// ConfirmationICS renders the booked meeting as an iCalendar document.
func ConfirmationICS(req availability.MeetingRequest, uid string, stamp time.Time) ([]byte, error) {
	return provider.EncodeCalendar(provider.MeetingCalendar(req, uid, "", stamp))
}

// MeetingUID is stable for a host, event and start, so the downloaded and the
// archived confirmation import as the same calendar entry.
func MeetingUID(hostID, eventID string, start time.Time) string {
	name := hostID + "/" + eventID + "/" + start.UTC().Format(time.RFC3339)
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)).String() + "@smart-schedule"
}
