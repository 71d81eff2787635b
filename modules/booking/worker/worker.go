package worker

import (
	"context"
	"fmt"
	"time"

	"smart-schedule/core/constants"
	"smart-schedule/core/logger"
	"smart-schedule/core/queue"
	"smart-schedule/core/storage"
	"smart-schedule/modules/availability"
	"smart-schedule/modules/booking/service"
	notifDto "smart-schedule/modules/notification/dto"
	notifService "smart-schedule/modules/notification/service"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const noticeLayout = "Mon, Jan 2 2006 at 15:04 MST"

// Handler processes booking confirmations after the external event exists.
type Handler struct {
	store    storage.ObjectStore
	notifier notifService.NotificationServiceInterface
	now      func() time.Time
}

// NewHandler builds a Handler. store may be nil to skip archiving.
func NewHandler(store storage.ObjectStore, notifier notifService.NotificationServiceInterface) *Handler {
	return &Handler{store: store, notifier: notifier, now: time.Now}
}

func (h *Handler) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(constants.TaskBookingConfirmed, h.ProcessBookingConfirmed)
}

func archiveKey(hostID, externalID string) string {
	return fmt.Sprintf("bookings/%s/%s.ics", hostID, externalID)
}

func (h *Handler) ProcessBookingConfirmed(ctx context.Context, t *asynq.Task) error {
	p, err := queue.ParseBookingConfirmed(t)
	if err != nil {
		return err
	}
	hostID, err := uuid.Parse(p.HostID)
	if err != nil {
		return fmt.Errorf("invalid host id %q: %w", p.HostID, asynq.SkipRetry)
	}

	data := map[string]any{
		"event_id":          p.EventID,
		"external_event_id": p.ExternalEventID,
		"guest_name":        p.GuestName,
		"guest_email":       p.GuestEmail,
		"start_time":        p.Start.UTC().Format(time.RFC3339),
		"end_time":          p.End.UTC().Format(time.RFC3339),
	}

	if h.store != nil {
		req := availability.MeetingRequest{
			RequestID:       p.RequestID,
			HostID:          p.HostID,
			GuestEmail:      p.GuestEmail,
			GuestName:       p.GuestName,
			GuestNotes:      p.GuestNotes,
			Start:           p.Start,
			DurationMinutes: int(p.End.Sub(p.Start) / time.Minute),
			Timezone:        p.Timezone,
			EventTitle:      p.EventTitle,
		}
		body, err := service.ConfirmationICS(req, service.MeetingUID(p.HostID, p.EventID, p.Start), h.now())
		if err != nil {
			return fmt.Errorf("render ics: %w", err)
		}
		url, err := h.store.Put(ctx, archiveKey(p.HostID, p.ExternalEventID), "text/calendar; charset=utf-8", body)
		if err != nil {
			logger.Warn("BookingWorker:ProcessBookingConfirmed:Archive", "host_id", p.HostID, "error", err)
			return fmt.Errorf("archive ics: %w", err)
		}
		data["ics_url"] = url
	}

	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		loc = time.UTC
	}
	guest := p.GuestName
	if guest == "" {
		guest = p.GuestEmail
	}
	if appErr := h.notifier.Create(ctx, &notifDto.CreateNotificationRequest{
		HostID:  hostID,
		Title:   "New booking: " + p.EventTitle,
		Message: fmt.Sprintf("%s with %s at %s", p.EventTitle, guest, p.Start.In(loc).Format(noticeLayout)),
		Type:    constants.NotificationBookingConfirmed,
		Data:    data,
	}); appErr != nil {
		return appErr
	}

	logger.Info("BookingWorker:ProcessBookingConfirmed:Done", "host_id", p.HostID, "external_id", p.ExternalEventID)
	return nil
}
