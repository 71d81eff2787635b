package provider

import (
	"bytes"
	"fmt"
	"time"

	"smart-schedule/modules/availability"

	"github.com/emersion/go-ical"
)

const productID = "-//smart-schedule//booking//EN"

// MeetingCalendar renders the meeting as a VCALENDAR with a single VEVENT.
// organizer may be empty.
func MeetingCalendar(req availability.MeetingRequest, uid, organizer string, stamp time.Time) *ical.Calendar {
	ev := ical.NewEvent()
	ev.Props.SetText(ical.PropUID, uid)
	ev.Props.SetDateTime(ical.PropDateTimeStamp, stamp.UTC())
	ev.Props.SetDateTime(ical.PropDateTimeStart, req.Start.UTC())
	ev.Props.SetDateTime(ical.PropDateTimeEnd, req.End().UTC())
	ev.Props.SetText(ical.PropSummary, req.EventTitle)
	if req.GuestNotes != "" {
		ev.Props.SetText(ical.PropDescription, req.GuestNotes)
	}
	if organizer != "" {
		p := ical.NewProp(ical.PropOrganizer)
		p.SetValueType(ical.ValueCalendarAddress)
		p.Value = "mailto:" + organizer
		ev.Props.Add(p)
	}
	if req.GuestEmail != "" {
		p := ical.NewProp(ical.PropAttendee)
		p.SetValueType(ical.ValueCalendarAddress)
		p.Value = "mailto:" + req.GuestEmail
		if req.GuestName != "" {
			p.Params.Set(ical.ParamCommonName, req.GuestName)
		}
		ev.Props.Add(p)
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, productID)
	cal.Children = append(cal.Children, ev.Component)
	return cal
}

func EncodeCalendar(cal *ical.Calendar) ([]byte, error) {
	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("encode calendar: %w", err)
	}
	return buf.Bytes(), nil
}

// icalBusyIntervals extracts the busy spans of every VEVENT in cal.
func icalBusyIntervals(cal *ical.Calendar, loc *time.Location) ([]availability.BusyInterval, error) {
	var out []availability.BusyInterval
	for _, ev := range cal.Events() {
		if transp := ev.Props.Get(ical.PropTransparency); transp != nil && transp.Value == "TRANSPARENT" {
			continue
		}
		if status := ev.Props.Get(ical.PropStatus); status != nil && status.Value == "CANCELLED" {
			continue
		}
		start, err := ev.DateTimeStart(loc)
		if err != nil {
			return nil, fmt.Errorf("event start: %w", err)
		}
		end, err := ev.DateTimeEnd(loc)
		if err != nil {
			return nil, fmt.Errorf("event end: %w", err)
		}
		if start.IsZero() || end.IsZero() {
			continue
		}
		out = append(out, availability.BusyInterval{Start: start, End: end})
	}
	return out, nil
}
