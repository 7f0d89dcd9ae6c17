package bookings

import (
	"context"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-StudioBooking/internal/domain"
)

const (
	icsProductID   = "-//SMC//StudioBooking//RU"
	icsLocalLayout = "20060102T150405"
)

// ExportICS iCalendar с одним VEVENT: UID = uuid бронирования,
// DTSTART/DTEND в локальном времени бронирования, SUMMARY = название типа сессии
func (s *Service) ExportICS(ctx context.Context, id uuid.UUID) (string, error) {
	s.logger.Info("ExportICS: exporting booking uuid=%s", id)

	booking, err := s.getByUUID(ctx, "ExportICS", id)
	if err != nil {
		return "", err
	}

	loc, err := time.LoadLocation(booking.Timezone)
	if err != nil || booking.Timezone == "" {
		loc = booking.BookingDate.Location()
	}
	date := time.Date(booking.BookingDate.Year(), booking.BookingDate.Month(), booking.BookingDate.Day(), 0, 0, 0, 0, loc)
	start := booking.StartTime.On(date)
	end := booking.EndTime.On(date)

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(icsProductID)

	event := cal.AddEvent(booking.UUID.String())
	event.SetDtStampTime(s.timeProvider.Now())
	event.SetCreatedTime(booking.CreatedAt)
	event.SetModifiedAt(booking.UpdatedAt)
	setLocalTime(event, ics.ComponentPropertyDtStart, start)
	setLocalTime(event, ics.ComponentPropertyDtEnd, end)
	event.SetSummary(booking.SessionTypeName)
	event.SetDescription(describe(booking))
	if booking.Location != nil {
		event.SetLocation(*booking.Location)
	}
	event.SetStatus(icsStatus(booking.Status))

	return cal.Serialize(), nil
}

// setLocalTime UTC пишется с суффиксом Z, остальные зоны через TZID
func setLocalTime(event *ics.VEvent, property ics.ComponentProperty, t time.Time) {
	name := t.Location().String()
	if t.Location() == time.UTC || name == "UTC" {
		event.SetProperty(property, t.UTC().Format(icsLocalLayout)+"Z")
		return
	}
	event.SetProperty(property, t.Format(icsLocalLayout), &ics.KeyValues{
		Key:   string(ics.ParameterTzid),
		Value: []string{name},
	})
}

func describe(b *domain.Booking) string {
	parts := []string{"Бронирование " + b.BookingNumber}
	if b.SchoolName != nil {
		parts = append(parts, *b.SchoolName)
	}
	if b.ClassName != nil {
		parts = append(parts, *b.ClassName)
	}
	if b.Notes != nil {
		parts = append(parts, *b.Notes)
	}
	return strings.Join(parts, "\n")
}

func icsStatus(status domain.BookingStatus) ics.ObjectStatus {
	switch status {
	case domain.StatusPending:
		return ics.ObjectStatusTentative
	case domain.StatusCanceled:
		return ics.ObjectStatusCancelled
	default:
		return ics.ObjectStatusConfirmed
	}
}
