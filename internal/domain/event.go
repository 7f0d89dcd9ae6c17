package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventType тип события об изменении бронирования
type EventType string

const (
	EventBookingCreated     EventType = "booking.created"
	EventBookingConfirmed   EventType = "booking.confirmed"
	EventBookingCanceled    EventType = "booking.canceled"
	EventBookingCompleted   EventType = "booking.completed"
	EventBookingNoShow      EventType = "booking.no_show"
	EventBookingRescheduled EventType = "booking.rescheduled"
)

// EventForStatus событие перехода в статус
func EventForStatus(status BookingStatus) EventType {
	switch status {
	case StatusConfirmed:
		return EventBookingConfirmed
	case StatusCanceled:
		return EventBookingCanceled
	case StatusCompleted:
		return EventBookingCompleted
	case StatusNoShow:
		return EventBookingNoShow
	default:
		return EventBookingCreated
	}
}

// BookingEvent уведомление для внешних подписчиков (календарь, рассылки)
type BookingEvent struct {
	Type       EventType     `json:"type"`
	BookingID  int64         `json:"bookingId"`
	UUID       uuid.UUID     `json:"uuid"`
	OwnerID    int64         `json:"ownerId"`
	Date       string        `json:"date"`
	StartTime  string        `json:"startTime"`
	EndTime    string        `json:"endTime"`
	Status     BookingStatus `json:"status"`
	OccurredAt time.Time     `json:"occurredAt"`
}

// NewBookingEvent событие по текущему состоянию бронирования
func NewBookingEvent(t EventType, b *Booking, at time.Time) BookingEvent {
	return BookingEvent{
		Type:       t,
		BookingID:  b.ID,
		UUID:       b.UUID,
		OwnerID:    b.OwnerID,
		Date:       b.BookingDate.Format(DateFormat),
		StartTime:  b.StartTime.String(),
		EndTime:    b.EndTime.String(),
		Status:     b.Status,
		OccurredAt: at,
	}
}
