package models

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-StudioBooking/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// ListBookingsRequest запрос на получение бронирований владельца
type ListBookingsRequest struct {
	OwnerID         int64      `json:"-"`
	StartDate       *time.Time `json:"startDate,omitempty"`       // Начало периода (опционально)
	EndDate         *time.Time `json:"endDate,omitempty"`         // Конец периода (опционально)
	Status          *string    `json:"status,omitempty"`          // Фильтр по статусу (опционально)
	SessionTypeID   *int64     `json:"sessionTypeId,omitempty"`   // Фильтр по типу сессии (опционально)
	IncludeInactive bool       `json:"includeInactive,omitempty"` // Включить завершенные и отмененные
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListBookingsRequest) ToDomainFilter() (domain.BookingsFilter, error) {
	filter := domain.BookingsFilter{
		OwnerID:         r.OwnerID,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		SessionTypeID:   r.SessionTypeID,
		IncludeInactive: r.IncludeInactive,
	}

	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// CancelBookingRequest запрос на отмену бронирования
type CancelBookingRequest struct {
	Reason *string `json:"reason,omitempty" validate:"omitempty,max=500"`
}

// Response модели

// ContactResponse контакт клиента
type ContactResponse struct {
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Phone *string `json:"phone,omitempty"`
}

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID                 int64           `json:"id"`
	UUID               uuid.UUID       `json:"uuid"`
	BookingNumber      string          `json:"bookingNumber"`
	SessionTypeID      int64           `json:"sessionTypeId"`
	SessionTypeName    string          `json:"sessionTypeName"`
	BookingDate        string          `json:"bookingDate"` // "2025-10-14"
	StartTime          string          `json:"startTime"`   // "10:00"
	EndTime            string          `json:"endTime"`
	DurationMinutes    int             `json:"durationMinutes"`
	BufferAfterMinutes int             `json:"bufferAfterMinutes"`
	Timezone           string          `json:"timezone"`
	Status             string          `json:"status"`
	Source             string          `json:"source"`
	Contact            ContactResponse `json:"contact"`

	SchoolName    *string `json:"schoolName,omitempty"`
	ClassName     *string `json:"className,omitempty"`
	StudentCount  *int    `json:"studentCount,omitempty"`
	Location      *string `json:"location,omitempty"`
	Notes         *string `json:"notes,omitempty"`
	InternalNotes *string `json:"internalNotes,omitempty"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CanceledAt         *string `json:"canceledAt,omitempty"` // ISO 8601 format
	CompletedAt        *string `json:"completedAt,omitempty"`
	StatusChangedAt    *string `json:"statusChangedAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	return &BookingResponse{
		ID:                 b.ID,
		UUID:               b.UUID,
		BookingNumber:      b.BookingNumber,
		SessionTypeID:      b.SessionTypeID,
		SessionTypeName:    b.SessionTypeName,
		BookingDate:        b.BookingDate.Format(domain.DateFormat),
		StartTime:          b.StartTime.String(),
		EndTime:            b.EndTime.String(),
		DurationMinutes:    b.DurationMinutes,
		BufferAfterMinutes: b.BufferAfterMinutes,
		Timezone:           b.Timezone,
		Status:             string(b.Status),
		Source:             string(b.Source),
		Contact: ContactResponse{
			Name:  b.Contact.Name,
			Email: b.Contact.Email,
			Phone: b.Contact.Phone,
		},
		SchoolName:         b.SchoolName,
		ClassName:          b.ClassName,
		StudentCount:       b.StudentCount,
		Location:           b.Location,
		Notes:              b.Notes,
		InternalNotes:      b.InternalNotes,
		CancellationReason: b.CancellationReason,
		CanceledAt:         formatTime(b.CanceledAt),
		CompletedAt:        formatTime(b.CompletedAt),
		StatusChangedAt:    formatTime(b.StatusChangedAt),
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}
}

// FromDomainBookingPublic DTO для клиента: без внутренних заметок владельца
func FromDomainBookingPublic(b *domain.Booking) *BookingResponse {
	resp := FromDomainBooking(b)
	if resp != nil {
		resp.InternalNotes = nil
	}
	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}
	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}
	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus с валидацией
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(status)
	if !s.IsValid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
