package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-StudioBooking/pkg/types"
)

// BookingStatus статус бронирования
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCompleted BookingStatus = "completed"
	StatusCanceled  BookingStatus = "canceled"
	StatusNoShow    BookingStatus = "no_show"
)

// BookingSource откуда пришло бронирование
type BookingSource string

const (
	SourceManual     BookingSource = "manual"
	SourcePublicLink BookingSource = "public_link"
	SourceCSVImport  BookingSource = "csv_import"
)

// allowedTransitions допустимые переходы статусов
// Терминальные статусы (completed, canceled, no_show) не имеют исходящих переходов
var allowedTransitions = map[BookingStatus][]BookingStatus{
	StatusPending:   {StatusConfirmed, StatusCanceled},
	StatusConfirmed: {StatusCompleted, StatusCanceled, StatusNoShow},
}

// Contact контактные данные клиента
type Contact struct {
	Name  string
	Email string
	Phone *string
}

// Booking бронирование фотосессии
type Booking struct {
	ID            int64
	UUID          uuid.UUID
	BookingNumber string
	OwnerID       int64
	SessionTypeID int64

	BookingDate        time.Time
	StartTime          types.TimeString
	EndTime            types.TimeString
	DurationMinutes    int
	BufferAfterMinutes int
	Timezone           string

	Status BookingStatus
	Source BookingSource

	// Денормализованные данные типа сессии
	SessionTypeName string

	Contact       Contact
	SchoolName    *string
	ClassName     *string
	StudentCount  *int
	Location      *string
	Notes         *string
	InternalNotes *string

	CancellationReason *string
	CanceledAt         *time.Time
	CompletedAt        *time.Time
	StatusChangedAt    *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive бронирование занимает время в календаре
func (b *Booking) IsActive() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// CountsTowardLoad бронирование учитывается в загрузке дня календаря и статистики
// Проведенные занимали время, отмены и неявки нет
func (b *Booking) CountsTowardLoad() bool {
	return b.IsActive() || b.Status == StatusCompleted
}

// IsTerminal из статуса нет переходов
func (b *Booking) IsTerminal() bool {
	return len(allowedTransitions[b.Status]) == 0
}

// CanTransitionTo проверяет допустимость перехода в статус next
func (b *Booking) CanTransitionTo(next BookingStatus) bool {
	for _, s := range allowedTransitions[b.Status] {
		if s == next {
			return true
		}
	}
	return false
}

// CanBeRescheduled перенести можно только активное бронирование
func (b *Booking) CanBeRescheduled() bool {
	return b.IsActive()
}

// IsValid проверяет, что статус известен
func (s BookingStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCanceled, StatusNoShow:
		return true
	}
	return false
}

// IsValid проверяет, что источник известен
func (s BookingSource) IsValid() bool {
	switch s {
	case SourceManual, SourcePublicLink, SourceCSVImport:
		return true
	}
	return false
}

// GenerateBookingNumber номер бронирования вида BK-20251014-3F2A9C
func GenerateBookingNumber(date time.Time, id uuid.UUID) string {
	hex := strings.ReplaceAll(id.String(), "-", "")
	return "BK-" + date.Format("20060102") + "-" + strings.ToUpper(hex[:6])
}

// BookingsFilter фильтр списка бронирований владельца
type BookingsFilter struct {
	OwnerID         int64          // Обязательный параметр
	StartDate       *time.Time     // Начало периода (включительно)
	EndDate         *time.Time     // Конец периода (включительно)
	Status          *BookingStatus // Фильтр по статусу
	SessionTypeID   *int64         // Фильтр по типу сессии
	IncludeInactive bool           // Включать завершенные, отмененные и no-show
}

// IsSingleDay фильтр ограничен одной датой
func (f BookingsFilter) IsSingleDay() bool {
	return f.StartDate != nil && f.EndDate != nil && f.StartDate.Equal(*f.EndDate)
}
