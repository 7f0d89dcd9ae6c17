package create_booking

import (
	"time"

	"github.com/m04kA/SMC-StudioBooking/internal/domain"
	"github.com/m04kA/SMC-StudioBooking/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	OwnerID       int64            // ID владельца студии
	SessionTypeID int64            // ID типа сессии
	Date          time.Time        // Дата в часовом поясе студии
	StartTime     types.TimeString // Время начала (HH:MM)

	Contact       domain.Contact
	SchoolName    *string
	ClassName     *string
	StudentCount  *int
	Location      *string // Если не указана, берется локация типа сессии
	Notes         *string
	InternalNotes *string

	Source     domain.BookingSource // По умолчанию manual
	PublicOnly bool                 // Запрос со страницы публичной записи
}

// Response модель ответа с созданным бронированием
type Response struct {
	Booking *domain.Booking
}

const operationCreate = "create"
