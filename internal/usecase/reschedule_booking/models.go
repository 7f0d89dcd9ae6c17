package reschedule_booking

import (
	"time"

	"github.com/m04kA/SMC-StudioBooking/internal/domain"
	"github.com/m04kA/SMC-StudioBooking/pkg/types"
)

// Request модель запроса на перенос бронирования
type Request struct {
	OwnerID   int64
	BookingID int64
	Date      time.Time        // Новая дата
	StartTime types.TimeString // Новое время начала
}

// Response перенесенное бронирование (id и uuid сохраняются)
type Response struct {
	Booking *domain.Booking
}

const operationReschedule = "reschedule"
