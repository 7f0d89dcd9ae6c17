package get_public_booking

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-StudioBooking/internal/service/bookings/models"
)

type BookingService interface {
	GetByUUID(ctx context.Context, id uuid.UUID) (*models.BookingResponse, error)
	ExportICS(ctx context.Context, id uuid.UUID) (string, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
