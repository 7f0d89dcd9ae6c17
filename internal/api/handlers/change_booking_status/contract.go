package change_booking_status

import (
	"context"

	"github.com/m04kA/SMC-StudioBooking/internal/service/bookings/models"
)

type BookingService interface {
	Confirm(ctx context.Context, ownerID, id int64) (*models.BookingResponse, error)
	Cancel(ctx context.Context, ownerID, id int64, req *models.CancelBookingRequest) (*models.BookingResponse, error)
	Complete(ctx context.Context, ownerID, id int64) (*models.BookingResponse, error)
	MarkNoShow(ctx context.Context, ownerID, id int64) (*models.BookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
