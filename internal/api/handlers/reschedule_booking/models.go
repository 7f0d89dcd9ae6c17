package reschedule_booking

import (
	"time"

	"github.com/m04kA/SMC-StudioBooking/internal/api/handlers"
	rescheduleBooking "github.com/m04kA/SMC-StudioBooking/internal/usecase/reschedule_booking"
	"github.com/m04kA/SMC-StudioBooking/pkg/types"
)

// RescheduleBookingRequest HTTP request model
type RescheduleBookingRequest struct {
	BookingDate string `json:"bookingDate" validate:"required"` // "2025-10-15"
	StartTime   string `json:"startTime" validate:"required"`   // "11:00"
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *RescheduleBookingRequest) ToUseCaseRequest(ownerID, bookingID int64, loc *time.Location) (*rescheduleBooking.Request, error) {
	date, err := handlers.ParseDate(r.BookingDate, loc)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	return &rescheduleBooking.Request{
		OwnerID:   ownerID,
		BookingID: bookingID,
		Date:      date,
		StartTime: startTime,
	}, nil
}
