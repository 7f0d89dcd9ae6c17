package get_calendar

import (
	"fmt"
	"math"

	"github.com/m04kA/SMC-StudioBooking/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.OwnerID <= 0 {
		return fmt.Errorf("%w: ownerID must be positive", ErrInvalidInput)
	}

	if !req.View.IsValid() {
		return fmt.Errorf("%w: unknown view %q", ErrInvalidInput, req.View)
	}

	if req.StartDate.IsZero() {
		return fmt.Errorf("%w: startDate is required", ErrInvalidInput)
	}

	if req.EndDate != nil {
		if req.EndDate.Before(req.StartDate) {
			return fmt.Errorf("%w: endDate must not be before startDate", ErrInvalidInput)
		}
		days := int(math.Round(domain.DateOnly(*req.EndDate).Sub(domain.DateOnly(req.StartDate)).Hours()/24)) + 1
		if days > domain.MaxCalendarRangeDays {
			return fmt.Errorf("%w: range must not exceed %d days", ErrInvalidInput, domain.MaxCalendarRangeDays)
		}
	}

	if req.SessionTypeID != nil && *req.SessionTypeID <= 0 {
		return fmt.Errorf("%w: sessionTypeID must be positive", ErrInvalidInput)
	}

	if req.CapacityFloor < 0 {
		return fmt.Errorf("%w: capacityFloor must not be negative", ErrInvalidInput)
	}

	return nil
}
