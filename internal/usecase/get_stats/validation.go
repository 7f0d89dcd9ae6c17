package get_stats

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

	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		return fmt.Errorf("%w: startDate and endDate are required", ErrInvalidInput)
	}

	if req.EndDate.Before(req.StartDate) {
		return fmt.Errorf("%w: endDate must not be before startDate", ErrInvalidInput)
	}

	days := int(math.Round(domain.DateOnly(req.EndDate).Sub(domain.DateOnly(req.StartDate)).Hours()/24)) + 1
	if days > domain.MaxStatsRangeDays {
		return fmt.Errorf("%w: range must not exceed %d days", ErrInvalidInput, domain.MaxStatsRangeDays)
	}

	return nil
}
