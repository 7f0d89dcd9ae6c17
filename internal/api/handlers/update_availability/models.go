package update_availability

import (
	"time"

	"github.com/m04kA/SMC-StudioBooking/internal/api/handlers"
	"github.com/m04kA/SMC-StudioBooking/internal/domain"
	"github.com/m04kA/SMC-StudioBooking/internal/service/availability/models"
	"github.com/m04kA/SMC-StudioBooking/pkg/types"
)

// PatternsResponse расписание после замены
type PatternsResponse struct {
	Patterns []models.PatternDTO `json:"patterns"`
}

// CreateOverrideRequest HTTP request model
type CreateOverrideRequest struct {
	Date      string  `json:"date" validate:"required"`      // "2025-10-18"
	StartTime string  `json:"startTime" validate:"required"` // "10:00"
	EndTime   string  `json:"endTime" validate:"required"`
	Note      *string `json:"note,omitempty" validate:"omitempty,max=500"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *CreateOverrideRequest) ToServiceRequest(ownerID int64, loc *time.Location) (*models.CreateOverrideRequest, error) {
	date, err := handlers.ParseDate(r.Date, loc)
	if err != nil {
		return nil, err
	}
	start, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := types.NewTimeStringFromString(r.EndTime)
	if err != nil {
		return nil, err
	}

	return &models.CreateOverrideRequest{
		OwnerID:   ownerID,
		Date:      date,
		StartTime: start,
		EndTime:   end,
		Note:      r.Note,
	}, nil
}

// CreateBlockedDateRequest HTTP request model
// endDate по умолчанию равен startDate
type CreateBlockedDateRequest struct {
	StartDate string  `json:"startDate" validate:"required"`
	EndDate   string  `json:"endDate,omitempty"`
	Reason    *string `json:"reason,omitempty" validate:"omitempty,max=500"`
	Source    string  `json:"source,omitempty" validate:"omitempty,oneof=manual holidays"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *CreateBlockedDateRequest) ToServiceRequest(ownerID int64, loc *time.Location) (*models.CreateBlockedDateRequest, error) {
	start, err := handlers.ParseDate(r.StartDate, loc)
	if err != nil {
		return nil, err
	}
	end := start
	if r.EndDate != "" {
		end, err = handlers.ParseDate(r.EndDate, loc)
		if err != nil {
			return nil, err
		}
	}

	source := domain.BlockedSourceManual
	if r.Source != "" {
		source = domain.BlockedDateSource(r.Source)
	}

	return &models.CreateBlockedDateRequest{
		OwnerID:   ownerID,
		StartDate: start,
		EndDate:   end,
		Reason:    r.Reason,
		Source:    source,
	}, nil
}
