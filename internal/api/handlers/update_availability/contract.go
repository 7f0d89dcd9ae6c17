package update_availability

import (
	"context"

	"github.com/m04kA/SMC-StudioBooking/internal/service/availability/models"
)

type AvailabilityService interface {
	UpdatePatterns(ctx context.Context, req *models.UpdatePatternsRequest) ([]models.PatternDTO, error)
	UpdateSettings(ctx context.Context, req *models.UpdateSettingsRequest) (*models.SettingsDTO, error)
	CreateOverride(ctx context.Context, req *models.CreateOverrideRequest) (*models.OverrideResponse, error)
	DeleteOverride(ctx context.Context, ownerID, id int64) error
	CreateBlockedDate(ctx context.Context, req *models.CreateBlockedDateRequest) (*models.BlockedDateResponse, error)
	DeleteBlockedDate(ctx context.Context, ownerID, id int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
