package session_types

import (
	"context"

	"github.com/m04kA/SMC-StudioBooking/internal/service/sessiontypes/models"
)

type SessionTypeService interface {
	Create(ctx context.Context, req *models.CreateSessionTypeRequest) (*models.SessionTypeResponse, error)
	GetByID(ctx context.Context, ownerID, id int64) (*models.SessionTypeResponse, error)
	List(ctx context.Context, ownerID int64, includeInactive bool) (*models.SessionTypeListResponse, error)
	Update(ctx context.Context, id int64, req *models.UpdateSessionTypeRequest) (*models.SessionTypeResponse, error)
	Deactivate(ctx context.Context, ownerID, id int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
