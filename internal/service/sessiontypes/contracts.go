package sessiontypes

import (
	"context"

	"github.com/m04kA/SMC-StudioBooking/internal/domain"
	sessionTypeRepo "github.com/m04kA/SMC-StudioBooking/internal/infra/storage/sessiontype"
)

// SessionTypeRepository интерфейс репозитория типов сессий
type SessionTypeRepository interface {
	Create(ctx context.Context, st *domain.SessionType) (*domain.SessionType, error)
	Update(ctx context.Context, st *domain.SessionType) (*domain.SessionType, error)
	GetByID(ctx context.Context, ownerID, id int64) (*domain.SessionType, error)
	List(ctx context.Context, filter sessionTypeRepo.ListFilter) ([]*domain.SessionType, error)
}

// BookingCounter проверка, ссылаются ли бронирования на тип сессии
type BookingCounter interface {
	CountBySessionType(ctx context.Context, sessionTypeID int64) (int, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
