package get_stats

import (
	"context"

	"github.com/m04kA/SMC-StudioBooking/internal/domain"
	sessionTypeRepo "github.com/m04kA/SMC-StudioBooking/internal/infra/storage/sessiontype"
	"github.com/m04kA/SMC-StudioBooking/internal/usecase/snapshot"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
}

// SessionTypeRepository интерфейс репозитория типов сессий
type SessionTypeRepository interface {
	List(ctx context.Context, filter sessionTypeRepo.ListFilter) ([]*domain.SessionType, error)
}

// AvailabilityRepository интерфейс репозитория доступности
type AvailabilityRepository = snapshot.AvailabilityRepository

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
