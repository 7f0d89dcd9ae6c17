package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-StudioBooking/internal/domain"
	"github.com/m04kA/SMC-StudioBooking/internal/usecase/snapshot"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
}

// SessionTypeRepository интерфейс репозитория типов сессий
type SessionTypeRepository interface {
	GetByID(ctx context.Context, ownerID, id int64) (*domain.SessionType, error)
}

// AvailabilityRepository интерфейс репозитория доступности
type AvailabilityRepository = snapshot.AvailabilityRepository

// ReservationGuard критическая секция резервирования дня
type ReservationGuard interface {
	Run(ctx context.Context, ownerID int64, dates []time.Time, fn func(ctx context.Context) error) error
}

// EventPublisher публикация событий после фиксации
type EventPublisher interface {
	Publish(ctx context.Context, event domain.BookingEvent)
}

// Metrics бизнес-метрики резервирования
type Metrics interface {
	ObserveReservation(operation, outcome string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
