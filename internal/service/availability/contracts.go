package availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-StudioBooking/internal/domain"
)

// AvailabilityRepository интерфейс репозитория правил доступности
type AvailabilityRepository interface {
	GetPatterns(ctx context.Context, ownerID int64) ([]domain.AvailabilityPattern, error)
	ReplacePatterns(ctx context.Context, ownerID int64, patterns []domain.AvailabilityPattern) ([]domain.AvailabilityPattern, error)
	GetSettings(ctx context.Context, ownerID int64) (*domain.AvailabilitySettings, error)
	UpsertSettings(ctx context.Context, settings *domain.AvailabilitySettings) (*domain.AvailabilitySettings, error)
	ListOverrides(ctx context.Context, ownerID int64, from, to time.Time) ([]domain.AvailabilityOverride, error)
	CreateOverride(ctx context.Context, o *domain.AvailabilityOverride) (*domain.AvailabilityOverride, error)
	DeleteOverride(ctx context.Context, ownerID, id int64) error
	ListBlockedDates(ctx context.Context, ownerID int64, from, to time.Time) ([]domain.BlockedDate, error)
	CreateBlockedDate(ctx context.Context, b *domain.BlockedDate) (*domain.BlockedDate, error)
	DeleteBlockedDate(ctx context.Context, ownerID, id int64) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
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
