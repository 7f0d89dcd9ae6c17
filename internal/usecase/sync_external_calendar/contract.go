package sync_external_calendar

import (
	"context"
	"time"

	"github.com/m04kA/SMC-StudioBooking/internal/domain"
	"github.com/m04kA/SMC-StudioBooking/internal/integrations/externalcalendar"
)

// CalendarClient клиент внешнего календаря
type CalendarClient interface {
	FetchBusy(ctx context.Context, ownerID int64, from, to time.Time) ([]externalcalendar.BusyInterval, error)
}

// BusyRepository кэш занятых интервалов
type BusyRepository interface {
	ReplaceBusyIntervals(ctx context.Context, ownerID int64, from, to time.Time, intervals []domain.BusyInterval) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics размер кэша после синхронизации
type Metrics interface {
	SetExternalIntervals(owner string, count int)
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
