package app

import (
	"context"
	"time"

	syncCalendarUC "github.com/m04kA/SMC-StudioBooking/internal/usecase/sync_external_calendar"
)

// CalendarSyncer синхронизация внешнего календаря одного владельца
type CalendarSyncer interface {
	Execute(ctx context.Context, req *syncCalendarUC.Request) (*syncCalendarUC.Response, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Scheduler периодически обновляет кэш занятости из внешнего календаря
type Scheduler struct {
	syncer   CalendarSyncer
	owners   []int64
	interval time.Duration
	logger   Logger
	stopChan chan struct{}
}

// NewScheduler создаёт новый планировщик
func NewScheduler(syncer CalendarSyncer, owners []int64, interval time.Duration, logger Logger) *Scheduler {
	return &Scheduler{
		syncer:   syncer,
		owners:   owners,
		interval: interval,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

// Start блокируется до Stop или отмены ctx
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting external calendar sync: owners=%d, interval=%s", len(s.owners), s.interval)

	// Первый запуск сразу при старте
	s.syncAll(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.syncAll(ctx)
		case <-s.stopChan:
			s.logger.Info("External calendar sync stopped")
			return
		case <-ctx.Done():
			s.logger.Info("External calendar sync cancelled")
			return
		}
	}
}

// Stop останавливает фоновую синхронизацию
func (s *Scheduler) Stop() {
	close(s.stopChan)
}

// syncAll ошибка одного владельца не мешает остальным
func (s *Scheduler) syncAll(ctx context.Context) {
	for _, ownerID := range s.owners {
		if ctx.Err() != nil {
			return
		}

		resp, err := s.syncer.Execute(ctx, &syncCalendarUC.Request{OwnerID: ownerID})
		if err != nil {
			s.logger.Warn("External calendar sync failed for owner=%d: %v", ownerID, err)
			continue
		}
		s.logger.Info("External calendar synced for owner=%d: synced=%d, skipped=%d",
			ownerID, resp.Synced, resp.Skipped)
	}
}
