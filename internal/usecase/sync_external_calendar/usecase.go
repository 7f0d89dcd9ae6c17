package sync_external_calendar

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/m04kA/SMC-StudioBooking/internal/domain"
	"github.com/m04kA/SMC-StudioBooking/internal/integrations/externalcalendar"
	"github.com/m04kA/SMC-StudioBooking/pkg/types"
)

// UseCase use case синхронизации занятости из внешнего календаря
//
// Интервалы владельца в диапазоне заменяются целиком. Они не становятся
// блокировками владельца, а только вычитаются из окон доступности.
type UseCase struct {
	client       CalendarClient
	busyRepo     BusyRepository
	txManager    TransactionManager
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger

	loc       *time.Location
	rangeDays int
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	client CalendarClient,
	busyRepo BusyRepository,
	txManager TransactionManager,
	m Metrics,
	loc *time.Location,
	rangeDays int,
	logger Logger,
) *UseCase {
	if loc == nil {
		loc = time.UTC
	}
	if rangeDays <= 0 {
		rangeDays = 60
	}
	return &UseCase{
		client:       client,
		busyRepo:     busyRepo,
		txManager:    txManager,
		metrics:      m,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
		loc:          loc,
		rangeDays:    rangeDays,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет синхронизацию для одного владельца
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация и диапазон
	if req.OwnerID <= 0 {
		return nil, fmt.Errorf("%w: ownerID must be positive", ErrInvalidInput)
	}

	from, to := uc.resolveRange(req)
	if to.Before(from) {
		return nil, fmt.Errorf("%w: to must not be before from", ErrInvalidInput)
	}

	uc.logger.Info("SyncExternalCalendar: owner=%d, from=%s, to=%s",
		req.OwnerID, from.Format(domain.DateFormat), to.Format(domain.DateFormat))

	// 2. Запрос занятости (вне транзакции)
	raw, err := uc.client.FetchBusy(ctx, req.OwnerID, from, to)
	if err != nil {
		switch {
		case errors.Is(err, externalcalendar.ErrCalendarNotConnected):
			uc.logger.Warn("SyncExternalCalendar: owner=%d has no connected calendar", req.OwnerID)
			return nil, ErrCalendarNotConnected
		default:
			uc.logger.Error("SyncExternalCalendar: failed to fetch busy intervals for owner=%d: %v", req.OwnerID, err)
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	}

	// 3. Преобразование в доменные интервалы
	syncedAt := uc.timeProvider.Now()
	intervals := make([]domain.BusyInterval, 0, len(raw))
	skipped := 0
	for _, r := range raw {
		b, err := uc.toDomain(req.OwnerID, r, syncedAt)
		if err != nil || b.Date.Before(from) || b.Date.After(to) {
			skipped++
			continue
		}
		intervals = append(intervals, b)
	}
	if skipped > 0 {
		uc.logger.Warn("SyncExternalCalendar: owner=%d, skipped %d invalid intervals", req.OwnerID, skipped)
	}

	// 4. Замена кэша одной транзакцией
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		return uc.busyRepo.ReplaceBusyIntervals(txCtx, req.OwnerID, from, to, intervals)
	})
	if err != nil {
		uc.logger.Error("SyncExternalCalendar: failed to store busy intervals for owner=%d: %v", req.OwnerID, err)
		return nil, fmt.Errorf("%w: failed to store busy intervals: %v", ErrInternal, err)
	}

	uc.metrics.SetExternalIntervals(strconv.FormatInt(req.OwnerID, 10), len(intervals))
	uc.logger.Info("SyncExternalCalendar: owner=%d, synced %d intervals", req.OwnerID, len(intervals))

	return &Response{From: from, To: to, Synced: len(intervals), Skipped: skipped}, nil
}

func (uc *UseCase) resolveRange(req *Request) (time.Time, time.Time) {
	from := req.From
	if from.IsZero() {
		from = uc.timeProvider.Now().In(uc.loc)
	}
	from = domain.DateOnly(from)

	to := req.To
	if to.IsZero() {
		to = from.AddDate(0, 0, uc.rangeDays)
	}
	return from, domain.DateOnly(to)
}

func (uc *UseCase) toDomain(ownerID int64, r externalcalendar.BusyInterval, syncedAt time.Time) (domain.BusyInterval, error) {
	date, err := time.ParseInLocation(domain.DateFormat, r.Date, uc.loc)
	if err != nil {
		return domain.BusyInterval{}, err
	}

	b := domain.BusyInterval{
		OwnerID:   ownerID,
		Date:      date,
		StartTime: types.TimeString(r.StartTime),
		EndTime:   types.TimeString(r.EndTime),
		Title:     r.Title,
		SyncedAt:  syncedAt,
	}
	if err := b.Validate(); err != nil {
		return domain.BusyInterval{}, err
	}
	return b, nil
}
