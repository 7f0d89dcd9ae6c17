package reservation

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/SMC-StudioBooking/internal/domain"
	"github.com/m04kA/SMC-StudioBooking/pkg/daylock"
	"github.com/m04kA/SMC-StudioBooking/pkg/txmanager"
)

// ErrLock не удалось захватить блокировку дня
var ErrLock = errors.New("reservation: failed to lock day")

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// DayLocker блокировка дня на уровне хранилища (advisory lock в postgres)
type DayLocker interface {
	LockDay(ctx context.Context, ownerID int64, date time.Time) error
}

// Guard критическая секция резервирования
//
// Все изменения бронирований владельца на дату выполняются под блокировкой
// (владелец, дата) внутри процесса и в хранилище, в сериализуемой транзакции.
// Несколько дат блокируются в возрастающем порядке.
type Guard struct {
	locker    *daylock.Locker
	txManager TransactionManager
	days      DayLocker
}

func NewGuard(locker *daylock.Locker, txManager TransactionManager, days DayLocker) *Guard {
	return &Guard{locker: locker, txManager: txManager, days: days}
}

// Run выполняет fn под блокировками дат dates
// Исчерпанные повторы сериализации возвращаются как *domain.ConflictError вида concurrent_update
func (g *Guard) Run(ctx context.Context, ownerID int64, dates []time.Time, fn func(ctx context.Context) error) error {
	dates = uniqueDates(dates)
	if len(dates) == 0 {
		return fmt.Errorf("%w: no dates to lock", domain.ErrValidation)
	}

	for _, date := range dates {
		unlock, err := g.locker.Lock(ctx, daylock.Key(ownerID, date))
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrLock, date.Format(domain.DateFormat), err)
		}
		defer unlock()
	}

	err := g.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		for _, date := range dates {
			if err := g.days.LockDay(txCtx, ownerID, date); err != nil {
				return fmt.Errorf("%w: %s: %v", ErrLock, date.Format(domain.DateFormat), err)
			}
		}
		return fn(txCtx)
	})

	if errors.Is(err, txmanager.ErrSerializationFailure) {
		return &domain.ConflictError{
			Date: dates[0],
			Conflicts: []domain.Conflict{{
				Kind:    domain.ConflictConcurrentUpdate,
				Message: "the schedule was changed concurrently, please retry",
			}},
		}
	}
	return err
}

func uniqueDates(dates []time.Time) []time.Time {
	result := make([]time.Time, 0, len(dates))
	seen := make(map[string]struct{}, len(dates))
	for _, d := range dates {
		day := domain.DateOnly(d)
		key := day.Format(domain.DateFormat)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, day)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Before(result[j]) })
	return result
}
