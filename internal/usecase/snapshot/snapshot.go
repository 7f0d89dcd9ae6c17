package snapshot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-StudioBooking/internal/domain"
	availabilityRepo "github.com/m04kA/SMC-StudioBooking/internal/infra/storage/availability"
	"github.com/m04kA/SMC-StudioBooking/internal/scheduling"
)

// AvailabilityRepository источник правил доступности
type AvailabilityRepository interface {
	GetPatterns(ctx context.Context, ownerID int64) ([]domain.AvailabilityPattern, error)
	GetSettings(ctx context.Context, ownerID int64) (*domain.AvailabilitySettings, error)
	ListOverrides(ctx context.Context, ownerID int64, from, to time.Time) ([]domain.AvailabilityOverride, error)
	ListBlockedDates(ctx context.Context, ownerID int64, from, to time.Time) ([]domain.BlockedDate, error)
	ListBusyIntervals(ctx context.Context, ownerID int64, from, to time.Time) ([]domain.BusyInterval, error)
}

// Snapshot правила доступности владельца на диапазон дат
type Snapshot struct {
	From         time.Time
	To           time.Time
	Settings     domain.AvailabilitySettings
	Patterns     []domain.AvailabilityPattern
	Overrides    []domain.AvailabilityOverride
	BlockedDates []domain.BlockedDate
	Busy         []domain.BusyInterval
}

// Load читает все правила, влияющие на даты [from, to]
// Отсутствие сохраненных настроек означает настройки по умолчанию
func Load(ctx context.Context, repo AvailabilityRepository, ownerID int64, from, to time.Time) (*Snapshot, error) {
	settings, err := repo.GetSettings(ctx, ownerID)
	if errors.Is(err, availabilityRepo.ErrSettingsNotFound) {
		defaults := domain.DefaultSettings(ownerID)
		settings = &defaults
	} else if err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}

	patterns, err := repo.GetPatterns(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("get patterns: %w", err)
	}

	overrides, err := repo.ListOverrides(ctx, ownerID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list overrides: %w", err)
	}

	blocked, err := repo.ListBlockedDates(ctx, ownerID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list blocked dates: %w", err)
	}

	busy, err := repo.ListBusyIntervals(ctx, ownerID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list busy intervals: %w", err)
	}

	return &Snapshot{
		From:         from,
		To:           to,
		Settings:     *settings,
		Patterns:     patterns,
		Overrides:    overrides,
		BlockedDates: blocked,
		Busy:         busy,
	}, nil
}

// Day правила на одну дату внутри диапазона
func (s *Snapshot) Day(date time.Time) scheduling.Day {
	day := scheduling.Day{
		Date:         domain.DateOnly(date),
		Patterns:     s.Patterns,
		BlockedDates: s.BlockedDates,
	}
	for _, o := range s.Overrides {
		if domain.SameDay(o.Date, date) {
			day.Overrides = append(day.Overrides, o)
		}
	}
	for _, b := range s.Busy {
		if domain.SameDay(b.Date, date) {
			day.BusyIntervals = append(day.BusyIntervals, b)
		}
	}
	return day
}

// BookingsOn активные и неактивные бронирования на дату из уже загруженного списка
func BookingsOn(bookings []*domain.Booking, date time.Time) []*domain.Booking {
	result := make([]*domain.Booking, 0)
	for _, b := range bookings {
		if domain.SameDay(b.BookingDate, date) {
			result = append(result, b)
		}
	}
	return result
}
