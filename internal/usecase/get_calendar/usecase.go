package get_calendar

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/m04kA/SMC-StudioBooking/internal/domain"
	sessionTypeRepo "github.com/m04kA/SMC-StudioBooking/internal/infra/storage/sessiontype"
	"github.com/m04kA/SMC-StudioBooking/internal/scheduling"
	"github.com/m04kA/SMC-StudioBooking/internal/usecase/snapshot"
)

// UseCase use case для построения календаря (день, неделя, месяц)
type UseCase struct {
	bookingRepo      BookingRepository
	sessionTypeRepo  SessionTypeRepository
	availabilityRepo AvailabilityRepository
	timeProvider     TimeProvider
	logger           Logger

	capacityFloor int
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	sessionTypeRepo SessionTypeRepository,
	availabilityRepo AvailabilityRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:      bookingRepo,
		sessionTypeRepo:  sessionTypeRepo,
		availabilityRepo: availabilityRepo,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
		capacityFloor:    domain.DefaultCapacityFloor,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// WithCapacityFloor вместимость открытого дня, когда тип сессии не указан
func (uc *UseCase) WithCapacityFloor(floor int) *UseCase {
	if floor > 0 {
		uc.capacityFloor = floor
	}
	return uc
}

// Execute выполняет use case построения календаря
// Бронирования, правила доступности и тип сессии читаются параллельно
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetCalendar: owner=%d, view=%s, start=%s", req.OwnerID, req.View, req.StartDate.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetCalendar: validation failed: %v", err)
		return nil, err
	}

	// 2. Диапазон дат представления
	start, end, grid := resolveRange(req)
	now := uc.timeProvider.Now()

	// 3. Параллельное чтение
	var (
		bookings    []*domain.Booking
		snap        *snapshot.Snapshot
		sessionType *domain.SessionType
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		list, err := uc.bookingRepo.List(gctx, domain.BookingsFilter{
			OwnerID:         req.OwnerID,
			StartDate:       &start,
			EndDate:         &end,
			IncludeInactive: true,
		})
		if err != nil {
			uc.logger.Error("GetCalendar: failed to get bookings: %v", err)
			return fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
		}
		bookings = list
		return nil
	})

	g.Go(func() error {
		s, err := snapshot.Load(gctx, uc.availabilityRepo, req.OwnerID, start, end)
		if err != nil {
			uc.logger.Error("GetCalendar: failed to load availability for owner=%d: %v", req.OwnerID, err)
			return fmt.Errorf("%w: failed to load availability: %v", ErrInternal, err)
		}
		snap = s
		return nil
	})

	if req.SessionTypeID != nil {
		g.Go(func() error {
			st, err := uc.sessionTypeRepo.GetByID(gctx, req.OwnerID, *req.SessionTypeID)
			if err != nil {
				if errors.Is(err, sessionTypeRepo.ErrSessionTypeNotFound) {
					uc.logger.Warn("GetCalendar: session type id=%d not found", *req.SessionTypeID)
					return ErrSessionTypeNotFound
				}
				uc.logger.Error("GetCalendar: failed to get session type id=%d: %v", *req.SessionTypeID, err)
				return fmt.Errorf("%w: failed to get session type: %v", ErrInternal, err)
			}
			sessionType = st
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	// 4. Сборка представления
	withOffsets := req.View != domain.ViewMonthly
	floor := uc.capacityFloor
	if req.CapacityFloor > 0 {
		floor = req.CapacityFloor
	}
	duration := 0
	if sessionType != nil {
		duration = sessionType.DurationMinutes
	}

	resp := &Response{
		View:           req.View,
		StartDate:      start,
		EndDate:        end,
		Bookings:       make([]BookingEntry, 0, len(bookings)),
		DailyStats:     make([]DayStat, 0),
		BlockedDates:   snap.BlockedDates,
		ExternalEvents: make([]ExternalEvent, 0, len(snap.Busy)),
	}

	counts := make(map[string]int)
	for _, b := range bookings {
		entry := BookingEntry{Booking: b}
		if withOffsets {
			offset := scheduling.Offset(b.StartTime, b.EndTime)
			entry.Offset = &offset
		}
		resp.Bookings = append(resp.Bookings, entry)

		if b.CountsTowardLoad() {
			counts[b.BookingDate.Format(domain.DateFormat)]++
		}
	}

	for _, busy := range snap.Busy {
		event := ExternalEvent{Interval: busy}
		if withOffsets {
			offset := scheduling.Offset(busy.StartTime, busy.EndTime)
			event.Offset = &offset
		}
		resp.ExternalEvents = append(resp.ExternalEvents, event)
	}

	for _, date := range scheduling.DatesBetween(start, end) {
		day := snap.Day(date)
		count := counts[date.Format(domain.DateFormat)]
		capacity := scheduling.DailyCapacity(day, duration, snap.Settings.MaxDaily, floor)
		resp.DailyStats = append(resp.DailyStats, DayStat{
			Date:    date,
			Blocked: day.Blocked() != nil,
			DailyStat: domain.DailyStat{
				Count:      count,
				Max:        capacity,
				Percentage: scheduling.Percentage(count, capacity),
			},
		})
	}

	if grid != nil {
		month := req.StartDate.Month()
		today := now.In(start.Location())
		resp.Grid = make([]domain.GridDay, 0, len(grid))
		for _, cell := range grid {
			resp.Grid = append(resp.Grid, domain.GridDay{
				Date:         cell,
				InMonth:      cell.Month() == month,
				IsToday:      domain.SameDay(cell, today),
				BookingCount: counts[cell.Format(domain.DateFormat)],
			})
		}
	}

	uc.logger.Info("GetCalendar: owner=%d, %s..%s, %d bookings, %d external events",
		req.OwnerID, start.Format(domain.DateFormat), end.Format(domain.DateFormat), len(resp.Bookings), len(resp.ExternalEvents))

	return resp, nil
}

// resolveRange границы представления; для monthly также даты сетки
func resolveRange(req *Request) (time.Time, time.Time, []time.Time) {
	start := domain.DateOnly(req.StartDate)

	switch req.View {
	case domain.ViewMonthly:
		grid := scheduling.MonthGrid(start.Year(), start.Month(), start.Location())
		return grid[0], grid[len(grid)-1], grid
	case domain.ViewWeekly:
		if req.EndDate == nil {
			start = scheduling.WeekStart(start)
			return start, start.AddDate(0, 0, 6), nil
		}
	default:
		if req.EndDate == nil {
			return start, start, nil
		}
	}

	return start, domain.DateOnly(*req.EndDate), nil
}
