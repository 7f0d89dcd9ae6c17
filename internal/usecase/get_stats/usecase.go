package get_stats

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/m04kA/SMC-StudioBooking/internal/domain"
	sessionTypeRepo "github.com/m04kA/SMC-StudioBooking/internal/infra/storage/sessiontype"
	"github.com/m04kA/SMC-StudioBooking/internal/scheduling"
	"github.com/m04kA/SMC-StudioBooking/internal/usecase/snapshot"
	"github.com/m04kA/SMC-StudioBooking/pkg/ptr"
)

// UseCase use case для статистики бронирований за период
type UseCase struct {
	bookingRepo      BookingRepository
	sessionTypeRepo  SessionTypeRepository
	availabilityRepo AvailabilityRepository
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
		logger:           logger,
		capacityFloor:    domain.DefaultCapacityFloor,
	}
}

// WithCapacityFloor вместимость открытого дня для расчета загрузки
func (uc *UseCase) WithCapacityFloor(floor int) *UseCase {
	if floor > 0 {
		uc.capacityFloor = floor
	}
	return uc
}

// Execute выполняет use case расчета статистики
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetStats: owner=%d, start=%s, end=%s",
		req.OwnerID, req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetStats: validation failed: %v", err)
		return nil, err
	}

	start := domain.DateOnly(req.StartDate)
	end := domain.DateOnly(req.EndDate)

	// 2. Параллельное чтение
	var (
		bookings     []*domain.Booking
		snap         *snapshot.Snapshot
		sessionTypes []*domain.SessionType
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
			uc.logger.Error("GetStats: failed to get bookings: %v", err)
			return fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
		}
		bookings = list
		return nil
	})

	g.Go(func() error {
		s, err := snapshot.Load(gctx, uc.availabilityRepo, req.OwnerID, start, end)
		if err != nil {
			uc.logger.Error("GetStats: failed to load availability for owner=%d: %v", req.OwnerID, err)
			return fmt.Errorf("%w: failed to load availability: %v", ErrInternal, err)
		}
		snap = s
		return nil
	})

	g.Go(func() error {
		list, err := uc.sessionTypeRepo.List(gctx, sessionTypeRepo.ListFilter{OwnerID: req.OwnerID})
		if err != nil {
			uc.logger.Error("GetStats: failed to list session types: %v", err)
			return fmt.Errorf("%w: failed to list session types: %v", ErrInternal, err)
		}
		sessionTypes = list
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	// 3. Агрегация
	resp := &Response{
		StartDate:      start,
		EndDate:        end,
		Totals:         countTotals(bookings),
		BySessionType:  countBySessionType(bookings, sessionTypes),
		DailyBreakdown: make([]DayCount, 0),
	}

	used := make(map[string]int)
	for _, b := range bookings {
		if b.CountsTowardLoad() {
			used[b.BookingDate.Format(domain.DateFormat)]++
		}
	}

	for _, date := range scheduling.DatesBetween(start, end) {
		capacity := scheduling.DailyCapacity(snap.Day(date), 0, snap.Settings.MaxDaily, uc.capacityFloor)
		count := used[date.Format(domain.DateFormat)]

		resp.Capacity.TotalSlots += capacity
		resp.Capacity.UsedSlots += count

		day := DayCount{Date: date, Count: count, Percentage: scheduling.Percentage(count, capacity)}
		resp.DailyBreakdown = append(resp.DailyBreakdown, day)

		if count > 0 && (resp.BusiestDay == nil || count > resp.BusiestDay.Count) {
			resp.BusiestDay = ptr.Ptr(day)
		}
	}
	resp.Capacity.Percentage = scheduling.Percentage(resp.Capacity.UsedSlots, resp.Capacity.TotalSlots)

	total := resp.Totals.Bookings
	resp.Rates = Rates{
		NoShowRate:     scheduling.Percentage(resp.Totals.NoShow, total),
		CancelRate:     scheduling.Percentage(resp.Totals.Canceled, total),
		CompletionRate: scheduling.Percentage(resp.Totals.Completed, total),
	}

	uc.logger.Info("GetStats: owner=%d, %d bookings, capacity %d/%d",
		req.OwnerID, total, resp.Capacity.UsedSlots, resp.Capacity.TotalSlots)

	return resp, nil
}

func countTotals(bookings []*domain.Booking) Totals {
	var t Totals
	for _, b := range bookings {
		t.Bookings++
		switch b.Status {
		case domain.StatusPending:
			t.Pending++
		case domain.StatusConfirmed:
			t.Confirmed++
		case domain.StatusCompleted:
			t.Completed++
		case domain.StatusCanceled:
			t.Canceled++
		case domain.StatusNoShow:
			t.NoShow++
		}
		if b.StudentCount != nil && b.Status != domain.StatusCanceled {
			t.StudentsTotal += *b.StudentCount
		}
	}
	return t
}

// countBySessionType по убыванию количества, затем по имени
// Для удаленных из каталога типов используется имя из бронирования
func countBySessionType(bookings []*domain.Booking, sessionTypes []*domain.SessionType) []SessionTypeCount {
	byID := make(map[int64]*SessionTypeCount)
	for _, b := range bookings {
		c, ok := byID[b.SessionTypeID]
		if !ok {
			c = &SessionTypeCount{ID: b.SessionTypeID, Name: b.SessionTypeName}
			byID[b.SessionTypeID] = c
		}
		c.Count++
	}

	for _, st := range sessionTypes {
		if c, ok := byID[st.ID]; ok {
			c.Key = st.Key
			c.Name = st.Name
		}
	}

	result := make([]SessionTypeCount, 0, len(byID))
	for _, c := range byID {
		result = append(result, *c)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Name < result[j].Name
	})
	return result
}
