package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-StudioBooking/internal/domain"
	sessionTypeRepo "github.com/m04kA/SMC-StudioBooking/internal/infra/storage/sessiontype"
	"github.com/m04kA/SMC-StudioBooking/internal/scheduling"
	"github.com/m04kA/SMC-StudioBooking/internal/usecase/snapshot"
)

// UseCase use case для получения доступных слотов для бронирования
type UseCase struct {
	bookingRepo      BookingRepository
	sessionTypeRepo  SessionTypeRepository
	availabilityRepo AvailabilityRepository
	timeProvider     TimeProvider
	logger           Logger
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
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case получения доступных слотов
// Чистое чтение: повторный вызов без записей между ними дает тот же результат
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: owner=%d, session_type=%d, date=%s, public=%t",
		req.OwnerID, req.SessionTypeID, req.Date.Format(domain.DateFormat), req.PublicOnly)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	date := domain.DateOnly(req.Date)
	now := uc.timeProvider.Now()

	// 2. Получаем тип сессии
	sessionType, err := uc.sessionTypeRepo.GetByID(ctx, req.OwnerID, req.SessionTypeID)
	if err != nil {
		if errors.Is(err, sessionTypeRepo.ErrSessionTypeNotFound) {
			uc.logger.Warn("GetAvailableSlots: session type id=%d not found for owner=%d", req.SessionTypeID, req.OwnerID)
			return nil, ErrSessionTypeNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get session type id=%d: %v", req.SessionTypeID, err)
		return nil, fmt.Errorf("%w: failed to get session type: %v", ErrInternal, err)
	}
	if !sessionType.IsActive || (req.PublicOnly && !sessionType.IsPublic) {
		uc.logger.Warn("GetAvailableSlots: session type id=%d is not bookable (active=%t, public=%t)",
			sessionType.ID, sessionType.IsActive, sessionType.IsPublic)
		return nil, ErrSessionTypeNotFound
	}

	// 3. Правила доступности на дату
	snap, err := snapshot.Load(ctx, uc.availabilityRepo, req.OwnerID, date, date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to load availability for owner=%d: %v", req.OwnerID, err)
		return nil, fmt.Errorf("%w: failed to load availability: %v", ErrInternal, err)
	}

	// 4. Активные бронирования на дату
	bookings, err := uc.bookingRepo.List(ctx, domain.BookingsFilter{
		OwnerID:   req.OwnerID,
		StartDate: &date,
		EndDate:   &date,
	})
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	// 5. Генерируем слоты
	slots := scheduling.GenerateSlots(scheduling.Input{
		Day:         snap.Day(date),
		SessionType: sessionType,
		Settings:    snap.Settings,
		Bookings:    bookings,
		Now:         now,
	})

	uc.logger.Info("GetAvailableSlots: generated %d slots for owner=%d, session_type=%d, date=%s",
		len(slots), req.OwnerID, req.SessionTypeID, date.Format(domain.DateFormat))

	return &Response{
		Date:        date,
		SessionType: sessionType,
		Slots:       slots,
	}, nil
}
