package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-StudioBooking/internal/domain"
	sessionTypeRepo "github.com/m04kA/SMC-StudioBooking/internal/infra/storage/sessiontype"
	"github.com/m04kA/SMC-StudioBooking/internal/scheduling"
	"github.com/m04kA/SMC-StudioBooking/internal/usecase/snapshot"
	"github.com/m04kA/SMC-StudioBooking/pkg/metrics"
)

// UseCase use case для создания бронирования
// Единственный путь, которым бронирование попадает в календарь
type UseCase struct {
	bookingRepo      BookingRepository
	sessionTypeRepo  SessionTypeRepository
	availabilityRepo AvailabilityRepository
	guard            ReservationGuard
	publisher        EventPublisher
	metrics          Metrics
	timeProvider     TimeProvider
	logger           Logger

	suggestionsLimit int
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	sessionTypeRepo SessionTypeRepository,
	availabilityRepo AvailabilityRepository,
	guard ReservationGuard,
	publisher EventPublisher,
	m Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:      bookingRepo,
		sessionTypeRepo:  sessionTypeRepo,
		availabilityRepo: availabilityRepo,
		guard:            guard,
		publisher:        publisher,
		metrics:          m,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
		suggestionsLimit: domain.DefaultSuggestionLimit,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// WithSuggestionsLimit количество альтернативных слотов в ответе на конфликт
func (uc *UseCase) WithSuggestionsLimit(limit int) *UseCase {
	if limit >= 0 {
		uc.suggestionsLimit = limit
	}
	return uc
}

// Execute выполняет use case создания бронирования
//
// Проверка слота повторяется на актуальном состоянии под блокировкой дня:
// список слотов, полученный клиентом ранее, мог устареть.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: owner=%d, session_type=%d, date=%s, time=%s, source=%s",
		req.OwnerID, req.SessionTypeID, req.Date.Format(domain.DateFormat), req.StartTime, req.Source)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		uc.metrics.ObserveReservation(operationCreate, metrics.OutcomeRejected)
		return nil, err
	}

	date := domain.DateOnly(req.Date)
	source := req.Source
	if source == "" {
		source = domain.SourceManual
	}

	// 2. Получаем тип сессии
	sessionType, err := uc.sessionTypeRepo.GetByID(ctx, req.OwnerID, req.SessionTypeID)
	if err != nil {
		if errors.Is(err, sessionTypeRepo.ErrSessionTypeNotFound) {
			uc.logger.Warn("CreateBooking: session type id=%d not found for owner=%d", req.SessionTypeID, req.OwnerID)
			uc.metrics.ObserveReservation(operationCreate, metrics.OutcomeRejected)
			return nil, ErrSessionTypeNotFound
		}
		uc.logger.Error("CreateBooking: failed to get session type id=%d: %v", req.SessionTypeID, err)
		uc.metrics.ObserveReservation(operationCreate, metrics.OutcomeFailed)
		return nil, fmt.Errorf("%w: failed to get session type: %v", ErrInternal, err)
	}
	if !sessionType.IsActive || (req.PublicOnly && !sessionType.IsPublic) {
		uc.logger.Warn("CreateBooking: session type id=%d is not bookable (active=%t, public=%t)",
			sessionType.ID, sessionType.IsActive, sessionType.IsPublic)
		uc.metrics.ObserveReservation(operationCreate, metrics.OutcomeRejected)
		return nil, ErrSessionTypeNotFound
	}

	// 3. Время окончания
	endTime, err := scheduling.EndTime(req.StartTime, sessionType.DurationMinutes)
	if err != nil {
		uc.logger.Warn("CreateBooking: %v", err)
		uc.metrics.ObserveReservation(operationCreate, metrics.OutcomeRejected)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	var result *domain.Booking

	// 4. Проверка и запись под блокировкой дня
	err = uc.guard.Run(ctx, req.OwnerID, []time.Time{date}, func(txCtx context.Context) error {
		now := uc.timeProvider.Now()

		// 4.1. Правила доступности и бронирования дня (строки дня блокируются)
		in, err := uc.loadDay(txCtx, req.OwnerID, date, sessionType, now)
		if err != nil {
			return err
		}

		// 4.2. Повторная проверка слота на текущем состоянии
		if err := scheduling.CheckReservation(in, req.StartTime); err != nil {
			var conflict *domain.ConflictError
			if errors.As(err, &conflict) {
				conflict.Suggestions = scheduling.Suggest(in, req.StartTime, uc.suggestionsLimit)
			}
			return err
		}

		// 4.3. Создаем бронирование с денормализацией данных типа сессии
		id := uuid.New()
		booking := &domain.Booking{
			UUID:               id,
			BookingNumber:      domain.GenerateBookingNumber(date, id),
			OwnerID:            req.OwnerID,
			SessionTypeID:      sessionType.ID,
			BookingDate:        date,
			StartTime:          req.StartTime,
			EndTime:            endTime,
			DurationMinutes:    sessionType.DurationMinutes,
			BufferAfterMinutes: sessionType.BufferAfterMinutes,
			Timezone:           date.Location().String(),
			Status:             sessionType.InitialStatus(),
			Source:             source,
			SessionTypeName:    sessionType.Name,
			Contact:            req.Contact,
			SchoolName:         req.SchoolName,
			ClassName:          req.ClassName,
			StudentCount:       req.StudentCount,
			Location:           req.Location,
			Notes:              req.Notes,
			InternalNotes:      req.InternalNotes,
			StatusChangedAt:    &now,
		}
		if booking.Location == nil {
			booking.Location = sessionType.DefaultLocation
		}

		// 4.4. Сохраняем бронирование
		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, uc.reject(req, err)
	}

	uc.metrics.ObserveReservation(operationCreate, metrics.OutcomeCreated)
	uc.logger.Info("CreateBooking: successfully created booking id=%d, number=%s, status=%s",
		result.ID, result.BookingNumber, result.Status)

	// 5. Уведомление подписчиков уже после фиксации
	uc.publisher.Publish(ctx, domain.NewBookingEvent(domain.EventBookingCreated, result, uc.timeProvider.Now()))

	return &Response{Booking: result}, nil
}

// loadDay собирает входные данные проверки слота на дату
func (uc *UseCase) loadDay(
	ctx context.Context,
	ownerID int64,
	date time.Time,
	sessionType *domain.SessionType,
	now time.Time,
) (scheduling.Input, error) {
	snap, err := snapshot.Load(ctx, uc.availabilityRepo, ownerID, date, date)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to load availability for owner=%d: %v", ownerID, err)
		return scheduling.Input{}, fmt.Errorf("%w: failed to load availability: %v", ErrInternal, err)
	}

	bookings, err := uc.bookingRepo.List(ctx, domain.BookingsFilter{
		OwnerID:   ownerID,
		StartDate: &date,
		EndDate:   &date,
	})
	if err != nil {
		uc.logger.Error("CreateBooking: failed to get bookings: %v", err)
		return scheduling.Input{}, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	return scheduling.Input{
		Day:         snap.Day(date),
		SessionType: sessionType,
		Settings:    snap.Settings,
		Bookings:    bookings,
		Now:         now,
	}, nil
}

// reject классифицирует ошибку критической секции
func (uc *UseCase) reject(req *Request, err error) error {
	var conflict *domain.ConflictError
	switch {
	case errors.As(err, &conflict):
		uc.logger.Warn("CreateBooking: slot %s %s is not available: %v",
			req.Date.Format(domain.DateFormat), req.StartTime, err)
		uc.metrics.ObserveReservation(operationCreate, metrics.OutcomeConflict)
		return err
	case errors.Is(err, domain.ErrPolicyViolation):
		uc.logger.Warn("CreateBooking: policy violation: %v", err)
		uc.metrics.ObserveReservation(operationCreate, metrics.OutcomePolicy)
		return err
	case errors.Is(err, domain.ErrValidation):
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		uc.metrics.ObserveReservation(operationCreate, metrics.OutcomeRejected)
		return err
	case errors.Is(err, ErrInternal):
		uc.metrics.ObserveReservation(operationCreate, metrics.OutcomeFailed)
		return err
	default:
		uc.logger.Error("CreateBooking: reservation failed: %v", err)
		uc.metrics.ObserveReservation(operationCreate, metrics.OutcomeFailed)
		return fmt.Errorf("%w: reservation failed: %v", ErrInternal, err)
	}
}
