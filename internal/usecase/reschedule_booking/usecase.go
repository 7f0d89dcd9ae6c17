package reschedule_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-StudioBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-StudioBooking/internal/infra/storage/booking"
	sessionTypeRepo "github.com/m04kA/SMC-StudioBooking/internal/infra/storage/sessiontype"
	"github.com/m04kA/SMC-StudioBooking/internal/scheduling"
	"github.com/m04kA/SMC-StudioBooking/internal/usecase/snapshot"
	"github.com/m04kA/SMC-StudioBooking/pkg/metrics"
)

// UseCase use case для переноса бронирования на другую дату или время
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

// Execute выполняет use case переноса бронирования
//
// Новый слот проверяется так же, как при создании, без учета самого бронирования.
// Под блокировкой находятся и старая, и новая дата. При отказе бронирование не меняется.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RescheduleBooking: owner=%d, booking=%d, new date=%s, new time=%s",
		req.OwnerID, req.BookingID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("RescheduleBooking: validation failed: %v", err)
		uc.metrics.ObserveReservation(operationReschedule, metrics.OutcomeRejected)
		return nil, err
	}

	newDate := domain.DateOnly(req.Date)

	// 2. Текущее бронирование: нужна его дата для блокировки
	current, err := uc.getBooking(ctx, req)
	if err != nil {
		return nil, uc.reject(req, err)
	}

	// 3. Тип сессии определяет длительность и паузу
	sessionType, err := uc.sessionTypeRepo.GetByID(ctx, req.OwnerID, current.SessionTypeID)
	if err != nil {
		if errors.Is(err, sessionTypeRepo.ErrSessionTypeNotFound) {
			uc.logger.Error("RescheduleBooking: session type id=%d of booking id=%d is missing", current.SessionTypeID, current.ID)
		} else {
			uc.logger.Error("RescheduleBooking: failed to get session type id=%d: %v", current.SessionTypeID, err)
		}
		uc.metrics.ObserveReservation(operationReschedule, metrics.OutcomeFailed)
		return nil, fmt.Errorf("%w: failed to get session type: %v", ErrInternal, err)
	}

	endTime, err := scheduling.EndTime(req.StartTime, sessionType.DurationMinutes)
	if err != nil {
		uc.logger.Warn("RescheduleBooking: %v", err)
		uc.metrics.ObserveReservation(operationReschedule, metrics.OutcomeRejected)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	var result *domain.Booking
	oldDate := current.BookingDate

	// 4. Проверка и перенос под блокировкой обеих дат
	err = uc.guard.Run(ctx, req.OwnerID, []time.Time{oldDate, newDate}, func(txCtx context.Context) error {
		now := uc.timeProvider.Now()

		// 4.1. Перечитываем бронирование внутри транзакции
		booking, err := uc.getBooking(txCtx, req)
		if err != nil {
			return err
		}

		// Дату перенесли между чтением и блокировкой: старая дата под замком уже не та
		if !domain.SameDay(booking.BookingDate, oldDate) {
			uc.logger.Warn("RescheduleBooking: booking id=%d moved from %s to %s concurrently", booking.ID,
				oldDate.Format(domain.DateFormat), booking.BookingDate.Format(domain.DateFormat))
			bookingID, number := booking.ID, booking.BookingNumber
			return &domain.ConflictError{
				Date: newDate,
				Conflicts: []domain.Conflict{{
					Kind:          domain.ConflictConcurrentUpdate,
					BookingID:     &bookingID,
					BookingNumber: &number,
					StartTime:     booking.StartTime,
					EndTime:       booking.EndTime,
					Message:       "the booking was rescheduled concurrently, please retry",
				}},
			}
		}

		// 4.2. Правила и бронирования новой даты
		snap, err := snapshot.Load(txCtx, uc.availabilityRepo, req.OwnerID, newDate, newDate)
		if err != nil {
			uc.logger.Error("RescheduleBooking: failed to load availability for owner=%d: %v", req.OwnerID, err)
			return fmt.Errorf("%w: failed to load availability: %v", ErrInternal, err)
		}

		bookings, err := uc.bookingRepo.List(txCtx, domain.BookingsFilter{
			OwnerID:   req.OwnerID,
			StartDate: &newDate,
			EndDate:   &newDate,
		})
		if err != nil {
			uc.logger.Error("RescheduleBooking: failed to get bookings: %v", err)
			return fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
		}

		in := scheduling.Input{
			Day:              snap.Day(newDate),
			SessionType:      sessionType,
			Settings:         snap.Settings,
			Bookings:         bookings,
			Now:              now,
			ExcludeBookingID: booking.ID,
		}

		// 4.3. Проверка нового слота как для нового бронирования
		if err := scheduling.CheckReservation(in, req.StartTime); err != nil {
			var conflict *domain.ConflictError
			if errors.As(err, &conflict) {
				conflict.Suggestions = scheduling.Suggest(in, req.StartTime, uc.suggestionsLimit)
			}
			return err
		}

		// 4.4. Сохраняем новую дату и время
		booking.BookingDate = newDate
		booking.StartTime = req.StartTime
		booking.EndTime = endTime
		if err := uc.bookingRepo.Reschedule(txCtx, booking); err != nil {
			uc.logger.Error("RescheduleBooking: failed to reschedule booking id=%d: %v", booking.ID, err)
			return fmt.Errorf("%w: failed to reschedule booking: %v", ErrInternal, err)
		}

		result = booking
		return nil
	})

	if err != nil {
		return nil, uc.reject(req, err)
	}

	uc.metrics.ObserveReservation(operationReschedule, metrics.OutcomeRescheduled)
	uc.logger.Info("RescheduleBooking: booking id=%d moved from %s to %s %s",
		result.ID, oldDate.Format(domain.DateFormat), newDate.Format(domain.DateFormat), result.StartTime)

	uc.publisher.Publish(ctx, domain.NewBookingEvent(domain.EventBookingRescheduled, result, uc.timeProvider.Now()))

	return &Response{Booking: result}, nil
}

// getBooking бронирование владельца, которое еще можно перенести
func (uc *UseCase) getBooking(ctx context.Context, req *Request) (*domain.Booking, error) {
	booking, err := uc.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Warn("RescheduleBooking: booking id=%d not found", req.BookingID)
			return nil, ErrBookingNotFound
		}
		uc.logger.Error("RescheduleBooking: failed to get booking id=%d: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
	}

	if booking.OwnerID != req.OwnerID {
		uc.logger.Warn("RescheduleBooking: booking id=%d belongs to owner=%d, not %d", booking.ID, booking.OwnerID, req.OwnerID)
		return nil, ErrBookingNotFound
	}

	if !booking.CanBeRescheduled() {
		uc.logger.Warn("RescheduleBooking: booking id=%d has status %s", booking.ID, booking.Status)
		return nil, ErrNotReschedulable
	}

	return booking, nil
}

// reject классифицирует ошибку критической секции
func (uc *UseCase) reject(req *Request, err error) error {
	var conflict *domain.ConflictError
	switch {
	case errors.As(err, &conflict):
		uc.logger.Warn("RescheduleBooking: slot %s %s is not available: %v",
			req.Date.Format(domain.DateFormat), req.StartTime, err)
		uc.metrics.ObserveReservation(operationReschedule, metrics.OutcomeConflict)
		return err
	case errors.Is(err, domain.ErrPolicyViolation):
		uc.logger.Warn("RescheduleBooking: policy violation: %v", err)
		uc.metrics.ObserveReservation(operationReschedule, metrics.OutcomePolicy)
		return err
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrInvalidState):
		uc.metrics.ObserveReservation(operationReschedule, metrics.OutcomeRejected)
		return err
	case errors.Is(err, ErrInternal):
		uc.metrics.ObserveReservation(operationReschedule, metrics.OutcomeFailed)
		return err
	default:
		uc.logger.Error("RescheduleBooking: reservation failed: %v", err)
		uc.metrics.ObserveReservation(operationReschedule, metrics.OutcomeFailed)
		return fmt.Errorf("%w: reservation failed: %v", ErrInternal, err)
	}
}
