package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-StudioBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-StudioBooking/internal/infra/storage/booking"
	"github.com/m04kA/SMC-StudioBooking/internal/service/bookings/models"
)

// Service сервис для работы с бронированиями
// Чтение, переходы статусов и экспорт в iCalendar
type Service struct {
	bookingRepo  BookingRepository
	guard        ReservationGuard
	publisher    EventPublisher
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	guard ReservationGuard,
	publisher EventPublisher,
	m Metrics,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		guard:        guard,
		publisher:    publisher,
		metrics:      m,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// GetByID получает бронирование владельца
// Чужое бронирование неотличимо от несуществующего
func (s *Service) GetByID(ctx context.Context, ownerID, id int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for owner=%d", id, ownerID)

	booking, err := s.getOwned(ctx, "GetByID", ownerID, id)
	if err != nil {
		return nil, err
	}
	return models.FromDomainBooking(booking), nil
}

// GetByUUID бронирование по внешнему идентификатору (публичная ссылка клиента)
func (s *Service) GetByUUID(ctx context.Context, id uuid.UUID) (*models.BookingResponse, error) {
	booking, err := s.getByUUID(ctx, "GetByUUID", id)
	if err != nil {
		return nil, err
	}
	return models.FromDomainBookingPublic(booking), nil
}

// List бронирования владельца с фильтрацией
//
// Примеры использования:
// - Все активные бронирования: List(ctx, &ListBookingsRequest{OwnerID: 1})
// - Бронирования за период: StartDate и EndDate
// - Только подтвержденные: Status = "confirmed"
// - Включая отмененные и завершенные: IncludeInactive = true
func (s *Service) List(ctx context.Context, req *models.ListBookingsRequest) (*models.BookingListResponse, error) {
	logMsg := fmt.Sprintf("List: fetching bookings for owner=%d", req.OwnerID)
	if req.StartDate != nil && req.EndDate != nil {
		logMsg += fmt.Sprintf(", period=%s to %s", req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat))
	}
	if req.Status != nil {
		logMsg += fmt.Sprintf(", status=%s", *req.Status)
	}
	if req.IncludeInactive {
		logMsg += ", includeInactive=true"
	}
	s.logger.Info(logMsg)

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("List: invalid filter for owner=%d: %v", req.OwnerID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if filter.StartDate != nil && filter.EndDate != nil && filter.EndDate.Before(*filter.StartDate) {
		return nil, fmt.Errorf("%w: endDate must not be before startDate", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error for owner=%d: %v", req.OwnerID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: successfully fetched %d bookings for owner=%d", len(bookings), req.OwnerID)
	return models.FromDomainBookingList(bookings), nil
}

// Confirm pending -> confirmed
func (s *Service) Confirm(ctx context.Context, ownerID, id int64) (*models.BookingResponse, error) {
	return s.transition(ctx, ownerID, id, domain.StatusConfirmed, nil)
}

// Cancel pending|confirmed -> canceled, время освобождается
func (s *Service) Cancel(ctx context.Context, ownerID, id int64, req *models.CancelBookingRequest) (*models.BookingResponse, error) {
	var reason *string
	if req != nil && req.Reason != nil {
		trimmed := strings.TrimSpace(*req.Reason)
		if len(trimmed) > domain.MaxReasonLength {
			return nil, fmt.Errorf("%w: reason must be at most %d characters", ErrInvalidInput, domain.MaxReasonLength)
		}
		if trimmed != "" {
			reason = &trimmed
		}
	}
	return s.transition(ctx, ownerID, id, domain.StatusCanceled, reason)
}

// Complete confirmed -> completed
func (s *Service) Complete(ctx context.Context, ownerID, id int64) (*models.BookingResponse, error) {
	return s.transition(ctx, ownerID, id, domain.StatusCompleted, nil)
}

// MarkNoShow confirmed -> no_show
func (s *Service) MarkNoShow(ctx context.Context, ownerID, id int64) (*models.BookingResponse, error) {
	return s.transition(ctx, ownerID, id, domain.StatusNoShow, nil)
}

// transition единая точка смены статуса
// Статус перечитывается под блокировкой дня бронирования, событие публикуется после фиксации
func (s *Service) transition(ctx context.Context, ownerID, id int64, next domain.BookingStatus, reason *string) (*models.BookingResponse, error) {
	op := "Transition(" + string(next) + ")"
	s.logger.Info("%s: booking id=%d, owner=%d", op, id, ownerID)

	// 1. Бронирование и его дата для блокировки
	booking, err := s.getOwned(ctx, op, ownerID, id)
	if err != nil {
		return nil, err
	}

	// 2. Проверка и сохранение под блокировкой дня
	var from domain.BookingStatus
	err = s.guard.Run(ctx, ownerID, []time.Time{booking.BookingDate}, func(txCtx context.Context) error {
		current, err := s.getOwned(txCtx, op, ownerID, id)
		if err != nil {
			return err
		}
		if !current.CanTransitionTo(next) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Status, next)
		}

		now := s.timeProvider.Now()
		from = current.Status
		current.Status = next
		current.StatusChangedAt = &now
		switch next {
		case domain.StatusCanceled:
			current.CanceledAt = &now
			current.CancellationReason = reason
		case domain.StatusCompleted:
			current.CompletedAt = &now
		}

		if err := s.bookingRepo.UpdateStatus(txCtx, current); err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
		}
		booking = current
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidState), errors.Is(err, domain.ErrNotFound):
			s.logger.Warn("%s: booking id=%d rejected: %v", op, id, err)
			return nil, err
		case errors.Is(err, ErrInternal):
			s.logger.Error("%s: booking id=%d failed: %v", op, id, err)
			return nil, err
		case errors.Is(err, domain.ErrConflict):
			s.logger.Warn("%s: booking id=%d concurrent update: %v", op, id, err)
			return nil, err
		default:
			s.logger.Error("%s: booking id=%d failed: %v", op, id, err)
			return nil, fmt.Errorf("%w: %s: %v", ErrInternal, op, err)
		}
	}

	// 3. Побочные эффекты после фиксации
	s.metrics.ObserveTransition(string(from), string(next))
	s.publisher.Publish(ctx, domain.NewBookingEvent(domain.EventForStatus(next), booking, s.timeProvider.Now()))

	s.logger.Info("%s: booking id=%d moved %s -> %s", op, id, from, next)
	return models.FromDomainBooking(booking), nil
}

func (s *Service) getOwned(ctx context.Context, op string, ownerID, id int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%d not found", op, id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	if booking.OwnerID != ownerID {
		s.logger.Warn("%s: booking id=%d does not belong to owner=%d", op, id, ownerID)
		return nil, ErrBookingNotFound
	}
	return booking, nil
}

func (s *Service) getByUUID(ctx context.Context, op string, id uuid.UUID) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByUUID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking uuid=%s not found", op, id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking uuid=%s: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return booking, nil
}
