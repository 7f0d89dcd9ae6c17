package sessiontypes

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-StudioBooking/internal/domain"
	sessionTypeRepo "github.com/m04kA/SMC-StudioBooking/internal/infra/storage/sessiontype"
	"github.com/m04kA/SMC-StudioBooking/internal/service/sessiontypes/models"
)

// Service сервис каталога типов сессий
type Service struct {
	sessionTypeRepo SessionTypeRepository
	bookingCounter  BookingCounter
	logger          Logger
}

// NewService создает новый экземпляр сервиса типов сессий
func NewService(
	sessionTypeRepo SessionTypeRepository,
	bookingCounter BookingCounter,
	logger Logger,
) *Service {
	return &Service{
		sessionTypeRepo: sessionTypeRepo,
		bookingCounter:  bookingCounter,
		logger:          logger,
	}
}

// Create создает новый тип сессии владельца
func (s *Service) Create(ctx context.Context, req *models.CreateSessionTypeRequest) (*models.SessionTypeResponse, error) {
	s.logger.Info("Create: creating session type key=%s for owner=%d", req.Key, req.OwnerID)

	st := req.ToDomain()
	if err := st.Validate(); err != nil {
		s.logger.Warn("Create: validation failed for owner=%d: %v", req.OwnerID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	created, err := s.sessionTypeRepo.Create(ctx, st)
	if err != nil {
		return nil, s.mapRepoError("Create", req.OwnerID, err)
	}

	s.logger.Info("Create: successfully created session type id=%d for owner=%d", created.ID, req.OwnerID)
	return models.FromDomain(created), nil
}

// GetByID получает тип сессии владельца
func (s *Service) GetByID(ctx context.Context, ownerID, id int64) (*models.SessionTypeResponse, error) {
	st, err := s.get(ctx, "GetByID", ownerID, id)
	if err != nil {
		return nil, err
	}
	return models.FromDomain(st), nil
}

// List типы сессий владельца; без includeInactive только активные
func (s *Service) List(ctx context.Context, ownerID int64, includeInactive bool) (*models.SessionTypeListResponse, error) {
	s.logger.Info("List: fetching session types for owner=%d, includeInactive=%t", ownerID, includeInactive)

	list, err := s.sessionTypeRepo.List(ctx, sessionTypeRepo.ListFilter{
		OwnerID:    ownerID,
		OnlyActive: !includeInactive,
	})
	if err != nil {
		s.logger.Error("List: repository error for owner=%d: %v", ownerID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainList(list), nil
}

// Update частично обновляет тип сессии
// Длительность и буфер меняются только пока на тип не ссылается ни одно бронирование
func (s *Service) Update(ctx context.Context, id int64, req *models.UpdateSessionTypeRequest) (*models.SessionTypeResponse, error) {
	s.logger.Info("Update: updating session type id=%d for owner=%d", id, req.OwnerID)

	// 1. Текущее состояние
	current, err := s.get(ctx, "Update", req.OwnerID, id)
	if err != nil {
		return nil, err
	}

	// 2. Применяем изменения к копии и валидируем
	updated := *current
	req.ApplyTo(&updated)
	if err := updated.Validate(); err != nil {
		s.logger.Warn("Update: validation failed for session type id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// 3. Структурные поля заморожены бронированиями
	if !updated.StructurallyEqual(current) {
		count, err := s.bookingCounter.CountBySessionType(ctx, id)
		if err != nil {
			s.logger.Error("Update: failed to count bookings for session type id=%d: %v", id, err)
			return nil, fmt.Errorf("%w: Update - count bookings: %v", ErrInternal, err)
		}
		if count > 0 {
			s.logger.Warn("Update: session type id=%d is referenced by %d bookings", id, count)
			return nil, ErrStructuralChange
		}
	}

	// 4. Сохраняем
	saved, err := s.sessionTypeRepo.Update(ctx, &updated)
	if err != nil {
		return nil, s.mapRepoError("Update", req.OwnerID, err)
	}

	s.logger.Info("Update: successfully updated session type id=%d", id)
	return models.FromDomain(saved), nil
}

// Deactivate снимает тип сессии с публикации, существующие бронирования не затрагиваются
func (s *Service) Deactivate(ctx context.Context, ownerID, id int64) error {
	s.logger.Info("Deactivate: deactivating session type id=%d for owner=%d", id, ownerID)

	st, err := s.get(ctx, "Deactivate", ownerID, id)
	if err != nil {
		return err
	}
	if !st.IsActive {
		return nil
	}

	st.IsActive = false
	if _, err := s.sessionTypeRepo.Update(ctx, st); err != nil {
		return s.mapRepoError("Deactivate", ownerID, err)
	}

	s.logger.Info("Deactivate: successfully deactivated session type id=%d", id)
	return nil
}

func (s *Service) get(ctx context.Context, op string, ownerID, id int64) (*domain.SessionType, error) {
	st, err := s.sessionTypeRepo.GetByID(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, sessionTypeRepo.ErrSessionTypeNotFound) {
			s.logger.Warn("%s: session type id=%d not found for owner=%d", op, id, ownerID)
			return nil, ErrSessionTypeNotFound
		}
		s.logger.Error("%s: repository error for session type id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return st, nil
}

func (s *Service) mapRepoError(op string, ownerID int64, err error) error {
	switch {
	case errors.Is(err, sessionTypeRepo.ErrDuplicateKey):
		s.logger.Warn("%s: duplicate session type key for owner=%d", op, ownerID)
		return ErrDuplicateKey
	case errors.Is(err, sessionTypeRepo.ErrSessionTypeNotFound):
		return ErrSessionTypeNotFound
	default:
		s.logger.Error("%s: repository error for owner=%d: %v", op, ownerID, err)
		return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
}
