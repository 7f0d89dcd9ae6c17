package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-StudioBooking/internal/domain"
	availabilityRepo "github.com/m04kA/SMC-StudioBooking/internal/infra/storage/availability"
	"github.com/m04kA/SMC-StudioBooking/internal/service/availability/models"
)

// Service сервис правил доступности владельца
type Service struct {
	availabilityRepo AvailabilityRepository
	txManager        TransactionManager
	timeProvider     TimeProvider
	logger           Logger

	loc *time.Location
}

// NewService создает новый экземпляр сервиса доступности
func NewService(
	availabilityRepo AvailabilityRepository,
	txManager TransactionManager,
	loc *time.Location,
	logger Logger,
) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		availabilityRepo: availabilityRepo,
		txManager:        txManager,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
		loc:              loc,
	}
}

// WithTimeProvider подменяет источник времени
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// GetAvailability правила владельца: недельное расписание, настройки,
// а также overrides и блокировки, начиная с сегодняшнего дня
func (s *Service) GetAvailability(ctx context.Context, ownerID int64) (*models.AvailabilityResponse, error) {
	s.logger.Info("GetAvailability: fetching availability for owner=%d", ownerID)

	from := domain.DateOnly(s.timeProvider.Now().In(s.loc))
	to := from.AddDate(0, 0, domain.MaxAdvanceDaysLimit)

	var result domain.Availability
	err := s.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		patterns, err := s.availabilityRepo.GetPatterns(txCtx, ownerID)
		if err != nil {
			return fmt.Errorf("get patterns: %w", err)
		}
		settings, err := s.getSettings(txCtx, ownerID)
		if err != nil {
			return err
		}
		overrides, err := s.availabilityRepo.ListOverrides(txCtx, ownerID, from, to)
		if err != nil {
			return fmt.Errorf("list overrides: %w", err)
		}
		blocked, err := s.availabilityRepo.ListBlockedDates(txCtx, ownerID, from, to)
		if err != nil {
			return fmt.Errorf("list blocked dates: %w", err)
		}

		result = domain.Availability{
			Patterns:     patterns,
			Overrides:    overrides,
			BlockedDates: blocked,
			Settings:     *settings,
		}
		return nil
	})
	if err != nil {
		s.logger.Error("GetAvailability: failed for owner=%d: %v", ownerID, err)
		return nil, fmt.Errorf("%w: GetAvailability: %v", ErrInternal, err)
	}

	return models.FromDomainAvailability(&result), nil
}

// UpdatePatterns заменяет недельное расписание целиком
// Активные окна одного дня недели не должны пересекаться
func (s *Service) UpdatePatterns(ctx context.Context, req *models.UpdatePatternsRequest) ([]models.PatternDTO, error) {
	s.logger.Info("UpdatePatterns: replacing %d patterns for owner=%d", len(req.Patterns), req.OwnerID)

	patterns := req.ToDomain()
	if err := domain.ValidatePatterns(patterns); err != nil {
		s.logger.Warn("UpdatePatterns: validation failed for owner=%d: %v", req.OwnerID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	var saved []domain.AvailabilityPattern
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		var err error
		saved, err = s.availabilityRepo.ReplacePatterns(txCtx, req.OwnerID, patterns)
		return err
	})
	if err != nil {
		s.logger.Error("UpdatePatterns: repository error for owner=%d: %v", req.OwnerID, err)
		return nil, fmt.Errorf("%w: UpdatePatterns - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdatePatterns: successfully saved %d patterns for owner=%d", len(saved), req.OwnerID)
	return models.FromDomainPatterns(saved), nil
}

// UpdateSettings сохраняет глобальные настройки владельца
func (s *Service) UpdateSettings(ctx context.Context, req *models.UpdateSettingsRequest) (*models.SettingsDTO, error) {
	s.logger.Info("UpdateSettings: owner=%d, buffer=%d, maxDaily=%d, notice=%dh, advance=%dd",
		req.OwnerID, req.BufferMinutes, req.MaxDaily, req.MinNoticeHours, req.MaxAdvanceDays)

	settings := req.ToDomain()
	if err := settings.Validate(); err != nil {
		s.logger.Warn("UpdateSettings: validation failed for owner=%d: %v", req.OwnerID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	saved, err := s.availabilityRepo.UpsertSettings(ctx, settings)
	if err != nil {
		s.logger.Error("UpdateSettings: repository error for owner=%d: %v", req.OwnerID, err)
		return nil, fmt.Errorf("%w: UpdateSettings - repository error: %v", ErrInternal, err)
	}

	dto := models.FromDomainSettings(*saved)
	return &dto, nil
}

// CreateOverride задает доступность на дату вместо недельного расписания
func (s *Service) CreateOverride(ctx context.Context, req *models.CreateOverrideRequest) (*models.OverrideResponse, error) {
	s.logger.Info("CreateOverride: owner=%d, date=%s, %s-%s",
		req.OwnerID, req.Date.Format(domain.DateFormat), req.StartTime, req.EndTime)

	o := &domain.AvailabilityOverride{
		OwnerID:   req.OwnerID,
		Date:      domain.DateOnly(req.Date.In(s.loc)),
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Note:      req.Note,
	}
	if err := o.Validate(); err != nil {
		s.logger.Warn("CreateOverride: validation failed for owner=%d: %v", req.OwnerID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// Окна одной даты не должны пересекаться, как и окна шаблона
	var created *domain.AvailabilityOverride
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		existing, err := s.availabilityRepo.ListOverrides(txCtx, req.OwnerID, o.Date, o.Date)
		if err != nil {
			return fmt.Errorf("list overrides: %w", err)
		}
		for _, e := range existing {
			if o.StartTime.Minutes() < e.EndTime.Minutes() && e.StartTime.Minutes() < o.EndTime.Minutes() {
				return fmt.Errorf("%w: override overlaps %s-%s on %s",
					ErrInvalidInput, e.StartTime, e.EndTime, o.Date.Format(domain.DateFormat))
			}
		}
		created, err = s.availabilityRepo.CreateOverride(txCtx, o)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			s.logger.Warn("CreateOverride: %v", err)
			return nil, err
		}
		s.logger.Error("CreateOverride: repository error for owner=%d: %v", req.OwnerID, err)
		return nil, fmt.Errorf("%w: CreateOverride - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateOverride: successfully created override id=%d", created.ID)
	return models.FromDomainOverride(created), nil
}

// DeleteOverride удаляет override владельца
func (s *Service) DeleteOverride(ctx context.Context, ownerID, id int64) error {
	s.logger.Info("DeleteOverride: deleting override id=%d for owner=%d", id, ownerID)

	if err := s.availabilityRepo.DeleteOverride(ctx, ownerID, id); err != nil {
		if errors.Is(err, availabilityRepo.ErrOverrideNotFound) {
			s.logger.Warn("DeleteOverride: override id=%d not found for owner=%d", id, ownerID)
			return ErrOverrideNotFound
		}
		s.logger.Error("DeleteOverride: repository error for override id=%d: %v", id, err)
		return fmt.Errorf("%w: DeleteOverride - repository error: %v", ErrInternal, err)
	}
	return nil
}

// CreateBlockedDate закрывает диапазон дат (включительно)
func (s *Service) CreateBlockedDate(ctx context.Context, req *models.CreateBlockedDateRequest) (*models.BlockedDateResponse, error) {
	s.logger.Info("CreateBlockedDate: owner=%d, %s..%s",
		req.OwnerID, req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat))

	b := &domain.BlockedDate{
		OwnerID:   req.OwnerID,
		StartDate: domain.DateOnly(req.StartDate.In(s.loc)),
		EndDate:   domain.DateOnly(req.EndDate.In(s.loc)),
		Reason:    req.Reason,
		Source:    req.Source,
	}
	if err := b.Validate(); err != nil {
		s.logger.Warn("CreateBlockedDate: validation failed for owner=%d: %v", req.OwnerID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	created, err := s.availabilityRepo.CreateBlockedDate(ctx, b)
	if err != nil {
		s.logger.Error("CreateBlockedDate: repository error for owner=%d: %v", req.OwnerID, err)
		return nil, fmt.Errorf("%w: CreateBlockedDate - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateBlockedDate: successfully created blocked date id=%d", created.ID)
	return models.FromDomainBlockedDate(created), nil
}

// DeleteBlockedDate удаляет блокировку владельца
func (s *Service) DeleteBlockedDate(ctx context.Context, ownerID, id int64) error {
	s.logger.Info("DeleteBlockedDate: deleting blocked date id=%d for owner=%d", id, ownerID)

	if err := s.availabilityRepo.DeleteBlockedDate(ctx, ownerID, id); err != nil {
		if errors.Is(err, availabilityRepo.ErrBlockedDateNotFound) {
			s.logger.Warn("DeleteBlockedDate: blocked date id=%d not found for owner=%d", id, ownerID)
			return ErrBlockedDateNotFound
		}
		s.logger.Error("DeleteBlockedDate: repository error for blocked date id=%d: %v", id, err)
		return fmt.Errorf("%w: DeleteBlockedDate - repository error: %v", ErrInternal, err)
	}
	return nil
}

// getSettings отсутствие сохраненных настроек означает значения по умолчанию
func (s *Service) getSettings(ctx context.Context, ownerID int64) (*domain.AvailabilitySettings, error) {
	settings, err := s.availabilityRepo.GetSettings(ctx, ownerID)
	if errors.Is(err, availabilityRepo.ErrSettingsNotFound) {
		defaults := domain.DefaultSettings(ownerID)
		return &defaults, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}
	return settings, nil
}
