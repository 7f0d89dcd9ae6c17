package models

import (
	"time"

	"github.com/m04kA/SMC-StudioBooking/internal/domain"
	"github.com/m04kA/SMC-StudioBooking/pkg/types"
)

// Request модели

// PatternDTO одно недельное окно; weekday 0 = воскресенье
type PatternDTO struct {
	ID        int64  `json:"id,omitempty"`
	Weekday   int    `json:"weekday" validate:"gte=0,lte=6"`
	StartTime string `json:"startTime" validate:"required"`
	EndTime   string `json:"endTime" validate:"required"`
	IsActive  *bool  `json:"isActive,omitempty"` // По умолчанию true
}

// UpdatePatternsRequest полная замена недельного расписания
type UpdatePatternsRequest struct {
	OwnerID  int64        `json:"-"`
	Patterns []PatternDTO `json:"patterns" validate:"dive"`
}

// SettingsDTO глобальные настройки владельца
type SettingsDTO struct {
	BufferMinutes  int        `json:"bufferMinutes" validate:"gte=0"`
	MaxDaily       int        `json:"maxDaily" validate:"gte=0"`
	MinNoticeHours int        `json:"minNoticeHours" validate:"gte=0"`
	MaxAdvanceDays int        `json:"maxAdvanceDays" validate:"gte=0"`
	UpdatedAt      *time.Time `json:"updatedAt,omitempty"`
}

// UpdateSettingsRequest запрос на сохранение настроек
type UpdateSettingsRequest struct {
	OwnerID int64 `json:"-"`
	SettingsDTO
}

// CreateOverrideRequest доступность на конкретную дату
type CreateOverrideRequest struct {
	OwnerID   int64
	Date      time.Time
	StartTime types.TimeString
	EndTime   types.TimeString
	Note      *string
}

// CreateBlockedDateRequest закрытие диапазона дат
type CreateBlockedDateRequest struct {
	OwnerID   int64
	StartDate time.Time
	EndDate   time.Time
	Reason    *string
	Source    domain.BlockedDateSource
}

// Response модели

// OverrideResponse override в ответе
type OverrideResponse struct {
	ID        int64   `json:"id"`
	Date      string  `json:"date"`
	StartTime string  `json:"startTime"`
	EndTime   string  `json:"endTime"`
	Note      *string `json:"note,omitempty"`
}

// BlockedDateResponse блокировка в ответе
type BlockedDateResponse struct {
	ID        int64   `json:"id"`
	StartDate string  `json:"startDate"`
	EndDate   string  `json:"endDate"`
	Reason    *string `json:"reason,omitempty"`
	Source    string  `json:"source"`
}

// AvailabilityResponse полный набор правил владельца
type AvailabilityResponse struct {
	Patterns     []PatternDTO          `json:"patterns"`
	Overrides    []OverrideResponse    `json:"overrides"`
	BlockedDates []BlockedDateResponse `json:"blockedDates"`
	Settings     SettingsDTO           `json:"settings"`
}

// Методы конвертации

// ToDomain конвертирует окна в domain модели
func (r *UpdatePatternsRequest) ToDomain() []domain.AvailabilityPattern {
	patterns := make([]domain.AvailabilityPattern, 0, len(r.Patterns))
	for _, p := range r.Patterns {
		active := true
		if p.IsActive != nil {
			active = *p.IsActive
		}
		patterns = append(patterns, domain.AvailabilityPattern{
			OwnerID:   r.OwnerID,
			Weekday:   p.Weekday,
			StartTime: types.TimeString(p.StartTime),
			EndTime:   types.TimeString(p.EndTime),
			IsActive:  active,
		})
	}
	return patterns
}

// ToDomain конвертирует настройки в domain модель
func (r *UpdateSettingsRequest) ToDomain() *domain.AvailabilitySettings {
	return &domain.AvailabilitySettings{
		OwnerID:        r.OwnerID,
		BufferMinutes:  r.BufferMinutes,
		MaxDaily:       r.MaxDaily,
		MinNoticeHours: r.MinNoticeHours,
		MaxAdvanceDays: r.MaxAdvanceDays,
	}
}

// FromDomainPatterns конвертирует окна в DTO
func FromDomainPatterns(patterns []domain.AvailabilityPattern) []PatternDTO {
	result := make([]PatternDTO, 0, len(patterns))
	for _, p := range patterns {
		active := p.IsActive
		result = append(result, PatternDTO{
			ID:        p.ID,
			Weekday:   p.Weekday,
			StartTime: p.StartTime.String(),
			EndTime:   p.EndTime.String(),
			IsActive:  &active,
		})
	}
	return result
}

// FromDomainSettings конвертирует настройки в DTO
func FromDomainSettings(s domain.AvailabilitySettings) SettingsDTO {
	dto := SettingsDTO{
		BufferMinutes:  s.BufferMinutes,
		MaxDaily:       s.MaxDaily,
		MinNoticeHours: s.MinNoticeHours,
		MaxAdvanceDays: s.MaxAdvanceDays,
	}
	if !s.UpdatedAt.IsZero() {
		updated := s.UpdatedAt
		dto.UpdatedAt = &updated
	}
	return dto
}

// FromDomainOverride конвертирует override в DTO
func FromDomainOverride(o *domain.AvailabilityOverride) *OverrideResponse {
	return &OverrideResponse{
		ID:        o.ID,
		Date:      o.Date.Format(domain.DateFormat),
		StartTime: o.StartTime.String(),
		EndTime:   o.EndTime.String(),
		Note:      o.Note,
	}
}

// FromDomainBlockedDate конвертирует блокировку в DTO
func FromDomainBlockedDate(b *domain.BlockedDate) *BlockedDateResponse {
	return &BlockedDateResponse{
		ID:        b.ID,
		StartDate: b.StartDate.Format(domain.DateFormat),
		EndDate:   b.EndDate.Format(domain.DateFormat),
		Reason:    b.Reason,
		Source:    string(b.Source),
	}
}

// FromDomainAvailability конвертирует полный набор правил в DTO
func FromDomainAvailability(a *domain.Availability) *AvailabilityResponse {
	resp := &AvailabilityResponse{
		Patterns:     FromDomainPatterns(a.Patterns),
		Overrides:    make([]OverrideResponse, 0, len(a.Overrides)),
		BlockedDates: make([]BlockedDateResponse, 0, len(a.BlockedDates)),
		Settings:     FromDomainSettings(a.Settings),
	}
	for i := range a.Overrides {
		resp.Overrides = append(resp.Overrides, *FromDomainOverride(&a.Overrides[i]))
	}
	for i := range a.BlockedDates {
		resp.BlockedDates = append(resp.BlockedDates, *FromDomainBlockedDate(&a.BlockedDates[i]))
	}
	return resp
}
