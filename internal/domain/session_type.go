package domain

import (
	"fmt"
	"strings"
	"time"
)

// LocationType тип локации съемки
type LocationType string

const (
	LocationOnSite   LocationType = "on_site"
	LocationStudio   LocationType = "studio"
	LocationOnline   LocationType = "online"
	LocationFlexible LocationType = "flexible"
)

func (l LocationType) IsValid() bool {
	switch l {
	case LocationOnSite, LocationStudio, LocationOnline, LocationFlexible:
		return true
	}
	return false
}

// SessionType тип фотосессии, доступный для бронирования
type SessionType struct {
	ID      int64
	OwnerID int64
	Key     string
	Name    string

	Description *string
	Color       string
	Price       *float64

	DurationMinutes    int
	BufferAfterMinutes int
	MaxParticipants    *int

	LocationType    LocationType
	DefaultLocation *string

	RequiresApproval bool
	AutoConfirm      bool

	// Переопределяют глобальные настройки, если заданы
	MinNoticeHours *int
	MaxAdvanceDays *int

	IsPublic bool
	IsActive bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// InitialStatus статус, с которым создается новое бронирование
// requires_approval всегда требует ручного подтверждения
func (st *SessionType) InitialStatus() BookingStatus {
	if st.AutoConfirm && !st.RequiresApproval {
		return StatusConfirmed
	}
	return StatusPending
}

// Validate проверяет поля типа сессии
func (st *SessionType) Validate() error {
	if strings.TrimSpace(st.Key) == "" {
		return fmt.Errorf("%w: key is required", ErrValidation)
	}
	if strings.TrimSpace(st.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if st.DurationMinutes < MinSessionDurationMinutes || st.DurationMinutes > MaxSessionDurationMinutes {
		return fmt.Errorf("%w: duration_minutes must be between %d and %d",
			ErrValidation, MinSessionDurationMinutes, MaxSessionDurationMinutes)
	}
	if st.BufferAfterMinutes < 0 || st.BufferAfterMinutes > MaxBufferMinutes {
		return fmt.Errorf("%w: buffer_after_minutes must be between 0 and %d", ErrValidation, MaxBufferMinutes)
	}
	if st.MaxParticipants != nil && *st.MaxParticipants <= 0 {
		return fmt.Errorf("%w: max_participants must be positive", ErrValidation)
	}
	if !st.LocationType.IsValid() {
		return fmt.Errorf("%w: unknown location_type %q", ErrValidation, st.LocationType)
	}
	if st.Price != nil && *st.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrValidation)
	}
	if st.MinNoticeHours != nil && (*st.MinNoticeHours < 0 || *st.MinNoticeHours > MaxNoticeHours) {
		return fmt.Errorf("%w: min_notice_hours must be between 0 and %d", ErrValidation, MaxNoticeHours)
	}
	if st.MaxAdvanceDays != nil && (*st.MaxAdvanceDays < 0 || *st.MaxAdvanceDays > MaxAdvanceDaysLimit) {
		return fmt.Errorf("%w: max_advance_days must be between 0 and %d", ErrValidation, MaxAdvanceDaysLimit)
	}
	return nil
}

// StructurallyEqual совпадают ли поля, влияющие на раскладку бронирований
func (st *SessionType) StructurallyEqual(other *SessionType) bool {
	return st.DurationMinutes == other.DurationMinutes &&
		st.BufferAfterMinutes == other.BufferAfterMinutes
}
