package domain

import (
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/SMC-StudioBooking/pkg/types"
)

// AvailabilityPattern повторяющееся недельное окно доступности
// Weekday 0 = воскресенье ... 6 = суббота
type AvailabilityPattern struct {
	ID        int64
	OwnerID   int64
	Weekday   int
	StartTime types.TimeString
	EndTime   types.TimeString
	IsActive  bool
}

// Validate проверяет одно окно
func (p *AvailabilityPattern) Validate() error {
	if p.Weekday < 0 || p.Weekday > 6 {
		return fmt.Errorf("%w: weekday must be between 0 and 6, got %d", ErrValidation, p.Weekday)
	}
	return validateWindow(p.StartTime, p.EndTime)
}

// ValidatePatterns проверяет набор шаблонов: активные окна одного дня недели не должны пересекаться
func ValidatePatterns(patterns []AvailabilityPattern) error {
	byDay := make(map[int][]AvailabilityPattern)
	for i := range patterns {
		if err := patterns[i].Validate(); err != nil {
			return err
		}
		if patterns[i].IsActive {
			byDay[patterns[i].Weekday] = append(byDay[patterns[i].Weekday], patterns[i])
		}
	}

	for weekday, list := range byDay {
		sort.Slice(list, func(i, j int) bool {
			return list[i].StartTime.Minutes() < list[j].StartTime.Minutes()
		})
		for i := 1; i < len(list); i++ {
			if list[i].StartTime.Minutes() < list[i-1].EndTime.Minutes() {
				return fmt.Errorf("%w: patterns %s-%s and %s-%s overlap on weekday %d", ErrValidation,
					list[i-1].StartTime, list[i-1].EndTime, list[i].StartTime, list[i].EndTime, weekday)
			}
		}
	}
	return nil
}

// AvailabilitySettings глобальные настройки владельца
type AvailabilitySettings struct {
	OwnerID        int64
	BufferMinutes  int // Пауза между любыми двумя бронированиями
	MaxDaily       int // 0 = без ограничения
	MinNoticeHours int
	MaxAdvanceDays int // 0 = без ограничения
	UpdatedAt      time.Time
}

// DefaultSettings настройки владельца, который еще ничего не сохранял
func DefaultSettings(ownerID int64) AvailabilitySettings {
	return AvailabilitySettings{
		OwnerID:        ownerID,
		BufferMinutes:  DefaultBufferMinutes,
		MaxDaily:       DefaultMaxDaily,
		MinNoticeHours: DefaultMinNoticeHours,
		MaxAdvanceDays: DefaultMaxAdvanceDays,
	}
}

func (s *AvailabilitySettings) Validate() error {
	if s.BufferMinutes < 0 || s.BufferMinutes > MaxBufferMinutes {
		return fmt.Errorf("%w: buffer_minutes must be between 0 and %d", ErrValidation, MaxBufferMinutes)
	}
	if s.MaxDaily < 0 || s.MaxDaily > MaxDailyLimit {
		return fmt.Errorf("%w: max_daily must be between 0 and %d", ErrValidation, MaxDailyLimit)
	}
	if s.MinNoticeHours < 0 || s.MinNoticeHours > MaxNoticeHours {
		return fmt.Errorf("%w: min_notice_hours must be between 0 and %d", ErrValidation, MaxNoticeHours)
	}
	if s.MaxAdvanceDays < 0 || s.MaxAdvanceDays > MaxAdvanceDaysLimit {
		return fmt.Errorf("%w: max_advance_days must be between 0 and %d", ErrValidation, MaxAdvanceDaysLimit)
	}
	return nil
}

// Rules правила бронирования с учетом переопределений типа сессии
func (s AvailabilitySettings) Rules(st *SessionType) BookingRules {
	rules := BookingRules{
		BufferMinutes:  s.BufferMinutes,
		MaxDaily:       s.MaxDaily,
		MinNoticeHours: s.MinNoticeHours,
		MaxAdvanceDays: s.MaxAdvanceDays,
	}
	if st == nil {
		return rules
	}
	if st.MinNoticeHours != nil {
		rules.MinNoticeHours = *st.MinNoticeHours
	}
	if st.MaxAdvanceDays != nil {
		rules.MaxAdvanceDays = *st.MaxAdvanceDays
	}
	return rules
}

// BookingRules итоговые ограничения для конкретного типа сессии
type BookingRules struct {
	BufferMinutes  int
	MaxDaily       int
	MinNoticeHours int
	MaxAdvanceDays int
}

// AvailabilityOverride доступность на конкретную дату, заменяет недельный шаблон
type AvailabilityOverride struct {
	ID        int64
	OwnerID   int64
	Date      time.Time
	StartTime types.TimeString
	EndTime   types.TimeString
	Note      *string
	CreatedAt time.Time
}

func (o *AvailabilityOverride) Validate() error {
	if o.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrValidation)
	}
	return validateWindow(o.StartTime, o.EndTime)
}

// BlockedDateSource источник блокировки
type BlockedDateSource string

const (
	BlockedSourceManual   BlockedDateSource = "manual"
	BlockedSourceHolidays BlockedDateSource = "holidays"
)

// BlockedDate закрытый диапазон дат (включительно)
type BlockedDate struct {
	ID        int64
	OwnerID   int64
	StartDate time.Time
	EndDate   time.Time
	Reason    *string
	Source    BlockedDateSource
	CreatedAt time.Time
}

func (b *BlockedDate) Validate() error {
	if b.StartDate.IsZero() || b.EndDate.IsZero() {
		return fmt.Errorf("%w: start_date and end_date are required", ErrValidation)
	}
	if b.EndDate.Before(b.StartDate) {
		return fmt.Errorf("%w: end_date must not be before start_date", ErrValidation)
	}
	if b.Source != "" && b.Source != BlockedSourceManual && b.Source != BlockedSourceHolidays {
		return fmt.Errorf("%w: unknown source %q", ErrValidation, b.Source)
	}
	return nil
}

// Covers дата попадает в диапазон
func (b *BlockedDate) Covers(date time.Time) bool {
	d := DateOnly(date)
	return !d.Before(DateOnly(b.StartDate)) && !d.After(DateOnly(b.EndDate))
}

// BusyInterval занятый интервал из внешнего календаря
// Учитывается как блокировка, но не принадлежит владельцу
type BusyInterval struct {
	ID        int64
	OwnerID   int64
	Date      time.Time
	StartTime types.TimeString
	EndTime   types.TimeString
	Title     *string
	SyncedAt  time.Time
}

func (b *BusyInterval) Validate() error {
	if b.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrValidation)
	}
	return validateWindow(b.StartTime, b.EndTime)
}

// Availability полный набор правил доступности владельца
type Availability struct {
	Patterns     []AvailabilityPattern
	Overrides    []AvailabilityOverride
	BlockedDates []BlockedDate
	Settings     AvailabilitySettings
}

func validateWindow(start, end types.TimeString) error {
	if err := start.Validate(); err != nil {
		return fmt.Errorf("%w: start_time: %v", ErrValidation, err)
	}
	if err := end.Validate(); err != nil {
		return fmt.Errorf("%w: end_time: %v", ErrValidation, err)
	}
	if end.Minutes() <= start.Minutes() {
		return fmt.Errorf("%w: end_time %s must be after start_time %s", ErrValidation, end, start)
	}
	return nil
}

// DateOnly обнуляет время, сохраняя локацию
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SameDay две даты относятся к одному календарному дню
func SameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
