package scheduling

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-StudioBooking/internal/domain"
	"github.com/m04kA/SMC-StudioBooking/pkg/types"
)

// Input данные для расчета слотов на одну дату
// Bookings бронирования владельца на эту дату, неактивные игнорируются
type Input struct {
	Day              Day
	SessionType      *domain.SessionType
	Settings         domain.AvailabilitySettings
	Bookings         []*domain.Booking
	Now              time.Time
	ExcludeBookingID int64
}

// Rules итоговые правила для типа сессии
func (in Input) Rules() domain.BookingRules {
	return in.Settings.Rules(in.SessionType)
}

// GenerateSlots свободные слоты на дату в хронологическом порядке
//
// Окна дня (override или шаблоны дня недели, без блокировок и внешних событий)
// нарезаются с шагом в длительность сессии. Слот отбрасывается, если он
// конфликтует с активным бронированием с учетом пауз или нарушает окно
// уведомления. Если достигнут дневной лимит, слотов нет.
func GenerateSlots(in Input) []domain.Slot {
	slots := make([]domain.Slot, 0)
	if in.SessionType == nil || in.SessionType.DurationMinutes <= 0 {
		return slots
	}

	rules := in.Rules()
	if CheckDate(in.Day.Date, rules, in.Now) != nil {
		return slots
	}
	if CheckDailyLimit(in.Bookings, rules, in.ExcludeBookingID) != nil {
		return slots
	}

	duration := in.SessionType.DurationMinutes
	for _, w := range in.Day.Windows() {
		for t := w.Start; t+duration <= w.End; t += duration {
			candidate := Interval{Start: t, End: t + duration}
			conflicts := BookingConflicts(candidate, in.SessionType.BufferAfterMinutes, rules.BufferMinutes,
				in.Bookings, in.ExcludeBookingID)
			if len(conflicts) > 0 {
				continue
			}

			start := types.MustFromMinutes(t)
			if CheckStart(in.Day.Date, start, rules, in.Now) != nil {
				continue
			}

			slots = append(slots, domain.Slot{
				Date:      in.Day.Date,
				StartTime: start,
				EndTime:   types.MustFromMinutes(t + duration),
			})
		}
	}

	return slots
}

// CheckReservation проверяет, что бронирование с началом start можно создать прямо сейчас
// Возвращает *domain.PolicyError, *domain.ConflictError (без подсказок) или ошибку валидации
func CheckReservation(in Input, start types.TimeString) error {
	if in.SessionType == nil {
		return fmt.Errorf("%w: session type is required", domain.ErrValidation)
	}
	if err := start.Validate(); err != nil {
		return fmt.Errorf("%w: start_time: %v", domain.ErrValidation, err)
	}

	rules := in.Rules()
	if err := CheckDate(in.Day.Date, rules, in.Now); err != nil {
		return err
	}
	if err := CheckStart(in.Day.Date, start, rules, in.Now); err != nil {
		return err
	}
	if err := CheckDailyLimit(in.Bookings, rules, in.ExcludeBookingID); err != nil {
		return err
	}

	candidate := Interval{Start: start.Minutes(), End: start.Minutes() + in.SessionType.DurationMinutes}

	conflicts := AvailabilityConflicts(in.Day, candidate)
	conflicts = append(conflicts, BookingConflicts(candidate, in.SessionType.BufferAfterMinutes,
		rules.BufferMinutes, in.Bookings, in.ExcludeBookingID)...)

	if len(conflicts) > 0 {
		return &domain.ConflictError{Date: in.Day.Date, Conflicts: conflicts}
	}
	return nil
}

// EndTime конец сессии, начинающейся в start
func EndTime(start types.TimeString, durationMinutes int) (types.TimeString, error) {
	end, err := start.AddMinutes(durationMinutes)
	if err != nil {
		return "", fmt.Errorf("%w: session does not fit into the day: %v", domain.ErrValidation, err)
	}
	return end, nil
}
