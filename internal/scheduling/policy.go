package scheduling

import (
	"time"

	"github.com/m04kA/SMC-StudioBooking/internal/domain"
	"github.com/m04kA/SMC-StudioBooking/pkg/types"
)

// CheckDate проверки, зависящие только от даты: прошедший день и горизонт бронирования
func CheckDate(date time.Time, rules domain.BookingRules, now time.Time) *domain.PolicyError {
	day := domain.DateOnly(date)
	today := domain.DateOnly(now.In(date.Location()))

	if day.Before(today) {
		return domain.NewPolicyError(domain.RulePastDate, "date %s is in the past", day.Format(domain.DateFormat))
	}

	if rules.MaxAdvanceDays > 0 {
		limit := today.AddDate(0, 0, rules.MaxAdvanceDays)
		if day.After(limit) {
			return domain.NewPolicyError(domain.RuleMaxAdvance,
				"bookings are accepted at most %d days in advance", rules.MaxAdvanceDays)
		}
	}

	return nil
}

// CheckStart проверка окна уведомления: начало не раньше now + min_notice_hours
func CheckStart(date time.Time, start types.TimeString, rules domain.BookingRules, now time.Time) *domain.PolicyError {
	startAt := start.On(date)
	earliest := now.Add(time.Duration(rules.MinNoticeHours) * time.Hour)

	if startAt.Before(earliest) {
		if rules.MinNoticeHours == 0 {
			return domain.NewPolicyError(domain.RulePastDate, "start time %s has already passed", start)
		}
		return domain.NewPolicyError(domain.RuleMinNotice,
			"bookings require at least %d hours notice", rules.MinNoticeHours)
	}

	return nil
}

// CheckDailyLimit дневной лимит владельца по всем типам сессий
func CheckDailyLimit(bookings []*domain.Booking, rules domain.BookingRules, excludeID int64) *domain.PolicyError {
	if rules.MaxDaily <= 0 {
		return nil
	}
	if count := CountActive(bookings, excludeID); count >= rules.MaxDaily {
		return domain.NewPolicyError(domain.RuleDailyLimit,
			"daily limit reached: %d of %d bookings", count, rules.MaxDaily)
	}
	return nil
}

// CountActive количество активных бронирований, кроме excludeID
func CountActive(bookings []*domain.Booking, excludeID int64) int {
	count := 0
	for _, b := range bookings {
		if b.IsActive() && (excludeID == 0 || b.ID != excludeID) {
			count++
		}
	}
	return count
}
