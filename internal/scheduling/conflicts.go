package scheduling

import (
	"fmt"

	"github.com/m04kA/SMC-StudioBooking/internal/domain"
	"github.com/m04kA/SMC-StudioBooking/pkg/ptr"
	"github.com/m04kA/SMC-StudioBooking/pkg/types"
)

// Padding пауза между двумя бронированиями: большее из глобальной паузы
// и buffer_after обоих бронирований
func Padding(globalBuffer, candidateBuffer, existingBuffer int) int {
	pad := globalBuffer
	if candidateBuffer > pad {
		pad = candidateBuffer
	}
	if existingBuffer > pad {
		pad = existingBuffer
	}
	return pad
}

// Collides интервалы конфликтуют с учетом паузы pad после каждого из них
func Collides(a, b Interval, pad int) bool {
	return a.Start < b.End+pad && b.Start < a.End+pad
}

// BookingConflicts активные бронирования, с которыми конфликтует candidate
// Бронирование excludeID не учитывается (перенос существующего бронирования)
func BookingConflicts(
	candidate Interval,
	candidateBuffer int,
	globalBuffer int,
	bookings []*domain.Booking,
	excludeID int64,
) []domain.Conflict {
	var conflicts []domain.Conflict

	for _, b := range bookings {
		if !b.IsActive() || (excludeID != 0 && b.ID == excludeID) {
			continue
		}

		existing := NewInterval(b.StartTime, b.EndTime)
		pad := Padding(globalBuffer, candidateBuffer, b.BufferAfterMinutes)
		if !Collides(candidate, existing, pad) {
			continue
		}

		kind := domain.ConflictBufferOverlap
		message := fmt.Sprintf("too close to booking %s (%s-%s), %d minutes buffer required",
			b.BookingNumber, b.StartTime, b.EndTime, pad)
		if candidate.Overlaps(existing) {
			kind = domain.ConflictTimeOverlap
			message = fmt.Sprintf("overlaps booking %s (%s-%s)", b.BookingNumber, b.StartTime, b.EndTime)
		}

		conflicts = append(conflicts, domain.Conflict{
			Kind:          kind,
			BookingID:     ptr.Ptr(b.ID),
			BookingNumber: ptr.Ptr(b.BookingNumber),
			StartTime:     b.StartTime,
			EndTime:       b.EndTime,
			Message:       message,
		})
	}

	return conflicts
}

// AvailabilityConflicts причины, по которым candidate не лежит в окнах доступности дня
// Пустой результат означает, что интервал целиком внутри свободного окна
func AvailabilityConflicts(day Day, candidate Interval) []domain.Conflict {
	if blocked := day.Blocked(); blocked != nil {
		message := "date is blocked"
		if blocked.Reason != nil && *blocked.Reason != "" {
			message = fmt.Sprintf("date is blocked: %s", *blocked.Reason)
		}
		return []domain.Conflict{{
			Kind:      domain.ConflictBlockedDate,
			StartTime: types.MustFromMinutes(0),
			EndTime:   types.MustFromMinutes(minutesPerDay),
			Message:   message,
		}}
	}

	for _, w := range day.Windows() {
		if w.Contains(candidate) {
			return nil
		}
	}

	var conflicts []domain.Conflict
	insideRaw := false
	for _, w := range day.RawWindows() {
		if w.Contains(candidate) {
			insideRaw = true
			break
		}
	}

	if insideRaw {
		for _, b := range day.Busy() {
			if candidate.Overlaps(NewInterval(b.StartTime, b.EndTime)) {
				message := "overlaps an external calendar event"
				if b.Title != nil && *b.Title != "" {
					message = fmt.Sprintf("overlaps external event %q", *b.Title)
				}
				conflicts = append(conflicts, domain.Conflict{
					Kind:      domain.ConflictExternalEvent,
					StartTime: b.StartTime,
					EndTime:   b.EndTime,
					Message:   message,
				})
			}
		}
	}

	if len(conflicts) == 0 {
		conflicts = append(conflicts, domain.Conflict{
			Kind:      domain.ConflictOutsideAvailability,
			StartTime: types.MustFromMinutes(clampMinutes(candidate.Start)),
			EndTime:   types.MustFromMinutes(clampMinutes(candidate.End)),
			Message:   "requested time is outside of available hours",
		})
	}

	return conflicts
}

const minutesPerDay = 24 * 60

func clampMinutes(m int) int {
	if m < 0 {
		return 0
	}
	if m > minutesPerDay {
		return minutesPerDay
	}
	return m
}
