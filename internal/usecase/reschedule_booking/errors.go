package reschedule_booking

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-StudioBooking/internal/domain"
)

var (
	// ErrBookingNotFound бронирование не найдено или принадлежит другому владельцу
	ErrBookingNotFound = fmt.Errorf("reschedule_booking: booking not found: %w", domain.ErrNotFound)

	// ErrNotReschedulable перенести можно только ожидающее или подтвержденное бронирование
	ErrNotReschedulable = fmt.Errorf("reschedule_booking: booking cannot be rescheduled: %w", domain.ErrInvalidState)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("reschedule_booking: invalid input data: %w", domain.ErrValidation)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("reschedule_booking: internal error")
)
