package sync_external_calendar

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-StudioBooking/internal/domain"
)

var (
	// ErrCalendarNotConnected у владельца нет подключенного календаря
	ErrCalendarNotConnected = fmt.Errorf("sync_external_calendar: calendar not connected: %w", domain.ErrNotFound)

	// ErrUnavailable сервис внешнего календаря недоступен, кэш не изменен
	ErrUnavailable = errors.New("sync_external_calendar: external calendar unavailable")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("sync_external_calendar: invalid input data: %w", domain.ErrValidation)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("sync_external_calendar: internal error")
)
