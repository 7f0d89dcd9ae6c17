package availability

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-StudioBooking/internal/domain"
)

var (
	// ErrOverrideNotFound возвращается, когда override не найден у владельца
	ErrOverrideNotFound = fmt.Errorf("availability: override not found: %w", domain.ErrNotFound)

	// ErrBlockedDateNotFound возвращается, когда блокировка не найдена у владельца
	ErrBlockedDateNotFound = fmt.Errorf("availability: blocked date not found: %w", domain.ErrNotFound)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("availability: invalid input data: %w", domain.ErrValidation)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("availability: internal error")
)
