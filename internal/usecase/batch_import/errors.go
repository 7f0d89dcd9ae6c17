package batch_import

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-StudioBooking/internal/domain"
)

var (
	// ErrSessionTypeNotFound тип сессии не найден или неактивен
	ErrSessionTypeNotFound = fmt.Errorf("batch_import: session type not found: %w", domain.ErrNotFound)

	// ErrInvalidInput возвращается при некорректном пакете (не строке)
	ErrInvalidInput = fmt.Errorf("batch_import: invalid input data: %w", domain.ErrValidation)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("batch_import: internal error")
)
