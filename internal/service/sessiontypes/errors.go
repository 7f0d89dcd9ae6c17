package sessiontypes

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-StudioBooking/internal/domain"
)

var (
	// ErrSessionTypeNotFound возвращается, когда тип сессии не найден у владельца
	ErrSessionTypeNotFound = fmt.Errorf("sessiontypes: session type not found: %w", domain.ErrNotFound)

	// ErrDuplicateKey ключ уже используется другим типом сессии владельца
	ErrDuplicateKey = fmt.Errorf("sessiontypes: key already exists: %w", domain.ErrConflict)

	// ErrStructuralChange длительность и буфер нельзя менять, пока есть бронирования
	ErrStructuralChange = fmt.Errorf("sessiontypes: duration and buffer are locked by existing bookings: %w", domain.ErrValidation)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("sessiontypes: invalid input data: %w", domain.ErrValidation)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("sessiontypes: internal error")
)
