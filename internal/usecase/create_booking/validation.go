package create_booking

import (
	"fmt"
	"strings"

	"github.com/m04kA/SMC-StudioBooking/internal/domain"
	"github.com/m04kA/SMC-StudioBooking/pkg/validation"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.OwnerID <= 0 {
		return fmt.Errorf("%w: ownerID must be positive", ErrInvalidInput)
	}

	if req.SessionTypeID <= 0 {
		return fmt.Errorf("%w: sessionTypeID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}

	if err := validateContact(req.Contact); err != nil {
		return err
	}

	if req.StudentCount != nil && *req.StudentCount <= 0 {
		return fmt.Errorf("%w: studentCount must be positive", ErrInvalidInput)
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must not exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	if req.InternalNotes != nil && len(*req.InternalNotes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: internalNotes must not exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	if req.Source != "" && !req.Source.IsValid() {
		return fmt.Errorf("%w: unknown source %q", ErrInvalidInput, req.Source)
	}

	return nil
}

func validateContact(c domain.Contact) error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: contact name is required", ErrInvalidInput)
	}
	if strings.TrimSpace(c.Email) == "" {
		return fmt.Errorf("%w: contact email is required", ErrInvalidInput)
	}
	if err := validation.Email(c.Email); err != nil {
		return fmt.Errorf("%w: invalid contact email %q", ErrInvalidInput, c.Email)
	}
	return nil
}
