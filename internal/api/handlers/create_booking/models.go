package create_booking

import (
	"time"

	"github.com/m04kA/SMC-StudioBooking/internal/api/handlers"
	"github.com/m04kA/SMC-StudioBooking/internal/domain"
	createBooking "github.com/m04kA/SMC-StudioBooking/internal/usecase/create_booking"
	"github.com/m04kA/SMC-StudioBooking/pkg/types"
)

// ContactRequest контакт клиента
type ContactRequest struct {
	Name  string  `json:"name" validate:"required,max=200"`
	Email string  `json:"email" validate:"required,email"`
	Phone *string `json:"phone,omitempty" validate:"omitempty,max=50"`
}

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	SessionTypeID int64          `json:"sessionTypeId" validate:"required,gt=0"`
	BookingDate   string         `json:"bookingDate" validate:"required"` // "2025-10-14"
	StartTime     string         `json:"startTime" validate:"required"`   // "10:00"
	Contact       ContactRequest `json:"contact"`
	SchoolName    *string        `json:"schoolName,omitempty" validate:"omitempty,max=200"`
	ClassName     *string        `json:"className,omitempty" validate:"omitempty,max=100"`
	StudentCount  *int           `json:"studentCount,omitempty" validate:"omitempty,gte=0"`
	Location      *string        `json:"location,omitempty" validate:"omitempty,max=500"`
	Notes         *string        `json:"notes,omitempty" validate:"omitempty,max=2000"`
	InternalNotes *string        `json:"internalNotes,omitempty" validate:"omitempty,max=2000"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
// Публичная запись не может оставлять внутренние заметки
func (r *CreateBookingRequest) ToUseCaseRequest(ownerID int64, loc *time.Location, public bool) (*createBooking.Request, error) {
	bookingDate, err := handlers.ParseDate(r.BookingDate, loc)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	req := &createBooking.Request{
		OwnerID:       ownerID,
		SessionTypeID: r.SessionTypeID,
		Date:          bookingDate,
		StartTime:     startTime,
		Contact: domain.Contact{
			Name:  r.Contact.Name,
			Email: r.Contact.Email,
			Phone: r.Contact.Phone,
		},
		SchoolName:    r.SchoolName,
		ClassName:     r.ClassName,
		StudentCount:  r.StudentCount,
		Location:      r.Location,
		Notes:         r.Notes,
		InternalNotes: r.InternalNotes,
		Source:        domain.SourceManual,
	}

	if public {
		req.InternalNotes = nil
		req.Source = domain.SourcePublicLink
		req.PublicOnly = true
	}

	return req, nil
}
