package get_available_slots

import (
	"github.com/m04kA/SMC-StudioBooking/internal/api/handlers"
	"github.com/m04kA/SMC-StudioBooking/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-StudioBooking/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date            string                  `json:"date"`
	SessionTypeID   int64                   `json:"sessionTypeId"`
	SessionTypeName string                  `json:"sessionTypeName"`
	DurationMinutes int                     `json:"durationMinutes"`
	Slots           []handlers.SlotResponse `json:"slots"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	return &AvailableSlotsResponse{
		Date:            resp.Date.Format(domain.DateFormat),
		SessionTypeID:   resp.SessionType.ID,
		SessionTypeName: resp.SessionType.Name,
		DurationMinutes: resp.SessionType.DurationMinutes,
		Slots:           handlers.FromDomainSlots(resp.Slots),
	}
}
