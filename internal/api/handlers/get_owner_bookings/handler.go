package get_owner_bookings

import (
	"net/http"
	"time"

	"github.com/m04kA/SMC-StudioBooking/internal/api/handlers"
	"github.com/m04kA/SMC-StudioBooking/internal/api/middleware"
)

const (
	msgMissingOwnerID = "отсутствует ID владельца"
	msgInvalidParams  = "некорректные параметры запроса"
	msgNotFound       = "бронирования не найдены"
)

type Handler struct {
	service BookingService
	loc     *time.Location
	logger  Logger
}

func NewHandler(service BookingService, loc *time.Location, logger Logger) *Handler {
	return &Handler{
		service: service,
		loc:     loc,
		logger:  logger,
	}
}

// Handle GET /api/v1/booking/bookings
// Query params: date, startDate, endDate, status, sessionTypeId, includeInactive (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.GetOwnerID(r.Context())
	if !ok {
		h.logger.Warn("GET /bookings - Missing owner ID")
		handlers.RespondUnauthorized(w, msgMissingOwnerID)
		return
	}

	serviceReq, err := ToServiceRequest(ownerID, r, h.loc)
	if err != nil {
		h.logger.Warn("GET /bookings - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.service.List(r.Context(), serviceReq)
	if err != nil {
		if handlers.RespondDomainError(w, err, msgNotFound) {
			h.logger.Warn("GET /bookings - Rejected: owner_id=%d, error=%v", ownerID, err)
			return
		}
		h.logger.Error("GET /bookings - Failed to get bookings: owner_id=%d, error=%v", ownerID, err)
		return
	}

	h.logger.Info("GET /bookings - Bookings retrieved successfully: owner_id=%d, count=%d",
		ownerID, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result)
}
