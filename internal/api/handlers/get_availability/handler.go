package get_availability

import (
	"net/http"

	"github.com/m04kA/SMC-StudioBooking/internal/api/handlers"
	"github.com/m04kA/SMC-StudioBooking/internal/api/middleware"
)

const (
	msgMissingOwnerID = "отсутствует ID владельца"
	msgNotFound       = "правила доступности не найдены"
)

type Handler struct {
	service AvailabilityService
	logger  Logger
}

func NewHandler(service AvailabilityService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/booking/availability
// Недельное расписание, настройки, ближайшие override и блокировки
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.GetOwnerID(r.Context())
	if !ok {
		h.logger.Warn("GET /availability - Missing owner ID")
		handlers.RespondUnauthorized(w, msgMissingOwnerID)
		return
	}

	result, err := h.service.GetAvailability(r.Context(), ownerID)
	if err != nil {
		if handlers.RespondDomainError(w, err, msgNotFound) {
			h.logger.Warn("GET /availability - Rejected: owner_id=%d, error=%v", ownerID, err)
			return
		}
		h.logger.Error("GET /availability - Failed to get availability: owner_id=%d, error=%v", ownerID, err)
		return
	}

	h.logger.Info("GET /availability - Availability retrieved: owner_id=%d, patterns=%d, overrides=%d, blocked=%d",
		ownerID, len(result.Patterns), len(result.Overrides), len(result.BlockedDates))
	handlers.RespondJSON(w, http.StatusOK, result)
}
