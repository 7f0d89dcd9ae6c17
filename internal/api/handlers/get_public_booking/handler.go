package get_public_booking

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-StudioBooking/internal/api/handlers"
)

const (
	msgInvalidUUID = "некорректный идентификатор бронирования"
	msgNotFound    = "бронирование не найдено"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/public/bookings/{uuid}
// Ссылка из письма клиенту, внутренние заметки не отдаются
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseUUID(w, r)
	if !ok {
		return
	}

	booking, err := h.service.GetByUUID(r.Context(), id)
	if err != nil {
		if handlers.RespondDomainError(w, err, msgNotFound) {
			h.logger.Warn("GET /public/bookings/{uuid} - Booking not found: uuid=%s", id)
			return
		}
		h.logger.Error("GET /public/bookings/{uuid} - Failed to get booking: uuid=%s, error=%v", id, err)
		return
	}

	h.logger.Info("GET /public/bookings/{uuid} - Booking retrieved successfully: uuid=%s", id)
	handlers.RespondJSON(w, http.StatusOK, booking)
}

// HandleICS GET /api/v1/public/bookings/{uuid}/ics
func (h *Handler) HandleICS(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseUUID(w, r)
	if !ok {
		return
	}

	calendar, err := h.service.ExportICS(r.Context(), id)
	if err != nil {
		if handlers.RespondDomainError(w, err, msgNotFound) {
			h.logger.Warn("GET /public/bookings/{uuid}/ics - Booking not found: uuid=%s", id)
			return
		}
		h.logger.Error("GET /public/bookings/{uuid}/ics - Failed to export: uuid=%s, error=%v", id, err)
		return
	}

	h.logger.Info("GET /public/bookings/{uuid}/ics - Calendar exported: uuid=%s", id)
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="booking-`+id.String()+`.ics"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(calendar))
}

func (h *Handler) parseUUID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := mux.Vars(r)["uuid"]
	id, err := uuid.Parse(raw)
	if err != nil {
		h.logger.Warn("GET /public/bookings/{uuid} - Invalid uuid %q: %v", raw, err)
		handlers.RespondBadRequest(w, msgInvalidUUID)
		return uuid.Nil, false
	}
	return id, true
}
