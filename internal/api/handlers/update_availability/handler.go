package update_availability

import (
	"net/http"
	"time"

	"github.com/m04kA/SMC-StudioBooking/internal/api/handlers"
	"github.com/m04kA/SMC-StudioBooking/internal/api/middleware"
	"github.com/m04kA/SMC-StudioBooking/internal/service/availability/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDateOrTime  = "некорректная дата или время, ожидается YYYY-MM-DD и HH:MM"
	msgInvalidID          = "некорректный ID"
	msgMissingOwnerID     = "отсутствует ID владельца"
	msgOverrideNotFound   = "override не найден"
	msgBlockedNotFound    = "блокировка не найдена"
)

type Handler struct {
	service AvailabilityService
	loc     *time.Location
	logger  Logger
}

func NewHandler(service AvailabilityService, loc *time.Location, logger Logger) *Handler {
	return &Handler{
		service: service,
		loc:     loc,
		logger:  logger,
	}
}

// HandlePatterns PUT /api/v1/booking/availability/patterns
// Полная замена недельного расписания
func (h *Handler) HandlePatterns(w http.ResponseWriter, r *http.Request) {
	const route = "PUT /availability/patterns"
	ownerID, ok := h.ownerID(w, r, route)
	if !ok {
		return
	}

	var req models.UpdatePatternsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("%s - Invalid request body: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.OwnerID = ownerID

	patterns, err := h.service.UpdatePatterns(r.Context(), &req)
	if err != nil {
		h.respondError(w, route, ownerID, err, msgInvalidRequestBody)
		return
	}

	h.logger.Info("%s - Patterns replaced: owner_id=%d, count=%d", route, ownerID, len(patterns))
	handlers.RespondJSON(w, http.StatusOK, PatternsResponse{Patterns: patterns})
}

// HandleSettings PUT /api/v1/booking/availability/settings
func (h *Handler) HandleSettings(w http.ResponseWriter, r *http.Request) {
	const route = "PUT /availability/settings"
	ownerID, ok := h.ownerID(w, r, route)
	if !ok {
		return
	}

	var req models.UpdateSettingsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("%s - Invalid request body: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.OwnerID = ownerID

	settings, err := h.service.UpdateSettings(r.Context(), &req)
	if err != nil {
		h.respondError(w, route, ownerID, err, msgInvalidRequestBody)
		return
	}

	h.logger.Info("%s - Settings saved: owner_id=%d", route, ownerID)
	handlers.RespondJSON(w, http.StatusOK, settings)
}

// HandleCreateOverride POST /api/v1/booking/availability/overrides
func (h *Handler) HandleCreateOverride(w http.ResponseWriter, r *http.Request) {
	const route = "POST /availability/overrides"
	ownerID, ok := h.ownerID(w, r, route)
	if !ok {
		return
	}

	var req CreateOverrideRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("%s - Invalid request body: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	serviceReq, err := req.ToServiceRequest(ownerID, h.loc)
	if err != nil {
		h.logger.Warn("%s - Failed to parse request: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidDateOrTime)
		return
	}

	override, err := h.service.CreateOverride(r.Context(), serviceReq)
	if err != nil {
		h.respondError(w, route, ownerID, err, msgOverrideNotFound)
		return
	}

	h.logger.Info("%s - Override created: id=%d, owner_id=%d, date=%s", route, override.ID, ownerID, override.Date)
	handlers.RespondJSON(w, http.StatusCreated, override)
}

// HandleDeleteOverride DELETE /api/v1/booking/availability/overrides/{overrideId}
func (h *Handler) HandleDeleteOverride(w http.ResponseWriter, r *http.Request) {
	const route = "DELETE /availability/overrides/{id}"
	ownerID, id, ok := h.ownerAndID(w, r, route, "overrideId")
	if !ok {
		return
	}

	if err := h.service.DeleteOverride(r.Context(), ownerID, id); err != nil {
		h.respondError(w, route, ownerID, err, msgOverrideNotFound)
		return
	}

	h.logger.Info("%s - Override deleted: id=%d, owner_id=%d", route, id, ownerID)
	w.WriteHeader(http.StatusNoContent)
}

// HandleCreateBlockedDate POST /api/v1/booking/availability/blocked-dates
func (h *Handler) HandleCreateBlockedDate(w http.ResponseWriter, r *http.Request) {
	const route = "POST /availability/blocked-dates"
	ownerID, ok := h.ownerID(w, r, route)
	if !ok {
		return
	}

	var req CreateBlockedDateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("%s - Invalid request body: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	serviceReq, err := req.ToServiceRequest(ownerID, h.loc)
	if err != nil {
		h.logger.Warn("%s - Failed to parse request: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidDateOrTime)
		return
	}

	blocked, err := h.service.CreateBlockedDate(r.Context(), serviceReq)
	if err != nil {
		h.respondError(w, route, ownerID, err, msgBlockedNotFound)
		return
	}

	h.logger.Info("%s - Blocked dates created: id=%d, owner_id=%d, %s..%s",
		route, blocked.ID, ownerID, blocked.StartDate, blocked.EndDate)
	handlers.RespondJSON(w, http.StatusCreated, blocked)
}

// HandleDeleteBlockedDate DELETE /api/v1/booking/availability/blocked-dates/{blockedDateId}
func (h *Handler) HandleDeleteBlockedDate(w http.ResponseWriter, r *http.Request) {
	const route = "DELETE /availability/blocked-dates/{id}"
	ownerID, id, ok := h.ownerAndID(w, r, route, "blockedDateId")
	if !ok {
		return
	}

	if err := h.service.DeleteBlockedDate(r.Context(), ownerID, id); err != nil {
		h.respondError(w, route, ownerID, err, msgBlockedNotFound)
		return
	}

	h.logger.Info("%s - Blocked dates deleted: id=%d, owner_id=%d", route, id, ownerID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ownerID(w http.ResponseWriter, r *http.Request, route string) (int64, bool) {
	ownerID, ok := middleware.GetOwnerID(r.Context())
	if !ok {
		h.logger.Warn("%s - Missing owner ID", route)
		handlers.RespondUnauthorized(w, msgMissingOwnerID)
	}
	return ownerID, ok
}

func (h *Handler) ownerAndID(w http.ResponseWriter, r *http.Request, route, param string) (int64, int64, bool) {
	id, err := handlers.PathInt64(r, param)
	if err != nil {
		h.logger.Warn("%s - Invalid ID: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidID)
		return 0, 0, false
	}
	ownerID, ok := h.ownerID(w, r, route)
	return ownerID, id, ok
}

func (h *Handler) respondError(w http.ResponseWriter, route string, ownerID int64, err error, notFoundMessage string) {
	if handlers.RespondDomainError(w, err, notFoundMessage) {
		h.logger.Warn("%s - Rejected: owner_id=%d, error=%v", route, ownerID, err)
		return
	}
	h.logger.Error("%s - Failed: owner_id=%d, error=%v", route, ownerID, err)
}
