package session_types

import (
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-StudioBooking/internal/api/handlers"
	"github.com/m04kA/SMC-StudioBooking/internal/api/middleware"
	"github.com/m04kA/SMC-StudioBooking/internal/service/sessiontypes/models"
)

const (
	msgInvalidSessionTypeID = "некорректный ID типа сессии"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidParams        = "некорректные параметры запроса"
	msgMissingOwnerID       = "отсутствует ID владельца"
	msgNotFound             = "тип сессии не найден"
)

type Handler struct {
	service SessionTypeService
	logger  Logger
}

func NewHandler(service SessionTypeService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// HandleList GET /api/v1/booking/session-types
// Query params: includeInactive (опционально)
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.ownerID(w, r, "GET /session-types")
	if !ok {
		return
	}

	includeInactive := false
	if raw := r.URL.Query().Get("includeInactive"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			h.logger.Warn("GET /session-types - Invalid includeInactive %q", raw)
			handlers.RespondBadRequest(w, msgInvalidParams)
			return
		}
		includeInactive = v
	}

	result, err := h.service.List(r.Context(), ownerID, includeInactive)
	if err != nil {
		h.respondError(w, "GET /session-types", ownerID, 0, err)
		return
	}

	h.logger.Info("GET /session-types - Session types retrieved: owner_id=%d, count=%d", ownerID, len(result.SessionTypes))
	handlers.RespondJSON(w, http.StatusOK, result)
}

// HandleCreate POST /api/v1/booking/session-types
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.ownerID(w, r, "POST /session-types")
	if !ok {
		return
	}

	var req models.CreateSessionTypeRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /session-types - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.OwnerID = ownerID

	result, err := h.service.Create(r.Context(), &req)
	if err != nil {
		h.respondError(w, "POST /session-types", ownerID, 0, err)
		return
	}

	h.logger.Info("POST /session-types - Session type created: id=%d, owner_id=%d", result.ID, ownerID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}

// HandleGet GET /api/v1/booking/session-types/{sessionTypeId}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ownerID, id, ok := h.ownerAndID(w, r, "GET /session-types/{id}")
	if !ok {
		return
	}

	result, err := h.service.GetByID(r.Context(), ownerID, id)
	if err != nil {
		h.respondError(w, "GET /session-types/{id}", ownerID, id, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// HandleUpdate PUT /api/v1/booking/session-types/{sessionTypeId}
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ownerID, id, ok := h.ownerAndID(w, r, "PUT /session-types/{id}")
	if !ok {
		return
	}

	var req models.UpdateSessionTypeRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /session-types/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.OwnerID = ownerID

	result, err := h.service.Update(r.Context(), id, &req)
	if err != nil {
		h.respondError(w, "PUT /session-types/{id}", ownerID, id, err)
		return
	}

	h.logger.Info("PUT /session-types/{id} - Session type updated: id=%d, owner_id=%d", id, ownerID)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// HandleDelete DELETE /api/v1/booking/session-types/{sessionTypeId}
// Тип деактивируется, существующие бронирования сохраняют ссылку на него
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ownerID, id, ok := h.ownerAndID(w, r, "DELETE /session-types/{id}")
	if !ok {
		return
	}

	if err := h.service.Deactivate(r.Context(), ownerID, id); err != nil {
		h.respondError(w, "DELETE /session-types/{id}", ownerID, id, err)
		return
	}

	h.logger.Info("DELETE /session-types/{id} - Session type deactivated: id=%d, owner_id=%d", id, ownerID)
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

func (h *Handler) ownerAndID(w http.ResponseWriter, r *http.Request, route string) (int64, int64, bool) {
	id, err := handlers.PathInt64(r, "sessionTypeId")
	if err != nil {
		h.logger.Warn("%s - Invalid session type ID: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidSessionTypeID)
		return 0, 0, false
	}
	ownerID, ok := h.ownerID(w, r, route)
	return ownerID, id, ok
}

func (h *Handler) respondError(w http.ResponseWriter, route string, ownerID, id int64, err error) {
	if handlers.RespondDomainError(w, err, msgNotFound) {
		h.logger.Warn("%s - Rejected: owner_id=%d, session_type_id=%d, error=%v", route, ownerID, id, err)
		return
	}
	h.logger.Error("%s - Failed: owner_id=%d, session_type_id=%d, error=%v", route, ownerID, id, err)
}
