package get_available_slots

import (
	"net/http"
	"strconv"
	"time"

	"github.com/m04kA/SMC-StudioBooking/internal/api/handlers"
	"github.com/m04kA/SMC-StudioBooking/internal/api/middleware"
	getAvailableSlots "github.com/m04kA/SMC-StudioBooking/internal/usecase/get_available_slots"
)

const (
	msgInvalidOwnerID       = "некорректный ID владельца"
	msgMissingOwnerID       = "отсутствует ID владельца"
	msgInvalidSessionTypeID = "некорректный или отсутствующий sessionTypeId"
	msgMissingDate          = "дата обязательна"
	msgInvalidDate          = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgSessionTypeNotFound  = "тип сессии не найден"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	loc     *time.Location
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, loc *time.Location, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		loc:     loc,
		logger:  logger,
	}
}

// HandlePublic GET /api/v1/public/{ownerId}/available-slots
// Query params: date (required, YYYY-MM-DD), sessionTypeId (required)
// Скрытые и неактивные типы сессий не видны
func (h *Handler) HandlePublic(w http.ResponseWriter, r *http.Request) {
	ownerID, err := handlers.PathInt64(r, "ownerId")
	if err != nil {
		h.logger.Warn("GET /public/{ownerId}/available-slots - Invalid owner ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidOwnerID)
		return
	}
	h.handle(w, r, ownerID, true)
}

// Handle GET /api/v1/booking/bookings/available-slots
// Query params: date (required, YYYY-MM-DD), sessionTypeId (required)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.GetOwnerID(r.Context())
	if !ok {
		h.logger.Warn("GET /bookings/available-slots - Missing owner ID")
		handlers.RespondUnauthorized(w, msgMissingOwnerID)
		return
	}
	h.handle(w, r, ownerID, false)
}

func (h *Handler) handle(w http.ResponseWriter, r *http.Request, ownerID int64, public bool) {
	sessionTypeID, err := strconv.ParseInt(r.URL.Query().Get("sessionTypeId"), 10, 64)
	if err != nil || sessionTypeID <= 0 {
		h.logger.Warn("GET available-slots - Invalid session type ID: owner_id=%d", ownerID)
		handlers.RespondBadRequest(w, msgInvalidSessionTypeID)
		return
	}

	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		h.logger.Warn("GET available-slots - Missing date: owner_id=%d", ownerID)
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}
	date, err := handlers.ParseDate(dateStr, h.loc)
	if err != nil {
		h.logger.Warn("GET available-slots - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getAvailableSlots.Request{
		OwnerID:       ownerID,
		SessionTypeID: sessionTypeID,
		Date:          date,
		PublicOnly:    public,
	})
	if err != nil {
		if handlers.RespondDomainError(w, err, msgSessionTypeNotFound) {
			h.logger.Warn("GET available-slots - Rejected: owner_id=%d, session_type_id=%d, error=%v",
				ownerID, sessionTypeID, err)
			return
		}
		h.logger.Error("GET available-slots - Failed to get slots: owner_id=%d, session_type_id=%d, error=%v",
			ownerID, sessionTypeID, err)
		return
	}

	h.logger.Info("GET available-slots - Slots retrieved successfully: owner_id=%d, session_type_id=%d, slots_count=%d",
		ownerID, sessionTypeID, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
