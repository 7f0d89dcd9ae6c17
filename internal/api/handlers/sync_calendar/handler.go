package sync_calendar

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/SMC-StudioBooking/internal/api/handlers"
	"github.com/m04kA/SMC-StudioBooking/internal/api/middleware"
	syncExternalCalendar "github.com/m04kA/SMC-StudioBooking/internal/usecase/sync_external_calendar"
)

const (
	msgMissingOwnerID     = "отсутствует ID владельца"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgNotConnected       = "внешний календарь не подключен"
	msgUnavailable        = "сервис внешнего календаря недоступен"
)

type Handler struct {
	useCase SyncCalendarUseCase
	loc     *time.Location
	logger  Logger
}

func NewHandler(useCase SyncCalendarUseCase, loc *time.Location, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		loc:     loc,
		logger:  logger,
	}
}

// Handle POST /api/v1/booking/calendar-sync
// Тело необязательно: {"from": "YYYY-MM-DD", "to": "YYYY-MM-DD"}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.GetOwnerID(r.Context())
	if !ok {
		h.logger.Warn("POST /calendar-sync - Missing owner ID")
		handlers.RespondUnauthorized(w, msgMissingOwnerID)
		return
	}

	var req SyncRequest
	if r.ContentLength != 0 {
		if err := handlers.DecodeJSON(r, &req); err != nil {
			h.logger.Warn("POST /calendar-sync - Invalid request body: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)
			return
		}
	}

	useCaseReq, err := req.ToUseCaseRequest(ownerID, h.loc)
	if err != nil {
		h.logger.Warn("POST /calendar-sync - Invalid range: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		if errors.Is(err, syncExternalCalendar.ErrUnavailable) {
			h.logger.Warn("POST /calendar-sync - External calendar unavailable: owner_id=%d, error=%v", ownerID, err)
			handlers.RespondError(w, http.StatusBadGateway, msgUnavailable)
			return
		}
		if handlers.RespondDomainError(w, err, msgNotConnected) {
			h.logger.Warn("POST /calendar-sync - Rejected: owner_id=%d, error=%v", ownerID, err)
			return
		}
		h.logger.Error("POST /calendar-sync - Failed: owner_id=%d, error=%v", ownerID, err)
		return
	}

	h.logger.Info("POST /calendar-sync - Synced: owner_id=%d, synced=%d, skipped=%d", ownerID, result.Synced, result.Skipped)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
