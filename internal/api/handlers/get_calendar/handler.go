package get_calendar

import (
	"net/http"
	"time"

	"github.com/m04kA/SMC-StudioBooking/internal/api/handlers"
	"github.com/m04kA/SMC-StudioBooking/internal/api/middleware"
	"github.com/m04kA/SMC-StudioBooking/internal/domain"
)

const (
	msgMissingOwnerID      = "отсутствует ID владельца"
	msgInvalidParams       = "некорректные параметры запроса, start обязателен в формате YYYY-MM-DD"
	msgSessionTypeNotFound = "тип сессии не найден"
)

type Handler struct {
	useCase GetCalendarUseCase
	loc     *time.Location
	logger  Logger
}

func NewHandler(useCase GetCalendarUseCase, loc *time.Location, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		loc:     loc,
		logger:  logger,
	}
}

// Handle GET /api/v1/booking/calendar
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.GetOwnerID(r.Context())
	if !ok {
		h.logger.Warn("GET /calendar - Missing owner ID")
		handlers.RespondUnauthorized(w, msgMissingOwnerID)
		return
	}

	useCaseReq, err := ToUseCaseRequest(ownerID, r, h.loc)
	if err != nil {
		h.logger.Warn("GET /calendar - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		if handlers.RespondDomainError(w, err, msgSessionTypeNotFound) {
			h.logger.Warn("GET /calendar - Rejected: owner_id=%d, error=%v", ownerID, err)
			return
		}
		h.logger.Error("GET /calendar - Failed to build calendar: owner_id=%d, error=%v", ownerID, err)
		return
	}

	h.logger.Info("GET /calendar - Calendar built: owner_id=%d, view=%s, %s..%s, bookings=%d",
		ownerID, result.View, result.StartDate.Format(domain.DateFormat), result.EndDate.Format(domain.DateFormat), len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
