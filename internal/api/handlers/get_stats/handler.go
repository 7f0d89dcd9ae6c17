package get_stats

import (
	"net/http"
	"time"

	"github.com/m04kA/SMC-StudioBooking/internal/api/handlers"
	"github.com/m04kA/SMC-StudioBooking/internal/api/middleware"
	getStats "github.com/m04kA/SMC-StudioBooking/internal/usecase/get_stats"
)

const (
	msgMissingOwnerID = "отсутствует ID владельца"
	msgInvalidParams  = "start и end обязательны в формате YYYY-MM-DD"
	msgNotFound       = "данные не найдены"
)

type Handler struct {
	useCase GetStatsUseCase
	loc     *time.Location
	logger  Logger
}

func NewHandler(useCase GetStatsUseCase, loc *time.Location, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		loc:     loc,
		logger:  logger,
	}
}

// Handle GET /api/v1/booking/stats
// Query params: start, end (required, YYYY-MM-DD)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.GetOwnerID(r.Context())
	if !ok {
		h.logger.Warn("GET /stats - Missing owner ID")
		handlers.RespondUnauthorized(w, msgMissingOwnerID)
		return
	}

	start, errStart := handlers.QueryDate(r, "start", h.loc)
	end, errEnd := handlers.QueryDate(r, "end", h.loc)
	if errStart != nil || errEnd != nil || start == nil || end == nil {
		h.logger.Warn("GET /stats - Invalid period: start=%q, end=%q", r.URL.Query().Get("start"), r.URL.Query().Get("end"))
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getStats.Request{
		OwnerID:   ownerID,
		StartDate: *start,
		EndDate:   *end,
	})
	if err != nil {
		if handlers.RespondDomainError(w, err, msgNotFound) {
			h.logger.Warn("GET /stats - Rejected: owner_id=%d, error=%v", ownerID, err)
			return
		}
		h.logger.Error("GET /stats - Failed to compute stats: owner_id=%d, error=%v", ownerID, err)
		return
	}

	h.logger.Info("GET /stats - Stats computed: owner_id=%d, bookings=%d", ownerID, result.Totals.Bookings)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
