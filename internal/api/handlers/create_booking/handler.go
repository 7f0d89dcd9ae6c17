package create_booking

import (
	"net/http"
	"time"

	"github.com/m04kA/SMC-StudioBooking/internal/api/handlers"
	"github.com/m04kA/SMC-StudioBooking/internal/api/middleware"
	bookingsModels "github.com/m04kA/SMC-StudioBooking/internal/service/bookings/models"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgInvalidDateOrTime   = "некорректная дата или время, ожидается YYYY-MM-DD и HH:MM"
	msgInvalidOwnerID      = "некорректный ID владельца"
	msgMissingOwnerID      = "отсутствует ID владельца"
	msgSessionTypeNotFound = "тип сессии не найден"
)

type Handler struct {
	useCase CreateBookingUseCase
	loc     *time.Location
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, loc *time.Location, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		loc:     loc,
		logger:  logger,
	}
}

// Handle POST /api/v1/booking/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.GetOwnerID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing owner ID")
		handlers.RespondUnauthorized(w, msgMissingOwnerID)
		return
	}
	h.handle(w, r, ownerID, false)
}

// HandlePublic POST /api/v1/public/{ownerId}/bookings
func (h *Handler) HandlePublic(w http.ResponseWriter, r *http.Request) {
	ownerID, err := handlers.PathInt64(r, "ownerId")
	if err != nil {
		h.logger.Warn("POST /public/{ownerId}/bookings - Invalid owner ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidOwnerID)
		return
	}
	h.handle(w, r, ownerID, true)
}

func (h *Handler) handle(w http.ResponseWriter, r *http.Request, ownerID int64, public bool) {
	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST bookings - Invalid request body: owner_id=%d, error=%v", ownerID, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(ownerID, h.loc, public)
	if err != nil {
		h.logger.Warn("POST bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateOrTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		if handlers.RespondDomainError(w, err, msgSessionTypeNotFound) {
			h.logger.Warn("POST bookings - Rejected: owner_id=%d, date=%s, start=%s, error=%v",
				ownerID, req.BookingDate, req.StartTime, err)
			return
		}
		h.logger.Error("POST bookings - Failed to create booking: owner_id=%d, error=%v", ownerID, err)
		return
	}

	response := bookingsModels.FromDomainBooking(result.Booking)
	if public {
		response = bookingsModels.FromDomainBookingPublic(result.Booking)
	}

	h.logger.Info("POST bookings - Booking created successfully: booking_id=%d, owner_id=%d, status=%s",
		result.Booking.ID, ownerID, result.Booking.Status)
	handlers.RespondJSON(w, http.StatusCreated, response)
}
