package change_booking_status

import (
	"context"
	"net/http"

	"github.com/m04kA/SMC-StudioBooking/internal/api/handlers"
	"github.com/m04kA/SMC-StudioBooking/internal/api/middleware"
	"github.com/m04kA/SMC-StudioBooking/internal/service/bookings/models"
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingOwnerID     = "отсутствует ID владельца"
	msgNotFound           = "бронирование не найдено"
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

type transitionFunc func(ctx context.Context, ownerID, id int64) (*models.BookingResponse, error)

// HandleConfirm POST /api/v1/booking/bookings/{bookingId}/confirm
func (h *Handler) HandleConfirm(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, "confirm", h.service.Confirm)
}

// HandleComplete POST /api/v1/booking/bookings/{bookingId}/complete
func (h *Handler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, "complete", h.service.Complete)
}

// HandleNoShow POST /api/v1/booking/bookings/{bookingId}/no-show
func (h *Handler) HandleNoShow(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, "no-show", h.service.MarkNoShow)
}

// HandleCancel POST /api/v1/booking/bookings/{bookingId}/cancel
// Тело необязательно: {"reason": "..."}
func (h *Handler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	var req models.CancelBookingRequest
	if r.ContentLength != 0 {
		if err := handlers.DecodeJSON(r, &req); err != nil {
			h.logger.Warn("POST /bookings/{id}/cancel - Invalid request body: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)
			return
		}
	}

	h.handle(w, r, "cancel", func(ctx context.Context, ownerID, id int64) (*models.BookingResponse, error) {
		return h.service.Cancel(ctx, ownerID, id, &req)
	})
}

func (h *Handler) handle(w http.ResponseWriter, r *http.Request, action string, fn transitionFunc) {
	bookingID, err := handlers.PathInt64(r, "bookingId")
	if err != nil {
		h.logger.Warn("POST /bookings/{id}/%s - Invalid booking ID: %v", action, err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	ownerID, ok := middleware.GetOwnerID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings/{id}/%s - Missing owner ID", action)
		handlers.RespondUnauthorized(w, msgMissingOwnerID)
		return
	}

	booking, err := fn(r.Context(), ownerID, bookingID)
	if err != nil {
		if handlers.RespondDomainError(w, err, msgNotFound) {
			h.logger.Warn("POST /bookings/{id}/%s - Rejected: booking_id=%d, owner_id=%d, error=%v",
				action, bookingID, ownerID, err)
			return
		}
		h.logger.Error("POST /bookings/{id}/%s - Failed: booking_id=%d, error=%v", action, bookingID, err)
		return
	}

	h.logger.Info("POST /bookings/{id}/%s - Booking updated successfully: booking_id=%d, status=%s",
		action, bookingID, booking.Status)
	handlers.RespondJSON(w, http.StatusOK, booking)
}
