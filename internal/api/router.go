package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/m04kA/SMC-StudioBooking/internal/api/handlers"
	batchImportHandler "github.com/m04kA/SMC-StudioBooking/internal/api/handlers/batch_import"
	changeBookingStatusHandler "github.com/m04kA/SMC-StudioBooking/internal/api/handlers/change_booking_status"
	createBookingHandler "github.com/m04kA/SMC-StudioBooking/internal/api/handlers/create_booking"
	getAvailabilityHandler "github.com/m04kA/SMC-StudioBooking/internal/api/handlers/get_availability"
	getAvailableSlotsHandler "github.com/m04kA/SMC-StudioBooking/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/SMC-StudioBooking/internal/api/handlers/get_booking"
	getCalendarHandler "github.com/m04kA/SMC-StudioBooking/internal/api/handlers/get_calendar"
	getOwnerBookingsHandler "github.com/m04kA/SMC-StudioBooking/internal/api/handlers/get_owner_bookings"
	getPublicBookingHandler "github.com/m04kA/SMC-StudioBooking/internal/api/handlers/get_public_booking"
	getStatsHandler "github.com/m04kA/SMC-StudioBooking/internal/api/handlers/get_stats"
	rescheduleBookingHandler "github.com/m04kA/SMC-StudioBooking/internal/api/handlers/reschedule_booking"
	sessionTypesHandler "github.com/m04kA/SMC-StudioBooking/internal/api/handlers/session_types"
	syncCalendarHandler "github.com/m04kA/SMC-StudioBooking/internal/api/handlers/sync_calendar"
	updateAvailabilityHandler "github.com/m04kA/SMC-StudioBooking/internal/api/handlers/update_availability"
	"github.com/m04kA/SMC-StudioBooking/internal/api/middleware"
	"github.com/m04kA/SMC-StudioBooking/pkg/metrics"
)

// Handlers все обработчики HTTP API
type Handlers struct {
	AvailableSlots      *getAvailableSlotsHandler.Handler
	CreateBooking       *createBookingHandler.Handler
	GetBooking          *getBookingHandler.Handler
	PublicBooking       *getPublicBookingHandler.Handler
	OwnerBookings       *getOwnerBookingsHandler.Handler
	ChangeBookingStatus *changeBookingStatusHandler.Handler
	RescheduleBooking   *rescheduleBookingHandler.Handler
	SessionTypes        *sessionTypesHandler.Handler
	GetAvailability     *getAvailabilityHandler.Handler
	UpdateAvailability  *updateAvailabilityHandler.Handler
	Calendar            *getCalendarHandler.Handler
	Stats               *getStatsHandler.Handler
	BatchImport         *batchImportHandler.Handler
	SyncCalendar        *syncCalendarHandler.Handler
}

// Options инфраструктура роутера; nil поля отключают соответствующую функцию
type Options struct {
	Metrics     *metrics.Metrics
	MetricsPath string
	RateLimiter *middleware.RateLimiter
	Logger      middleware.Logger
}

// NewRouter собирает маршруты API
func NewRouter(h Handlers, opts Options) *mux.Router {
	r := mux.NewRouter()

	if opts.Logger != nil {
		r.Use(middleware.Recovery(opts.Logger))
	}

	// Добавляем metrics middleware (если метрики включены)
	if opts.Metrics != nil {
		r.Use(middleware.MetricsMiddleware(opts.Metrics))
		r.Handle(opts.MetricsPath, promhttp.Handler()).Methods(http.MethodGet)
	}

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации, с ограничением частоты)
	// ============================================================

	public := api.PathPrefix("/public").Subrouter()
	if opts.RateLimiter != nil {
		public.Use(opts.RateLimiter.Middleware)
	}

	// Ссылка на бронирование из письма клиенту
	public.HandleFunc("/bookings/{uuid}", h.PublicBooking.Handle).Methods(http.MethodGet)
	public.HandleFunc("/bookings/{uuid}/ics", h.PublicBooking.HandleICS).Methods(http.MethodGet)

	// Страница публичной записи владельца
	public.HandleFunc("/{ownerId:[0-9]+}/available-slots", h.AvailableSlots.HandlePublic).Methods(http.MethodGet)
	public.HandleFunc("/{ownerId:[0-9]+}/bookings", h.CreateBooking.HandlePublic).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (требуют X-Owner-ID header)
	// ============================================================

	protected := api.PathPrefix("/booking").Subrouter()
	protected.Use(middleware.Auth)

	// --- Типы сессий ---
	protected.HandleFunc("/session-types", h.SessionTypes.HandleList).Methods(http.MethodGet)
	protected.HandleFunc("/session-types", h.SessionTypes.HandleCreate).Methods(http.MethodPost)
	protected.HandleFunc("/session-types/{sessionTypeId}", h.SessionTypes.HandleGet).Methods(http.MethodGet)
	protected.HandleFunc("/session-types/{sessionTypeId}", h.SessionTypes.HandleUpdate).Methods(http.MethodPut)
	protected.HandleFunc("/session-types/{sessionTypeId}", h.SessionTypes.HandleDelete).Methods(http.MethodDelete)

	// --- Доступность ---
	protected.HandleFunc("/availability", h.GetAvailability.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/availability/patterns", h.UpdateAvailability.HandlePatterns).Methods(http.MethodPut)
	protected.HandleFunc("/availability/settings", h.UpdateAvailability.HandleSettings).Methods(http.MethodPut)
	protected.HandleFunc("/availability/overrides", h.UpdateAvailability.HandleCreateOverride).Methods(http.MethodPost)
	protected.HandleFunc("/availability/overrides/{overrideId}", h.UpdateAvailability.HandleDeleteOverride).Methods(http.MethodDelete)
	protected.HandleFunc("/availability/blocked-dates", h.UpdateAvailability.HandleCreateBlockedDate).Methods(http.MethodPost)
	protected.HandleFunc("/availability/blocked-dates/{blockedDateId}", h.UpdateAvailability.HandleDeleteBlockedDate).Methods(http.MethodDelete)

	// --- Бронирования ---
	// available-slots регистрируется до {bookingId}
	protected.HandleFunc("/bookings/available-slots", h.AvailableSlots.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings", h.OwnerBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings", h.CreateBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}", h.GetBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/confirm", h.ChangeBookingStatus.HandleConfirm).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}/cancel", h.ChangeBookingStatus.HandleCancel).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}/complete", h.ChangeBookingStatus.HandleComplete).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}/no-show", h.ChangeBookingStatus.HandleNoShow).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}/reschedule", h.RescheduleBooking.Handle).Methods(http.MethodPost)

	// --- Календарь и статистика ---
	protected.HandleFunc("/calendar", h.Calendar.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/stats", h.Stats.Handle).Methods(http.MethodGet)

	// --- Пакетный импорт ---
	protected.HandleFunc("/batch-import/parse", h.BatchImport.HandleParse).Methods(http.MethodPost)
	protected.HandleFunc("/batch-import/execute", h.BatchImport.HandleExecute).Methods(http.MethodPost)

	// --- Внешний календарь ---
	protected.HandleFunc("/calendar-sync", h.SyncCalendar.Handle).Methods(http.MethodPost)

	return r
}
