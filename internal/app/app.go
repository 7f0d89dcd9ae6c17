package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/m04kA/SMC-StudioBooking/internal/api"
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
	"github.com/m04kA/SMC-StudioBooking/internal/config"
	"github.com/m04kA/SMC-StudioBooking/internal/domain"
	"github.com/m04kA/SMC-StudioBooking/internal/integrations/events"
	"github.com/m04kA/SMC-StudioBooking/internal/integrations/externalcalendar"
	availabilityService "github.com/m04kA/SMC-StudioBooking/internal/service/availability"
	bookingsService "github.com/m04kA/SMC-StudioBooking/internal/service/bookings"
	sessionTypesService "github.com/m04kA/SMC-StudioBooking/internal/service/sessiontypes"
	batchImportUC "github.com/m04kA/SMC-StudioBooking/internal/usecase/batch_import"
	createBookingUC "github.com/m04kA/SMC-StudioBooking/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/SMC-StudioBooking/internal/usecase/get_available_slots"
	getCalendarUC "github.com/m04kA/SMC-StudioBooking/internal/usecase/get_calendar"
	getStatsUC "github.com/m04kA/SMC-StudioBooking/internal/usecase/get_stats"
	rescheduleBookingUC "github.com/m04kA/SMC-StudioBooking/internal/usecase/reschedule_booking"
	"github.com/m04kA/SMC-StudioBooking/internal/usecase/reservation"
	syncCalendarUC "github.com/m04kA/SMC-StudioBooking/internal/usecase/sync_external_calendar"
	"github.com/m04kA/SMC-StudioBooking/pkg/daylock"
	"github.com/m04kA/SMC-StudioBooking/pkg/logger"
	"github.com/m04kA/SMC-StudioBooking/pkg/metrics"
)

// Publisher публикатор событий бронирований
type Publisher interface {
	Publish(ctx context.Context, event domain.BookingEvent)
	Close() error
}

// App собранный сервис: хранилище, HTTP сервер и фоновая синхронизация
type App struct {
	cfg       *config.Config
	log       *logger.Logger
	loc       *time.Location
	metrics   *metrics.Metrics
	storage   *Storage
	publisher Publisher
	server    *http.Server
	scheduler *Scheduler
}

// New собирает сервис по конфигурации
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	loc, err := cfg.Scheduling.Location()
	if err != nil {
		return nil, fmt.Errorf("load timezone: %w", err)
	}

	a := &App{cfg: cfg, log: log, loc: loc}

	// Инициализируем метрики (если включены)
	if cfg.Metrics.Enabled {
		a.metrics = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	switch cfg.Database.Driver {
	case config.DriverMemory:
		a.storage = NewMemoryStorage(loc)
		log.Warn("Using in-memory storage, data will be lost on restart")
	default:
		a.storage, err = NewPostgresStorage(ctx, cfg, loc, a.metrics, log)
		if err != nil {
			return nil, err
		}
	}

	a.publisher = a.newPublisher(ctx)

	deps := a.build()
	a.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler:      deps.router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	if cfg.ExternalCalendar.Enabled && len(cfg.ExternalCalendar.Owners) > 0 {
		a.scheduler = NewScheduler(
			deps.syncCalendar,
			cfg.ExternalCalendar.Owners,
			time.Duration(cfg.ExternalCalendar.Interval)*time.Second,
			log,
		)
	}

	return a, nil
}

func (a *App) newPublisher(ctx context.Context) Publisher {
	if !a.cfg.Events.Enabled {
		return events.NopPublisher{}
	}

	p := events.NewRedisPublisher(events.Options{
		Addr:     a.cfg.Events.Addr,
		Password: a.cfg.Events.Password,
		DB:       a.cfg.Events.DB,
		Channel:  a.cfg.Events.Channel,
		Timeout:  time.Duration(a.cfg.Events.Timeout) * time.Second,
	}, a.log, a.metrics)

	// Недоступный Redis не мешает старту: события только теряются
	if err := p.Ping(ctx); err != nil {
		a.log.Warn("Redis is unavailable at %s: %v", a.cfg.Events.Addr, err)
	} else {
		a.log.Info("Booking events will be published to %s", a.cfg.Events.Channel)
	}
	return p
}

type dependencies struct {
	router       http.Handler
	syncCalendar *syncCalendarUC.UseCase
}

// build собирает use cases, сервисы и handlers поверх выбранного хранилища
func (a *App) build() dependencies {
	cfg, log, st, m := a.cfg, a.log, a.storage, a.metrics

	guard := reservation.NewGuard(daylock.New(), st.TxManager, st.Bookings)

	// Инициализируем use cases
	createBooking := createBookingUC.NewUseCase(st.Bookings, st.SessionTypes, st.Availability, guard, a.publisher, m, log).
		WithSuggestionsLimit(cfg.Scheduling.SuggestionsLimit)
	rescheduleBooking := rescheduleBookingUC.NewUseCase(st.Bookings, st.SessionTypes, st.Availability, guard, a.publisher, m, log).
		WithSuggestionsLimit(cfg.Scheduling.SuggestionsLimit)
	getAvailableSlots := getAvailableSlotsUC.NewUseCase(st.Bookings, st.SessionTypes, st.Availability, log)
	getCalendar := getCalendarUC.NewUseCase(st.Bookings, st.SessionTypes, st.Availability, log).
		WithCapacityFloor(cfg.Scheduling.CapacityFloor)
	getStats := getStatsUC.NewUseCase(st.Bookings, st.SessionTypes, st.Availability, log).
		WithCapacityFloor(cfg.Scheduling.CapacityFloor)
	batchImport := batchImportUC.NewUseCase(st.Bookings, st.SessionTypes, st.Availability, createBooking, m, a.loc, log)

	calendarClient := externalcalendar.NewClient(
		cfg.ExternalCalendar.BaseURL,
		time.Duration(cfg.ExternalCalendar.Timeout)*time.Second,
		log,
	)
	syncCalendar := syncCalendarUC.NewUseCase(calendarClient, st.Availability, st.TxManager, m, a.loc, cfg.ExternalCalendar.RangeDays, log)

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(st.Bookings, guard, a.publisher, m, log)
	availabilitySvc := availabilityService.NewService(st.Availability, st.TxManager, a.loc, log)
	sessionTypeSvc := sessionTypesService.NewService(st.SessionTypes, st.Bookings, log)

	// Инициализируем handlers
	handlers := api.Handlers{
		AvailableSlots:      getAvailableSlotsHandler.NewHandler(getAvailableSlots, a.loc, log),
		CreateBooking:       createBookingHandler.NewHandler(createBooking, a.loc, log),
		GetBooking:          getBookingHandler.NewHandler(bookingSvc, log),
		PublicBooking:       getPublicBookingHandler.NewHandler(bookingSvc, log),
		OwnerBookings:       getOwnerBookingsHandler.NewHandler(bookingSvc, a.loc, log),
		ChangeBookingStatus: changeBookingStatusHandler.NewHandler(bookingSvc, log),
		RescheduleBooking:   rescheduleBookingHandler.NewHandler(rescheduleBooking, a.loc, log),
		SessionTypes:        sessionTypesHandler.NewHandler(sessionTypeSvc, log),
		GetAvailability:     getAvailabilityHandler.NewHandler(availabilitySvc, log),
		UpdateAvailability:  updateAvailabilityHandler.NewHandler(availabilitySvc, a.loc, log),
		Calendar:            getCalendarHandler.NewHandler(getCalendar, a.loc, log),
		Stats:               getStatsHandler.NewHandler(getStats, a.loc, log),
		BatchImport:         batchImportHandler.NewHandler(batchImport, log),
		SyncCalendar:        syncCalendarHandler.NewHandler(syncCalendar, a.loc, log),
	}

	opts := api.Options{
		Metrics:     m,
		MetricsPath: cfg.Metrics.Path,
		Logger:      log,
	}
	if cfg.RateLimit.Enabled {
		opts.RateLimiter = middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}

	return dependencies{
		router:       api.NewRouter(handlers, opts),
		syncCalendar: syncCalendar,
	}
}

// Handler HTTP обработчик сервиса
func (a *App) Handler() http.Handler {
	return a.server.Handler
}

// Run обслуживает запросы до отмены ctx, затем корректно останавливается
func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	if a.cfg.Metrics.Enabled {
		a.storage.StartPoolStats(gctx, time.Duration(a.cfg.Metrics.PoolStatsInterval)*time.Second)
	}

	if a.scheduler != nil {
		g.Go(func() error {
			a.scheduler.Start(gctx)
			return nil
		})
	}

	g.Go(func() error {
		a.log.Info("Starting server on %s", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		return a.shutdown()
	})

	return g.Wait()
}

func (a *App) shutdown() error {
	a.log.Info("Shutting down server...")

	if a.scheduler != nil {
		a.scheduler.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(a.cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	a.log.Info("Server stopped gracefully")
	return nil
}

// Close освобождает хранилище и соединение с Redis
func (a *App) Close() error {
	var errs []error
	if err := a.publisher.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close publisher: %w", err))
	}
	if err := a.storage.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close storage: %w", err))
	}
	return errors.Join(errs...)
}
