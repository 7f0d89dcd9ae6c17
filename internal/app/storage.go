package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/m04kA/SMC-StudioBooking/internal/config"
	"github.com/m04kA/SMC-StudioBooking/internal/domain"
	availabilityRepo "github.com/m04kA/SMC-StudioBooking/internal/infra/storage/availability"
	bookingRepo "github.com/m04kA/SMC-StudioBooking/internal/infra/storage/booking"
	"github.com/m04kA/SMC-StudioBooking/internal/infra/storage/memory"
	"github.com/m04kA/SMC-StudioBooking/internal/infra/storage/migrations"
	sessionTypeRepo "github.com/m04kA/SMC-StudioBooking/internal/infra/storage/sessiontype"
	"github.com/m04kA/SMC-StudioBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-StudioBooking/pkg/logger"
	"github.com/m04kA/SMC-StudioBooking/pkg/metrics"
	"github.com/m04kA/SMC-StudioBooking/pkg/txmanager"
)

// bookingStore бронирования; реализуется postgres и memory хранилищами
type bookingStore interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByUUID(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
	List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
	UpdateStatus(ctx context.Context, booking *domain.Booking) error
	Reschedule(ctx context.Context, booking *domain.Booking) error
	CountBySessionType(ctx context.Context, sessionTypeID int64) (int, error)
	LockDay(ctx context.Context, ownerID int64, date time.Time) error
}

type sessionTypeStore interface {
	Create(ctx context.Context, st *domain.SessionType) (*domain.SessionType, error)
	Update(ctx context.Context, st *domain.SessionType) (*domain.SessionType, error)
	GetByID(ctx context.Context, ownerID, id int64) (*domain.SessionType, error)
	List(ctx context.Context, filter sessionTypeRepo.ListFilter) ([]*domain.SessionType, error)
}

type availabilityStore interface {
	GetPatterns(ctx context.Context, ownerID int64) ([]domain.AvailabilityPattern, error)
	ReplacePatterns(ctx context.Context, ownerID int64, patterns []domain.AvailabilityPattern) ([]domain.AvailabilityPattern, error)
	GetSettings(ctx context.Context, ownerID int64) (*domain.AvailabilitySettings, error)
	UpsertSettings(ctx context.Context, s *domain.AvailabilitySettings) (*domain.AvailabilitySettings, error)
	ListOverrides(ctx context.Context, ownerID int64, from, to time.Time) ([]domain.AvailabilityOverride, error)
	CreateOverride(ctx context.Context, o *domain.AvailabilityOverride) (*domain.AvailabilityOverride, error)
	DeleteOverride(ctx context.Context, ownerID, id int64) error
	ListBlockedDates(ctx context.Context, ownerID int64, from, to time.Time) ([]domain.BlockedDate, error)
	CreateBlockedDate(ctx context.Context, b *domain.BlockedDate) (*domain.BlockedDate, error)
	DeleteBlockedDate(ctx context.Context, ownerID, id int64) error
	ListBusyIntervals(ctx context.Context, ownerID int64, from, to time.Time) ([]domain.BusyInterval, error)
	ReplaceBusyIntervals(ctx context.Context, ownerID int64, from, to time.Time, intervals []domain.BusyInterval) error
}

type transactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Storage выбранное хранилище со всеми репозиториями
type Storage struct {
	Bookings     bookingStore
	SessionTypes sessionTypeStore
	Availability availabilityStore
	TxManager    transactionManager

	db *dbmetrics.DB
}

// NewMemoryStorage хранилище в памяти процесса
func NewMemoryStorage(loc *time.Location) *Storage {
	store := memory.NewStore(loc)
	return &Storage{
		Bookings:     store.Bookings(),
		SessionTypes: store.SessionTypes(),
		Availability: store.Availability(),
		TxManager:    memory.NewTxManager(store),
	}
}

// OpenPostgres подключается к базе и настраивает пул соединений
func OpenPostgres(cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)

	return db, nil
}

// NewPostgresStorage хранилище в PostgreSQL; m может быть nil
func NewPostgresStorage(ctx context.Context, cfg *config.Config, loc *time.Location, m *metrics.Metrics, log *logger.Logger) (*Storage, error) {
	raw, err := OpenPostgres(cfg.Database)
	if err != nil {
		return nil, err
	}

	db := dbmetrics.NewDB(raw, m, cfg.Metrics.ServiceName)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	if cfg.Database.AutoMigrate {
		migrator, err := migrations.NewMigrator(raw, log)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		if err := migrator.Up(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	return &Storage{
		Bookings:     bookingRepo.NewRepository(db, loc),
		SessionTypes: sessionTypeRepo.NewRepository(db),
		Availability: availabilityRepo.NewRepository(db, loc),
		TxManager:    txmanager.New(db, log, cfg.Scheduling.ReservationRetries),
		db:           db,
	}, nil
}

// StartPoolStats сбор статистики пула соединений до отмены ctx
func (s *Storage) StartPoolStats(ctx context.Context, interval time.Duration) {
	if s.db == nil || interval <= 0 {
		return
	}
	s.db.StartPoolStatsCollector(ctx, interval)
}

func (s *Storage) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
