package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-StudioBooking/internal/domain"
	"github.com/m04kA/SMC-StudioBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-StudioBooking/pkg/psqlbuilder"
)

const table = "bookings"

var columns = []string{
	"id",
	"uuid",
	"booking_number",
	"owner_id",
	"session_type_id",
	"booking_date",
	"start_time",
	"end_time",
	"duration_minutes",
	"buffer_after_minutes",
	"timezone",
	"status",
	"source",
	"session_type_name",
	"contact_name",
	"contact_email",
	"contact_phone",
	"school_name",
	"class_name",
	"student_count",
	"location",
	"notes",
	"internal_notes",
	"cancellation_reason",
	"canceled_at",
	"completed_at",
	"status_changed_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db  DBExecutor
	loc *time.Location
}

// NewRepository создает новый экземпляр репозитория бронирований
// loc часовой пояс, в котором интерпретируются колонки DATE
func NewRepository(db DBExecutor, loc *time.Location) *Repository {
	if loc == nil {
		loc = time.UTC
	}
	return &Repository{db: db, loc: loc}
}

// Create создает новое бронирование
// Вызывается только из защищенного пути резервирования, внутри транзакции с блокировкой дня
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"uuid",
			"booking_number",
			"owner_id",
			"session_type_id",
			"booking_date",
			"start_time",
			"end_time",
			"duration_minutes",
			"buffer_after_minutes",
			"timezone",
			"status",
			"source",
			"session_type_name",
			"contact_name",
			"contact_email",
			"contact_phone",
			"school_name",
			"class_name",
			"student_count",
			"location",
			"notes",
			"internal_notes",
			"status_changed_at",
		).
		Values(
			booking.UUID,
			booking.BookingNumber,
			booking.OwnerID,
			booking.SessionTypeID,
			booking.BookingDate.Format(domain.DateFormat),
			booking.StartTime,
			booking.EndTime,
			booking.DurationMinutes,
			booking.BufferAfterMinutes,
			booking.Timezone,
			booking.Status,
			booking.Source,
			booking.SessionTypeName,
			booking.Contact.Name,
			booking.Contact.Email,
			booking.Contact.Phone,
			booking.SchoolName,
			booking.ClassName,
			booking.StudentCount,
			booking.Location,
			booking.Notes,
			booking.InternalNotes,
			booking.StatusChangedAt,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return booking, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	return r.getOne(ctx, "GetByID", squirrel.Eq{"id": id})
}

// GetByUUID получает бронирование по внешнему идентификатору
func (r *Repository) GetByUUID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	return r.getOne(ctx, "GetByUUID", squirrel.Eq{"uuid": id})
}

func (r *Repository) getOne(ctx context.Context, op string, where squirrel.Eq) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(where)

	// Внутри транзакции блокируем строку до конца изменения статуса
	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	booking, err := r.scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan booking: %v", ErrScanRow, op, err)
	}

	return booking, nil
}

// List получает бронирования владельца с фильтрацией
//
// Примеры:
//
// 1. Активные бронирования на дату (для проверки конфликтов):
//    filter := domain.BookingsFilter{OwnerID: 1, StartDate: &date, EndDate: &date}
//
// 2. Все бронирования за период включая отмененные (для календаря):
//    filter := domain.BookingsFilter{OwnerID: 1, StartDate: &from, EndDate: &to, IncludeInactive: true}
func (r *Repository) List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"owner_id": filter.OwnerID})

	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"booking_date": filter.StartDate.Format(domain.DateFormat)})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"booking_date": filter.EndDate.Format(domain.DateFormat)})
	}
	if filter.SessionTypeID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"session_type_id": *filter.SessionTypeID})
	}

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": string(*filter.Status)})
	} else if !filter.IncludeInactive {
		active := make([]string, len(domain.ActiveStatuses))
		for i, s := range domain.ActiveStatuses {
			active[i] = string(s)
		}
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": active})
	}

	selectBuilder = selectBuilder.OrderBy("booking_date ASC", "start_time ASC")

	// На одну дату внутри транзакции блокируем строки дня (путь резервирования)
	if dbmetrics.IsInTransaction(ctx) && filter.IsSingleDay() {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	bookings := make([]*domain.Booking, 0)
	for rows.Next() {
		booking, err := r.scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}

// UpdateStatus сохраняет статус и связанные с ним поля
func (r *Repository) UpdateStatus(ctx context.Context, booking *domain.Booking) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("status", booking.Status).
		Set("status_changed_at", booking.StatusChangedAt).
		Set("cancellation_reason", booking.CancellationReason).
		Set("canceled_at", booking.CanceledAt).
		Set("completed_at", booking.CompletedAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": booking.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	return r.execAffectingOne(ctx, executor, "UpdateStatus", query, args)
}

// Reschedule переносит бронирование на новую дату и время, сохраняя id и uuid
func (r *Repository) Reschedule(ctx context.Context, booking *domain.Booking) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("booking_date", booking.BookingDate.Format(domain.DateFormat)).
		Set("start_time", booking.StartTime).
		Set("end_time", booking.EndTime).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": booking.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Reschedule - build update query: %v", ErrBuildQuery, err)
	}

	return r.execAffectingOne(ctx, executor, "Reschedule", query, args)
}

// CountBySessionType количество бронирований, ссылающихся на тип сессии
func (r *Repository) CountBySessionType(ctx context.Context, sessionTypeID int64) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From(table).
		Where(squirrel.Eq{"session_type_id": sessionTypeID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CountBySessionType - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountBySessionType - scan count: %v", ErrScanRow, err)
	}
	return count, nil
}

// LockDay берет транзакционную advisory-блокировку на (владелец, дата)
// Освобождается автоматически при завершении транзакции
func (r *Repository) LockDay(ctx context.Context, ownerID int64, date time.Time) error {
	if !dbmetrics.IsInTransaction(ctx) {
		return ErrNotInTransaction
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select().
		Column(squirrel.Expr("pg_advisory_xact_lock(?::int, ?::int)", int32(ownerID), dayNumber(date))).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: LockDay - build query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: LockDay - execute: %v", ErrExecQuery, err)
	}
	return nil
}

func (r *Repository) execAffectingOne(ctx context.Context, executor DBExecutor, op, query string, args []interface{}) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}
	if rowsAffected == 0 {
		return ErrBookingNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanBooking сканирует одну строку в бронирование
func (r *Repository) scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking

	err := row.Scan(
		&booking.ID,
		&booking.UUID,
		&booking.BookingNumber,
		&booking.OwnerID,
		&booking.SessionTypeID,
		&booking.BookingDate,
		&booking.StartTime,
		&booking.EndTime,
		&booking.DurationMinutes,
		&booking.BufferAfterMinutes,
		&booking.Timezone,
		&booking.Status,
		&booking.Source,
		&booking.SessionTypeName,
		&booking.Contact.Name,
		&booking.Contact.Email,
		&booking.Contact.Phone,
		&booking.SchoolName,
		&booking.ClassName,
		&booking.StudentCount,
		&booking.Location,
		&booking.Notes,
		&booking.InternalNotes,
		&booking.CancellationReason,
		&booking.CanceledAt,
		&booking.CompletedAt,
		&booking.StatusChangedAt,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.BookingDate = inLocation(booking.BookingDate, r.loc)
	return &booking, nil
}

// inLocation переносит календарную дату из DATE (UTC) в часовой пояс владельца
func inLocation(date time.Time, loc *time.Location) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// dayNumber номер дня от эпохи для ключа advisory-блокировки
func dayNumber(date time.Time) int32 {
	y, m, d := date.Date()
	return int32(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400)
}
