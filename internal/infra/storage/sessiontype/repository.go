package sessiontype

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-StudioBooking/internal/domain"
	"github.com/m04kA/SMC-StudioBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-StudioBooking/pkg/psqlbuilder"
)

const (
	table = "session_types"

	// uniqueViolation SQLSTATE нарушения уникальности
	uniqueViolation = "23505"
)

var columns = []string{
	"id",
	"owner_id",
	"key",
	"name",
	"description",
	"color",
	"price",
	"duration_minutes",
	"buffer_after_minutes",
	"max_participants",
	"location_type",
	"default_location",
	"requires_approval",
	"auto_confirm",
	"min_notice_hours",
	"max_advance_days",
	"is_public",
	"is_active",
	"created_at",
	"updated_at",
}

// ListFilter фильтр списка типов сессий
type ListFilter struct {
	OwnerID    int64
	OnlyActive bool
	OnlyPublic bool
}

// Repository репозиторий типов сессий
type Repository struct {
	db DBExecutor
}

func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает тип сессии
func (r *Repository) Create(ctx context.Context, st *domain.SessionType) (*domain.SessionType, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns(columns[1:18]...).
		Values(
			st.OwnerID,
			st.Key,
			st.Name,
			st.Description,
			st.Color,
			st.Price,
			st.DurationMinutes,
			st.BufferAfterMinutes,
			st.MaxParticipants,
			st.LocationType,
			st.DefaultLocation,
			st.RequiresApproval,
			st.AutoConfirm,
			st.MinNoticeHours,
			st.MaxAdvanceDays,
			st.IsPublic,
			st.IsActive,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&st.ID, &st.CreatedAt, &st.UpdatedAt)
	if isUniqueViolation(err) {
		return nil, ErrDuplicateKey
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return st, nil
}

// Update сохраняет все изменяемые поля
func (r *Repository) Update(ctx context.Context, st *domain.SessionType) (*domain.SessionType, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("key", st.Key).
		Set("name", st.Name).
		Set("description", st.Description).
		Set("color", st.Color).
		Set("price", st.Price).
		Set("duration_minutes", st.DurationMinutes).
		Set("buffer_after_minutes", st.BufferAfterMinutes).
		Set("max_participants", st.MaxParticipants).
		Set("location_type", st.LocationType).
		Set("default_location", st.DefaultLocation).
		Set("requires_approval", st.RequiresApproval).
		Set("auto_confirm", st.AutoConfirm).
		Set("min_notice_hours", st.MinNoticeHours).
		Set("max_advance_days", st.MaxAdvanceDays).
		Set("is_public", st.IsPublic).
		Set("is_active", st.IsActive).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": st.ID, "owner_id": st.OwnerID}).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&st.CreatedAt, &st.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionTypeNotFound
	}
	if isUniqueViolation(err) {
		return nil, ErrDuplicateKey
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	return st, nil
}

// GetByID получает тип сессии владельца
func (r *Repository) GetByID(ctx context.Context, ownerID, id int64) (*domain.SessionType, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id, "owner_id": ownerID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	st, err := scanSessionType(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionTypeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan session type: %v", ErrScanRow, err)
	}

	return st, nil
}

// List типы сессий владельца
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]*domain.SessionType, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"owner_id": filter.OwnerID}).
		OrderBy("name ASC", "id ASC")

	if filter.OnlyActive {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"is_active": true})
	}
	if filter.OnlyPublic {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"is_public": true})
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

	result := make([]*domain.SessionType, 0)
	for rows.Next() {
		st, err := scanSessionType(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}
		result = append(result, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSessionType(row rowScanner) (*domain.SessionType, error) {
	var st domain.SessionType
	err := row.Scan(
		&st.ID,
		&st.OwnerID,
		&st.Key,
		&st.Name,
		&st.Description,
		&st.Color,
		&st.Price,
		&st.DurationMinutes,
		&st.BufferAfterMinutes,
		&st.MaxParticipants,
		&st.LocationType,
		&st.DefaultLocation,
		&st.RequiresApproval,
		&st.AutoConfirm,
		&st.MinNoticeHours,
		&st.MaxAdvanceDays,
		&st.IsPublic,
		&st.IsActive,
		&st.CreatedAt,
		&st.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
