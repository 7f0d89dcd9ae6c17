package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-StudioBooking/internal/domain"
	"github.com/m04kA/SMC-StudioBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-StudioBooking/pkg/psqlbuilder"
)

// ListOverrides overrides владельца в диапазоне дат (включительно)
func (r *Repository) ListOverrides(ctx context.Context, ownerID int64, from, to time.Time) ([]domain.AvailabilityOverride, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "owner_id", "date", "start_time", "end_time", "note", "created_at").
		From("availability_overrides").
		Where(squirrel.Eq{"owner_id": ownerID}).
		Where(squirrel.GtOrEq{"date": from.Format(domain.DateFormat)}).
		Where(squirrel.LtOrEq{"date": to.Format(domain.DateFormat)}).
		OrderBy("date ASC", "start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListOverrides - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListOverrides - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	overrides := make([]domain.AvailabilityOverride, 0)
	for rows.Next() {
		var o domain.AvailabilityOverride
		if err := rows.Scan(&o.ID, &o.OwnerID, &o.Date, &o.StartTime, &o.EndTime, &o.Note, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: ListOverrides - scan row: %v", ErrScanRow, err)
		}
		o.Date = r.inLocation(o.Date)
		overrides = append(overrides, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListOverrides - rows error: %v", ErrScanRow, err)
	}

	return overrides, nil
}

// CreateOverride добавляет доступность на конкретную дату
func (r *Repository) CreateOverride(ctx context.Context, o *domain.AvailabilityOverride) (*domain.AvailabilityOverride, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("availability_overrides").
		Columns("owner_id", "date", "start_time", "end_time", "note").
		Values(o.OwnerID, o.Date.Format(domain.DateFormat), o.StartTime, o.EndTime, o.Note).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateOverride - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&o.ID, &o.CreatedAt); err != nil {
		return nil, fmt.Errorf("%w: CreateOverride - execute insert: %v", ErrExecQuery, err)
	}

	return o, nil
}

// DeleteOverride удаляет override владельца
func (r *Repository) DeleteOverride(ctx context.Context, ownerID, id int64) error {
	return r.deleteOwned(ctx, "DeleteOverride", "availability_overrides", ownerID, id, ErrOverrideNotFound)
}

func (r *Repository) deleteOwned(ctx context.Context, op, tableName string, ownerID, id int64, notFound error) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(tableName).
		Where(squirrel.Eq{"id": id, "owner_id": ownerID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %s - build delete query: %v", ErrBuildQuery, op, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute delete: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}
	if rowsAffected == 0 {
		return notFound
	}

	return nil
}
