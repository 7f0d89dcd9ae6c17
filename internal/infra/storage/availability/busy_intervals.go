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

// ListBusyIntervals внешние занятые интервалы в диапазоне дат
func (r *Repository) ListBusyIntervals(ctx context.Context, ownerID int64, from, to time.Time) ([]domain.BusyInterval, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "owner_id", "date", "start_time", "end_time", "title", "synced_at").
		From("external_busy_intervals").
		Where(squirrel.Eq{"owner_id": ownerID}).
		Where(squirrel.GtOrEq{"date": from.Format(domain.DateFormat)}).
		Where(squirrel.LtOrEq{"date": to.Format(domain.DateFormat)}).
		OrderBy("date ASC", "start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListBusyIntervals - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListBusyIntervals - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	busy := make([]domain.BusyInterval, 0)
	for rows.Next() {
		var b domain.BusyInterval
		if err := rows.Scan(&b.ID, &b.OwnerID, &b.Date, &b.StartTime, &b.EndTime, &b.Title, &b.SyncedAt); err != nil {
			return nil, fmt.Errorf("%w: ListBusyIntervals - scan row: %v", ErrScanRow, err)
		}
		b.Date = r.inLocation(b.Date)
		busy = append(busy, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListBusyIntervals - rows error: %v", ErrScanRow, err)
	}

	return busy, nil
}

// ReplaceBusyIntervals заменяет интервалы владельца в диапазоне дат результатом синхронизации
// Должен вызываться внутри транзакции
func (r *Repository) ReplaceBusyIntervals(ctx context.Context, ownerID int64, from, to time.Time, intervals []domain.BusyInterval) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("external_busy_intervals").
		Where(squirrel.Eq{"owner_id": ownerID}).
		Where(squirrel.GtOrEq{"date": from.Format(domain.DateFormat)}).
		Where(squirrel.LtOrEq{"date": to.Format(domain.DateFormat)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceBusyIntervals - build delete query: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ReplaceBusyIntervals - execute delete: %v", ErrExecQuery, err)
	}

	if len(intervals) == 0 {
		return nil
	}

	insert := psqlbuilder.Insert("external_busy_intervals").
		Columns("owner_id", "date", "start_time", "end_time", "title", "synced_at")
	for _, b := range intervals {
		insert = insert.Values(ownerID, b.Date.Format(domain.DateFormat), b.StartTime, b.EndTime, b.Title, b.SyncedAt)
	}

	query, args, err = insert.ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceBusyIntervals - build insert query: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ReplaceBusyIntervals - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}
