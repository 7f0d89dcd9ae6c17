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

// ListBlockedDates блокировки, пересекающиеся с диапазоном [from, to]
func (r *Repository) ListBlockedDates(ctx context.Context, ownerID int64, from, to time.Time) ([]domain.BlockedDate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "owner_id", "start_date", "end_date", "reason", "source", "created_at").
		From("blocked_dates").
		Where(squirrel.Eq{"owner_id": ownerID}).
		Where(squirrel.LtOrEq{"start_date": to.Format(domain.DateFormat)}).
		Where(squirrel.GtOrEq{"end_date": from.Format(domain.DateFormat)}).
		OrderBy("start_date ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListBlockedDates - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListBlockedDates - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	blocked := make([]domain.BlockedDate, 0)
	for rows.Next() {
		var b domain.BlockedDate
		if err := rows.Scan(&b.ID, &b.OwnerID, &b.StartDate, &b.EndDate, &b.Reason, &b.Source, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: ListBlockedDates - scan row: %v", ErrScanRow, err)
		}
		b.StartDate = r.inLocation(b.StartDate)
		b.EndDate = r.inLocation(b.EndDate)
		blocked = append(blocked, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListBlockedDates - rows error: %v", ErrScanRow, err)
	}

	return blocked, nil
}

// CreateBlockedDate закрывает диапазон дат
func (r *Repository) CreateBlockedDate(ctx context.Context, b *domain.BlockedDate) (*domain.BlockedDate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if b.Source == "" {
		b.Source = domain.BlockedSourceManual
	}

	query, args, err := psqlbuilder.Insert("blocked_dates").
		Columns("owner_id", "start_date", "end_date", "reason", "source").
		Values(b.OwnerID, b.StartDate.Format(domain.DateFormat), b.EndDate.Format(domain.DateFormat), b.Reason, b.Source).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateBlockedDate - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&b.ID, &b.CreatedAt); err != nil {
		return nil, fmt.Errorf("%w: CreateBlockedDate - execute insert: %v", ErrExecQuery, err)
	}

	return b, nil
}

// DeleteBlockedDate удаляет блокировку владельца
func (r *Repository) DeleteBlockedDate(ctx context.Context, ownerID, id int64) error {
	return r.deleteOwned(ctx, "DeleteBlockedDate", "blocked_dates", ownerID, id, ErrBlockedDateNotFound)
}
