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

// Repository шаблоны, настройки, исключения и внешние занятые интервалы владельца
type Repository struct {
	db  DBExecutor
	loc *time.Location
}

// NewRepository создает репозиторий; loc часовой пояс для колонок DATE
func NewRepository(db DBExecutor, loc *time.Location) *Repository {
	if loc == nil {
		loc = time.UTC
	}
	return &Repository{db: db, loc: loc}
}

// GetPatterns недельные шаблоны владельца
func (r *Repository) GetPatterns(ctx context.Context, ownerID int64) ([]domain.AvailabilityPattern, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "owner_id", "weekday", "start_time", "end_time", "is_active").
		From("availability_patterns").
		Where(squirrel.Eq{"owner_id": ownerID}).
		OrderBy("weekday ASC", "start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetPatterns - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetPatterns - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	patterns := make([]domain.AvailabilityPattern, 0)
	for rows.Next() {
		var p domain.AvailabilityPattern
		if err := rows.Scan(&p.ID, &p.OwnerID, &p.Weekday, &p.StartTime, &p.EndTime, &p.IsActive); err != nil {
			return nil, fmt.Errorf("%w: GetPatterns - scan row: %v", ErrScanRow, err)
		}
		patterns = append(patterns, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetPatterns - rows error: %v", ErrScanRow, err)
	}

	return patterns, nil
}

// ReplacePatterns заменяет все шаблоны владельца
// Должен вызываться внутри транзакции, иначе возможна частичная замена
func (r *Repository) ReplacePatterns(ctx context.Context, ownerID int64, patterns []domain.AvailabilityPattern) ([]domain.AvailabilityPattern, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("availability_patterns").
		Where(squirrel.Eq{"owner_id": ownerID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ReplacePatterns - build delete query: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("%w: ReplacePatterns - execute delete: %v", ErrExecQuery, err)
	}

	if len(patterns) == 0 {
		return []domain.AvailabilityPattern{}, nil
	}

	insert := psqlbuilder.Insert("availability_patterns").
		Columns("owner_id", "weekday", "start_time", "end_time", "is_active")
	for _, p := range patterns {
		insert = insert.Values(ownerID, p.Weekday, p.StartTime, p.EndTime, p.IsActive)
	}

	query, args, err = insert.Suffix("RETURNING id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ReplacePatterns - build insert query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ReplacePatterns - execute insert: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	saved := make([]domain.AvailabilityPattern, len(patterns))
	copy(saved, patterns)
	for i := 0; rows.Next(); i++ {
		if err := rows.Scan(&saved[i].ID); err != nil {
			return nil, fmt.Errorf("%w: ReplacePatterns - scan id: %v", ErrScanRow, err)
		}
		saved[i].OwnerID = ownerID
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ReplacePatterns - rows error: %v", ErrScanRow, err)
	}

	return saved, nil
}

// inLocation переносит календарную дату из DATE (UTC) в часовой пояс владельца
func (r *Repository) inLocation(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, r.loc)
}
