package availability

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-StudioBooking/internal/domain"
	"github.com/m04kA/SMC-StudioBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-StudioBooking/pkg/psqlbuilder"
)

// GetSettings глобальные настройки владельца
// Возвращает ErrSettingsNotFound, если настройки еще не сохранялись
func (r *Repository) GetSettings(ctx context.Context, ownerID int64) (*domain.AvailabilitySettings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"owner_id",
		"buffer_minutes",
		"max_daily",
		"min_notice_hours",
		"max_advance_days",
		"updated_at",
	).
		From("availability_settings").
		Where(squirrel.Eq{"owner_id": ownerID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetSettings - build select query: %v", ErrBuildQuery, err)
	}

	var s domain.AvailabilitySettings
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&s.OwnerID,
		&s.BufferMinutes,
		&s.MaxDaily,
		&s.MinNoticeHours,
		&s.MaxAdvanceDays,
		&s.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSettingsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetSettings - scan settings: %v", ErrScanRow, err)
	}

	return &s, nil
}

// UpsertSettings сохраняет настройки владельца
func (r *Repository) UpsertSettings(ctx context.Context, s *domain.AvailabilitySettings) (*domain.AvailabilitySettings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("availability_settings").
		Columns("owner_id", "buffer_minutes", "max_daily", "min_notice_hours", "max_advance_days").
		Values(s.OwnerID, s.BufferMinutes, s.MaxDaily, s.MinNoticeHours, s.MaxAdvanceDays).
		Suffix(`ON CONFLICT (owner_id) DO UPDATE SET
			buffer_minutes = EXCLUDED.buffer_minutes,
			max_daily = EXCLUDED.max_daily,
			min_notice_hours = EXCLUDED.min_notice_hours,
			max_advance_days = EXCLUDED.max_advance_days,
			updated_at = NOW()
		RETURNING updated_at`).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: UpsertSettings - build upsert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&s.UpdatedAt); err != nil {
		return nil, fmt.Errorf("%w: UpsertSettings - execute upsert: %v", ErrExecQuery, err)
	}

	return s, nil
}
