package batch_import

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-StudioBooking/internal/domain"
	sessionTypeRepo "github.com/m04kA/SMC-StudioBooking/internal/infra/storage/sessiontype"
	"github.com/m04kA/SMC-StudioBooking/internal/scheduling"
	"github.com/m04kA/SMC-StudioBooking/internal/usecase/snapshot"
	"github.com/m04kA/SMC-StudioBooking/pkg/ptr"
	"github.com/m04kA/SMC-StudioBooking/pkg/types"
	"github.com/m04kA/SMC-StudioBooking/pkg/validation"
)

// Parse проверяет строки пакета, ничего не записывая
// Ошибка одной строки не прерывает проверку остальных
func (uc *UseCase) Parse(ctx context.Context, req *ParseRequest) (*ParseResponse, error) {
	uc.logger.Info("ParseBatchImport: owner=%d, session_type=%d, rows=%d", req.OwnerID, req.SessionTypeID, len(req.Rows))

	// 1. Валидация пакета
	if err := validateBatch(req.OwnerID, req.SessionTypeID, len(req.Rows)); err != nil {
		uc.logger.Warn("ParseBatchImport: validation failed: %v", err)
		return nil, err
	}

	// 2. Тип сессии
	sessionType, err := uc.getSessionType(ctx, req.OwnerID, req.SessionTypeID)
	if err != nil {
		return nil, err
	}

	// 3. Разбор полей строк
	results := make([]RowResult, len(req.Rows))
	var from, to time.Time
	for i, row := range req.Rows {
		results[i] = uc.parseRow(i, row, sessionType)
		if len(results[i].Errors) > 0 {
			continue
		}
		d := results[i].Date
		if from.IsZero() || d.Before(from) {
			from = d
		}
		if to.IsZero() || d.After(to) {
			to = d
		}
	}

	// 4. Проверка слотов против существующих бронирований и принятых строк пакета
	if !from.IsZero() {
		if err := uc.checkSlots(ctx, req.OwnerID, sessionType, from, to, results); err != nil {
			return nil, err
		}
	}

	resp := &ParseResponse{Results: results}
	for i := range results {
		r := &results[i]
		switch {
		case len(r.Errors) > 0:
			r.Status = RowError
			resp.Error++
		case len(r.Warnings) > 0:
			r.Status = RowWarning
			resp.Warning++
		default:
			r.Status = RowValid
			resp.Valid++
		}
		uc.metrics.ObserveBatchRow(stageParse, string(r.Status))
	}

	uc.logger.Info("ParseBatchImport: owner=%d, valid=%d, warning=%d, error=%d",
		req.OwnerID, resp.Valid, resp.Warning, resp.Error)

	return resp, nil
}

// parseRow проверки, не зависящие от расписания
func (uc *UseCase) parseRow(index int, row Row, sessionType *domain.SessionType) RowResult {
	result := RowResult{Index: index, Errors: []string{}, Warnings: []string{}}

	date, err := uc.parseDate(strings.TrimSpace(row.Date))
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", row.Date))
	} else {
		result.Date = date
	}

	start := types.TimeString(strings.TrimSpace(row.StartTime))
	if err := start.Validate(); err != nil || start.IsZero() {
		result.Errors = append(result.Errors, fmt.Sprintf("invalid start time %q, expected HH:MM", row.StartTime))
	} else if end, err := scheduling.EndTime(start, sessionType.DurationMinutes); err != nil {
		result.Errors = append(result.Errors, "session does not fit into the day")
	} else {
		result.StartTime = start
		result.EndTime = end
	}

	if strings.TrimSpace(row.ContactName) == "" {
		result.Errors = append(result.Errors, "contact name is required")
	}
	if strings.TrimSpace(row.ContactEmail) == "" {
		result.Errors = append(result.Errors, "contact email is required")
	} else if err := validation.Email(row.ContactEmail); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("invalid contact email %q", row.ContactEmail))
	}
	if row.StudentCount != nil && *row.StudentCount <= 0 {
		result.Errors = append(result.Errors, "student count must be positive")
	}

	if row.ContactPhone == nil || strings.TrimSpace(*row.ContactPhone) == "" {
		result.Warnings = append(result.Warnings, "contact phone is missing")
	}
	if row.StudentCount != nil && sessionType.MaxParticipants != nil && *row.StudentCount > *sessionType.MaxParticipants {
		result.Warnings = append(result.Warnings, fmt.Sprintf("student count %d exceeds session capacity %d",
			*row.StudentCount, *sessionType.MaxParticipants))
	}

	return result
}

// checkSlots проверяет строки без ошибок по порядку
// Принятая строка занимает время для последующих строк пакета
func (uc *UseCase) checkSlots(
	ctx context.Context,
	ownerID int64,
	sessionType *domain.SessionType,
	from, to time.Time,
	results []RowResult,
) error {
	snap, err := snapshot.Load(ctx, uc.availabilityRepo, ownerID, from, to)
	if err != nil {
		uc.logger.Error("ParseBatchImport: failed to load availability for owner=%d: %v", ownerID, err)
		return fmt.Errorf("%w: failed to load availability: %v", ErrInternal, err)
	}

	existing, err := uc.bookingRepo.List(ctx, domain.BookingsFilter{OwnerID: ownerID, StartDate: &from, EndDate: &to})
	if err != nil {
		uc.logger.Error("ParseBatchImport: failed to get bookings: %v", err)
		return fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	now := uc.timeProvider.Now()
	accepted := make([]*domain.Booking, 0)

	for i := range results {
		r := &results[i]
		if len(r.Errors) > 0 {
			continue
		}

		bookings := append(snapshot.BookingsOn(existing, r.Date), snapshot.BookingsOn(accepted, r.Date)...)
		in := scheduling.Input{
			Day:         snap.Day(r.Date),
			SessionType: sessionType,
			Settings:    snap.Settings,
			Bookings:    bookings,
			Now:         now,
		}

		err := scheduling.CheckReservation(in, r.StartTime)
		if err == nil {
			accepted = append(accepted, &domain.Booking{
				BookingNumber:      fmt.Sprintf("row %d", r.Index+1),
				BookingDate:        r.Date,
				StartTime:          r.StartTime,
				EndTime:            r.EndTime,
				BufferAfterMinutes: sessionType.BufferAfterMinutes,
				Status:             domain.StatusPending,
			})
			continue
		}

		var conflict *domain.ConflictError
		var policy *domain.PolicyError
		switch {
		case errors.As(err, &conflict):
			r.Conflicts = conflict.Conflicts
			for _, c := range conflict.Conflicts {
				r.Errors = append(r.Errors, c.Message)
			}
			if suggestions := scheduling.Suggest(in, r.StartTime, 1); len(suggestions) > 0 {
				r.Suggestion = ptr.Ptr(suggestions[0])
			}
		case errors.As(err, &policy):
			r.Errors = append(r.Errors, policy.Message)
		default:
			r.Errors = append(r.Errors, err.Error())
		}
	}

	return nil
}

func (uc *UseCase) getSessionType(ctx context.Context, ownerID, id int64) (*domain.SessionType, error) {
	sessionType, err := uc.sessionTypeRepo.GetByID(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, sessionTypeRepo.ErrSessionTypeNotFound) {
			uc.logger.Warn("BatchImport: session type id=%d not found for owner=%d", id, ownerID)
			return nil, ErrSessionTypeNotFound
		}
		uc.logger.Error("BatchImport: failed to get session type id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: failed to get session type: %v", ErrInternal, err)
	}
	if !sessionType.IsActive {
		uc.logger.Warn("BatchImport: session type id=%d is inactive", id)
		return nil, ErrSessionTypeNotFound
	}
	return sessionType, nil
}

func validateBatch(ownerID, sessionTypeID int64, rows int) error {
	if ownerID <= 0 {
		return fmt.Errorf("%w: ownerID must be positive", ErrInvalidInput)
	}
	if sessionTypeID <= 0 {
		return fmt.Errorf("%w: sessionTypeID must be positive", ErrInvalidInput)
	}
	if rows == 0 {
		return fmt.Errorf("%w: no rows to import", ErrInvalidInput)
	}
	if rows > domain.MaxBatchRows {
		return fmt.Errorf("%w: at most %d rows per batch", ErrInvalidInput, domain.MaxBatchRows)
	}
	return nil
}
