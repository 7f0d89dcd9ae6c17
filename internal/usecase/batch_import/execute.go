package batch_import

import (
	"context"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-StudioBooking/internal/domain"
	"github.com/m04kA/SMC-StudioBooking/internal/usecase/create_booking"
	"github.com/m04kA/SMC-StudioBooking/pkg/types"
)

// Execute создает принятые строки по одной через защищенный путь создания
// Ошибка строки не откатывает уже созданные бронирования
func (uc *UseCase) Execute(ctx context.Context, req *ExecuteRequest) (*ExecuteResponse, error) {
	uc.logger.Info("ExecuteBatchImport: owner=%d, session_type=%d, rows=%d", req.OwnerID, req.SessionTypeID, len(req.Rows))

	// 1. Валидация пакета
	if err := validateBatch(req.OwnerID, req.SessionTypeID, len(req.Rows)); err != nil {
		uc.logger.Warn("ExecuteBatchImport: validation failed: %v", err)
		return nil, err
	}

	resp := &ExecuteResponse{Results: make([]ExecuteResult, 0, len(req.Rows))}

	// 2. Строки по порядку
	for i, row := range req.Rows {
		if !row.Accepted {
			continue
		}

		result := ExecuteResult{Index: i}

		created, err := uc.createRow(ctx, req, row)
		if err != nil {
			uc.logger.Warn("ExecuteBatchImport: row %d failed: %v", i, err)
			result.Error = err.Error()
			resp.Failed++
			uc.metrics.ObserveBatchRow(stageExecute, resultFailed)
		} else {
			result.Booking = created
			resp.Created++
			uc.metrics.ObserveBatchRow(stageExecute, resultOK)
		}

		resp.Results = append(resp.Results, result)
	}

	uc.logger.Info("ExecuteBatchImport: owner=%d, created=%d, failed=%d", req.OwnerID, resp.Created, resp.Failed)

	return resp, nil
}

func (uc *UseCase) createRow(ctx context.Context, req *ExecuteRequest, row ExecuteRow) (*domain.Booking, error) {
	date, err := uc.parseDate(strings.TrimSpace(row.Date))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date %q", domain.ErrValidation, row.Date)
	}

	start := types.TimeString(strings.TrimSpace(row.StartTime))
	if row.UseSuggestion {
		if row.SuggestedStartTime == "" {
			return nil, fmt.Errorf("%w: suggested start time is required", domain.ErrValidation)
		}
		start = types.TimeString(strings.TrimSpace(row.SuggestedStartTime))
	}

	contact := domain.Contact{
		Name:  strings.TrimSpace(row.ContactName),
		Email: strings.TrimSpace(row.ContactEmail),
		Phone: row.ContactPhone,
	}

	resp, err := uc.creator.Execute(ctx, &create_booking.Request{
		OwnerID:       req.OwnerID,
		SessionTypeID: req.SessionTypeID,
		Date:          date,
		StartTime:     start,
		Contact:       contact,
		SchoolName:    row.SchoolName,
		ClassName:     row.ClassName,
		StudentCount:  row.StudentCount,
		Location:      row.Location,
		Notes:         row.Notes,
		Source:        domain.SourceCSVImport,
	})
	if err != nil {
		return nil, err
	}
	return resp.Booking, nil
}
