package batch_import

import (
	"github.com/m04kA/SMC-StudioBooking/internal/api/handlers"
	"github.com/m04kA/SMC-StudioBooking/internal/domain"
	bookingsModels "github.com/m04kA/SMC-StudioBooking/internal/service/bookings/models"
	batchImport "github.com/m04kA/SMC-StudioBooking/internal/usecase/batch_import"
)

// RowRequest строка импорта, как ее прислал клиент после разбора файла
type RowRequest struct {
	Date         string  `json:"date"`
	StartTime    string  `json:"startTime"`
	ContactName  string  `json:"contactName"`
	ContactEmail string  `json:"contactEmail"`
	ContactPhone *string `json:"contactPhone,omitempty"`
	SchoolName   *string `json:"schoolName,omitempty"`
	ClassName    *string `json:"className,omitempty"`
	StudentCount *int    `json:"studentCount,omitempty"`
	Location     *string `json:"location,omitempty"`
	Notes        *string `json:"notes,omitempty"`
}

// ParseRequest HTTP request model
// Строки проверяет use case, чтобы вернуть ошибки построчно, а не отклонить весь пакет
type ParseRequest struct {
	SessionTypeID int64        `json:"sessionTypeId" validate:"required,gt=0"`
	Rows          []RowRequest `json:"rows" validate:"required,min=1"`
}

// ExecuteRowRequest строка, подтвержденная пользователем
type ExecuteRowRequest struct {
	RowRequest
	Accepted           bool   `json:"accepted"`
	UseSuggestion      bool   `json:"useSuggestion"`
	SuggestedStartTime string `json:"suggestedStartTime,omitempty"`
}

// ExecuteRequest HTTP request model
type ExecuteRequest struct {
	SessionTypeID int64               `json:"sessionTypeId" validate:"required,gt=0"`
	Rows          []ExecuteRowRequest `json:"rows" validate:"required,min=1"`
}

type ConflictResponse struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type RowResultResponse struct {
	Index      int                    `json:"index"`
	Status     string                 `json:"status"`
	Date       string                 `json:"date,omitempty"`
	StartTime  string                 `json:"startTime,omitempty"`
	EndTime    string                 `json:"endTime,omitempty"`
	Errors     []string               `json:"errors"`
	Warnings   []string               `json:"warnings"`
	Conflicts  []ConflictResponse     `json:"conflicts"`
	Suggestion *handlers.SlotResponse `json:"suggestion,omitempty"`
}

type ParseResponse struct {
	Results []RowResultResponse `json:"results"`
	Valid   int                 `json:"valid"`
	Warning int                 `json:"warning"`
	Error   int                 `json:"error"`
}

type ExecuteResultResponse struct {
	Index   int                             `json:"index"`
	Booking *bookingsModels.BookingResponse `json:"booking,omitempty"`
	Error   string                          `json:"error,omitempty"`
}

type ExecuteResponse struct {
	Created int                     `json:"created"`
	Failed  int                     `json:"failed"`
	Results []ExecuteResultResponse `json:"results"`
}

func (r RowRequest) toUseCase() batchImport.Row {
	return batchImport.Row{
		Date:         r.Date,
		StartTime:    r.StartTime,
		ContactName:  r.ContactName,
		ContactEmail: r.ContactEmail,
		ContactPhone: r.ContactPhone,
		SchoolName:   r.SchoolName,
		ClassName:    r.ClassName,
		StudentCount: r.StudentCount,
		Location:     r.Location,
		Notes:        r.Notes,
	}
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *ParseRequest) ToUseCaseRequest(ownerID int64) *batchImport.ParseRequest {
	rows := make([]batchImport.Row, 0, len(r.Rows))
	for _, row := range r.Rows {
		rows = append(rows, row.toUseCase())
	}
	return &batchImport.ParseRequest{
		OwnerID:       ownerID,
		SessionTypeID: r.SessionTypeID,
		Rows:          rows,
	}
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *ExecuteRequest) ToUseCaseRequest(ownerID int64) *batchImport.ExecuteRequest {
	rows := make([]batchImport.ExecuteRow, 0, len(r.Rows))
	for _, row := range r.Rows {
		rows = append(rows, batchImport.ExecuteRow{
			Row:                row.toUseCase(),
			Accepted:           row.Accepted,
			UseSuggestion:      row.UseSuggestion,
			SuggestedStartTime: row.SuggestedStartTime,
		})
	}
	return &batchImport.ExecuteRequest{
		OwnerID:       ownerID,
		SessionTypeID: r.SessionTypeID,
		Rows:          rows,
	}
}

// FromParseResponse конвертирует результат проверки в HTTP response
func FromParseResponse(resp *batchImport.ParseResponse) *ParseResponse {
	out := &ParseResponse{
		Results: make([]RowResultResponse, 0, len(resp.Results)),
		Valid:   resp.Valid,
		Warning: resp.Warning,
		Error:   resp.Error,
	}

	for _, res := range resp.Results {
		row := RowResultResponse{
			Index:     res.Index,
			Status:    string(res.Status),
			Errors:    nonNil(res.Errors),
			Warnings:  nonNil(res.Warnings),
			Conflicts: make([]ConflictResponse, 0, len(res.Conflicts)),
		}
		if !res.Date.IsZero() {
			row.Date = res.Date.Format(domain.DateFormat)
		}
		row.StartTime = res.StartTime.String()
		row.EndTime = res.EndTime.String()
		for _, c := range res.Conflicts {
			row.Conflicts = append(row.Conflicts, ConflictResponse{Type: string(c.Kind), Message: c.Message})
		}
		if res.Suggestion != nil {
			slots := handlers.FromDomainSlots([]domain.Slot{*res.Suggestion})
			row.Suggestion = &slots[0]
		}
		out.Results = append(out.Results, row)
	}

	return out
}

// FromExecuteResponse конвертирует итог импорта в HTTP response
func FromExecuteResponse(resp *batchImport.ExecuteResponse) *ExecuteResponse {
	out := &ExecuteResponse{
		Created: resp.Created,
		Failed:  resp.Failed,
		Results: make([]ExecuteResultResponse, 0, len(resp.Results)),
	}
	for _, res := range resp.Results {
		item := ExecuteResultResponse{Index: res.Index, Error: res.Error}
		if res.Booking != nil {
			item.Booking = bookingsModels.FromDomainBooking(res.Booking)
		}
		out.Results = append(out.Results, item)
	}
	return out
}

func nonNil(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
