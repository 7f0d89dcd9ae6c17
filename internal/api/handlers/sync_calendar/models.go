package sync_calendar

import (
	"time"

	"github.com/m04kA/SMC-StudioBooking/internal/api/handlers"
	"github.com/m04kA/SMC-StudioBooking/internal/domain"
	syncExternalCalendar "github.com/m04kA/SMC-StudioBooking/internal/usecase/sync_external_calendar"
)

// SyncRequest HTTP request model, без тела синхронизируется диапазон по умолчанию
type SyncRequest struct {
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
}

type SyncResponse struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Synced  int    `json:"synced"`
	Skipped int    `json:"skipped"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *SyncRequest) ToUseCaseRequest(ownerID int64, loc *time.Location) (*syncExternalCalendar.Request, error) {
	req := &syncExternalCalendar.Request{OwnerID: ownerID}

	if r.From != "" {
		from, err := handlers.ParseDate(r.From, loc)
		if err != nil {
			return nil, err
		}
		req.From = from
	}
	if r.To != "" {
		to, err := handlers.ParseDate(r.To, loc)
		if err != nil {
			return nil, err
		}
		req.To = to
	}

	return req, nil
}

func FromUseCaseResponse(resp *syncExternalCalendar.Response) *SyncResponse {
	return &SyncResponse{
		From:    resp.From.Format(domain.DateFormat),
		To:      resp.To.Format(domain.DateFormat),
		Synced:  resp.Synced,
		Skipped: resp.Skipped,
	}
}
