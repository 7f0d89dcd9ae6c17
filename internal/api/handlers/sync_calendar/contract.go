package sync_calendar

import (
	"context"

	syncExternalCalendar "github.com/m04kA/SMC-StudioBooking/internal/usecase/sync_external_calendar"
)

type SyncCalendarUseCase interface {
	Execute(ctx context.Context, req *syncExternalCalendar.Request) (*syncExternalCalendar.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
