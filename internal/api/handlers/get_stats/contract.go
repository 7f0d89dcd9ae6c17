package get_stats

import (
	"context"

	getStats "github.com/m04kA/SMC-StudioBooking/internal/usecase/get_stats"
)

type GetStatsUseCase interface {
	Execute(ctx context.Context, req *getStats.Request) (*getStats.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
