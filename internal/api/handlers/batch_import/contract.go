package batch_import

import (
	"context"

	batchImport "github.com/m04kA/SMC-StudioBooking/internal/usecase/batch_import"
)

type BatchImportUseCase interface {
	Parse(ctx context.Context, req *batchImport.ParseRequest) (*batchImport.ParseResponse, error)
	Execute(ctx context.Context, req *batchImport.ExecuteRequest) (*batchImport.ExecuteResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
