package create_requests

import (
	"context"

	createRequests "github.com/m04kA/SMC-TrainingService/internal/usecase/create_requests"
)

type CreateRequestsUseCase interface {
	Execute(ctx context.Context, req *createRequests.Request) (*createRequests.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
