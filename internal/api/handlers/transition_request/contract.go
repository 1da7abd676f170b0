package transition_request

import (
	"context"

	transitionRequest "github.com/m04kA/SMC-TrainingService/internal/usecase/transition_request"
)

type TransitionRequestUseCase interface {
	Execute(ctx context.Context, req *transitionRequest.Request) (*transitionRequest.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
