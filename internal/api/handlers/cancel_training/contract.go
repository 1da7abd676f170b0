package cancel_training

import (
	"context"

	cancelTraining "github.com/m04kA/SMC-TrainingService/internal/usecase/cancel_training"
)

type CancelTrainingUseCase interface {
	Execute(ctx context.Context, req *cancelTraining.Request) (*cancelTraining.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
