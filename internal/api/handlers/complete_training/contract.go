package complete_training

import (
	"context"

	completeTraining "github.com/m04kA/SMC-TrainingService/internal/usecase/complete_training"
)

type CompleteTrainingUseCase interface {
	Execute(ctx context.Context, req *completeTraining.Request) (*completeTraining.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
