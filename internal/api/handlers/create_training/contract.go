package create_training

import (
	"context"

	"github.com/m04kA/SMC-TrainingService/internal/service/trainings/models"
)

type TrainingService interface {
	Create(ctx context.Context, req *models.CreateTrainingRequest) (*models.TrainingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
