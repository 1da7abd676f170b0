package get_training

import (
	"context"

	"github.com/m04kA/SMC-TrainingService/internal/domain"
	"github.com/m04kA/SMC-TrainingService/internal/service/trainings/models"
)

type TrainingService interface {
	GetByID(ctx context.Context, id int64, principal domain.Principal) (*models.TrainingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
