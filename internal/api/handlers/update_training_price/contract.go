package update_training_price

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-TrainingService/internal/domain"
	"github.com/m04kA/SMC-TrainingService/internal/service/trainings/models"
)

type TrainingService interface {
	UpdateAskingPrice(ctx context.Context, id int64, principal domain.Principal, price decimal.Decimal) (*models.TrainingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
