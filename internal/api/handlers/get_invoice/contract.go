package get_invoice

import (
	"context"

	"github.com/m04kA/SMC-TrainingService/internal/domain"
	"github.com/m04kA/SMC-TrainingService/internal/service/trainings/models"
)

type TrainingService interface {
	GetInvoice(ctx context.Context, trainingID int64, principal domain.Principal) (*models.InvoiceResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
