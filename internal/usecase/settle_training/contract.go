package settle_training

import (
	"context"

	"github.com/m04kA/SMC-TrainingService/internal/domain"
)

// TrainingRepository интерфейс репозитория тренингов
type TrainingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Training, error)
}

// RequestRepository интерфейс репозитория заявок
type RequestRepository interface {
	GetAcceptedByTraining(ctx context.Context, trainingID int64) (*domain.TrainingRequest, error)
}

// InvoiceRepository интерфейс репозитория счетов
type InvoiceRepository interface {
	CreateIfAbsent(ctx context.Context, invoice *domain.Invoice) (*domain.Invoice, bool, error)
}

// Metrics счетчики расчетов
type Metrics interface {
	IncInvoiceCreated()
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
