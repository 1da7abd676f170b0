package trainings

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-TrainingService/internal/domain"
	"github.com/m04kA/SMC-TrainingService/internal/integrations/directory"
)

// TrainingRepository интерфейс репозитория тренингов
type TrainingRepository interface {
	Create(ctx context.Context, training *domain.Training) (*domain.Training, error)
	GetByID(ctx context.Context, id int64) (*domain.Training, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.Training, error)
	UpdateDailyRate(ctx context.Context, id int64, rate decimal.Decimal) error
	UpdateStatus(ctx context.Context, id int64, status domain.TrainingStatus) error
}

// RequestRepository интерфейс репозитория заявок
type RequestRepository interface {
	ListByTraining(ctx context.Context, trainingID int64) ([]*domain.TrainingRequest, error)
	HasProgressed(ctx context.Context, trainingID int64) (bool, error)
}

// InvoiceRepository интерфейс репозитория счетов
type InvoiceRepository interface {
	GetByTrainingID(ctx context.Context, trainingID int64) (*domain.Invoice, error)
}

// DirectoryClient интерфейс клиента справочника
type DirectoryClient interface {
	GetCompany(ctx context.Context, companyID int64) (*directory.Company, error)
	GetTopic(ctx context.Context, topicID int64) (*directory.Topic, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
