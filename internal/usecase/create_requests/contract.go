package create_requests

import (
	"context"

	"github.com/m04kA/SMC-TrainingService/internal/domain"
	directoryClient "github.com/m04kA/SMC-TrainingService/internal/integrations/directory"
)

// TrainingRepository интерфейс репозитория тренингов
type TrainingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Training, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.Training, error)
}

// RequestRepository интерфейс репозитория заявок
type RequestRepository interface {
	Create(ctx context.Context, req *domain.TrainingRequest) (*domain.TrainingRequest, error)
	FindActiveByTrainers(ctx context.Context, trainingID int64, trainerIDs []int64) ([]*domain.TrainingRequest, error)
}

// DirectoryClient интерфейс справочника тренеров
type DirectoryClient interface {
	GetTrainer(ctx context.Context, trainerID int64) (*directoryClient.Trainer, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
