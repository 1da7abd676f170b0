package requests

import (
	"context"

	"github.com/m04kA/SMC-TrainingService/internal/domain"
	"github.com/m04kA/SMC-TrainingService/internal/integrations/directory"
)

// RequestRepository интерфейс репозитория заявок
type RequestRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.TrainingRequest, error)
}

// TrainingRepository интерфейс репозитория тренингов
type TrainingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Training, error)
}

// EventRepository интерфейс журнала переходов
type EventRepository interface {
	ListByRequest(ctx context.Context, requestID int64) ([]*domain.RequestEvent, error)
}

// ListingRepository интерфейс read-модели списка заявок
type ListingRepository interface {
	List(ctx context.Context, filter domain.RequestFilter) ([]*domain.RequestView, error)
}

// DirectoryClient интерфейс клиента справочника
type DirectoryClient interface {
	GetTrainer(ctx context.Context, trainerID int64) (*directory.Trainer, error)
	GetCompany(ctx context.Context, companyID int64) (*directory.Company, error)
	GetTopic(ctx context.Context, topicID int64) (*directory.Topic, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
