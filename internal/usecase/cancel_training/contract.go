package cancel_training

import (
	"context"
	"time"

	"github.com/m04kA/SMC-TrainingService/internal/domain"
)

// TrainingRepository интерфейс репозитория тренингов
type TrainingRepository interface {
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.Training, error)
	UpdateStatus(ctx context.Context, id int64, status domain.TrainingStatus) error
}

// RequestRepository интерфейс репозитория заявок
type RequestRepository interface {
	ListByTrainingForUpdate(ctx context.Context, trainingID int64) ([]*domain.TrainingRequest, error)
	DeclinePending(ctx context.Context, ids []int64, reason domain.DeclineReason) (int64, error)
}

// EventRepository интерфейс журнала переходов
type EventRepository interface {
	Append(ctx context.Context, events []*domain.RequestEvent) error
}

// Notifier публикует события после фиксации транзакции
type Notifier interface {
	Publish(ctx context.Context, events []*domain.RequestEvent) error
}

// Metrics счетчики автоматических отклонений
type Metrics interface {
	AddSiblingsDeclined(reason string, count int)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
