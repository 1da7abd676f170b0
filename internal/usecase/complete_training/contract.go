package complete_training

import (
	"context"
	"time"

	"github.com/m04kA/SMC-TrainingService/internal/domain"
	"github.com/m04kA/SMC-TrainingService/internal/usecase/settle_training"
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

// Settler выставляет счет по завершенному тренингу
type Settler interface {
	Execute(ctx context.Context, req *settle_training.Request) (*settle_training.Response, error)
}

// SettlementQueue очередь отложенных расчетов
type SettlementQueue interface {
	EnqueueSettlement(ctx context.Context, trainingID int64) error
}

// Metrics счетчики расчетов и автоматических отклонений
type Metrics interface {
	IncSettlementRetry()
	AddSiblingsDeclined(reason string, count int)
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

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
