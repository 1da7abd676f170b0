package cancel_training

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-TrainingService/internal/domain"
	trainingRepo "github.com/m04kA/SMC-TrainingService/internal/infra/storage/training"
	"github.com/m04kA/SMC-TrainingService/pkg/txmanager"
)

// UseCase use case отмены тренинга
type UseCase struct {
	trainingRepo TrainingRepository
	requestRepo  RequestRepository
	eventRepo    EventRepository
	notifier     Notifier
	metrics      Metrics
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	trainingRepo TrainingRepository,
	requestRepo RequestRepository,
	eventRepo EventRepository,
	notifier Notifier,
	metrics Metrics,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		trainingRepo: trainingRepo,
		requestRepo:  requestRepo,
		eventRepo:    eventRepo,
		notifier:     notifier,
		metrics:      metrics,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute отменяет тренинг и закрывает все его PENDING заявки
// Принятая заявка остается ACCEPTED. Повторная отмена ничего не меняет
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CancelTraining: training=%d, company=%d", req.TrainingID, req.Principal.ID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CancelTraining: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()
	result := &Response{}
	var events []*domain.RequestEvent

	// 2. Статус тренинга и заявки меняются в одной транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		events = events[:0]
		result.DeclinedRequests = nil

		// 2.1. Блокируем тренинг
		training, err := uc.trainingRepo.GetByIDForUpdate(txCtx, req.TrainingID)
		if err != nil {
			if errors.Is(err, trainingRepo.ErrTrainingNotFound) {
				return ErrTrainingNotFound
			}
			return fmt.Errorf("%w: failed to lock training: %w", ErrInternal, err)
		}
		if !req.Principal.OwnsTraining(training) {
			return ErrAccessDenied
		}

		switch training.Status {
		case domain.TrainingStatusCancelled:
			result.Training = training
			result.AlreadyCancelled = true
			return nil
		case domain.TrainingStatusCompleted:
			return ErrAlreadyCompleted
		}

		// 2.2. Меняем статус тренинга
		if err := uc.trainingRepo.UpdateStatus(txCtx, training.ID, domain.TrainingStatusCancelled); err != nil {
			return fmt.Errorf("%w: failed to update training status: %w", ErrInternal, err)
		}
		training.Status = domain.TrainingStatusCancelled
		result.Training = training

		// 2.3. Закрываем PENDING заявки
		requests, err := uc.requestRepo.ListByTrainingForUpdate(txCtx, training.ID)
		if err != nil {
			return fmt.Errorf("%w: failed to lock requests: %w", ErrInternal, err)
		}

		var ids []int64
		for _, r := range requests {
			if r.State.Status() != domain.RequestStatusPending {
				continue
			}
			tr := domain.SystemDecline(r, domain.DeclineReasonTrainingCancelled)
			events = append(events, domain.NewRequestEvent(training, r, tr, now))
			ids = append(ids, r.ID)
		}
		if len(ids) == 0 {
			return nil
		}

		affected, err := uc.requestRepo.DeclinePending(txCtx, ids, domain.DeclineReasonTrainingCancelled)
		if err != nil {
			return fmt.Errorf("%w: failed to decline requests: %w", ErrInternal, err)
		}
		if affected != int64(len(ids)) {
			return fmt.Errorf("%w: declined %d of %d requests", ErrConcurrentUpdate, affected, len(ids))
		}

		// 2.4. Журнал переходов
		if err := uc.eventRepo.Append(txCtx, events); err != nil {
			return fmt.Errorf("%w: failed to append events: %w", ErrInternal, err)
		}

		result.DeclinedRequests = ids
		return nil
	})

	if err != nil {
		if errors.Is(err, txmanager.ErrSerializationFailure) {
			err = fmt.Errorf("%w: %v", ErrConcurrentUpdate, err)
		}
		if errors.Is(err, ErrInternal) {
			uc.logger.Error("CancelTraining: training id=%d failed: %v", req.TrainingID, err)
		} else {
			uc.logger.Warn("CancelTraining: training id=%d rejected: %v", req.TrainingID, err)
		}
		return nil, err
	}

	if result.AlreadyCancelled {
		uc.logger.Info("CancelTraining: training id=%d is already cancelled", req.TrainingID)
		return result, nil
	}

	// 3. Уведомления после фиксации
	if len(events) > 0 {
		if err := uc.notifier.Publish(ctx, events); err != nil {
			uc.logger.Error("CancelTraining: failed to publish %d events for training id=%d: %v", len(events), req.TrainingID, err)
		}
		uc.metrics.AddSiblingsDeclined(string(domain.DeclineReasonTrainingCancelled), len(events))
	}

	uc.logger.Info("CancelTraining: training id=%d cancelled, declined requests=%v", req.TrainingID, result.DeclinedRequests)

	return result, nil
}
