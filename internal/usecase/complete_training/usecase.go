package complete_training

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-TrainingService/internal/domain"
	trainingRepo "github.com/m04kA/SMC-TrainingService/internal/infra/storage/training"
	"github.com/m04kA/SMC-TrainingService/internal/usecase/settle_training"
	"github.com/m04kA/SMC-TrainingService/pkg/txmanager"
)

// UseCase use case завершения тренинга
type UseCase struct {
	trainingRepo    TrainingRepository
	requestRepo     RequestRepository
	eventRepo       EventRepository
	notifier        Notifier
	settler         Settler
	settlementQueue SettlementQueue
	metrics         Metrics
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	trainingRepo TrainingRepository,
	requestRepo RequestRepository,
	eventRepo EventRepository,
	notifier Notifier,
	settler Settler,
	settlementQueue SettlementQueue,
	metrics Metrics,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		trainingRepo:    trainingRepo,
		requestRepo:     requestRepo,
		eventRepo:       eventRepo,
		notifier:        notifier,
		settler:         settler,
		settlementQueue: settlementQueue,
		metrics:         metrics,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute переводит тренинг в COMPLETED и выставляет счет по принятой заявке
// Незавершенные переговоры (PENDING заявки) закрываются с причиной TRAINING_COMPLETED
// Сбой расчета не откатывает завершение: расчет уходит в очередь повторов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CompleteTraining: training=%d, company=%d", req.TrainingID, req.Principal.ID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CompleteTraining: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	// 2. Меняем статус и закрываем PENDING заявки под блокировкой тренинга
	var (
		training *domain.Training
		events   []*domain.RequestEvent
		declined []int64
	)
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		events = events[:0]
		declined = nil

		t, err := uc.trainingRepo.GetByIDForUpdate(txCtx, req.TrainingID)
		if err != nil {
			if errors.Is(err, trainingRepo.ErrTrainingNotFound) {
				return ErrTrainingNotFound
			}
			return fmt.Errorf("%w: failed to lock training: %w", ErrInternal, err)
		}
		if !req.Principal.OwnsTraining(t) {
			return ErrAccessDenied
		}
		training = t

		// Повторное завершение только повторяет расчет
		if t.Status == domain.TrainingStatusCompleted {
			return nil
		}
		if !t.CanMoveTo(domain.TrainingStatusCompleted) {
			return fmt.Errorf("%w: from %s", ErrInvalidTransition, t.Status)
		}

		if err := uc.trainingRepo.UpdateStatus(txCtx, t.ID, domain.TrainingStatusCompleted); err != nil {
			return fmt.Errorf("%w: failed to update training status: %w", ErrInternal, err)
		}
		t.Status = domain.TrainingStatusCompleted

		requests, err := uc.requestRepo.ListByTrainingForUpdate(txCtx, t.ID)
		if err != nil {
			return fmt.Errorf("%w: failed to lock requests: %w", ErrInternal, err)
		}
		for _, r := range requests {
			if r.State.Status() != domain.RequestStatusPending {
				continue
			}
			tr := domain.SystemDecline(r, domain.DeclineReasonTrainingCompleted)
			events = append(events, domain.NewRequestEvent(t, r, tr, now))
			declined = append(declined, r.ID)
		}
		if len(declined) == 0 {
			return nil
		}

		affected, err := uc.requestRepo.DeclinePending(txCtx, declined, domain.DeclineReasonTrainingCompleted)
		if err != nil {
			return fmt.Errorf("%w: failed to decline requests: %w", ErrInternal, err)
		}
		if affected != int64(len(declined)) {
			return fmt.Errorf("%w: declined %d of %d requests", ErrConcurrentUpdate, affected, len(declined))
		}

		if err := uc.eventRepo.Append(txCtx, events); err != nil {
			return fmt.Errorf("%w: failed to append events: %w", ErrInternal, err)
		}
		return nil
	})

	if err != nil {
		if errors.Is(err, txmanager.ErrSerializationFailure) {
			err = fmt.Errorf("%w: %v", ErrConcurrentUpdate, err)
		}
		if errors.Is(err, ErrInternal) {
			uc.logger.Error("CompleteTraining: training id=%d failed: %v", req.TrainingID, err)
		} else {
			uc.logger.Warn("CompleteTraining: training id=%d rejected: %v", req.TrainingID, err)
		}
		return nil, err
	}

	resp := &Response{Training: training, DeclinedRequests: declined}

	if len(events) > 0 {
		if err := uc.notifier.Publish(ctx, events); err != nil {
			uc.logger.Error("CompleteTraining: failed to publish %d events for training id=%d: %v", len(events), training.ID, err)
		}
		uc.metrics.AddSiblingsDeclined(string(domain.DeclineReasonTrainingCompleted), len(events))
	}

	// 3. Расчет после фиксации статуса
	settled, err := uc.settler.Execute(ctx, &settle_training.Request{TrainingID: training.ID})
	if err != nil {
		uc.logger.Error("CompleteTraining: settlement of training id=%d failed, deferring: %v", training.ID, err)
		uc.deferSettlement(ctx, training.ID)
		resp.SettlementDeferred = true
		return resp, nil
	}

	resp.Invoice = settled.Invoice
	uc.logger.Info("CompleteTraining: training id=%d completed", training.ID)

	return resp, nil
}

// deferSettlement ставит расчет в очередь повторов
// Ошибка постановки только логируется: завершение уже зафиксировано
func (uc *UseCase) deferSettlement(ctx context.Context, trainingID int64) {
	uc.metrics.IncSettlementRetry()
	if err := uc.settlementQueue.EnqueueSettlement(ctx, trainingID); err != nil {
		uc.logger.Error("CompleteTraining: failed to enqueue settlement of training id=%d: %v", trainingID, err)
	}
}
