package transition_request

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-TrainingService/internal/domain"
	requestRepo "github.com/m04kA/SMC-TrainingService/internal/infra/storage/request"
	trainingRepo "github.com/m04kA/SMC-TrainingService/internal/infra/storage/training"
	"github.com/m04kA/SMC-TrainingService/pkg/txmanager"
)

// Результаты для метрик
const (
	resultOK       = "ok"
	resultConflict = "conflict"
	resultRejected = "rejected"
	resultError    = "error"
)

// UseCase use case перехода заявки по протоколу переговоров
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

// Execute применяет действие стороны к заявке
// Переход в ACCEPTED в той же сериализуемой транзакции закрывает конкурирующие заявки тренинга
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("TransitionRequest: request=%d, %s=%d, action=%s",
		req.RequestID, req.Principal.Role, req.Principal.ID, req.Action)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("TransitionRequest: validation failed: %v", err)
		uc.metrics.ObserveTransition(string(req.Action), resultRejected)
		return nil, err
	}

	// 2. Узнаем тренинг заявки (без блокировки), чтобы брать блокировки в порядке тренинг -> заявки
	current, err := uc.requestRepo.GetByID(ctx, req.RequestID)
	if err != nil {
		if errors.Is(err, requestRepo.ErrRequestNotFound) {
			uc.logger.Warn("TransitionRequest: request id=%d not found", req.RequestID)
			return nil, ErrRequestNotFound
		}
		uc.logger.Error("TransitionRequest: failed to get request id=%d: %v", req.RequestID, err)
		return nil, fmt.Errorf("%w: failed to get request: %v", ErrInternal, err)
	}

	now := uc.timeProvider.Now()
	result := &Response{}
	var events []*domain.RequestEvent

	// 3. Все изменения в одной сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		events = events[:0]
		result.DeclinedSiblings = nil

		// 3.1. Блокируем тренинг: все переходы заявок одного тренинга идут последовательно
		training, err := uc.trainingRepo.GetByIDForUpdate(txCtx, current.TrainingID)
		if err != nil {
			if errors.Is(err, trainingRepo.ErrTrainingNotFound) {
				return fmt.Errorf("%w: training id=%d of request id=%d is missing", ErrInternal, current.TrainingID, req.RequestID)
			}
			return fmt.Errorf("%w: failed to lock training: %w", ErrInternal, err)
		}

		// 3.2. Блокируем саму заявку
		request, err := uc.requestRepo.GetByIDForUpdate(txCtx, req.RequestID)
		if err != nil {
			if errors.Is(err, requestRepo.ErrRequestNotFound) {
				return ErrRequestNotFound
			}
			return fmt.Errorf("%w: failed to lock request: %w", ErrInternal, err)
		}

		// 3.3. Права: тренер заявки или компания-владелец тренинга
		if !req.Principal.CanActOn(training, request) {
			return ErrAccessDenied
		}

		// 3.4. Оптимистичная проверка версии
		if req.ExpectedVersion != nil && *req.ExpectedVersion != request.Version {
			return fmt.Errorf("%w: expected %d, actual %d", ErrStaleVersion, *req.ExpectedVersion, request.Version)
		}

		// 3.5. По закрытому тренингу переговоры не ведутся
		if training.IsClosed() {
			return fmt.Errorf("%w: status %s", ErrTrainingClosed, training.Status)
		}

		// 3.6. Применяем команду к машине состояний
		tr, err := request.Apply(domain.Command{
			Actor:  req.Principal.Role,
			Action: req.Action,
			Price:  req.Price,
		})
		if err != nil {
			// Заявку уже закрыло принятие конкурента: для вызывающего это проигранная гонка
			if errors.Is(err, domain.ErrTerminalState) && lostAllocation(request, req.Action) {
				return fmt.Errorf("%w: %v", ErrSlotTaken, err)
			}
			return err
		}

		// 3.7. Распределение слота: при переходе в ACCEPTED закрываем конкурентов
		var declined []*domain.TrainingRequest
		if tr.BecameAccepted() {
			siblings, err := uc.requestRepo.ListByTrainingForUpdate(txCtx, training.ID)
			if err != nil {
				return fmt.Errorf("%w: failed to lock sibling requests: %w", ErrInternal, err)
			}

			declined, err = resolveAllocation(request, tr, siblings)
			if err != nil {
				return err
			}
		}

		// 3.8. Сохраняем заявку (compare-and-swap по версии)
		if err := uc.requestRepo.Update(txCtx, request); err != nil {
			if errors.Is(err, requestRepo.ErrVersionConflict) {
				return fmt.Errorf("%w: %v", ErrConcurrentUpdate, err)
			}
			if errors.Is(err, requestRepo.ErrAlreadyAccepted) {
				return fmt.Errorf("%w: %v", ErrSlotTaken, err)
			}
			return fmt.Errorf("%w: failed to update request: %w", ErrInternal, err)
		}
		events = append(events, domain.NewRequestEvent(training, request, tr, now))

		// 3.9. Отклоняем конкурирующие PENDING заявки
		if len(declined) > 0 {
			ids := make([]int64, 0, len(declined))
			for _, s := range declined {
				siblingTr := domain.SystemDecline(s, domain.DeclineReasonSlotFilled)
				events = append(events, domain.NewRequestEvent(training, s, siblingTr, now))
				ids = append(ids, s.ID)
			}

			affected, err := uc.requestRepo.DeclinePending(txCtx, ids, domain.DeclineReasonSlotFilled)
			if err != nil {
				return fmt.Errorf("%w: failed to decline siblings: %w", ErrInternal, err)
			}
			// Строки заблокированы, расхождение означает нарушение блокировок
			if affected != int64(len(ids)) {
				return fmt.Errorf("%w: declined %d of %d sibling requests", ErrConcurrentUpdate, affected, len(ids))
			}
			result.DeclinedSiblings = ids
		}

		// 3.10. Журнал переходов
		if err := uc.eventRepo.Append(txCtx, events); err != nil {
			return fmt.Errorf("%w: failed to append events: %w", ErrInternal, err)
		}

		result.Request = request
		result.Training = training
		result.Transition = tr
		return nil
	})

	if err != nil {
		return nil, uc.fail(req, err)
	}

	// 4. Уведомления только после фиксации, ошибка публикации не откатывает переход
	if err := uc.notifier.Publish(ctx, events); err != nil {
		uc.logger.Error("TransitionRequest: failed to publish %d events for request id=%d: %v", len(events), req.RequestID, err)
	}

	uc.metrics.ObserveTransition(string(req.Action), resultOK)
	if n := len(result.DeclinedSiblings); n > 0 {
		uc.metrics.AddSiblingsDeclined(string(domain.DeclineReasonSlotFilled), n)
		uc.logger.Info("TransitionRequest: request id=%d won training id=%d, declined siblings=%v",
			req.RequestID, result.Training.ID, result.DeclinedSiblings)
	}

	uc.logger.Info("TransitionRequest: request id=%d moved %s -> %s (version=%d)",
		req.RequestID, result.Transition.From, result.Transition.To, result.Request.Version)

	return result, nil
}

// fail приводит ошибку транзакции к ошибке use case, логирует и считает метрики
func (uc *UseCase) fail(req *Request, err error) error {
	if errors.Is(err, txmanager.ErrSerializationFailure) {
		err = fmt.Errorf("%w: %v", ErrConcurrentUpdate, err)
	}

	switch {
	case errors.Is(err, domain.ErrConflict):
		uc.logger.Warn("TransitionRequest: request id=%d lost a race: %v", req.RequestID, err)
		uc.metrics.ObserveTransition(string(req.Action), resultConflict)
		uc.metrics.IncAllocationConflict()
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrTerminalState),
		errors.Is(err, domain.ErrInvalidState),
		errors.Is(err, domain.ErrAccessDenied),
		errors.Is(err, domain.ErrNotFound):
		uc.logger.Warn("TransitionRequest: request id=%d rejected: %v", req.RequestID, err)
		uc.metrics.ObserveTransition(string(req.Action), resultRejected)
	default:
		uc.logger.Error("TransitionRequest: request id=%d failed: %v", req.RequestID, err)
		uc.metrics.ObserveTransition(string(req.Action), resultError)
	}

	return err
}
