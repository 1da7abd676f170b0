package settlementqueue

import (
	"context"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"
)

// SettleFunc выполняет расчет тренинга
type SettleFunc func(ctx context.Context, trainingID int64) error

// Handler обработчик задач расчета для asynq.Server
type Handler struct {
	settle    SettleFunc
	permanent []error
	log       Logger
}

// NewHandler создает обработчик
// Ошибки из permanent не повторяются (например, тренинг не найден или не завершен)
func NewHandler(settle SettleFunc, log Logger, permanent ...error) *Handler {
	return &Handler{
		settle:    settle,
		permanent: permanent,
		log:       log,
	}
}

// ProcessTask реализует asynq.Handler
func (h *Handler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseSettlePayload(task)
	if err != nil {
		h.log.Error("Settlement task rejected: %v", err)
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	h.log.Info("Settlement task started for training id=%d", payload.TrainingID)

	if err := h.settle(ctx, payload.TrainingID); err != nil {
		for _, p := range h.permanent {
			if errors.Is(err, p) {
				h.log.Warn("Settlement for training id=%d will not be retried: %v", payload.TrainingID, err)
				return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
			}
		}
		h.log.Error("Settlement for training id=%d failed, will retry: %v", payload.TrainingID, err)
		return err
	}

	h.log.Info("Settlement task finished for training id=%d", payload.TrainingID)
	return nil
}

// Register регистрирует обработчик в mux
func (h *Handler) Register(mux *asynq.ServeMux) {
	mux.Handle(TypeSettleTraining, h)
}
