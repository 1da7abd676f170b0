package settlementqueue

import (
	"context"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"
)

// Enqueuer подмножество asynq.Client
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client ставит неудавшиеся расчеты в очередь повторов
type Client struct {
	enqueuer Enqueuer
	queue    string
	maxRetry int
	log      Logger
}

// NewClient создает клиент очереди расчетов
func NewClient(enqueuer Enqueuer, queue string, maxRetry int, log Logger) *Client {
	return &Client{
		enqueuer: enqueuer,
		queue:    queue,
		maxRetry: maxRetry,
		log:      log,
	}
}

// EnqueueSettlement ставит расчет тренинга в очередь
// Повторная постановка, пока задача еще в очереди, не считается ошибкой
func (c *Client) EnqueueSettlement(ctx context.Context, trainingID int64) error {
	task, err := NewSettleTask(trainingID)
	if err != nil {
		return err
	}

	info, err := c.enqueuer.EnqueueContext(ctx, task,
		asynq.TaskID(taskID(trainingID)),
		asynq.Queue(c.queue),
		asynq.MaxRetry(c.maxRetry),
	)
	if err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) || errors.Is(err, asynq.ErrDuplicateTask) {
			c.log.Info("Settlement for training id=%d is already queued", trainingID)
			return nil
		}
		return fmt.Errorf("%w: training id=%d: %v", ErrEnqueue, trainingID, err)
	}

	c.log.Info("Settlement for training id=%d queued: task=%s, queue=%s", trainingID, info.ID, info.Queue)
	return nil
}
