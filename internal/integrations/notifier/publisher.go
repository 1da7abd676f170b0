package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-TrainingService/internal/domain"
)

// StreamClient подмножество команд go-redis для записи в поток
type StreamClient interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Publisher публикует события заявок в Redis Stream
type Publisher struct {
	client StreamClient
	stream string
	maxLen int64
	log    Logger
}

// NewPublisher создает публикатор в поток stream
// maxLen ограничивает длину потока приблизительно (MAXLEN ~)
func NewPublisher(client StreamClient, stream string, maxLen int64, log Logger) *Publisher {
	return &Publisher{
		client: client,
		stream: stream,
		maxLen: maxLen,
		log:    log,
	}
}

// Publish публикует события по одному, ошибки собираются и не прерывают остальные
func (p *Publisher) Publish(ctx context.Context, events []*domain.RequestEvent) error {
	var errs []error

	for _, e := range events {
		if err := p.publishOne(ctx, e); err != nil {
			errs = append(errs, err)
			continue
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	p.log.Info("Published %d request events to stream %s", len(events), p.stream)
	return nil
}

func (p *Publisher) publishOne(ctx context.Context, e *domain.RequestEvent) error {
	payload, err := json.Marshal(FromDomainEvent(e))
	if err != nil {
		return fmt.Errorf("%w: event id=%s: %v", ErrMarshal, e.ID, err)
	}

	args := &redis.XAddArgs{
		Stream: p.stream,
		MaxLen: p.maxLen,
		Approx: p.maxLen > 0,
		Values: map[string]interface{}{
			"type":       EventType,
			"request_id": e.RequestID,
			"payload":    string(payload),
		},
	}

	if err := p.client.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("%w: event id=%s: %v", ErrPublish, e.ID, err)
	}

	return nil
}

// Nop публикатор для отключенных уведомлений
type Nop struct{}

// Publish ничего не делает
func (Nop) Publish(context.Context, []*domain.RequestEvent) error {
	return nil
}
