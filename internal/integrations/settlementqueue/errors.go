package settlementqueue

import "errors"

var (
	// ErrEnqueue возвращается, когда задачу не удалось поставить в очередь
	ErrEnqueue = errors.New("settlementqueue: failed to enqueue task")

	// ErrInvalidPayload возвращается при некорректном содержимом задачи
	ErrInvalidPayload = errors.New("settlementqueue: invalid task payload")
)
