package notifier

import "errors"

var (
	// ErrMarshal возвращается, когда событие не удалось сериализовать
	ErrMarshal = errors.New("notifier: failed to marshal event")

	// ErrPublish возвращается, когда Redis отклонил запись в поток
	ErrPublish = errors.New("notifier: failed to publish event")
)
