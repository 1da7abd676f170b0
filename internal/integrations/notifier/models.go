package notifier

import (
	"time"

	"github.com/m04kA/SMC-TrainingService/internal/domain"
)

// EventType тип сообщения в потоке
const EventType = "training_request.transition"

// EventMessage сообщение о переходе заявки
// Текст уведомления формирует потребитель потока
type EventMessage struct {
	EventID      string    `json:"eventId"`
	RequestID    int64     `json:"requestId"`
	TrainingID   int64     `json:"trainingId"`
	TrainerID    int64     `json:"trainerId"`
	CompanyID    int64     `json:"companyId"`
	Actor        string    `json:"actor"`
	Action       string    `json:"action"`
	FromStatus   string    `json:"fromStatus"`
	ToStatus     string    `json:"toStatus"`
	FromAwaiting string    `json:"fromAwaiting"`
	ToAwaiting   string    `json:"toAwaiting"`
	Price        *string   `json:"price,omitempty"`
	Reason       *string   `json:"reason,omitempty"`
	OccurredAt   time.Time `json:"occurredAt"`
}

// FromDomainEvent конвертирует доменное событие в сообщение
func FromDomainEvent(e *domain.RequestEvent) EventMessage {
	msg := EventMessage{
		EventID:      e.ID.String(),
		RequestID:    e.RequestID,
		TrainingID:   e.TrainingID,
		TrainerID:    e.TrainerID,
		CompanyID:    e.CompanyID,
		Actor:        string(e.Actor),
		Action:       string(e.Action),
		FromStatus:   string(e.FromStatus),
		ToStatus:     string(e.ToStatus),
		FromAwaiting: string(e.FromAwaiting),
		ToAwaiting:   string(e.ToAwaiting),
		OccurredAt:   e.CreatedAt,
	}
	if e.Price != nil {
		price := e.Price.StringFixed(2)
		msg.Price = &price
	}
	if e.Reason != nil {
		reason := string(*e.Reason)
		msg.Reason = &reason
	}
	return msg
}
