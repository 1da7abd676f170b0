package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RequestEvent is the audit record of one applied transition.
// It also feeds the notification sink.
type RequestEvent struct {
	ID           uuid.UUID
	RequestID    int64
	TrainingID   int64
	TrainerID    int64
	CompanyID    int64
	Actor        Party
	Action       Action
	FromStatus   RequestStatus
	ToStatus     RequestStatus
	FromAwaiting Party
	ToAwaiting   Party
	Price        *decimal.Decimal
	Reason       *DeclineReason
	CreatedAt    time.Time
}

// NewRequestEvent builds the event for a transition applied to request
func NewRequestEvent(training *Training, request *TrainingRequest, tr Transition, at time.Time) *RequestEvent {
	return &RequestEvent{
		ID:           uuid.New(),
		RequestID:    request.ID,
		TrainingID:   training.ID,
		TrainerID:    request.TrainerID,
		CompanyID:    training.CompanyID,
		Actor:        tr.Actor,
		Action:       tr.Action,
		FromStatus:   tr.From.Status(),
		ToStatus:     tr.To.Status(),
		FromAwaiting: tr.From.AwaitingConfirmationBy(),
		ToAwaiting:   tr.To.AwaitingConfirmationBy(),
		Price:        tr.Price,
		Reason:       tr.Reason,
		CreatedAt:    at,
	}
}

// SystemDecline builds the transition used when the system closes a pending request
func SystemDecline(request *TrainingRequest, reason DeclineReason) Transition {
	from := request.State
	request.State = Declined()
	request.DeclineReason = &reason

	return Transition{
		Actor:  PartySystem,
		Action: ActionDecline,
		From:   from,
		To:     request.State,
		Reason: &reason,
	}
}
