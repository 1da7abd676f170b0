package domain

import "fmt"

// RequestStatus is the coarse status of a training request
type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "PENDING"
	RequestStatusAccepted  RequestStatus = "ACCEPTED"
	RequestStatusDeclined  RequestStatus = "DECLINED"
	RequestStatusWithdrawn RequestStatus = "WITHDRAWN"
)

// IsTerminal reports whether the status ends the negotiation.
// ACCEPTED is terminal for negotiation but still allows a trainer withdrawal.
func (s RequestStatus) IsTerminal() bool {
	return s != RequestStatusPending
}

// IsActive reports whether the request still occupies the (training, trainer) pair
func (s RequestStatus) IsActive() bool {
	return s == RequestStatusPending || s == RequestStatusAccepted
}

// Party is a side of the negotiation. NONE is used when nobody owes a confirmation,
// SYSTEM only ever appears as the actor of automatic transitions.
type Party string

const (
	PartyNone    Party = "NONE"
	PartyTrainer Party = "TRAINER"
	PartyCompany Party = "COMPANY"
	PartySystem  Party = "SYSTEM"
)

// Action is a negotiation command
type Action string

const (
	ActionAccept   Action = "ACCEPT"
	ActionCounter  Action = "COUNTER"
	ActionConfirm  Action = "CONFIRM"
	ActionDecline  Action = "DECLINE"
	ActionWithdraw Action = "WITHDRAW"
)

// DeclineReason explains why a request ended up DECLINED
type DeclineReason string

const (
	DeclineReasonByTrainer         DeclineReason = "DECLINED_BY_TRAINER"
	DeclineReasonByCompany         DeclineReason = "DECLINED_BY_COMPANY"
	DeclineReasonSlotFilled        DeclineReason = "SLOT_FILLED"
	DeclineReasonTrainingCancelled DeclineReason = "TRAINING_CANCELLED"
	DeclineReasonTrainingCompleted DeclineReason = "TRAINING_COMPLETED"
)

// NegotiationState is the compound (status, awaiting confirmation by) pair.
// Terminal states always carry PartyNone; the constructors are the only way to
// build a state so an impossible combination cannot be represented.
type NegotiationState struct {
	status   RequestStatus
	awaiting Party
}

// Pending returns a non-terminal state. awaiting is the party whose confirmation
// is outstanding: TRAINER after a company counter, COMPANY after the trainer
// accepted that counter, NONE otherwise.
func Pending(awaiting Party) NegotiationState {
	return NegotiationState{status: RequestStatusPending, awaiting: awaiting}
}

// Accepted returns the state of a request that won the slot
func Accepted() NegotiationState {
	return NegotiationState{status: RequestStatusAccepted, awaiting: PartyNone}
}

// Declined returns the terminal declined state
func Declined() NegotiationState {
	return NegotiationState{status: RequestStatusDeclined, awaiting: PartyNone}
}

// Withdrawn returns the terminal withdrawn state
func Withdrawn() NegotiationState {
	return NegotiationState{status: RequestStatusWithdrawn, awaiting: PartyNone}
}

// StateFromStorage rebuilds a state from persisted columns and rejects combinations
// that the state machine can never produce.
func StateFromStorage(status, awaiting string) (NegotiationState, error) {
	s := RequestStatus(status)
	a := Party(awaiting)

	switch a {
	case PartyNone, PartyTrainer, PartyCompany:
	default:
		return NegotiationState{}, fmt.Errorf("%w: unknown awaiting party %q", ErrValidation, awaiting)
	}

	switch s {
	case RequestStatusPending:
		return Pending(a), nil
	case RequestStatusAccepted, RequestStatusDeclined, RequestStatusWithdrawn:
		if a != PartyNone {
			return NegotiationState{}, fmt.Errorf("%w: terminal status %s cannot await %s", ErrValidation, s, a)
		}
		return NegotiationState{status: s, awaiting: PartyNone}, nil
	}

	return NegotiationState{}, fmt.Errorf("%w: unknown request status %q", ErrValidation, status)
}

// Status returns the coarse status
func (s NegotiationState) Status() RequestStatus {
	return s.status
}

// AwaitingConfirmationBy returns the party that owes a confirmation
func (s NegotiationState) AwaitingConfirmationBy() Party {
	if s.awaiting == "" {
		return PartyNone
	}
	return s.awaiting
}

// IsTrainerAccepted reports the sub-state where the trainer accepted a company
// counter and only the company confirmation is missing.
func (s NegotiationState) IsTrainerAccepted() bool {
	return s.status == RequestStatusPending && s.awaiting == PartyCompany
}

// String renders the state for logs
func (s NegotiationState) String() string {
	if s.AwaitingConfirmationBy() == PartyNone {
		return string(s.status)
	}
	return fmt.Sprintf("%s(awaiting %s)", s.status, s.awaiting)
}
