package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TrainingRequest is an offer of a training to a single trainer and the
// negotiation state around it. Requests are never deleted.
type TrainingRequest struct {
	ID                  int64
	TrainingID          int64
	TrainerID           int64
	State               NegotiationState
	CounterPrice        *decimal.Decimal // last trainer counter-offer
	CompanyCounterPrice *decimal.Decimal // last company counter-offer
	DeclineReason       *DeclineReason
	Version             int64
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// NewTrainingRequest builds a fresh request with no counter-offers
func NewTrainingRequest(trainingID, trainerID int64) *TrainingRequest {
	return &TrainingRequest{
		TrainingID: trainingID,
		TrainerID:  trainerID,
		State:      Pending(PartyNone),
	}
}

// Command is a negotiation action issued by one party
type Command struct {
	Actor  Party
	Action Action
	Price  *decimal.Decimal // only for COUNTER
}

// Transition describes what a successfully applied command changed
type Transition struct {
	Actor  Party
	Action Action
	From   NegotiationState
	To     NegotiationState
	Price  *decimal.Decimal
	Reason *DeclineReason
}

// BecameAccepted reports whether the transition moved the request into ACCEPTED
func (t Transition) BecameAccepted() bool {
	return t.From.Status() != RequestStatusAccepted && t.To.Status() == RequestStatusAccepted
}

// ResolvePrice returns the negotiated price: the company counter if set, else the
// trainer counter if set, else the training asking price.
func (r *TrainingRequest) ResolvePrice(dailyRate decimal.Decimal) decimal.Decimal {
	if r.CompanyCounterPrice != nil {
		return *r.CompanyCounterPrice
	}
	if r.CounterPrice != nil {
		return *r.CounterPrice
	}
	return dailyRate
}

// HasProgressed reports whether negotiation reached a point where the asking
// price must no longer change.
func (r *TrainingRequest) HasProgressed() bool {
	return r.State.Status() == RequestStatusAccepted || r.State.IsTrainerAccepted()
}

// IsCompleted is the derived "completed" view: an accepted request of a completed training
func (r *TrainingRequest) IsCompleted(training *Training) bool {
	return r.State.Status() == RequestStatusAccepted && training.Status == TrainingStatusCompleted
}

// Apply validates cmd against the current state and mutates the request.
// It does not touch Version; persistence bumps it on a successful compare-and-swap.
func (r *TrainingRequest) Apply(cmd Command) (Transition, error) {
	if err := cmd.validate(); err != nil {
		return Transition{}, err
	}

	from := r.State
	tr := Transition{Actor: cmd.Actor, Action: cmd.Action, From: from}

	if from.Status().IsTerminal() {
		if from.Status() == RequestStatusAccepted && cmd.Actor == PartyTrainer && cmd.Action == ActionWithdraw {
			r.State = Withdrawn()
			tr.To = r.State
			return tr, nil
		}
		return Transition{}, fmt.Errorf("%w: %s %s from %s", ErrTerminalState, cmd.Actor, cmd.Action, from)
	}

	switch cmd.Action {
	case ActionDecline:
		reason := DeclineReasonByTrainer
		if cmd.Actor == PartyCompany {
			reason = DeclineReasonByCompany
		}
		r.State = Declined()
		r.DeclineReason = &reason
		tr.Reason = &reason

	case ActionWithdraw:
		return Transition{}, fmt.Errorf("%w: only an accepted request can be withdrawn, decline instead", ErrInvalidState)

	case ActionCounter:
		price := *cmd.Price
		if cmd.Actor == PartyTrainer {
			// A trainer counter supersedes any outstanding company counter
			r.CounterPrice = &price
			r.CompanyCounterPrice = nil
			r.State = Pending(PartyNone)
		} else {
			r.CompanyCounterPrice = &price
			r.State = Pending(PartyTrainer)
		}
		tr.Price = &price

	case ActionAccept:
		if cmd.Actor == PartyTrainer {
			if err := r.trainerAccept(); err != nil {
				return Transition{}, err
			}
		} else {
			if err := r.companyAccept(); err != nil {
				return Transition{}, err
			}
		}

	case ActionConfirm:
		if !from.IsTrainerAccepted() {
			return Transition{}, fmt.Errorf("%w: nothing to confirm in %s", ErrInvalidState, from)
		}
		r.State = Accepted()
	}

	tr.To = r.State
	return tr, nil
}

func (r *TrainingRequest) trainerAccept() error {
	switch r.State.AwaitingConfirmationBy() {
	case PartyTrainer:
		// Trainer agrees to the company counter, the company still has to confirm
		r.State = Pending(PartyCompany)
		return nil
	case PartyCompany:
		return fmt.Errorf("%w: trainer already accepted, waiting for company confirmation", ErrInvalidState)
	}

	if r.CounterPrice != nil {
		return fmt.Errorf("%w: trainer counter-offer is waiting for the company", ErrInvalidState)
	}

	r.State = Accepted()
	return nil
}

func (r *TrainingRequest) companyAccept() error {
	if r.State.AwaitingConfirmationBy() != PartyNone {
		return fmt.Errorf("%w: company cannot accept while %s", ErrInvalidState, r.State)
	}
	if r.CounterPrice == nil {
		return fmt.Errorf("%w: there is no trainer counter-offer to accept", ErrInvalidState)
	}

	r.State = Accepted()
	return nil
}

func (c Command) validate() error {
	switch c.Actor {
	case PartyTrainer, PartyCompany:
	default:
		return fmt.Errorf("%w: unknown actor %q", ErrValidation, c.Actor)
	}

	switch c.Action {
	case ActionAccept, ActionDecline:
	case ActionCounter:
		if c.Price == nil {
			return fmt.Errorf("%w: counter-offer requires a price", ErrValidation)
		}
		if err := ValidatePrice(*c.Price); err != nil {
			return err
		}
	case ActionConfirm:
		if c.Actor != PartyCompany {
			return fmt.Errorf("%w: only the company confirms", ErrValidation)
		}
	case ActionWithdraw:
		if c.Actor != PartyTrainer {
			return fmt.Errorf("%w: only the trainer withdraws", ErrValidation)
		}
	default:
		return fmt.Errorf("%w: unknown action %q", ErrValidation, c.Action)
	}

	if c.Action != ActionCounter && c.Price != nil {
		return fmt.Errorf("%w: price is only accepted with %s", ErrValidation, ActionCounter)
	}

	return nil
}
