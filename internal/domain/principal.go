package domain

import (
	"fmt"
	"strings"
)

// Principal is the authenticated caller. Role is TRAINER or COMPANY; the caller
// acts as that party in negotiations.
type Principal struct {
	ID   int64
	Role Party
}

// ParseRole maps the lowercase header value to a negotiating party
func ParseRole(s string) (Party, error) {
	switch Party(strings.ToUpper(strings.TrimSpace(s))) {
	case PartyTrainer:
		return PartyTrainer, nil
	case PartyCompany:
		return PartyCompany, nil
	}
	return "", fmt.Errorf("%w: unknown role %q", ErrValidation, s)
}

func (p Principal) IsTrainer() bool {
	return p.Role == PartyTrainer
}

func (p Principal) IsCompany() bool {
	return p.Role == PartyCompany
}

// OwnsTraining reports whether the caller is the company that offers the training
func (p Principal) OwnsTraining(training *Training) bool {
	return p.IsCompany() && training.CompanyID == p.ID
}

// CanActOn reports whether the caller is a party of the request: its trainer or
// the company that owns the training.
func (p Principal) CanActOn(training *Training, request *TrainingRequest) bool {
	if p.IsTrainer() {
		return request.TrainerID == p.ID
	}
	return p.OwnsTraining(training)
}
