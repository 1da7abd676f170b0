package transition_request

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-TrainingService/internal/domain"
	"github.com/m04kA/SMC-TrainingService/internal/service/requests/models"
	transitionRequest "github.com/m04kA/SMC-TrainingService/internal/usecase/transition_request"
)

// TransitionRequest HTTP request model
type TransitionRequest struct {
	Action          string           `json:"action" validate:"required,oneof=accept counter confirm decline withdraw ACCEPT COUNTER CONFIRM DECLINE WITHDRAW"`
	Price           *decimal.Decimal `json:"price,omitempty" validate:"required_if=Action counter,required_if=Action COUNTER"`
	ExpectedVersion *int64           `json:"expectedVersion,omitempty" validate:"omitempty,gt=0"`
}

// TransitionResponse HTTP response model
type TransitionResponse struct {
	Request          *models.RequestResponse `json:"request"`
	DeclinedSiblings []int64                 `json:"declinedSiblings"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *TransitionRequest) ToUseCaseRequest(requestID int64, principal domain.Principal) (*transitionRequest.Request, error) {
	action := domain.Action(strings.ToUpper(r.Action))
	if action != domain.ActionCounter && r.Price != nil {
		return nil, fmt.Errorf("price is only allowed with counter")
	}

	return &transitionRequest.Request{
		RequestID:       requestID,
		Principal:       principal,
		Action:          action,
		Price:           r.Price,
		ExpectedVersion: r.ExpectedVersion,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *transitionRequest.Response) *TransitionResponse {
	declined := resp.DeclinedSiblings
	if declined == nil {
		declined = []int64{}
	}
	return &TransitionResponse{
		Request:          models.FromDomainRequest(resp.Request, resp.Training),
		DeclinedSiblings: declined,
	}
}
