package complete_training

import (
	"github.com/m04kA/SMC-TrainingService/internal/service/trainings/models"
	completeTraining "github.com/m04kA/SMC-TrainingService/internal/usecase/complete_training"
)

// CompleteTrainingResponse HTTP response model
type CompleteTrainingResponse struct {
	Training           *models.TrainingResponse `json:"training"`
	Invoice            *models.InvoiceResponse  `json:"invoice,omitempty"`
	SettlementDeferred bool                     `json:"settlementDeferred"`
	DeclinedRequests   []int64                  `json:"declinedRequests"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *completeTraining.Response) *CompleteTrainingResponse {
	out := &CompleteTrainingResponse{
		Training:           models.FromDomainTraining(resp.Training),
		SettlementDeferred: resp.SettlementDeferred,
		DeclinedRequests:   resp.DeclinedRequests,
	}
	if out.DeclinedRequests == nil {
		out.DeclinedRequests = []int64{}
	}
	if resp.Invoice != nil {
		out.Invoice = models.FromDomainInvoice(resp.Invoice)
	}
	return out
}
