package cancel_training

import (
	"github.com/m04kA/SMC-TrainingService/internal/service/trainings/models"
	cancelTraining "github.com/m04kA/SMC-TrainingService/internal/usecase/cancel_training"
)

// CancelTrainingResponse HTTP response model
type CancelTrainingResponse struct {
	Training         *models.TrainingResponse `json:"training"`
	DeclinedRequests []int64                  `json:"declinedRequests"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *cancelTraining.Response) *CancelTrainingResponse {
	declined := resp.DeclinedRequests
	if declined == nil {
		declined = []int64{}
	}
	return &CancelTrainingResponse{
		Training:         models.FromDomainTraining(resp.Training),
		DeclinedRequests: declined,
	}
}
