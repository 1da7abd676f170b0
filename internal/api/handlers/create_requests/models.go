package create_requests

import (
	"github.com/m04kA/SMC-TrainingService/internal/service/requests/models"
	createRequests "github.com/m04kA/SMC-TrainingService/internal/usecase/create_requests"
)

// CreateRequestsRequest HTTP request model
type CreateRequestsRequest struct {
	TrainerIDs []int64 `json:"trainerIds" validate:"required,min=1,max=50,dive,gt=0"`
}

// CreateRequestsResponse HTTP response model
type CreateRequestsResponse struct {
	TrainingID int64                     `json:"trainingId"`
	Created    []*models.RequestResponse `json:"created"`
	Duplicates []int64                   `json:"duplicates"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createRequests.Response) *CreateRequestsResponse {
	out := &CreateRequestsResponse{
		TrainingID: resp.TrainingID,
		Created:    make([]*models.RequestResponse, 0, len(resp.Created)),
		Duplicates: resp.Duplicates,
	}
	if out.Duplicates == nil {
		out.Duplicates = []int64{}
	}
	for _, r := range resp.Created {
		out.Created = append(out.Created, models.FromDomainRequest(r, resp.Training))
	}
	return out
}
