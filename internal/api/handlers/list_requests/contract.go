package list_requests

import (
	"context"

	"github.com/m04kA/SMC-TrainingService/internal/service/requests/models"
)

type RequestService interface {
	List(ctx context.Context, req *models.ListRequestsRequest) (*models.RequestListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
