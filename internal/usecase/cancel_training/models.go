package cancel_training

import "github.com/m04kA/SMC-TrainingService/internal/domain"

// Request модель запроса на отмену тренинга
type Request struct {
	TrainingID int64
	Principal  domain.Principal
}

// Response модель ответа
type Response struct {
	Training         *domain.Training
	DeclinedRequests []int64 // PENDING заявки, закрытые с причиной TRAINING_CANCELLED
	AlreadyCancelled bool
}
