package create_requests

import "github.com/m04kA/SMC-TrainingService/internal/domain"

// Request модель запроса на рассылку тренинга тренерам
type Request struct {
	TrainingID int64
	Principal  domain.Principal
	TrainerIDs []int64
}

// Response модель ответа
type Response struct {
	TrainingID int64
	Training   *domain.Training
	Created    []*domain.TrainingRequest
	Duplicates []int64 // тренеры, у которых уже есть активная заявка (или повтор в запросе)
}
