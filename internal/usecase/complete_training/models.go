package complete_training

import "github.com/m04kA/SMC-TrainingService/internal/domain"

// Request модель запроса на завершение тренинга
type Request struct {
	TrainingID int64
	Principal  domain.Principal
}

// Response модель ответа
type Response struct {
	Training           *domain.Training
	Invoice            *domain.Invoice // nil, если принятой заявки нет или расчет отложен
	SettlementDeferred bool            // расчет не удался и поставлен в очередь
	DeclinedRequests   []int64         // PENDING заявки, закрытые с причиной TRAINING_COMPLETED
}
