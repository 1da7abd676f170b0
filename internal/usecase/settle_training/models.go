package settle_training

import "github.com/m04kA/SMC-TrainingService/internal/domain"

// Request модель запроса на расчет по тренингу
type Request struct {
	TrainingID int64
}

// Response модель ответа
// Invoice == nil, если по тренингу нет принятой заявки
type Response struct {
	Invoice *domain.Invoice
	Created bool // false, если счет уже был выставлен ранее
}
