package transition_request

import (
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-TrainingService/internal/domain"
)

// Request модель запроса на переход заявки
type Request struct {
	RequestID       int64
	Principal       domain.Principal // сторона, выполняющая действие
	Action          domain.Action
	Price           *decimal.Decimal // только для COUNTER
	ExpectedVersion *int64           // оптимистичная проверка версии (опционально)
}

// Response модель ответа после перехода
type Response struct {
	Request          *domain.TrainingRequest // состояние после перехода
	Training         *domain.Training
	Transition       domain.Transition
	DeclinedSiblings []int64 // заявки, автоматически отклоненные при распределении слота
}
