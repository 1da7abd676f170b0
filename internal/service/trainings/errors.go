package trainings

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-TrainingService/internal/domain"
)

var (
	// ErrTrainingNotFound возвращается, когда тренинг не найден
	ErrTrainingNotFound = fmt.Errorf("%w: training", domain.ErrNotFound)

	// ErrCompanyNotFound возвращается, когда компания не найдена в справочнике
	ErrCompanyNotFound = fmt.Errorf("%w: company", domain.ErrNotFound)

	// ErrTopicNotFound возвращается, когда тема не найдена в справочнике
	ErrTopicNotFound = fmt.Errorf("%w: topic", domain.ErrNotFound)

	// ErrInvoiceNotFound возвращается, когда счет по тренингу еще не выставлен
	ErrInvoiceNotFound = fmt.Errorf("%w: invoice", domain.ErrNotFound)

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = fmt.Errorf("%w: training belongs to another company", domain.ErrAccessDenied)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: invalid training data", domain.ErrValidation)

	// ErrPriceLocked возвращается, когда переговоры зашли слишком далеко для смены цены
	ErrPriceLocked = fmt.Errorf("%w: asking price is locked once a trainer accepted", domain.ErrInvalidState)

	// ErrInvalidTransition возвращается при недопустимой смене статуса тренинга
	ErrInvalidTransition = fmt.Errorf("%w: training status transition not allowed", domain.ErrInvalidState)

	// ErrConflict возвращается, когда параллельная транзакция изменила тренинг
	ErrConflict = fmt.Errorf("%w: training was modified concurrently", domain.ErrConflict)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("trainings.service: internal error")
)
