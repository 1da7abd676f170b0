package create_requests

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-TrainingService/internal/domain"
)

var (
	// ErrTrainingNotFound возвращается, когда тренинг не найден
	ErrTrainingNotFound = fmt.Errorf("%w: create_requests: training", domain.ErrNotFound)

	// ErrTrainerNotFound возвращается, когда тренер отсутствует в справочнике
	ErrTrainerNotFound = fmt.Errorf("%w: create_requests: trainer", domain.ErrNotFound)

	// ErrAccessDenied возвращается, когда тренинг принадлежит другой компании
	ErrAccessDenied = fmt.Errorf("%w: create_requests: training belongs to another company", domain.ErrAccessDenied)

	// ErrTrainingClosed возвращается, когда тренинг завершен или отменен
	ErrTrainingClosed = fmt.Errorf("%w: create_requests: training does not accept requests", domain.ErrInvalidState)

	// ErrConcurrentUpdate возвращается, когда не удалось создать заявки за отведенное число попыток
	ErrConcurrentUpdate = fmt.Errorf("%w: create_requests: concurrent update", domain.ErrConflict)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: create_requests: invalid input", domain.ErrValidation)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_requests: internal error")
)
