package cancel_training

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-TrainingService/internal/domain"
)

var (
	// ErrTrainingNotFound возвращается, когда тренинг не найден
	ErrTrainingNotFound = fmt.Errorf("%w: cancel_training: training", domain.ErrNotFound)

	// ErrAccessDenied возвращается, когда тренинг принадлежит другой компании
	ErrAccessDenied = fmt.Errorf("%w: cancel_training: training belongs to another company", domain.ErrAccessDenied)

	// ErrAlreadyCompleted возвращается при попытке отменить завершенный тренинг
	ErrAlreadyCompleted = fmt.Errorf("%w: cancel_training: training is completed", domain.ErrInvalidState)

	// ErrConcurrentUpdate возвращается при проигранной гонке
	ErrConcurrentUpdate = fmt.Errorf("%w: cancel_training: concurrent update", domain.ErrConflict)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: cancel_training: invalid input", domain.ErrValidation)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("cancel_training: internal error")
)
