package complete_training

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-TrainingService/internal/domain"
)

var (
	// ErrTrainingNotFound возвращается, когда тренинг не найден
	ErrTrainingNotFound = fmt.Errorf("%w: complete_training: training", domain.ErrNotFound)

	// ErrAccessDenied возвращается, когда тренинг принадлежит другой компании
	ErrAccessDenied = fmt.Errorf("%w: complete_training: training belongs to another company", domain.ErrAccessDenied)

	// ErrInvalidTransition возвращается, когда тренинг нельзя завершить из текущего статуса
	ErrInvalidTransition = fmt.Errorf("%w: complete_training: training cannot be completed", domain.ErrInvalidState)

	// ErrConcurrentUpdate возвращается при проигранной гонке
	ErrConcurrentUpdate = fmt.Errorf("%w: complete_training: concurrent update", domain.ErrConflict)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: complete_training: invalid input", domain.ErrValidation)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("complete_training: internal error")
)
