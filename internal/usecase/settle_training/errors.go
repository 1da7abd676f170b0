package settle_training

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-TrainingService/internal/domain"
)

var (
	// ErrTrainingNotFound возвращается, когда тренинг не найден
	ErrTrainingNotFound = fmt.Errorf("%w: settle_training: training", domain.ErrNotFound)

	// ErrNotCompleted возвращается, когда тренинг еще не завершен
	ErrNotCompleted = fmt.Errorf("%w: settle_training: training is not completed", domain.ErrInvalidState)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: settle_training: invalid input", domain.ErrValidation)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("settle_training: internal error")
)
