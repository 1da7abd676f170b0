package transition_request

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-TrainingService/internal/domain"
)

var (
	// ErrRequestNotFound возвращается, когда заявка не найдена
	ErrRequestNotFound = fmt.Errorf("%w: transition_request: request", domain.ErrNotFound)

	// ErrAccessDenied возвращается, когда пользователь не является стороной заявки
	ErrAccessDenied = fmt.Errorf("%w: transition_request: caller is not a party of the request", domain.ErrAccessDenied)

	// ErrTrainingClosed возвращается, когда тренинг завершен или отменен
	ErrTrainingClosed = fmt.Errorf("%w: transition_request: training is closed", domain.ErrInvalidState)

	// ErrStaleVersion возвращается, когда expectedVersion не совпадает с текущей версией заявки
	ErrStaleVersion = fmt.Errorf("%w: transition_request: request version has changed", domain.ErrConflict)

	// ErrSlotTaken возвращается, когда у тренинга уже есть принятая заявка
	ErrSlotTaken = fmt.Errorf("%w: transition_request: training already has an accepted request", domain.ErrConflict)

	// ErrSlotHeld возвращается, когда другой тренер уже принял встречное предложение и ждет подтверждения компании
	ErrSlotHeld = fmt.Errorf("%w: transition_request: another trainer is awaiting company confirmation", domain.ErrConflict)

	// ErrConcurrentUpdate возвращается при проигранной гонке (версия строки, ошибка сериализации)
	ErrConcurrentUpdate = fmt.Errorf("%w: transition_request: concurrent update", domain.ErrConflict)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: transition_request: invalid input", domain.ErrValidation)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("transition_request: internal error")
)
