package requests

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-TrainingService/internal/domain"
)

var (
	// ErrRequestNotFound возвращается, когда заявка не найдена
	ErrRequestNotFound = fmt.Errorf("%w: request", domain.ErrNotFound)

	// ErrAccessDenied возвращается, когда пользователь не является стороной заявки
	ErrAccessDenied = fmt.Errorf("%w: caller is not a party of the request", domain.ErrAccessDenied)

	// ErrInvalidInput возвращается при некорректных параметрах запроса
	ErrInvalidInput = fmt.Errorf("%w: invalid list parameters", domain.ErrValidation)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("requests.service: internal error")
)
