package directory

import "errors"

var (
	// ErrTrainerNotFound возвращается, когда тренер не найден в справочнике
	ErrTrainerNotFound = errors.New("directory client: trainer not found")

	// ErrCompanyNotFound возвращается, когда компания не найдена в справочнике
	ErrCompanyNotFound = errors.New("directory client: company not found")

	// ErrTopicNotFound возвращается, когда тема не найдена в справочнике
	ErrTopicNotFound = errors.New("directory client: topic not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("directory client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("directory client: invalid response")

	// ErrCacheMiss возвращается кэшем, когда значения нет
	ErrCacheMiss = errors.New("directory cache: miss")
)
