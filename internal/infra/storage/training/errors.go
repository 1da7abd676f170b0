package training

import "errors"

var (
	// ErrTrainingNotFound возвращается, когда тренинг не найден
	ErrTrainingNotFound = errors.New("training.repository: training not found")

	// ErrTransaction возвращается, когда блокирующий запрос вызван вне транзакции
	ErrTransaction = errors.New("training.repository: transaction required")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("training.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("training.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("training.repository: failed to scan row")
)
