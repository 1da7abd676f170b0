package request

import "errors"

var (
	// ErrRequestNotFound возвращается, когда заявка не найдена
	ErrRequestNotFound = errors.New("request.repository: request not found")

	// ErrDuplicateActive возвращается при попытке создать вторую активную заявку для пары (тренинг, тренер)
	ErrDuplicateActive = errors.New("request.repository: active request for trainer already exists")

	// ErrAlreadyAccepted возвращается, когда у тренинга уже есть принятая заявка
	ErrAlreadyAccepted = errors.New("request.repository: training already has an accepted request")

	// ErrVersionConflict возвращается, когда версия строки изменилась с момента чтения
	ErrVersionConflict = errors.New("request.repository: version conflict")

	// ErrTransaction возвращается, когда блокирующий запрос вызван вне транзакции
	ErrTransaction = errors.New("request.repository: transaction required")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("request.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("request.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("request.repository: failed to scan row")
)
