package listing

import "errors"

var (
	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("listing.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("listing.repository: failed to execute query")

	// ErrInvalidRow возвращается, когда строка из БД не проходит доменную проверку
	ErrInvalidRow = errors.New("listing.repository: invalid row")
)
