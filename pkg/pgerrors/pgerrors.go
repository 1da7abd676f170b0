package pgerrors

import (
	"errors"

	"github.com/lib/pq"
)

// Коды ошибок PostgreSQL, которые обрабатываются явно
const (
	CodeUniqueViolation      = pq.ErrorCode("23505")
	CodeCheckViolation       = pq.ErrorCode("23514")
	CodeSerializationFailure = pq.ErrorCode("40001")
	CodeDeadlockDetected     = pq.ErrorCode("40P01")
)

// Code возвращает код ошибки PostgreSQL из цепочки ошибок
func Code(err error) (pq.ErrorCode, bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code, true
	}
	return "", false
}

// IsSerializationFailure ошибка сериализации или дедлок, транзакцию можно повторить
func IsSerializationFailure(err error) bool {
	code, ok := Code(err)
	return ok && (code == CodeSerializationFailure || code == CodeDeadlockDetected)
}

// IsUniqueViolation нарушение уникальности
// Если constraint не пустой, проверяется и имя ограничения
func IsUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || pqErr.Code != CodeUniqueViolation {
		return false
	}
	return constraint == "" || pqErr.Constraint == constraint
}
