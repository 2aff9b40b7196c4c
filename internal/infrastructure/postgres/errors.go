package postgres

import (
	"errors"

	"github.com/lib/pq"
)

// PostgreSQLのエラーコード
const (
	codeUniqueViolation  = "23505"
	codeLockNotAvailable = "55P03"
)

// isUniqueViolation は一意制約違反かを返す
func isUniqueViolation(err error) bool {
	var pgErr *pq.Error
	return errors.As(err, &pgErr) && string(pgErr.Code) == codeUniqueViolation
}

// isLockNotAvailable はロック待ちタイムアウト（lock_timeout 超過）かを返す
func isLockNotAvailable(err error) bool {
	var pgErr *pq.Error
	return errors.As(err, &pgErr) && string(pgErr.Code) == codeLockNotAvailable
}
