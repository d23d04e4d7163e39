package service

import (
	"errors"
	"fmt"

	"inovocb/internal/domain"

	"github.com/go-sql-driver/mysql"
)

const defaultTxRetries = 3

// runWithRetry executes fn up to attempts times, retrying only on lock
// contention. No operation blocks indefinitely: once the budget is spent the
// caller gets ErrContention and may retry at its own pace.
func runWithRetry(attempts int, fn func() error) error {
	if attempts < 1 {
		attempts = defaultTxRetries
	}
	var err error
	for i := 0; i < attempts; i++ {
		err = fn()
		if err == nil || !isLockContention(err) {
			return err
		}
	}
	return fmt.Errorf("%w: %v", domain.ErrContention, err)
}

// isLockContention recognizes MySQL deadlock (1213) and lock wait timeout
// (1205); everything else is a real failure and must not be retried.
func isLockContention(err error) bool {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == 1213 || me.Number == 1205
	}
	return false
}
