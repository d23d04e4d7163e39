package service

import (
	"errors"
	"fmt"
	"testing"

	"inovocb/internal/domain"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
)

func deadlock() error {
	return &mysql.MySQLError{Number: 1213, Message: "Deadlock found when trying to get lock"}
}

func TestRunWithRetrySucceedsAfterDeadlock(t *testing.T) {
	calls := 0
	err := runWithRetry(3, func() error {
		calls++
		if calls < 3 {
			return deadlock()
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRunWithRetryExhaustedBudget(t *testing.T) {
	calls := 0
	err := runWithRetry(3, func() error {
		calls++
		return deadlock()
	})
	assert.ErrorIs(t, err, domain.ErrContention)
	assert.Equal(t, 3, calls)
}

func TestRunWithRetryDoesNotRetryRealFailures(t *testing.T) {
	boom := errors.New("constraint violation")
	calls := 0
	err := runWithRetry(3, func() error {
		calls++
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestRunWithRetryWrappedDeadlockStillRetries(t *testing.T) {
	calls := 0
	err := runWithRetry(2, func() error {
		calls++
		return fmt.Errorf("credit: %w", deadlock())
	})
	assert.ErrorIs(t, err, domain.ErrContention)
	assert.Equal(t, 2, calls)
}

func TestIsLockContention(t *testing.T) {
	assert.True(t, isLockContention(&mysql.MySQLError{Number: 1213}))
	assert.True(t, isLockContention(&mysql.MySQLError{Number: 1205}))
	assert.False(t, isLockContention(&mysql.MySQLError{Number: 1062}))
	assert.False(t, isLockContention(errors.New("deadlock")))
	assert.False(t, isLockContention(nil))
}
