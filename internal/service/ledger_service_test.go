package service

import (
	"testing"

	"inovocb/internal/domain"
	"inovocb/internal/models"
	"inovocb/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return gormDB, mock
}

func newLedgerForTest(db *gorm.DB) *LedgerService {
	accounts := repository.NewAccountRepository(db)
	levels := repository.NewLevelRepository(db)
	notifications := repository.NewNotificationRepository(db)
	levelSvc := NewLevelService(db, accounts, levels, notifications, nil, 1)
	return NewLedgerService(db, accounts, repository.NewLedgerRepository(db), levelSvc, nil, 1)
}

func TestCreditLockedBonusSkipsLifetime(t *testing.T) {
	db, mock := setupMockDB(t)
	svc := newLedgerForTest(db)

	a := &models.PointsAccount{ID: 1, UserID: 7, PointsBalance: 100, LifetimePoints: 500}

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `points_accounts`").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO `point_transactions`").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	var tr *models.PointTransaction
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		tr, _, err = svc.CreditLocked(tx, a, 40, domain.TxTypeBonus, "redemption_refund", nil, false)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, 40, tr.Amount)
	assert.Equal(t, 140, tr.BalanceAfter)
	assert.Equal(t, 140, a.PointsBalance)
	assert.Equal(t, 500, a.LifetimePoints, "refund must not move lifetime points")
	assert.NotEmpty(t, tr.TransactionID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreditLockedEarnAppliesMultiplier(t *testing.T) {
	db, mock := setupMockDB(t)
	svc := newLedgerForTest(db)

	levelID := uint(2)
	a := &models.PointsAccount{
		ID: 1, UserID: 7,
		PointsBalance: 10, LifetimePoints: 600,
		CurrentLevelID: &levelID,
		CurrentLevel:   &models.Level{ID: levelID, Level: 2, PointsRequired: 500, PointsMultiplier: 1.5},
	}

	mock.ExpectBegin()
	// Level re-derivation lands back on the current level, so no level write.
	mock.ExpectQuery("SELECT (.+) FROM `levels`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "level", "points_required", "points_multiplier", "daily_bonus_spins"}).
			AddRow(2, "Silver", 2, 500, 1.5, 0))
	mock.ExpectExec("UPDATE `points_accounts`").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO `point_transactions`").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	var tr *models.PointTransaction
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		tr, _, err = svc.CreditLocked(tx, a, 100, domain.TxTypeEarn, "receipt_r1", nil, true)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, 150, tr.Amount, "1.5x level multiplier, floored")
	assert.Equal(t, 160, tr.BalanceAfter)
	assert.Equal(t, 750, a.LifetimePoints)
	assert.Equal(t, 150, a.PointsEarnedToday)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreditLockedRejectsNonPositive(t *testing.T) {
	db, _ := setupMockDB(t)
	svc := newLedgerForTest(db)
	a := &models.PointsAccount{ID: 1, PointsBalance: 100}
	_, _, err := svc.CreditLocked(db, a, 0, domain.TxTypeEarn, "x", nil, false)
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	_, _, err = svc.CreditLocked(db, a, -5, domain.TxTypeEarn, "x", nil, false)
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	assert.Equal(t, 100, a.PointsBalance)
}

func TestDebitLockedInsufficientBalance(t *testing.T) {
	db, mock := setupMockDB(t)
	svc := newLedgerForTest(db)

	a := &models.PointsAccount{ID: 1, UserID: 7, PointsBalance: 30}

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := db.Transaction(func(tx *gorm.DB) error {
		_, err := svc.DebitLocked(tx, a, 31, domain.TxTypeSpend, "redemption_x")
		return err
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientBalance)
	assert.Equal(t, 30, a.PointsBalance, "failed debit must leave the balance untouched")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDebitLockedWritesNegativeAmount(t *testing.T) {
	db, mock := setupMockDB(t)
	svc := newLedgerForTest(db)

	a := &models.PointsAccount{ID: 1, UserID: 7, PointsBalance: 30}

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `points_accounts`").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO `point_transactions`").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	var tr *models.PointTransaction
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		tr, err = svc.DebitLocked(tx, a, 30, domain.TxTypeSpend, "redemption_x")
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, -30, tr.Amount)
	assert.Equal(t, 0, tr.BalanceAfter)
	assert.Equal(t, 0, a.PointsBalance)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExpireLockedClampsToBalance(t *testing.T) {
	db, mock := setupMockDB(t)
	svc := newLedgerForTest(db)

	a := &models.PointsAccount{ID: 1, UserID: 7, PointsBalance: 20}

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `points_accounts`").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO `point_transactions`").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	var actual int
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		actual, err = svc.expireLocked(tx, a, 50, "expiry_t1")
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, 20, actual, "expiry never drives the balance negative")
	assert.Equal(t, 0, a.PointsBalance)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExpireLockedNothingToExpire(t *testing.T) {
	db, mock := setupMockDB(t)
	svc := newLedgerForTest(db)

	a := &models.PointsAccount{ID: 1, PointsBalance: 0}

	mock.ExpectBegin()
	mock.ExpectCommit()

	var actual int
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		actual, err = svc.expireLocked(tx, a, 50, "expiry_t2")
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, 0, actual)
	assert.NoError(t, mock.ExpectationsWereMet())
}
