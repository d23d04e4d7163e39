package repository

import (
	"testing"

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

// The guarded UPDATEs are the oversell/double-claim protection: the row
// predicate refuses the second writer, and RowsAffected reports it.

func TestMarkClaimedGuard(t *testing.T) {
	tests := []struct {
		name         string
		rowsAffected int64
		want         bool
	}{
		{"first claim flips the row", 1, true},
		{"second claim matches nothing", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := setupMockDB(t)
			repo := NewChallengeRepository(db)

			mock.ExpectBegin()
			mock.ExpectExec("UPDATE `user_challenges` SET").
				WillReturnResult(sqlmock.NewResult(0, tt.rowsAffected))
			mock.ExpectCommit()

			var got bool
			err := db.Transaction(func(tx *gorm.DB) error {
				var err error
				got, err = repo.MarkClaimed(tx, 5)
				return err
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDecrementStockGuard(t *testing.T) {
	tests := []struct {
		name         string
		rowsAffected int64
		want         bool
	}{
		{"stock available", 1, true},
		{"last unit already taken", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := setupMockDB(t)
			repo := NewRewardRepository(db)

			mock.ExpectBegin()
			mock.ExpectExec("UPDATE `rewards` SET").
				WillReturnResult(sqlmock.NewResult(0, tt.rowsAffected))
			mock.ExpectCommit()

			var got bool
			err := db.Transaction(func(tx *gorm.DB) error {
				var err error
				got, err = repo.DecrementStock(tx, 3)
				return err
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestHighestForPicksHighestThreshold(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewLevelRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "level", "points_required"}).
		AddRow(3, "Gold", 3, 2000)
	mock.ExpectQuery("SELECT (.+) FROM `levels` WHERE points_required <= (.+) ORDER BY points_required DESC").
		WillReturnRows(rows)

	lvl, err := repo.HighestFor(db, 2500)
	require.NoError(t, err)
	require.NotNil(t, lvl)
	assert.Equal(t, 3, lvl.Level)
	assert.Equal(t, 2000, lvl.PointsRequired)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHighestForBelowEveryThreshold(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewLevelRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM `levels`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "level", "points_required"}))

	lvl, err := repo.HighestFor(db, -1)
	require.NoError(t, err)
	assert.Nil(t, lvl)
	assert.NoError(t, mock.ExpectationsWereMet())
}
