package database

import (
	"errors"
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
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	return db, mock
}

func countRows(n int64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"count(*)"}).AddRow(n)
}

func TestSeedDefaultsSkipsPopulatedTables(t *testing.T) {
	db, mock := setupMockDB(t)

	mock.ExpectQuery("SELECT count(.+) FROM `levels`").WillReturnRows(countRows(5))
	mock.ExpectQuery("SELECT count(.+) FROM `reward_programs`").WillReturnRows(countRows(1))
	mock.ExpectQuery("SELECT count(.+) FROM `spin_wheels`").WillReturnRows(countRows(1))

	require.NoError(t, SeedDefaults(db))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeedDefaultsSurfacesInsertFailure(t *testing.T) {
	db, mock := setupMockDB(t)

	mock.ExpectQuery("SELECT count(.+) FROM `levels`").WillReturnRows(countRows(0))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `levels`").WillReturnError(errors.New("table is read only"))
	mock.ExpectRollback()

	err := SeedDefaults(db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "seed levels")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeedDefaultsSurfacesCountFailure(t *testing.T) {
	db, mock := setupMockDB(t)

	mock.ExpectQuery("SELECT count(.+) FROM `levels`").WillReturnRows(countRows(5))
	mock.ExpectQuery("SELECT count(.+) FROM `reward_programs`").
		WillReturnError(errors.New("connection reset"))

	err := SeedDefaults(db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "seed program")
}
