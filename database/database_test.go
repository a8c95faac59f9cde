package database

import (
	"testing"

	"househelper/config"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)
	return db, mock
}

func TestDialector(t *testing.T) {
	d, err := Dialector(config.DatabaseConfig{Driver: "mysql", DSN: "u:p@tcp(127.0.0.1:3306)/db"})
	require.NoError(t, err)
	assert.Equal(t, "mysql", d.Name())

	d, err = Dialector(config.DatabaseConfig{Driver: "postgres", DSN: "host=localhost user=u dbname=db"})
	require.NoError(t, err)
	assert.Equal(t, "postgres", d.Name())

	_, err = Dialector(config.DatabaseConfig{Driver: "oracle"})
	assert.Error(t, err)
}

func TestEnsureSuperuser_Skipped(t *testing.T) {
	db, mock := setupMockDB(t)
	require.NoError(t, EnsureSuperuser(db, config.BootstrapConfig{}, bcrypt.MinCost))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureSuperuser_AlreadyExists(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectQuery("SELECT .* FROM `users`").
		WithArgs("admin").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username"}).AddRow(1, "admin"))

	err := EnsureSuperuser(db, config.BootstrapConfig{Username: "admin", Password: "secret"}, bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureSuperuser_Create(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectQuery("SELECT .* FROM `users`").
		WithArgs("admin").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `users`").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := EnsureSuperuser(db, config.BootstrapConfig{Username: "admin", Email: "admin@example.com", Password: "secret"}, bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
