package entity

import (
	"testing"

	"asset-catalog/internal/apperr"
	"asset-catalog/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func mockPostgres(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestFormatAssetNumber(t *testing.T) {
	assert.Equal(t, "SRV-0007", FormatAssetNumber("SRV-", 7))
	assert.Equal(t, "PC-12345", FormatAssetNumber("PC-", 12345))
	assert.Equal(t, "0001", FormatAssetNumber("", 1))
}

// The increment must reach postgres before the counter is read back: the UPDATE
// takes the row lock that serializes concurrent creators of the same type.
func TestReserveNumber_PostgresStatements(t *testing.T) {
	db, mock := mockPostgres(t)
	mock.MatchExpectationsInOrder(true)
	at := &models.AssetType{Model: gorm.Model{ID: 5}, OrganizationID: 3, AutoNumberPrefix: "SRV-"}

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "asset_types" SET "auto_number_next"=auto_number_next \+ \$1 WHERE .*organization_id = \$3`).
		WithArgs(1, 5, 3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT "auto_number_next" FROM "asset_types" WHERE id = \$1`).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"auto_number_next"}).AddRow(8))
	mock.ExpectCommit()

	var number string
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		number, err = reserveNumber(tx, at)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, "SRV-0007", number)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReserveNumber_MissingRowRollsBack(t *testing.T) {
	db, mock := mockPostgres(t)
	at := &models.AssetType{Model: gorm.Model{ID: 5}, OrganizationID: 3, AutoNumberPrefix: "SRV-"}

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "asset_types" SET "auto_number_next"`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := db.Transaction(func(tx *gorm.DB) error {
		_, err := reserveNumber(tx, at)
		return err
	})
	assert.True(t, apperr.IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}
