// internal/services/inventory_service_test.go
package services

import (
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motorlot/carmarket-backend/internal/models"
)

func TestDecrementSufficientStock(t *testing.T) {
	db, mock := newMockDB(t)
	inventory := NewInventoryService(db, NewAuthzService(db))
	lineID := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "wholesale_cars" SET "count"=count - $1`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := inventory.Decrement(db, &models.WholesaleCar{}, lineID, 3)
	assert.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDecrementInsufficientStock(t *testing.T) {
	db, mock := newMockDB(t)
	inventory := NewInventoryService(db, NewAuthzService(db))
	lineID := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "retail_cars" SET "count"=count - $1`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := inventory.Decrement(db, &models.RetailCar{}, lineID, 1)
	assert.ErrorIs(t, err, ErrInsufficientStock)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDecrementNegativeQuantity(t *testing.T) {
	db, _ := newMockDB(t)
	inventory := NewInventoryService(db, NewAuthzService(db))

	err := inventory.Decrement(db, &models.WholesaleCar{}, uuid.New(), -2)
	assert.Error(t, err)
}

func TestUpsertIncrementRetailExistingLine(t *testing.T) {
	db, mock := newMockDB(t)
	inventory := NewInventoryService(db, NewAuthzService(db))

	dealershipID := uuid.New()
	manufacturerID := uuid.New()
	lineID := uuid.New()

	rows := sqlmock.NewRows([]string{"id", "name", "cost_price", "retail_price", "count", "dealership_id", "manufacturer_id"}).
		AddRow(lineID.String(), "Leaf", int64(18_000), int64(22_000), int64(4), dealershipID.String(), manufacturerID.String())
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "retail_cars"`)).WillReturnRows(rows)
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "retail_cars" SET "count"=count + $1`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	line, err := inventory.UpsertIncrementRetail(db, "Leaf", dealershipID, manufacturerID, 18_000, 18_000, 5)
	require.NoError(t, err)

	// The merged line keeps its existing prices; only the count moves.
	assert.Equal(t, lineID, line.ID)
	assert.Equal(t, int64(9), line.Count)
	assert.Equal(t, int64(22_000), line.RetailPrice)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertIncrementRetailNewLine(t *testing.T) {
	db, mock := newMockDB(t)
	inventory := NewInventoryService(db, NewAuthzService(db))

	dealershipID := uuid.New()
	manufacturerID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "retail_cars"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "retail_cars"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New().String()))

	line, err := inventory.UpsertIncrementRetail(db, "Leaf", dealershipID, manufacturerID, 18_000, 18_000, 5)
	require.NoError(t, err)

	// A fresh line starts at the incoming cost price for both prices.
	assert.Equal(t, int64(5), line.Count)
	assert.Equal(t, int64(18_000), line.CostPrice)
	assert.Equal(t, int64(18_000), line.RetailPrice)
	require.NoError(t, mock.ExpectationsWereMet())
}
