// internal/services/production_service_test.go
package services

import (
	"math"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newProductionService(db *gorm.DB) *ProductionService {
	return NewProductionService(db, NewLedgerService(), NewInventoryService(db, NewAuthzService(db)))
}

// Count is capped at validation time, before any row is read. An absurd run
// size never reaches the cost computation.
func TestRunManufacturingOrderCountCapped(t *testing.T) {
	db, mock := newMockDB(t)
	production := newProductionService(db)

	_, err := production.RunManufacturingOrder(uuid.New(), &RunManufacturingOrderRequest{
		BlueprintID: uuid.New(),
		Count:       10_001,
	})
	assert.ErrorContains(t, err, "validation failed")
	require.NoError(t, mock.ExpectationsWereMet())
}

// An order whose total would wrap int64 is refused before the transaction
// opens, so the debit guard never sees a wrapped (possibly tiny or negative)
// amount.
func TestRunManufacturingOrderOverflowingTotal(t *testing.T) {
	db, mock := newMockDB(t)
	production := newProductionService(db)

	adminID := uuid.New()
	manufacturerID := uuid.New()
	blueprintID := uuid.New()

	manufacturerRows := sqlmock.NewRows([]string{"id", "name", "balance", "admin_id"}).
		AddRow(manufacturerID.String(), "Nissan", int64(1_000_000), adminID.String())
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "manufacturers"`)).
		WillReturnRows(manufacturerRows)

	blueprintRows := sqlmock.NewRows([]string{"id", "name", "unit_price", "manufacturer_id"}).
		AddRow(blueprintID.String(), "Leaf", int64(math.MaxInt64/2), manufacturerID.String())
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "blueprints"`)).
		WillReturnRows(blueprintRows)

	_, err := production.RunManufacturingOrder(adminID, &RunManufacturingOrderRequest{
		BlueprintID: blueprintID,
		Count:       3,
	})
	assert.ErrorContains(t, err, "overflows")
	require.NoError(t, mock.ExpectationsWereMet())
}
