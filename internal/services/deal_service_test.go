// internal/services/deal_service_test.go
package services

import (
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/motorlot/carmarket-backend/internal/models"
)

func TestAcceptable(t *testing.T) {
	tests := []struct {
		name      string
		balance   int64
		totalCost int64
		stock     int64
		quantity  int64
		want      bool
	}{
		{"funds and stock suffice", 100, 100, 5, 5, true},
		{"short one unit of money", 99, 100, 5, 5, false},
		{"short one unit of stock", 100, 100, 4, 5, false},
		{"free deal against empty wallet", 0, 0, 1, 1, true},
		{"zero stock", 100, 50, 0, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, acceptable(tt.balance, tt.totalCost, tt.stock, tt.quantity))
		})
	}
}

func newDealService(db *gorm.DB) *DealService {
	authz := NewAuthzService(db)
	return NewDealService(db, authz, NewLedgerService(), NewInventoryService(db, authz))
}

// wholesaleFixture pins down one wholesale deal and every row its accept
// transition touches.
type wholesaleFixture struct {
	dealID         uuid.UUID
	carID          uuid.UUID
	dealershipID   uuid.UUID
	manufacturerID uuid.UUID
	dealerAdminID  uuid.UUID
	makerAdminID   uuid.UUID
}

func newWholesaleFixture() wholesaleFixture {
	return wholesaleFixture{
		dealID:         uuid.New(),
		carID:          uuid.New(),
		dealershipID:   uuid.New(),
		manufacturerID: uuid.New(),
		dealerAdminID:  uuid.New(),
		makerAdminID:   uuid.New(),
	}
}

func (f wholesaleFixture) dealRows(status models.DealStatus, askingPrice, quantity int64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "status", "car_id", "asking_price", "quantity", "dealership_id"}).
		AddRow(f.dealID.String(), string(status), f.carID.String(), askingPrice, quantity, f.dealershipID.String())
}

func (f wholesaleFixture) dealershipRows(balance int64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "balance", "admin_id"}).
		AddRow(f.dealershipID.String(), "Downtown Motors", balance, f.dealerAdminID.String())
}

func (f wholesaleFixture) actGrantRows(subjectID uuid.UUID) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "subject_id", "object_type", "object_id", "capability"}).
		AddRow(uuid.New().String(), subjectID.String(), string(models.ObjectTypeWholesaleDeal),
			f.dealID.String(), string(models.CapabilityAct))
}

func (f wholesaleFixture) carRows(costPrice, count int64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "cost_price", "wholesale_price", "count", "manufacturer_id"}).
		AddRow(f.carID.String(), "Leaf", costPrice, costPrice+500, count, f.manufacturerID.String())
}

func (f wholesaleFixture) manufacturerRows(balance int64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "balance", "admin_id"}).
		AddRow(f.manufacturerID.String(), "Nissan", balance, f.makerAdminID.String())
}

// The full accept transition: a dealership holding 20_000 accepts a
// 10_000 offer for 3 cars. Exactly 10_000 moves from dealership to
// manufacturer, the wholesale line loses 3 units and the dealership's
// retail line gains them, all in one transaction.
func TestAcceptWholesaleDealMovesMoneyAndStock(t *testing.T) {
	db, mock := newMockDB(t)
	deals := newDealService(db)
	f := newWholesaleFixture()
	retailLineID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "wholesale_deals"`)).
		WillReturnRows(f.dealRows(models.DealStatusPending, 10_000, 3))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "dealerships"`)).
		WillReturnRows(f.dealershipRows(20_000))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "deal_grants"`)).
		WillReturnRows(f.actGrantRows(f.makerAdminID))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "wholesale_cars"`)).
		WillReturnRows(f.carRows(2_500, 5))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "manufacturers"`)).
		WillReturnRows(f.manufacturerRows(0))

	// The asking price is the total for the lot, not per unit.
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "dealerships" SET "balance"=balance - $1`)).
		WithArgs(int64(10_000), f.dealershipID.String(), int64(10_000)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "manufacturers" SET "balance"=balance + $1`)).
		WithArgs(int64(10_000), f.manufacturerID.String()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "wholesale_cars" SET "count"=count - $1`)).
		WithArgs(int64(3), f.carID.String(), int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	existingLine := sqlmock.NewRows([]string{"id", "name", "cost_price", "retail_price", "count", "dealership_id", "manufacturer_id"}).
		AddRow(retailLineID.String(), "Leaf", int64(2_500), int64(3_200), int64(2), f.dealershipID.String(), f.manufacturerID.String())
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "retail_cars"`)).
		WillReturnRows(existingLine)
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "retail_cars" SET "count"=count + $1`)).
		WithArgs(int64(3), retailLineID.String()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "wholesale_deals" SET "status"=$1`)).
		WithArgs(string(models.DealStatusAccepted), sqlmock.AnyArg(), f.dealID.String(), string(models.DealStatusPending)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	deal, err := deals.AcceptWholesaleDeal(f.makerAdminID, f.dealID)
	require.NoError(t, err)
	assert.Equal(t, models.DealStatusAccepted, deal.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

// A dealership that cannot cover the asking price declines the transition:
// the deal comes back still PENDING with no error, and no balance or stock
// statement ever fires.
func TestAcceptWholesaleDealInsufficientBalance(t *testing.T) {
	db, mock := newMockDB(t)
	deals := newDealService(db)
	f := newWholesaleFixture()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "wholesale_deals"`)).
		WillReturnRows(f.dealRows(models.DealStatusPending, 10_000, 3))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "dealerships"`)).
		WillReturnRows(f.dealershipRows(5_000))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "deal_grants"`)).
		WillReturnRows(f.actGrantRows(f.makerAdminID))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "wholesale_cars"`)).
		WillReturnRows(f.carRows(2_500, 5))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "manufacturers"`)).
		WillReturnRows(f.manufacturerRows(0))
	mock.ExpectCommit()

	deal, err := deals.AcceptWholesaleDeal(f.makerAdminID, f.dealID)
	require.NoError(t, err)
	assert.Equal(t, models.DealStatusPending, deal.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

// Accepting an already-accepted deal is a benign no-op returning the current
// state; nothing is debited or moved a second time.
func TestAcceptWholesaleDealAlreadyAccepted(t *testing.T) {
	db, mock := newMockDB(t)
	deals := newDealService(db)
	f := newWholesaleFixture()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "wholesale_deals"`)).
		WillReturnRows(f.dealRows(models.DealStatusAccepted, 10_000, 3))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "dealerships"`)).
		WillReturnRows(f.dealershipRows(20_000))
	mock.ExpectCommit()

	deal, err := deals.AcceptWholesaleDeal(f.dealerAdminID, f.dealID)
	require.NoError(t, err)
	assert.Equal(t, models.DealStatusAccepted, deal.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

// REJECTED is terminal: a later accept returns the rejected deal untouched.
func TestAcceptWholesaleDealAfterReject(t *testing.T) {
	db, mock := newMockDB(t)
	deals := newDealService(db)
	f := newWholesaleFixture()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "wholesale_deals"`)).
		WillReturnRows(f.dealRows(models.DealStatusRejected, 10_000, 3))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "dealerships"`)).
		WillReturnRows(f.dealershipRows(20_000))
	mock.ExpectCommit()

	deal, err := deals.AcceptWholesaleDeal(f.dealerAdminID, f.dealID)
	require.NoError(t, err)
	assert.Equal(t, models.DealStatusRejected, deal.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

// A subject with no act grant is turned away before any mutation; the
// transaction rolls back.
func TestAcceptWholesaleDealUnauthorized(t *testing.T) {
	db, mock := newMockDB(t)
	deals := newDealService(db)
	f := newWholesaleFixture()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "wholesale_deals"`)).
		WillReturnRows(f.dealRows(models.DealStatusPending, 10_000, 3))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "dealerships"`)).
		WillReturnRows(f.dealershipRows(20_000))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "deal_grants"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	_, err := deals.AcceptWholesaleDeal(uuid.New(), f.dealID)
	assert.ErrorIs(t, err, ErrAccessDenied)
	require.NoError(t, mock.ExpectationsWereMet())
}

// A deal whose car line has vanished maps to ErrNotFound, not a generic
// database error.
func TestAcceptWholesaleDealMissingCar(t *testing.T) {
	db, mock := newMockDB(t)
	deals := newDealService(db)
	f := newWholesaleFixture()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "wholesale_deals"`)).
		WillReturnRows(f.dealRows(models.DealStatusPending, 10_000, 3))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "dealerships"`)).
		WillReturnRows(f.dealershipRows(20_000))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "wholesale_cars"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	_, err := deals.AcceptWholesaleDeal(f.dealerAdminID, f.dealID)
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

// The retail accept transition: one car moves off the line, the asking price
// moves from customer to dealership.
func TestAcceptRetailDealMovesMoneyAndStock(t *testing.T) {
	db, mock := newMockDB(t)
	deals := newDealService(db)

	dealID := uuid.New()
	carID := uuid.New()
	customerID := uuid.New()
	dealershipID := uuid.New()
	dealerAdminID := uuid.New()

	mock.ExpectBegin()
	dealRows := sqlmock.NewRows([]string{"id", "status", "car_id", "asking_price", "customer_id"}).
		AddRow(dealID.String(), string(models.DealStatusPending), carID.String(), int64(21_500), customerID.String())
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "retail_deals"`)).WillReturnRows(dealRows)

	grantRows := sqlmock.NewRows([]string{"id", "subject_id", "object_type", "object_id", "capability"}).
		AddRow(uuid.New().String(), dealerAdminID.String(), string(models.ObjectTypeRetailDeal),
			dealID.String(), string(models.CapabilityAct))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "deal_grants"`)).WillReturnRows(grantRows)

	carRows := sqlmock.NewRows([]string{"id", "name", "cost_price", "retail_price", "count", "dealership_id", "manufacturer_id"}).
		AddRow(carID.String(), "Leaf", int64(18_000), int64(22_000), int64(2), dealershipID.String(), uuid.New().String())
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "retail_cars"`)).WillReturnRows(carRows)

	customerRows := sqlmock.NewRows([]string{"id", "balance"}).
		AddRow(customerID.String(), int64(25_000))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users"`)).WillReturnRows(customerRows)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "users" SET "balance"=balance - $1`)).
		WithArgs(int64(21_500), customerID.String(), int64(21_500)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "dealerships" SET "balance"=balance + $1`)).
		WithArgs(int64(21_500), dealershipID.String()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "retail_cars" SET "count"=count - $1`)).
		WithArgs(int64(1), carID.String(), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "retail_deals" SET "status"=$1`)).
		WithArgs(string(models.DealStatusAccepted), sqlmock.AnyArg(), dealID.String(), string(models.DealStatusPending)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	deal, err := deals.AcceptRetailDeal(dealerAdminID, dealID)
	require.NoError(t, err)
	assert.Equal(t, models.DealStatusAccepted, deal.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

// Reject flips the status and touches nothing else: no balance or stock
// statement appears in the transaction.
func TestRejectWholesaleDeal(t *testing.T) {
	db, mock := newMockDB(t)
	deals := newDealService(db)
	f := newWholesaleFixture()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "wholesale_deals"`)).
		WillReturnRows(f.dealRows(models.DealStatusPending, 10_000, 3))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "dealerships"`)).
		WillReturnRows(f.dealershipRows(20_000))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "deal_grants"`)).
		WillReturnRows(f.actGrantRows(f.makerAdminID))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "wholesale_deals" SET "status"=$1`)).
		WithArgs(string(models.DealStatusRejected), sqlmock.AnyArg(), f.dealID.String(), string(models.DealStatusPending)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	deal, err := deals.RejectWholesaleDeal(f.makerAdminID, f.dealID)
	require.NoError(t, err)
	assert.Equal(t, models.DealStatusRejected, deal.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}
