// internal/services/ledger_service_test.go
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

func TestDebitSufficientBalance(t *testing.T) {
	db, mock := newMockDB(t)
	ledger := NewLedgerService()
	accountID := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "dealerships" SET "balance"=balance - $1`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := ledger.Debit(db, &models.Dealership{}, accountID, 50_000)
	assert.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDebitInsufficientBalance(t *testing.T) {
	db, mock := newMockDB(t)
	ledger := NewLedgerService()
	accountID := uuid.New()

	// The guard refuses the update, so zero rows are affected and no balance
	// ever goes negative.
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "dealerships" SET "balance"=balance - $1`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := ledger.Debit(db, &models.Dealership{}, accountID, 50_000)
	assert.ErrorIs(t, err, ErrInsufficientBalance)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDebitNegativeAmount(t *testing.T) {
	db, _ := newMockDB(t)
	ledger := NewLedgerService()

	err := ledger.Debit(db, &models.Dealership{}, uuid.New(), -1)
	assert.Error(t, err)
}

func TestCredit(t *testing.T) {
	db, mock := newMockDB(t)
	ledger := NewLedgerService()
	accountID := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "manufacturers" SET "balance"=balance + $1`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := ledger.Credit(db, &models.Manufacturer{}, accountID, 50_000)
	assert.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreditMissingAccount(t *testing.T) {
	db, mock := newMockDB(t)
	ledger := NewLedgerService()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "users" SET "balance"=balance + $1`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := ledger.Credit(db, &models.User{}, uuid.New(), 100)
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
