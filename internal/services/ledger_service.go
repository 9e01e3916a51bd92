// internal/services/ledger_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LedgerService mutates the non-negative balance column carried by users,
// dealerships and manufacturers. Debits and credits are expressed as guarded
// in-database updates rather than read-modify-write, so concurrent accept
// transitions cannot produce lost updates or negative balances.
type LedgerService struct{}

func NewLedgerService() *LedgerService {
	return &LedgerService{}
}

// Debit subtracts amount from the account's balance. The update is
// conditioned on balance >= amount; zero rows affected means the guard
// refused and the caller gets ErrInsufficientBalance. Must run inside the
// caller's transaction.
func (s *LedgerService) Debit(tx *gorm.DB, account interface{}, accountID uuid.UUID, amount int64) error {
	if amount < 0 {
		return errors.New("debit amount must not be negative")
	}

	result := tx.Model(account).
		Where("id = ? AND balance >= ?", accountID, amount).
		UpdateColumn("balance", gorm.Expr("balance - ?", amount))
	if result.Error != nil {
		return fmt.Errorf("failed to debit account: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrInsufficientBalance
	}
	return nil
}

// Credit adds amount to the account's balance.
func (s *LedgerService) Credit(tx *gorm.DB, account interface{}, accountID uuid.UUID, amount int64) error {
	if amount < 0 {
		return errors.New("credit amount must not be negative")
	}

	result := tx.Model(account).
		Where("id = ?", accountID).
		UpdateColumn("balance", gorm.Expr("balance + ?", amount))
	if result.Error != nil {
		return fmt.Errorf("failed to credit account: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
