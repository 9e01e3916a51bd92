// internal/services/errors.go
package services

import "errors"

// Business error taxonomy. Handlers map these onto HTTP responses; anything
// else is treated as an internal error.
var (
	// ErrAccessDenied means the subject holds neither a role-based permission
	// nor an instance grant for the requested operation. Surfaced before any
	// mutation takes place.
	ErrAccessDenied = errors.New("access denied")

	// ErrNotFound means the referenced deal, car, account or blueprint does
	// not exist.
	ErrNotFound = errors.New("record not found")

	// ErrInsufficientBalance is a business decline, not a system fault. A
	// guarded debit refused to take the balance below zero.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrInsufficientStock is the inventory counterpart of
	// ErrInsufficientBalance.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrConflict means a concurrent transaction changed the record between
	// the locked read and the conditional update. The enclosing transaction
	// is rolled back.
	ErrConflict = errors.New("concurrent update conflict")
)
