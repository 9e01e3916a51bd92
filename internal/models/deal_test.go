// internal/models/deal_test.go
package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDealStatusTerminal(t *testing.T) {
	assert.False(t, DealStatusPending.Terminal())
	assert.True(t, DealStatusAccepted.Terminal())
	assert.True(t, DealStatusRejected.Terminal())
}

func TestWholesaleDealTotalCost(t *testing.T) {
	// The asking price covers the whole quantity; quantity must not multiply it.
	deal := &WholesaleDeal{AskingPrice: 90_000, Quantity: 5}
	assert.Equal(t, int64(90_000), deal.TotalCost())
}

func TestRetailDealTotalCost(t *testing.T) {
	deal := &RetailDeal{AskingPrice: 21_500}
	assert.Equal(t, int64(21_500), deal.TotalCost())
}

func TestUserPasswordRoundTrip(t *testing.T) {
	user := &User{}
	assert.NoError(t, user.SetPassword("Sup3rSecret!"))
	assert.NotEqual(t, "Sup3rSecret!", user.PasswordHash)

	assert.NoError(t, user.CheckPassword("Sup3rSecret!"))
	assert.Error(t, user.CheckPassword("wrong-password"))
}
