package services

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettlePayment_CompletesOrderAndFreesTable(t *testing.T) {
	f := newLifecycleFixture(t)

	placed, err := f.orderSvc.PlaceOrUpdateOrder("T1", PlaceOrderRequest{
		Items: []OrderLineRequest{{MenuItemID: f.margherita.ID, Quantity: 2}},
	})
	require.NoError(t, err)
	require.False(t, f.storedTable(t).IsAvailable)

	result, err := f.paymentSvc.SettlePayment(placed.ID)
	require.NoError(t, err)
	assert.Equal(t, "Payment successful.", result.Message)
	assert.True(t, result.Order.IsPaid)
	assert.Equal(t, StatusCompleted, result.Order.Status)
	assert.True(t, result.Order.TotalPrice.Equal(decimal.RequireFromString("19.00")),
		"got total %s", result.Order.TotalPrice)

	// Settlement is the path that releases the table.
	assert.True(t, f.storedTable(t).IsAvailable)
}

func TestSettlePayment_RejectsDoubleSettlement(t *testing.T) {
	f := newLifecycleFixture(t)

	placed, err := f.orderSvc.PlaceOrUpdateOrder("T1", PlaceOrderRequest{
		Items: []OrderLineRequest{{MenuItemID: f.lemonade.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = f.paymentSvc.SettlePayment(placed.ID)
	require.NoError(t, err)
	availabilityWrites := f.tableRepo.setAvailabilityCalls

	_, err = f.paymentSvc.SettlePayment(placed.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAlreadyPaid))

	// The rejected settlement changed nothing.
	stored := f.orderRepo.orders[placed.ID]
	assert.True(t, stored.IsPaid)
	assert.Equal(t, StatusCompleted, stored.Status)
	assert.Equal(t, availabilityWrites, f.tableRepo.setAvailabilityCalls)
}

func TestSettlePayment_UnknownOrder(t *testing.T) {
	f := newLifecycleFixture(t)

	_, err := f.paymentSvc.SettlePayment(9999)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOrderNotFound))
}
