package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/shopledger/internal/domain/models"
)

func TestNewExpense(t *testing.T) {
	expense, err := NewExpense(day(2024, 7, 1), "inventory purchase", dec("450"), "EUR", "  strings restock ")

	require.NoError(t, err)
	assert.Equal(t, models.ExpenseInventoryPurchase, expense.Category)
	assert.Equal(t, models.CurrencyEUR, expense.Currency)
	assert.Equal(t, "strings restock", expense.Notes)
	assertDecimal(t, "450", expense.Amount)
}

func TestNewExpense_Validation(t *testing.T) {
	_, err := NewExpense(day(2024, 7, 1), "coffee", dec("3"), models.CurrencyUSD, "")
	assert.ErrorIs(t, err, ErrInvalidCategory)

	_, err = NewExpense(day(2024, 7, 1), "Rent", dec("-3"), models.CurrencyUSD, "")
	assert.ErrorIs(t, err, ErrInvalidPrice)

	_, err = NewExpense(day(2024, 7, 1), "Rent", dec("3"), "", "")
	assert.ErrorIs(t, err, ErrMissingField)
}

func TestNewServiceOrder(t *testing.T) {
	order, err := NewServiceOrder("ord-1", day(2024, 7, 2), " Custom pedalboard ", 2, dec("120"), "£")

	require.NoError(t, err)
	assert.Equal(t, models.OrderInProgress, order.Status)
	assert.Equal(t, "Custom pedalboard", order.Name)
	assert.Equal(t, models.CurrencyGBP, order.Currency)

	_, err = NewServiceOrder("ord-2", day(2024, 7, 2), "", 1, dec("1"), "£")
	assert.ErrorIs(t, err, ErrMissingField)

	_, err = NewServiceOrder("ord-3", day(2024, 7, 2), "Setup", 0, dec("1"), "£")
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestUpdateServiceOrder_CompletesOnce(t *testing.T) {
	// Arrange
	orders := []models.ServiceOrder{
		{ID: "a", Name: "Setup", Quantity: 1, Status: models.OrderInProgress, Price: dec("40"), Currency: models.CurrencyUSD},
	}
	price := dec("55")
	completed := models.OrderCompleted
	reopened := models.OrderInProgress

	// Act
	updated, err := UpdateServiceOrder(orders, "a", OrderUpdate{Price: &price, Status: &completed})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, models.OrderCompleted, updated[0].Status)
	assertDecimal(t, "55", updated[0].Price)
	assert.Equal(t, models.OrderInProgress, orders[0].Status)

	_, err = UpdateServiceOrder(updated, "a", OrderUpdate{Status: &reopened})
	assert.ErrorIs(t, err, ErrOrderClosed)

	_, err = UpdateServiceOrder(updated, "a", OrderUpdate{Price: &price})
	assert.ErrorIs(t, err, ErrOrderClosed)
}

func TestUpdateServiceOrder_Errors(t *testing.T) {
	orders := []models.ServiceOrder{{ID: "a", Status: models.OrderInProgress}}
	bogus := models.OrderStatus("Cancelled")
	negative := dec("-1")

	_, err := UpdateServiceOrder(orders, "missing", OrderUpdate{})
	assert.ErrorIs(t, err, ErrOrderNotFound)

	_, err = UpdateServiceOrder(orders, "a", OrderUpdate{Status: &bogus})
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = UpdateServiceOrder(orders, "a", OrderUpdate{Price: &negative})
	assert.ErrorIs(t, err, ErrInvalidPrice)
}
