package bookkeeping

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/shopledger/internal/domain/models"
	"github.com/mamadbah2/shopledger/internal/ledger"
	"github.com/mamadbah2/shopledger/internal/repository/store"
)

func newTestService() (*Service, *store.Ledger) {
	repo := store.NewLedger(store.NewMemoryStore(), nil)
	svc := NewService(repo, nil)
	svc.now = func() time.Time { return time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC) }
	seq := 0
	svc.newID = func() string {
		seq++
		return fmt.Sprintf("ord-%02d-0000", seq)
	}
	return svc, repo
}

func TestService_RecordExpense(t *testing.T) {
	// Arrange
	ctx := context.Background()
	svc, repo := newTestService()

	// Act
	record, err := svc.RecordExpense(ctx, ExpenseInput{Category: "inventory purchase", Amount: decimal.NewFromInt(400), Currency: "usd", Notes: " strings "})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, models.ExpenseInventoryPurchase, record.Category)
	assert.Equal(t, models.CurrencyUSD, record.Currency)
	assert.Equal(t, "strings", record.Notes)

	stored, err := repo.Expenses(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "2024-05-01", stored[0].Date.Format("2006-01-02"))
}

func TestService_RecordExpenseRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService()

	_, err := svc.RecordExpense(ctx, ExpenseInput{Category: "Lunch", Amount: decimal.NewFromInt(1), Currency: "$"})
	assert.ErrorIs(t, err, ledger.ErrInvalidCategory)

	_, err = svc.RecordExpense(ctx, ExpenseInput{Category: "Rent", Amount: decimal.NewFromInt(-1), Currency: "$"})
	assert.ErrorIs(t, err, ledger.ErrInvalidPrice)

	stored, err := repo.Expenses(ctx)
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestService_OrderLifecycle(t *testing.T) {
	// Arrange
	ctx := context.Background()
	svc, _ := newTestService()

	first, err := svc.OpenOrder(ctx, OrderInput{Name: "Guitar setup", Quantity: 1, Price: decimal.NewFromInt(80), Currency: "$"})
	require.NoError(t, err)
	_, err = svc.OpenOrder(ctx, OrderInput{Name: "Restring", Quantity: 2, Price: decimal.NewFromInt(15), Currency: "$"})
	require.NoError(t, err)

	// Act
	final := decimal.NewFromInt(95)
	done, err := svc.CompleteOrder(ctx, "ord-01", &final)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, first.ID, done.ID)
	assert.Equal(t, models.OrderCompleted, done.Status)
	assert.True(t, final.Equal(done.Price))

	_, err = svc.CompleteOrder(ctx, first.ID, nil)
	assert.ErrorIs(t, err, ledger.ErrOrderClosed)

	_, err = svc.CompleteOrder(ctx, "ord-0", nil)
	assert.ErrorIs(t, err, ErrAmbiguousOrder)

	_, err = svc.CompleteOrder(ctx, "missing", nil)
	assert.ErrorIs(t, err, ledger.ErrOrderNotFound)

	open, err := svc.Orders(ctx, models.OrderInProgress)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, "Restring", open[0].Name)

	all, err := svc.Orders(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestService_OpenOrderValidates(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.OpenOrder(context.Background(), OrderInput{Name: "  ", Quantity: 1, Currency: "$"})
	assert.ErrorIs(t, err, ledger.ErrMissingField)

	_, err = svc.OpenOrder(context.Background(), OrderInput{Name: "Setup", Quantity: 0, Currency: "$"})
	assert.ErrorIs(t, err, ledger.ErrInvalidQuantity)
}
