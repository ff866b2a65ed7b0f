package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/shopledger/internal/domain/models"
)

// NewExpense validates and builds an expense record.
func NewExpense(date time.Time, category string, amount decimal.Decimal, currency models.Currency, notes string) (models.ExpenseRecord, error) {
	cat, ok := models.ParseExpenseCategory(category)
	if !ok {
		return models.ExpenseRecord{}, fmt.Errorf("%q: %w", category, ErrInvalidCategory)
	}
	if amount.IsNegative() {
		return models.ExpenseRecord{}, fmt.Errorf("expense amount %s: %w", amount, ErrInvalidPrice)
	}
	currency = models.ParseCurrency(string(currency))
	if currency.IsBlank() {
		return models.ExpenseRecord{}, fmt.Errorf("expense currency: %w", ErrMissingField)
	}

	return models.ExpenseRecord{
		Date:     date,
		Category: cat,
		Amount:   amount,
		Currency: currency,
		Notes:    strings.TrimSpace(notes),
	}, nil
}

// NewServiceOrder validates and builds an order in the InProgress state.
func NewServiceOrder(id string, date time.Time, name string, quantity int, price decimal.Decimal, currency models.Currency) (models.ServiceOrder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.ServiceOrder{}, fmt.Errorf("order name: %w", ErrMissingField)
	}
	if quantity < 1 {
		return models.ServiceOrder{}, fmt.Errorf("order quantity %d: %w", quantity, ErrInvalidQuantity)
	}
	if price.IsNegative() {
		return models.ServiceOrder{}, fmt.Errorf("order price %s: %w", price, ErrInvalidPrice)
	}

	return models.ServiceOrder{
		ID:       id,
		Date:     date,
		Name:     name,
		Quantity: quantity,
		Status:   models.OrderInProgress,
		Price:    price,
		Currency: models.ParseCurrency(string(currency)),
	}, nil
}

// OrderUpdate carries the mutable fields of a service order. Nil fields are left
// untouched.
type OrderUpdate struct {
	Price  *decimal.Decimal
	Status *models.OrderStatus
}

// UpdateServiceOrder applies update to the order with the given id and returns a
// new snapshot. Completed orders are frozen and the status never moves back.
func UpdateServiceOrder(orders []models.ServiceOrder, id string, update OrderUpdate) ([]models.ServiceOrder, error) {
	index := -1
	for i, order := range orders {
		if order.ID == id {
			index = i
			break
		}
	}
	if index < 0 {
		return nil, fmt.Errorf("order %s: %w", id, ErrOrderNotFound)
	}

	order := orders[index]
	if order.IsCompleted() {
		return nil, fmt.Errorf("order %s: %w", id, ErrOrderClosed)
	}

	if update.Price != nil {
		if update.Price.IsNegative() {
			return nil, fmt.Errorf("order price %s: %w", update.Price, ErrInvalidPrice)
		}
		order.Price = *update.Price
	}
	if update.Status != nil {
		switch *update.Status {
		case models.OrderInProgress, models.OrderCompleted:
			order.Status = *update.Status
		default:
			return nil, fmt.Errorf("%q: %w", *update.Status, ErrInvalidStatus)
		}
	}

	updated := make([]models.ServiceOrder, len(orders))
	copy(updated, orders)
	updated[index] = order
	return updated, nil
}
