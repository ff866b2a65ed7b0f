package ledger

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/shopledger/internal/domain/models"
)

var one = decimal.NewFromInt(1)

// SaleResult is the outcome of a registered sale. Inventory is a fresh snapshot;
// the caller persists it together with Sale.
type SaleResult struct {
	Inventory []models.InventoryItem
	Sale      models.SaleRecord
	Margin    decimal.Decimal
	BelowCost bool
}

// NormalizeCost converts a purchase cost into the sale currency. The rate reads
// "1 unit of from = rate units of to". Identical currencies always convert at 1.
// It returns the converted cost and the rate actually applied.
func NormalizeCost(cost decimal.Decimal, from, to models.Currency, rate decimal.Decimal) (decimal.Decimal, decimal.Decimal, error) {
	if !rate.IsPositive() {
		return decimal.Zero, decimal.Zero, fmt.Errorf("rate %s: %w", rate, ErrInvalidExchangeRate)
	}
	if from.Same(to) {
		return cost, one, nil
	}
	return cost.Mul(rate), rate, nil
}

// RegisterSale sells exactly one unit of the item at index. The input snapshot is
// never modified. A price below the normalized cost is allowed and flagged.
func RegisterSale(inventory []models.InventoryItem, index int, finalPrice decimal.Decimal, saleCurrency models.Currency, rate decimal.Decimal, now time.Time) (SaleResult, error) {
	item, err := itemAt(inventory, index)
	if err != nil {
		return SaleResult{}, err
	}

	if finalPrice.IsNegative() {
		return SaleResult{}, fmt.Errorf("selling price %s: %w", finalPrice, ErrInvalidPrice)
	}
	if saleCurrency.IsBlank() {
		return SaleResult{}, fmt.Errorf("sale currency: %w", ErrMissingField)
	}

	normalized, used, err := NormalizeCost(item.PurchaseCost, item.PurchaseCurrency, saleCurrency, rate)
	if err != nil {
		return SaleResult{}, err
	}

	if item.Stock < 1 {
		return SaleResult{}, fmt.Errorf("%s: %w", item.Label(), ErrOutOfStock)
	}

	updated := cloneInventory(inventory)
	updated[index].Stock--

	sale := models.SaleRecord{
		Date:                now,
		ItemLabel:           item.Label(),
		Quantity:            1,
		SellingPrice:        finalPrice,
		SellingCurrency:     saleCurrency,
		CostPriceNormalized: normalized,
		ExchangeRateUsed:    used,
	}
	margin := sale.Margin()

	return SaleResult{
		Inventory: updated,
		Sale:      sale,
		Margin:    margin,
		BelowCost: margin.IsNegative(),
	}, nil
}

func itemAt(inventory []models.InventoryItem, index int) (models.InventoryItem, error) {
	if index < 0 || index >= len(inventory) {
		return models.InventoryItem{}, fmt.Errorf("row %d: %w", index, ErrItemNotFound)
	}
	return inventory[index], nil
}

func cloneInventory(inventory []models.InventoryItem) []models.InventoryItem {
	out := make([]models.InventoryItem, len(inventory))
	copy(out, inventory)
	return out
}
