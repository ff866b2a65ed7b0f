package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/mamadbah2/shopledger/internal/domain/models"
)

// KeyPolicy selects whether item labels must be unique on insert.
type KeyPolicy int

const (
	// AllowDuplicates lets several rows share a brand and model, e.g. different colors.
	AllowDuplicates KeyPolicy = iota
	// UniqueLabels rejects an item whose label already exists.
	UniqueLabels
)

// AdjustStock applies a stock movement to the item at index and returns a new
// snapshot. Stock never drops below zero.
func AdjustStock(inventory []models.InventoryItem, index, delta int, kind models.StockChange) ([]models.InventoryItem, error) {
	item, err := itemAt(inventory, index)
	if err != nil {
		return nil, err
	}

	current := item.Stock
	var next int

	switch kind {
	case models.StockChangeSale:
		if delta <= 0 {
			return nil, fmt.Errorf("sale of %d units: %w", delta, ErrInvalidQuantity)
		}
		if current < delta {
			return nil, fmt.Errorf("%s has %d, requested %d: %w", item.Label(), current, delta, ErrInsufficientStock)
		}
		next = current - delta
	case models.StockChangeRestock:
		if delta <= 0 {
			return nil, fmt.Errorf("restock of %d units: %w", delta, ErrInvalidQuantity)
		}
		next = current + delta
	case models.StockChangeCorrection:
		next = current + delta
	default:
		return nil, fmt.Errorf("%q: %w", kind, ErrInvalidStockChange)
	}

	if next < 0 {
		next = 0
	}

	updated := cloneInventory(inventory)
	updated[index].Stock = next
	return updated, nil
}

// AddItem appends a new item and returns the new snapshot. A zero DateAdded is
// stamped with now.
func AddItem(inventory []models.InventoryItem, item models.InventoryItem, policy KeyPolicy, now time.Time) ([]models.InventoryItem, error) {
	item.Brand = strings.TrimSpace(item.Brand)
	item.Model = strings.TrimSpace(item.Model)

	if item.Label() == "" {
		return nil, fmt.Errorf("brand or model: %w", ErrMissingField)
	}
	if item.PurchaseCost.IsNegative() || item.TargetPrice.IsNegative() {
		return nil, fmt.Errorf("%s cost or target price: %w", item.Label(), ErrInvalidPrice)
	}
	if item.Stock < 0 {
		return nil, fmt.Errorf("%s stock %d: %w", item.Label(), item.Stock, ErrInvalidQuantity)
	}

	if policy == UniqueLabels {
		for _, existing := range inventory {
			if strings.EqualFold(existing.Label(), item.Label()) {
				return nil, fmt.Errorf("%s: %w", item.Label(), ErrDuplicateItem)
			}
		}
	}

	if item.DateAdded.IsZero() {
		item.DateAdded = now
	}
	item.PurchaseCurrency = models.ParseCurrency(string(item.PurchaseCurrency))

	updated := make([]models.InventoryItem, 0, len(inventory)+1)
	updated = append(updated, inventory...)
	return append(updated, item), nil
}
