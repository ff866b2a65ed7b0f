package ledger

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/shopledger/internal/domain/models"
)

// AggregateByCurrency partitions sales, expenses and service orders by their own
// currency tag. No conversion happens here: sales already carry a cost normalized
// into their selling currency. Blank tags are dropped.
func AggregateByCurrency(sales []models.SaleRecord, expenses []models.ExpenseRecord, orders []models.ServiceOrder) map[models.Currency]models.CurrencySummary {
	summaries := make(map[models.Currency]models.CurrencySummary)

	bucket := func(tag models.Currency) (models.Currency, models.CurrencySummary, bool) {
		key := models.ParseCurrency(string(tag))
		if key.IsBlank() {
			return "", models.CurrencySummary{}, false
		}
		return key, summaries[key], true
	}

	for _, sale := range sales {
		key, summary, ok := bucket(sale.SellingCurrency)
		if !ok {
			continue
		}
		summary.Revenue = summary.Revenue.Add(sale.SellingPrice)
		summary.COGS = summary.COGS.Add(sale.CostPriceNormalized)
		summary.Sales++
		summaries[key] = summary
	}

	for _, expense := range expenses {
		key, summary, ok := bucket(expense.Currency)
		if !ok {
			continue
		}
		summary.OperatingExpense = summary.OperatingExpense.Add(expense.Amount)
		summary.Expenses++
		summaries[key] = summary
	}

	for _, order := range orders {
		key, summary, ok := bucket(order.Currency)
		if !ok {
			continue
		}
		if order.IsCompleted() {
			summary.Revenue = summary.Revenue.Add(order.Price)
			summary.CompletedOrders++
		}
		summaries[key] = summary
	}

	for key, summary := range summaries {
		summary.NetProfit = summary.Revenue.Sub(summary.COGS).Sub(summary.OperatingExpense)
		summaries[key] = summary
	}

	return summaries
}

// SortedCurrencies returns the keys of a per-currency map with curated currencies
// first, then free-text tags alphabetically.
func SortedCurrencies[V any](byCurrency map[models.Currency]V) []models.Currency {
	rank := make(map[models.Currency]int)
	for i, c := range models.Currencies() {
		rank[c] = i + 1
	}

	keys := make([]models.Currency, 0, len(byCurrency))
	for key := range byCurrency {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		ri, rj := rank[keys[i]], rank[keys[j]]
		switch {
		case ri != 0 && rj != 0:
			return ri < rj
		case ri != 0:
			return true
		case rj != 0:
			return false
		default:
			return keys[i] < keys[j]
		}
	})
	return keys
}

// CountOrderVolume counts orders placed within the last 7 and 30 calendar days
// (boundaries inclusive) and orders still in progress. Orders without a readable
// date only count toward the in-progress total.
func CountOrderVolume(orders []models.ServiceOrder, today time.Time) models.OrderVolume {
	day := startOfDay(today)
	weekCutoff := day.AddDate(0, 0, -7)
	monthCutoff := day.AddDate(0, 0, -30)

	var volume models.OrderVolume
	for _, order := range orders {
		if order.Status == models.OrderInProgress {
			volume.InProgress++
		}
		if order.Date.IsZero() {
			continue
		}
		placed := time.Date(order.Date.Year(), order.Date.Month(), order.Date.Day(), 0, 0, 0, 0, day.Location())
		if !placed.Before(weekCutoff) {
			volume.Last7Days++
		}
		if !placed.Before(monthCutoff) {
			volume.Last30Days++
		}
	}
	return volume
}

// ValueInventory sums purchase cost times stock per purchase currency.
func ValueInventory(items []models.InventoryItem) map[models.Currency]decimal.Decimal {
	values := make(map[models.Currency]decimal.Decimal)
	for _, item := range items {
		key := models.ParseCurrency(string(item.PurchaseCurrency))
		if key.IsBlank() || item.Stock == 0 {
			continue
		}
		line := item.PurchaseCost.Mul(decimal.NewFromInt(int64(item.Stock)))
		values[key] = values[key].Add(line)
	}
	return values
}

// LowStock returns the labels of items at or below threshold, in inventory order.
func LowStock(items []models.InventoryItem, threshold int) []string {
	var labels []string
	for _, item := range items {
		if item.Stock <= threshold {
			labels = append(labels, item.Label())
		}
	}
	return labels
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
