package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/mamadbah2/shopledger/internal/domain/models"
)

func dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func assertDecimal(t *testing.T, expected string, actual decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.True(t, dec(expected).Equal(actual), append([]interface{}{"expected %s, got %s", expected, actual.String()}, msgAndArgs...)...)
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func sampleInventory() []models.InventoryItem {
	return []models.InventoryItem{
		{Brand: "Fender", Model: "Stratocaster", Color: "Sunburst", Supplier: "Muzik Dunyasi", DateAdded: day(2024, 3, 1), PurchaseCost: dec("50"), PurchaseCurrency: models.CurrencyEUR, TargetPrice: dec("2200"), Stock: 2},
		{Brand: "Yamaha", Model: "P-45", Color: "Black", Details: "88 weighted keys", Supplier: "Atlas", DateAdded: day(2024, 4, 12), PurchaseCost: dec("300"), PurchaseCurrency: models.CurrencyUSD, TargetPrice: dec("420"), Stock: 0},
		{Brand: "Gibson", Model: "Les Paul", Color: "Gold", Supplier: "London Music", PurchaseCost: dec("900"), PurchaseCurrency: models.CurrencyGBP, TargetPrice: dec("1200"), Stock: 1},
	}
}
