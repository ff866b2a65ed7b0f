package store

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/shopledger/internal/domain/models"
)

func assertDecimal(t *testing.T, expected string, actual decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(expected).Equal(actual), "expected %s, got %s", expected, actual.String())
}

func TestDecodeInventory_LegacyItemColumn(t *testing.T) {
	// Arrange
	table := NewTable([][]string{
		{"Item", "Cost", "Currency", "Stock"},
		{"Stratocaster", "1,750.50", "EUR", "3"},
		{"", "", "", ""},
		{"Broken amp", "abc", "$", "-2"},
	})

	// Act
	items := DecodeInventory(table, nil)

	// Assert
	require.Len(t, items, 2)
	assert.Equal(t, "Stratocaster", items[0].Model)
	assert.Equal(t, "", items[0].Brand)
	assertDecimal(t, "1750.50", items[0].PurchaseCost)
	assert.Equal(t, models.CurrencyEUR, items[0].PurchaseCurrency)
	assert.Equal(t, 3, items[0].Stock)

	assertDecimal(t, "0", items[1].PurchaseCost)
	assert.Equal(t, 0, items[1].Stock)
	assertDecimal(t, "0", items[1].TargetPrice)
	assert.True(t, items[1].DateAdded.IsZero())
}

func TestInventoryRoundTripKeepsCanonicalHeader(t *testing.T) {
	// Arrange
	items := []models.InventoryItem{{
		Brand:            "Yamaha",
		Model:            "P-45",
		Color:            "Black",
		Details:          "88 keys",
		Supplier:         "Atlas",
		DateAdded:        time.Date(2024, 4, 12, 0, 0, 0, 0, time.UTC),
		PurchaseCost:     decimal.RequireFromString("300"),
		PurchaseCurrency: models.CurrencyUSD,
		TargetPrice:      decimal.RequireFromString("420.5"),
		Stock:            4,
	}}

	// Act
	table := EncodeInventory(items)
	decoded := DecodeInventory(table, nil)

	// Assert
	assert.Equal(t, InventoryHeader, table.Header)
	require.Len(t, decoded, 1)
	assert.Equal(t, items[0].Label(), decoded[0].Label())
	assert.True(t, items[0].DateAdded.Equal(decoded[0].DateAdded))
	assertDecimal(t, "420.5", decoded[0].TargetPrice)
	assert.Equal(t, 4, decoded[0].Stock)
}

func TestDecodeSales_DefaultsForLegacyRows(t *testing.T) {
	// Arrange
	table := NewTable([][]string{
		{"Date", "Item", "Price", "Currency"},
		{"2024-05-01 14:22:10", "Fender Stratocaster", "2000", "€"},
	})

	// Act
	sales := DecodeSales(table, nil)

	// Assert
	require.Len(t, sales, 1)
	assert.Equal(t, 1, sales[0].Quantity)
	assertDecimal(t, "1", sales[0].ExchangeRateUsed)
	assertDecimal(t, "2000", sales[0].SellingPrice)
	assertDecimal(t, "0", sales[0].CostPriceNormalized)
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), sales[0].Date)
}

func TestDecodeExpenses_UnknownCategoryBecomesOther(t *testing.T) {
	// Arrange
	table := NewTable([][]string{
		ExpensesHeader,
		{"2024-05-02", "Coffee", "12", "₺", "team"},
		{"2024-05-03", "inventory purchase", "400", "USD", ""},
	})

	// Act
	expenses := DecodeExpenses(table, nil)

	// Assert
	require.Len(t, expenses, 2)
	assert.Equal(t, models.ExpenseOther, expenses[0].Category)
	assert.Equal(t, models.ExpenseInventoryPurchase, expenses[1].Category)
	assert.Equal(t, models.CurrencyUSD, expenses[1].Currency)
}

func TestDecodeServiceOrders_AssignsIDsAndStatus(t *testing.T) {
	// Arrange
	table := NewTable([][]string{
		{"Date", "Name", "Quantity", "Status", "Price", "Currency"},
		{"2024-05-01", "Guitar setup", "", "", "80", "$"},
		{"not a date", "Restring", "2", "done", "15", "$"},
	})

	// Act
	orders := DecodeServiceOrders(table, nil)

	// Assert
	require.Len(t, orders, 2)
	assert.NotEmpty(t, orders[0].ID)
	assert.NotEqual(t, orders[0].ID, orders[1].ID)
	assert.Equal(t, models.OrderInProgress, orders[0].Status)
	assert.Equal(t, 1, orders[0].Quantity)
	assert.Equal(t, models.OrderCompleted, orders[1].Status)
	assert.True(t, orders[1].Date.IsZero())
}

func TestDecodeServiceOrders_LegacyIDsAreStable(t *testing.T) {
	// Arrange
	table := NewTable([][]string{
		{"Date", "Name", "Quantity", "Status", "Price", "Currency"},
		{"2024-05-01", "Guitar setup", "1", "", "80", "$"},
		{"2024-05-01", "Guitar setup", "1", "", "80", "$"},
	})

	// Act
	first := DecodeServiceOrders(table, nil)
	second := DecodeServiceOrders(table, nil)

	// Assert
	require.Len(t, first, 2)
	require.Len(t, second, 2)
	assert.Equal(t, first[0].ID, second[0].ID)
	assert.Equal(t, first[1].ID, second[1].ID)
	assert.NotEqual(t, first[0].ID, first[1].ID)
}

func TestParseDecimal(t *testing.T) {
	cases := map[string]string{
		"1750":     "1750",
		"1750.5":   "1750.5",
		"1,750":    "1750",
		"1,750.50": "1750.50",
		"1750,50":  "1750.50",
		" 12 ":     "12",
	}
	for input, expected := range cases {
		t.Run(input, func(t *testing.T) {
			got, err := parseDecimal(input)
			require.NoError(t, err)
			assertDecimal(t, expected, got)
		})
	}

	_, err := parseDecimal("twelve")
	assert.Error(t, err)
}

func TestDecodeInventory_ThousandsSeparator(t *testing.T) {
	// Arrange
	table := NewTable([][]string{
		{"Brand", "Model", "Purchase Cost", "Purchase Currency", "Target Price", "Stock"},
		{"Fender", "Stratocaster", "1,750", "₺", "2,200.50", "1"},
	})

	// Act
	items := DecodeInventory(table, nil)

	// Assert
	require.Len(t, items, 1)
	assertDecimal(t, "1750", items[0].PurchaseCost)
	assertDecimal(t, "2200.50", items[0].TargetPrice)
	assert.Equal(t, "1750", EncodeInventory(items).Rows[0][6])
}
