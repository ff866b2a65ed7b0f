package store

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/shopledger/internal/domain/models"
	"github.com/mamadbah2/shopledger/internal/ledger"
)

const dateLayout = "2006-01-02"

// Canonical headers written back to every table.
var (
	InventoryHeader     = []string{"Brand", "Model", "Color", "Details", "Supplier", "Date Added", "Purchase Cost", "Purchase Currency", "Target Price", "Stock"}
	SalesHeader         = []string{"Date", "Item", "Quantity", "Selling Price", "Selling Currency", "Cost Price Normalized", "Exchange Rate Used"}
	ExpensesHeader      = []string{"Date", "Category", "Amount", "Currency", "Notes"}
	ServiceOrdersHeader = []string{"ID", "Date", "Name", "Quantity", "Status", "Price", "Currency"}
)

// DecodeInventory maps inventory rows onto items. Missing columns read as empty or
// zero. The single-column "Item" layout of early sheets lands in Model, and
// negative stock is clamped to zero.
func DecodeInventory(table Table, logger *zap.Logger) []models.InventoryItem {
	logger = orNop(logger)

	var (
		brand    = table.column("Brand")
		model    = table.column("Model", "Item", "Item Name", "Name")
		color    = table.column("Color", "Colour")
		details  = table.column("Details", "Description")
		supplier = table.column("Supplier")
		added    = table.column("Date Added", "Date")
		cost     = table.column("Purchase Cost", "Cost")
		currency = table.column("Purchase Currency", "Currency")
		target   = table.column("Target Price", "Price")
		stock    = table.column("Stock", "Quantity")
	)

	items := make([]models.InventoryItem, 0, len(table.Rows))
	for i, row := range table.Rows {
		if blankRow(row) {
			continue
		}

		item := models.InventoryItem{
			Brand:            cell(row, brand),
			Model:            cell(row, model),
			Color:            cell(row, color),
			Details:          cell(row, details),
			Supplier:         cell(row, supplier),
			DateAdded:        readDate(row, added, logger, TableInventory, i),
			PurchaseCost:     readDecimal(row, cost, logger, TableInventory, i),
			PurchaseCurrency: models.ParseCurrency(cell(row, currency)),
			TargetPrice:      readDecimal(row, target, logger, TableInventory, i),
			Stock:            readInt(row, stock, 0, logger, TableInventory, i),
		}
		if item.Stock < 0 {
			logger.Debug("clamping negative stock", zap.Int("row", i), zap.Int("stock", item.Stock))
			item.Stock = 0
		}
		items = append(items, item)
	}
	return items
}

// EncodeInventory renders items under the canonical header.
func EncodeInventory(items []models.InventoryItem) Table {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{
			item.Brand,
			item.Model,
			item.Color,
			item.Details,
			item.Supplier,
			formatDate(item.DateAdded),
			item.PurchaseCost.String(),
			string(item.PurchaseCurrency),
			item.TargetPrice.String(),
			strconv.Itoa(item.Stock),
		})
	}
	return Table{Header: append([]string(nil), InventoryHeader...), Rows: rows}
}

// DecodeSales maps sales rows. Quantity defaults to 1 and the exchange rate to 1
// when the columns predate multi-currency support.
func DecodeSales(table Table, logger *zap.Logger) []models.SaleRecord {
	logger = orNop(logger)

	var (
		date     = table.column("Date")
		item     = table.column("Item", "Item Label", "Product")
		quantity = table.column("Quantity", "Qty")
		price    = table.column("Selling Price", "Price")
		currency = table.column("Selling Currency", "Currency")
		cost     = table.column("Cost Price Normalized", "Cost Price", "Cost")
		rate     = table.column("Exchange Rate Used", "Exchange Rate", "Rate")
	)

	sales := make([]models.SaleRecord, 0, len(table.Rows))
	for i, row := range table.Rows {
		if blankRow(row) {
			continue
		}

		sale := models.SaleRecord{
			Date:                readDate(row, date, logger, TableSales, i),
			ItemLabel:           cell(row, item),
			Quantity:            readInt(row, quantity, 1, logger, TableSales, i),
			SellingPrice:        readDecimal(row, price, logger, TableSales, i),
			SellingCurrency:     models.ParseCurrency(cell(row, currency)),
			CostPriceNormalized: readDecimal(row, cost, logger, TableSales, i),
			ExchangeRateUsed:    readDecimal(row, rate, logger, TableSales, i),
		}
		if !sale.ExchangeRateUsed.IsPositive() {
			sale.ExchangeRateUsed = decimal.NewFromInt(1)
		}
		sales = append(sales, sale)
	}
	return sales
}

// EncodeSales renders sales under the canonical header.
func EncodeSales(sales []models.SaleRecord) Table {
	rows := make([][]string, 0, len(sales))
	for _, sale := range sales {
		rows = append(rows, []string{
			formatDate(sale.Date),
			sale.ItemLabel,
			strconv.Itoa(sale.Quantity),
			sale.SellingPrice.String(),
			string(sale.SellingCurrency),
			sale.CostPriceNormalized.String(),
			sale.ExchangeRateUsed.String(),
		})
	}
	return Table{Header: append([]string(nil), SalesHeader...), Rows: rows}
}

// DecodeExpenses maps expense rows. Unknown categories fall back to Other.
func DecodeExpenses(table Table, logger *zap.Logger) []models.ExpenseRecord {
	logger = orNop(logger)

	var (
		date     = table.column("Date")
		category = table.column("Category", "Label")
		amount   = table.column("Amount")
		currency = table.column("Currency")
		notes    = table.column("Notes", "Note", "Description")
	)

	expenses := make([]models.ExpenseRecord, 0, len(table.Rows))
	for i, row := range table.Rows {
		if blankRow(row) {
			continue
		}

		cat, ok := models.ParseExpenseCategory(cell(row, category))
		if !ok {
			logger.Debug("defaulting expense category", zap.Int("row", i), zap.String("value", cell(row, category)))
			cat = models.ExpenseOther
		}

		expenses = append(expenses, models.ExpenseRecord{
			Date:     readDate(row, date, logger, TableExpenses, i),
			Category: cat,
			Amount:   readDecimal(row, amount, logger, TableExpenses, i),
			Currency: models.ParseCurrency(cell(row, currency)),
			Notes:    cell(row, notes),
		})
	}
	return expenses
}

// EncodeExpenses renders expenses under the canonical header.
func EncodeExpenses(expenses []models.ExpenseRecord) Table {
	rows := make([][]string, 0, len(expenses))
	for _, expense := range expenses {
		rows = append(rows, []string{
			formatDate(expense.Date),
			string(expense.Category),
			expense.Amount.String(),
			string(expense.Currency),
			expense.Notes,
		})
	}
	return Table{Header: append([]string(nil), ExpensesHeader...), Rows: rows}
}

// DecodeServiceOrders maps order rows. Rows without an id receive one, a blank
// status means the order is still in progress, and quantity is at least 1. An
// unreadable date stays zero.
func DecodeServiceOrders(table Table, logger *zap.Logger) []models.ServiceOrder {
	logger = orNop(logger)

	var (
		id       = table.column("ID", "Order ID")
		date     = table.column("Date", "Order Date")
		name     = table.column("Name", "Order", "Item")
		quantity = table.column("Quantity", "Qty")
		status   = table.column("Status")
		price    = table.column("Price")
		currency = table.column("Currency")
	)

	orders := make([]models.ServiceOrder, 0, len(table.Rows))
	for i, row := range table.Rows {
		if blankRow(row) {
			continue
		}

		order := models.ServiceOrder{
			ID:       cell(row, id),
			Date:     readDate(row, date, logger, TableServiceOrders, i),
			Name:     cell(row, name),
			Quantity: readInt(row, quantity, 1, logger, TableServiceOrders, i),
			Price:    readDecimal(row, price, logger, TableServiceOrders, i),
			Currency: models.ParseCurrency(cell(row, currency)),
		}
		if order.ID == "" {
			order.ID = legacyOrderID(row, i)
		}
		if order.Quantity < 1 {
			order.Quantity = 1
		}

		raw := cell(row, status)
		parsed, ok := models.ParseOrderStatus(raw)
		if !ok {
			if raw != "" {
				logger.Debug("defaulting order status", zap.Int("row", i), zap.String("value", raw))
			}
			parsed = models.OrderInProgress
		}
		order.Status = parsed

		orders = append(orders, order)
	}
	return orders
}

// EncodeServiceOrders renders orders under the canonical header.
func EncodeServiceOrders(orders []models.ServiceOrder) Table {
	rows := make([][]string, 0, len(orders))
	for _, order := range orders {
		rows = append(rows, []string{
			order.ID,
			formatDate(order.Date),
			order.Name,
			strconv.Itoa(order.Quantity),
			string(order.Status),
			order.Price.String(),
			string(order.Currency),
		})
	}
	return Table{Header: append([]string(nil), ServiceOrdersHeader...), Rows: rows}
}

func readDate(row []string, index int, logger *zap.Logger, table TableName, line int) time.Time {
	value := cell(row, index)
	if value == "" {
		return time.Time{}
	}
	parsed, err := parseDate(value)
	if err != nil {
		logger.Debug("unreadable date", zap.String("table", string(table)), zap.Int("row", line), zap.String("value", value), zap.Error(err))
		return time.Time{}
	}
	return parsed
}

func readDecimal(row []string, index int, logger *zap.Logger, table TableName, line int) decimal.Decimal {
	value := cell(row, index)
	if value == "" {
		return decimal.Zero
	}
	parsed, err := parseDecimal(value)
	if err != nil {
		logger.Debug("unreadable amount", zap.String("table", string(table)), zap.Int("row", line), zap.String("value", value), zap.Error(err))
		return decimal.Zero
	}
	return parsed
}

func readInt(row []string, index, fallback int, logger *zap.Logger, table TableName, line int) int {
	value := cell(row, index)
	if value == "" {
		return fallback
	}
	parsed, err := parseDecimal(value)
	if err != nil {
		logger.Debug("unreadable count", zap.String("table", string(table)), zap.Int("row", line), zap.String("value", value), zap.Error(err))
		return fallback
	}
	return int(parsed.IntPart())
}

func parseDate(value string) (time.Time, error) {
	if len(value) > len(dateLayout) {
		value = value[:len(dateLayout)]
	}
	if t, err := time.Parse(dateLayout, value); err == nil {
		return t, nil
	}
	if t, err := time.Parse("02/01/2006", value); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("date %q is not YYYY-MM-DD", value)
}

// parseDecimal accepts "1750", "1750.5", "1,750", "1,750.50" and "1750,50".
func parseDecimal(value string) (decimal.Decimal, error) {
	return ledger.ParseAmount(value)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

func orNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

// legacyOrderID derives the ID of an order row that has none from the row's
// content and position, so repeated reads agree until the table is rewritten
// with the ID in place.
func legacyOrderID(row []string, index int) string {
	key := strconv.Itoa(index) + "\x1f" + strings.Join(row, "\x1f")
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(key)).String()
}
