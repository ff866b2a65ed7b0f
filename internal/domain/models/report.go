package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CurrencySummary aggregates one currency bucket.
type CurrencySummary struct {
	Revenue          decimal.Decimal `json:"revenue"`
	COGS             decimal.Decimal `json:"cogs"`
	OperatingExpense decimal.Decimal `json:"operating_expense"`
	NetProfit        decimal.Decimal `json:"net_profit"`
	Sales            int             `json:"sales"`
	Expenses         int             `json:"expenses"`
	CompletedOrders  int             `json:"completed_orders"`
}

// OrderVolume counts service orders by recency and state.
type OrderVolume struct {
	Last7Days  int `json:"last_7_days"`
	Last30Days int `json:"last_30_days"`
	InProgress int `json:"in_progress"`
}

// DailyReport is the scheduled summary sent to the manager and archived.
type DailyReport struct {
	Date           time.Time                    `json:"date"`
	Profitability  map[Currency]CurrencySummary `json:"profitability"`
	Orders         OrderVolume                  `json:"orders"`
	InventoryValue map[Currency]decimal.Decimal `json:"inventory_value"`
	LowStock       []string                     `json:"low_stock"`
	CreatedAt      time.Time                    `json:"created_at"`
}
