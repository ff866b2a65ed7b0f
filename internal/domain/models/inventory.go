package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// InventoryItem is one stocked product line.
type InventoryItem struct {
	Brand            string          `json:"brand"`
	Model            string          `json:"model"`
	Color            string          `json:"color"`
	Details          string          `json:"details"`
	Supplier         string          `json:"supplier"`
	DateAdded        time.Time       `json:"date_added"`
	PurchaseCost     decimal.Decimal `json:"purchase_cost"`
	PurchaseCurrency Currency        `json:"purchase_currency"`
	TargetPrice      decimal.Decimal `json:"target_price"`
	Stock            int             `json:"stock"`
}

// Label is the human name of the item, captured on sale records.
func (i InventoryItem) Label() string {
	return strings.TrimSpace(strings.TrimSpace(i.Brand) + " " + strings.TrimSpace(i.Model))
}

// StockChange enumerates the ways stock can be adjusted outside a registered sale.
type StockChange string

const (
	StockChangeSale       StockChange = "sale"
	StockChangeRestock    StockChange = "restock"
	StockChangeCorrection StockChange = "correction"
)
