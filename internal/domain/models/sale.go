package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleRecord captures one point-of-sale transaction. Cost is already expressed in
// the selling currency.
type SaleRecord struct {
	Date                time.Time       `json:"date"`
	ItemLabel           string          `json:"item_label"`
	Quantity            int             `json:"quantity"`
	SellingPrice        decimal.Decimal `json:"selling_price"`
	SellingCurrency     Currency        `json:"selling_currency"`
	CostPriceNormalized decimal.Decimal `json:"cost_price_normalized"`
	ExchangeRateUsed    decimal.Decimal `json:"exchange_rate_used"`
}

// Margin is the selling price minus the normalized cost.
func (s SaleRecord) Margin() decimal.Decimal {
	return s.SellingPrice.Sub(s.CostPriceNormalized)
}
