package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/shopledger/internal/domain/models"
	"github.com/mamadbah2/shopledger/internal/ledger"
	"github.com/mamadbah2/shopledger/internal/service/reporting"
)

// ReportingService is what the report endpoints need.
type ReportingService interface {
	Profitability(ctx context.Context) (map[models.Currency]models.CurrencySummary, error)
	OrderVolume(ctx context.Context) (models.OrderVolume, error)
	DailyReport(ctx context.Context) (models.DailyReport, error)
}

// ReportHandler serves the read-only report endpoints.
type ReportHandler struct {
	svc    ReportingService
	logger *zap.Logger
}

// NewReportHandler constructs the handler.
func NewReportHandler(svc ReportingService, logger *zap.Logger) *ReportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportHandler{svc: svc, logger: logger}
}

type currencyBucket struct {
	Currency models.Currency `json:"currency"`
	Code     string          `json:"code"`
	models.CurrencySummary
}

func buckets(byCurrency map[models.Currency]models.CurrencySummary) []currencyBucket {
	out := make([]currencyBucket, 0, len(byCurrency))
	for _, currency := range ledger.SortedCurrencies(byCurrency) {
		out = append(out, currencyBucket{Currency: currency, Code: currency.Code(), CurrencySummary: byCurrency[currency]})
	}
	return out
}

// Profitability returns one bucket per currency in display order plus the text
// summary sent over WhatsApp.
func (h *ReportHandler) Profitability(c *gin.Context) {
	byCurrency, err := h.svc.Profitability(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"currencies": buckets(byCurrency),
		"summary":    reporting.FormatProfitability(byCurrency),
	})
}

// OrderVolume returns the service-order counters.
func (h *ReportHandler) OrderVolume(c *gin.Context) {
	volume, err := h.svc.OrderVolume(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, volume)
}

// Daily returns today's report without archiving it.
func (h *ReportHandler) Daily(c *gin.Context) {
	report, err := h.svc.DailyReport(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	value := make(map[string]string, len(report.InventoryValue))
	for currency, amount := range report.InventoryValue {
		value[currency.Code()] = amount.String()
	}

	c.JSON(http.StatusOK, gin.H{
		"date":            report.Date.Format("2006-01-02"),
		"currencies":      buckets(report.Profitability),
		"orders":          report.Orders,
		"inventory_value": value,
		"low_stock":       report.LowStock,
		"text":            reporting.FormatDailyReport(report),
	})
}
