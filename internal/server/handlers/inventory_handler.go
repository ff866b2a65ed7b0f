package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/shopledger/internal/domain/models"
	"github.com/mamadbah2/shopledger/internal/ledger"
	"github.com/mamadbah2/shopledger/internal/service/inventory"
)

// InventoryService is what the inventory and sales endpoints need.
type InventoryService interface {
	List(ctx context.Context, query string) ([]inventory.Entry, error)
	Add(ctx context.Context, item models.InventoryItem) (inventory.Entry, error)
	Sell(ctx context.Context, req inventory.SaleRequest) (ledger.SaleResult, error)
	Sales(ctx context.Context) ([]models.SaleRecord, error)
	Restock(ctx context.Context, index, quantity int) (inventory.Entry, error)
	Correct(ctx context.Context, index, delta int) (inventory.Entry, error)
}

// InventoryHandler serves the inventory and sales endpoints.
type InventoryHandler struct {
	svc    InventoryService
	logger *zap.Logger
}

// NewInventoryHandler constructs the handler.
func NewInventoryHandler(svc InventoryService, logger *zap.Logger) *InventoryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InventoryHandler{svc: svc, logger: logger}
}

type addItemRequest struct {
	Brand            string          `json:"brand"`
	Model            string          `json:"model"`
	Color            string          `json:"color"`
	Details          string          `json:"details"`
	Supplier         string          `json:"supplier"`
	PurchaseCost     decimal.Decimal `json:"purchase_cost"`
	PurchaseCurrency string          `json:"purchase_currency"`
	TargetPrice      decimal.Decimal `json:"target_price"`
	Stock            int             `json:"stock"`
}

type quantityRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

type deltaRequest struct {
	Delta int `json:"delta" binding:"required"`
}

type saleRequest struct {
	Index    *int            `json:"index" binding:"required"`
	Price    decimal.Decimal `json:"price"`
	Currency string          `json:"currency"`
	Rate     decimal.Decimal `json:"rate"`
}

type saleResponse struct {
	Sale      models.SaleRecord `json:"sale"`
	Margin    decimal.Decimal   `json:"margin"`
	BelowCost bool              `json:"below_cost"`
}

// List returns the inventory, filtered by the optional q parameter.
func (h *InventoryHandler) List(c *gin.Context) {
	entries, err := h.svc.List(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": entries})
}

// Add inserts a new item.
func (h *InventoryHandler) Add(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}

	entry, err := h.svc.Add(c.Request.Context(), models.InventoryItem{
		Brand:            req.Brand,
		Model:            req.Model,
		Color:            req.Color,
		Details:          req.Details,
		Supplier:         req.Supplier,
		PurchaseCost:     req.PurchaseCost,
		PurchaseCurrency: models.ParseCurrency(req.PurchaseCurrency),
		TargetPrice:      req.TargetPrice,
		Stock:            req.Stock,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// Restock adds units to the item at :index.
func (h *InventoryHandler) Restock(c *gin.Context) {
	index, ok := h.index(c)
	if !ok {
		return
	}
	var req quantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}

	entry, err := h.svc.Restock(c.Request.Context(), index, req.Quantity)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

// Correct applies a signed stock correction to the item at :index.
func (h *InventoryHandler) Correct(c *gin.Context) {
	index, ok := h.index(c)
	if !ok {
		return
	}
	var req deltaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}

	entry, err := h.svc.Correct(c.Request.Context(), index, req.Delta)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

// Sell registers a one-unit sale. rate may be omitted when the sale currency
// matches the purchase currency and is required otherwise.
func (h *InventoryHandler) Sell(c *gin.Context) {
	var req saleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}

	result, err := h.svc.Sell(c.Request.Context(), inventory.SaleRequest{
		Index:    *req.Index,
		Price:    req.Price,
		Currency: models.ParseCurrency(req.Currency),
		Rate:     req.Rate,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, saleResponse{Sale: result.Sale, Margin: result.Margin, BelowCost: result.BelowCost})
}

// Sales returns the sales journal.
func (h *InventoryHandler) Sales(c *gin.Context) {
	sales, err := h.svc.Sales(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sales": sales})
}

func (h *InventoryHandler) index(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "index must be a non-negative integer"})
		return 0, false
	}
	return index, true
}
