package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/shopledger/internal/domain/models"
	"github.com/mamadbah2/shopledger/internal/ledger"
	"github.com/mamadbah2/shopledger/internal/service/bookkeeping"
)

// BookkeepingService is what the expense and order endpoints need.
type BookkeepingService interface {
	RecordExpense(ctx context.Context, in bookkeeping.ExpenseInput) (models.ExpenseRecord, error)
	Expenses(ctx context.Context) ([]models.ExpenseRecord, error)
	OpenOrder(ctx context.Context, in bookkeeping.OrderInput) (models.ServiceOrder, error)
	Orders(ctx context.Context, status models.OrderStatus) ([]models.ServiceOrder, error)
	UpdateOrder(ctx context.Context, id string, update ledger.OrderUpdate) (models.ServiceOrder, error)
}

// BookkeepingHandler serves expenses and service orders.
type BookkeepingHandler struct {
	svc    BookkeepingService
	logger *zap.Logger
}

// NewBookkeepingHandler constructs the handler.
func NewBookkeepingHandler(svc BookkeepingService, logger *zap.Logger) *BookkeepingHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BookkeepingHandler{svc: svc, logger: logger}
}

type expenseRequest struct {
	Date     string          `json:"date"`
	Category string          `json:"category" binding:"required"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
	Notes    string          `json:"notes"`
}

type orderRequest struct {
	Name     string          `json:"name" binding:"required"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Currency string          `json:"currency"`
}

type orderUpdateRequest struct {
	Price  *decimal.Decimal `json:"price"`
	Status *string          `json:"status"`
}

// RecordExpense appends an expense. date is optional and read as YYYY-MM-DD.
func (h *BookkeepingHandler) RecordExpense(c *gin.Context) {
	var req expenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}

	var date time.Time
	if req.Date != "" {
		parsed, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			badRequest(c, h.logger, fmt.Errorf("date: %w", err))
			return
		}
		date = parsed
	}

	expense, err := h.svc.RecordExpense(c.Request.Context(), bookkeeping.ExpenseInput{
		Date:     date,
		Category: req.Category,
		Amount:   req.Amount,
		Currency: models.ParseCurrency(req.Currency),
		Notes:    req.Notes,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, expense)
}

// Expenses lists recorded expenses.
func (h *BookkeepingHandler) Expenses(c *gin.Context) {
	expenses, err := h.svc.Expenses(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"expenses": expenses})
}

// OpenOrder queues a service order.
func (h *BookkeepingHandler) OpenOrder(c *gin.Context) {
	var req orderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	order, err := h.svc.OpenOrder(c.Request.Context(), bookkeeping.OrderInput{
		Name:     req.Name,
		Quantity: req.Quantity,
		Price:    req.Price,
		Currency: models.ParseCurrency(req.Currency),
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

// Orders lists service orders, optionally filtered by ?status=.
func (h *BookkeepingHandler) Orders(c *gin.Context) {
	var status models.OrderStatus
	if raw := c.Query("status"); raw != "" {
		parsed, ok := models.ParseOrderStatus(raw)
		if !ok {
			respondError(c, h.logger, fmt.Errorf("status %q: %w", raw, ledger.ErrInvalidStatus))
			return
		}
		status = parsed
	}

	orders, err := h.svc.Orders(c.Request.Context(), status)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// UpdateOrder changes the price and/or status of the order at :id.
func (h *BookkeepingHandler) UpdateOrder(c *gin.Context) {
	var req orderUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}

	update := ledger.OrderUpdate{Price: req.Price}
	if req.Status != nil {
		status, ok := models.ParseOrderStatus(*req.Status)
		if !ok {
			respondError(c, h.logger, fmt.Errorf("status %q: %w", *req.Status, ledger.ErrInvalidStatus))
			return
		}
		update.Status = &status
	}

	order, err := h.svc.UpdateOrder(c.Request.Context(), c.Param("id"), update)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, order)
}
