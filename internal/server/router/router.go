package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/mamadbah2/shopledger/internal/server/handlers"
)

// Handlers groups the endpoint adapters. Webhook is nil when WhatsApp is not
// configured, which leaves its routes unregistered.
type Handlers struct {
	Auth        *handlers.AuthHandler
	Inventory   *handlers.InventoryHandler
	Bookkeeping *handlers.BookkeepingHandler
	Reports     *handlers.ReportHandler
	Webhook     *handlers.WebhookHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, serviceName string, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(serviceName))
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if h.Webhook != nil {
		r.GET("/webhook", h.Webhook.Verify)
		r.POST("/webhook", h.Webhook.Receive)
		r.POST("/send-message", h.Auth.RequireSession(), h.Webhook.SendMessage)
	}

	api := r.Group("/api")
	api.POST("/login", h.Auth.Login)

	secured := api.Group("")
	secured.Use(h.Auth.RequireSession())
	secured.POST("/logout", h.Auth.Logout)

	secured.GET("/inventory", h.Inventory.List)
	secured.POST("/inventory", h.Inventory.Add)
	secured.POST("/inventory/:index/restock", h.Inventory.Restock)
	secured.POST("/inventory/:index/correct", h.Inventory.Correct)
	secured.GET("/sales", h.Inventory.Sales)
	secured.POST("/sales", h.Inventory.Sell)

	secured.GET("/expenses", h.Bookkeeping.Expenses)
	secured.POST("/expenses", h.Bookkeeping.RecordExpense)
	secured.GET("/orders", h.Bookkeeping.Orders)
	secured.POST("/orders", h.Bookkeeping.OpenOrder)
	secured.PATCH("/orders/:id", h.Bookkeeping.UpdateOrder)

	secured.GET("/reports/profitability", h.Reports.Profitability)
	secured.GET("/reports/orders", h.Reports.OrderVolume)
	secured.GET("/reports/daily", h.Reports.Daily)

	if logger != nil {
		logger.Info("router initialized", zap.Bool("whatsapp", h.Webhook != nil))
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
