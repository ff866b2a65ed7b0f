package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/shopledger/internal/auth"
	"github.com/mamadbah2/shopledger/internal/config"
	"github.com/mamadbah2/shopledger/internal/domain/models"
	"github.com/mamadbah2/shopledger/internal/ledger"
	"github.com/mamadbah2/shopledger/internal/repository/store"
	"github.com/mamadbah2/shopledger/internal/server/handlers"
	"github.com/mamadbah2/shopledger/internal/service/bookkeeping"
	"github.com/mamadbah2/shopledger/internal/service/inventory"
	"github.com/mamadbah2/shopledger/internal/service/reporting"
)

type testServer struct {
	engine http.Handler
	repo   *store.Ledger
	token  string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()

	repo := store.NewLedger(store.NewMemoryStore(), nil)
	require.NoError(t, repo.SaveInventory(ctx, []models.InventoryItem{
		{Brand: "Fender", Model: "Stratocaster", PurchaseCost: decimal.NewFromInt(50), PurchaseCurrency: models.CurrencyEUR, Stock: 1},
	}))

	sessions, err := auth.NewSessionManager(config.AuthConfig{Password: "secret", SessionTTL: time.Hour})
	require.NoError(t, err)

	engine := New(Handlers{
		Auth:        handlers.NewAuthHandler(sessions, nil),
		Inventory:   handlers.NewInventoryHandler(inventory.NewService(repo, ledger.UniqueLabels, nil), nil),
		Bookkeeping: handlers.NewBookkeepingHandler(bookkeeping.NewService(repo, nil), nil),
		Reports:     handlers.NewReportHandler(reporting.NewService(repo, nil, 1, time.UTC, nil), nil),
	}, "shopledger-test", nil)

	srv := &testServer{engine: engine, repo: repo}
	rec := srv.do(t, http.MethodPost, "/api/login", `{"password":"secret"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var login struct {
		Token     string `json:"token"`
		ExpiresIn int    `json:"expires_in"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))
	require.NotEmpty(t, login.Token)
	assert.Equal(t, 3600, login.ExpiresIn)
	srv.token = login.Token
	return srv
}

func (s *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	// Arrange
	srv := newTestServer(t)
	srv.token = ""

	// Act
	rec := srv.do(t, http.MethodGet, "/healthz", "")

	// Assert
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestAPI_RequiresSession(t *testing.T) {
	// Arrange
	srv := newTestServer(t)
	srv.token = "not-a-session"

	// Act
	rec := srv.do(t, http.MethodGet, "/api/inventory", "")

	// Assert
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogin_WrongPassword(t *testing.T) {
	// Arrange
	srv := newTestServer(t)
	srv.token = ""

	// Act
	rec := srv.do(t, http.MethodPost, "/api/login", `{"password":"nope"}`)

	// Assert
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogout_EndsSession(t *testing.T) {
	// Arrange
	srv := newTestServer(t)

	// Act
	logout := srv.do(t, http.MethodPost, "/api/logout", "")
	after := srv.do(t, http.MethodGet, "/api/inventory", "")

	// Assert
	assert.Equal(t, http.StatusNoContent, logout.Code)
	assert.Equal(t, http.StatusUnauthorized, after.Code)
}

func TestSales_NormalizesCostAndDecrementsStock(t *testing.T) {
	// Arrange
	srv := newTestServer(t)

	// Act
	rec := srv.do(t, http.MethodPost, "/api/sales", `{"index":0,"price":"2000","currency":"TRY","rate":"35"}`)

	// Assert
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var body struct {
		Sale      models.SaleRecord `json:"sale"`
		Margin    decimal.Decimal   `json:"margin"`
		BelowCost bool              `json:"below_cost"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, decimal.NewFromInt(1750).Equal(body.Sale.CostPriceNormalized))
	assert.True(t, decimal.NewFromInt(250).Equal(body.Margin))
	assert.False(t, body.BelowCost)

	items, err := srv.repo.Inventory(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, items[0].Stock)
}

func TestSales_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
	}{
		{name: "unknown row", body: `{"index":7,"price":"10","currency":"USD","rate":"1"}`, status: http.StatusNotFound},
		{name: "zero rate", body: `{"index":0,"price":"10","currency":"USD","rate":"0"}`, status: http.StatusUnprocessableEntity},
		{name: "missing index", body: `{"price":"10","currency":"USD","rate":"1"}`, status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			srv := newTestServer(t)

			// Act
			rec := srv.do(t, http.MethodPost, "/api/sales", tt.body)

			// Assert
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}
}

func TestSales_SameCurrencyWithoutRate(t *testing.T) {
	// Arrange
	srv := newTestServer(t)

	// Act
	rec := srv.do(t, http.MethodPost, "/api/sales", `{"index":0,"price":"80","currency":"EUR"}`)

	// Assert
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"below_cost":false`)
}

func TestSales_OutOfStockConflict(t *testing.T) {
	// Arrange
	srv := newTestServer(t)
	first := srv.do(t, http.MethodPost, "/api/sales", `{"index":0,"price":"80","currency":"EUR","rate":"1"}`)
	require.Equal(t, http.StatusCreated, first.Code)

	// Act
	rec := srv.do(t, http.MethodPost, "/api/sales", `{"index":0,"price":"80","currency":"EUR","rate":"1"}`)

	// Assert
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestInventory_AddFilterAndRestock(t *testing.T) {
	// Arrange
	srv := newTestServer(t)

	// Act
	added := srv.do(t, http.MethodPost, "/api/inventory", `{"brand":"Yamaha","model":"P-45","purchase_cost":"300","purchase_currency":"USD","stock":2}`)
	duplicate := srv.do(t, http.MethodPost, "/api/inventory", `{"brand":"Yamaha","model":"P-45","purchase_cost":"300","purchase_currency":"USD","stock":1}`)
	restocked := srv.do(t, http.MethodPost, "/api/inventory/1/restock", `{"quantity":3}`)
	listed := srv.do(t, http.MethodGet, "/api/inventory?q=yamaha", "")

	// Assert
	require.Equal(t, http.StatusCreated, added.Code, added.Body.String())
	assert.Equal(t, http.StatusConflict, duplicate.Code)
	require.Equal(t, http.StatusOK, restocked.Code, restocked.Body.String())

	var entry inventory.Entry
	require.NoError(t, json.Unmarshal(restocked.Body.Bytes(), &entry))
	assert.Equal(t, 5, entry.Item.Stock)

	var list struct {
		Items []inventory.Entry `json:"items"`
	}
	require.NoError(t, json.Unmarshal(listed.Body.Bytes(), &list))
	require.Len(t, list.Items, 1)
	assert.Equal(t, 1, list.Items[0].Index)
}

func TestInventory_CorrectionClampsAtZero(t *testing.T) {
	// Arrange
	srv := newTestServer(t)

	// Act
	rec := srv.do(t, http.MethodPost, "/api/inventory/0/correct", `{"delta":-5}`)
	bad := srv.do(t, http.MethodPost, "/api/inventory/x/correct", `{"delta":1}`)

	// Assert
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var entry inventory.Entry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entry))
	assert.Equal(t, 0, entry.Item.Stock)
	assert.Equal(t, http.StatusBadRequest, bad.Code)
}

func TestOrders_Lifecycle(t *testing.T) {
	// Arrange
	srv := newTestServer(t)
	opened := srv.do(t, http.MethodPost, "/api/orders", `{"name":"Refret","quantity":1,"price":"120","currency":"USD"}`)
	require.Equal(t, http.StatusCreated, opened.Code, opened.Body.String())
	var order models.ServiceOrder
	require.NoError(t, json.Unmarshal(opened.Body.Bytes(), &order))

	// Act
	done := srv.do(t, http.MethodPatch, "/api/orders/"+order.ID, `{"status":"done","price":"150"}`)
	again := srv.do(t, http.MethodPatch, "/api/orders/"+order.ID, `{"price":"10"}`)
	open := srv.do(t, http.MethodGet, "/api/orders?status=InProgress", "")
	bogus := srv.do(t, http.MethodGet, "/api/orders?status=shipped", "")

	// Assert
	require.Equal(t, http.StatusOK, done.Code, done.Body.String())
	var completed models.ServiceOrder
	require.NoError(t, json.Unmarshal(done.Body.Bytes(), &completed))
	assert.Equal(t, models.OrderCompleted, completed.Status)
	assert.True(t, decimal.NewFromInt(150).Equal(completed.Price))

	assert.Equal(t, http.StatusConflict, again.Code)
	assert.JSONEq(t, `{"orders":[]}`, open.Body.String())
	assert.Equal(t, http.StatusUnprocessableEntity, bogus.Code)
}

func TestExpensesAndProfitability(t *testing.T) {
	// Arrange
	srv := newTestServer(t)
	sale := srv.do(t, http.MethodPost, "/api/sales", `{"index":0,"price":"80","currency":"EUR","rate":"1"}`)
	require.Equal(t, http.StatusCreated, sale.Code)
	expense := srv.do(t, http.MethodPost, "/api/expenses", `{"date":"2024-03-01","category":"Rent","amount":"10","currency":"EUR"}`)
	require.Equal(t, http.StatusCreated, expense.Code, expense.Body.String())

	// Act
	rec := srv.do(t, http.MethodGet, "/api/reports/profitability", "")

	// Assert
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Currencies []struct {
			Code      string          `json:"code"`
			Revenue   decimal.Decimal `json:"revenue"`
			COGS      decimal.Decimal `json:"cogs"`
			NetProfit decimal.Decimal `json:"net_profit"`
		} `json:"currencies"`
		Summary string `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Currencies, 1)
	assert.Equal(t, "EUR", body.Currencies[0].Code)
	assert.True(t, decimal.NewFromInt(80).Equal(body.Currencies[0].Revenue))
	assert.True(t, decimal.NewFromInt(50).Equal(body.Currencies[0].COGS))
	assert.True(t, decimal.NewFromInt(20).Equal(body.Currencies[0].NetProfit))
	assert.Contains(t, body.Summary, "EUR")
}

func TestExpenses_RejectsUnknownCategory(t *testing.T) {
	// Arrange
	srv := newTestServer(t)

	// Act
	rec := srv.do(t, http.MethodPost, "/api/expenses", `{"category":"Lunch","amount":"10","currency":"EUR"}`)

	// Assert
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestWebhookRoutesAbsentWithoutWhatsApp(t *testing.T) {
	// Arrange
	srv := newTestServer(t)

	// Act
	rec := srv.do(t, http.MethodGet, "/webhook?hub.mode=subscribe", "")

	// Assert
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
