package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/zap"

	"github.com/mamadbah2/shopledger/internal/domain/models"
	"github.com/mamadbah2/shopledger/internal/ledger"
)

const meterName = "github.com/mamadbah2/shopledger/internal/service/inventory"

// Repository is the slice of the ledger the inventory service reads and writes.
type Repository interface {
	Inventory(ctx context.Context) ([]models.InventoryItem, error)
	SaveInventory(ctx context.Context, items []models.InventoryItem) error
	Sales(ctx context.Context) ([]models.SaleRecord, error)
	SaveSales(ctx context.Context, sales []models.SaleRecord) error
}

// Entry pairs an item with its row index, which is how callers address it.
type Entry struct {
	Index int                  `json:"index"`
	Item  models.InventoryItem `json:"item"`
}

// SaleRequest describes a one-unit sale.
type SaleRequest struct {
	Index    int
	Price    decimal.Decimal
	Currency models.Currency
	Rate     decimal.Decimal
}

// Service runs inventory actions as read-modify-write cycles over the ledger.
// Concurrent writers are not isolated from each other.
type Service struct {
	repo   Repository
	policy ledger.KeyPolicy
	logger *zap.Logger
	now    func() time.Time

	salesRegistered metric.Int64Counter
	salesBelowCost  metric.Int64Counter
	salesOutOfStock metric.Int64Counter
}

// Option customizes a Service.
type Option func(*Service)

// WithMeterProvider records sale counters on mp instead of the global provider.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(s *Service) {
		s.initCounters(mp.Meter(meterName))
	}
}

// NewService wires an inventory service.
func NewService(repository Repository, policy ledger.KeyPolicy, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		repo:   repository,
		policy: policy,
		logger: logger,
		now:    time.Now,
	}
	s.initCounters(otel.Meter(meterName))
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) initCounters(meter metric.Meter) {
	fallback := noop.NewMeterProvider().Meter(meterName)
	counter := func(name, desc string) metric.Int64Counter {
		c, err := meter.Int64Counter(name, metric.WithDescription(desc))
		if err != nil {
			s.logger.Warn("counter unavailable", zap.String("name", name), zap.Error(err))
			c, _ = fallback.Int64Counter(name)
		}
		return c
	}
	s.salesRegistered = counter("shopledger.sales.registered", "Sales recorded")
	s.salesBelowCost = counter("shopledger.sales.below_cost", "Sales priced under the normalized cost")
	s.salesOutOfStock = counter("shopledger.sales.out_of_stock", "Sales rejected for lack of stock")
}

// List returns the items matching query with their row indexes. A blank query
// lists everything.
func (s *Service) List(ctx context.Context, query string) ([]Entry, error) {
	items, err := s.repo.Inventory(ctx)
	if err != nil {
		return nil, fmt.Errorf("load inventory: %w", err)
	}

	indexes := ledger.MatchItems(items, query)
	entries := make([]Entry, 0, len(indexes))
	for _, i := range indexes {
		entries = append(entries, Entry{Index: i, Item: items[i]})
	}
	return entries, nil
}

// Add appends a new item and returns it as stored.
func (s *Service) Add(ctx context.Context, item models.InventoryItem) (Entry, error) {
	items, err := s.repo.Inventory(ctx)
	if err != nil {
		return Entry{}, fmt.Errorf("load inventory: %w", err)
	}

	updated, err := ledger.AddItem(items, item, s.policy, s.now())
	if err != nil {
		return Entry{}, err
	}

	if err := s.repo.SaveInventory(ctx, updated); err != nil {
		return Entry{}, fmt.Errorf("save inventory: %w", err)
	}

	index := len(updated) - 1
	s.logger.Info("item added", zap.String("label", updated[index].Label()), zap.Int("index", index))
	return Entry{Index: index, Item: updated[index]}, nil
}

// Sell registers a one-unit sale. The inventory snapshot is written first, then
// the sale is appended to the journal.
func (s *Service) Sell(ctx context.Context, req SaleRequest) (ledger.SaleResult, error) {
	items, err := s.repo.Inventory(ctx)
	if err != nil {
		return ledger.SaleResult{}, fmt.Errorf("load inventory: %w", err)
	}

	rate := req.Rate
	if rate.IsZero() && req.Index >= 0 && req.Index < len(items) && items[req.Index].PurchaseCurrency.Same(req.Currency) {
		// no conversion needed, so an omitted rate is 1
		rate = decimal.NewFromInt(1)
	}

	result, err := ledger.RegisterSale(items, req.Index, req.Price, req.Currency, rate, s.now())
	if err != nil {
		if errors.Is(err, ledger.ErrOutOfStock) {
			s.salesOutOfStock.Add(ctx, 1)
		}
		return ledger.SaleResult{}, err
	}

	sales, err := s.repo.Sales(ctx)
	if err != nil {
		return ledger.SaleResult{}, fmt.Errorf("load sales: %w", err)
	}

	if err := s.repo.SaveInventory(ctx, result.Inventory); err != nil {
		return ledger.SaleResult{}, fmt.Errorf("save inventory: %w", err)
	}
	if err := s.repo.SaveSales(ctx, append(sales, result.Sale)); err != nil {
		s.logger.Error("stock decremented but sale not journaled",
			zap.String("item", result.Sale.ItemLabel), zap.Error(err))
		return ledger.SaleResult{}, fmt.Errorf("save sales: %w", err)
	}

	attrs := metric.WithAttributes(attribute.String("currency", result.Sale.SellingCurrency.Code()))
	s.salesRegistered.Add(ctx, 1, attrs)
	if result.BelowCost {
		s.salesBelowCost.Add(ctx, 1, attrs)
		s.logger.Warn("sale below cost",
			zap.String("item", result.Sale.ItemLabel),
			zap.String("price", result.Sale.SellingPrice.String()),
			zap.String("cost", result.Sale.CostPriceNormalized.String()),
			zap.String("currency", string(result.Sale.SellingCurrency)),
		)
	}

	s.logger.Info("sale registered",
		zap.String("item", result.Sale.ItemLabel),
		zap.String("margin", result.Margin.String()),
		zap.Int("stock_left", result.Inventory[req.Index].Stock),
	)
	return result, nil
}

// Sales returns the sales journal in recorded order.
func (s *Service) Sales(ctx context.Context) ([]models.SaleRecord, error) {
	sales, err := s.repo.Sales(ctx)
	if err != nil {
		return nil, fmt.Errorf("load sales: %w", err)
	}
	return sales, nil
}

// Restock adds quantity units to the item at index.
func (s *Service) Restock(ctx context.Context, index, quantity int) (Entry, error) {
	return s.adjust(ctx, index, quantity, models.StockChangeRestock)
}

// Correct applies a signed manual correction; stock is clamped at zero.
func (s *Service) Correct(ctx context.Context, index, delta int) (Entry, error) {
	return s.adjust(ctx, index, delta, models.StockChangeCorrection)
}

// Withdraw removes quantity units without recording a sale, e.g. for damaged goods.
func (s *Service) Withdraw(ctx context.Context, index, quantity int) (Entry, error) {
	return s.adjust(ctx, index, quantity, models.StockChangeSale)
}

func (s *Service) adjust(ctx context.Context, index, delta int, kind models.StockChange) (Entry, error) {
	items, err := s.repo.Inventory(ctx)
	if err != nil {
		return Entry{}, fmt.Errorf("load inventory: %w", err)
	}

	updated, err := ledger.AdjustStock(items, index, delta, kind)
	if err != nil {
		return Entry{}, err
	}

	if err := s.repo.SaveInventory(ctx, updated); err != nil {
		return Entry{}, fmt.Errorf("save inventory: %w", err)
	}

	s.logger.Info("stock adjusted",
		zap.String("kind", string(kind)),
		zap.String("label", updated[index].Label()),
		zap.Int("delta", delta),
		zap.Int("stock", updated[index].Stock),
	)
	return Entry{Index: index, Item: updated[index]}, nil
}
