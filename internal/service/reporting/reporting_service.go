package reporting

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/shopledger/internal/domain/models"
	"github.com/mamadbah2/shopledger/internal/ledger"
)

const dateLayout = "2006-01-02"

// Repository is the read side of the ledger used for reports.
type Repository interface {
	Inventory(ctx context.Context) ([]models.InventoryItem, error)
	Sales(ctx context.Context) ([]models.SaleRecord, error)
	Expenses(ctx context.Context) ([]models.ExpenseRecord, error)
	ServiceOrders(ctx context.Context) ([]models.ServiceOrder, error)
}

// Archive stores generated daily reports.
type Archive interface {
	SaveDailyReport(ctx context.Context, report models.DailyReport) error
}

// Service exposes profitability analytics for the API, WhatsApp and the scheduler.
type Service struct {
	repo              Repository
	archive           Archive
	lowStockThreshold int
	location          *time.Location
	logger            *zap.Logger
	now               func() time.Time
}

// NewService wires a new reporting service instance. archive may be nil, in
// which case reports are only rendered. Dates are evaluated in loc.
func NewService(repository Repository, archive Archive, lowStockThreshold int, loc *time.Location, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		repo:              repository,
		archive:           archive,
		lowStockThreshold: lowStockThreshold,
		location:          loc,
		logger:            logger,
		now:               time.Now,
	}
}

// Profitability aggregates revenue, cost of goods and expenses per currency.
func (s *Service) Profitability(ctx context.Context) (map[models.Currency]models.CurrencySummary, error) {
	sales, err := s.repo.Sales(ctx)
	if err != nil {
		return nil, fmt.Errorf("load sales: %w", err)
	}
	expenses, err := s.repo.Expenses(ctx)
	if err != nil {
		return nil, fmt.Errorf("load expenses: %w", err)
	}
	orders, err := s.repo.ServiceOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("load service orders: %w", err)
	}
	return ledger.AggregateByCurrency(sales, expenses, orders), nil
}

// OrderVolume counts recent and open service orders as of today.
func (s *Service) OrderVolume(ctx context.Context) (models.OrderVolume, error) {
	orders, err := s.repo.ServiceOrders(ctx)
	if err != nil {
		return models.OrderVolume{}, fmt.Errorf("load service orders: %w", err)
	}
	return ledger.CountOrderVolume(orders, s.today()), nil
}

// DailyReport assembles the full end-of-day snapshot.
func (s *Service) DailyReport(ctx context.Context) (models.DailyReport, error) {
	profitability, err := s.Profitability(ctx)
	if err != nil {
		return models.DailyReport{}, err
	}
	volume, err := s.OrderVolume(ctx)
	if err != nil {
		return models.DailyReport{}, err
	}
	items, err := s.repo.Inventory(ctx)
	if err != nil {
		return models.DailyReport{}, fmt.Errorf("load inventory: %w", err)
	}

	today := s.today()
	return models.DailyReport{
		Date:           time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, s.location),
		Profitability:  profitability,
		Orders:         volume,
		InventoryValue: ledger.ValueInventory(items),
		LowStock:       ledger.LowStock(items, s.lowStockThreshold),
		CreatedAt:      s.now(),
	}, nil
}

// GenerateDailyReport builds the report, archives it when an archive is
// configured and returns the message text. Archive failures are logged only.
func (s *Service) GenerateDailyReport(ctx context.Context) (string, error) {
	report, err := s.DailyReport(ctx)
	if err != nil {
		return "", err
	}

	if s.archive != nil {
		if err := s.archive.SaveDailyReport(ctx, report); err != nil {
			s.logger.Error("failed to archive daily report", zap.Error(err))
		} else {
			s.logger.Info("daily report archived", zap.String("date", report.Date.Format(dateLayout)))
		}
	}

	return FormatDailyReport(report), nil
}

// FormatProfitability renders one line per currency in display order.
func FormatProfitability(byCurrency map[models.Currency]models.CurrencySummary) string {
	if len(byCurrency) == 0 {
		return "No sales, expenses or completed orders recorded yet."
	}

	var b strings.Builder
	for _, currency := range ledger.SortedCurrencies(byCurrency) {
		summary := byCurrency[currency]
		fmt.Fprintf(&b, "%s: revenue %s, cogs %s, expenses %s, net %s\n",
			currency.Code(),
			currency.Format(summary.Revenue),
			currency.Format(summary.COGS),
			currency.Format(summary.OperatingExpense),
			currency.Format(summary.NetProfit),
		)
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatDailyReport renders the report as a WhatsApp-friendly text block.
func FormatDailyReport(report models.DailyReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*Daily report %s*\n", report.Date.Format(dateLayout))

	b.WriteString("\n*Profitability*\n")
	b.WriteString(FormatProfitability(report.Profitability))
	b.WriteString("\n")

	fmt.Fprintf(&b, "\n*Service orders*\nLast 7 days: %d\nLast 30 days: %d\nIn progress: %d\n",
		report.Orders.Last7Days, report.Orders.Last30Days, report.Orders.InProgress)

	if len(report.InventoryValue) > 0 {
		b.WriteString("\n*Stock value at cost*\n")
		for _, currency := range ledger.SortedCurrencies(report.InventoryValue) {
			fmt.Fprintf(&b, "%s: %s\n", currency.Code(), currency.Format(report.InventoryValue[currency]))
		}
	}

	if len(report.LowStock) > 0 {
		b.WriteString("\n*Low stock*\n")
		for _, label := range report.LowStock {
			fmt.Fprintf(&b, "- %s\n", label)
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

func (s *Service) today() time.Time {
	return s.now().In(s.location)
}
