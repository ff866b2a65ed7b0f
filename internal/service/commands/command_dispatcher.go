package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/shopledger/internal/domain/models"
	"github.com/mamadbah2/shopledger/internal/ledger"
	"github.com/mamadbah2/shopledger/internal/service/bookkeeping"
	"github.com/mamadbah2/shopledger/internal/service/inventory"
	"github.com/mamadbah2/shopledger/internal/service/reporting"
)

// ErrInvalidArguments indicates the command payload could not be parsed.
var ErrInvalidArguments = errors.New("invalid command arguments")

// ErrUnsupportedCommand indicates we do not yet support the requested command.
var ErrUnsupportedCommand = errors.New("unsupported command")

const maxStockLines = 20

// HelpText lists the supported commands.
const HelpText = `Commands:
/stock [search] - list items with their row number
/sale <row> <price> <currency> [rate] - sell one unit
/restock <row> <qty> - add units
/expense <category> <amount> <currency> [notes]
/order <qty> <price> <currency> <name>
/done <order-id> [final price]
/report - profit per currency and order volume`

// InventoryService is the inventory surface used by commands.
type InventoryService interface {
	List(ctx context.Context, query string) ([]inventory.Entry, error)
	Sell(ctx context.Context, req inventory.SaleRequest) (ledger.SaleResult, error)
	Restock(ctx context.Context, index, quantity int) (inventory.Entry, error)
}

// BookkeepingService is the expense and order surface used by commands.
type BookkeepingService interface {
	RecordExpense(ctx context.Context, in bookkeeping.ExpenseInput) (models.ExpenseRecord, error)
	OpenOrder(ctx context.Context, in bookkeeping.OrderInput) (models.ServiceOrder, error)
	CompleteOrder(ctx context.Context, id string, price *decimal.Decimal) (models.ServiceOrder, error)
}

// ReportingService defines the reporting functions required by the dispatcher.
type ReportingService interface {
	Profitability(ctx context.Context) (map[models.Currency]models.CurrencySummary, error)
	OrderVolume(ctx context.Context) (models.OrderVolume, error)
}

// Dispatcher executes parsed commands and returns the reply text.
type Dispatcher interface {
	HandleCommand(ctx context.Context, cmd models.Command, sender string) (string, error)
}

// Service implements the Dispatcher interface.
type Service struct {
	inventory   InventoryService
	bookkeeping BookkeepingService
	reporting   ReportingService
	logger      *zap.Logger
}

// NewService constructs a command dispatcher.
func NewService(inv InventoryService, books BookkeepingService, reports ReportingService, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		inventory:   inv,
		bookkeeping: books,
		reporting:   reports,
		logger:      logger,
	}
}

// HandleCommand runs the command against the ledger and describes the outcome.
func (s *Service) HandleCommand(ctx context.Context, cmd models.Command, sender string) (string, error) {
	s.logger.Debug("dispatching command", zap.String("command", string(cmd.Type)), zap.String("sender", sender), zap.Strings("args", cmd.Args))

	switch cmd.Type {
	case models.CommandStock:
		return s.stock(ctx, cmd)
	case models.CommandSale:
		return s.sale(ctx, cmd)
	case models.CommandRestock:
		return s.restock(ctx, cmd)
	case models.CommandExpense:
		return s.expense(ctx, cmd)
	case models.CommandOrder:
		return s.order(ctx, cmd)
	case models.CommandDone:
		return s.done(ctx, cmd)
	case models.CommandReport:
		return s.report(ctx)
	case models.CommandHelp:
		return HelpText, nil
	default:
		return "", ErrUnsupportedCommand
	}
}

func (s *Service) stock(ctx context.Context, cmd models.Command) (string, error) {
	entries, err := s.inventory.List(ctx, strings.Join(cmd.Args, " "))
	if err != nil {
		return "", err
	}
	if len(entries) == 0 {
		return "No matching items.", nil
	}

	var b strings.Builder
	for i, entry := range entries {
		if i == maxStockLines {
			fmt.Fprintf(&b, "... %d more, refine the search.", len(entries)-maxStockLines)
			break
		}
		item := entry.Item
		fmt.Fprintf(&b, "#%d %s", entry.Index+1, item.Label())
		if item.Color != "" {
			fmt.Fprintf(&b, " (%s)", item.Color)
		}
		fmt.Fprintf(&b, ": stock %d, target %s\n", item.Stock, item.PurchaseCurrency.Format(item.TargetPrice))
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func (s *Service) sale(ctx context.Context, cmd models.Command) (string, error) {
	if len(cmd.Args) < 3 {
		return "", fmt.Errorf("usage /sale <row> <price> <currency> [rate]: %w", ErrInvalidArguments)
	}

	index, err := parseRow(cmd.Args[0])
	if err != nil {
		return "", err
	}
	price, err := parseAmount(cmd.Args[1])
	if err != nil {
		return "", err
	}
	currency := models.ParseCurrency(cmd.Args[2])

	rate := decimal.NewFromInt(1)
	if len(cmd.Args) > 3 {
		if rate, err = parseAmount(cmd.Args[3]); err != nil {
			return "", err
		}
	} else if err := s.requireSameCurrency(ctx, index, currency); err != nil {
		return "", err
	}

	result, err := s.inventory.Sell(ctx, inventory.SaleRequest{Index: index, Price: price, Currency: currency, Rate: rate})
	if err != nil {
		return "", err
	}

	sale := result.Sale
	message := fmt.Sprintf("Sold %s for %s. Cost %s, margin %s. %d left.",
		sale.ItemLabel,
		sale.SellingCurrency.Format(sale.SellingPrice),
		sale.SellingCurrency.Format(sale.CostPriceNormalized),
		sale.SellingCurrency.Format(result.Margin),
		result.Inventory[index].Stock,
	)
	if result.BelowCost {
		message += "\nWarning: sold below cost."
	}
	return message, nil
}

// requireSameCurrency rejects a sale in a foreign currency without an explicit rate.
func (s *Service) requireSameCurrency(ctx context.Context, index int, currency models.Currency) error {
	entries, err := s.inventory.List(ctx, "")
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.Index == index && !entry.Item.PurchaseCurrency.Same(currency) {
			return fmt.Errorf("item was bought in %s, give the %s rate: %w", entry.Item.PurchaseCurrency.Code(), currency.Code(), ErrInvalidArguments)
		}
	}
	return nil
}

func (s *Service) restock(ctx context.Context, cmd models.Command) (string, error) {
	if len(cmd.Args) < 2 {
		return "", fmt.Errorf("usage /restock <row> <qty>: %w", ErrInvalidArguments)
	}
	index, err := parseRow(cmd.Args[0])
	if err != nil {
		return "", err
	}
	qty, err := strconv.Atoi(cmd.Args[1])
	if err != nil {
		return "", fmt.Errorf("quantity %q: %w", cmd.Args[1], ErrInvalidArguments)
	}

	entry, err := s.inventory.Restock(ctx, index, qty)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Restocked %s: %d in stock.", entry.Item.Label(), entry.Item.Stock), nil
}

func (s *Service) expense(ctx context.Context, cmd models.Command) (string, error) {
	if len(cmd.Args) < 3 {
		return "", fmt.Errorf("usage /expense <category> <amount> <currency> [notes]: %w", ErrInvalidArguments)
	}
	amount, err := parseAmount(cmd.Args[1])
	if err != nil {
		return "", err
	}

	record, err := s.bookkeeping.RecordExpense(ctx, bookkeeping.ExpenseInput{
		Category: cmd.Args[0],
		Amount:   amount,
		Currency: models.ParseCurrency(cmd.Args[2]),
		Notes:    strings.Join(cmd.Args[3:], " "),
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Expense logged: %s %s.", record.Category, record.Currency.Format(record.Amount)), nil
}

func (s *Service) order(ctx context.Context, cmd models.Command) (string, error) {
	if len(cmd.Args) < 4 {
		return "", fmt.Errorf("usage /order <qty> <price> <currency> <name>: %w", ErrInvalidArguments)
	}
	qty, err := strconv.Atoi(cmd.Args[0])
	if err != nil {
		return "", fmt.Errorf("quantity %q: %w", cmd.Args[0], ErrInvalidArguments)
	}
	price, err := parseAmount(cmd.Args[1])
	if err != nil {
		return "", err
	}

	order, err := s.bookkeeping.OpenOrder(ctx, bookkeeping.OrderInput{
		Name:     strings.Join(cmd.Args[3:], " "),
		Quantity: qty,
		Price:    price,
		Currency: models.ParseCurrency(cmd.Args[2]),
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Order %s opened: %d x %s at %s.", shortID(order.ID), order.Quantity, order.Name, order.Currency.Format(order.Price)), nil
}

func (s *Service) done(ctx context.Context, cmd models.Command) (string, error) {
	if len(cmd.Args) < 1 {
		return "", fmt.Errorf("usage /done <order-id> [price]: %w", ErrInvalidArguments)
	}

	var price *decimal.Decimal
	if len(cmd.Args) > 1 {
		p, err := parseAmount(cmd.Args[1])
		if err != nil {
			return "", err
		}
		price = &p
	}

	order, err := s.bookkeeping.CompleteOrder(ctx, cmd.Args[0], price)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Order %s (%s) completed at %s.", shortID(order.ID), order.Name, order.Currency.Format(order.Price)), nil
}

func (s *Service) report(ctx context.Context) (string, error) {
	byCurrency, err := s.reporting.Profitability(ctx)
	if err != nil {
		return "", err
	}
	volume, err := s.reporting.OrderVolume(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s\nOrders: %d in 7 days, %d in 30 days, %d in progress.",
		reporting.FormatProfitability(byCurrency), volume.Last7Days, volume.Last30Days, volume.InProgress), nil
}

// DescribeError turns a command failure into a reply for the operator.
func DescribeError(err error) string {
	switch {
	case errors.Is(err, ErrUnsupportedCommand):
		return "Unknown command.\n" + HelpText
	case errors.Is(err, ErrInvalidArguments):
		return "Could not read that: " + strings.TrimSuffix(err.Error(), ": "+ErrInvalidArguments.Error())
	case errors.Is(err, ledger.ErrOutOfStock), errors.Is(err, ledger.ErrInsufficientStock):
		return "Not enough stock: " + err.Error()
	case errors.Is(err, ledger.ErrItemNotFound):
		return "No item on that row. Use /stock to see row numbers."
	case errors.Is(err, ledger.ErrOrderNotFound), errors.Is(err, bookkeeping.ErrAmbiguousOrder):
		return "Order not found or id too short: " + err.Error()
	case errors.Is(err, ledger.ErrOrderClosed):
		return "That order is already completed."
	case errors.Is(err, ledger.ErrInvalidCategory):
		return "Unknown category. Use Rent, Electricity, Marketing, Salary, InventoryPurchase or Other."
	case errors.Is(err, ledger.ErrInvalidExchangeRate), errors.Is(err, ledger.ErrInvalidPrice),
		errors.Is(err, ledger.ErrInvalidQuantity), errors.Is(err, ledger.ErrMissingField),
		errors.Is(err, ledger.ErrDuplicateItem):
		return "Rejected: " + err.Error()
	default:
		return "Something went wrong, the ledger was not updated. Try again later."
	}
}

// parseRow converts a 1-based row number into an inventory index.
func parseRow(value string) (int, error) {
	row, err := strconv.Atoi(strings.TrimPrefix(value, "#"))
	if err != nil || row < 1 {
		return 0, fmt.Errorf("row %q: %w", value, ErrInvalidArguments)
	}
	return row - 1, nil
}

func parseAmount(value string) (decimal.Decimal, error) {
	amount, err := ledger.ParseAmount(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("amount %q: %w", value, ErrInvalidArguments)
	}
	return amount, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
