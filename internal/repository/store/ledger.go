package store

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mamadbah2/shopledger/internal/domain/models"
)

// Ledger is the typed view over a LedgerStore used by the services.
type Ledger struct {
	store  LedgerStore
	logger *zap.Logger
}

// NewLedger wraps a raw table store.
func NewLedger(store LedgerStore, logger *zap.Logger) *Ledger {
	return &Ledger{store: store, logger: orNop(logger)}
}

// Inventory loads every inventory item in row order.
func (l *Ledger) Inventory(ctx context.Context) ([]models.InventoryItem, error) {
	table, err := l.read(ctx, TableInventory)
	if err != nil {
		return nil, err
	}
	return DecodeInventory(table, l.logger), nil
}

// SaveInventory replaces the inventory table.
func (l *Ledger) SaveInventory(ctx context.Context, items []models.InventoryItem) error {
	return l.write(ctx, TableInventory, EncodeInventory(items))
}

// Sales loads the sales journal.
func (l *Ledger) Sales(ctx context.Context) ([]models.SaleRecord, error) {
	table, err := l.read(ctx, TableSales)
	if err != nil {
		return nil, err
	}
	return DecodeSales(table, l.logger), nil
}

// SaveSales replaces the sales journal.
func (l *Ledger) SaveSales(ctx context.Context, sales []models.SaleRecord) error {
	return l.write(ctx, TableSales, EncodeSales(sales))
}

// Expenses loads the expense log.
func (l *Ledger) Expenses(ctx context.Context) ([]models.ExpenseRecord, error) {
	table, err := l.read(ctx, TableExpenses)
	if err != nil {
		return nil, err
	}
	return DecodeExpenses(table, l.logger), nil
}

// SaveExpenses replaces the expense log.
func (l *Ledger) SaveExpenses(ctx context.Context, expenses []models.ExpenseRecord) error {
	return l.write(ctx, TableExpenses, EncodeExpenses(expenses))
}

// ServiceOrders loads the order book.
func (l *Ledger) ServiceOrders(ctx context.Context) ([]models.ServiceOrder, error) {
	table, err := l.read(ctx, TableServiceOrders)
	if err != nil {
		return nil, err
	}
	return DecodeServiceOrders(table, l.logger), nil
}

// SaveServiceOrders replaces the order book.
func (l *Ledger) SaveServiceOrders(ctx context.Context, orders []models.ServiceOrder) error {
	return l.write(ctx, TableServiceOrders, EncodeServiceOrders(orders))
}

// Migrate rewrites every table in the canonical layout. Legacy columns are
// renamed, defaults are filled in and missing order ids are assigned.
func (l *Ledger) Migrate(ctx context.Context) error {
	inventory, err := l.Inventory(ctx)
	if err != nil {
		return err
	}
	sales, err := l.Sales(ctx)
	if err != nil {
		return err
	}
	expenses, err := l.Expenses(ctx)
	if err != nil {
		return err
	}
	orders, err := l.ServiceOrders(ctx)
	if err != nil {
		return err
	}

	if err := l.SaveInventory(ctx, inventory); err != nil {
		return err
	}
	if err := l.SaveSales(ctx, sales); err != nil {
		return err
	}
	if err := l.SaveExpenses(ctx, expenses); err != nil {
		return err
	}
	if err := l.SaveServiceOrders(ctx, orders); err != nil {
		return err
	}

	l.logger.Info("ledger migrated",
		zap.Int("inventory", len(inventory)),
		zap.Int("sales", len(sales)),
		zap.Int("expenses", len(expenses)),
		zap.Int("service_orders", len(orders)),
	)
	return nil
}

func (l *Ledger) read(ctx context.Context, name TableName) (Table, error) {
	table, err := l.store.ReadTable(ctx, name)
	if err != nil {
		return Table{}, fmt.Errorf("read %s: %w", name, err)
	}
	return table, nil
}

func (l *Ledger) write(ctx context.Context, name TableName, table Table) error {
	if err := l.store.WriteTable(ctx, name, table); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}
