package bookkeeping

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/shopledger/internal/domain/models"
	"github.com/mamadbah2/shopledger/internal/ledger"
)

// ErrAmbiguousOrder is returned when an id prefix matches more than one order.
var ErrAmbiguousOrder = errors.New("order id prefix is ambiguous")

// Repository is the slice of the ledger holding expenses and service orders.
type Repository interface {
	Expenses(ctx context.Context) ([]models.ExpenseRecord, error)
	SaveExpenses(ctx context.Context, expenses []models.ExpenseRecord) error
	ServiceOrders(ctx context.Context) ([]models.ServiceOrder, error)
	SaveServiceOrders(ctx context.Context, orders []models.ServiceOrder) error
}

// ExpenseInput is an expense as entered by an operator. A zero Date means today.
type ExpenseInput struct {
	Date     time.Time
	Category string
	Amount   decimal.Decimal
	Currency models.Currency
	Notes    string
}

// OrderInput is a new service order as entered by an operator.
type OrderInput struct {
	Name     string
	Quantity int
	Price    decimal.Decimal
	Currency models.Currency
}

// Service appends expenses and manages the service-order queue.
type Service struct {
	repo   Repository
	logger *zap.Logger
	now    func() time.Time
	newID  func() string
}

// NewService wires a bookkeeping service.
func NewService(repository Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:   repository,
		logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// RecordExpense validates and appends an expense.
func (s *Service) RecordExpense(ctx context.Context, in ExpenseInput) (models.ExpenseRecord, error) {
	date := in.Date
	if date.IsZero() {
		date = s.now()
	}

	record, err := ledger.NewExpense(date, in.Category, in.Amount, in.Currency, in.Notes)
	if err != nil {
		return models.ExpenseRecord{}, err
	}

	expenses, err := s.repo.Expenses(ctx)
	if err != nil {
		return models.ExpenseRecord{}, fmt.Errorf("load expenses: %w", err)
	}
	if err := s.repo.SaveExpenses(ctx, append(expenses, record)); err != nil {
		return models.ExpenseRecord{}, fmt.Errorf("save expenses: %w", err)
	}

	s.logger.Info("expense recorded",
		zap.String("category", string(record.Category)),
		zap.String("amount", record.Amount.String()),
		zap.String("currency", string(record.Currency)),
	)
	return record, nil
}

// Expenses returns the expense log in recorded order.
func (s *Service) Expenses(ctx context.Context) ([]models.ExpenseRecord, error) {
	expenses, err := s.repo.Expenses(ctx)
	if err != nil {
		return nil, fmt.Errorf("load expenses: %w", err)
	}
	return expenses, nil
}

// OpenOrder queues a new in-progress order under a fresh id.
func (s *Service) OpenOrder(ctx context.Context, in OrderInput) (models.ServiceOrder, error) {
	order, err := ledger.NewServiceOrder(s.newID(), s.now(), in.Name, in.Quantity, in.Price, in.Currency)
	if err != nil {
		return models.ServiceOrder{}, err
	}

	orders, err := s.repo.ServiceOrders(ctx)
	if err != nil {
		return models.ServiceOrder{}, fmt.Errorf("load service orders: %w", err)
	}
	if err := s.repo.SaveServiceOrders(ctx, append(orders, order)); err != nil {
		return models.ServiceOrder{}, fmt.Errorf("save service orders: %w", err)
	}

	s.logger.Info("service order opened", zap.String("id", order.ID), zap.String("name", order.Name))
	return order, nil
}

// Orders lists service orders, optionally restricted to one status.
func (s *Service) Orders(ctx context.Context, status models.OrderStatus) ([]models.ServiceOrder, error) {
	orders, err := s.repo.ServiceOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("load service orders: %w", err)
	}
	if status == "" {
		return orders, nil
	}

	filtered := make([]models.ServiceOrder, 0, len(orders))
	for _, order := range orders {
		if order.Status == status {
			filtered = append(filtered, order)
		}
	}
	return filtered, nil
}

// UpdateOrder changes the price and/or status of an open order. id may be a
// unique prefix of the full id.
func (s *Service) UpdateOrder(ctx context.Context, id string, update ledger.OrderUpdate) (models.ServiceOrder, error) {
	orders, err := s.repo.ServiceOrders(ctx)
	if err != nil {
		return models.ServiceOrder{}, fmt.Errorf("load service orders: %w", err)
	}

	fullID, err := resolveID(orders, id)
	if err != nil {
		return models.ServiceOrder{}, err
	}

	updated, err := ledger.UpdateServiceOrder(orders, fullID, update)
	if err != nil {
		return models.ServiceOrder{}, err
	}
	if err := s.repo.SaveServiceOrders(ctx, updated); err != nil {
		return models.ServiceOrder{}, fmt.Errorf("save service orders: %w", err)
	}

	for _, order := range updated {
		if order.ID == fullID {
			s.logger.Info("service order updated", zap.String("id", order.ID), zap.String("status", string(order.Status)))
			return order, nil
		}
	}
	return models.ServiceOrder{}, fmt.Errorf("order %s: %w", fullID, ledger.ErrOrderNotFound)
}

// CompleteOrder closes an open order, optionally fixing its final price.
func (s *Service) CompleteOrder(ctx context.Context, id string, price *decimal.Decimal) (models.ServiceOrder, error) {
	status := models.OrderCompleted
	return s.UpdateOrder(ctx, id, ledger.OrderUpdate{Price: price, Status: &status})
}

func resolveID(orders []models.ServiceOrder, id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", fmt.Errorf("order id: %w", ledger.ErrMissingField)
	}

	var match string
	for _, order := range orders {
		if order.ID == id {
			return id, nil
		}
		if strings.HasPrefix(order.ID, id) {
			if match != "" {
				return "", fmt.Errorf("%q: %w", id, ErrAmbiguousOrder)
			}
			match = order.ID
		}
	}
	if match == "" {
		return "", fmt.Errorf("order %s: %w", id, ledger.ErrOrderNotFound)
	}
	return match, nil
}
