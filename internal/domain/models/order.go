package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the two-state lifecycle of a service order.
type OrderStatus string

const (
	OrderInProgress OrderStatus = "InProgress"
	OrderCompleted  OrderStatus = "Completed"
)

// ParseOrderStatus resolves free-form status labels.
func ParseOrderStatus(value string) (OrderStatus, bool) {
	switch compactKey(value) {
	case "inprogress", "open", "pending":
		return OrderInProgress, true
	case "completed", "complete", "done":
		return OrderCompleted, true
	default:
		return "", false
	}
}

// ServiceOrder is a queued custom-work request. A zero Date means the recorded
// date could not be read.
type ServiceOrder struct {
	ID       string          `json:"id"`
	Date     time.Time       `json:"date"`
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Status   OrderStatus     `json:"status"`
	Price    decimal.Decimal `json:"price"`
	Currency Currency        `json:"currency"`
}

// IsCompleted reports whether the order reached its final state.
func (o ServiceOrder) IsCompleted() bool { return o.Status == OrderCompleted }
