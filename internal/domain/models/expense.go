package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseCategory enumerates operating expense buckets.
type ExpenseCategory string

const (
	ExpenseRent              ExpenseCategory = "Rent"
	ExpenseElectricity       ExpenseCategory = "Electricity"
	ExpenseMarketing         ExpenseCategory = "Marketing"
	ExpenseSalary            ExpenseCategory = "Salary"
	ExpenseInventoryPurchase ExpenseCategory = "InventoryPurchase"
	ExpenseOther             ExpenseCategory = "Other"
)

// ExpenseCategories lists every category in display order.
func ExpenseCategories() []ExpenseCategory {
	return []ExpenseCategory{ExpenseRent, ExpenseElectricity, ExpenseMarketing, ExpenseSalary, ExpenseInventoryPurchase, ExpenseOther}
}

// ParseExpenseCategory matches case-insensitively and ignores spaces, dashes and
// underscores, so "inventory purchase" resolves to InventoryPurchase.
func ParseExpenseCategory(value string) (ExpenseCategory, bool) {
	key := compactKey(value)
	for _, category := range ExpenseCategories() {
		if compactKey(string(category)) == key {
			return category, true
		}
	}
	return "", false
}

// ExpenseRecord captures an operating expense.
type ExpenseRecord struct {
	Date     time.Time       `json:"date"`
	Category ExpenseCategory `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	Currency Currency        `json:"currency"`
	Notes    string          `json:"notes"`
}

func compactKey(value string) string {
	replacer := strings.NewReplacer(" ", "", "_", "", "-", "")
	return strings.ToLower(replacer.Replace(strings.TrimSpace(value)))
}
