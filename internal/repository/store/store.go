package store

import (
	"context"
	"errors"
	"strings"
)

// ErrUnavailable wraps every failure of the underlying system of record. Callers
// surface it to the user; nothing retries.
var ErrUnavailable = errors.New("ledger store unavailable")

// TableName identifies one logical table of the ledger.
type TableName string

const (
	TableInventory     TableName = "Inventory"
	TableSales         TableName = "Sales"
	TableExpenses      TableName = "Expenses"
	TableServiceOrders TableName = "ServiceOrders"
)

// Tables lists every ledger table.
func Tables() []TableName {
	return []TableName{TableInventory, TableSales, TableExpenses, TableServiceOrders}
}

// LedgerStore reads and writes whole-table snapshots. There are no partial
// updates: WriteTable replaces the table contents.
type LedgerStore interface {
	ReadTable(ctx context.Context, name TableName) (Table, error)
	WriteTable(ctx context.Context, name TableName, table Table) error
}

// Table is an ordered snapshot with named columns.
type Table struct {
	Header []string
	Rows   [][]string
}

// NewTable splits raw cell values into a header row and data rows.
func NewTable(values [][]string) Table {
	if len(values) == 0 {
		return Table{}
	}
	return Table{Header: values[0], Rows: values[1:]}
}

// Values returns the header followed by the rows, ready for a backend write.
func (t Table) Values() [][]string {
	if len(t.Header) == 0 && len(t.Rows) == 0 {
		return nil
	}
	out := make([][]string, 0, len(t.Rows)+1)
	out = append(out, t.Header)
	return append(out, t.Rows...)
}

// Clone deep-copies the table.
func (t Table) Clone() Table {
	clone := Table{Header: append([]string(nil), t.Header...)}
	if t.Rows != nil {
		clone.Rows = make([][]string, len(t.Rows))
		for i, row := range t.Rows {
			clone.Rows[i] = append([]string(nil), row...)
		}
	}
	return clone
}

// column returns the index of the first header matching any of the names, or -1.
func (t Table) column(names ...string) int {
	for _, name := range names {
		key := headerKey(name)
		for i, header := range t.Header {
			if headerKey(header) == key {
				return i
			}
		}
	}
	return -1
}

func headerKey(name string) string {
	replacer := strings.NewReplacer(" ", "", "_", "", "-", "")
	return strings.ToLower(replacer.Replace(strings.TrimSpace(name)))
}

func cell(row []string, index int) string {
	if index < 0 || index >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[index])
}

func blankRow(row []string) bool {
	for _, value := range row {
		if strings.TrimSpace(value) != "" {
			return false
		}
	}
	return true
}
