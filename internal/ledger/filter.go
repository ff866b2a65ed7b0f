package ledger

import (
	"strings"

	"github.com/mamadbah2/shopledger/internal/domain/models"
)

const dateLayout = "2006-01-02"

// MatchItems returns the indices of items whose text fields contain query,
// case-insensitively. A blank query matches every item.
func MatchItems(items []models.InventoryItem, query string) []int {
	needle := strings.ToLower(strings.TrimSpace(query))

	indices := make([]int, 0, len(items))
	for i, item := range items {
		if needle == "" || itemMatches(item, needle) {
			indices = append(indices, i)
		}
	}
	return indices
}

// FilterItems returns the matching items in their original order. A blank query
// returns items unchanged.
func FilterItems(items []models.InventoryItem, query string) []models.InventoryItem {
	if strings.TrimSpace(query) == "" {
		return items
	}

	indices := MatchItems(items, query)
	out := make([]models.InventoryItem, 0, len(indices))
	for _, i := range indices {
		out = append(out, items[i])
	}
	return out
}

func itemMatches(item models.InventoryItem, needle string) bool {
	fields := []string{item.Brand, item.Model, item.Color, item.Supplier, item.Details}
	if !item.DateAdded.IsZero() {
		fields = append(fields, item.DateAdded.Format(dateLayout))
	}
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}
