package inventory

import (
	"strings"
	"time"
)

// Query narrows the chemical list shown to users.
type Query struct {
	Text     string
	Category string
	// LowStockOnly keeps chemicals below their minimum threshold.
	LowStockOnly bool
}

// Filter returns the chemicals matching q by name, formula, CAS number, code
// or lot number substring, in their stored order. Low stock is judged at now.
func Filter(s State, q Query, now time.Time, loc *time.Location) []Chemical {
	text := strings.ToLower(strings.TrimSpace(q.Text))
	category := strings.TrimSpace(q.Category)

	out := make([]Chemical, 0, len(s.Chemicals))
	for _, chem := range s.Chemicals {
		if category != "" && !strings.EqualFold(chem.Category, category) {
			continue
		}
		if q.LowStockOnly && !IsLowStock(chem, now, loc) {
			continue
		}
		if text != "" && !matchesText(chem, text) {
			continue
		}
		out = append(out, chem)
	}
	return out
}

func matchesText(chem Chemical, text string) bool {
	for _, field := range []string{chem.Name, chem.Formula, chem.CASNumber, chem.Code} {
		if strings.Contains(strings.ToLower(field), text) {
			return true
		}
	}
	for _, lot := range chem.Lots {
		if strings.Contains(strings.ToLower(lot.LotNumber), text) ||
			strings.Contains(strings.ToLower(lot.MfgLotNumber), text) {
			return true
		}
	}
	return false
}
