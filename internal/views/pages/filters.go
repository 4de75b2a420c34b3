package pages

import (
	"net/http"
	"strconv"
	"strings"

	"labstock/internal/inventory"
)

// FiltersFromRequest extracts the inventory search inputs from an HTTP request.
func FiltersFromRequest(r *http.Request) inventory.Query {
	filters := inventory.Query{}
	if err := r.ParseForm(); err != nil {
		return filters
	}
	filters.Text = strings.TrimSpace(r.FormValue("q"))
	if category := strings.TrimSpace(r.FormValue("category")); category != "" {
		filters.Category = inventory.NormalizeCategory(category)
	}
	filters.LowStockOnly = parseFlag(r.FormValue("low"))
	return filters
}

// ParseLimit extracts a positive integer, returning def on failure.
func ParseLimit(value string, def int) int {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return def
	}
	parsed, err := strconv.Atoi(trimmed)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func parseFlag(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "on", "yes":
		return true
	default:
		return false
	}
}
