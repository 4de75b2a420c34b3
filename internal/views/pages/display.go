// Package pages renders the full HTML pages and their HTMX partials.
package pages

import (
	"strconv"
	"strings"
	"time"

	"labstock/internal/inventory"
)

// DefaultDash returns a dash when the provided value is empty or whitespace.
func DefaultDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}

// FormatQuantity prints a quantity without trailing zeros.
func FormatQuantity(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

var statusLabels = map[inventory.LotStatus]string{
	inventory.StatusReserved: "Unopened",
	inventory.StatusInUse:    "In use",
	inventory.StatusConsumed: "Consumed",
	inventory.StatusExpired:  "Expired",
	inventory.StatusDisposed: "Disposed",
}

// StatusLabel converts a lot status into display text.
func StatusLabel(status inventory.LotStatus) string {
	if label, ok := statusLabels[status]; ok {
		return label
	}
	return string(status)
}

var stateLabels = map[inventory.PhysicalState]string{
	inventory.StateSolid:  "Solid",
	inventory.StateLiquid: "Liquid",
	inventory.StateGas:    "Gas",
}

// StateLabel converts a physical state into display text.
func StateLabel(state inventory.PhysicalState) string {
	if label, ok := stateLabels[state]; ok {
		return label
	}
	return "-"
}

// formatAuditTime renders audit timestamps in the inventory time zone.
func formatAuditTime(ts time.Time, loc *time.Location) string {
	if ts.IsZero() {
		return "-"
	}
	if loc == nil {
		loc = time.Local
	}
	return ts.In(loc).Format("02 Jan 2006 15:04")
}

func formatAmount(amount *float64, unit string) string {
	if amount == nil {
		return "-"
	}
	return strings.TrimSpace(FormatQuantity(*amount) + " " + unit)
}
