// Package components holds the small HTML fragments shared between pages.
package components

import (
	"strconv"

	"labstock/internal/inventory"
	"labstock/internal/views/theme"
)

func badgeText(a inventory.Assessment, tone theme.Tone) string {
	switch a.Urgency {
	case inventory.UrgencyExpired:
		return tone.Label
	case inventory.UrgencyNear, inventory.UrgencySafe:
		return strconv.Itoa(a.DaysRemaining) + " d"
	default:
		return tone.Label
	}
}
