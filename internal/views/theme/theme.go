// Package theme resolves the badge and row styling used to flag lot urgency.
package theme

import (
	"strings"

	"labstock/internal/inventory"
)

// Option represents a legend entry exposed to the UI.
type Option struct {
	Value string
	Label string
}

// Tone contains resolved styling primitives for one urgency level.
type Tone struct {
	Key        string
	Label      string
	BadgeClass string
	RowClass   string
	TextClass  string
}

const (
	// DefaultKey is used when the urgency cannot be computed.
	DefaultKey = string(inventory.UrgencyUnknown)
)

var catalogue = map[string]Tone{
	string(inventory.UrgencyExpired): {
		Key:        string(inventory.UrgencyExpired),
		Label:      "Expired",
		BadgeClass: "badge badge-expired",
		RowClass:   "row-expired",
		TextClass:  "text-danger",
	},
	string(inventory.UrgencyNear): {
		Key:        string(inventory.UrgencyNear),
		Label:      "Expiring soon",
		BadgeClass: "badge badge-near",
		RowClass:   "row-near",
		TextClass:  "text-warning",
	},
	string(inventory.UrgencySafe): {
		Key:        string(inventory.UrgencySafe),
		Label:      "In date",
		BadgeClass: "badge badge-safe",
		RowClass:   "row-safe",
		TextClass:  "text-ok",
	},
	string(inventory.UrgencyUnknown): {
		Key:        string(inventory.UrgencyUnknown),
		Label:      "No expiry",
		BadgeClass: "badge badge-unknown",
		RowClass:   "row-unknown",
		TextClass:  "text-muted",
	},
}

var options = []Option{
	{Value: string(inventory.UrgencyExpired), Label: "Expired"},
	{Value: string(inventory.UrgencyNear), Label: "Expiring soon"},
	{Value: string(inventory.UrgencySafe), Label: "In date"},
}

// Resolve returns the registered tone for the provided urgency key.
func Resolve(key string) Tone {
	normalized := strings.ToLower(strings.TrimSpace(key))
	if value, ok := catalogue[normalized]; ok {
		return value
	}
	return catalogue[DefaultKey]
}

// ForUrgency is Resolve for a typed urgency.
func ForUrgency(u inventory.Urgency) Tone {
	return Resolve(string(u))
}

// Options exposes the legend shown above the inventory table.
func Options() []Option {
	return options
}

// Stylesheet is the inline CSS shared by every page.
const Stylesheet = `
body{font-family:system-ui,sans-serif;margin:0;background:#f5f7fa;color:#1f2933}
header.shell{display:flex;gap:1rem;align-items:center;padding:.75rem 1.5rem;background:#12355b;color:#fff}
header.shell a{color:#fff;text-decoration:none}
header.shell a[data-state=active]{font-weight:700;text-decoration:underline}
main{padding:1.5rem}
table{border-collapse:collapse;width:100%;background:#fff}
th,td{border:1px solid #d9e2ec;padding:.35rem .5rem;font-size:.875rem;text-align:left}
.cards{display:flex;gap:1rem;margin-bottom:1rem}
.card{background:#fff;border:1px solid #d9e2ec;border-radius:6px;padding:.75rem 1rem;min-width:9rem}
.card .value{font-size:1.5rem;font-weight:700}
.badge{display:inline-block;border-radius:4px;padding:0 .4rem;font-size:.75rem}
.badge-expired{background:#fde2e1;color:#9b1c1c}
.badge-near{background:#fff3c4;color:#8d5b00}
.badge-safe{background:#dcf5e7;color:#1b5e3b}
.badge-unknown{background:#e4e7eb;color:#52606d}
.row-expired{background:#fff5f5}
.row-near{background:#fffbea}
.text-danger{color:#9b1c1c}.text-warning{color:#8d5b00}.text-ok{color:#1b5e3b}.text-muted{color:#7b8794}
.message{padding:.5rem .75rem;border-radius:4px;background:#fde2e1;margin-bottom:1rem}
form.auth{max-width:22rem;margin:4rem auto;background:#fff;padding:1.5rem;border-radius:8px;border:1px solid #d9e2ec;display:flex;flex-direction:column;gap:.6rem}
`
