package pages

import (
	"time"

	"labstock/internal/inventory"
)

// AuditRow is one formatted audit entry.
type AuditRow struct {
	Time     string
	User     string
	Action   inventory.AuditAction
	Chemical string
	Lot      string
	Amount   string
	Details  string
}

// NewAuditRows formats entries for display in loc.
func NewAuditRows(entries []inventory.AuditEntry, loc *time.Location) []AuditRow {
	rows := make([]AuditRow, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, AuditRow{
			Time:     formatAuditTime(entry.Timestamp, loc),
			User:     DefaultDash(entry.UserName),
			Action:   entry.Action,
			Chemical: DefaultDash(entry.ChemicalName),
			Lot:      DefaultDash(entry.LotNumber),
			Amount:   formatAmount(entry.Amount, entry.Unit),
			Details:  entry.Details,
		})
	}
	return rows
}
