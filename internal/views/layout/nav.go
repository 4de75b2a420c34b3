package layout

import (
	"sort"

	"labstock/models"
)

// NavLink is one entry in the application header.
type NavLink struct {
	ID    string
	Label string
	Path  string
	Order int
	// MinRole is the least privileged role that sees the link.
	MinRole models.Role
}

var navRegistry = map[string]NavLink{
	"dashboard": {
		ID:      "dashboard",
		Label:   "Inventory",
		Path:    "/app",
		Order:   1,
		MinRole: models.RoleViewer,
	},
	"audit": {
		ID:      "audit",
		Label:   "Audit log",
		Path:    "/app/audit",
		Order:   2,
		MinRole: models.RoleViewer,
	},
	"export": {
		ID:      "export",
		Label:   "Export XLSX",
		Path:    "/app/export/inventory.xlsx",
		Order:   3,
		MinRole: models.RoleViewer,
	},
	"procurement": {
		ID:      "procurement",
		Label:   "Purchase proposal",
		Path:    "/app/export/procurement.xlsx",
		Order:   4,
		MinRole: models.RoleViewer,
	},
	"backup": {
		ID:      "backup",
		Label:   "Backup",
		Path:    "/app/api/backup",
		Order:   5,
		MinRole: models.RoleStaff,
	},
}

// NavByID returns the link with the given id.
func NavByID(id string) (NavLink, bool) {
	link, ok := navRegistry[id]
	return link, ok
}

// NavLinksFor lists the links visible to role, in display order.
func NavLinksFor(role models.Role) []NavLink {
	links := make([]NavLink, 0, len(navRegistry))
	for _, link := range navRegistry {
		if roleRank(role) >= roleRank(link.MinRole) {
			links = append(links, link)
		}
	}
	sort.Slice(links, func(i, j int) bool {
		return links[i].Order < links[j].Order
	})
	return links
}

func roleRank(role models.Role) int {
	switch models.NormalizeRole(string(role)) {
	case models.RoleAdmin:
		return 3
	case models.RoleStaff:
		return 2
	default:
		return 1
	}
}
