// Package layout renders the document shell shared by every page.
package layout

import (
	"github.com/a-h/templ"

	"labstock/internal/views/theme"
	"labstock/models"
)

// Header describes the signed-in user and the active navigation entry.
type Header struct {
	Active   string
	UserName string
	Role     models.Role
}

func stylesheet() templ.Component {
	return templ.Raw("<style>" + theme.Stylesheet + "</style>")
}

func linkState(id, active string) string {
	if id == active {
		return "active"
	}
	return "inactive"
}

func mainClass(withNav bool) string {
	if withNav {
		return "workspace"
	}
	return "standalone"
}
