package handlers

import (
	"net/http"

	templpkg "github.com/a-h/templ"

	"labstock/internal/views/pages"
)

// Dashboard renders the inventory workspace once a user is authenticated.
func Dashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	actor, ok := pageActor(w, r)
	if !ok {
		return
	}

	query := pages.FiltersFromRequest(r)
	data := pages.NewDashboardData(pageHeader(actor, "dashboard"), stock.Chemicals(query), stock.Stats(), stock.Assess)
	data.Query = query
	data.NearDays = stock.NearExpiryDays()
	depth := stock.History()
	data.History = pages.HistoryDepth{Undo: depth.Undo, Redo: depth.Redo}
	data.AIEnabled = openAIClient != nil && actor.Role.CanEdit()

	var component templpkg.Component
	if isHTMX(r) {
		component = pages.DashboardPartial(data)
	} else {
		component = pages.Dashboard(data)
	}
	renderComponent(w, r, component)
}
