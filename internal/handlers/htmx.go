package handlers

import (
	"net/http"
	"strings"
)

// inventoryChangedEvent is raised through HX-Trigger after every successful
// mutation so open dashboard fragments can refresh themselves.
const inventoryChangedEvent = "inventory-changed"

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true" || r.Header.Get("HX-Boosted") == "true"
}

// redirect navigates the whole page: HTMX requests get HX-Redirect instead of
// a Location the client would swap into a fragment.
func redirect(w http.ResponseWriter, r *http.Request, target string) {
	if isHTMX(r) {
		w.Header().Set("HX-Redirect", target)
		w.WriteHeader(http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func announceInventoryChange(w http.ResponseWriter) {
	w.Header().Set("HX-Trigger", inventoryChangedEvent)
}

// returnPath keeps post-login redirects inside the application.
func returnPath(target string) string {
	if target == "/app" || strings.HasPrefix(target, "/app/") && !strings.HasPrefix(target, "/app/api/") && !strings.Contains(target, "\\") {
		return target
	}
	return "/app"
}
