package handlers

import (
	"net/http"

	"labstock/internal/catalog"
	applog "labstock/internal/log"
	"labstock/internal/views/pages"
)

const defaultCatalogLimit = 10

var loadCatalog = catalog.Default

// CatalogSearch suggests reference reagents matching ?q= for form pre-fill.
func CatalogSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if !ActiveSession(r) {
		writeJSONError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	c, err := loadCatalog()
	if err != nil {
		applog.Error(r.Context(), "failed to load reagent catalog", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "the reagent catalog is unavailable")
		return
	}

	entries := c.Search(r.URL.Query().Get("q"), pages.ParseLimit(r.URL.Query().Get("limit"), defaultCatalogLimit))
	if entries == nil {
		entries = []catalog.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}
