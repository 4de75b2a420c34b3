package handlers

import (
	"errors"
	"net/http"
	"strings"

	"labstock/internal/inventory"
	"labstock/internal/label"
	applog "labstock/internal/log"
	"labstock/internal/views/pages"
)

// LabelPage renders the printable 80x50 mm label of /app/labels/{chem}/{lot}.
func LabelPage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if _, ok := pageActor(w, r); !ok {
		return
	}

	segments := strings.Split(strings.Trim(strings.TrimPrefix(r.URL.Path, "/app/labels"), "/"), "/")
	if len(segments) != 2 || segments[0] == "" || segments[1] == "" {
		http.NotFound(w, r)
		return
	}

	chem, lot, err := stock.Lot(segments[0], segments[1])
	if err != nil {
		if errors.Is(err, inventory.ErrChemicalNotFound) || errors.Is(err, inventory.ErrLotNotFound) {
			applog.Debug(r.Context(), "label requested for unknown lot", "chemical", segments[0], "lot", segments[1])
			http.NotFound(w, r)
			return
		}
		applog.Error(r.Context(), "failed to load lot for label", "error", err)
		http.Error(w, "unable to load lot", http.StatusInternalServerError)
		return
	}

	renderComponent(w, r, pages.Label(label.Build(chem, lot, stock.Assess(chem, lot))))
}
