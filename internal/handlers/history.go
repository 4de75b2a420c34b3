package handlers

import (
	"net/http"
	"strings"

	applog "labstock/internal/log"
)

// HistoryResource exposes the undo/redo stacks:
//
//	GET  /app/api/history
//	POST /app/api/history/undo
//	POST /app/api/history/redo
func HistoryResource(w http.ResponseWriter, r *http.Request) {
	actor, ok := apiActor(w, r)
	if !ok {
		return
	}

	switch strings.Trim(strings.TrimPrefix(r.URL.Path, "/app/api/history"), "/") {
	case "":
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, http.StatusOK, stock.History())
	case "undo":
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if err := stock.Undo(r.Context(), actor); err != nil {
			writeError(w, r, err)
			return
		}
		announceInventoryChange(w)
		writeJSON(w, http.StatusOK, stock.History())
	case "redo":
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if err := stock.Redo(r.Context(), actor); err != nil {
			writeError(w, r, err)
			return
		}
		announceInventoryChange(w)
		writeJSON(w, http.StatusOK, stock.History())
	default:
		http.NotFound(w, r)
	}
}

type sweepResponse struct {
	Expired int `json:"expired"`
}

// Sweep re-runs the expiry sweep that also runs at startup.
func Sweep(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	actor, ok := apiActor(w, r)
	if !ok {
		return
	}
	if !actor.Role.CanEdit() {
		writeJSONError(w, http.StatusForbidden, "your role does not allow this action")
		return
	}

	changed, err := stock.SweepExpired(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	applog.Debug(r.Context(), "manual expiry sweep", "lots", changed, "user", actor.Name)
	if changed > 0 {
		announceInventoryChange(w)
	}
	writeJSON(w, http.StatusOK, sweepResponse{Expired: changed})
}
