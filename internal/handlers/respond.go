package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	templpkg "github.com/a-h/templ"

	"labstock/internal/ai"
	"labstock/internal/backup"
	"labstock/internal/inventory"
	applog "labstock/internal/log"
	"labstock/internal/workspace"
)

const maxJSONBody = 1 << 20

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		applog.Error(context.Background(), "failed to encode json response", "error", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// decodeJSON reads a JSON request body into dst. An empty body leaves dst
// untouched so that action endpoints can be called without a payload.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	if r.Body == nil {
		return nil
	}
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("%w: %v", inventory.ErrValidation, err)
	}
	return nil
}

// writeError maps domain errors onto HTTP status codes.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, inventory.ErrValidation),
		errors.Is(err, backup.ErrMalformed),
		errors.Is(err, backup.ErrMissingChemicals),
		errors.Is(err, backup.ErrChemicalsNotArray):
		writeJSONError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, workspace.ErrForbidden):
		writeJSONError(w, http.StatusForbidden, "your role does not allow this action")
	case errors.Is(err, inventory.ErrChemicalNotFound),
		errors.Is(err, inventory.ErrLotNotFound):
		writeJSONError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, inventory.ErrRejected),
		errors.Is(err, inventory.ErrDuplicate),
		errors.Is(err, workspace.ErrNothingToUndo),
		errors.Is(err, workspace.ErrNothingToRedo):
		writeJSONError(w, http.StatusConflict, err.Error())
	case errors.Is(err, ai.ErrQuotaExceeded):
		writeJSONError(w, http.StatusTooManyRequests, "the AI service quota is exhausted, try again later")
	case errors.Is(err, ai.ErrMalformedResponse):
		writeJSONError(w, http.StatusBadGateway, "the AI service returned an unusable answer")
	case errors.Is(err, workspace.ErrPersist):
		applog.Error(r.Context(), "inventory change could not be saved", "error", err, "path", r.URL.Path)
		writeJSONError(w, http.StatusInternalServerError, "the change could not be saved, nothing was modified")
	default:
		applog.Error(r.Context(), "request failed", "error", err, "path", r.URL.Path)
		writeJSONError(w, http.StatusInternalServerError, "unexpected server error")
	}
}

// apiActor resolves the caller of a JSON endpoint, answering 503 or 401 itself
// when the request cannot proceed.
func apiActor(w http.ResponseWriter, r *http.Request) (workspace.Actor, bool) {
	if stock == nil {
		applog.Debug(r.Context(), "inventory request without workspace")
		writeJSONError(w, http.StatusServiceUnavailable, "inventory is not available")
		return workspace.Actor{}, false
	}
	actor, ok := currentActor(r)
	if !ok {
		applog.Debug(r.Context(), "inventory request missing authenticated user")
		writeJSONError(w, http.StatusUnauthorized, "unauthorized")
		return workspace.Actor{}, false
	}
	return actor, true
}

func renderComponent(w http.ResponseWriter, r *http.Request, component templpkg.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := component.Render(r.Context(), w); err != nil {
		applog.Error(r.Context(), "failed to render component", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
