package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"labstock/internal/backup"
	applog "labstock/internal/log"
)

type importResponse struct {
	Chemicals int `json:"chemicals"`
	AuditLogs int `json:"auditLogs"`
}

// Backup downloads the full inventory as JSON (GET) or replaces it with an
// uploaded document (POST, administrators only). A rejected import leaves the
// inventory untouched.
func Backup(w http.ResponseWriter, r *http.Request) {
	actor, ok := apiActor(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		if !actor.Role.CanEdit() {
			writeJSONError(w, http.StatusForbidden, "your role does not allow this action")
			return
		}
		now := stock.Now()
		var buf bytes.Buffer
		if err := backup.Encode(&buf, backup.New(stock.Snapshot(), stock.Audit(0), now)); err != nil {
			applog.Error(r.Context(), "failed to encode backup", "error", err)
			writeJSONError(w, http.StatusInternalServerError, "unable to build the backup")
			return
		}
		name := fmt.Sprintf("labstock_backup_%s.json", now.In(stock.Location()).Format("2006-01-02"))
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
		w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
		w.WriteHeader(http.StatusOK)
		if _, err := buf.WriteTo(w); err != nil {
			applog.Error(r.Context(), "failed to write backup", "error", err)
		}
	case http.MethodPost:
		if !actor.Role.CanAdminister() {
			writeJSONError(w, http.StatusForbidden, "only administrators can import a backup")
			return
		}
		doc, err := backup.Decode(http.MaxBytesReader(w, r.Body, backup.MaxSize+1))
		if err != nil {
			applog.Debug(r.Context(), "rejected backup import", "error", err)
			writeJSONError(w, http.StatusBadRequest, "invalid backup file: "+err.Error())
			return
		}
		if err := stock.Replace(r.Context(), actor, doc.State(), doc.AuditLogs); err != nil {
			writeError(w, r, err)
			return
		}
		announceInventoryChange(w)
		writeJSON(w, http.StatusOK, importResponse{Chemicals: len(doc.Chemicals), AuditLogs: len(doc.AuditLogs)})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}
