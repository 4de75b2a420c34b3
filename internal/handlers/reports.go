package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"labstock/internal/export"
	applog "labstock/internal/log"
	"labstock/internal/views/layout"
	"labstock/internal/views/pages"
	"labstock/internal/workspace"
)

const (
	defaultAuditLimit = 100
	xlsxContentType   = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// AuditLog returns the newest audit entries as JSON. limit=0 is not accepted;
// omit the parameter for the default page size or pass all=1 for everything.
func AuditLog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if _, ok := apiActor(w, r); !ok {
		return
	}

	limit := pages.ParseLimit(r.URL.Query().Get("limit"), defaultAuditLimit)
	if r.URL.Query().Get("all") == "1" {
		limit = 0
	}
	writeJSON(w, http.StatusOK, stock.Audit(limit))
}

// Stats returns the dashboard counters.
func Stats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if _, ok := apiActor(w, r); !ok {
		return
	}
	writeJSON(w, http.StatusOK, stock.Stats())
}

// Procurement returns the purchase proposal for low-stock chemicals.
func Procurement(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if _, ok := apiActor(w, r); !ok {
		return
	}
	writeJSON(w, http.StatusOK, stock.Procurement())
}

// ExportInventory streams the inventory and audit log as an XLSX workbook.
func ExportInventory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if _, ok := apiActor(w, r); !ok {
		return
	}

	now := stock.Now()
	var buf bytes.Buffer
	if err := export.WriteInventory(&buf, stock.Snapshot(), stock.Audit(0), exportOptions(r)); err != nil {
		applog.Error(r.Context(), "failed to build inventory workbook", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to build the inventory report")
		return
	}
	writeAttachment(w, r, export.InventoryFileName(now.In(stock.Location())), buf.Bytes())
}

// ExportProcurement streams the purchase proposal as an XLSX workbook.
func ExportProcurement(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if _, ok := apiActor(w, r); !ok {
		return
	}

	now := stock.Now()
	var buf bytes.Buffer
	if err := export.WriteProcurement(&buf, stock.Procurement(), exportOptions(r)); err != nil {
		applog.Error(r.Context(), "failed to build procurement workbook", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to build the purchase proposal")
		return
	}
	writeAttachment(w, r, export.ProcurementFileName(now.In(stock.Location())), buf.Bytes())
}

func exportOptions(r *http.Request) export.Options {
	lang := export.LangVietnamese
	if strings.EqualFold(strings.TrimSpace(r.URL.Query().Get("lang")), export.LangEnglish) {
		lang = export.LangEnglish
	}
	return export.Options{
		Language:       lang,
		Now:            stock.Now(),
		Location:       stock.Location(),
		NearExpiryDays: stock.NearExpiryDays(),
	}
}

func writeAttachment(w http.ResponseWriter, r *http.Request, name string, body []byte) {
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		applog.Error(r.Context(), "failed to write export", "error", err, "file", name)
	}
}

// AuditPage renders the audit log view.
func AuditPage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	actor, ok := pageActor(w, r)
	if !ok {
		return
	}

	limit := pages.ParseLimit(r.URL.Query().Get("limit"), defaultAuditLimit*2)
	rows := pages.NewAuditRows(stock.Audit(limit), stock.Location())
	if isHTMX(r) {
		renderComponent(w, r, pages.AuditPartial(rows))
		return
	}
	renderComponent(w, r, pages.Audit(pageHeader(actor, "audit"), rows))
}

// pageActor resolves the caller of an HTML page, redirecting to the login
// screen when the session no longer maps to an account.
func pageActor(w http.ResponseWriter, r *http.Request) (workspace.Actor, bool) {
	if stock == nil {
		http.Error(w, "inventory is not available", http.StatusServiceUnavailable)
		return workspace.Actor{}, false
	}
	actor, ok := currentActor(r)
	if !ok {
		redirectToLogin(w, r)
		return workspace.Actor{}, false
	}
	return actor, true
}

func pageHeader(actor workspace.Actor, active string) layout.Header {
	return layout.Header{Active: active, UserName: actor.Name, Role: actor.Role}
}
