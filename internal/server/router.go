package server

import (
	"context"
	"net/http"

	"labstock/internal/handlers"
	applog "labstock/internal/log"
)

type route struct {
	pattern   string
	handler   http.HandlerFunc
	protected bool
}

var routes = []route{
	{"/healthz", handlers.Health, false},
	{"/login", handlers.Login, false},
	{"/signup", handlers.Signup, false},
	{"/logout", handlers.Logout, false},

	{"/app", handlers.Dashboard, true},
	{"/app/{$}", handlers.Dashboard, true},
	{"/app/audit", handlers.AuditPage, true},
	{"/app/labels/", handlers.LabelPage, true},

	{"/app/api/chemicals", handlers.ChemicalResource, true},
	{"/app/api/chemicals/", handlers.ChemicalResource, true},
	{"/app/api/history", handlers.HistoryResource, true},
	{"/app/api/history/", handlers.HistoryResource, true},
	{"/app/api/audit", handlers.AuditLog, true},
	{"/app/api/stats", handlers.Stats, true},
	{"/app/api/procurement", handlers.Procurement, true},
	{"/app/api/sweep", handlers.Sweep, true},
	{"/app/api/backup", handlers.Backup, true},
	{"/app/api/catalog", handlers.CatalogSearch, true},
	{"/app/api/ai/lookup", handlers.AILookup, true},
	{"/app/api/ai/safety", handlers.AISafety, true},
	{"/app/api/ai/sds", handlers.AISDS, true},
	{"/app/api/admin/users", handlers.AdminUsers, true},
	{"/app/api/admin/users/", handlers.AdminUsers, true},

	{"/app/export/inventory.xlsx", handlers.ExportInventory, true},
	{"/app/export/procurement.xlsx", handlers.ExportProcurement, true},

	{"/", handlers.Home, false},
}

func newRouter() http.Handler {
	mux := http.NewServeMux()
	applog.Debug(context.Background(), "registering http routes")
	for _, rt := range routes {
		var h http.Handler = rt.handler
		if rt.protected {
			h = handlers.RequireAuthentication(h)
		}
		mux.Handle(rt.pattern, h)
		applog.Debug(context.Background(), "route registered", "path", rt.pattern, "protected", rt.protected)
	}
	mux.Handle("/assets/", http.StripPrefix("/assets/", http.FileServer(http.Dir("web/static"))))
	applog.Debug(context.Background(), "route registered", "path", "/assets/", "static", true)
	return mux
}
