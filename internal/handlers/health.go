package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	applog "labstock/internal/log"
)

type healthResponse struct {
	Status    string    `json:"status"`
	Database  string    `json:"database"`
	Workspace string    `json:"workspace"`
	Time      time.Time `json:"time"`
}

// Health is a simple readiness handler suitable for infrastructure probes.
func Health(w http.ResponseWriter, r *http.Request) {
	applog.Debug(r.Context(), "health check requested", "method", r.Method)
	resp := healthResponse{
		Status:    "ok",
		Database:  databaseStatus(r.Context()),
		Workspace: "unconfigured",
		Time:      time.Now().UTC(),
	}
	if stock != nil {
		resp.Workspace = "ok"
	}

	status := http.StatusOK
	if resp.Database == "unreachable" {
		resp.Status = "degraded"
		status = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		applog.Error(r.Context(), "failed to encode health response", "error", err)
		return
	}
	applog.Debug(r.Context(), "health check responded", "status", resp.Status)
}

func databaseStatus(ctx context.Context) string {
	if database == nil {
		return "unconfigured"
	}
	sqlDB, err := database.DB()
	if err != nil {
		return "unreachable"
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		applog.Warn(ctx, "database ping failed", "error", err)
		return "unreachable"
	}
	return "ok"
}
