// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/olegiv/portal-go/internal/session"
)

// Pinger is implemented by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	db        Pinger
	sessions  session.Store
	version   string
	startTime time.Time
}

// NewHealthHandler creates a new health handler. db may be nil when the
// portal runs without a database.
func NewHealthHandler(db Pinger, sessions session.Store, version string) *HealthHandler {
	return &HealthHandler{
		db:        db,
		sessions:  sessions,
		version:   version,
		startTime: time.Now(),
	}
}

// HealthStatusPublic is the minimal health response for anonymous callers.
type HealthStatusPublic struct {
	Status string `json:"status"`
}

// HealthStatus is the detailed response for signed-in callers.
type HealthStatus struct {
	Status    string           `json:"status"`
	Timestamp time.Time        `json:"timestamp"`
	Uptime    string           `json:"uptime"`
	Version   string           `json:"version"`
	Checks    map[string]Check `json:"checks"`
	System    *SystemInfo      `json:"system,omitempty"`
}

// Check represents a single health check result.
type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// SystemInfo contains runtime information.
type SystemInfo struct {
	GoVersion    string `json:"go_version"`
	NumGoroutine int    `json:"num_goroutines"`
	NumCPU       int    `json:"num_cpus"`
}

// Health handles GET /health.
// Returns minimal status for anonymous callers, full details for signed-in ones.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	dbCheck := h.checkDatabase(r.Context())

	overallStatus := "healthy"
	statusCode := http.StatusOK
	if dbCheck.Status != "healthy" {
		overallStatus = "degraded"
		statusCode = http.StatusServiceUnavailable
	}

	if !h.isAuthenticated(r) {
		writeJSON(w, statusCode, HealthStatusPublic{Status: overallStatus})
		return
	}

	status := HealthStatus{
		Status:    overallStatus,
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Version:   h.version,
		Checks:    map[string]Check{"database": dbCheck},
	}
	if r.URL.Query().Get("verbose") == "true" {
		status.System = &SystemInfo{
			GoVersion:    runtime.Version(),
			NumGoroutine: runtime.NumGoroutine(),
			NumCPU:       runtime.NumCPU(),
		}
	}

	writeJSON(w, statusCode, status)
}

// isAuthenticated reports whether the caller has a logged-in session.
// Returns false (without panicking) if session data is not loaded into context.
func (h *HealthHandler) isAuthenticated(r *http.Request) (authenticated bool) {
	if h.sessions == nil {
		return false
	}
	defer func() {
		if rec := recover(); rec != nil {
			authenticated = false
		}
	}()
	return session.LoggedIn(r.Context(), h.sessions)
}

// checkDatabase verifies database connectivity.
func (h *HealthHandler) checkDatabase(ctx context.Context) Check {
	if h.db == nil {
		return Check{Status: "healthy", Message: "no database configured"}
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	start := time.Now()
	err := h.db.PingContext(ctx)
	latency := time.Since(start)

	if err != nil {
		return Check{
			Status:  "unhealthy",
			Message: "database ping failed",
			Latency: latency.String(),
		}
	}
	return Check{Status: "healthy", Latency: latency.String()}
}
