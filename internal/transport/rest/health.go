package rest

import (
	"context"
	"io"
	"net/http"
	"time"
)

// dbPinger defines the minimal interface for DB health checks.
type dbPinger interface {
	Ping(ctx context.Context) error
}

// corpusOpener is satisfied by every corpus source.
type corpusOpener interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}

// HealthHandler serves health check endpoints.
type HealthHandler struct {
	db      dbPinger
	corpus  corpusOpener
	version string
}

// NewHealthHandler creates a HealthHandler. corpus may be nil, in which case
// /health reports the database only.
func NewHealthHandler(db dbPinger, corpus corpusOpener, version string) *HealthHandler {
	return &HealthHandler{db: db, corpus: corpus, version: version}
}

// HealthResponse is the JSON response for /health and /ready.
type HealthResponse struct {
	Status     string                `json:"status"`
	Version    string                `json:"version,omitempty"`
	Components map[string]CompStatus `json:"components,omitempty"`
	Timestamp  time.Time             `json:"timestamp"`
}

// CompStatus is the status of an individual component.
type CompStatus struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
}

// Live is the liveness probe. Always returns 200.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
	})
}

// Ready is the readiness probe. Pings DB: 200 if OK, 503 if not.
// The corpus is not consulted: example search degrades on its own.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, HealthResponse{
			Status:    "down",
			Timestamp: time.Now(),
		})
		return
	}

	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
	})
}

// Health is the full health check with per-component latency and version.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	components := make(map[string]CompStatus)
	overallStatus := "ok"

	components["database"] = probe(func() error { return h.db.Ping(ctx) })
	if components["database"].Status != "ok" {
		overallStatus = "down"
	}

	if h.corpus != nil {
		components["corpus"] = probe(func() error {
			rc, err := h.corpus.Open(ctx)
			if err != nil {
				return err
			}
			return rc.Close()
		})
		if components["corpus"].Status != "ok" && overallStatus == "ok" {
			overallStatus = "degraded"
		}
	}

	status := http.StatusOK
	if overallStatus == "down" {
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, HealthResponse{
		Status:     overallStatus,
		Version:    h.version,
		Components: components,
		Timestamp:  time.Now(),
	})
}

func probe(check func() error) CompStatus {
	start := time.Now()
	if err := check(); err != nil {
		return CompStatus{Status: "down"}
	}
	return CompStatus{Status: "ok", Latency: time.Since(start).String()}
}
