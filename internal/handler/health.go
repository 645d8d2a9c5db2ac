package handler

import (
	"log"
	"net/http"
	"runtime"
	"time"

	"armory-api/internal/config"
	"armory-api/internal/feed"
	"armory-api/pkg/response"
)

// StartTime tracks when the server started for uptime calculation
var StartTime = time.Now()

// HealthHandler contains the service-level health endpoints.
type HealthHandler struct {
	feedCfg config.FeedConfig
	version string
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(feedCfg config.FeedConfig, version string) *HealthHandler {
	return &HealthHandler{feedCfg: feedCfg, version: version}
}

// StatusChecks represents the checks in the status response.
type StatusChecks struct {
	MemoryMB float64 `json:"memory_mb"`
}

// StatusResponse represents the unified status response for uptime monitors.
type StatusResponse struct {
	Service       string       `json:"service"`
	Status        string       `json:"status"`
	Version       string       `json:"version"`
	Timestamp     string       `json:"timestamp"`
	UptimeSeconds int64        `json:"uptime_seconds"`
	Checks        StatusChecks `json:"checks"`
}

// Status handles GET /api/status - cheap liveness check, no I/O.
func (h *HealthHandler) Status(w http.ResponseWriter, r *http.Request) {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	memoryMB := float64(memStats.Alloc) / 1024 / 1024

	resp := StatusResponse{
		Service:       "armory-api",
		Status:        "ok",
		Version:       h.version,
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		UptimeSeconds: int64(time.Since(StartTime).Seconds()),
		Checks: StatusChecks{
			MemoryMB: float64(int(memoryMB*100)) / 100,
		},
	}

	w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate")
	response.OK(w, resp)
}

// FeedHealth handles GET /api/v1/feed/health. Probes the distributor's file
// server with a throwaway session; 503 when unreachable.
func (h *HealthHandler) FeedHealth(w http.ResponseWriter, r *http.Request) {
	client, err := feed.NewClient(h.feedCfg)
	if err != nil {
		response.JSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"healthy":           false,
			"latencyMs":         0,
			"diagnosticMessage": "feed credentials not configured",
		})
		return
	}

	health := client.HealthCheck(r.Context())
	log.Printf("[HealthHandler] Feed health check: healthy=%v latency=%dms", health.Healthy, health.LatencyMS)

	status := http.StatusOK
	if !health.Healthy {
		status = http.StatusServiceUnavailable
	}
	response.JSON(w, status, health)
}
