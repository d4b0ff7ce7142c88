package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

// probeTimeout bounds each dependency check so a hung dependency cannot
// stall the readiness endpoint.
const probeTimeout = 5 * time.Second

// HealthHandler reports liveness and readiness. Readiness covers the two
// dependencies the service cannot operate without: Postgres, which holds the
// attendance records, and Redis, which backs the day-seal registry.
type HealthHandler struct {
	db        *sql.DB
	seals     *redis.Client
	startTime time.Time
	version   string
}

func NewHealthHandler(db *sql.DB, seals *redis.Client) *HealthHandler {
	version := os.Getenv("APP_VERSION")
	if version == "" {
		version = "unknown"
	}
	return &HealthHandler{
		db:        db,
		seals:     seals,
		startTime: time.Now(),
		version:   version,
	}
}

type HealthResponse struct {
	Status    string           `json:"status"`
	Service   string           `json:"service"`
	Timestamp string           `json:"timestamp"`
	Uptime    string           `json:"uptime"`
	Version   string           `json:"version"`
	Checks    map[string]Check `json:"checks"`
}

type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Health is the liveness probe, it only confirms the process is serving.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	h.respond(w, http.StatusOK, "UP", map[string]Check{
		"process": {Status: "UP"},
	})
}

// Live is an alias for Health kept for probe configurations that expect a
// separate liveness path.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	h.Health(w, r)
}

// Ready reports whether the service can take traffic. A service that cannot
// reach its records or its seal registry must not receive requests, every
// transition consults both.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	checks := map[string]Check{
		"database":      h.checkDatabase(r.Context()),
		"seal_registry": h.checkSealRegistry(r.Context()),
	}

	status := "UP"
	httpStatus := http.StatusOK
	for _, c := range checks {
		if c.Status != "UP" {
			status = "DOWN"
			httpStatus = http.StatusServiceUnavailable
		}
	}

	h.respond(w, httpStatus, status, checks)
}

func (h *HealthHandler) respond(w http.ResponseWriter, httpStatus int, status string, checks map[string]Check) {
	response := HealthResponse{
		Status:    status,
		Service:   "attendance-service",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Version:   h.version,
		Checks:    checks,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("health: failed to encode response: %v", err)
	}
}

func (h *HealthHandler) checkDatabase(ctx context.Context) Check {
	if h.db == nil {
		return Check{Status: "DOWN", Message: "attendance store is not initialized"}
	}

	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		return Check{Status: "DOWN", Message: "cannot reach the attendance store"}
	}
	return Check{Status: "UP"}
}

func (h *HealthHandler) checkSealRegistry(ctx context.Context) Check {
	if h.seals == nil {
		return Check{Status: "DOWN", Message: "seal registry is not initialized"}
	}

	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	if err := h.seals.Ping(ctx).Err(); err != nil {
		return Check{Status: "DOWN", Message: "cannot reach the seal registry"}
	}
	return Check{Status: "UP"}
}
