package rest

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"time"
)

type componentCheck struct {
	Status     string `json:"status"`
	Message    string `json:"message,omitempty"`
	DurationMs int64  `json:"duration_ms"`
}

type healthResponse struct {
	Status        string                    `json:"status"`
	UptimeSeconds int64                     `json:"uptime_seconds"`
	CheckedAt     time.Time                 `json:"checked_at"`
	Components    map[string]componentCheck `json:"components"`
}

type HealthHandler struct {
	db      *sql.DB
	started time.Time
}

func NewHealthHandler(db *sql.DB) *HealthHandler {
	return &HealthHandler{db: db, started: time.Now()}
}

// pingHandler just says the service is up
func (h *HealthHandler) pingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "OK"})
}

// healthCheckHandler pings the database and reports per-component status.
func (h *HealthHandler) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	start := time.Now()
	pingErr := h.db.PingContext(ctx)

	dbCheck := componentCheck{
		Status:     "healthy",
		DurationMs: time.Since(start).Milliseconds(),
	}
	statusCode := http.StatusOK
	if pingErr != nil {
		dbCheck.Status = "unhealthy"
		dbCheck.Message = pingErr.Error()
		statusCode = http.StatusServiceUnavailable
	}

	resp := healthResponse{
		Status:        dbCheck.Status,
		UptimeSeconds: int64(time.Since(h.started).Seconds()),
		CheckedAt:     time.Now(),
		Components:    map[string]componentCheck{"postgres": dbCheck},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(resp)
}
