package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// HealthCheckResponse represents health check status
type HealthCheckResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Store     string    `json:"store"`
	Version   string    `json:"version"`
	Uptime    string    `json:"uptime,omitempty"`
}

var startTime = time.Now()

// HealthCheck handles health check requests
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := HealthCheckResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Store:     appStore.Mode(),
		Version:   "1.0.0",
		Uptime:    time.Since(startTime).String(),
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	if err := appStore.Ping(ctx); err != nil {
		response.Status = "unhealthy"
	}

	w.Header().Set("Content-Type", "application/json")
	if response.Status == "unhealthy" {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	json.NewEncoder(w).Encode(response)
}
