package handler

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

// Pinger is any dependency the readiness probe can reach.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// PingFunc adapts a plain ping function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) PingContext(ctx context.Context) error { return f(ctx) }

type HealthHandler struct {
	dependencies map[string]Pinger
	logger       *zap.Logger
	startTime    time.Time
	version      string
}

// NewHealthHandler probes each named dependency on readiness checks.
func NewHealthHandler(dependencies map[string]Pinger, logger *zap.Logger) *HealthHandler {
	version := os.Getenv("APP_VERSION")
	if version == "" {
		version = "unknown"
	}
	return &HealthHandler{
		dependencies: dependencies,
		logger:       logger,
		startTime:    time.Now(),
		version:      version,
	}
}

type HealthResponse struct {
	Status    string           `json:"status"`
	Timestamp string           `json:"timestamp"`
	Uptime    string           `json:"uptime"`
	Version   string           `json:"version"`
	Checks    map[string]Check `json:"checks"`
}

type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Health only confirms the process is serving requests.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	h.write(w, http.StatusOK, HealthResponse{
		Status:    "UP",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Version:   h.version,
		Checks:    map[string]Check{"process": {Status: "UP"}},
	})
}

func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	h.Health(w, r)
}

// Ready reports DOWN with a 503 when any dependency fails its ping.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]Check, len(h.dependencies))
	status := "UP"
	httpStatus := http.StatusOK

	for name, dep := range h.dependencies {
		check := h.probe(r.Context(), name, dep)
		checks[name] = check
		if check.Status != "UP" {
			status = "DOWN"
			httpStatus = http.StatusServiceUnavailable
		}
	}

	h.write(w, httpStatus, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Version:   h.version,
		Checks:    checks,
	})
}

func (h *HealthHandler) probe(ctx context.Context, name string, dep Pinger) Check {
	if dep == nil {
		return Check{Status: "DOWN", Message: name + " is not initialized"}
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := dep.PingContext(ctx); err != nil {
		h.logger.Warn("readiness check failed", zap.String("dependency", name), zap.Error(err))
		return Check{Status: "DOWN", Message: "cannot connect to " + name}
	}
	return Check{Status: "UP"}
}

func (h *HealthHandler) write(w http.ResponseWriter, code int, body HealthResponse) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("failed to encode health response", zap.Error(err))
	}
}
