package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"sync"
	"time"
)

// Check reports whether a dependency is usable
type Check func(ctx context.Context) error

// Health serves the health and probe endpoints from a set of named checks
type Health struct {
	mu     sync.RWMutex
	checks map[string]Check
	ready  bool
	probe  time.Duration
}

// NewHealth creates a health reporter. It is not ready until SetReady is called.
func NewHealth() *Health {
	return &Health{checks: map[string]Check{}, probe: 2 * time.Second}
}

// Register adds a named dependency check
func (h *Health) Register(name string, check Check) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks[name] = check
}

// SetReady marks startup as finished or not
func (h *Health) SetReady(ready bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ready = ready
}

func (h *Health) run(ctx context.Context) (map[string]any, bool) {
	h.mu.RLock()
	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	checks := make(map[string]Check, len(h.checks))
	for k, v := range h.checks {
		checks[k] = v
	}
	h.mu.RUnlock()
	sort.Strings(names)

	ctx, cancel := context.WithTimeout(ctx, h.probe)
	defer cancel()

	healthy := true
	results := make(map[string]any, len(names))
	for _, name := range names {
		if err := checks[name](ctx); err != nil {
			healthy = false
			results[name] = map[string]any{"status": "unhealthy", "error": err.Error()}
			continue
		}
		results[name] = map[string]any{"status": "healthy"}
	}
	return results, healthy
}

// Handler reports every check
func (h *Health) Handler(w http.ResponseWriter, r *http.Request) {
	results, healthy := h.run(r.Context())
	status, code := "ok", http.StatusOK
	if !healthy {
		status, code = "degraded", http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]any{
		"status":    status,
		"timestamp": time.Now().Unix(),
		"checks":    results,
	})
}

// Liveness returns 200 while the process is running
func (h *Health) Liveness(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]any{
		"status":    "alive",
		"timestamp": time.Now().Unix(),
	})
}

// Readiness returns 200 once startup finished and every check passes
func (h *Health) Readiness(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	ready := h.ready
	h.mu.RUnlock()

	code := http.StatusOK
	body := map[string]any{"status": "ready", "timestamp": time.Now().Unix()}
	if !ready {
		code = http.StatusServiceUnavailable
		body["status"] = "starting"
	} else if results, healthy := h.run(r.Context()); !healthy {
		code = http.StatusServiceUnavailable
		body["status"] = "not_ready"
		body["checks"] = results
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(body)
}
