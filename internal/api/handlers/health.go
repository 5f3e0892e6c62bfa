package handlers

import (
	"context"
	"log"
	"net/http"
	"time"
)

type HealthHandler struct {
	// Optional dependency checks, e.g. a DB ping.
	Checks map[string]func(ctx context.Context) error
}

// Health reports liveness plus the state of each configured dependency.
// Any failing check turns the response into a 503.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	res := map[string]string{"status": "ok"}
	for name, check := range h.Checks {
		if err := check(ctx); err != nil {
			log.Printf("health check failed: check=%s err=%v", name, err)
			res[name] = "unavailable"
			res["status"] = "degraded"
			status = http.StatusServiceUnavailable
			continue
		}
		res[name] = "ok"
	}

	writeJSON(w, r, status, res)
}
