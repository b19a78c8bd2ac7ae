package httpx

import (
	"context"
	"net/http"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
)

const healthCheckTimeout = 2 * time.Second

// HealthCheck probes one dependency. A nil error means healthy.
type HealthCheck func(ctx context.Context) error

// HealthHandler answers readiness probes. With no checks it is a liveness probe.
type HealthHandler struct {
	Checks map[string]HealthCheck
}

type healthResponse struct {
	Status string   `json:"status"`
	Failed []string `json:"failed,omitempty"`
}

func (h HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	failed := h.run(r.Context())
	resp := healthResponse{Status: "ok"}
	code := http.StatusOK
	if len(failed) > 0 {
		resp = healthResponse{Status: "degraded", Failed: failed}
		code = http.StatusServiceUnavailable
	}

	if r.Method == http.MethodHead {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		return
	}
	WriteJSON(w, code, resp)
}

func (h HealthHandler) run(ctx context.Context) []string {
	if len(h.Checks) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	names := make([]string, 0, len(h.Checks))
	for name := range h.Checks {
		names = append(names, name)
	}
	sort.Strings(names)

	errs := make([]error, len(names))
	var g errgroup.Group
	for i, name := range names {
		check := h.Checks[name]
		g.Go(func() error {
			errs[i] = check(ctx)
			return nil
		})
	}
	_ = g.Wait()

	var failed []string
	for i, name := range names {
		if errs[i] != nil {
			failed = append(failed, name)
		}
	}
	return failed
}
