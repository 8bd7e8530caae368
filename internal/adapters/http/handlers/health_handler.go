package handlers

import (
	"maps"
	"net/http"
	"slices"

	"github.com/jsamuelsen11/go-gcp-functions/internal/function"
	"github.com/jsamuelsen11/go-gcp-functions/internal/platform/logging"
	"github.com/jsamuelsen11/go-gcp-functions/internal/ports"
)

// Probe statuses.
const (
	StatusOK       = "ok"
	StatusReady    = "ready"
	StatusNotReady = "not_ready"
	StatusFailing  = "failing"
)

// HealthReport is the body of both probe endpoints. Checks is omitted from
// liveness answers.
type HealthReport struct {
	Status string        `json:"status"`
	Checks []CheckResult `json:"checks,omitempty"`
}

// CheckResult is the outcome of one registered check.
type CheckResult struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	registry ports.HealthRegistry
}

// NewHealthHandler creates a HealthHandler backed by registry.
func NewHealthHandler(registry ports.HealthRegistry) *HealthHandler {
	return &HealthHandler{registry: registry}
}

// Liveness answers 200 while the process can serve HTTP at all.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	h.write(w, r, http.StatusOK, HealthReport{Status: StatusOK})
}

// Readiness answers 200 when every registered check passes and 503
// otherwise. Checks are listed by name.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	results := h.registry.CheckAll(r.Context())

	report := HealthReport{Status: StatusReady, Checks: make([]CheckResult, 0, len(results))}
	for _, name := range slices.Sorted(maps.Keys(results)) {
		check := CheckResult{Name: name, Status: StatusOK}
		if err := results[name]; err != nil {
			check.Status = StatusFailing
			check.Error = err.Error()
			report.Status = StatusNotReady
		}
		report.Checks = append(report.Checks, check)
	}

	status := http.StatusOK
	if report.Status == StatusNotReady {
		status = http.StatusServiceUnavailable
	}
	h.write(w, r, status, report)
}

func (h *HealthHandler) write(w http.ResponseWriter, r *http.Request, status int, report HealthReport) {
	resp, err := function.JSON(status, report)
	if err == nil {
		err = resp.Write(w)
	}
	if err != nil {
		logging.FromContext(r.Context()).ErrorContext(r.Context(), "writing health report", "error", err)
	}
}
