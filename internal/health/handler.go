package health

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/HaroldK3/Student-Tracker/common/httputil"
	"github.com/HaroldK3/Student-Tracker/common/metrics"

	"github.com/go-chi/chi/v5"
)

// Checker probes one dependency.
type Checker interface {
	Ping(ctx context.Context) error
}

type CheckerFunc func(ctx context.Context) error

func (f CheckerFunc) Ping(ctx context.Context) error { return f(ctx) }

type Handler struct {
	checkers map[string]Checker
	metrics  *metrics.HealthMetrics
	logger   *slog.Logger
	timeout  time.Duration
}

func NewHandler(checkers map[string]Checker, m *metrics.HealthMetrics, logger *slog.Logger) *Handler {
	return &Handler{
		checkers: checkers,
		metrics:  m,
		logger:   logger,
		timeout:  2 * time.Second,
	}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/health", h.Health)
	router.Get("/ready", h.Ready)
}

type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	httputil.RespondWithJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// Ready reports 503 while any dependency fails its ping.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	resp := HealthResponse{Status: "ready", Checks: make(map[string]string, len(h.checkers))}
	code := http.StatusOK

	for name, checker := range h.checkers {
		start := time.Now()
		err := checker.Ping(ctx)
		h.metrics.RecordDependencyCheck(ctx, name, time.Since(start), err)

		if err != nil {
			h.logger.WarnContext(ctx, "dependency check failed", "dependency", name, "error", err)
			resp.Checks[name] = "unavailable"
			resp.Status = "not ready"
			code = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}

	httputil.RespondWithJSON(w, code, resp)
}
