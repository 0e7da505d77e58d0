package httpserver

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/yndnr/mouse-go/internal/telemetry/logger"
)

// RouterConfig holds configuration for the HTTP router.
type RouterConfig struct {
	// Metrics serves the Prometheus exposition. Nil disables the route.
	Metrics http.Handler

	// MetricsPath is where Metrics is mounted. Default: /metrics
	MetricsPath string

	// ShuttingDown reports whether shutdown has been requested.
	ShuttingDown func() bool

	// Logger for request logging.
	Logger logger.Logger
}

// NewRouter creates the router with all routes and middleware.
func NewRouter(cfg *RouterConfig) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = logger.Default()
	}
	shuttingDown := cfg.ShuttingDown
	if shuttingDown == nil {
		shuttingDown = func() bool { return false }
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", handleHealth)
	mux.HandleFunc("GET /ready", func(w http.ResponseWriter, r *http.Request) {
		handleReady(w, r, shuttingDown())
	})
	if cfg.Metrics != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		mux.Handle("GET "+path, cfg.Metrics)
	}

	// Order: RequestID -> Recover -> Audit -> mux
	return Chain(mux, RequestID(), Recover(log), Audit(log))
}

// handleHealth handles GET /health.
func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// handleReady handles GET /ready.
func handleReady(w http.ResponseWriter, r *http.Request, shuttingDown bool) {
	status, code := "ready", http.StatusOK
	if shuttingDown {
		status, code = "shutting_down", http.StatusServiceUnavailable
	}
	writeJSON(w, code, map[string]string{
		"status": status,
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
