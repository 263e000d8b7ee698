package watcher

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/cuemby/preflight/pkg/metrics"
)

// StatusServer exposes the watcher over HTTP: liveness, readiness,
// Prometheus metrics, and the latest validation status.
type StatusServer struct {
	watcher *Watcher
	mux     *http.ServeMux
}

// NewStatusServer creates the HTTP surface for a running watcher
func NewStatusServer(w *Watcher) *StatusServer {
	mux := http.NewServeMux()
	s := &StatusServer{
		watcher: w,
		mux:     mux,
	}

	// Register endpoints
	mux.HandleFunc("/healthz", metrics.HealthHandler())
	mux.HandleFunc("/readyz", metrics.ReadyHandler())
	mux.HandleFunc("/livez", metrics.LivenessHandler())
	mux.Handle("/metrics", metrics.Handler())
	mux.HandleFunc("/status", s.statusHandler)

	return s
}

// Start starts the HTTP server and blocks until it exits
func (s *StatusServer) Start(addr string) error {
	server := &http.Server{
		Addr:         addr,
		Handler:      s.mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return server.ListenAndServe()
}

// statusHandler implements the /status endpoint with the latest
// observation of the watched file.
func (s *StatusServer) statusHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(s.watcher.Status())
}

// GetHandler returns the HTTP handler for embedding in other servers
func (s *StatusServer) GetHandler() http.Handler {
	return s.mux
}
