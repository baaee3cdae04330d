// Package health serves the orchestrator probe endpoints on a port of
// their own, away from API traffic: /live answers liveness, /health
// reports build identity, and /ready runs every registered dependency
// check and fails closed.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Check probes one dependency. A nil return means the dependency is usable.
type Check func(ctx context.Context) error

// checkTimeout bounds each dependency check so one stuck backend cannot
// hold the readiness endpoint past the probe deadline.
const checkTimeout = 3 * time.Second

type buildResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Version   string `json:"version,omitempty"`
	Commit    string `json:"commit,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

type readyResponse struct {
	Status   string            `json:"status"`
	Service  string            `json:"service"`
	Checks   map[string]string `json:"checks,omitempty"`
	Duration string            `json:"duration,omitempty"`
}

// Server hosts the probe endpoints. Dependency checks are registered with
// AddCheck before Start; readiness additionally gates on SetReady so the
// process can finish warming before it advertises itself.
type Server struct {
	service string
	version string
	commit  string
	port    string
	log     *logrus.Logger

	mu     sync.RWMutex
	ready  bool
	order  []string
	checks map[string]Check

	httpServer *http.Server
}

// Config identifies the service and the probe port.
type Config struct {
	ServiceName string
	Version     string
	Commit      string
	Port        string
	Logger      *logrus.Logger
}

func NewServer(cfg Config) *Server {
	port := cfg.Port
	if port == "" {
		port = os.Getenv("HEALTH_PORT")
	}
	if port == "" {
		port = "8080"
	}
	log := cfg.Logger
	if log == nil {
		log = logrus.New()
	}

	return &Server{
		service: cfg.ServiceName,
		version: cfg.Version,
		commit:  cfg.Commit,
		port:    port,
		log:     log,
		checks:  make(map[string]Check),
	}
}

// AddCheck registers a named dependency check, run on every /ready request
// in registration order. Re-registering a name replaces the check.
func (s *Server) AddCheck(name string, check Check) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.checks[name]; !exists {
		s.order = append(s.order, name)
	}
	s.checks[name] = check
}

// SetReady flips the manual readiness gate. Until it is true, /ready fails
// regardless of what the dependency checks report.
func (s *Server) SetReady(ready bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ready = ready
}

// IsReady reports the manual readiness gate.
func (s *Server) IsReady() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/ready", s.handleReady)
	mux.HandleFunc("/live", s.handleLive)
	return mux
}

// Start runs the probe server in the background until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:         ":" + s.port,
		Handler:      s.routes(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		s.log.WithFields(logrus.Fields{
			"port":    s.port,
			"service": s.service,
		}).Info("health server starting")

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.WithError(err).Error("health server error")
		}
	}()

	go func() {
		<-ctx.Done()
		_ = s.Shutdown()
	}()

	return nil
}

// Shutdown drains the probe server.
func (s *Server) Shutdown() error {
	if s.httpServer == nil {
		return nil
	}

	s.log.Info("health server shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, buildResponse{
		Status:    "ok",
		Service:   s.service,
		Version:   s.version,
		Commit:    s.commit,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, buildResponse{Status: "ok", Service: s.service})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	results := make(map[string]string)
	healthy := true

	if s.IsReady() {
		results["service"] = "ok"
	} else {
		healthy = false
		results["service"] = "not_ready"
	}

	s.mu.RLock()
	names := append([]string(nil), s.order...)
	checks := make(map[string]Check, len(s.checks))
	for name, check := range s.checks {
		checks[name] = check
	}
	s.mu.RUnlock()

	for _, name := range names {
		ctx, cancel := context.WithTimeout(r.Context(), checkTimeout)
		err := checks[name](ctx)
		cancel()

		if err != nil {
			healthy = false
			results[name] = fmt.Sprintf("error: %v", err)
		} else {
			results[name] = "ok"
		}
	}

	resp := readyResponse{
		Service:  s.service,
		Checks:   results,
		Duration: time.Since(start).String(),
	}
	if healthy {
		resp.Status = "ok"
		writeJSON(w, http.StatusOK, resp)
	} else {
		resp.Status = "not_ready"
		writeJSON(w, http.StatusServiceUnavailable, resp)
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
