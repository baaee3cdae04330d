// Package api is the HTTP surface: REST endpoints under /api plus the
// websocket upgrade for live timing.
package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/pitwall/internal/chat"
	"github.com/yourusername/pitwall/internal/config"
	"github.com/yourusername/pitwall/internal/live"
	"github.com/yourusername/pitwall/internal/metrics"
	"github.com/yourusername/pitwall/internal/models"
)

// SessionProvider is the read-side surface the handlers call.
type SessionProvider interface {
	GetSchedule(ctx context.Context, year int) ([]models.SessionSummary, error)
	GetSession(ctx context.Context, year, round int, kind models.SessionKind) (*models.SessionView, error)
	GetDrivers(ctx context.Context, activeOnly bool) ([]models.Driver, error)
	GetTelemetry(ctx context.Context, year, round int, kind models.SessionKind, driver string) ([]models.TelemetryTrace, error)
	GetStrategy(ctx context.Context, year, round int, kind models.SessionKind) ([]models.DriverStrategy, error)
	LiveSnapshot(ctx context.Context, sessionKey string) (*models.SessionView, error)
}

// Asker answers free-text questions.
type Asker interface {
	Ask(ctx context.Context, question string) (*chat.Reply, error)
}

// Server wires the router, the service layer, and the live hub.
type Server struct {
	sessions SessionProvider
	asker    Asker
	hub      *live.Hub
	cfg      *config.ServerConfig
	log      *logrus.Logger

	httpServer *http.Server
}

func NewServer(sessions SessionProvider, asker Asker, hub *live.Hub, cfg *config.ServerConfig, log *logrus.Logger) *Server {
	return &Server{
		sessions: sessions,
		asker:    asker,
		hub:      hub,
		cfg:      cfg,
		log:      log,
	}
}

// Router builds the chi router with the full route table.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Route("/api", func(r chi.Router) {
		r.Get("/schedule/{year}", s.handleSchedule)
		r.Get("/session/{year}/{round}/{kind}", s.handleSession)
		r.Get("/drivers", s.handleDrivers)
		r.Get("/telemetry/{year}/{round}/{kind}/{driver}", s.handleTelemetry)
		r.Get("/strategy/{year}/{round}/{kind}", s.handleStrategy)
		r.Get("/live/{sessionKey}", s.handleLive)
		r.Post("/chat", s.handleChat)
	})

	r.Get("/ws", s.handleWebsocket)

	return r
}

// Start runs the HTTP server until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	readTimeout := time.Duration(s.cfg.ReadTimeoutSec) * time.Second
	if readTimeout <= 0 {
		readTimeout = 15 * time.Second
	}
	writeTimeout := time.Duration(s.cfg.WriteTimeoutSec) * time.Second
	if writeTimeout <= 0 {
		writeTimeout = 30 * time.Second
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:      s.Router(),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", s.httpServer.Addr).Info("API server starting")
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return s.Shutdown()
	}
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown() error {
	if s.httpServer == nil {
		return nil
	}
	s.log.Info("API server shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}

// requestLogger logs each request and feeds the prometheus counters.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		elapsed := time.Since(start)
		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = r.URL.Path
		}
		metrics.RecordRequest(route, strconv.Itoa(ww.Status()), elapsed.Seconds())

		s.log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   ww.Status(),
			"duration": elapsed,
		}).Debug("request served")
	})
}
