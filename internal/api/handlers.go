package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/yourusername/pitwall/internal/live"
	"github.com/yourusername/pitwall/internal/models"
)

// envelope is the uniform response shape: {"status":"success","data":...}
// on success, {"status":"error","error":{...}} otherwise.
type envelope struct {
	Status string      `json:"status"`
	Data   interface{} `json:"data,omitempty"`
	Error  *apiError   `json:"error,omitempty"`
}

type apiError struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func (s *Server) writeData(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(envelope{Status: "success", Data: data}); err != nil {
		s.log.WithError(err).Error("failed to encode response")
	}
}

// writeError maps the error taxonomy onto status codes and kinds.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var (
		status int
		kind   string
	)
	switch {
	case errors.Is(err, models.ErrValidation):
		status, kind = http.StatusBadRequest, "validation"
	case errors.Is(err, models.ErrNotFound):
		status, kind = http.StatusNotFound, "not_found"
	case errors.Is(err, models.ErrStoreUnavailable):
		status, kind = http.StatusServiceUnavailable, "store_unavailable"
	case errors.Is(err, models.ErrUpstreamTimeout):
		status, kind = http.StatusGatewayTimeout, "upstream_timeout"
	default:
		status, kind = http.StatusInternalServerError, "internal"
		s.log.WithError(err).Error("request failed")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{
		Status: "error",
		Error:  &apiError{Kind: kind, Message: err.Error()},
	})
}

func pathInt(r *http.Request, name string) (int, error) {
	raw := chi.URLParam(r, name)
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, validationf("%s must be an integer, got %q", name, raw)
	}
	return v, nil
}

func validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", models.ErrValidation, fmt.Sprintf(format, args...))
}

func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	year, err := pathInt(r, "year")
	if err != nil {
		s.writeError(w, err)
		return
	}

	schedule, err := s.sessions.GetSchedule(r.Context(), year)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeData(w, schedule)
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	year, round, kind, err := sessionParams(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	view, err := s.sessions.GetSession(r.Context(), year, round, kind)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeData(w, view)
}

func (s *Server) handleDrivers(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") != "false"

	drivers, err := s.sessions.GetDrivers(r.Context(), activeOnly)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeData(w, drivers)
}

func (s *Server) handleTelemetry(w http.ResponseWriter, r *http.Request) {
	year, round, kind, err := sessionParams(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	driver := chi.URLParam(r, "driver")

	traces, err := s.sessions.GetTelemetry(r.Context(), year, round, kind, driver)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeData(w, traces)
}

func (s *Server) handleStrategy(w http.ResponseWriter, r *http.Request) {
	year, round, kind, err := sessionParams(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	strategies, err := s.sessions.GetStrategy(r.Context(), year, round, kind)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeData(w, strategies)
}

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	view, err := s.sessions.LiveSnapshot(r.Context(), chi.URLParam(r, "sessionKey"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeData(w, view)
}

type chatRequest struct {
	Question string `json:"question"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, validationf("malformed request body"))
		return
	}
	if req.Question == "" {
		s.writeError(w, validationf("question is required"))
		return
	}

	reply, err := s.asker.Ask(r.Context(), req.Question)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeData(w, reply)
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Same-origin policy is enforced upstream by the reverse proxy.
	CheckOrigin: func(r *http.Request) bool { return true },
}

func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.WithError(err).Warn("websocket upgrade failed")
		return
	}

	client := live.NewClient(s.hub, conn, s.log)
	go client.Run()
}

func sessionParams(r *http.Request) (int, int, models.SessionKind, error) {
	year, err := pathInt(r, "year")
	if err != nil {
		return 0, 0, "", err
	}
	round, err := pathInt(r, "round")
	if err != nil {
		return 0, 0, "", err
	}
	kind, err := models.ParseSessionKind(chi.URLParam(r, "kind"))
	if err != nil {
		return 0, 0, "", err
	}
	return year, round, kind, nil
}
