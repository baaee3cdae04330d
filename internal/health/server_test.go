package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer() *Server {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return NewServer(Config{
		ServiceName: "pitwall",
		Version:     "test",
		Commit:      "abc1234",
		Port:        "0",
		Logger:      log,
	})
}

func doRequest(s *Server, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealthReportsBuildInfo(t *testing.T) {
	s := newTestServer()

	rec := doRequest(s, "/health")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp buildResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "pitwall", resp.Service)
	assert.Equal(t, "test", resp.Version)
	assert.Equal(t, "abc1234", resp.Commit)
	assert.NotEmpty(t, resp.Timestamp)
}

func TestLiveAlwaysOK(t *testing.T) {
	s := newTestServer()
	assert.Equal(t, http.StatusOK, doRequest(s, "/live").Code)
}

func TestReadyGatedUntilSetReady(t *testing.T) {
	s := newTestServer()

	rec := doRequest(s, "/ready")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var resp readyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "not_ready", resp.Status)
	assert.Equal(t, "not_ready", resp.Checks["service"])

	s.SetReady(true)
	assert.Equal(t, http.StatusOK, doRequest(s, "/ready").Code)
}

func TestReadyRunsDependencyChecks(t *testing.T) {
	s := newTestServer()
	s.SetReady(true)
	s.AddCheck("database", func(context.Context) error { return nil })
	s.AddCheck("cache", func(context.Context) error { return errors.New("tier down") })

	rec := doRequest(s, "/ready")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var resp readyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Checks["database"])
	assert.Equal(t, "error: tier down", resp.Checks["cache"])
	assert.NotEmpty(t, resp.Duration)
}

func TestAddCheckReplacesByName(t *testing.T) {
	s := newTestServer()
	s.SetReady(true)
	s.AddCheck("database", func(context.Context) error { return errors.New("first") })
	s.AddCheck("database", func(context.Context) error { return nil })

	assert.Equal(t, http.StatusOK, doRequest(s, "/ready").Code)
}
