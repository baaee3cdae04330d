package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/pitwall/internal/chat"
	"github.com/yourusername/pitwall/internal/config"
	"github.com/yourusername/pitwall/internal/live"
	"github.com/yourusername/pitwall/internal/models"
)

type MockSessionProvider struct {
	mock.Mock
}

func (m *MockSessionProvider) GetSchedule(ctx context.Context, year int) ([]models.SessionSummary, error) {
	args := m.Called(ctx, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SessionSummary), args.Error(1)
}

func (m *MockSessionProvider) GetSession(ctx context.Context, year, round int, kind models.SessionKind) (*models.SessionView, error) {
	args := m.Called(ctx, year, round, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SessionView), args.Error(1)
}

func (m *MockSessionProvider) GetDrivers(ctx context.Context, activeOnly bool) ([]models.Driver, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Driver), args.Error(1)
}

func (m *MockSessionProvider) GetTelemetry(ctx context.Context, year, round int, kind models.SessionKind, driver string) ([]models.TelemetryTrace, error) {
	args := m.Called(ctx, year, round, kind, driver)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.TelemetryTrace), args.Error(1)
}

func (m *MockSessionProvider) GetStrategy(ctx context.Context, year, round int, kind models.SessionKind) ([]models.DriverStrategy, error) {
	args := m.Called(ctx, year, round, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.DriverStrategy), args.Error(1)
}

func (m *MockSessionProvider) LiveSnapshot(ctx context.Context, sessionKey string) (*models.SessionView, error) {
	args := m.Called(ctx, sessionKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SessionView), args.Error(1)
}

type MockAsker struct {
	mock.Mock
}

func (m *MockAsker) Ask(ctx context.Context, question string) (*chat.Reply, error) {
	args := m.Called(ctx, question)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*chat.Reply), args.Error(1)
}

type apiFixture struct {
	sessions *MockSessionProvider
	asker    *MockAsker
	router   http.Handler
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	f := &apiFixture{
		sessions: &MockSessionProvider{},
		asker:    &MockAsker{},
	}
	srv := NewServer(f.sessions, f.asker, live.NewHub(log), &config.ServerConfig{Port: 8000}, log)
	f.router = srv.Router()
	return f
}

func (f *apiFixture) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestScheduleEndpoint(t *testing.T) {
	f := newAPIFixture(t)

	f.sessions.On("GetSchedule", mock.Anything, 2024).Return([]models.SessionSummary{
		{Year: 2024, Round: 1, EventName: "Bahrain Grand Prix"},
	}, nil).Once()

	rec := f.do(t, http.MethodGet, "/api/schedule/2024", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, "success", env.Status)
	assert.Nil(t, env.Error)
}

func TestScheduleMissingYear(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodGet, "/api/schedule/abc", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, "error", env.Status)
	assert.Equal(t, "validation", env.Error.Kind)
}

func TestSessionEndpoint(t *testing.T) {
	f := newAPIFixture(t)

	view := &models.SessionView{Year: 2024, Round: 5, Kind: models.KindRace}
	f.sessions.On("GetSession", mock.Anything, 2024, 5, models.KindRace).Return(view, nil).Once()

	rec := f.do(t, http.MethodGet, "/api/session/2024/5/Race", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	f.sessions.AssertExpectations(t)
}

func TestSessionEndpointParsesKindAlias(t *testing.T) {
	f := newAPIFixture(t)

	view := &models.SessionView{Year: 2024, Round: 5, Kind: models.KindQualifying}
	f.sessions.On("GetSession", mock.Anything, 2024, 5, models.KindQualifying).Return(view, nil).Once()

	rec := f.do(t, http.MethodGet, "/api/session/2024/5/qualifying", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	f.sessions.AssertExpectations(t)
}

func TestSessionEndpointUnknownKind(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodGet, "/api/session/2024/5/bogus", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, "validation", env.Error.Kind)
}

func TestErrorTaxonomyMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		kind   string
	}{
		{"not found", models.ErrNotFound, http.StatusNotFound, "not_found"},
		{"store unavailable", models.ErrStoreUnavailable, http.StatusServiceUnavailable, "store_unavailable"},
		{"validation", models.ErrValidation, http.StatusBadRequest, "validation"},
		{"upstream timeout", models.ErrUpstreamTimeout, http.StatusGatewayTimeout, "upstream_timeout"},
		{"internal", assert.AnError, http.StatusInternalServerError, "internal"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newAPIFixture(t)
			f.sessions.On("GetSession", mock.Anything, 2024, 5, models.KindRace).Return(nil, tc.err).Once()

			rec := f.do(t, http.MethodGet, "/api/session/2024/5/Race", "")

			assert.Equal(t, tc.status, rec.Code)
			env := decodeEnvelope(t, rec)
			assert.Equal(t, tc.kind, env.Error.Kind)
		})
	}
}

func TestDriversEndpointActiveFlag(t *testing.T) {
	f := newAPIFixture(t)

	f.sessions.On("GetDrivers", mock.Anything, false).Return([]models.Driver{}, nil).Once()

	rec := f.do(t, http.MethodGet, "/api/drivers?active=false", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	f.sessions.AssertExpectations(t)
}

func TestTelemetryEndpoint(t *testing.T) {
	f := newAPIFixture(t)

	f.sessions.On("GetTelemetry", mock.Anything, 2024, 5, models.KindQualifying, "44").
		Return([]models.TelemetryTrace{{DriverNumber: "44", LapNumber: 12}}, nil).Once()

	rec := f.do(t, http.MethodGet, "/api/telemetry/2024/5/Q/44", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	f.sessions.AssertExpectations(t)
}

func TestStrategyEndpoint(t *testing.T) {
	f := newAPIFixture(t)

	f.sessions.On("GetStrategy", mock.Anything, 2024, 5, models.KindRace).Return([]models.DriverStrategy{
		{Driver: "1", PitStops: 1},
	}, nil).Once()

	rec := f.do(t, http.MethodGet, "/api/strategy/2024/5/Race", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	f.sessions.AssertExpectations(t)
}

func TestLiveEndpoint(t *testing.T) {
	f := newAPIFixture(t)

	view := &models.SessionView{Year: 2024, Round: 5, Kind: models.KindRace}
	f.sessions.On("LiveSnapshot", mock.Anything, "2024:5:Race").Return(view, nil).Once()

	rec := f.do(t, http.MethodGet, "/api/live/2024:5:Race", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	f.sessions.AssertExpectations(t)
}

func TestChatEndpoint(t *testing.T) {
	f := newAPIFixture(t)

	f.asker.On("Ask", mock.Anything, "when to pit?").
		Return(&chat.Reply{ID: "abc", Answer: "around lap 18"}, nil).Once()

	rec := f.do(t, http.MethodPost, "/api/chat", `{"question":"when to pit?"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, "success", env.Status)
}

func TestChatEndpointEmptyQuestion(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodPost, "/api/chat", `{"question":""}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	f.asker.AssertNotCalled(t, "Ask")
}

func TestChatEndpointMalformedBody(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodPost, "/api/chat", `{not json`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
