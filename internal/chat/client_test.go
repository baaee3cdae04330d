package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/pitwall/internal/config"
	"github.com/yourusername/pitwall/internal/models"
)

func newClientForServer(t *testing.T, url string, timeoutSeconds int) *CompletionClient {
	t.Helper()
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return NewCompletionClient(&config.AssistantConfig{
		Enabled:        true,
		URL:            url,
		APIKey:         "test-key",
		Model:          "test-model",
		TimeoutSeconds: timeoutSeconds,
		RateLimit:      100,
	}, log)
}

func TestCompleteSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req["model"])

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": "box this lap"}},
			},
		})
	}))
	defer server.Close()

	c := newClientForServer(t, server.URL, 5)
	answer, err := c.Complete(context.Background(), []Message{{Role: "user", Content: "pit?"}})
	require.NoError(t, err)
	assert.Equal(t, "box this lap", answer)
}

func TestCompleteTimeoutClassified(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer server.Close()

	c := newClientForServer(t, server.URL, 5)
	c.timeout = 50 * time.Millisecond

	_, err := c.Complete(context.Background(), []Message{{Role: "user", Content: "pit?"}})
	require.ErrorIs(t, err, models.ErrUpstreamTimeout)
}

func TestCompleteNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	c := newClientForServer(t, server.URL, 5)
	_, err := c.Complete(context.Background(), []Message{{Role: "user", Content: "pit?"}})
	require.Error(t, err)
	assert.NotErrorIs(t, err, models.ErrUpstreamTimeout)
}

func TestCompleteNoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	c := newClientForServer(t, server.URL, 5)
	_, err := c.Complete(context.Background(), []Message{{Role: "user", Content: "pit?"}})
	require.Error(t, err)
}
