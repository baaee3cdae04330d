package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/yourusername/pitwall/internal/config"
	"github.com/yourusername/pitwall/internal/models"
)

// CompletionClient calls the external language-model service. Requests are
// rate limited client-side and retried on transient failures; a deadline
// overrun surfaces as models.ErrUpstreamTimeout so the service layer can
// degrade instead of failing the user.
type CompletionClient struct {
	httpClient *retryablehttp.Client
	limiter    *rate.Limiter
	baseURL    string
	apiKey     string
	model      string
	timeout    time.Duration
	log        *logrus.Logger
}

type completionRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
}

// Message is one turn of the conversation sent upstream.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewCompletionClient creates a client from the assistant configuration.
func NewCompletionClient(cfg *config.AssistantConfig, log *logrus.Logger) *CompletionClient {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 2
	retryClient.RetryWaitMin = 200 * time.Millisecond
	retryClient.RetryWaitMax = 2 * time.Second
	retryClient.Logger = nil

	rps := cfg.RateLimit
	if rps <= 0 {
		rps = 2
	}

	return &CompletionClient{
		httpClient: retryClient,
		limiter:    rate.NewLimiter(rate.Limit(rps), int(rps)),
		baseURL:    cfg.URL,
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		timeout:    cfg.AssistantTimeout(),
		log:        log,
	}
}

// Complete sends the conversation upstream and returns the reply text.
func (c *CompletionClient) Complete(ctx context.Context, messages []Message) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.limiter.Wait(ctx); err != nil {
		return "", c.classify("rate limit wait", err)
	}

	body, err := json.Marshal(completionRequest{Model: c.model, Messages: messages})
	if err != nil {
		return "", fmt.Errorf("marshal completion request: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", c.classify("completion call", err)
	}
	defer resp.Body.Close()

	c.log.WithFields(logrus.Fields{
		"status":   resp.StatusCode,
		"duration": time.Since(start),
	}).Debug("assistant completion finished")

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", c.classify("read completion response", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("completion service returned status %d", resp.StatusCode)
	}

	var parsed completionResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("decode completion response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("completion service error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", errors.New("completion response has no choices")
	}

	return parsed.Choices[0].Message.Content, nil
}

func (c *CompletionClient) classify(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s", models.ErrUpstreamTimeout, op)
	}
	return fmt.Errorf("%s: %w", op, err)
}
