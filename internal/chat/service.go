// Package chat answers free-text questions about the racing data. Answers
// are grounded on a small built-in knowledge base and phrased by an
// external completion service; when that service is slow, down, or
// disabled the user still gets a canned but relevant reply.
package chat

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/pitwall/internal/metrics"
	"github.com/yourusername/pitwall/internal/models"
)

const maxFacts = 3

// Completer is the upstream the service phrases answers with.
type Completer interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

// Reply is one answered question.
type Reply struct {
	ID       string `json:"id"`
	Answer   string `json:"answer"`
	Degraded bool   `json:"degraded,omitempty"`
}

// Service orchestrates knowledge lookup and upstream completion.
type Service struct {
	kb        *KnowledgeBase
	completer Completer // nil when the assistant is disabled
	log       *logrus.Logger
}

func NewService(kb *KnowledgeBase, completer Completer, log *logrus.Logger) *Service {
	return &Service{kb: kb, completer: completer, log: log}
}

// Ask answers a question. Upstream timeouts and errors degrade to a canned
// answer built from the knowledge base; only an empty question fails.
func (s *Service) Ask(ctx context.Context, question string) (*Reply, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, errors.New("question is required")
	}

	facts := s.kb.Lookup(question, maxFacts)
	reply := &Reply{ID: uuid.New().String()}

	if s.completer == nil {
		reply.Answer = cannedAnswer(facts)
		reply.Degraded = true
		metrics.RecordAssistantRequest("degraded", 0)
		return reply, nil
	}

	start := time.Now()
	answer, err := s.completer.Complete(ctx, buildMessages(question, facts))
	elapsed := time.Since(start).Seconds()
	if err != nil {
		outcome := "error"
		if errors.Is(err, models.ErrUpstreamTimeout) {
			outcome = "timeout"
		}
		metrics.RecordAssistantRequest(outcome, elapsed)
		s.log.WithError(err).Warn("assistant degraded to canned answer")

		reply.Answer = cannedAnswer(facts)
		reply.Degraded = true
		return reply, nil
	}

	metrics.RecordAssistantRequest("ok", elapsed)
	reply.Answer = answer
	return reply, nil
}

func buildMessages(question string, facts []string) []Message {
	system := "You are a motorsport data assistant. Answer briefly using the provided context."
	if len(facts) > 0 {
		system += "\n\nContext:\n- " + strings.Join(facts, "\n- ")
	}
	return []Message{
		{Role: "system", Content: system},
		{Role: "user", Content: question},
	}
}

func cannedAnswer(facts []string) string {
	if len(facts) == 0 {
		return "I don't have enough information to answer that right now. Try asking about tyres, pit stops, qualifying, or race strategy."
	}
	return facts[0]
}
