// Package coach answers questions about a normalized hand through a chat model.
package coach

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hhnorm/internal/hand"
	"hhnorm/internal/logger"
	"hhnorm/internal/provider"
	"hhnorm/internal/render"
)

// ErrNoProvider is returned when no chat model is configured.
var ErrNoProvider = errors.New("coach provider is not configured")

const (
	SystemPrompt = "You are a poker coach focused on 6-max cash games. " +
		"Be concise, give actionable tips tied to positions, stacks, and sizes."

	defaultMaxTokens   = 800
	defaultTemperature = 0.2
)

// Message 是一条对话消息。
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Messages builds the system and user messages for one question.
func Messages(h hand.ParsedHand, question string) []Message {
	return []Message{
		{Role: "system", Content: SystemPrompt},
		{Role: "user", Content: userPrompt(h, question)},
	}
}

func userPrompt(h hand.ParsedHand, question string) string {
	return fmt.Sprintf("Hand context (parsed):\n%s\n\nUser: %s", render.Summary(h), strings.TrimSpace(question))
}

type Service struct {
	provider  provider.ModelProvider
	maxTokens int
}

func NewService(p provider.ModelProvider, maxTokens int) *Service {
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	return &Service{provider: p, maxTokens: maxTokens}
}

func (s *Service) Enabled() bool {
	return s != nil && s.provider != nil && s.provider.Enabled()
}

// Reply asks the model about h.
func (s *Service) Reply(ctx context.Context, h hand.ParsedHand, question string) (string, error) {
	if !s.Enabled() {
		return "", ErrNoProvider
	}
	if strings.TrimSpace(question) == "" {
		return "", errors.New("question is empty")
	}
	msgs := Messages(h, question)
	call := logger.LLMCall{Kind: "coach", Provider: s.provider.ID(), Purpose: "reply"}
	logger.LogLLMRequest(call, msgs[0].Content, msgs[1].Content, nil, "")

	temp := defaultTemperature
	start := time.Now()
	out, err := s.provider.Call(ctx, provider.ChatPayload{
		System:      msgs[0].Content,
		User:        msgs[1].Content,
		MaxTokens:   s.maxTokens,
		Temperature: &temp,
	})
	if err != nil {
		return "", fmt.Errorf("coach call: %w", err)
	}
	logger.LogLLMResponse(call, out, time.Since(start))
	return strings.TrimSpace(out), nil
}
