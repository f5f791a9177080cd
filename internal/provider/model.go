// Package provider talks to OpenAI-compatible chat completion endpoints used
// for screenshot reading and coaching.
package provider

import (
	"context"

	"hhnorm/internal/pkg/circuit"
)

// ErrCircuitOpen is returned while a provider's breaker rejects calls.
var ErrCircuitOpen = circuit.ErrOpen

type ImagePayload struct {
	DataURI     string
	Description string
}

type ChatPayload struct {
	System      string
	User        string
	Images      []ImagePayload
	ExpectJSON  bool
	MaxTokens   int
	Temperature *float64
}

type ModelProvider interface {
	ID() string
	Enabled() bool
	SupportsVision() bool
	ExpectsJSON() bool

	Call(ctx context.Context, payload ChatPayload) (string, error)
}
