package provider

import (
	"fmt"
	"strings"
	"time"

	"hhnorm/internal/logger"
	"hhnorm/internal/pkg/circuit"
)

type ModelCfg struct {
	ID, Provider, APIURL, APIKey, Model string
	Enabled                             bool
	Headers                             map[string]string
	SupportsVision                      bool
	ExpectJSON                          bool
	Timeout                             time.Duration
	MaxRetries                          int
	BreakerThreshold                    int
	BreakerCooldown                     time.Duration
}

// BuildProvider returns nil when the model is disabled.
func BuildProvider(m ModelCfg) ModelProvider {
	if !m.Enabled {
		return nil
	}
	id := strings.TrimSpace(m.ID)
	if id == "" {
		base := strings.TrimSpace(m.Provider)
		if base == "" {
			base = "provider"
		}
		if model := strings.TrimSpace(m.Model); model != "" {
			id = fmt.Sprintf("%s:%s", base, model)
		} else {
			id = base
		}
		logger.Warnf("未配置 ai.id，已为 %q 生成 ID: %s", m.Provider, id)
	}
	client := &OpenAIChatClient{
		BaseURL:      m.APIURL,
		APIKey:       m.APIKey,
		Model:        m.Model,
		Timeout:      m.Timeout,
		MaxRetries:   m.MaxRetries,
		ExtraHeaders: m.Headers,
	}
	var breaker *circuit.CircuitBreaker
	if m.BreakerThreshold > 0 {
		breaker = circuit.NewCircuitBreaker(id, m.BreakerThreshold, m.BreakerCooldown)
	}
	return NewOpenAIModelProvider(id, true, m.SupportsVision, m.ExpectJSON, client, breaker)
}
