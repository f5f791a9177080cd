package config

import (
	"strings"

	"hhnorm/internal/rules"
)

// 默认值常量
const (
	defaultAppEnv          = "dev"
	defaultAppLogLevel     = "info"
	defaultAppLogFormat    = "text"
	defaultAppHTTPAddr     = ":9990"
	defaultStorePath       = "data/hands.db"
	defaultAIProvider      = "openai"
	defaultAIAPIURL        = "https://api.openai.com/v1"
	defaultAIModel         = "gpt-4o"
	defaultAITimeout       = 90
	defaultAIMaxRetries    = 2
	defaultAIBreaker       = 5
	defaultAIBreakerCool   = 60
	defaultCoachMaxTokens  = 800
	defaultVisionMaxTokens = 1600

	envAPIKey = "OPENAI_API_KEY"
	envModel  = "OPENAI_MODEL"
)

// applyDefaults 为所有子配置应用默认值，显式写在配置文件里的键不会被覆盖。
func (c *Config) applyDefaults(keys keySet) {
	c.App.applyDefaults(keys)
	c.Normalize.applyDefaults(keys)
	c.Store.applyDefaults(keys)
	c.AI.applyDefaults(keys)
}

func (a *AppConfig) applyDefaults(keys keySet) {
	if a == nil {
		return
	}
	applyFieldDefaults(keys,
		stringFieldDefault("app.env", &a.Env, defaultAppEnv),
		stringFieldDefault("app.log_level", &a.LogLevel, defaultAppLogLevel),
		stringFieldDefault("app.log_format", &a.LogFormat, defaultAppLogFormat),
		stringFieldDefault("app.http_addr", &a.HTTPAddr, defaultAppHTTPAddr),
	)
}

func (n *NormalizeConfig) applyDefaults(keys keySet) {
	if n == nil {
		return
	}
	def := rules.Default()
	applyFieldDefaults(keys,
		floatFieldDefault("normalize.default_stack", &n.DefaultStack, def.DefaultStack),
		floatFieldDefault("normalize.override_min_declared", &n.OverrideMinDeclared, def.OverrideMinDeclared),
		floatFieldDefault("normalize.override_max_spent", &n.OverrideMaxSpent, def.OverrideMaxSpent),
		floatFieldDefault("normalize.small_blind", &n.SmallBlind, def.SmallBlind),
		floatFieldDefault("normalize.big_blind", &n.BigBlind, def.BigBlind),
		floatFieldDefault("normalize.epsilon", &n.Epsilon, def.Epsilon),
		fieldDefault{
			key:  "normalize.placeholder_stacks",
			need: func() bool { return len(n.PlaceholderStacks) == 0 },
			apply: func() {
				n.PlaceholderStacks = []float64{0, n.DefaultStack}
			},
		},
	)
}

func (s *StoreConfig) applyDefaults(keys keySet) {
	if s == nil {
		return
	}
	applyFieldDefaults(keys,
		boolFieldDefault("store.enabled", &s.Enabled, true),
		stringFieldDefault("store.path", &s.Path, defaultStorePath),
	)
}

func (a *AIConfig) applyDefaults(keys keySet) {
	if a == nil {
		return
	}
	applyFieldDefaults(keys,
		stringFieldDefault("ai.provider", &a.Provider, defaultAIProvider),
		stringFieldDefault("ai.api_url", &a.APIURL, defaultAIAPIURL),
		stringFieldDefault("ai.model", &a.Model, defaultAIModel),
		boolFieldDefault("ai.supports_vision", &a.SupportsVision, true),
		intFieldDefault("ai.timeout_seconds", &a.TimeoutSeconds, defaultAITimeout),
		intFieldDefault("ai.max_retries", &a.MaxRetries, defaultAIMaxRetries),
		intFieldDefault("ai.breaker_threshold", &a.BreakerThreshold, defaultAIBreaker),
		intFieldDefault("ai.breaker_cooldown_seconds", &a.BreakerCooldownSeconds, defaultAIBreakerCool),
		intFieldDefault("ai.coach_max_tokens", &a.CoachMaxTokens, defaultCoachMaxTokens),
		intFieldDefault("ai.vision_max_tokens", &a.VisionMaxTokens, defaultVisionMaxTokens),
	)
}

// Helper functions

func applyFieldDefaults(keys keySet, defs ...fieldDefault) {
	for _, def := range defs {
		if def.apply == nil {
			continue
		}
		if def.key != "" && keys.isSet(def.key) {
			continue
		}
		if def.need != nil && !def.need() {
			continue
		}
		def.apply()
	}
}

func stringFieldDefault(key string, target *string, def string) fieldDefault {
	return fieldDefault{
		key: key,
		need: func() bool {
			return target != nil && strings.TrimSpace(*target) == ""
		},
		apply: func() {
			if target != nil {
				*target = def
			}
		},
	}
}

func boolFieldDefault(key string, target *bool, def bool) fieldDefault {
	return fieldDefault{
		key:  key,
		need: func() bool { return target != nil },
		apply: func() {
			if target != nil {
				*target = def
			}
		},
	}
}

func intFieldDefault(key string, target *int, def int) fieldDefault {
	return fieldDefault{
		key:   key,
		need:  func() bool { return target != nil && *target <= 0 },
		apply: func() { *target = def },
	}
}

func floatFieldDefault(key string, target *float64, def float64) fieldDefault {
	return fieldDefault{
		key:   key,
		need:  func() bool { return target != nil && *target <= 0 },
		apply: func() { *target = def },
	}
}
