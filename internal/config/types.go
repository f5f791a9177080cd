package config

import (
	"strings"
	"time"

	"hhnorm/internal/rules"
)

// Config 是服务的主配置载体。
type Config struct {
	App       AppConfig       `toml:"app"`
	Normalize NormalizeConfig `toml:"normalize"`
	Store     StoreConfig     `toml:"store"`
	AI        AIConfig        `toml:"ai"`
}

type AppConfig struct {
	Env       string `toml:"env"`
	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`
	HTTPAddr  string `toml:"http_addr"`
	LogPath   string `toml:"log_path"`
	LLMLog    string `toml:"llm_log_path"`
	LLMDump   bool   `toml:"llm_dump_payload"`
}

// NormalizeConfig 是规范化规则的基础值；RulesPath 非空时由规则文件覆盖并热加载。
type NormalizeConfig struct {
	RulesPath           string    `toml:"rules_path"`
	DefaultStack        float64   `toml:"default_stack"`
	PlaceholderStacks   []float64 `toml:"placeholder_stacks"`
	OverrideMinDeclared float64   `toml:"override_min_declared"`
	OverrideMaxSpent    float64   `toml:"override_max_spent"`
	SmallBlind          float64   `toml:"small_blind"`
	BigBlind            float64   `toml:"big_blind"`
	Epsilon             float64   `toml:"epsilon"`
}

// Rules converts the section into the pipeline's rule set.
func (n NormalizeConfig) Rules() rules.Rules {
	return rules.Rules{
		DefaultStack:        n.DefaultStack,
		PlaceholderStacks:   append([]float64(nil), n.PlaceholderStacks...),
		OverrideMinDeclared: n.OverrideMinDeclared,
		OverrideMaxSpent:    n.OverrideMaxSpent,
		SmallBlind:          n.SmallBlind,
		BigBlind:            n.BigBlind,
		Epsilon:             n.Epsilon,
	}.Sanitize()
}

type StoreConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// AIConfig 描述识图与教练使用的 OpenAI 兼容模型。
type AIConfig struct {
	Enabled                bool              `toml:"enabled"`
	ID                     string            `toml:"id"`
	Provider               string            `toml:"provider"`
	APIURL                 string            `toml:"api_url"`
	APIKey                 string            `toml:"api_key"`
	Model                  string            `toml:"model"`
	Headers                map[string]string `toml:"headers"`
	SupportsVision         bool              `toml:"supports_vision"`
	TimeoutSeconds         int               `toml:"timeout_seconds"`
	MaxRetries             int               `toml:"max_retries"`
	BreakerThreshold       int               `toml:"breaker_threshold"`
	BreakerCooldownSeconds int               `toml:"breaker_cooldown_seconds"`
	CoachMaxTokens         int               `toml:"coach_max_tokens"`
	VisionMaxTokens        int               `toml:"vision_max_tokens"`
}

func (a AIConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutSeconds) * time.Second
}

func (a AIConfig) BreakerCooldown() time.Duration {
	return time.Duration(a.BreakerCooldownSeconds) * time.Second
}

// keySet 用于追踪配置文件中显式设置的字段路径。
type keySet map[string]struct{}

func (k keySet) mark(path string) {
	path = strings.ToLower(strings.TrimSpace(path))
	if path == "" {
		return
	}
	k[path] = struct{}{}
}

func (k keySet) isSet(path string) bool {
	if len(k) == 0 {
		return false
	}
	path = strings.ToLower(strings.TrimSpace(path))
	if path == "" {
		return false
	}
	_, ok := k[path]
	return ok
}

// fieldDefault 描述单个字段的默认值设置规则。
type fieldDefault struct {
	key   string
	need  func() bool
	apply func()
}
