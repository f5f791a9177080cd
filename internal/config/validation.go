package config

import (
	"fmt"
	"strings"
)

// validate 对配置进行基础校验。
func validate(c *Config) error {
	if err := c.App.validate(); err != nil {
		return err
	}
	if err := c.Normalize.validate(); err != nil {
		return err
	}
	if err := c.Store.validate(); err != nil {
		return err
	}
	if err := c.AI.validate(); err != nil {
		return err
	}
	return nil
}

func (a *AppConfig) validate() error {
	switch strings.ToLower(strings.TrimSpace(a.LogLevel)) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("app.log_level must be one of debug/info/warn/error, got %q", a.LogLevel)
	}
	switch strings.ToLower(strings.TrimSpace(a.LogFormat)) {
	case "text", "json":
	default:
		return fmt.Errorf("app.log_format must be text or json, got %q", a.LogFormat)
	}
	if strings.TrimSpace(a.HTTPAddr) == "" {
		return fmt.Errorf("app.http_addr cannot be empty")
	}
	return nil
}

func (n *NormalizeConfig) validate() error {
	if n.DefaultStack <= 0 {
		return fmt.Errorf("normalize.default_stack must be > 0")
	}
	if n.OverrideMinDeclared <= 0 || n.OverrideMaxSpent <= 0 {
		return fmt.Errorf("normalize.override_min_declared and override_max_spent must be > 0")
	}
	if n.SmallBlind <= 0 || n.BigBlind <= 0 {
		return fmt.Errorf("normalize blinds must be > 0")
	}
	if n.SmallBlind > n.BigBlind {
		return fmt.Errorf("normalize.small_blind (%g) cannot exceed big_blind (%g)", n.SmallBlind, n.BigBlind)
	}
	if n.Epsilon <= 0 || n.Epsilon >= 0.01 {
		return fmt.Errorf("normalize.epsilon must be in (0, 0.01)")
	}
	for _, v := range n.PlaceholderStacks {
		if v < 0 {
			return fmt.Errorf("normalize.placeholder_stacks cannot contain negative values")
		}
	}
	return nil
}

func (s *StoreConfig) validate() error {
	if s.Enabled && strings.TrimSpace(s.Path) == "" {
		return fmt.Errorf("store.path cannot be empty when store is enabled")
	}
	return nil
}

func (a *AIConfig) validate() error {
	if !a.Enabled {
		return nil
	}
	if strings.TrimSpace(a.Model) == "" {
		return fmt.Errorf("ai.model cannot be empty")
	}
	if strings.TrimSpace(a.APIURL) == "" {
		return fmt.Errorf("ai.api_url cannot be empty")
	}
	if strings.TrimSpace(a.APIKey) == "" {
		return fmt.Errorf("ai.api_key is empty and %s is not set", envAPIKey)
	}
	if a.MaxRetries < 0 {
		return fmt.Errorf("ai.max_retries must be >= 0")
	}
	return nil
}
