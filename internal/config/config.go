package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

const (
	// EnvPath 指定主配置文件路径。
	EnvPath     = "HHNORM_CONFIG"
	DefaultPath = "configs/config.yaml"
)

// envOverrides 中的环境变量优先于配置文件。
var envOverrides = map[string]string{
	"app.http_addr":        "HHNORM_HTTP_ADDR",
	"app.log_level":        "HHNORM_LOG_LEVEL",
	"normalize.rules_path": "HHNORM_RULES_PATH",
	"store.path":           "HHNORM_STORE_PATH",
	"ai.enabled":           "HHNORM_AI_ENABLED",
}

// ResolvePath returns path, or $HHNORM_CONFIG, or DefaultPath.
func ResolvePath(path string) string {
	if p := strings.TrimSpace(path); p != "" {
		return p
	}
	if p := strings.TrimSpace(os.Getenv(EnvPath)); p != "" {
		return p
	}
	return DefaultPath
}

// Load 读取主配置文件及其 include 链（先被包含的文件先合并，主文件最后），
// 叠加 HHNORM_* 环境变量，再补 OPENAI_* 兜底与默认值并校验。path 为空时见 ResolvePath。
func Load(path string) (*Config, error) {
	files, err := includeChain(ResolvePath(path))
	if err != nil {
		return nil, err
	}
	v := viper.New()
	v.SetConfigType("yaml")
	for _, file := range files {
		if err := mergeFile(v, file); err != nil {
			return nil, fmt.Errorf("read config %s: %w", file, err)
		}
	}
	for key, env := range envOverrides {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", env, err)
		}
	}
	var cfg Config
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "toml"
		dc.WeaklyTypedInput = true
	}); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	keys := make(keySet)
	markKeys("", v.AllSettings(), keys)
	cfg.AI.applyEnvFallbacks(keys)
	cfg.applyDefaults(keys)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyEnvFallbacks 只在配置文件没有给出时使用 OPENAI_API_KEY / OPENAI_MODEL。
func (a *AIConfig) applyEnvFallbacks(keys keySet) {
	if strings.TrimSpace(a.APIKey) == "" {
		a.APIKey = strings.TrimSpace(os.Getenv(envAPIKey))
	}
	if !keys.isSet("ai.model") {
		if m := strings.TrimSpace(os.Getenv(envModel)); m != "" {
			a.Model = m
		}
	}
}

func mergeFile(v *viper.Viper, path string) error {
	tmp := viper.New()
	tmp.SetConfigFile(path)
	if err := tmp.ReadInConfig(); err != nil {
		return err
	}
	return v.MergeConfigMap(tmp.AllSettings())
}

func includeChain(path string) ([]string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	var (
		ordered []string
		done    = make(map[string]bool)
		active  = make(map[string]bool)
	)
	var walk func(string) error
	walk = func(p string) error {
		p = filepath.Clean(p)
		if active[p] {
			return fmt.Errorf("include cycle detected: %s", p)
		}
		if done[p] {
			return nil
		}
		active[p] = true
		includes, err := readIncludes(p)
		if err != nil {
			return fmt.Errorf("parse include in %s: %w", p, err)
		}
		for _, inc := range includes {
			if !filepath.IsAbs(inc) {
				inc = filepath.Join(filepath.Dir(p), inc)
			}
			if err := walk(inc); err != nil {
				return err
			}
		}
		delete(active, p)
		done[p] = true
		ordered = append(ordered, p)
		return nil
	}
	if err := walk(abs); err != nil {
		return nil, err
	}
	return ordered, nil
}

// readIncludes 读取 include 字段，可以是单个路径或路径数组。
func readIncludes(path string) ([]string, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	var items []any
	switch raw := v.Get("include").(type) {
	case nil:
		return nil, nil
	case string:
		items = []any{raw}
	case []any:
		items = raw
	default:
		return nil, fmt.Errorf("include must be a path or a list of paths")
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("include entries must be strings")
		}
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out, nil
}

// markKeys 记录配置里出现过的叶子键（小写、点分），列表整体算一个键。
func markKeys(prefix string, node any, dest keySet) {
	m, ok := node.(map[string]any)
	if !ok {
		if prefix != "" {
			dest.mark(prefix)
		}
		return
	}
	for k, child := range m {
		key := strings.ToLower(strings.TrimSpace(k))
		if key == "" {
			continue
		}
		if prefix != "" {
			key = prefix + "." + key
		}
		markKeys(key, child, dest)
	}
}
