package rules

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"hhnorm/internal/logger"

	"github.com/fsnotify/fsnotify"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const fileSchema = `{
  "type": "object",
  "required": ["rules"],
  "additionalProperties": false,
  "properties": {
    "rules": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "default_stack": {"type": "number", "exclusiveMinimum": 0},
        "placeholder_stacks": {"type": "array", "items": {"type": "number", "minimum": 0}},
        "override_min_declared": {"type": "number", "exclusiveMinimum": 0},
        "override_max_spent": {"type": "number", "exclusiveMinimum": 0},
        "small_blind": {"type": "number", "exclusiveMinimum": 0},
        "big_blind": {"type": "number", "exclusiveMinimum": 0},
        "epsilon": {"type": "number", "exclusiveMinimum": 0}
      }
    }
  }
}`

// fileRules 只覆盖文件中出现的字段。
type fileRules struct {
	DefaultStack        *float64  `yaml:"default_stack"`
	PlaceholderStacks   []float64 `yaml:"placeholder_stacks"`
	OverrideMinDeclared *float64  `yaml:"override_min_declared"`
	OverrideMaxSpent    *float64  `yaml:"override_max_spent"`
	SmallBlind          *float64  `yaml:"small_blind"`
	BigBlind            *float64  `yaml:"big_blind"`
	Epsilon             *float64  `yaml:"epsilon"`
}

// FileConfig 映射规则文件。
type FileConfig struct {
	Rules fileRules `yaml:"rules"`
}

func (f fileRules) apply(base Rules) Rules {
	out := base.clone()
	set := func(dst *float64, v *float64) {
		if v != nil {
			*dst = *v
		}
	}
	set(&out.DefaultStack, f.DefaultStack)
	set(&out.OverrideMinDeclared, f.OverrideMinDeclared)
	set(&out.OverrideMaxSpent, f.OverrideMaxSpent)
	set(&out.SmallBlind, f.SmallBlind)
	set(&out.BigBlind, f.BigBlind)
	set(&out.Epsilon, f.Epsilon)
	if f.PlaceholderStacks != nil {
		out.PlaceholderStacks = append([]float64(nil), f.PlaceholderStacks...)
	}
	return out
}

// Snapshot 公开的规则快照。
type Snapshot struct {
	Version  int64
	LoadedAt time.Time
	Rules    Rules
}

// ChangeListener 在 registry 重载时触发。
type ChangeListener func(Snapshot)

// Registry 从 YAML 文件加载规则并在文件变化时热更新。
type Registry struct {
	path   string
	base   Rules
	v      *viper.Viper
	schema *jsonschema.Schema

	mu        sync.RWMutex
	snapshot  Snapshot
	listeners []ChangeListener
}

// NewRegistry 读取规则文件（覆盖 base 中的对应字段）并监听更新。
func NewRegistry(path string, base Rules) (*Registry, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("rules registry requires path")
	}
	schema, err := compileSchema(fileSchema)
	if err != nil {
		return nil, fmt.Errorf("compile rules schema failed: %w", err)
	}
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read rules file failed: %w", err)
	}
	r := &Registry{path: path, base: base.Sanitize(), v: v, schema: schema}
	if err := r.load(); err != nil {
		return nil, err
	}
	v.OnConfigChange(func(evt fsnotify.Event) {
		if err := r.Reload(); err != nil {
			logger.Errorf("rules reload failed (%s): %v", evt.Name, err)
		}
	})
	v.WatchConfig()
	return r, nil
}

// Rules 返回当前规则副本。
func (r *Registry) Rules() Rules {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot.Rules.clone()
}

func (r *Registry) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	snap := r.snapshot
	snap.Rules = snap.Rules.clone()
	return snap
}

// OnChange registers fn to run after every successful reload.
func (r *Registry) OnChange(fn ChangeListener) {
	if fn == nil {
		return
	}
	r.mu.Lock()
	r.listeners = append(r.listeners, fn)
	r.mu.Unlock()
}

// Reload re-reads the file. On error the previous snapshot stays active.
func (r *Registry) Reload() error {
	if err := r.load(); err != nil {
		return err
	}
	r.notifyListeners()
	return nil
}

func (r *Registry) load() error {
	cfg, err := readRulesFile(r.path, r.schema)
	if err != nil {
		return err
	}
	rules := cfg.Rules.apply(r.base)
	r.mu.Lock()
	r.snapshot = Snapshot{
		Version:  r.snapshot.Version + 1,
		LoadedAt: time.Now(),
		Rules:    rules,
	}
	r.mu.Unlock()
	logger.Infof("Rules registry loaded from %s (default_stack=%g blinds=%g/%g)",
		filepath.Base(r.path), rules.DefaultStack, rules.SmallBlind, rules.BigBlind)
	return nil
}

func (r *Registry) notifyListeners() {
	snap := r.Snapshot()
	r.mu.RLock()
	listeners := append([]ChangeListener(nil), r.listeners...)
	r.mu.RUnlock()
	for _, fn := range listeners {
		go func(cb ChangeListener) {
			defer safeRecover("rules listener")
			cb(snap)
		}(fn)
	}
}

func safeRecover(tag string) {
	if r := recover(); r != nil {
		logger.Errorf("%s panic: %v", tag, r)
	}
}

func compileSchema(raw string) (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("rules.json", strings.NewReader(raw)); err != nil {
		return nil, err
	}
	return compiler.Compile("rules.json")
}

func readRulesFile(path string, schema *jsonschema.Schema) (FileConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return FileConfig{}, fmt.Errorf("read rules file failed: %w", err)
	}
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return FileConfig{}, fmt.Errorf("parse rules file failed: %w", err)
	}
	// yaml 的整数与 map 类型需要先转成 JSON 形态再交给 schema 校验
	js, err := json.Marshal(doc)
	if err != nil {
		return FileConfig{}, fmt.Errorf("parse rules file failed: %w", err)
	}
	var generic any
	if err := json.Unmarshal(js, &generic); err != nil {
		return FileConfig{}, fmt.Errorf("parse rules file failed: %w", err)
	}
	if err := schema.Validate(generic); err != nil {
		return FileConfig{}, fmt.Errorf("rules file invalid: %w", err)
	}
	var cfg FileConfig
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return FileConfig{}, fmt.Errorf("parse rules file failed: %w", err)
	}
	return cfg, nil
}
