package app

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	brcfg "hhnorm/internal/config"
	"hhnorm/internal/logger"
	"hhnorm/internal/normalize"
	"hhnorm/internal/rules"
	"hhnorm/internal/store"
	apihttp "hhnorm/internal/transport/http/api"
)

const defaultCallTimeout = 90 * time.Second

type AppBuilder struct {
	cfg *brcfg.Config

	rulesFn  func(brcfg.NormalizeConfig) (rules.Source, string, error)
	storeFn  func(brcfg.StoreConfig) (*store.Store, error)
	aiFn     func(brcfg.AIConfig, *normalize.Normalizer, *store.Store) aiStack
	serverFn func(brcfg.AppConfig, apihttp.Deps) (*apihttp.Server, error)
}

type AppBuilderOption func(*AppBuilder)

func NewAppBuilder(cfg *brcfg.Config, opts ...AppBuilderOption) *AppBuilder {
	b := &AppBuilder{
		cfg:      cfg,
		rulesFn:  buildRulesSource,
		storeFn:  openStore,
		aiFn:     buildAIStack,
		serverFn: buildHTTPServer,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

func (b *AppBuilder) Build(ctx context.Context) (*App, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if b.cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	cfg := b.cfg
	logger.SetLevel(cfg.App.LogLevel)

	src, rulesOrigin, err := b.rulesFn(cfg.Normalize)
	if err != nil {
		return nil, err
	}
	normalizer := normalize.New(src)

	st, err := b.storeFn(cfg.Store)
	if err != nil {
		return nil, err
	}

	ai := b.aiFn(cfg.AI, normalizer, st)

	deps := apihttp.Deps{
		Normalizer:  normalizer,
		CallTimeout: defaultCallTimeout,
	}
	if t := cfg.AI.Timeout(); t > 0 {
		deps.CallTimeout = t
	}
	// 接口字段只在依赖存在时赋值，避免 typed nil
	if st != nil {
		deps.Store = st
	}
	if ai.analyzer != nil {
		deps.Analyzer = ai.analyzer
	}
	if ai.coach != nil {
		deps.Coach = ai.coach
	}

	server, err := b.serverFn(cfg.App, deps)
	if err != nil {
		if st != nil {
			_ = st.Close()
		}
		return nil, err
	}

	r := src.Rules()
	return &App{
		cfg:    cfg,
		server: server,
		store:  st,
		Summary: &StartupSummary{
			Env:         cfg.App.Env,
			HTTPAddr:    server.Addr(),
			RulesOrigin: rulesOrigin,
			Rules:       r,
			StorePath:   storePathSummary(cfg.Store, st),
			AI:          ai.summary,
		},
	}, nil
}

// buildRulesSource 未配置规则文件时使用配置中的静态规则，否则加载并热更新规则文件。
func buildRulesSource(cfg brcfg.NormalizeConfig) (rules.Source, string, error) {
	base := cfg.Rules()
	path := strings.TrimSpace(cfg.RulesPath)
	if path == "" {
		return rules.Static(base), "config", nil
	}
	reg, err := rules.NewRegistry(path, base)
	if err != nil {
		return nil, "", fmt.Errorf("加载规则文件失败: %w", err)
	}
	reg.OnChange(func(s rules.Snapshot) {
		logger.Infof("✓ 规则已热更新 version=%d default_stack=%g", s.Version, s.Rules.DefaultStack)
	})
	return reg, path, nil
}

func openStore(cfg brcfg.StoreConfig) (*store.Store, error) {
	if !cfg.Enabled {
		logger.Infof("手牌存储未启用")
		return nil, nil
	}
	st, err := store.Open(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("初始化手牌存储失败: %w", err)
	}
	path := cfg.Path
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	logger.Infof("✓ 手牌存储写入 %s", path)
	return st, nil
}

func buildHTTPServer(cfg brcfg.AppConfig, deps apihttp.Deps) (*apihttp.Server, error) {
	return apihttp.NewServer(apihttp.ServerConfig{Addr: cfg.HTTPAddr, Deps: deps})
}

func storePathSummary(cfg brcfg.StoreConfig, st *store.Store) string {
	if st == nil {
		return "(disabled)"
	}
	return cfg.Path
}

func WithRulesSource(fn func(brcfg.NormalizeConfig) (rules.Source, string, error)) AppBuilderOption {
	return func(b *AppBuilder) {
		if fn != nil {
			b.rulesFn = fn
		}
	}
}

func WithStore(fn func(brcfg.StoreConfig) (*store.Store, error)) AppBuilderOption {
	return func(b *AppBuilder) {
		if fn != nil {
			b.storeFn = fn
		}
	}
}

func WithHTTPServer(fn func(brcfg.AppConfig, apihttp.Deps) (*apihttp.Server, error)) AppBuilderOption {
	return func(b *AppBuilder) {
		if fn != nil {
			b.serverFn = fn
		}
	}
}
