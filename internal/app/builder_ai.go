package app

import (
	brcfg "hhnorm/internal/config"
	"hhnorm/internal/coach"
	"hhnorm/internal/logger"
	"hhnorm/internal/normalize"
	"hhnorm/internal/provider"
	"hhnorm/internal/store"
	"hhnorm/internal/vision"
)

type aiStack struct {
	analyzer *vision.Analyzer
	coach    *coach.Service
	summary  AISummary
}

func modelConfig(cfg brcfg.AIConfig) provider.ModelCfg {
	return provider.ModelCfg{
		ID:               cfg.ID,
		Provider:         cfg.Provider,
		APIURL:           cfg.APIURL,
		APIKey:           cfg.APIKey,
		Model:            cfg.Model,
		Enabled:          cfg.Enabled,
		Headers:          cfg.Headers,
		SupportsVision:   cfg.SupportsVision,
		Timeout:          cfg.Timeout(),
		MaxRetries:       cfg.MaxRetries,
		BreakerThreshold: cfg.BreakerThreshold,
		BreakerCooldown:  cfg.BreakerCooldown(),
	}
}

// buildAIStack 构建识图与教练服务；模型未启用时两者都为 nil，对应路由返回 503。
func buildAIStack(cfg brcfg.AIConfig, n *normalize.Normalizer, st *store.Store) aiStack {
	p := provider.BuildProvider(modelConfig(cfg))
	if p == nil {
		logger.Infof("AI 模型未启用，识图与教练接口不可用")
		return aiStack{summary: AISummary{Enabled: false}}
	}
	var cache vision.Cache
	if st != nil {
		cache = st
	}
	out := aiStack{
		coach: coach.NewService(p, cfg.CoachMaxTokens),
		summary: AISummary{
			Enabled:  true,
			ID:       p.ID(),
			Model:    cfg.Model,
			Vision:   p.SupportsVision(),
			Cached:   cache != nil,
			Timeout:  cfg.Timeout(),
			Retries:  cfg.MaxRetries,
			Breaker:  cfg.BreakerThreshold,
			Cooldown: cfg.BreakerCooldown(),
		},
	}
	if p.SupportsVision() {
		out.analyzer = vision.NewAnalyzer(p, n, cache, cfg.VisionMaxTokens)
	} else {
		logger.Warnf("模型 %s 不支持识图，/api/vision/analyze 不可用", p.ID())
	}
	logger.Infof("✓ AI 模型已就绪 id=%s vision=%v", p.ID(), p.SupportsVision())
	return out
}
