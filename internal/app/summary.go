package app

import (
	"fmt"
	"strings"
	"time"

	"hhnorm/internal/logger"
	"hhnorm/internal/rules"
)

type StartupSummary struct {
	Env         string
	HTTPAddr    string
	RulesOrigin string
	Rules       rules.Rules
	StorePath   string
	AI          AISummary
}

type AISummary struct {
	Enabled  bool
	ID       string
	Model    string
	Vision   bool
	Cached   bool
	Timeout  time.Duration
	Retries  int
	Breaker  int
	Cooldown time.Duration
}

// Print 逐行写入日志，日志文件开启时摘要也会落盘。
func (s *StartupSummary) Print() {
	logger.InfoBlock(s.String())
}

func (s *StartupSummary) String() string {
	var b strings.Builder
	title := "启动配置摘要 (STARTUP SUMMARY)"
	b.WriteString(strings.Repeat("=", 80) + "\n")
	fmt.Fprintf(&b, "%*s\n", 40+len(title)/2, title)
	b.WriteString(strings.Repeat("=", 80) + "\n")

	b.WriteString("[服务 (SERVICE)]\n")
	fmt.Fprintf(&b, "  环境: %s\n", orDash(s.Env))
	fmt.Fprintf(&b, "  监听: %s\n", orDash(s.HTTPAddr))
	fmt.Fprintf(&b, "  存储: %s\n\n", orDash(s.StorePath))

	b.WriteString("[规范化规则 (RULES)]\n")
	fmt.Fprintf(&b, "  来源: %s\n", orDash(s.RulesOrigin))
	fmt.Fprintf(&b, "  默认筹码: %g BB\n", s.Rules.DefaultStack)
	fmt.Fprintf(&b, "  占位筹码: %s\n", formatFloats(s.Rules.PlaceholderStacks))
	fmt.Fprintf(&b, "  覆盖阈值: declared>=%g && spent<=%g\n", s.Rules.OverrideMinDeclared, s.Rules.OverrideMaxSpent)
	fmt.Fprintf(&b, "  盲注: %g/%g\n\n", s.Rules.SmallBlind, s.Rules.BigBlind)

	b.WriteString("[模型 (AI)]\n")
	if !s.AI.Enabled {
		b.WriteString("  (未启用)\n")
	} else {
		fmt.Fprintf(&b, "  ID: %s (model=%s)\n", s.AI.ID, s.AI.Model)
		fmt.Fprintf(&b, "  识图: %v  缓存: %v\n", s.AI.Vision, s.AI.Cached)
		fmt.Fprintf(&b, "  超时: %s  重试: %d\n", s.AI.Timeout, s.AI.Retries)
		fmt.Fprintf(&b, "  熔断: %d 次失败后冷却 %s\n", s.AI.Breaker, s.AI.Cooldown)
	}
	b.WriteString(strings.Repeat("=", 80) + "\n")
	return b.String()
}

func formatFloats(items []float64) string {
	if len(items) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(items))
	for _, v := range items {
		parts = append(parts, fmt.Sprintf("%g", v))
	}
	return strings.Join(parts, ", ")
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
