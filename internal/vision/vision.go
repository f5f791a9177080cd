// Package vision reads a table screenshot through a vision-capable model and
// normalizes the reply into a canonical hand.
package vision

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"hhnorm/internal/candidate"
	"hhnorm/internal/hand"
	"hhnorm/internal/logger"
	"hhnorm/internal/normalize"
	"hhnorm/internal/parser"
	"hhnorm/internal/pkg/jsonutil"
	"hhnorm/internal/pkg/text"
	"hhnorm/internal/provider"
)

// ErrNoProvider is returned when no vision-capable model is configured.
var ErrNoProvider = errors.New("vision provider is not configured")

const (
	SystemPrompt = "You convert poker screenshots into (1) clean hand history text and (2) a strict JSON object. " +
		"Use 6-max positions (UTG, HJ, CO, BTN, SB, BB). Sizes are in big blinds."

	UserPrompt = "1) Provide plain HH text (players/stacks and Preflop/Flop/Turn/River actions).\n" +
		"2) ALSO provide a STRICT JSON with this schema:\n" +
		"{\n" +
		`  "players": {"BTN":{"pos":"BTN","stack":100.0,"name":"Hero"}, ...},` + "\n" +
		`  "actions": [{"street":"Preflop","pos":"BTN","move":"opens","size":2.5}, ...]` + "\n" +
		"}\n" +
		"IMPORTANT: First output the HH text between <HH>...</HH>, then output the JSON between <JSON>...</JSON>."

	defaultMaxTokens = 1600
)

// Cache 按图片哈希保存分析结果，parsed 为规范化后的 hand JSON。
type Cache interface {
	LookupAnalysis(ctx context.Context, key string) (hhText string, parsed []byte, ok bool, err error)
	SaveAnalysis(ctx context.Context, key, hhText string, parsed []byte) error
}

// Analysis is the analyzer output.
type Analysis struct {
	HHText string          `json:"hh_text"`
	Parsed hand.ParsedHand `json:"parsed"`
	Cached bool            `json:"cached"`
}

type Analyzer struct {
	provider   provider.ModelProvider
	normalizer *normalize.Normalizer
	cache      Cache
	maxTokens  int
}

// NewAnalyzer accepts a nil provider (every call then fails with
// ErrNoProvider) and a nil cache.
func NewAnalyzer(p provider.ModelProvider, n *normalize.Normalizer, cache Cache, maxTokens int) *Analyzer {
	if n == nil {
		n = normalize.New(nil)
	}
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	return &Analyzer{provider: p, normalizer: n, cache: cache, maxTokens: maxTokens}
}

// Enabled reports whether a usable vision provider is wired.
func (a *Analyzer) Enabled() bool {
	return a != nil && a.provider != nil && a.provider.Enabled() && a.provider.SupportsVision()
}

// CacheKey 由图片 sha256 与提供方 ID 组成，换模型后不会命中旧结果。
func (a *Analyzer) CacheKey(data []byte) string {
	sum := sha256.Sum256(data)
	id := ""
	if a.provider != nil {
		id = a.provider.ID()
	}
	return hex.EncodeToString(sum[:]) + "::cloud::" + id
}

// AnalyzeFile reads path and analyzes it.
func (a *Analyzer) AnalyzeFile(ctx context.Context, path string) (Analysis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Analysis{}, fmt.Errorf("read screenshot: %w", err)
	}
	return a.AnalyzeImage(ctx, data, "")
}

// AnalyzeImage sends the screenshot to the model, splits the <HH>/<JSON>
// reply and normalizes it. Results are cached by image hash when a cache is
// configured; cache errors are logged and otherwise ignored.
func (a *Analyzer) AnalyzeImage(ctx context.Context, data []byte, mime string) (Analysis, error) {
	if !a.Enabled() {
		return Analysis{}, ErrNoProvider
	}
	if len(data) == 0 {
		return Analysis{}, errors.New("empty image")
	}
	if strings.TrimSpace(mime) == "" {
		mime = http.DetectContentType(data)
	}
	key := a.CacheKey(data)
	if a.cache != nil {
		hh, raw, ok, err := a.cache.LookupAnalysis(ctx, key)
		switch {
		case err != nil:
			logger.Warnf("vision cache lookup failed: %v", err)
		case ok:
			var h hand.ParsedHand
			if err := json.Unmarshal(raw, &h); err == nil {
				return Analysis{HHText: hh, Parsed: h, Cached: true}, nil
			}
			logger.Warnf("vision cache entry %s is corrupt, re-analyzing", key)
		}
	}

	call := logger.LLMCall{Kind: "vision", Provider: a.provider.ID(), Purpose: "screenshot"}
	dataURI := "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
	logger.LogLLMRequest(call, SystemPrompt, UserPrompt, []string{fmt.Sprintf("%s, %d bytes", mime, len(data))}, dataURI)
	temp := 0.0
	start := time.Now()
	reply, err := a.provider.Call(ctx, provider.ChatPayload{
		System:      SystemPrompt,
		User:        UserPrompt,
		Images:      []provider.ImagePayload{{DataURI: dataURI, Description: mime}},
		MaxTokens:   a.maxTokens,
		Temperature: &temp,
	})
	if err != nil {
		return Analysis{}, fmt.Errorf("vision call: %w", err)
	}
	logger.LogLLMResponse(call, reply, time.Since(start))

	out := a.FromReply(reply)
	if a.cache != nil {
		raw, err := json.Marshal(out.Parsed)
		if err == nil {
			err = a.cache.SaveAnalysis(ctx, key, out.HHText, raw)
		}
		if err != nil {
			logger.Warnf("vision cache save failed: %v", err)
		}
	}
	return out, nil
}

// FromReply 拆分模型回复：<HH> 段作为文本输入，<JSON> 段作为候选对象；
// JSON 缺失或没有动作时退回到从 HH 文本抽取动作。
func (a *Analyzer) FromReply(reply string) Analysis {
	hh, _ := jsonutil.ExtractTagged(reply, "HH")
	var (
		c   candidate.Candidate
		err error
	)
	if js, ok := jsonutil.ExtractTagged(reply, "JSON"); ok {
		c, err = candidate.FromReply(js)
	} else {
		c, err = candidate.FromReply(strings.Replace(reply, hh, "", 1))
	}
	if err != nil {
		logger.Debugf("vision reply has no usable json: %v (reply=%q)", err, text.Truncate(reply, 200))
		c = candidate.Candidate{}
	}
	if len(c.Actions) == 0 {
		c.Actions = parser.Extract(hh).Actions
	}
	return Analysis{HHText: hh, Parsed: a.normalizer.FromCandidate(hh, c)}
}
