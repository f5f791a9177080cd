package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	brcfg "hhnorm/internal/config"
	"hhnorm/internal/rules"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func loadConfig(t *testing.T, body string) *brcfg.Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	cfg, err := brcfg.Load(path)
	require.NoError(t, err)
	return cfg
}

func TestBuildWithoutAI(t *testing.T) {
	dir := t.TempDir()
	cfg := loadConfig(t, "store:\n  path: "+filepath.Join(dir, "hands.db")+"\n")

	a, err := NewAppBuilder(cfg).Build(context.Background())
	require.NoError(t, err)
	defer a.Close()

	require.NotNil(t, a.Server())
	assert.False(t, a.Summary.AI.Enabled)
	assert.Equal(t, "config", a.Summary.RulesOrigin)
	assert.Equal(t, 100.0, a.Summary.Rules.DefaultStack)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/coach", strings.NewReader(`{"question":"fold?"}`))
	a.Server().Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/hands/parse", strings.NewReader(`{"text":"Preflop: UTG bets 5; BB calls","save":true}`))
	a.Server().Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id"`)
}

func TestBuildWithRulesFile(t *testing.T) {
	dir := t.TempDir()
	rulesPath := filepath.Join(dir, "rules.yaml")
	require.NoError(t, os.WriteFile(rulesPath, []byte("rules:\n  default_stack: 40\n"), 0o644))
	cfg := loadConfig(t, "store:\n  enabled: false\nnormalize:\n  rules_path: "+rulesPath+"\n")

	a, err := NewAppBuilder(cfg).Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, rulesPath, a.Summary.RulesOrigin)
	assert.Equal(t, 40.0, a.Summary.Rules.DefaultStack)
	assert.Equal(t, "(disabled)", a.Summary.StorePath)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/hands", nil)
	a.Server().Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestBuildWithAIEnabled(t *testing.T) {
	cfg := loadConfig(t, "store:\n  enabled: false\nai:\n  enabled: true\n  api_key: sk-test\n  model: gpt-test\n")
	a, err := NewAppBuilder(cfg).Build(context.Background())
	require.NoError(t, err)
	assert.True(t, a.Summary.AI.Enabled)
	assert.True(t, a.Summary.AI.Vision)
	assert.False(t, a.Summary.AI.Cached)
	assert.Equal(t, "openai:gpt-test", a.Summary.AI.ID)
	assert.Contains(t, a.Summary.String(), "gpt-test")
}

func TestBuildRulesError(t *testing.T) {
	cfg := loadConfig(t, "store:\n  enabled: false\n")
	_, err := NewAppBuilder(cfg, WithRulesSource(func(brcfg.NormalizeConfig) (rules.Source, string, error) {
		return nil, "", assert.AnError
	})).Build(context.Background())
	assert.ErrorIs(t, err, assert.AnError)
}

func TestRunStopsOnCancel(t *testing.T) {
	cfg := loadConfig(t, "store:\n  enabled: false\napp:\n  http_addr: 127.0.0.1:0\n")
	a, err := NewApp(cfg)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, a.Run(ctx))
}
