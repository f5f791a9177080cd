package rules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRules(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultRules(t *testing.T) {
	r := Default()
	assert.Equal(t, 100.0, r.DefaultStack)
	assert.True(t, r.IsPlaceholder(0))
	assert.True(t, r.IsPlaceholder(100))
	assert.False(t, r.IsPlaceholder(60))
	assert.Equal(t, 0.5, r.SmallBlind)
	assert.Equal(t, 1.0, r.BigBlind)

	fixed := Rules{BigBlind: 2}.Sanitize()
	assert.Equal(t, 2.0, fixed.BigBlind)
	assert.Equal(t, 100.0, fixed.DefaultStack)
}

func TestRegistryOverridesBase(t *testing.T) {
	path := writeRules(t, t.TempDir(), "rules:\n  default_stack: 50\n  big_blind: 2\n  placeholder_stacks: [0, 50]\n")
	reg, err := NewRegistry(path, Default())
	require.NoError(t, err)

	got := reg.Rules()
	assert.Equal(t, 50.0, got.DefaultStack)
	assert.Equal(t, 2.0, got.BigBlind)
	assert.Equal(t, 0.5, got.SmallBlind)
	assert.Equal(t, []float64{0, 50}, got.PlaceholderStacks)
	assert.Equal(t, int64(1), reg.Snapshot().Version)
}

func TestRegistryRejectsInvalidFile(t *testing.T) {
	dir := t.TempDir()
	_, err := NewRegistry(writeRules(t, dir, "rules:\n  default_stack: -1\n"), Default())
	assert.Error(t, err)

	_, err = NewRegistry(writeRules(t, dir, "rules:\n  mystery: 1\n"), Default())
	assert.Error(t, err)

	// Sanitize would silently turn a zero threshold back into the default
	_, err = NewRegistry(writeRules(t, dir, "rules:\n  override_max_spent: 0\n"), Default())
	assert.Error(t, err)
	_, err = NewRegistry(writeRules(t, dir, "rules:\n  override_min_declared: 0\n"), Default())
	assert.Error(t, err)

	_, err = NewRegistry("", Default())
	assert.Error(t, err)
}

func TestRegistryReloadKeepsPreviousOnError(t *testing.T) {
	dir := t.TempDir()
	path := writeRules(t, dir, "rules:\n  small_blind: 1\n  big_blind: 2\n")
	reg, err := NewRegistry(path, Default())
	require.NoError(t, err)

	writeRules(t, dir, "rules:\n  big_blind: -5\n")
	assert.Error(t, reg.Reload())
	assert.Equal(t, 2.0, reg.Rules().BigBlind)

	writeRules(t, dir, "rules:\n  small_blind: 2\n  big_blind: 4\n")
	require.NoError(t, reg.Reload())
	assert.Equal(t, 4.0, reg.Rules().BigBlind)
	assert.GreaterOrEqual(t, reg.Snapshot().Version, int64(2))
}
