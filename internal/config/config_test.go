package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumipallolabs/foldergrid/internal/layout"
	"github.com/lumipallolabs/foldergrid/internal/proxy"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	tmp := t.TempDir()
	dir := filepath.Join(tmp, "foldergrid")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644))
	return tmp
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 48, cfg.IconSize)
	assert.True(t, cfg.DirectoriesFirst)
	assert.Equal(t, "name", cfg.SortKey)
	assert.Equal(t, layout.Horizontal, cfg.LayoutFlow())
	assert.Equal(t, time.Second, cfg.Delays().Save)
}

func TestLoadYAMLConfig(t *testing.T) {
	tmp := writeConfig(t, `icon_size: 64
locked: true
sort_key: modified
sort_descending: true
directories_first: false
filter_mode: mime
filter_mimes:
  - image/*
  - text/plain
flow: vertical
double_click_ms: 250
`)
	t.Setenv("XDG_CONFIG_HOME", tmp)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.IconSize)
	assert.True(t, cfg.Locked)
	assert.Equal(t, layout.Vertical, cfg.LayoutFlow())

	opts := cfg.ProxyOptions()
	assert.Equal(t, proxy.ByModified, opts.SortKey)
	assert.True(t, opts.Descending)
	assert.False(t, opts.DirsFirst)
	assert.Equal(t, proxy.FilterMime, opts.FilterMode)
	assert.Equal(t, []string{"image/*", "text/plain"}, opts.Mimes)
	assert.Equal(t, 250*time.Millisecond, cfg.Interaction().DoubleClick)
}

func TestEnvironmentOverrides(t *testing.T) {
	tmp := writeConfig(t, "icon_size: 64\n")
	t.Setenv("XDG_CONFIG_HOME", tmp)
	t.Setenv("FOLDERGRID_ICON_SIZE", "32")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 32, cfg.IconSize)
}

func TestExplicitFileMustExist(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestInvalidValuesRejected(t *testing.T) {
	tmp := writeConfig(t, "sort_key: colour\n")
	t.Setenv("XDG_CONFIG_HOME", tmp)

	_, err := Load("")
	assert.ErrorIs(t, err, ErrInvalid)

	cfg := Default()
	cfg.IconSize = 500
	assert.ErrorIs(t, cfg.Validate(), ErrInvalid)

	cfg = Default()
	cfg.Flow = "diagonal"
	assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
}
