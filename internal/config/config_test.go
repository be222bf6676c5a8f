package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/jex/internal/renderer/core"
)

func write(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func load(t *testing.T, opts ...Option) *Config {
	t.Helper()
	c := New(opts...)
	require.NoError(t, c.Load(context.Background()))
	return c
}

func TestDefaults(t *testing.T) {
	c := load(t, WithUserConfigDir(t.TempDir()), WithEnvPrefix(""))

	assert.Equal(t, LoggingConfig{Level: "info"}, c.Logging())
	ui := c.UI()
	assert.False(t, ui.ShowTree)
	assert.Equal(t, 2, ui.Indent)
	assert.Equal(t, DefaultTheme(), ui.Theme)
	assert.Equal(t, 30*time.Second, c.Source().HTTPTimeout)
	assert.Equal(t, WatchConfig{Interval: 250 * time.Millisecond}, c.Watch())
	assert.Empty(t, c.KeyBindings())
	assert.Empty(t, c.ConfigErrors())
	require.Len(t, c.Layers(), 1)
}

func TestLayerPrecedence(t *testing.T) {
	userDir := t.TempDir()
	write(t, userDir, "config.toml", `
[ui]
indent = 4
showTree = true

[watch]
interval = "1s"
`)
	explicit := write(t, t.TempDir(), "jex.yaml", `
ui:
  indent: 3
logging:
  level: debug
`)
	t.Setenv("JEX_LOG_LEVEL", "warn")

	c := load(t, WithUserConfigDir(userDir), WithFile(explicit))

	assert.Equal(t, 3, c.UI().Indent)
	assert.True(t, c.UI().ShowTree)
	assert.Equal(t, time.Second, c.Watch().Interval)
	assert.Equal(t, "warn", c.Logging().Level)

	var names []string
	for _, l := range c.Layers() {
		names = append(names, l.Name)
	}
	assert.Equal(t, []string{"defaults", "user", "file", "environment"}, names)

	require.NoError(t, c.Set("logging.level", "error"))
	assert.Equal(t, "error", c.Logging().Level)
}

func TestUserYAMLFile(t *testing.T) {
	userDir := t.TempDir()
	write(t, userDir, "config.yml", "ui:\n  showTree: true\n")

	c := load(t, WithUserConfigDir(userDir), WithEnvPrefix(""))
	assert.True(t, c.UI().ShowTree)
}

func TestMissingExplicitFile(t *testing.T) {
	c := New(WithUserConfigDir(t.TempDir()), WithFile(filepath.Join(t.TempDir(), "nope.toml")))
	assert.ErrorIs(t, c.Load(context.Background()), ErrFileNotFound)
}

func TestParseErrorSurfaces(t *testing.T) {
	userDir := t.TempDir()
	write(t, userDir, "config.toml", "[ui\n")

	err := New(WithUserConfigDir(userDir)).Load(context.Background())
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, filepath.Join(userDir, "config.toml"), perr.Path)
}

func TestInvalidValuesFallBack(t *testing.T) {
	explicit := write(t, t.TempDir(), "jex.toml", `
[logging]
level = "loud"

[ui]
indent = 40
showTree = "yes"

[ui.theme]
key = "not-a-colour"
number = "idx(3)"

[watch]
interval = "soon"

[source]
httpTimeout = 5000
`)
	c := load(t, WithUserConfigDir(t.TempDir()), WithFile(explicit), WithEnvPrefix(""))

	assert.Equal(t, "info", c.Logging().Level)
	ui := c.UI()
	assert.Equal(t, 2, ui.Indent)
	assert.False(t, ui.ShowTree)
	assert.Equal(t, DefaultTheme().Key, ui.Theme.Key)
	assert.Equal(t, core.ColorFromIndex(3), ui.Theme.Number)
	assert.Equal(t, 250*time.Millisecond, c.Watch().Interval)
	assert.Equal(t, 5*time.Second, c.Source().HTTPTimeout)

	errs := c.ConfigErrors()
	assert.ErrorIs(t, errs["logging.level"], ErrInvalidValue)
	assert.ErrorIs(t, errs["ui.indent"], ErrInvalidValue)
	assert.ErrorIs(t, errs["ui.showTree"], ErrTypeMismatch)
	assert.ErrorIs(t, errs["ui.theme.key"], ErrInvalidValue)
	assert.ErrorIs(t, errs["watch.interval"], ErrInvalidValue)
	assert.NotContains(t, errs, "source.httpTimeout")
}

func TestKeyBindings(t *testing.T) {
	explicit := write(t, t.TempDir(), "jex.toml", `
[keys]
quit = ["Esc", "Ctrl+Q"]
search = "/"
fold = 3
`)
	c := load(t, WithUserConfigDir(t.TempDir()), WithFile(explicit), WithEnvPrefix(""))

	assert.Equal(t, map[string][]string{
		"quit":   {"Esc", "Ctrl+Q"},
		"search": {"/"},
	}, c.KeyBindings())
	assert.ErrorIs(t, c.ConfigErrors()["keys.fold"], ErrTypeMismatch)
}

func TestGetters(t *testing.T) {
	c := New(WithEnvPrefix(""))
	require.NoError(t, c.Set("a.n", int64(7)))
	require.NoError(t, c.Set("a.d", 2*time.Second))
	require.NoError(t, c.Set("a.s", "x"))

	n, err := c.GetInt("a.n")
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	d, err := c.GetDuration("a.d")
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, d)

	_, err = c.GetBool("a.s")
	assert.ErrorIs(t, err, ErrTypeMismatch)
	_, err = c.GetString("a.missing")
	assert.ErrorIs(t, err, ErrSettingNotFound)

	assert.ErrorIs(t, c.Set("a.s.deeper", 1), ErrInvalidPath)
	assert.ErrorIs(t, c.Set("", 1), ErrInvalidPath)
	assert.Equal(t, []string{"d", "n", "s"}, c.Keys("a"))
}
