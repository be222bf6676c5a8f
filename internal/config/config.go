// Package config holds jex's layered settings.
//
// Sources are merged from lowest to highest priority: built-in defaults, the
// user file ($XDG_CONFIG_HOME/jex/config.toml, .yaml or .yml), a file named
// on the command line, JEX_* environment variables and finally values Set
// at runtime (command-line flags).
package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dshills/jex/internal/config/loader"
)

// Layer is one merged configuration source.
type Layer struct {
	Name   string
	Source string
	Data   map[string]any
}

// Config provides typed access to the merged configuration.
type Config struct {
	mu sync.RWMutex

	fs            loader.FileSystem
	userConfigDir string
	file          string
	envPrefix     string

	layers    []Layer // lowest priority first
	overrides map[string]any
	merged    map[string]any

	// configErrors stores type and value problems found by section accessors.
	configErrors map[string]error
}

// Option configures a Config instance.
type Option func(*Config)

// WithUserConfigDir sets the user configuration directory.
func WithUserConfigDir(dir string) Option {
	return func(c *Config) {
		c.userConfigDir = dir
	}
}

// WithFile adds an explicitly named configuration file above the user file.
func WithFile(path string) Option {
	return func(c *Config) {
		c.file = path
	}
}

// WithEnvPrefix sets the environment variable prefix; empty disables the
// environment layer.
func WithEnvPrefix(prefix string) Option {
	return func(c *Config) {
		c.envPrefix = prefix
	}
}

// WithFS replaces the file system used to read configuration files.
func WithFS(fsys loader.FileSystem) Option {
	return func(c *Config) {
		c.fs = fsys
	}
}

// New creates a Config holding only the defaults. Call Load to read the
// configured sources.
func New(opts ...Option) *Config {
	c := &Config{
		fs:        loader.DefaultFS(),
		envPrefix: loader.DefaultEnvPrefix,
		overrides: make(map[string]any),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.userConfigDir == "" {
		c.userConfigDir = defaultUserConfigDir()
	}
	c.layers = []Layer{{Name: "defaults", Data: defaultConfig()}}
	c.remerge()
	return c
}

// Load reads every configuration source and rebuilds the merged view.
// A missing user file is not an error; a missing explicit file is.
func (c *Config) Load(_ context.Context) error {
	layers := []Layer{{Name: "defaults", Data: defaultConfig()}}

	user, err := c.loadUserSettings()
	if err != nil {
		return err
	}
	if user != nil {
		layers = append(layers, *user)
	}

	if c.file != "" {
		explicit, err := c.loadFile(c.file)
		if err != nil {
			return err
		}
		layers = append(layers, explicit)
	}

	if c.envPrefix != "" {
		data, err := loader.NewEnvLoader(c.envPrefix).Load()
		if err != nil {
			return fmt.Errorf("loading environment: %w", err)
		}
		if len(data) > 0 {
			layers = append(layers, Layer{Name: "environment", Source: c.envPrefix + "*", Data: data})
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.layers = layers
	c.configErrors = nil
	c.remerge()
	return nil
}

func (c *Config) loadUserSettings() (*Layer, error) {
	for _, ext := range loader.Extensions {
		path := filepath.Join(c.userConfigDir, "config"+ext)
		l, err := loader.ForPath(c.fs, path)
		if err != nil {
			return nil, err
		}
		data, err := l.Load()
		if err != nil {
			return nil, err
		}
		if data != nil {
			return &Layer{Name: "user", Source: path, Data: data}, nil
		}
	}
	return nil, nil
}

func (c *Config) loadFile(path string) (Layer, error) {
	if _, err := c.fs.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Layer{}, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return Layer{}, err
	}
	l, err := loader.ForPath(c.fs, path)
	if err != nil {
		return Layer{}, err
	}
	data, err := l.Load()
	if err != nil {
		return Layer{}, err
	}
	if data == nil {
		return Layer{}, fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}
	return Layer{Name: "file", Source: path, Data: data}, nil
}

// remerge rebuilds the merged map; callers hold mu or own c exclusively.
func (c *Config) remerge() {
	merged := make(map[string]any)
	for _, l := range c.layers {
		merged = loader.DeepMerge(merged, l.Data)
	}
	c.merged = loader.DeepMerge(merged, c.overrides)
}

// Layers returns the loaded sources, lowest priority first. The runtime
// overrides are not included.
func (c *Config) Layers() []Layer {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Layer, len(c.layers))
	for i, l := range c.layers {
		out[i] = Layer{Name: l.Name, Source: l.Source, Data: loader.Clone(l.Data)}
	}
	return out
}

// UserConfigDir returns the directory searched for the user file.
func (c *Config) UserConfigDir() string {
	return c.userConfigDir
}

// Get returns the value at the given path from the merged configuration.
func (c *Config) Get(path string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return getPath(c.merged, path)
}

// GetString returns a string value at the given path.
func (c *Config) GetString(path string) (string, error) {
	v, ok := c.Get(path)
	if !ok {
		return "", ErrSettingNotFound
	}
	s, ok := v.(string)
	if !ok {
		return "", &TypeError{Path: path, Expected: "string", Actual: typeName(v)}
	}
	return s, nil
}

// GetInt returns an integer value at the given path.
func (c *Config) GetInt(path string) (int, error) {
	v, ok := c.Get(path)
	if !ok {
		return 0, ErrSettingNotFound
	}
	switch val := v.(type) {
	case int:
		return val, nil
	case int64:
		return int(val), nil
	case uint64:
		return int(val), nil
	case float64:
		if val == float64(int(val)) {
			return int(val), nil
		}
	}
	return 0, &TypeError{Path: path, Expected: "int", Actual: typeName(v)}
}

// GetBool returns a boolean value at the given path.
func (c *Config) GetBool(path string) (bool, error) {
	v, ok := c.Get(path)
	if !ok {
		return false, ErrSettingNotFound
	}
	b, ok := v.(bool)
	if !ok {
		return false, &TypeError{Path: path, Expected: "bool", Actual: typeName(v)}
	}
	return b, nil
}

// GetDuration returns a duration at the given path. Strings use
// time.ParseDuration syntax; bare integers are milliseconds.
func (c *Config) GetDuration(path string) (time.Duration, error) {
	v, ok := c.Get(path)
	if !ok {
		return 0, ErrSettingNotFound
	}
	switch val := v.(type) {
	case time.Duration:
		return val, nil
	case int:
		return time.Duration(val) * time.Millisecond, nil
	case int64:
		return time.Duration(val) * time.Millisecond, nil
	case string:
		d, err := time.ParseDuration(val)
		if err != nil {
			return 0, &ValueError{Path: path, Value: val, Err: err}
		}
		return d, nil
	default:
		return 0, &TypeError{Path: path, Expected: "duration", Actual: typeName(v)}
	}
}

// GetStringSlice returns a string slice at the given path. A single string
// is returned as a one-element slice.
func (c *Config) GetStringSlice(path string) ([]string, error) {
	v, ok := c.Get(path)
	if !ok {
		return nil, ErrSettingNotFound
	}
	switch val := v.(type) {
	case string:
		return []string{val}, nil
	case []string:
		return append([]string(nil), val...), nil
	case []any:
		result := make([]string, len(val))
		for i, item := range val {
			s, ok := item.(string)
			if !ok {
				return nil, &TypeError{Path: path, Expected: "[]string", Actual: typeName(v)}
			}
			result[i] = s
		}
		return result, nil
	default:
		return nil, &TypeError{Path: path, Expected: "[]string", Actual: typeName(v)}
	}
}

// Keys returns the child names of the map at path, sorted.
func (c *Config) Keys(path string) []string {
	v, ok := c.Get(path)
	if !ok {
		return nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Set stores a runtime override, which outranks every loaded source.
func (c *Config) Set(path string, value any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := setPath(c.overrides, path, value); err != nil {
		return err
	}
	c.remerge()
	return nil
}

// Merged returns a copy of the merged configuration.
func (c *Config) Merged() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return loader.Clone(c.merged)
}

// defaultUserConfigDir returns the default user configuration directory.
func defaultUserConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "jex")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "jex")
}

// defaultConfig returns the default configuration values.
func defaultConfig() map[string]any {
	return map[string]any{
		"logging": map[string]any{
			"level": "info",
			"path":  "",
		},
		"ui": map[string]any{
			"showTree":   false,
			"indent":     2,
			"searchWrap": true,
			"theme": map[string]any{
				"key":         "#5fafff",
				"string":      "#87d787",
				"number":      "#d7af5f",
				"bool":        "#d787d7",
				"null":        "#8a8a8a",
				"bracket":     "default",
				"border":      "#6c6c6c",
				"focusBorder": "#ffd75f",
				"cursor":      "#303a4a",
				"error":       "#ff5f5f",
			},
		},
		"source": map[string]any{
			"httpTimeout": "30s",
		},
		"watch": map[string]any{
			"enabled":  false,
			"interval": "250ms",
		},
		"keys": map[string]any{},
	}
}

// getPath retrieves a value from a nested map using a dot-separated path.
func getPath(m map[string]any, path string) (any, bool) {
	parts := splitPath(path)
	if len(parts) == 0 {
		return nil, false
	}
	var current any = m
	for _, part := range parts {
		cm, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		if current, ok = cm[part]; !ok {
			return nil, false
		}
	}
	return current, true
}

// setPath sets a value in a nested map using a dot-separated path.
func setPath(m map[string]any, path string, value any) error {
	parts := splitPath(path)
	if len(parts) == 0 {
		return ErrInvalidPath
	}
	current := m
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part]
		if !ok {
			next = make(map[string]any)
			current[part] = next
		}
		nextMap, ok := next.(map[string]any)
		if !ok {
			return fmt.Errorf("%w: %s", ErrInvalidPath, path)
		}
		current = nextMap
	}
	current[parts[len(parts)-1]] = value
	return nil
}

// splitPath splits a dot-separated path into non-empty parts.
func splitPath(path string) []string {
	return strings.FieldsFunc(path, func(r rune) bool { return r == '.' })
}

// typeName returns the type name for error messages.
func typeName(v any) string {
	if v == nil {
		return "nil"
	}
	switch v.(type) {
	case string:
		return "string"
	case int, int64, uint64:
		return "int"
	case float64:
		return "float64"
	case bool:
		return "bool"
	case time.Duration:
		return "duration"
	case []string:
		return "[]string"
	case []any:
		return "[]any"
	case map[string]any:
		return "map"
	default:
		return fmt.Sprintf("%T", v)
	}
}
