package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/dshills/jex/internal/renderer/core"
)

// Section accessor methods return snapshot structs. Invalid values are
// recorded (see ConfigErrors) and replaced by the default.

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is one of "debug", "info", "warn", "error" or "off".
	Level string
	// Path is the log file; empty discards log output.
	Path string
}

// UIConfig holds display settings.
type UIConfig struct {
	// ShowTree shows the frame tree pane at startup.
	ShowTree bool
	// Indent is the number of columns per nesting level.
	Indent int
	// SearchWrap continues a search from the other end of the document.
	SearchWrap bool
	Theme      Theme
}

// Theme holds the colours of rendered documents and panes.
type Theme struct {
	Key         core.Color
	String      core.Color
	Number      core.Color
	Bool        core.Color
	Null        core.Color
	Bracket     core.Color
	Border      core.Color
	FocusBorder core.Color
	Cursor      core.Color // background of the cursor line
	Error       core.Color
}

// SourceConfig holds document loading settings.
type SourceConfig struct {
	HTTPTimeout time.Duration
}

// WatchConfig holds file watching settings.
type WatchConfig struct {
	Enabled  bool
	Interval time.Duration
}

// MaxIndent bounds ui.indent.
const MaxIndent = 8

// Logging returns the logging settings.
func (c *Config) Logging() LoggingConfig {
	level := c.getStringOr("logging.level", "info")
	switch level {
	case "debug", "info", "warn", "error", "off":
	default:
		c.recordConfigError("logging.level", &ValueError{Path: "logging.level", Value: level, Err: ErrInvalidValue})
		level = "info"
	}
	return LoggingConfig{
		Level: level,
		Path:  c.getStringOr("logging.path", ""),
	}
}

// UI returns the display settings.
func (c *Config) UI() UIConfig {
	indent := c.getIntOr("ui.indent", 2)
	if indent < 0 || indent > MaxIndent {
		c.recordConfigError("ui.indent", &ValueError{
			Path: "ui.indent", Value: indent, Err: fmt.Errorf("must be between 0 and %d", MaxIndent),
		})
		indent = 2
	}
	return UIConfig{
		ShowTree:   c.getBoolOr("ui.showTree", false),
		Indent:     indent,
		SearchWrap: c.getBoolOr("ui.searchWrap", true),
		Theme:      c.theme(),
	}
}

func (c *Config) theme() Theme {
	d := defaultTheme()
	return Theme{
		Key:         c.getColorOr("ui.theme.key", d.Key),
		String:      c.getColorOr("ui.theme.string", d.String),
		Number:      c.getColorOr("ui.theme.number", d.Number),
		Bool:        c.getColorOr("ui.theme.bool", d.Bool),
		Null:        c.getColorOr("ui.theme.null", d.Null),
		Bracket:     c.getColorOr("ui.theme.bracket", d.Bracket),
		Border:      c.getColorOr("ui.theme.border", d.Border),
		FocusBorder: c.getColorOr("ui.theme.focusBorder", d.FocusBorder),
		Cursor:      c.getColorOr("ui.theme.cursor", d.Cursor),
		Error:       c.getColorOr("ui.theme.error", d.Error),
	}
}

// DefaultTheme returns the built-in colours.
func DefaultTheme() Theme {
	return defaultTheme()
}

func defaultTheme() Theme {
	m := defaultConfig()["ui"].(map[string]any)["theme"].(map[string]any)
	color := func(name string) core.Color {
		col, _ := core.ParseColor(m[name].(string))
		return col
	}
	return Theme{
		Key:         color("key"),
		String:      color("string"),
		Number:      color("number"),
		Bool:        color("bool"),
		Null:        color("null"),
		Bracket:     color("bracket"),
		Border:      color("border"),
		FocusBorder: color("focusBorder"),
		Cursor:      color("cursor"),
		Error:       color("error"),
	}
}

// Source returns the document loading settings.
func (c *Config) Source() SourceConfig {
	return SourceConfig{
		HTTPTimeout: c.getDurationOr("source.httpTimeout", 30*time.Second),
	}
}

// Watch returns the file watching settings.
func (c *Config) Watch() WatchConfig {
	return WatchConfig{
		Enabled:  c.getBoolOr("watch.enabled", false),
		Interval: c.getDurationOr("watch.interval", 250*time.Millisecond),
	}
}

// KeyBindings returns the key specs configured per action under [keys].
// Actions without an entry are absent; an entry replaces the default keys
// of its action.
func (c *Config) KeyBindings() map[string][]string {
	out := make(map[string][]string)
	for _, action := range c.Keys("keys") {
		path := "keys." + action
		specs, err := c.GetStringSlice(path)
		if err != nil {
			c.recordConfigError(path, err)
			continue
		}
		out[action] = specs
	}
	return out
}

// These methods only return the default for ErrSettingNotFound; other
// errors are recorded as configuration problems.

func (c *Config) getStringOr(path string, defaultValue string) string {
	v, err := c.GetString(path)
	if err != nil {
		c.noteError(path, err)
		return defaultValue
	}
	return v
}

func (c *Config) getIntOr(path string, defaultValue int) int {
	v, err := c.GetInt(path)
	if err != nil {
		c.noteError(path, err)
		return defaultValue
	}
	return v
}

func (c *Config) getBoolOr(path string, defaultValue bool) bool {
	v, err := c.GetBool(path)
	if err != nil {
		c.noteError(path, err)
		return defaultValue
	}
	return v
}

func (c *Config) getDurationOr(path string, defaultValue time.Duration) time.Duration {
	v, err := c.GetDuration(path)
	if err == nil && v <= 0 {
		err = &ValueError{Path: path, Value: v, Err: errors.New("must be positive")}
	}
	if err != nil {
		c.noteError(path, err)
		return defaultValue
	}
	return v
}

func (c *Config) getColorOr(path string, defaultValue core.Color) core.Color {
	s, err := c.GetString(path)
	if err != nil {
		c.noteError(path, err)
		return defaultValue
	}
	col, err := core.ParseColor(s)
	if err != nil {
		c.recordConfigError(path, &ValueError{Path: path, Value: s, Err: err})
		return defaultValue
	}
	return col
}

func (c *Config) noteError(path string, err error) {
	if !errors.Is(err, ErrSettingNotFound) {
		c.recordConfigError(path, err)
	}
}

// recordConfigError stores the first error seen for path.
func (c *Config) recordConfigError(path string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.configErrors == nil {
		c.configErrors = make(map[string]error)
	}
	if _, exists := c.configErrors[path]; !exists {
		c.configErrors[path] = err
	}
}

// ConfigErrors returns configuration errors encountered by the section
// accessors since the last Load.
func (c *Config) ConfigErrors() map[string]error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.configErrors == nil {
		return nil
	}
	result := make(map[string]error, len(c.configErrors))
	for k, v := range c.configErrors {
		result[k] = v
	}
	return result
}
