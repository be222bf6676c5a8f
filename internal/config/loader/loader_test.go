package loader

import (
	"errors"
	"io/fs"
	"strings"
	"testing"
	"time"
)

// memFS is an in-memory file system for testing.
type memFS map[string]string

func (m memFS) ReadFile(path string) ([]byte, error) {
	data, ok := m[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return []byte(data), nil
}

func (m memFS) Stat(path string) (fs.FileInfo, error) {
	return nil, fs.ErrNotExist
}

func TestTOMLLoader_Load(t *testing.T) {
	fsys := memFS{"/config.toml": `
[ui]
showTree = true
indent = 4

[ui.theme]
key = "#5fafff"

[keys]
quit = ["Esc", "Ctrl+C"]
`}

	config, err := NewTOMLLoaderWithFS(fsys, "/config.toml").Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if v, _ := GetByPath(config, "ui.showTree"); v != true {
		t.Errorf("ui.showTree = %v, want true", v)
	}
	if v, _ := GetByPath(config, "ui.indent"); v != int64(4) {
		t.Errorf("ui.indent = %v (%T), want 4", v, v)
	}
	if v, _ := GetByPath(config, "ui.theme.key"); v != "#5fafff" {
		t.Errorf("ui.theme.key = %v", v)
	}
	if v, _ := GetByPath(config, "keys.quit"); len(v.([]any)) != 2 {
		t.Errorf("keys.quit = %v", v)
	}
}

func TestTOMLLoader_ParseError(t *testing.T) {
	fsys := memFS{"/bad.toml": "[ui\nindent = 4\n"}

	_, err := NewTOMLLoaderWithFS(fsys, "/bad.toml").Load()
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("err = %v, want *ParseError", err)
	}
	if perr.Path != "/bad.toml" || perr.Line == 0 {
		t.Errorf("ParseError = %+v", perr)
	}
}

func TestLoaders_MissingFile(t *testing.T) {
	for _, path := range []string{"/none.toml", "/none.yaml"} {
		l, err := ForPath(memFS{}, path)
		if err != nil {
			t.Fatalf("ForPath(%q): %v", path, err)
		}
		config, err := l.Load()
		if config != nil || err != nil {
			t.Errorf("Load(%q) = %v, %v; want nil, nil", path, config, err)
		}
	}
}

func TestYAMLLoader_Load(t *testing.T) {
	fsys := memFS{"/config.yml": `
logging:
  level: debug
watch:
  enabled: true
  interval: 1s
keys:
  search: "/"
`}

	l, err := ForPath(fsys, "/config.yml")
	if err != nil {
		t.Fatal(err)
	}
	config, err := l.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if v, _ := GetByPath(config, "logging.level"); v != "debug" {
		t.Errorf("logging.level = %v", v)
	}
	if v, _ := GetByPath(config, "watch.enabled"); v != true {
		t.Errorf("watch.enabled = %v", v)
	}
	if v, _ := GetByPath(config, "watch.interval"); v != "1s" {
		t.Errorf("watch.interval = %v", v)
	}
}

func TestYAMLLoader_Reader(t *testing.T) {
	config, err := NewYAMLLoader("").LoadFromReader(strings.NewReader("ui:\n  1: one\n"))
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := GetByPath(config, "ui.1"); v != "one" {
		t.Errorf("ui.1 = %v", v)
	}

	_, err = NewYAMLLoader("").LoadFromReader(strings.NewReader("ui: [\n"))
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Errorf("err = %v, want *ParseError", err)
	}
}

func TestForPath_Unsupported(t *testing.T) {
	if _, err := ForPath(nil, "/config.ini"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("err = %v, want ErrUnsupportedFormat", err)
	}
}

func TestDeepMerge(t *testing.T) {
	dst := map[string]any{
		"ui":      map[string]any{"indent": 2, "showTree": false},
		"logging": map[string]any{"level": "info"},
	}
	src := map[string]any{
		"ui":   map[string]any{"showTree": true},
		"keys": map[string]any{"quit": "q"},
	}

	got := DeepMerge(dst, src)
	if v, _ := GetByPath(got, "ui.indent"); v != 2 {
		t.Errorf("ui.indent = %v, want 2", v)
	}
	if v, _ := GetByPath(got, "ui.showTree"); v != true {
		t.Errorf("ui.showTree = %v, want true", v)
	}
	if v, _ := GetByPath(got, "keys.quit"); v != "q" {
		t.Errorf("keys.quit = %v", v)
	}

	// src maps are copied, not aliased.
	src["keys"].(map[string]any)["quit"] = "x"
	if v, _ := GetByPath(got, "keys.quit"); v != "q" {
		t.Errorf("merged map aliases src: keys.quit = %v", v)
	}
}

func TestClone(t *testing.T) {
	src := map[string]any{"a": map[string]any{"b": []any{1, map[string]any{"c": 2}}}}
	dst := Clone(src)
	dst["a"].(map[string]any)["b"].([]any)[1].(map[string]any)["c"] = 3
	if v, _ := GetByPath(src, "a.b"); v.([]any)[1].(map[string]any)["c"] != 2 {
		t.Error("Clone shares nested values")
	}
	if Clone(nil) != nil {
		t.Error("Clone(nil) != nil")
	}
}

func TestEnvLoader_Load(t *testing.T) {
	l := NewEnvLoader(DefaultEnvPrefix)
	l.environ = func() []string {
		return []string{
			"JEX_LOG_LEVEL=debug",
			"JEX_INDENT=4",
			"JEX_WATCH=yes",
			"JEX_WATCH_INTERVAL=500ms",
			"JEX_UI_SHOW_TREE=true",
			"JEX_CONFIG=/etc/jex.toml",
			"HOME=/root",
			"JEX_=ignored",
		}
	}

	config, err := l.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	tests := []struct {
		path string
		want any
	}{
		{"logging.level", "debug"},
		{"ui.indent", int64(4)},
		{"watch.enabled", true},
		{"watch.interval", 500 * time.Millisecond},
		{"ui.showTree", true},
	}
	for _, tt := range tests {
		if got, _ := GetByPath(config, tt.path); got != tt.want {
			t.Errorf("%s = %v (%T), want %v", tt.path, got, got, tt.want)
		}
	}
	if _, ok := config["config"]; ok {
		t.Error("JEX_CONFIG loaded as a setting")
	}
	if len(config) != 3 {
		t.Errorf("sections = %v, want logging, ui, watch", config)
	}
}

func TestEnvLoader_envToPath(t *testing.T) {
	l := NewEnvLoader("JEX_")

	tests := []struct {
		env      string
		expected string
	}{
		{"JEX_WATCH_INTERVAL", "watch.interval"},
		{"JEX_UI_SHOW_TREE", "ui.showTree"},
		{"JEX_SIMPLE", "simple"},
		{"JEX_SOURCE_HTTP_TIMEOUT", "source.httpTimeout"},
	}
	for _, tt := range tests {
		if got := l.envToPath(tt.env); got != tt.expected {
			t.Errorf("envToPath(%q) = %q, want %q", tt.env, got, tt.expected)
		}
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		input    string
		expected any
	}{
		{"true", true},
		{"YES", true},
		{"off", false},
		{"1", int64(1)},
		{"-10", int64(-10)},
		{"3.14", 3.14},
		{"500ms", 500 * time.Millisecond},
		{"5m", 5 * time.Minute},
		{"hello", "hello"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := ParseValue(tt.input); got != tt.expected {
			t.Errorf("ParseValue(%q) = %v (%T), want %v (%T)", tt.input, got, got, tt.expected, tt.expected)
		}
	}

	if got, ok := ParseValue(`["Esc","q"]`).([]any); !ok || len(got) != 2 {
		t.Errorf("ParseValue(array) = %v", got)
	}
}
