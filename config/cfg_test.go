package config

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/rupor-github/gencfg"
)

func TestLoadConfiguration_NoFile(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() with empty path error = %v", err)
	}
	if cfg.Version != 1 {
		t.Errorf("Default config version = %d, want 1", cfg.Version)
	}

	g := cfg.Document.Gloss
	if g.Container != "gloss" {
		t.Errorf("Container = %q, want %q", g.Container, "gloss")
	}
	if g.ClassPrefix != "gloss" {
		t.Errorf("ClassPrefix = %q, want %q", g.ClassPrefix, "gloss")
	}
	if !g.IDs {
		t.Error("IDs should be enabled by default")
	}
	if g.UnsafeHTML {
		t.Error("UnsafeHTML should be disabled by default")
	}
	if !slices.Equal(g.Extensions, []string{"gfm", "footnote"}) {
		t.Errorf("Extensions = %v", g.Extensions)
	}
	if cfg.Document.Workers != 0 {
		t.Errorf("Workers = %d, want 0", cfg.Document.Workers)
	}
}

func TestLoadConfiguration_WithFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	configContent := `version: 1
document:
  workers: 3
  gloss:
    container: example
    class_prefix: ex
    ids: false
    normalize: true
    extensions: [table, typographer]
logging:
  console:
    level: debug
  file:
    level: normal
    destination: /tmp/test.log
    mode: append
reporting:
  destination: /tmp/test-report.zip
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := LoadConfiguration(configPath)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if cfg.Document.Workers != 3 {
		t.Errorf("Workers = %d, want 3", cfg.Document.Workers)
	}
	g := cfg.Document.Gloss
	if g.Container != "example" || g.ClassPrefix != "ex" {
		t.Errorf("Container, ClassPrefix = %q, %q", g.Container, g.ClassPrefix)
	}
	if g.IDs || !g.Normalize {
		t.Errorf("IDs, Normalize = %v, %v", g.IDs, g.Normalize)
	}
	if !slices.Equal(g.Extensions, []string{"table", "typographer"}) {
		t.Errorf("Extensions = %v", g.Extensions)
	}
	if cfg.Logging.FileLogger.Mode != "append" {
		t.Errorf("FileLogger.Mode = %q, want append", cfg.Logging.FileLogger.Mode)
	}
}

func TestLoadConfiguration_MergeWithDefaults(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "partial.yaml")

	partialConfig := `version: 1
document:
  gloss:
    class_prefix: igt
`
	if err := os.WriteFile(configPath, []byte(partialConfig), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := LoadConfiguration(configPath)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	if cfg.Document.Gloss.ClassPrefix != "igt" {
		t.Errorf("ClassPrefix = %q, want igt", cfg.Document.Gloss.ClassPrefix)
	}
	if cfg.Document.Gloss.Container != "gloss" {
		t.Errorf("Container = %q, default expected", cfg.Document.Gloss.Container)
	}
	if cfg.Logging.ConsoleLogger.Level != "normal" {
		t.Errorf("ConsoleLogger.Level = %q, default expected", cfg.Logging.ConsoleLogger.Level)
	}
}

func TestLoadConfiguration_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"invalid yaml", "version: 1\ndocument:\n  workers: 1\n  invalid indent\n"},
		{"unknown field", "version: 1\nunknown_field: value\n"},
		{"unknown nested field", "version: 1\ndocument:\n  gloss:\n    fence: 4\n"},
		{"bad version", "version: 2\n"},
		{"negative workers", "version: 1\ndocument:\n  workers: -1\n"},
		{"empty container", "version: 1\ndocument:\n  gloss:\n    container: \"\"\n"},
		{"unknown extension", "version: 1\ndocument:\n  gloss:\n    extensions: [mermaid]\n"},
		{"bad log level", "version: 1\nlogging:\n  console:\n    level: verbose\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(configPath, []byte(tt.content), 0644); err != nil {
				t.Fatalf("Failed to write config file: %v", err)
			}
			if _, err := LoadConfiguration(configPath); err == nil {
				t.Error("LoadConfiguration() expected error")
			}
		})
	}
}

func TestLoadConfiguration_NonExistentFile(t *testing.T) {
	_, err := LoadConfiguration("/nonexistent/config.yaml")
	if err == nil {
		t.Fatal("Expected error for nonexistent file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error = %v, want wrapped os.ErrNotExist", err)
	}
}

func TestLoadConfiguration_WithOptions(t *testing.T) {
	option := func(opts *gencfg.ProcessingOptions) {}

	cfg, err := LoadConfiguration("", option)
	if err != nil {
		t.Fatalf("LoadConfiguration() with options error = %v", err)
	}
	if cfg == nil {
		t.Fatal("LoadConfiguration() returned nil config")
	}
}

func TestPrepare(t *testing.T) {
	data, err := Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if len(data) == 0 {
		t.Fatal("Prepare() returned empty data")
	}
	cfg := &Config{}
	if err := decode(data, cfg); err != nil {
		t.Fatalf("Prepared config cannot be decoded: %v", err)
	}
	if err := validate(cfg); err != nil {
		t.Errorf("Prepared config is not valid: %v", err)
	}
}

func TestDump(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	cfg.Document.Gloss.ClassPrefix = "dumped"

	data, err := Dump(cfg)
	if err != nil {
		t.Fatalf("Dump() error = %v", err)
	}

	cfg2 := &Config{}
	if err := decode(data, cfg2); err != nil {
		t.Fatalf("Dumped config cannot be loaded: %v", err)
	}
	if cfg2.Document.Gloss.ClassPrefix != "dumped" {
		t.Errorf("ClassPrefix after dump = %q, want dumped", cfg2.Document.Gloss.ClassPrefix)
	}
}

func TestOutputFmt(t *testing.T) {
	tests := []struct {
		name  string
		fmt   OutputFmt
		ext   string
		xhtml bool
	}{
		{"html", OutputFmtHtml, ".html", false},
		{"xhtml", OutputFmtXhtml, ".xhtml", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fmt.String(); got != tt.name {
				t.Errorf("String() = %q, want %q", got, tt.name)
			}
			if got := tt.fmt.Ext(); got != tt.ext {
				t.Errorf("Ext() = %q, want %q", got, tt.ext)
			}
			if got := tt.fmt.AsXHTML(); got != tt.xhtml {
				t.Errorf("AsXHTML() = %v, want %v", got, tt.xhtml)
			}
			parsed, err := ParseOutputFmt(tt.name)
			if err != nil || parsed != tt.fmt {
				t.Errorf("ParseOutputFmt(%q) = %v, %v", tt.name, parsed, err)
			}
		})
	}

	if _, err := ParseOutputFmt("epub"); !errors.Is(err, ErrInvalidOutputFmt) {
		t.Errorf("ParseOutputFmt(epub) error = %v, want ErrInvalidOutputFmt", err)
	}
	if got := OutputFmt(7).String(); got != "OutputFmt(7)" {
		t.Errorf("String() = %q", got)
	}
	if names := OutputFmtNames(); !slices.Equal(names, []string{"html", "xhtml"}) {
		t.Errorf("OutputFmtNames() = %v", names)
	}
}

func TestOutputFmt_ExtPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Ext() on invalid format did not panic")
		}
	}()
	_ = OutputFmt(42).Ext()
}
