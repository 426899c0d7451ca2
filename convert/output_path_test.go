package convert

import (
	"path/filepath"
	"slices"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"glossa/config"
	"glossa/state"
)

func setupTestEnvForOutputPath(t *testing.T, noDirs bool, transliterate bool) *state.LocalEnv {
	t.Helper()
	logger := zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	cfg.Document.FileNameTransliterate = transliterate

	return &state.LocalEnv{
		Log:    logger,
		Cfg:    cfg,
		NoDirs: noDirs,
	}
}

func TestBuildOutputPath(t *testing.T) {
	dst := filepath.Join("out", "dir")

	tests := []struct {
		name          string
		src           string
		noDirs        bool
		transliterate bool
		format        config.OutputFmt
		expected      string
	}{
		{"simple no dirs", "doc.md", true, false, config.OutputFmtXhtml, filepath.Join(dst, "doc.xhtml")},
		{"nested no dirs", filepath.Join("a", "b", "doc.md"), true, false, config.OutputFmtHtml, filepath.Join(dst, "doc.html")},
		{"nested with dirs", filepath.Join("a", "b", "doc.md"), false, false, config.OutputFmtHtml, filepath.Join(dst, "a", "b", "doc.html")},
		{"transliterate dirs", filepath.Join("Грамматика", "Урок.md"), false, true, config.OutputFmtXhtml, filepath.Join(dst, "grammatika", "urok.xhtml")},
		{"keep names", filepath.Join("Грамматика", "Урок.md"), false, false, config.OutputFmtXhtml, filepath.Join(dst, "Грамматика", "Урок.xhtml")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestEnvForOutputPath(t, tt.noDirs, tt.transliterate)

			if result := buildOutputPath(tt.src, dst, tt.format, env); result != tt.expected {
				t.Errorf("buildOutputPath() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestBuildDefaultFileName(t *testing.T) {
	tests := []struct {
		name          string
		src           string
		transliterate bool
		format        config.OutputFmt
		expected      string
	}{
		{"simple html", "doc.md", false, config.OutputFmtHtml, "doc.html"},
		{"with path", "path/to/doc.markdown", false, config.OutputFmtXhtml, "doc.xhtml"},
		{"dotted name", "ch.1.md", false, config.OutputFmtHtml, "ch.1.html"},
		{"transliterate", "Глоссы.md", true, config.OutputFmtHtml, "glossy.html"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestEnvForOutputPath(t, true, tt.transliterate)

			if result := buildDefaultFileName(tt.src, tt.format, env); result != tt.expected {
				t.Errorf("buildDefaultFileName() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestSplitPath(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected []string
	}{
		{"simple path", "author/book", []string{"author", "book"}},
		{"single segment", "book", []string{"book"}},
		{"with trailing slash", "author/book/", []string{"author", "book"}},
		{"three levels", "genre/author/book", []string{"genre", "author", "book"}},
		{"current dir", ".", nil},
		{"empty path", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := splitPath(filepath.FromSlash(tt.path)); !slices.Equal(result, tt.expected) {
				t.Errorf("splitPath() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestCleanPathSegment(t *testing.T) {
	tests := []struct {
		name          string
		segment       string
		transliterate bool
		expected      string
	}{
		{"simple segment", "texts", false, "texts"},
		{"with spaces", "My Texts", false, "My Texts"},
		{"transliterate cyrillic", "Тексты", true, "teksty"},
		{"leading dots", "..hidden", false, "hidden"},
		{"only dots", "..", false, "_bad_file_name_"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestEnvForOutputPath(t, true, tt.transliterate)

			if result := cleanPathSegment(tt.segment, env); result != tt.expected {
				t.Errorf("cleanPathSegment() = %q, want %q", result, tt.expected)
			}
		})
	}
}
