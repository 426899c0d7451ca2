package convert

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/gosimple/slug"

	"glossa/config"
	"glossa/state"
)

// buildOutputPath returns output file path for the document. "src" is
// document path relative to the processed source (see processDocument). When
// directory structure is kept, directory names are cleaned and, if requested,
// transliterated the same way as file names.
func buildOutputPath(src, dst string, format config.OutputFmt, env *state.LocalEnv) string {
	parts := []string{dst}
	if !env.NoDirs {
		for _, segment := range splitPath(filepath.Dir(src)) {
			parts = append(parts, cleanPathSegment(segment, env))
		}
	}
	parts = append(parts, buildDefaultFileName(src, format, env))
	return filepath.Join(parts...)
}

func buildDefaultFileName(src string, format config.OutputFmt, env *state.LocalEnv) string {
	baseName := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	return cleanPathSegment(baseName, env) + format.Ext()
}

// splitPath returns path segments, "." and empty path have none.
func splitPath(path string) []string {
	path = filepath.Clean(path)
	if path == "." || path == string(filepath.Separator) {
		return nil
	}
	segments := make([]string, 0, 8)
	for head, tail := filepath.Split(path); tail != ""; head, tail = filepath.Split(head) {
		segments = slices.Insert(segments, 0, tail)
		head = strings.TrimSuffix(head, string(filepath.Separator))
		if head == "" {
			break
		}
	}
	return segments
}

func cleanPathSegment(segment string, env *state.LocalEnv) string {
	if env.Cfg.Document.FileNameTransliterate {
		segment = slug.Make(segment)
	}
	return config.CleanFileName(segment)
}
