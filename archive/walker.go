// Package archive builds Walk abstraction on top of "archive/zip".
package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"path"
	"slices"
	"strings"

	"github.com/maruel/natural"
)

// ErrUnsafePath is returned for archive entries with absolute paths or path
// traversal components.
var ErrUnsafePath = errors.New("unsafe path (absolute or contains path traversal)")

// WalkFunc is the type of the function called for each file in archive
// visited by Walk. The archive argument contains path to archive passed to
// Walk. If an error is returned, processing stops.
type WalkFunc func(archive string, file *zip.File) error

// Walk calls walkFn for every file in the archive located under pattern: the
// pattern is either a file path inside archive or a directory, empty pattern
// matches everything. Files are visited in natural order of their names, so
// "ch2.md" comes before "ch10.md". Archives with unsafe entries are rejected
// to prevent Zip Slip attacks.
func Walk(archive, pattern string, walkFn WalkFunc) error {

	r, err := zip.OpenReader(archive)
	if err != nil {
		return err
	}
	defer r.Close()

	files := make([]*zip.File, 0, len(r.File))
	for _, f := range r.File {
		name := f.FileHeader.Name
		if !isSafePath(name) {
			return fmt.Errorf("zip entry %q: %w", name, ErrUnsafePath)
		}
		if !f.FileInfo().IsDir() && matches(name, pattern) {
			files = append(files, f)
		}
	}
	slices.SortStableFunc(files, func(a, b *zip.File) int {
		switch {
		case a.Name == b.Name:
			return 0
		case natural.Less(a.Name, b.Name):
			return -1
		default:
			return 1
		}
	})

	for _, f := range files {
		if err := walkFn(archive, f); err != nil {
			return err
		}
	}
	return nil
}

func matches(name, pattern string) bool {
	pattern = strings.Trim(pattern, "/")
	if pattern == "" || name == pattern {
		return true
	}
	return strings.HasPrefix(name, pattern+"/")
}

// isSafePath returns false for paths that could escape the extraction
// directory: absolute paths and those containing ".." components.
func isSafePath(name string) bool {
	if path.IsAbs(name) || strings.HasPrefix(name, `\`) {
		return false
	}
	return !slices.Contains(strings.Split(name, "/"), "..")
}
