package config

import (
	"os"
	"strings"
	"unicode"
)

const badFileName = "_bad_file_name_"

// CleanFileName removes characters not allowed in file names on the current
// platform together with control characters. Leading dots are removed so
// produced names are never hidden or relative, trailing dots and spaces are
// removed as some file systems ignore them.
func CleanFileName(in string) string {
	reserved := reservedNameChars + string(os.PathSeparator) + string(os.PathListSeparator)
	out := strings.Map(func(sym rune) rune {
		if unicode.IsControl(sym) || strings.ContainsRune(reserved, sym) {
			return -1
		}
		return sym
	}, in)
	out = strings.TrimRight(strings.TrimLeft(out, "."), ". ")
	if len(out) == 0 {
		return badFileName
	}
	return out
}
