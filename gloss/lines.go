package gloss

import (
	"regexp"
	"strings"
)

// Word delimiters are ASCII whitespace and Unicode space separators except
// the non-breaking ones (U+00A0, U+2007, U+202F), which keep parts of a word
// together.
var wordDelimiter = regexp.MustCompile(`[\t\n\v\f\r \x{1680}\x{2000}-\x{2006}\x{2008}-\x{200A}\x{205F}\x{3000}]+`)

// Line is a sequence of words between line breaks.
type Line struct {
	Words []Word
	// Source is the ordinal of the physical line (number of breaks seen
	// before it) the line started on.
	Source int
}

// lineBuilder accumulates words and lines while walking the inline stream.
type lineBuilder struct {
	lines    []Line
	words    []Word
	word     Word
	physical int
	start    int
}

func (b *lineBuilder) endWord() {
	if len(b.word) > 0 {
		b.words = append(b.words, b.word)
	}
	b.word = nil
}

func (b *lineBuilder) endLine() {
	b.endWord()
	if len(b.words) > 0 {
		b.lines = append(b.lines, Line{Words: b.words, Source: b.start})
	}
	b.words = nil
	b.physical++
	b.start = b.physical
}

func (b *lineBuilder) addText(fragment string) {
	for i, piece := range wordDelimiter.Split(fragment, -1) {
		if i > 0 {
			b.endWord()
		}
		if piece != "" {
			b.word = append(b.word, Text(piece))
		}
	}
}

// ExtractLines splits inline stream into lines of words. Both Break and a
// newline inside Text end the current line. Rich content is never split and
// joins the word being built. Empty words and lines are dropped.
func ExtractLines(stream []Inline) []Line {
	b := &lineBuilder{}
	for _, in := range stream {
		switch v := in.(type) {
		case Break:
			b.endLine()
		case Text:
			for i, fragment := range strings.Split(string(v), "\n") {
				if i > 0 {
					b.endLine()
				}
				b.addText(fragment)
			}
		case *Rich:
			if v != nil {
				b.word = append(b.word, v)
			}
		default:
			// this should never happen
			panic("unexpected inline type")
		}
	}
	b.endLine()
	return b.lines
}
