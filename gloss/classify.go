package gloss

import (
	"fmt"
	"regexp"
)

// Role of a line within gloss.
type Role int

const (
	RoleText Role = iota
	RoleTransliteration
	RoleGloss
	RoleMeta
)

var roleNames = map[Role]string{
	RoleText:            "text",
	RoleTransliteration: "transliteration",
	RoleGloss:           "gloss",
	RoleMeta:            "meta",
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Role(%d)", int(r))
}

var linePrefix = regexp.MustCompile(`^[|/=]\s*`)

func markerRole(marker byte) Role {
	switch marker {
	case '|':
		return RoleMeta
	case '/':
		return RoleTransliteration
	case '=':
		return RoleGloss
	default:
		// this should never happen
		panic(fmt.Sprintf("unexpected line marker %q", marker))
	}
}

// ClassifiedLine is a line with its role determined and marker removed. For
// meta lines content is kept in Spans, otherwise in Words.
type ClassifiedLine struct {
	Role   Role
	Words  []Word
	Spans  []Span
	Source int
}

// Classify looks at the first span of the line and if it starts with one of
// the markers strips it and assigns corresponding role. Lines without marker
// are text lines. Input is never modified.
func Classify(line Line) ClassifiedLine {
	res := ClassifiedLine{Role: RoleText, Words: line.Words, Source: line.Source}
	if len(line.Words) == 0 || len(line.Words[0]) == 0 {
		return res
	}
	first, ok := line.Words[0][0].(Text)
	if !ok {
		return res
	}
	loc := linePrefix.FindStringIndex(string(first))
	if loc == nil {
		return res
	}
	res.Role = markerRole(first[0])

	rest := first[loc[1]:]
	word := make(Word, 0, len(line.Words[0]))
	if rest != "" {
		word = append(word, rest)
	}
	word = append(word, line.Words[0][1:]...)

	words := make([]Word, 0, len(line.Words))
	if len(word) > 0 {
		words = append(words, word)
	}
	words = append(words, line.Words[1:]...)

	if res.Role == RoleMeta {
		res.Words = nil
		res.Spans = flatten(words)
		return res
	}
	res.Words = words
	return res
}

// flatten joins words into a single span sequence separated by spaces.
func flatten(words []Word) []Span {
	spans := make([]Span, 0, len(words)*2)
	for i, w := range words {
		if i > 0 {
			spans = append(spans, Text(" "))
		}
		spans = append(spans, w...)
	}
	return spans
}
