// Package gloss turns a flattened stream of inline content into an
// interlinear gloss: an optional caption, rows tagged by role and the same rows
// transposed into word-aligned columns.
package gloss

import "strings"

// Inline is a single element of the stream handed to ExtractLines. It is one
// of Text, *Rich or Break.
type Inline interface {
	inline()
}

// Span is an atomic unit of content inside a word. It is either Text or *Rich.
type Span interface {
	Inline
	span()
}

// Text is plain text. It may contain whitespace and newlines until
// ExtractLines splits it into words.
type Text string

func (Text) inline() {}
func (Text) span()   {}

// Break is an explicit line break marker.
type Break struct{}

func (Break) inline() {}

// RichKind distinguishes rich inline content kinds.
type RichKind string

const (
	RichEmphasis      RichKind = "emphasis"
	RichStrong        RichKind = "strong"
	RichCode          RichKind = "code"
	RichStrikethrough RichKind = "strikethrough"
	RichLink          RichKind = "link"
	RichImage         RichKind = "image"
	RichRaw           RichKind = "raw"
	RichStyle         RichKind = "style"
)

// Rich is styled or linked inline content. The engine never looks inside it,
// it is carried as a single token.
type Rich struct {
	Kind     RichKind
	Text     string // code text, raw markup or image alt text
	Href     string
	Title    string
	Class    string
	Children []Span
}

func (*Rich) inline() {}
func (*Rich) span()   {}

// PlainText returns text content of the rich span and all its children.
func (r *Rich) PlainText() string {
	if r == nil {
		return ""
	}
	if len(r.Children) == 0 {
		return r.Text
	}
	return SpansText(r.Children)
}

// Word is a non-empty sequence of spans without whitespace between them.
type Word []Span

// String returns plain text of the word.
func (w Word) String() string {
	return SpansText(w)
}

// SpansText concatenates plain text of spans.
func SpansText(spans []Span) string {
	var buf strings.Builder
	for _, s := range spans {
		switch v := s.(type) {
		case Text:
			buf.WriteString(string(v))
		case *Rich:
			buf.WriteString(v.PlainText())
		default:
			// this should never happen
			panic("unexpected span type")
		}
	}
	return buf.String()
}
