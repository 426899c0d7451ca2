package markdown

import (
	"bytes"
	"html"
	"strings"

	"github.com/yuin/goldmark/ast"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/util"
	"golang.org/x/text/unicode/norm"

	"glossa/gloss"
)

// inlineConverter turns goldmark inline nodes into gloss inline stream.
type inlineConverter struct {
	source    []byte
	normalize bool
}

// blockStream returns inline content of all lines of the container, lines
// are separated by explicit breaks.
func (c *inlineConverter) blockStream(b *Block) []gloss.Inline {
	var (
		stream []gloss.Inline
		first  = true
	)
	for l := b.FirstChild(); l != nil; l = l.NextSibling() {
		if _, ok := l.(*Line); !ok {
			continue
		}
		if !first {
			stream = append(stream, gloss.Break{})
		}
		first = false
		for n := l.FirstChild(); n != nil; n = n.NextSibling() {
			span, lineBreak := c.convert(n)
			if span != nil {
				stream = append(stream, span)
			}
			if lineBreak {
				stream = append(stream, gloss.Break{})
			}
		}
	}
	return stream
}

// spans converts children of rich node. Line breaks inside rich content
// become spaces as rich content is never split.
func (c *inlineConverter) spans(parent ast.Node) []gloss.Span {
	var out []gloss.Span
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		span, lineBreak := c.convert(n)
		if span != nil {
			out = append(out, span)
		}
		if lineBreak {
			out = append(out, gloss.Text(" "))
		}
	}
	return out
}

func (c *inlineConverter) text(v []byte) gloss.Text {
	if c.normalize {
		return gloss.Text(norm.NFC.String(string(v)))
	}
	return gloss.Text(v)
}

// resolve replaces backslash escapes, numeric and named character references
// with characters they stand for.
func resolve(v []byte) []byte {
	return util.ResolveEntityNames(util.ResolveNumericReferences(util.UnescapePunctuations(v)))
}

// codeText returns code span content as written in source.
func (c *inlineConverter) codeText(n *ast.CodeSpan) string {
	var buf bytes.Buffer
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		t, ok := child.(*ast.Text)
		if !ok {
			continue
		}
		value := t.Segment.Value(c.source)
		if bytes.HasSuffix(value, []byte("\n")) {
			buf.Write(value[:len(value)-1])
			buf.WriteByte(' ')
			continue
		}
		buf.Write(value)
	}
	return buf.String()
}

func (c *inlineConverter) convert(n ast.Node) (gloss.Span, bool) {
	switch v := n.(type) {
	case *ast.Text:
		var span gloss.Span
		value := v.Segment.Value(c.source)
		if !v.IsRaw() {
			value = resolve(value)
		}
		if len(value) > 0 {
			span = c.text(value)
		}
		return span, v.SoftLineBreak() || v.HardLineBreak()
	case *ast.String:
		if len(v.Value) == 0 {
			return nil, false
		}
		switch {
		case v.IsCode():
			// typographer emits entities meant to be written as is
			return c.text([]byte(html.UnescapeString(string(v.Value)))), false
		case v.IsRaw():
			return c.text(v.Value), false
		}
		return c.text(resolve(v.Value)), false
	case *ast.Emphasis:
		kind := gloss.RichEmphasis
		if v.Level >= 2 {
			kind = gloss.RichStrong
		}
		return &gloss.Rich{Kind: kind, Children: c.spans(v)}, false
	case *ast.CodeSpan:
		return &gloss.Rich{Kind: gloss.RichCode, Text: c.codeText(v)}, false
	case *ast.Link:
		return &gloss.Rich{
			Kind:     gloss.RichLink,
			Href:     string(v.Destination),
			Title:    string(v.Title),
			Children: c.spans(v),
		}, false
	case *ast.AutoLink:
		return &gloss.Rich{
			Kind:     gloss.RichLink,
			Href:     string(v.URL(c.source)),
			Children: []gloss.Span{c.text(v.Label(c.source))},
		}, false
	case *ast.Image:
		return &gloss.Rich{
			Kind:  gloss.RichImage,
			Href:  string(v.Destination),
			Title: string(v.Title),
			Text:  gloss.SpansText(c.spans(v)),
		}, false
	case *ast.RawHTML:
		var buf strings.Builder
		for i := 0; i < v.Segments.Len(); i++ {
			seg := v.Segments.At(i)
			buf.Write(seg.Value(c.source))
		}
		return &gloss.Rich{Kind: gloss.RichRaw, Text: buf.String()}, false
	case *extast.Strikethrough:
		return &gloss.Rich{Kind: gloss.RichStrikethrough, Children: c.spans(v)}, false
	default:
		// inline kinds introduced by other extensions are kept as styled spans
		return &gloss.Rich{
			Kind:     gloss.RichStyle,
			Class:    strings.ToLower(n.Kind().String()),
			Children: c.spans(n),
		}, false
	}
}

// plainText collects text of inline children, used for document titles.
func plainText(n ast.Node, source []byte) string {
	c := &inlineConverter{source: source}
	return strings.TrimSpace(gloss.SpansText(c.spans(n)))
}
