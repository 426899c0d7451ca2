// Package xhtml builds XHTML element trees for formatted glosses and wraps
// rendered content into complete documents.
package xhtml

import (
	"github.com/beevik/etree"

	"glossa/gloss"
)

const defaultClassPrefix = "gloss"

// Options controls gloss markup.
type Options struct {
	// ClassPrefix is used for all class names, "gloss" when empty.
	ClassPrefix string
	// ID is set on the gloss element when not empty.
	ID string
}

// AppendGloss appends gloss element to parent and returns it. The element
// holds optional caption, a body with one element per column (each column
// has one span per row, tagged by row role) and optional footer. Absent
// cells are rendered as empty spans.
func AppendGloss(parent *etree.Element, res *gloss.Result, opts Options) *etree.Element {
	prefix := opts.ClassPrefix
	if prefix == "" {
		prefix = defaultClassPrefix
	}

	div := parent.CreateElement("div")
	div.CreateAttr("class", prefix)
	if opts.ID != "" {
		div.CreateAttr("id", opts.ID)
	}

	if h := res.Gloss.Header; h != nil {
		p := div.CreateElement("p")
		p.CreateAttr("class", prefix+"-caption")
		appendSpans(p, h.Spans)
	}

	body := div.CreateElement("div")
	body.CreateAttr("class", prefix+"-body")
	for _, col := range res.Columns {
		column := body.CreateElement("div")
		column.CreateAttr("class", prefix+"-column")
		for _, cell := range col.Cells {
			span := column.CreateElement("span")
			if cell.Absent {
				span.CreateAttr("class", prefix+"-"+cell.Role.String()+" "+prefix+"-absent")
				continue
			}
			span.CreateAttr("class", prefix+"-"+cell.Role.String())
			appendSpans(span, cell.Word)
		}
	}

	if f := res.Gloss.Footer; f != nil {
		p := div.CreateElement("p")
		p.CreateAttr("class", prefix+"-footer")
		appendSpans(p, f.Spans)
	}
	return div
}

func appendSpans(parent *etree.Element, spans []gloss.Span) {
	for _, s := range spans {
		switch v := s.(type) {
		case gloss.Text:
			appendText(parent, string(v))
		case *gloss.Rich:
			appendRich(parent, v)
		default:
			// this should never happen
			panic("unexpected span type")
		}
	}
}

// appendText adds text after the last child element or to the element text
// when there are no child elements yet.
func appendText(parent *etree.Element, text string) {
	if text == "" {
		return
	}
	children := parent.ChildElements()
	if len(children) == 0 {
		parent.SetText(parent.Text() + text)
		return
	}
	last := children[len(children)-1]
	last.SetTail(last.Tail() + text)
}

func appendRich(parent *etree.Element, r *gloss.Rich) {
	switch r.Kind {
	case gloss.RichEmphasis:
		appendSpans(parent.CreateElement("em"), r.Children)
	case gloss.RichStrong:
		appendSpans(parent.CreateElement("strong"), r.Children)
	case gloss.RichStrikethrough:
		appendSpans(parent.CreateElement("del"), r.Children)
	case gloss.RichCode:
		code := parent.CreateElement("code")
		code.SetText(r.Text)
	case gloss.RichLink:
		a := parent.CreateElement("a")
		if r.Href != "" {
			a.CreateAttr("href", r.Href)
		}
		if r.Title != "" {
			a.CreateAttr("title", r.Title)
		}
		appendSpans(a, r.Children)
	case gloss.RichImage:
		img := parent.CreateElement("img")
		img.CreateAttr("src", r.Href)
		img.CreateAttr("alt", r.Text)
		if r.Title != "" {
			img.CreateAttr("title", r.Title)
		}
	case gloss.RichRaw:
		// markup fragments cannot be placed into the tree, keep them as text
		appendText(parent, r.Text)
	default:
		span := parent.CreateElement("span")
		if r.Class != "" {
			span.CreateAttr("class", r.Class)
		}
		appendSpans(span, r.Children)
	}
}
