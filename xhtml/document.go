package xhtml

import (
	"encoding/xml"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/beevik/etree"
)

const (
	contentMarker = "glossa-content"
	styleMarker   = "glossa-style"
)

// NewDocument creates a document skeleton with title and embedded stylesheet
// and returns it together with its body element. When asXHTML is false the
// document is prepared for HTML serialization.
func NewDocument(title string, stylesheet []byte, asXHTML bool) (*etree.Document, *etree.Element) {
	doc := etree.NewDocument()

	var html *etree.Element
	if asXHTML {
		doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
		doc.CreateDirective("DOCTYPE html")
		html = doc.CreateElement("html")
		html.CreateAttr("xmlns", "http://www.w3.org/1999/xhtml")
	} else {
		doc.CreateDirective("DOCTYPE html")
		html = doc.CreateElement("html")
	}

	head := html.CreateElement("head")

	meta := head.CreateElement("meta")
	meta.CreateAttr("http-equiv", "Content-Type")
	meta.CreateAttr("content", "text/html; charset=utf-8")

	if strings.TrimSpace(title) == "" {
		title = "Untitled"
	}
	titleElem := head.CreateElement("title")
	titleElem.SetText(title)

	if len(stylesheet) > 0 {
		style := head.CreateElement("style")
		style.CreateAttr("type", "text/css")
		style.SetText(string(stylesheet))
	}

	body := html.CreateElement("body")
	return doc, body
}

// AppendFragment parses rendered body content and moves it under parent.
func AppendFragment(parent *etree.Element, fragment []byte) error {
	frag := etree.NewDocument()
	frag.ReadSettings.Entity = xml.HTMLEntity
	if err := frag.ReadFromString("<body>" + string(fragment) + "</body>"); err != nil {
		return fmt.Errorf("unable to parse rendered content: %w", err)
	}
	root := frag.Root()
	if root == nil {
		return nil
	}
	for _, child := range slices.Clone(root.Child) {
		parent.AddChild(child)
	}
	return nil
}

// WriteDocument writes complete document with rendered body content. XHTML
// documents are rebuilt as a single XML tree, HTML documents get body content
// verbatim.
func WriteDocument(w io.Writer, title string, stylesheet, content []byte, asXHTML bool) error {
	if asXHTML {
		doc, body := NewDocument(title, stylesheet, true)
		if err := AppendFragment(body, content); err != nil {
			return err
		}
		if _, err := doc.WriteTo(w); err != nil {
			return fmt.Errorf("unable to write document: %w", err)
		}
		return nil
	}

	doc, body := NewDocument(title, nil, false)
	if len(stylesheet) > 0 {
		// style is raw text in HTML, it must not be escaped
		style := doc.FindElement("/html/head").CreateElement("style")
		style.CreateAttr("type", "text/css")
		style.CreateComment(styleMarker)
	}
	body.CreateComment(contentMarker)
	out, err := doc.WriteToString()
	if err != nil {
		return fmt.Errorf("unable to serialize document: %w", err)
	}
	head, tail, ok := strings.Cut(out, "<!--"+contentMarker+"-->")
	if !ok {
		// this should never happen
		panic("content marker is missing from serialized document")
	}
	head = strings.Replace(head, "<!--"+styleMarker+"-->", string(stylesheet), 1)
	for _, part := range [][]byte{[]byte(head), content, []byte(tail)} {
		if _, err := w.Write(part); err != nil {
			return fmt.Errorf("unable to write document: %w", err)
		}
	}
	return nil
}

// Markup serializes element for insertion into both HTML and XHTML
// documents: non void elements always get end tags, void elements are
// self-closed.
func Markup(el *etree.Element) (string, error) {
	doc := etree.NewDocument()
	doc.WriteSettings.CanonicalEndTags = true
	doc.SetRoot(el.Copy())
	out, err := doc.WriteToString()
	if err != nil {
		return "", err
	}
	for _, void := range []string{"img", "br"} {
		out = strings.ReplaceAll(out, "></"+void+">", "/>")
	}
	return out, nil
}
