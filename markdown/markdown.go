// Package markdown hosts gloss formatting inside goldmark: it recognizes
// fenced gloss containers, feeds their inline content to the gloss engine and
// substitutes containers with formatted glosses.
package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"glossa/config"
)

// Extension adds gloss containers to goldmark.
type Extension struct {
	cfg *config.GlossConfig
}

// NewExtension returns goldmark extender configured by cfg.
func NewExtension(cfg *config.GlossConfig) *Extension {
	return &Extension{cfg: cfg}
}

func (e *Extension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(
		parser.WithBlockParsers(util.Prioritized(newBlockParser(e.cfg.Container), 90)),
		parser.WithASTTransformers(util.Prioritized(newTransformer(e.cfg), 100)),
	)
	m.Renderer().AddOptions(
		renderer.WithNodeRenderers(util.Prioritized(newNodeRenderer(e.cfg), 100)),
	)
}

var extensionRegistry = map[string]goldmark.Extender{
	"gfm":           extension.GFM,
	"table":         extension.Table,
	"tables":        extension.Table,
	"strikethrough": extension.Strikethrough,
	"linkify":       extension.Linkify,
	"autolink":      extension.Linkify,
	"tasklist":      extension.TaskList,
	"definition":    extension.DefinitionList,
	"footnote":      extension.Footnote,
	"typographer":   extension.Typographer,
}

func collectExtensions(names []string) []goldmark.Extender {
	var extenders []goldmark.Extender
	seen := map[string]struct{}{}

	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		ext, ok := extensionRegistry[key]
		if !ok {
			continue
		}
		extenders = append(extenders, ext)
		seen[key] = struct{}{}
	}
	return extenders
}

// New builds goldmark engine with gloss support. Engines are cheap, a new one
// is created for every document so documents never share state.
func New(cfg *config.GlossConfig) goldmark.Markdown {
	rendererOptions := []renderer.Option{html.WithXHTML()}
	if cfg.UnsafeHTML {
		rendererOptions = append(rendererOptions, html.WithUnsafe())
	}
	return goldmark.New(
		goldmark.WithExtensions(append(collectExtensions(cfg.Extensions), NewExtension(cfg))...),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(rendererOptions...),
	)
}

// Document is a converted markdown document.
type Document struct {
	// Title is the text of the first heading, empty if there is none.
	Title       string
	Body        []byte
	Glosses     int
	Diagnostics *Diagnostics

	formatted []*Gloss
}

// Convert renders markdown source to XHTML body content. Problems with
// individual gloss containers do not fail conversion, they are returned in
// Document.Diagnostics.
func Convert(source []byte, cfg *config.GlossConfig) (*Document, error) {
	md := New(cfg)
	pc := parser.NewContext()
	root := md.Parser().Parse(text.NewReader(source), parser.WithContext(pc))

	res := &Document{Diagnostics: DiagnosticsFrom(pc)}
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := n.(type) {
		case *ast.Heading:
			if res.Title == "" {
				res.Title = plainText(v, source)
			}
			return ast.WalkSkipChildren, nil
		case *Gloss:
			res.Glosses++
			res.formatted = append(res.formatted, v)
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	var buf bytes.Buffer
	if err := md.Renderer().Render(&buf, source, root); err != nil {
		return nil, fmt.Errorf("markdown render: %w", err)
	}
	res.Body = buf.Bytes()
	return res, nil
}
