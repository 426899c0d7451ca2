package markdown

import (
	"errors"
	"fmt"

	"github.com/gosimple/slug"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"glossa/config"
	"glossa/gloss"
)

var idsKey = parser.NewContextKey()

// transformer formats every gloss container of the document. Successfully
// formatted container is substituted by a Gloss node, failed one is left in
// place and reported through Diagnostics.
type transformer struct {
	cfg *config.GlossConfig
}

func newTransformer(cfg *config.GlossConfig) parser.ASTTransformer {
	return &transformer{cfg: cfg}
}

func (t *transformer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	var blocks []*Block
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if b, ok := n.(*Block); ok {
			blocks = append(blocks, b)
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	if len(blocks) == 0 {
		return
	}

	diags := DiagnosticsFrom(pc)
	conv := &inlineConverter{source: reader.Source(), normalize: t.cfg.Normalize}
	for _, b := range blocks {
		res, err := gloss.Format(conv.blockStream(b))
		if err != nil {
			line := b.Line
			var se *gloss.StructuralError
			if errors.As(err, &se) {
				line = b.SourceLine(se.Source)
			}
			diags.add(Diagnostic{Line: line, Block: b.Line, Err: err})
			continue
		}
		var id string
		if t.cfg.IDs {
			id = t.uniqueID(pc, res)
		}
		parent := b.Parent()
		parent.ReplaceChild(parent, b, newGloss(res, id, b.Line))
	}
}

// uniqueID derives element id from the gloss caption, glosses without
// caption are numbered. Ids are unique within the document.
func (t *transformer) uniqueID(pc parser.Context, res *gloss.Result) string {
	used, ok := pc.Get(idsKey).(map[string]bool)
	if !ok {
		used = make(map[string]bool)
		pc.Set(idsKey, used)
	}

	var base string
	if h := res.Gloss.Header; h != nil {
		base = slug.Make(gloss.SpansText(h.Spans))
	}
	if base == "" {
		base = fmt.Sprintf("%d", len(used)+1)
	}
	base = t.cfg.ClassPrefix + "-" + base

	id := base
	for counter := 1; used[id]; counter++ {
		id = fmt.Sprintf("%s-%d", base, counter)
	}
	used[id] = true
	return id
}
