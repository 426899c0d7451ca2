package markdown

import (
	"fmt"

	"github.com/beevik/etree"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"

	"glossa/config"
	"glossa/xhtml"
)

// nodeRenderer writes gloss nodes. Formatted glosses are built as etree
// elements and serialized, containers which failed formatting are written
// as plain lines so no content is lost.
type nodeRenderer struct {
	cfg *config.GlossConfig
}

func newNodeRenderer(cfg *config.GlossConfig) renderer.NodeRenderer {
	return &nodeRenderer{cfg: cfg}
}

func (r *nodeRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindGloss, r.renderGloss)
	reg.Register(KindBlock, r.renderBlock)
	reg.Register(KindLine, r.renderLine)
}

func (r *nodeRenderer) renderGloss(w util.BufWriter, _ []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	node := n.(*Gloss)

	el := xhtml.AppendGloss(etree.NewElement("body"), node.Result, xhtml.Options{ClassPrefix: r.cfg.ClassPrefix, ID: node.ID})
	out, err := xhtml.Markup(el)
	if err != nil {
		return ast.WalkStop, fmt.Errorf("unable to serialize gloss at line %d: %w", node.Line, err)
	}
	_, _ = w.WriteString(out)
	_ = w.WriteByte('\n')
	return ast.WalkSkipChildren, nil
}

func (r *nodeRenderer) renderBlock(w util.BufWriter, _ []byte, _ ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		_, _ = fmt.Fprintf(w, "<div class=\"%s-error\">\n", r.cfg.ClassPrefix)
	} else {
		_, _ = w.WriteString("</div>\n")
	}
	return ast.WalkContinue, nil
}

func (r *nodeRenderer) renderLine(w util.BufWriter, _ []byte, _ ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		_, _ = w.WriteString("<p>")
	} else {
		_, _ = w.WriteString("</p>\n")
	}
	return ast.WalkContinue, nil
}
