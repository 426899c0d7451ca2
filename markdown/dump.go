package markdown

import (
	"glossa/gloss"
	"glossa/utils/debug"
)

// Dump returns readable structure of all formatted glosses of the document:
// captions, rows with their words and resulting columns.
func (d *Document) Dump() string {
	tw := debug.NewTreeWriter()
	for _, g := range d.formatted {
		dumpGloss(tw, g)
	}
	return tw.String()
}

func dumpGloss(tw *debug.TreeWriter, g *Gloss) {
	tw.Line(0, "gloss at line %d id=%q", g.Line, g.ID)

	res := g.Result
	if h := res.Gloss.Header; h != nil {
		tw.TextBlock(1, "caption", gloss.SpansText(h.Spans))
	}
	tw.Line(1, "rows: %d", len(res.Gloss.Rows))
	for _, r := range res.Gloss.Rows {
		tw.List(2, r.Role.String(), words(r.Words))
	}
	tw.Line(1, "columns: %d", len(res.Columns))
	for _, c := range res.Columns {
		cells := make([]string, 0, len(c.Cells))
		for _, cell := range c.Cells {
			if cell.Absent {
				cells = append(cells, "")
				continue
			}
			cells = append(cells, cell.Word.String())
		}
		tw.List(2, "column", cells)
	}
	if f := res.Gloss.Footer; f != nil {
		tw.TextBlock(1, "footer", gloss.SpansText(f.Spans))
	}
}

func words(ws []gloss.Word) []string {
	out := make([]string, len(ws))
	for i, w := range ws {
		out[i] = w.String()
	}
	return out
}
