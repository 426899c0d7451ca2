package markdown

import (
	"strconv"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"glossa/gloss"
)

var (
	// KindBlock is the NodeKind of a gloss container as it was parsed.
	KindBlock = ast.NewNodeKind("GlossBlock")
	// KindLine is the NodeKind of a single source line inside gloss container.
	KindLine = ast.NewNodeKind("GlossLine")
	// KindGloss is the NodeKind of a formatted gloss.
	KindGloss = ast.NewNodeKind("Gloss")
)

// Block is a gloss container. Its children are Line nodes, one per non blank
// source line. Block stays in the document only when it cannot be formatted.
type Block struct {
	ast.BaseBlock
	// Name is the container name from the opening fence.
	Name string
	// Line is the 1-based source line of the opening fence.
	Line int

	fence int
}

func (n *Block) Kind() ast.NodeKind {
	return KindBlock
}

func (n *Block) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Name": n.Name,
		"Line": strconv.Itoa(n.Line),
	}, nil)
}

// SourceLine maps ordinal of a line inside the block to the document line.
func (n *Block) SourceLine(ordinal int) int {
	i := 0
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if l, ok := c.(*Line); ok {
			if i == ordinal {
				return l.Number
			}
			i++
		}
	}
	return n.Line
}

// Line holds inline content of one source line of a gloss container.
type Line struct {
	ast.BaseBlock
	// Number is the 1-based source line.
	Number int
}

func newLine(seg text.Segment, number int) *Line {
	l := &Line{Number: number}
	lines := text.NewSegments()
	lines.Append(seg)
	l.SetLines(lines)
	return l
}

func (n *Line) Kind() ast.NodeKind {
	return KindLine
}

func (n *Line) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Number": strconv.Itoa(n.Number)}, nil)
}

// Gloss replaces Block once its content was successfully formatted.
type Gloss struct {
	ast.BaseBlock
	Result *gloss.Result
	// ID is an optional element identifier, empty when ids are disabled.
	ID string
	// Line is the 1-based source line of the original container.
	Line int
}

func newGloss(res *gloss.Result, id string, line int) *Gloss {
	return &Gloss{Result: res, ID: id, Line: line}
}

func (n *Gloss) Kind() ast.NodeKind {
	return KindGloss
}

func (n *Gloss) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"ID":      n.ID,
		"Rows":    strconv.Itoa(len(n.Result.Gloss.Rows)),
		"Columns": strconv.Itoa(len(n.Result.Columns)),
	}, nil)
}
