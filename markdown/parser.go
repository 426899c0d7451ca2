package markdown

import (
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

const fenceChar = ':'

// blockParser recognizes fenced containers:
//
//	::: gloss
//	| caption
//	text line
//	= gloss line
//	:::
//
// Container name may also be written as "{.gloss}". Content lines are not
// parsed as blocks, every line is inline parsed on its own.
type blockParser struct {
	container string
}

func newBlockParser(container string) parser.BlockParser {
	return &blockParser{container: container}
}

func (p *blockParser) Trigger() []byte {
	return []byte{fenceChar}
}

func (p *blockParser) Open(parent ast.Node, reader text.Reader, pc parser.Context) (ast.Node, parser.State) {
	line, segment := reader.PeekLine()
	pos := pc.BlockOffset()
	if pos < 0 || line[pos] != fenceChar {
		return nil, parser.NoChildren
	}
	i := pos
	for ; i < len(line) && line[i] == fenceChar; i++ {
	}
	fence := i - pos
	if fence < 3 {
		return nil, parser.NoChildren
	}
	name := containerName(string(line[i:]))
	if name != p.container {
		return nil, parser.NoChildren
	}

	lineNum, _ := reader.Position()
	node := &Block{Name: name, Line: lineNum + 1, fence: fence}
	reader.Advance(segment.Stop - segment.Start - newlineLen(line) + segment.Padding)
	return node, parser.NoChildren
}

func (p *blockParser) Continue(node ast.Node, reader text.Reader, pc parser.Context) parser.State {
	line, segment := reader.PeekLine()
	block := node.(*Block)

	if w, pos := util.IndentWidth(line, reader.LineOffset()); w < 4 {
		i := pos
		for ; i < len(line) && line[i] == fenceChar; i++ {
		}
		if i-pos >= block.fence && util.IsBlank(line[i:]) {
			reader.Advance(segment.Stop - segment.Start - newlineLen(line) + segment.Padding)
			return parser.Close
		}
	}

	source := reader.Source()
	seg := segment.TrimLeftSpace(source)
	if seg = seg.TrimRightSpace(source); !seg.IsEmpty() {
		lineNum, _ := reader.Position()
		block.AppendChild(block, newLine(seg, lineNum+1))
	}
	reader.Advance(segment.Stop - segment.Start - newlineLen(line) + segment.Padding)
	return parser.Continue | parser.NoChildren
}

func (p *blockParser) Close(node ast.Node, reader text.Reader, pc parser.Context) {
}

func (p *blockParser) CanInterruptParagraph() bool {
	return true
}

func (p *blockParser) CanAcceptIndentedLine() bool {
	return false
}

// containerName extracts name from the opening fence info: "gloss",
// "{.gloss}" or "{.gloss #id}".
func containerName(info string) string {
	info = strings.TrimSpace(info)
	if strings.HasPrefix(info, "{") && strings.HasSuffix(info, "}") {
		info = info[1 : len(info)-1]
	}
	fields := strings.Fields(info)
	if len(fields) == 0 {
		return ""
	}
	return strings.TrimPrefix(fields[0], ".")
}

func newlineLen(line []byte) int {
	if len(line) > 0 && line[len(line)-1] == '\n' {
		return 1
	}
	return 0
}
