package gloss

import "fmt"

// Caption is the content of a meta line used as gloss header or footer.
type Caption struct {
	Spans  []Span
	Source int
}

// Row is a non-meta line of the gloss.
type Row struct {
	Role   Role
	Words  []Word
	Source int
}

// Gloss is an assembled gloss block. Header and Footer are nil when absent.
type Gloss struct {
	Header *Caption
	Rows   []Row
	Footer *Caption
}

// StructuralError reports meta line found in the middle of the block.
type StructuralError struct {
	// Index of the offending line among extracted lines of the block.
	Index int
	// Lines is the number of extracted lines in the block.
	Lines int
	// Source is the physical line ordinal of the offending line.
	Source int
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("gloss: caption line at position %d of %d, captions are allowed only as first or last line", e.Index+1, e.Lines)
}

// Assemble groups classified lines into header, rows and footer. Meta line
// at index 0 becomes header, which wins when the block has a single line.
// Meta line at the last index becomes footer. Meta line anywhere else is a
// structural error and no gloss is produced.
func Assemble(lines []ClassifiedLine) (*Gloss, error) {
	g := &Gloss{}
	last := len(lines) - 1
	for i, l := range lines {
		if l.Role != RoleMeta {
			g.Rows = append(g.Rows, Row{Role: l.Role, Words: l.Words, Source: l.Source})
			continue
		}
		switch {
		case i == 0:
			g.Header = &Caption{Spans: l.Spans, Source: l.Source}
		case i == last:
			g.Footer = &Caption{Spans: l.Spans, Source: l.Source}
		default:
			return nil, &StructuralError{Index: i, Lines: len(lines), Source: l.Source}
		}
	}
	return g, nil
}
