package gloss

// Result is a fully processed gloss block ready for output.
type Result struct {
	Gloss   *Gloss
	Columns []Column
}

// Format runs the whole pipeline over inline content of a single gloss block.
// It either returns complete result or an error, never both.
func Format(stream []Inline) (*Result, error) {
	lines := ExtractLines(stream)
	classified := make([]ClassifiedLine, len(lines))
	for i, l := range lines {
		classified[i] = Classify(l)
	}
	g, err := Assemble(classified)
	if err != nil {
		return nil, err
	}
	return &Result{Gloss: g, Columns: BuildColumns(g.Rows)}, nil
}
