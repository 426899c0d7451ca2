package gloss

// Cell is a single row entry of a column. When the row is shorter than the
// column index the cell is Absent and Word is nil.
type Cell struct {
	Role   Role
	Word   Word
	Absent bool
}

// Column holds the words at the same position in every row, in row order.
type Column struct {
	Index int
	Cells []Cell
}

// Width returns the number of columns needed for the rows.
func Width(rows []Row) int {
	w := 0
	for _, r := range rows {
		w = max(w, len(r.Words))
	}
	return w
}

// BuildColumns transposes rows into columns. Every column has exactly one
// cell per row, rows with fewer words produce absent cells.
func BuildColumns(rows []Row) []Column {
	w := Width(rows)
	if w == 0 {
		return nil
	}
	columns := make([]Column, w)
	for j := range columns {
		cells := make([]Cell, len(rows))
		for i, r := range rows {
			if j < len(r.Words) {
				cells[i] = Cell{Role: r.Role, Word: r.Words[j]}
			} else {
				cells[i] = Cell{Role: r.Role, Absent: true}
			}
		}
		columns[j] = Column{Index: j, Cells: cells}
	}
	return columns
}
