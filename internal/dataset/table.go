package dataset

// Row is one (x, y, z) triple of a surface table.
type Row struct {
	X, Y, Z float64
	// Line is the 1-based source line (or sheet row) the triple came from.
	// Zero for rows that were not read from a file.
	Line int
}

// Table is an ordered sequence of triples with the names of the three
// columns they were read from, in (x, y, z) order.
type Table struct {
	Name    string
	Columns [3]string
	Rows    []Row
	Source  string
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}
