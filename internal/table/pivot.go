package table

// Pivot is the inverse of Melt: it groups a long table by row and
// variable and rebuilds the wide layout. Row and column order follow
// first appearance in the record sequence, so Pivot(Melt(w)) restores w
// exactly when no rename collapsed two columns into one name.
//
// A (row, variable) pair seen twice makes the cell ambiguous and fails
// with DuplicatePairError. A pair missing from the cross-product leaves
// a hole and fails with InvalidShapeError, since the result could not
// satisfy the wide-table invariant.
func Pivot(long *LongTable) (*WideTable, error) {
	rowIdx := make(map[string]int)
	var rows []string
	var cols []string
	colSeen := make(map[string]bool)

	for _, rec := range long.Records {
		if _, ok := rowIdx[rec.Row]; !ok {
			rowIdx[rec.Row] = len(rows)
			rows = append(rows, rec.Row)
		}
		if !colSeen[rec.Variable] {
			colSeen[rec.Variable] = true
			cols = append(cols, rec.Variable)
		}
	}

	w := NewWideTable(rows)
	filled := make(map[string][]bool, len(cols))
	for _, col := range cols {
		w.Columns = append(w.Columns, col)
		w.Data[col] = make([]float64, len(rows))
		filled[col] = make([]bool, len(rows))
	}

	for _, rec := range long.Records {
		i := rowIdx[rec.Row]
		if filled[rec.Variable][i] {
			return nil, &DuplicatePairError{Row: rec.Row, Variable: rec.Variable}
		}
		filled[rec.Variable][i] = true
		w.Data[rec.Variable][i] = rec.Value
	}

	for _, col := range cols {
		n := 0
		for _, ok := range filled[col] {
			if ok {
				n++
			}
		}
		if n != len(rows) {
			return nil, &InvalidShapeError{Column: col, Want: len(rows), Got: n}
		}
	}
	return w, nil
}
