package table

// Melt reshapes a wide table into a long one. Each (row, column) cell
// becomes one LongRecord; rename substitutes variable names on the way
// out (columns absent from rename keep their own name).
//
// Emission order is column-major: every row of the first column in row
// order, then every row of the second column, and so on. The order
// depends only on the wide table's stored row/column order, so repeated
// calls on the same input produce element-wise equal output.
//
// Validation is all-or-nothing: the shape, labels, and rename map are
// checked before the first record is emitted, so a failed call never
// returns a partial table. The input is not mutated.
func Melt(w *WideTable, labels Labels, rename map[string]string) (*LongTable, error) {
	if !labels.distinct() {
		return nil, &DuplicateLabelError{Labels: labels}
	}
	if err := w.checkShape(); err != nil {
		return nil, err
	}
	for col := range rename {
		if _, ok := w.Data[col]; !ok {
			return nil, &MissingColumnError{Column: col}
		}
	}

	long := &LongTable{
		Labels:  labels,
		Records: make([]LongRecord, 0, len(w.Rows)*len(w.Columns)),
	}
	for _, col := range w.Columns {
		variable := col
		if alias, ok := rename[col]; ok {
			variable = alias
		}
		values := w.Data[col]
		for i, row := range w.Rows {
			long.Records = append(long.Records, LongRecord{
				Row:      row,
				Variable: variable,
				Value:    values[i],
			})
		}
	}
	return long, nil
}
