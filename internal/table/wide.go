// Package table holds the in-memory table model and the wide-to-long
// reshaping (melt) transform, plus its pivot inverse.
package table

// WideTable is the "untidy" layout: one row per subject, one column per
// measured variable. Rows and Columns keep insertion order; Data is
// column-major (one parallel value slice per column).
type WideTable struct {
	Rows    []string
	Columns []string
	Data    map[string][]float64
}

// NewWideTable creates a table over the given row identifiers with no
// columns yet. The row slice is copied so callers can reuse theirs.
func NewWideTable(rows []string) *WideTable {
	w := &WideTable{
		Rows: make([]string, len(rows)),
		Data: make(map[string][]float64),
	}
	copy(w.Rows, rows)
	return w
}

// AddColumn appends a variable column. Values are copied. Column length
// is NOT checked here; Melt validates the full shape before reshaping so
// a bad table fails loudly at transform time, not silently at build time.
func (w *WideTable) AddColumn(name string, values []float64) error {
	if _, exists := w.Data[name]; exists {
		return &DuplicateColumnError{Column: name}
	}
	w.Columns = append(w.Columns, name)
	vals := make([]float64, len(values))
	copy(vals, values)
	w.Data[name] = vals
	return nil
}

// NumRows returns the row-identifier count.
func (w *WideTable) NumRows() int { return len(w.Rows) }

// NumColumns returns the variable-column count.
func (w *WideTable) NumColumns() int { return len(w.Columns) }

// Value returns the observation for (row index, column name).
// Only valid after checkShape passes; callers index within bounds.
func (w *WideTable) Value(rowIdx int, column string) float64 {
	return w.Data[column][rowIdx]
}

// checkShape verifies every column carries exactly one value per row.
func (w *WideTable) checkShape() error {
	for _, col := range w.Columns {
		if got := len(w.Data[col]); got != len(w.Rows) {
			return &InvalidShapeError{Column: col, Want: len(w.Rows), Got: got}
		}
	}
	return nil
}
