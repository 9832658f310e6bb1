package engine

import "tidyserve/internal/table"

// LongStore holds a tidy table in Struct-of-Arrays format for speed
type LongStore struct {
	// Data Column (Flat Array)
	Values []float64

	// Dictionary Encoded IDs (0..N)
	RowIDs []int32
	VarIDs []int32

	// Dictionaries (ID -> String)
	RowDict []string
	VarDict []string

	// Output field names carried from the source table
	Labels table.Labels
}

// NewLongStore dictionary-encodes a LongTable. Dictionary order is
// first-appearance order, which for melted tables means the wide
// table's row and column order.
func NewLongStore(long *table.LongTable) *LongStore {
	n := long.Len()
	s := &LongStore{
		Values: make([]float64, n),
		RowIDs: make([]int32, n),
		VarIDs: make([]int32, n),
		Labels: long.Labels,
	}

	rowMap := make(map[string]int32)
	varMap := make(map[string]int32)

	for i, rec := range long.Records {
		rid, ok := rowMap[rec.Row]
		if !ok {
			rid = int32(len(s.RowDict))
			s.RowDict = append(s.RowDict, rec.Row)
			rowMap[rec.Row] = rid
		}
		vid, ok := varMap[rec.Variable]
		if !ok {
			vid = int32(len(s.VarDict))
			s.VarDict = append(s.VarDict, rec.Variable)
			varMap[rec.Variable] = vid
		}
		s.RowIDs[i] = rid
		s.VarIDs[i] = vid
		s.Values[i] = rec.Value
	}
	return s
}

// Len returns the observation count.
func (s *LongStore) Len() int { return len(s.Values) }
