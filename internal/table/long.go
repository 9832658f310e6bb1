package table

// Labels names the three fields of a long table: which column carries
// the subject, which the variable name, and which the observed value.
type Labels struct {
	Row      string `json:"row" yaml:"row_label"`
	Variable string `json:"variable" yaml:"variable_label"`
	Value    string `json:"value" yaml:"value_label"`
}

// DefaultLabels are used when no schema file names the output fields.
var DefaultLabels = Labels{Row: "subject", Variable: "variable", Value: "value"}

// distinct reports whether the three labels are non-empty and pairwise
// different.
func (l Labels) distinct() bool {
	if l.Row == "" || l.Variable == "" || l.Value == "" {
		return false
	}
	return l.Row != l.Variable && l.Row != l.Value && l.Variable != l.Value
}

// LongRecord is one observation in tidy form.
type LongRecord struct {
	Row      string
	Variable string
	Value    float64
}

// LongTable is the tidy layout: one record per observation, ordered.
// When produced by Melt the record order is column-major (all rows of
// the first column, then the second, ...) and stable across calls.
type LongTable struct {
	Labels  Labels
	Records []LongRecord
}

// Len returns the record count.
func (t *LongTable) Len() int { return len(t.Records) }
