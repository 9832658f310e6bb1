package table

import "fmt"

// InvalidShapeError reports a column whose value count disagrees with
// the row-identifier count.
type InvalidShapeError struct {
	Column string
	Want   int
	Got    int
}

func (e *InvalidShapeError) Error() string {
	return fmt.Sprintf("table: column %q has %d values, want %d (one per row)", e.Column, e.Got, e.Want)
}

// DuplicateLabelError reports output field labels that are empty or not
// pairwise distinct.
type DuplicateLabelError struct {
	Labels Labels
}

func (e *DuplicateLabelError) Error() string {
	return fmt.Sprintf("table: output labels %q/%q/%q must be non-empty and pairwise distinct",
		e.Labels.Row, e.Labels.Variable, e.Labels.Value)
}

// MissingColumnError reports a rename entry that targets a column the
// wide table does not have.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("table: rename references unknown column %q", e.Column)
}

// DuplicateColumnError reports an attempt to add a column name twice.
type DuplicateColumnError struct {
	Column string
}

func (e *DuplicateColumnError) Error() string {
	return fmt.Sprintf("table: column %q already exists", e.Column)
}

// DuplicatePairError reports a long table carrying the same
// (row, variable) pair more than once, which makes a pivot ambiguous.
type DuplicatePairError struct {
	Row      string
	Variable string
}

func (e *DuplicatePairError) Error() string {
	return fmt.Sprintf("table: duplicate observation for (%q, %q)", e.Row, e.Variable)
}
