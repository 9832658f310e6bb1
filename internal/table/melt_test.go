package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func treatmentTable(t *testing.T) *WideTable {
	t.Helper()
	w := NewWideTable([]string{"John Smith", "Jane Doe", "Mary Johnson"})
	require.NoError(t, w.AddColumn("treatment_a", []float64{9, 16, 3}))
	require.NoError(t, w.AddColumn("treatment_b", []float64{2, 11, 1}))
	return w
}

func TestMeltColumnMajorOrder(t *testing.T) {
	w := treatmentTable(t)

	long, err := Melt(w, Labels{Row: "person", Variable: "treatment", Value: "result"},
		map[string]string{"treatment_a": "a", "treatment_b": "b"})
	require.NoError(t, err)

	want := []LongRecord{
		{"John Smith", "a", 9},
		{"Jane Doe", "a", 16},
		{"Mary Johnson", "a", 3},
		{"John Smith", "b", 2},
		{"Jane Doe", "b", 11},
		{"Mary Johnson", "b", 1},
	}
	assert.Equal(t, want, long.Records)
	assert.Equal(t, "person", long.Labels.Row)
}

func TestMeltRecordCount(t *testing.T) {
	w := NewWideTable([]string{"r1", "r2", "r3", "r4"})
	require.NoError(t, w.AddColumn("x", []float64{1, 2, 3, 4}))
	require.NoError(t, w.AddColumn("y", []float64{5, 6, 7, 8}))
	require.NoError(t, w.AddColumn("z", []float64{9, 10, 11, 12}))

	long, err := Melt(w, DefaultLabels, nil)
	require.NoError(t, err)
	assert.Equal(t, w.NumRows()*w.NumColumns(), long.Len())
}

func TestMeltDeterministic(t *testing.T) {
	w := treatmentTable(t)

	first, err := Melt(w, DefaultLabels, nil)
	require.NoError(t, err)
	second, err := Melt(w, DefaultLabels, nil)
	require.NoError(t, err)

	assert.Equal(t, first.Records, second.Records)
}

func TestMeltEmptyInputs(t *testing.T) {
	// Zero rows, two columns.
	w := NewWideTable(nil)
	require.NoError(t, w.AddColumn("a", nil))
	require.NoError(t, w.AddColumn("b", nil))
	long, err := Melt(w, DefaultLabels, nil)
	require.NoError(t, err)
	assert.Zero(t, long.Len())

	// Three rows, zero columns.
	w = NewWideTable([]string{"r1", "r2", "r3"})
	long, err = Melt(w, DefaultLabels, nil)
	require.NoError(t, err)
	assert.Zero(t, long.Len())
}

func TestMeltInvalidShape(t *testing.T) {
	w := NewWideTable([]string{"r1", "r2", "r3"})
	require.NoError(t, w.AddColumn("treatment_a", []float64{9, 16, 3}))
	require.NoError(t, w.AddColumn("treatment_b", []float64{2, 11}))

	long, err := Melt(w, DefaultLabels, nil)
	assert.Nil(t, long)

	var shapeErr *InvalidShapeError
	require.ErrorAs(t, err, &shapeErr)
	assert.Equal(t, "treatment_b", shapeErr.Column)
	assert.Equal(t, 3, shapeErr.Want)
	assert.Equal(t, 2, shapeErr.Got)
}

func TestMeltDuplicateLabels(t *testing.T) {
	w := treatmentTable(t)

	cases := []Labels{
		{Row: "x", Variable: "x", Value: "value"},
		{Row: "x", Variable: "variable", Value: "x"},
		{Row: "row", Variable: "x", Value: "x"},
		{Row: "", Variable: "variable", Value: "value"},
	}
	for _, labels := range cases {
		long, err := Melt(w, labels, nil)
		assert.Nil(t, long)
		var dupErr *DuplicateLabelError
		assert.ErrorAs(t, err, &dupErr, "labels %+v", labels)
	}
}

func TestMeltMissingRenameColumn(t *testing.T) {
	w := treatmentTable(t)

	long, err := Melt(w, DefaultLabels, map[string]string{"treatment_c": "c"})
	assert.Nil(t, long)

	var missErr *MissingColumnError
	require.ErrorAs(t, err, &missErr)
	assert.Equal(t, "treatment_c", missErr.Column)
}

func TestMeltDoesNotMutateInput(t *testing.T) {
	w := treatmentTable(t)

	_, err := Melt(w, DefaultLabels, map[string]string{"treatment_a": "a"})
	require.NoError(t, err)

	assert.Equal(t, []string{"treatment_a", "treatment_b"}, w.Columns)
	assert.Equal(t, []float64{9, 16, 3}, w.Data["treatment_a"])
}

func TestAddColumnDuplicate(t *testing.T) {
	w := NewWideTable([]string{"r1"})
	require.NoError(t, w.AddColumn("x", []float64{1}))

	err := w.AddColumn("x", []float64{2})
	var dupErr *DuplicateColumnError
	require.ErrorAs(t, err, &dupErr)
	assert.Equal(t, "x", dupErr.Column)
}
