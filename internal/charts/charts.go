// Package charts builds render-ready chart configurations from a tidy
// store. Configs are plain data for a frontend to draw; nothing here
// renders pixels, and builders are pure functions with no shared
// figure state.
package charts

import (
	"math"
	"sort"

	"tidyserve/internal/engine"
)

// Default color palette for chart series.
var defaultColors = []string{
	"#4F46E5", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
	"#06B6D4", "#EC4899", "#84CC16", "#F97316", "#6366F1",
}

// ChartConfig defines how to render a chart.
type ChartConfig struct {
	ChartType  string     `json:"chartType"`
	Title      string     `json:"title"`
	XAxis      string     `json:"xAxis,omitempty"`
	YAxis      string     `json:"yAxis,omitempty"`
	Series     []Series   `json:"series,omitempty"`
	Boxes      []BoxGroup `json:"boxes,omitempty"`
	Colors     []string   `json:"colors,omitempty"`
	ShowLegend bool       `json:"showLegend"`
	ShowGrid   bool       `json:"showGrid"`
}

// Series is one named data series.
type Series struct {
	Name  string  `json:"name"`
	Data  []Point `json:"data"`
	Color string  `json:"color,omitempty"`
}

// Point is a single data point. StdErr is set only by the point-plot
// builder, where it sizes the error bar.
type Point struct {
	Label  string  `json:"label"`
	Value  float64 `json:"value"`
	StdErr float64 `json:"stdErr,omitempty"`
}

// BoxGroup is the five-number summary for one category, with points
// beyond the 1.5*IQR fences listed separately.
type BoxGroup struct {
	Label    string    `json:"label"`
	Min      float64   `json:"min"`
	Q1       float64   `json:"q1"`
	Median   float64   `json:"median"`
	Q3       float64   `json:"q3"`
	Max      float64   `json:"max"`
	Outliers []float64 `json:"outliers,omitempty"`
}

// valuesByVariable collects raw observations per variable, in
// dictionary order.
func valuesByVariable(s *engine.LongStore) [][]float64 {
	groups := make([][]float64, len(s.VarDict))
	for i, vid := range s.VarIDs {
		groups[vid] = append(groups[vid], s.Values[i])
	}
	return groups
}

// quantile interpolates linearly between order statistics.
// Values must be sorted and non-empty.
func quantile(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	pos := q * float64(n-1)
	lo := int(math.Floor(pos))
	if lo >= n-1 {
		return sorted[n-1]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[lo+1]*frac
}

func sortedCopy(values []float64) []float64 {
	out := make([]float64, len(values))
	copy(out, values)
	sort.Float64s(out)
	return out
}

func assignColors(n int) []string {
	colors := make([]string, n)
	for i := range colors {
		colors[i] = defaultColors[i%len(defaultColors)]
	}
	return colors
}
