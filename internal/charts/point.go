package charts

import (
	"math"

	"tidyserve/internal/engine"
)

// BuildPoint produces a categorical point plot: one point per variable
// at the group mean, with the standard error of the mean as the error
// bar. Single-observation groups get a zero error bar.
func BuildPoint(s *engine.LongStore, title string) *ChartConfig {
	groups := valuesByVariable(s)

	points := make([]Point, 0, len(groups))
	for vid, values := range groups {
		if len(values) == 0 {
			continue
		}
		n := float64(len(values))

		var sum float64
		for _, v := range values {
			sum += v
		}
		mean := sum / n

		var stderr float64
		if len(values) > 1 {
			var ss float64
			for _, v := range values {
				d := v - mean
				ss += d * d
			}
			stderr = math.Sqrt(ss/(n-1)) / math.Sqrt(n)
		}

		points = append(points, Point{
			Label:  s.VarDict[vid],
			Value:  mean,
			StdErr: stderr,
		})
	}

	return &ChartConfig{
		ChartType: "point",
		Title:     title,
		XAxis:     s.Labels.Variable,
		YAxis:     s.Labels.Value,
		Series:    []Series{{Name: "mean", Data: points, Color: defaultColors[0]}},
		Colors:    assignColors(1),
		ShowGrid:  true,
	}
}
