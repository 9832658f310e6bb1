package charts

import "tidyserve/internal/engine"

// BuildBox produces a box plot config with one box per variable:
// quartiles by linear interpolation, whiskers at the most extreme
// observations inside the 1.5*IQR fences, everything beyond listed as
// outliers.
func BuildBox(s *engine.LongStore, title string) *ChartConfig {
	groups := valuesByVariable(s)

	config := &ChartConfig{
		ChartType: "box",
		Title:     title,
		XAxis:     s.Labels.Variable,
		YAxis:     s.Labels.Value,
		ShowGrid:  true,
	}

	for vid, values := range groups {
		if len(values) == 0 {
			continue
		}
		sorted := sortedCopy(values)

		q1 := quantile(sorted, 0.25)
		median := quantile(sorted, 0.5)
		q3 := quantile(sorted, 0.75)
		iqr := q3 - q1
		loFence := q1 - 1.5*iqr
		hiFence := q3 + 1.5*iqr

		box := BoxGroup{
			Label:  s.VarDict[vid],
			Q1:     q1,
			Median: median,
			Q3:     q3,
		}

		// Whiskers reach the extreme observations inside the fences.
		box.Min, box.Max = sorted[0], sorted[len(sorted)-1]
		for _, v := range sorted {
			if v >= loFence {
				box.Min = v
				break
			}
			box.Outliers = append(box.Outliers, v)
		}
		var hiOutliers []float64
		for i := len(sorted) - 1; i >= 0; i-- {
			if sorted[i] <= hiFence {
				box.Max = sorted[i]
				break
			}
			hiOutliers = append(hiOutliers, sorted[i])
		}
		// Restore ascending order for the high-side outliers.
		for i := len(hiOutliers) - 1; i >= 0; i-- {
			box.Outliers = append(box.Outliers, hiOutliers[i])
		}

		config.Boxes = append(config.Boxes, box)
	}

	config.Colors = assignColors(len(config.Boxes))
	return config
}
