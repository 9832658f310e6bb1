package charts

import "tidyserve/internal/engine"

// BuildSwarm produces a categorical scatter: one series per variable,
// one point per observation labeled with its row identifier, in store
// order. Point placement (jitter) is the renderer's job.
func BuildSwarm(s *engine.LongStore, title string) *ChartConfig {
	series := make([]Series, len(s.VarDict))
	for vid, name := range s.VarDict {
		series[vid] = Series{
			Name:  name,
			Color: defaultColors[vid%len(defaultColors)],
		}
	}

	for i, vid := range s.VarIDs {
		series[vid].Data = append(series[vid].Data, Point{
			Label: s.RowDict[s.RowIDs[i]],
			Value: s.Values[i],
		})
	}

	return &ChartConfig{
		ChartType:  "swarm",
		Title:      title,
		XAxis:      s.Labels.Variable,
		YAxis:      s.Labels.Value,
		Series:     series,
		Colors:     assignColors(len(series)),
		ShowLegend: true,
		ShowGrid:   true,
	}
}
