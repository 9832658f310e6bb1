package models

import (
	"time"

	"tidyserve/internal/table"
)

// DatasetInfo describes the currently served dataset.
type DatasetInfo struct {
	ID           string       `json:"id"`
	Source       string       `json:"source"`
	Labels       table.Labels `json:"labels"`
	Rows         int          `json:"rows"`
	Variables    int          `json:"variables"`
	Observations int          `json:"observations"`
	LoadedAt     time.Time    `json:"loaded_at"`
	LoadMillis   int64        `json:"load_ms"`
}

// SummaryData is the split-apply-combine output: per-variable and
// per-row statistics plus the mean of every (row, variable) cell.
type SummaryData struct {
	ByVariable []GroupStat `json:"by_variable"`
	ByRow      []GroupStat `json:"by_row"`
	Cells      []CellStat  `json:"cells"`
}

// GroupStat holds the reduction for one group key.
type GroupStat struct {
	Key   string  `json:"key"`
	Count int     `json:"count"`
	Sum   float64 `json:"sum"`
	Mean  float64 `json:"mean"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

// CellStat is the grouped mean for one (row, variable) pair.
type CellStat struct {
	Row      string  `json:"row"`
	Variable string  `json:"variable"`
	Count    int     `json:"count"`
	Mean     float64 `json:"mean"`
}
