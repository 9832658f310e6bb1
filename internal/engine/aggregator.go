package engine

import (
	"math"
	"runtime"
	"sort"
	"sync"

	"tidyserve/internal/models"
)

type cellAgg struct {
	Sum   float64
	Count int
}

// Summarize runs split-apply-combine over the store: count, sum, mean,
// min and max per variable and per row, plus the grouped mean of every
// (row, variable) cell. Work is chunked across workers; each worker
// fills its own partial arrays which are merged at the end, so the hot
// loop does array indexing only (no maps, no locks).
func (s *LongStore) Summarize() *models.SummaryData {
	// 1. Dimensions
	// We need these to calculate array offsets
	numRows := len(s.RowDict)
	numVars := len(s.VarDict)

	data := &models.SummaryData{
		ByVariable: make([]models.GroupStat, 0, numVars),
		ByRow:      make([]models.GroupStat, 0, numRows),
		Cells:      make([]models.CellStat, 0),
	}
	if s.Len() == 0 {
		return data
	}

	// THE MATRIX: Flattened [Row][Variable] -> [Row * NumVars + Variable]
	// Tidy datasets are small (subjects x variables), so the dense
	// matrix stays tiny even with per-worker copies.
	matrixSize := numRows * numVars

	// 2. Setup Workers
	numWorkers := runtime.NumCPU()
	chunkSize := len(s.Values) / numWorkers

	type partialAgg struct {
		varSum   []float64
		varMin   []float64
		varMax   []float64
		varCount []int
		rowSum   []float64
		rowMin   []float64
		rowMax   []float64
		rowCount []int
		matrix   []cellAgg
	}

	results := make(chan *partialAgg, numWorkers)
	var wg sync.WaitGroup

	// 3. Parallel Loop
	for i := 0; i < numWorkers; i++ {
		start := i * chunkSize
		end := start + chunkSize
		if i == numWorkers-1 {
			end = len(s.Values)
		}

		wg.Add(1)
		go func(st, en int) {
			defer wg.Done()

			p := &partialAgg{
				varSum:   make([]float64, numVars),
				varMin:   make([]float64, numVars),
				varMax:   make([]float64, numVars),
				varCount: make([]int, numVars),
				rowSum:   make([]float64, numRows),
				rowMin:   make([]float64, numRows),
				rowMax:   make([]float64, numRows),
				rowCount: make([]int, numRows),
				matrix:   make([]cellAgg, matrixSize),
			}
			for v := 0; v < numVars; v++ {
				p.varMin[v] = math.Inf(1)
				p.varMax[v] = math.Inf(-1)
			}
			for r := 0; r < numRows; r++ {
				p.rowMin[r] = math.Inf(1)
				p.rowMax[r] = math.Inf(-1)
			}

			// Capture slice headers to avoid bounds checks in loop
			rids := s.RowIDs
			vids := s.VarIDs
			vals := s.Values

			for j := st; j < en; j++ {
				rid := rids[j]
				vid := vids[j]
				v := vals[j]

				// A. Per-variable (Array Indexing)
				p.varSum[vid] += v
				p.varCount[vid]++
				if v < p.varMin[vid] {
					p.varMin[vid] = v
				}
				if v > p.varMax[vid] {
					p.varMax[vid] = v
				}

				// B. Per-row (Array Indexing)
				p.rowSum[rid] += v
				p.rowCount[rid]++
				if v < p.rowMin[rid] {
					p.rowMin[rid] = v
				}
				if v > p.rowMax[rid] {
					p.rowMax[rid] = v
				}

				// C. MATRIX UPDATE
				// Replaces: map[key] += val. No hashing, just math.
				idx := int(rid)*numVars + int(vid)
				p.matrix[idx].Sum += v
				p.matrix[idx].Count++
			}
			results <- p
		}(start, end)
	}

	go func() { wg.Wait(); close(results) }()

	// 4. Merge Phase (Reducer)
	finalVarSum := make([]float64, numVars)
	finalVarMin := make([]float64, numVars)
	finalVarMax := make([]float64, numVars)
	finalVarCount := make([]int, numVars)
	finalRowSum := make([]float64, numRows)
	finalRowMin := make([]float64, numRows)
	finalRowMax := make([]float64, numRows)
	finalRowCount := make([]int, numRows)
	finalMatrix := make([]cellAgg, matrixSize)
	for v := 0; v < numVars; v++ {
		finalVarMin[v] = math.Inf(1)
		finalVarMax[v] = math.Inf(-1)
	}
	for r := 0; r < numRows; r++ {
		finalRowMin[r] = math.Inf(1)
		finalRowMax[r] = math.Inf(-1)
	}

	for p := range results {
		for v := 0; v < numVars; v++ {
			finalVarSum[v] += p.varSum[v]
			finalVarCount[v] += p.varCount[v]
			if p.varMin[v] < finalVarMin[v] {
				finalVarMin[v] = p.varMin[v]
			}
			if p.varMax[v] > finalVarMax[v] {
				finalVarMax[v] = p.varMax[v]
			}
		}
		for r := 0; r < numRows; r++ {
			finalRowSum[r] += p.rowSum[r]
			finalRowCount[r] += p.rowCount[r]
			if p.rowMin[r] < finalRowMin[r] {
				finalRowMin[r] = p.rowMin[r]
			}
			if p.rowMax[r] > finalRowMax[r] {
				finalRowMax[r] = p.rowMax[r]
			}
		}
		for i := 0; i < matrixSize; i++ {
			if p.matrix[i].Count > 0 { // Skip empty cells
				finalMatrix[i].Sum += p.matrix[i].Sum
				finalMatrix[i].Count += p.matrix[i].Count
			}
		}
	}

	// 5. Build Result
	for v := 0; v < numVars; v++ {
		if finalVarCount[v] == 0 {
			continue
		}
		data.ByVariable = append(data.ByVariable, models.GroupStat{
			Key:   s.VarDict[v],
			Count: finalVarCount[v],
			Sum:   finalVarSum[v],
			Mean:  finalVarSum[v] / float64(finalVarCount[v]),
			Min:   finalVarMin[v],
			Max:   finalVarMax[v],
		})
	}
	sortStats(data.ByVariable)

	for r := 0; r < numRows; r++ {
		if finalRowCount[r] == 0 {
			continue
		}
		data.ByRow = append(data.ByRow, models.GroupStat{
			Key:   s.RowDict[r],
			Count: finalRowCount[r],
			Sum:   finalRowSum[r],
			Mean:  finalRowSum[r] / float64(finalRowCount[r]),
			Min:   finalRowMin[r],
			Max:   finalRowMax[r],
		})
	}
	sortStats(data.ByRow)

	// Cells (Unpack Matrix)
	for i, c := range finalMatrix {
		if c.Count > 0 {
			// Reverse Math: index -> rid, vid
			rid := i / numVars
			vid := i % numVars
			data.Cells = append(data.Cells, models.CellStat{
				Row:      s.RowDict[rid],
				Variable: s.VarDict[vid],
				Count:    c.Count,
				Mean:     c.Sum / float64(c.Count),
			})
		}
	}
	sort.Slice(data.Cells, func(i, j int) bool {
		if data.Cells[i].Mean != data.Cells[j].Mean {
			return data.Cells[i].Mean > data.Cells[j].Mean
		}
		if data.Cells[i].Row != data.Cells[j].Row {
			return data.Cells[i].Row < data.Cells[j].Row
		}
		return data.Cells[i].Variable < data.Cells[j].Variable
	})

	return data
}

// sortStats orders groups by mean descending, key ascending on ties,
// so output is deterministic regardless of worker merge order.
func sortStats(stats []models.GroupStat) {
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Mean != stats[j].Mean {
			return stats[i].Mean > stats[j].Mean
		}
		return stats[i].Key < stats[j].Key
	})
}
