package engine

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"

	"tidyserve/internal/table"
)

// --- 1. FAST ZERO-ALLOC PARSER ---

// fastFloat parses "-123.45" -> -123.45
func fastFloat(b []byte) float64 {
	var num float64
	var i int
	neg := false
	if len(b) > 0 && b[0] == '-' {
		neg = true
		i = 1
	}
	for i < len(b) && b[i] != '.' {
		num = num*10 + float64(b[i]-'0')
		i++
	}
	if i < len(b) {
		i++
		div := 10.0
		for i < len(b) {
			num += float64(b[i]-'0') / div
			div *= 10
			i++
		}
	}
	if neg {
		return -num
	}
	return num
}

// --- 2. MAIN LOADER ---

// LoadWide reads a wide CSV into a WideTable: first column is the row
// identifier, every remaining column is a numeric variable. Parsing is
// parallel and chunked; each worker writes into a disjoint slice range
// so no locks are needed. A row whose field count disagrees with the
// header fails the whole load (the WideTable invariant must hold).
func LoadWide(path string) (*table.WideTable, error) {
	start := time.Now()
	log.Println("Loading data (Parallel Unrolled)...")

	// A. Read File
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	// Normalize a missing trailing newline so row counting sees the
	// last line.
	if len(content) > 0 && content[len(content)-1] != '\n' {
		content = append(content, '\n')
	}

	// B. Header Row -> column names
	headerEnd := bytes.IndexByte(content, '\n')
	if headerEnd == -1 {
		return nil, fmt.Errorf("loader: %s is empty", path)
	}
	headerFields := strings.Split(strings.TrimRight(string(content[:headerEnd]), "\r"), ",")
	columns := make([]string, 0, len(headerFields)-1)
	for _, h := range headerFields[1:] {
		columns = append(columns, strings.TrimSpace(h))
	}
	numCols := len(columns)
	content = content[headerEnd+1:]

	numWorkers := runtime.NumCPU()
	if numWorkers > len(content) {
		numWorkers = 1 // tiny file: zero-sized chunks would overlap
	}
	chunkSize := len(content) / numWorkers
	if chunkSize == 0 {
		chunkSize = len(content)
	}

	// alignChunk snaps nominal byte offsets to line boundaries. Both
	// the count and parse phases use it, so chunk i's end is always
	// chunk i+1's start.
	alignChunk := func(worker, start, end int) (int, int) {
		if worker == numWorkers-1 {
			end = len(content)
		}
		if start > 0 {
			if i := bytes.IndexByte(content[start:], '\n'); i != -1 {
				start += i + 1
			} else {
				start = len(content)
			}
		}
		if end < len(content) {
			if i := bytes.IndexByte(content[end:], '\n'); i != -1 {
				end += i + 1
			} else {
				end = len(content)
			}
		}
		return start, end
	}

	// C. Count Rows (Parallel) for Exact Allocation
	rowCounts := make([]int, numWorkers)
	var countWg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		countWg.Add(1)
		go func(idx, s, e int) {
			defer countWg.Done()
			s, e = alignChunk(idx, s, e)
			if s < e {
				rowCounts[idx] = bytes.Count(content[s:e], []byte{'\n'})
			}
		}(i, i*chunkSize, (i+1)*chunkSize)
	}
	countWg.Wait()

	totalRows := 0
	for _, c := range rowCounts {
		totalRows += c
	}

	// D. Allocate ONCE
	rows := make([]string, totalRows)
	colData := make([][]float64, numCols)
	for c := range colData {
		colData[c] = make([]float64, totalRows)
	}

	offsets := make([]int, numWorkers)
	curr := 0
	for i, c := range rowCounts {
		offsets[i] = curr
		curr += c
	}

	// E. Parallel Parsing
	sep := []byte{','}
	workerErrs := make([]error, numWorkers)

	var parseWg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		parseWg.Add(1)
		go func(idx, s, e, writeOffset int) {
			defer parseWg.Done()
			s, e = alignChunk(idx, s, e)

			chunk := content[s:e]
			pos := 0
			row := 0

			for pos < len(chunk) {
				nextPos := len(chunk)
				if i := bytes.IndexByte(chunk[pos:], '\n'); i != -1 {
					nextPos = pos + i
				}
				line := chunk[pos:nextPos]
				pos = nextPos + 1

				if len(line) > 0 && line[len(line)-1] == '\r' {
					line = line[:len(line)-1]
				}
				if len(line) == 0 {
					// Row slots were preallocated from the newline
					// count; a blank line would leave a phantom row.
					workerErrs[idx] = fmt.Errorf("loader: blank line in %s", path)
					return
				}

				// Field 0: row identifier (allocates one string)
				field, rest, found := bytes.Cut(line, sep)
				if found != (numCols > 0) {
					workerErrs[idx] = fmt.Errorf("loader: row %q does not have %d fields", line, numCols+1)
					return
				}
				rows[writeOffset+row] = string(field)

				// Fields 1..N: numeric variables in header order
				for c := 0; c < numCols; c++ {
					if c == numCols-1 {
						field = rest
					} else {
						field, rest, found = bytes.Cut(rest, sep)
						if !found {
							workerErrs[idx] = fmt.Errorf("loader: row %q has %d fields, want %d", line, c+2, numCols+1)
							return
						}
					}
					colData[c][writeOffset+row] = fastFloat(field)
				}
				if bytes.IndexByte(rest, ',') != -1 {
					workerErrs[idx] = fmt.Errorf("loader: row %q has extra fields, want %d", line, numCols+1)
					return
				}

				row++
			}
		}(i, i*chunkSize, (i+1)*chunkSize, offsets[i])
	}
	parseWg.Wait()

	for _, err := range workerErrs {
		if err != nil {
			return nil, err
		}
	}

	// F. Assemble WideTable (no copy; slices were sized exactly)
	w := &table.WideTable{
		Rows:    rows,
		Columns: columns,
		Data:    make(map[string][]float64, numCols),
	}
	for c, name := range columns {
		if _, exists := w.Data[name]; exists {
			return nil, &table.DuplicateColumnError{Column: name}
		}
		w.Data[name] = colData[c]
	}

	log.Printf("Load Complete. Rows: %d. Time: %v", totalRows, time.Since(start))
	return w, nil
}
