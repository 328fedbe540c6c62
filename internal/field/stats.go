package field

import (
	"math"
	"runtime"
	"sync"
)

// CriticalLength is the vector length at or below which a cell counts as a
// critical point.
const CriticalLength = 0.01

// Stats summarizes vector lengths over every slice of a field.
type Stats struct {
	MaxLength  float64
	MeanLength float64
	Critical   int
	Cells      int
}

// Stats scans the whole field. The scan is split across GOMAXPROCS workers.
func (f *Field) Stats() Stats {
	cells := len(f.data) / 2
	parts := make([]Stats, runtime.GOMAXPROCS(0))
	sum := make([]float64, len(parts))

	parallelFor(cells, 4096, len(parts), func(worker, start, end int) {
		p := &parts[worker]
		for i := start; i < end; i++ {
			vx, vy := float64(f.data[2*i]), float64(f.data[2*i+1])
			l := math.Hypot(vx, vy)
			if l > p.MaxLength {
				p.MaxLength = l
			}
			if l <= CriticalLength {
				p.Critical++
			}
			sum[worker] += l
			p.Cells++
		}
	})

	var s Stats
	total := 0.0
	for i, p := range parts {
		s.MaxLength = math.Max(s.MaxLength, p.MaxLength)
		s.Critical += p.Critical
		s.Cells += p.Cells
		total += sum[i]
	}
	if s.Cells > 0 {
		s.MeanLength = total / float64(s.Cells)
	}
	return s
}

// parallelFor splits [0, n) into at most workers contiguous chunks of at
// least minChunk items and runs fn on each chunk concurrently.
func parallelFor(n, minChunk, workers int, fn func(worker, start, end int)) {
	if n <= minChunk || workers <= 1 {
		fn(0, 0, n)
		return
	}
	if n/minChunk < workers {
		workers = n / minChunk
	}
	if workers < 1 {
		workers = 1
	}

	chunk := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := min(start+chunk, n)
		if start >= end {
			break
		}
		wg.Add(1)
		go func(w, s, e int) {
			defer wg.Done()
			fn(w, s, e)
		}(w, start, end)
	}
	wg.Wait()
}
