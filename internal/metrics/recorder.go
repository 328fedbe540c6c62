package metrics

import (
	"github.com/san-kum/flowvis/internal/advect"
)

// Row is one iteration's record.
type Row struct {
	Iteration int     `csv:"iteration" json:"iteration"`
	TimeSlice int     `csv:"time_slice" json:"time_slice"`
	Input     string  `csv:"input" json:"input"`
	Blend     string  `csv:"blend" json:"blend"`
	Seed      string  `csv:"seed" json:"seed"`
	Quads     int     `csv:"quads" json:"quads"`
	Luminance float64 `csv:"luminance" json:"luminance"`
	Coverage  float64 `csv:"coverage" json:"coverage"`
	Change    float64 `csv:"change" json:"change"`
}

// Recorder observes pipeline iterations.
type Recorder struct {
	metrics []Metric
	rows    []Row
	limit   int
}

// NewRecorder records the standard metrics. limit caps the number of kept
// rows; older rows are dropped first. Zero keeps everything.
func NewRecorder(limit int) *Recorder {
	return &Recorder{
		metrics: []Metric{NewLuminance(), NewCoverage(0.5), NewChange()},
		limit:   limit,
	}
}

func (r *Recorder) OnIteration(it advect.Iteration) {
	row := Row{
		Iteration: it.Number,
		TimeSlice: it.TimeSlice,
		Input:     it.Input.String(),
		Blend:     it.Blend.String(),
		Seed:      it.Seed,
		Quads:     it.Quads,
	}
	if it.Image != nil {
		for _, m := range r.metrics {
			m.Observe(it.Image)
		}
		row.Luminance = r.metrics[0].Value()
		row.Coverage = r.metrics[1].Value()
		row.Change = r.metrics[2].Value()
	}
	r.rows = append(r.rows, row)
	if r.limit > 0 && len(r.rows) > r.limit {
		r.rows = r.rows[len(r.rows)-r.limit:]
	}
}

func (r *Recorder) Rows() []Row { return r.rows }

// Series returns one metric column of the kept rows.
func (r *Recorder) Series(name string) []float64 {
	out := make([]float64, len(r.rows))
	for i, row := range r.rows {
		switch name {
		case "luminance":
			out[i] = row.Luminance
		case "coverage":
			out[i] = row.Coverage
		case "change":
			out[i] = row.Change
		}
	}
	return out
}

// Summary maps each metric name to its latest value.
func (r *Recorder) Summary() map[string]float64 {
	out := make(map[string]float64, len(r.metrics))
	for _, m := range r.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}

func (r *Recorder) Reset() {
	r.rows = nil
	for _, m := range r.metrics {
		m.Reset()
	}
}
