package analysis

import (
	"context"
	"errors"
	"math"
	"math/cmplx"
	"sync"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/flowvis/internal/field"
)

var ErrShortSeries = errors.New("analysis: series needs at least 4 samples")

// Component selects a velocity component.
type Component int

const (
	ComponentX Component = iota
	ComponentY
	ComponentMagnitude
)

// ProbeSeries samples the field at world position (wx, wy) in every slice.
func ProbeSeries(f *field.Field, wx, wy float64, c Component) []float64 {
	spec := f.Spec()
	x, y := spec.CellX(wx), spec.CellY(wy)
	out := make([]float64, spec.TCells)
	for t := range out {
		v := f.Sample(t, x, y)
		switch c {
		case ComponentX:
			out[t] = v.X
		case ComponentY:
			out[t] = v.Y
		default:
			out[t] = r2.Norm(v)
		}
	}
	return out
}

// Spectrum returns the one-sided amplitude spectrum of series sampled every
// dt, with the mean removed. freqs[i] is the frequency of amps[i].
func Spectrum(series []float64, dt float64) (freqs, amps []float64, err error) {
	n := len(series)
	if n < 4 {
		return nil, nil, ErrShortSeries
	}

	centered := make([]float64, n)
	copy(centered, series)
	floats.AddConst(-floats.Sum(centered)/float64(n), centered)

	coeffs := fft.FFTReal(centered)
	half := n/2 + 1
	freqs = make([]float64, half)
	amps = make([]float64, half)
	for k := 0; k < half; k++ {
		freqs[k] = float64(k) / (float64(n) * dt)
		amps[k] = cmplx.Abs(coeffs[k]) / float64(n)
	}
	return freqs, amps, nil
}

// DominantFrequency is the frequency of the largest non-DC spectral peak.
// It returns 0 for short or constant series.
func DominantFrequency(series []float64, dt float64) float64 {
	freqs, amps, err := Spectrum(series, dt)
	if err != nil {
		return 0
	}
	amps[0] = 0
	i := floats.MaxIdx(amps)
	if amps[i] <= 1e-12 {
		return 0
	}
	return freqs[i]
}

// Strouhal is the dimensionless shedding frequency f·D/U.
func Strouhal(freq, diameter, speed float64) float64 {
	if speed == 0 {
		return math.NaN()
	}
	return freq * diameter / speed
}

// ProbeResult is the dominant frequency at one probe position.
type ProbeResult struct {
	Position  r2.Vec
	Frequency float64
	Amplitude float64
}

// Sweep computes dominant frequencies of the transverse velocity at every
// probe concurrently. It stops early when ctx is cancelled.
func Sweep(ctx context.Context, f *field.Field, probes []r2.Vec) ([]ProbeResult, error) {
	results := make([]ProbeResult, len(probes))
	dt := f.Spec().TStep()

	var wg sync.WaitGroup
	for i, p := range probes {
		wg.Add(1)
		go func(idx int, p r2.Vec) {
			defer wg.Done()
			if ctx.Err() != nil {
				return
			}
			series := ProbeSeries(f, p.X, p.Y, ComponentY)
			results[idx] = ProbeResult{
				Position:  p,
				Frequency: DominantFrequency(series, dt),
				Amplitude: floats.Max(series) - floats.Min(series),
			}
		}(i, p)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
