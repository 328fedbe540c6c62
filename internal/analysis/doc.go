// Package analysis provides flow field diagnostics.
//
// The package includes tools for characterizing a loaded field:
//
//   - [ProbeSeries]: velocity component history at a fixed point
//   - [Spectrum]: one-sided amplitude spectrum of a series
//   - [DominantFrequency]: strongest non-DC frequency, e.g. vortex shedding
//   - [Sweep]: dominant frequencies of many probes in parallel
//   - [TraceStreamline]: particle path through a frozen time slice
//   - [StreamlinesToASCII]: terminal plot of traced paths
//
// # Shedding Frequency
//
// For a cylinder wake the transverse velocity behind the body oscillates at
// the shedding frequency:
//
//	series := analysis.ProbeSeries(f, 1.0, 0.0, analysis.ComponentY)
//	freq := analysis.DominantFrequency(series, f.Spec().TStep())
//	st := analysis.Strouhal(freq, 0.2, 1.0)
package analysis
