// Package metrics measures the images produced by advection iterations.
//
// Every [Metric] observes the completed target of an iteration and reduces
// it to a single number. A [Recorder] fans iterations out to a set of
// metrics and keeps one [Row] per iteration for plotting and export.
package metrics
